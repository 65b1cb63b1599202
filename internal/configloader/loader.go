// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support and validation.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/texpreview/pkg/config"
	"github.com/yaklabco/texpreview/pkg/texrules"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Registry resolves rule keys. Defaults to texrules.DefaultRegistry.
	Registry *texrules.Registry

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (TEXPREVIEW_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.texpreview.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/texpreview/config.yaml)
//  6. System config (/etc/texpreview/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	registry := opts.Registry
	if registry == nil {
		registry = texrules.DefaultRegistry
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	// Files, lowest to highest precedence.
	layers := []struct {
		name    string
		path    string
		enabled bool
	}{
		{"system", paths.System, !opts.IgnoreSystemConfig},
		{"user", paths.User, !opts.IgnoreUserConfig},
		{"project", paths.Project, !opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, true},
	}

	for _, layer := range layers {
		if !layer.enabled || layer.path == "" {
			continue
		}
		layerCfg, err := loadConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		cfg = merge(cfg, layerCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	// Normalize rule keys to canonical IDs so that names and aliases used in
	// different layers address the same rule.
	normalizeRuleKeys(cfg, registry, result)

	validation := Validate(cfg, registry)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}

	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML file.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if validation := ValidateWithFile(cfg, nil, path); !validation.Valid() {
		return nil, &validation.Errors[0]
	}

	return cfg, nil
}

// normalizeRuleKeys converts rule names and aliases to canonical IDs in the config.
// If a rule is specified by both ID and name, it warns and uses the last value encountered.
func normalizeRuleKeys(cfg *config.Config, registry *texrules.Registry, result *LoadResult) {
	if len(cfg.Rules) == 0 {
		return
	}

	normalized := make(map[string]config.RuleConfig, len(cfg.Rules))
	seenIDs := make(map[string]string) // canonical ID -> original key

	for key, ruleCfg := range cfg.Rules {
		canonicalID, _, found := registry.Resolve(key)
		if !found {
			// Unknown rule: kept as-is, validation warns about it.
			normalized[key] = ruleCfg
			continue
		}

		if originalKey, exists := seenIDs[canonicalID]; exists {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate rule configuration: %q and %q both refer to %s; using last value",
					originalKey, key, canonicalID))
		}

		seenIDs[canonicalID] = key
		normalized[canonicalID] = ruleCfg
	}

	cfg.Rules = normalized
}
