package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texpreview/internal/configloader"
	"github.com/yaklabco/texpreview/internal/logging"
	"github.com/yaklabco/texpreview/pkg/config"
	"github.com/yaklabco/texpreview/pkg/fsutil"
	"github.com/yaklabco/texpreview/pkg/render"
	"github.com/yaklabco/texpreview/pkg/reporter"
	_ "github.com/yaklabco/texpreview/pkg/texrules/rules" // Register built-in rules
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the layered configuration with cliCfg on top.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldConfig, result.LoadedFrom)
	}

	cfg := result.Config
	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldMacros, len(cfg.Macros),
		logging.FieldRules, len(cfg.Rules),
	)
	return cfg, nil
}

// flavorOverride returns a CLI config carrying --flavor when it was given.
func flavorOverride(cmd *cobra.Command, flavor string) *config.Config {
	cliCfg := &config.Config{}
	if cmd.Flags().Changed("flavor") {
		cliCfg.Flavor = config.Flavor(flavor)
	}
	return cliCfg
}

func newOrchestrator(cfg *config.Config) *render.Orchestrator {
	opts := render.OptionsFromConfig(cfg)
	opts.Logger = logging.Default()
	return render.New(opts)
}

func readSource(ctx context.Context, path string) (string, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// newReporter builds the reporter for --format, falling back to the
// configured format when the flag was not given.
func newReporter(cmd *cobra.Command, cfg *config.Config, format string, compact bool) (reporter.Reporter, error) {
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		format = string(cfg.Format)
	}

	parsed, err := reporter.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      parsed,
		Color:       colorMode,
		ShowSummary: true,
		Compact:     compact,
	})
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}
	return rep, nil
}

func countFailed(blocks []render.CachedBlock) int {
	var n int
	for _, block := range blocks {
		if block.Err != nil {
			n++
		}
	}
	return n
}
