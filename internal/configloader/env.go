package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/texpreview/pkg/config"
)

// envVarPrefix is the prefix for all texpreview environment variables.
const envVarPrefix = "TEXPREVIEW_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR":               {"flavor", envTypeString, "Markdown flavor: commonmark or gfm"},
	"FORMAT":               {"format", envTypeString, "Report format for blocks, diff and locate: text, table, or json"},
	"STANDALONE":           {"standalone", envTypeBool, "Wrap rendered HTML in a full document: true or false"},
	"LOOKAHEAD_WINDOW":     {"splitter.lookahead_window", envTypeInt, "Closing-brace search window in bytes"},
	"DISPLAY_MATH_WINDOW":  {"splitter.display_math_window", envTypeInt, "Display math closer search window in bytes"},
	"TRAP_LINES":           {"splitter.trap_lines", envTypeInt, "Nested block size that forces a split (negative disables)"},
	"MAJOR_ENVIRONMENTS":   {"splitter.major_environments", envTypeSlice, "Comma-separated split-forcing environments"},
	"IGNORED_ENVIRONMENTS": {"splitter.ignored_environments", envTypeSlice, "Comma-separated environments kept off the stack"},
	"FULL_THRESHOLD":       {"render.full_threshold", envTypeInt, "Changed block count above which a full payload is sent"},
	"MAX_RESOLVE_PASSES":   {"render.max_resolve_passes", envTypeInt, "Nested token resolution pass budget"},
	"TYPOGRAPHER":          {"render.typographer", envTypeBool, "Smart punctuation in the markup pass: true or false"},
	"XHTML":                {"render.xhtml", envTypeBool, "Self-closing void elements in markup output: true or false"},
	"DISABLE_RULES":        {"disable_rules", envTypeSlice, "Comma-separated rule IDs, names or aliases to disable"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with TEXPREVIEW_ (e.g., TEXPREVIEW_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "standalone":
		cfg.Standalone = value
	case "render.typographer":
		cfg.Render.Typographer = value
	case "render.xhtml":
		cfg.Render.XHTML = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "splitter.lookahead_window":
		cfg.Splitter.LookaheadWindow = value
	case "splitter.display_math_window":
		cfg.Splitter.DisplayMathWindow = value
	case "splitter.trap_lines":
		cfg.Splitter.TrapLines = value
	case "render.full_threshold":
		cfg.Render.FullThreshold = value
	case "render.max_resolve_passes":
		cfg.Render.MaxResolvePasses = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "splitter.major_environments":
		cfg.Splitter.MajorEnvironments = value
	case "splitter.ignored_environments":
		cfg.Splitter.IgnoredEnvironments = value
	case "disable_rules":
		if cfg.Rules == nil {
			cfg.Rules = make(map[string]config.RuleConfig)
		}
		for _, key := range value {
			disabled := false
			cfg.Rules[key] = config.RuleConfig{Enabled: &disabled}
		}
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		out[envVarPrefix+suffix] = mapping.help
	}
	return out
}
