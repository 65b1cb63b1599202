package configloader

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/texpreview/pkg/config"
	"github.com/yaklabco/texpreview/pkg/mathrender"
	"github.com/yaklabco/texpreview/pkg/texrules"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "render.full_threshold").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown rules).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownFlavors lists valid flavor values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFlavors = map[config.Flavor]bool{
	config.FlavorCommonMark: true,
	config.FlavorGFM:        true,
}

// Validate checks a configuration for errors and warnings. Rule keys are
// checked against registry; a nil registry selects texrules.DefaultRegistry.
func Validate(cfg *config.Config, registry *texrules.Registry) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}
	if registry == nil {
		registry = texrules.DefaultRegistry
	}

	result := &ValidationResult{}

	if cfg.Flavor != "" && !knownFlavors[cfg.Flavor] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "flavor",
			Value:   cfg.Flavor,
			Message: fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor),
		})
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, table, json, html", cfg.Format),
		})
	}

	validateNonNegative(result, "splitter.lookahead_window", cfg.Splitter.LookaheadWindow)
	validateNonNegative(result, "splitter.display_math_window", cfg.Splitter.DisplayMathWindow)
	validateNonNegative(result, "render.full_threshold", cfg.Render.FullThreshold)
	validateNonNegative(result, "render.max_resolve_passes", cfg.Render.MaxResolvePasses)

	validateEnvironments(result, "splitter.major_environments", cfg.Splitter.MajorEnvironments)
	validateEnvironments(result, "splitter.ignored_environments", cfg.Splitter.IgnoredEnvironments)

	validateMacros(cfg, result)
	validateRules(cfg, registry, result)

	return result
}

func validateNonNegative(result *ValidationResult, field string, value int) {
	if value < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be >= 0 (0 means default)",
		})
	}
}

func validateEnvironments(result *ValidationResult, field string, names []string) {
	for i, name := range names {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `{}\ `) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Value:   name,
				Message: fmt.Sprintf("invalid environment name %q", name),
			})
		}
	}
}

// validateMacros checks macro names and that bodies have balanced braces.
func validateMacros(cfg *config.Config, result *ValidationResult) {
	for _, name := range slices.Sorted(maps.Keys(cfg.Macros)) {
		body := cfg.Macros[name]
		bare := strings.TrimPrefix(name, `\`)
		if bare == "" || strings.ContainsAny(bare, "{}# \t\n") {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "macros." + name,
				Value:   name,
				Message: fmt.Sprintf("invalid macro name %q", name),
			})
			continue
		}
		if err := mathrender.CheckBraces(body); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "macros." + name,
				Value:   body,
				Message: err.Error(),
			})
		}
	}
}

// validateRules warns about rule keys no registered rule answers to.
func validateRules(cfg *config.Config, registry *texrules.Registry, result *ValidationResult) {
	for _, key := range slices.Sorted(maps.Keys(cfg.Rules)) {
		if _, _, found := registry.Resolve(key); !found {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "rules." + key,
				Value:   key,
				Message: fmt.Sprintf("unknown rule %q; it will be ignored", key),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, registry *texrules.Registry, filePath string) *ValidationResult {
	result := Validate(cfg, registry)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f config.Flavor) bool {
	return knownFlavors[f]
}
