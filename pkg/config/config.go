// Package config defines core configuration types for texpreview.
// These types are pure data structures with no dependency on the loader that fills them.
package config

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled *bool `mapstructure:"enabled" yaml:"enabled,omitempty"`
}

// SplitterConfig tunes the structural splitter's recovery limits and
// environment vocabularies. Zero values select the built-in defaults.
type SplitterConfig struct {
	// LookaheadWindow bounds the closing-brace search, in bytes.
	LookaheadWindow int `mapstructure:"lookahead_window" yaml:"lookahead_window,omitempty"`

	// DisplayMathWindow bounds the display math closer search, in bytes.
	DisplayMathWindow int `mapstructure:"display_math_window" yaml:"display_math_window,omitempty"`

	// TrapLines is the nested block size that forces a split. Negative disables it.
	TrapLines int `mapstructure:"trap_lines" yaml:"trap_lines,omitempty"`

	// MajorEnvironments replaces the split-forcing environment list.
	MajorEnvironments []string `mapstructure:"major_environments" yaml:"major_environments,omitempty"`

	// IgnoredEnvironments replaces the list of environments kept off the stack.
	IgnoredEnvironments []string `mapstructure:"ignored_environments" yaml:"ignored_environments,omitempty"`
}

// RenderConfig tunes the render orchestrator.
type RenderConfig struct {
	// FullThreshold is the changed block count above which a full payload is sent.
	FullThreshold int `mapstructure:"full_threshold" yaml:"full_threshold,omitempty"`

	// MaxResolvePasses bounds nested protection token resolution.
	MaxResolvePasses int `mapstructure:"max_resolve_passes" yaml:"max_resolve_passes,omitempty"`

	// Typographer turns on smart punctuation in the markup pass.
	Typographer bool `mapstructure:"typographer" yaml:"typographer,omitempty"`

	// XHTML makes the markup pass emit self-closing void elements.
	XHTML bool `mapstructure:"xhtml" yaml:"xhtml,omitempty"`
}

// OutputFormat specifies the output format for reports.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON:
		return true
	default:
		return false
	}
}

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "display-math"
	RuleFormatID       RuleFormat = "id"       // "TX020"
	RuleFormatCombined RuleFormat = "combined" // "TX020/display-math"
)

// Flavor specifies the Markdown flavor used for the generic markup pass.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// Config is the root configuration structure for texpreview.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `mapstructure:"flavor" yaml:"flavor"`

	// Splitter tunes block segmentation.
	Splitter SplitterConfig `mapstructure:"splitter" yaml:"splitter,omitempty"`

	// Render tunes the orchestrator.
	Render RenderConfig `mapstructure:"render" yaml:"render,omitempty"`

	// Macros maps a macro name to its body. Parameters (#1..#9) are inferred
	// from the body. Document definitions override these.
	Macros map[string]string `mapstructure:"macros" yaml:"macros,omitempty"`

	// Rules contains per-rule configuration keyed by rule ID, name or alias.
	Rules map[string]RuleConfig `mapstructure:"rules" yaml:"rules,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `mapstructure:"-" yaml:"-"`

	// Output is the destination file; empty means standard output.
	Output string `mapstructure:"-" yaml:"-"`

	// Standalone wraps rendered HTML in a complete document.
	Standalone bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Flavor:     FlavorGFM,
		Macros:     make(map[string]string),
		Rules:      make(map[string]RuleConfig),
		Format:     FormatText,
		RuleFormat: RuleFormatName,
	}
}

// RuleOverrides returns the explicit enable/disable settings keyed as written.
func (c *Config) RuleOverrides() map[string]bool {
	if c == nil || len(c.Rules) == 0 {
		return nil
	}
	out := make(map[string]bool, len(c.Rules))
	for key, rc := range c.Rules {
		if rc.Enabled != nil {
			out[key] = *rc.Enabled
		}
	}
	return out
}
