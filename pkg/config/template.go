package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes all rules with their documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string

	// Rules describes the substitution rules to document in a full template.
	Rules []RuleInfo
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Order       int
	Enabled     bool
	Tags        []string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(opts.Rules)
	}
	if opts.Full {
		return generateFullTemplate(opts), nil
	}
	return generateMinimalTemplate(), nil
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Markdown flavor for the generic markup pass: commonmark or gfm
flavor: gfm

# Splitter recovery limits (0 = built-in default)
# splitter:
#   lookahead_window: 2000
#   display_math_window: 2000
#   trap_lines: 50

# Render tuning
# render:
#   full_threshold: 40
#   max_resolve_passes: 15
#   typographer: false
#   xhtml: false

# Macros available to every document (document definitions win)
# macros:
#   R: \mathbb{R}
#   norm: '\left\| #1 \right\|'

# Rule-specific configuration, keyed by ID, name or alias
# rules:
#   TX150:
#     enabled: false
`)

	return buf.Bytes()
}

// generateFullTemplate creates a full template with all rules documented.
func generateFullTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(`# texpreview configuration - Full Template
# See: https://github.com/yaklabco/texpreview
#
# This template includes all available rules with their default settings.
# Uncomment and modify settings as needed.

# Markdown flavor for the generic markup pass: commonmark or gfm
flavor: gfm

# Splitter recovery limits and environment vocabularies
splitter:
  lookahead_window: 2000
  display_math_window: 2000
  trap_lines: 50
  # major_environments: [equation, figure, theorem]
  # ignored_environments: [document, center]

# Render tuning
render:
  full_threshold: 40
  max_resolve_passes: 15
  typographer: false
  xhtml: false

# Macros available to every document
# macros:
#   R: \mathbb{R}

# Rule-specific configuration
rules:
`)

	rules := append([]RuleInfo(nil), opts.Rules...)
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Order != rules[j].Order {
			return rules[i].Order < rules[j].Order
		}
		return rules[i].ID < rules[j].ID
	})

	for _, rule := range rules {
		fmt.Fprintf(&buf, "\n  # %s: %s\n", rule.ID, rule.Name)
		fmt.Fprintf(&buf, "  # %s\n", wrapComment(rule.Description, commentWrapWidth))
		if len(rule.Tags) > 0 {
			fmt.Fprintf(&buf, "  # Tags: %s\n", strings.Join(rule.Tags, ", "))
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
	}

	return buf.Bytes()
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON(rules []RuleInfo) ([]byte, error) {
	rulesMap := make(map[string]any, len(rules))
	for _, r := range rules {
		rulesMap[r.ID] = map[string]any{"enabled": r.Enabled}
	}

	cfg := map[string]any{
		"flavor": string(FlavorGFM),
		"splitter": map[string]any{
			"lookahead_window":    2000,
			"display_math_window": 2000,
			"trap_lines":          50,
		},
		"render": map[string]any{
			"full_threshold":     40,
			"max_resolve_passes": 15,
			"typographer":        false,
			"xhtml":              false,
		},
		"macros": map[string]any{},
		"rules":  rulesMap,
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# texpreview configuration
# See: https://github.com/yaklabco/texpreview`
}
