package rules

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

//nolint:gochecknoglobals // read-only lookup table
var refCommands = []string{"ref", "eqref", "autoref", "cref", "Cref", "vref", "pageref", "nameref"}

// ReferencesRule renders cross references as links to their labels.
type ReferencesRule struct {
	texrules.BaseRule
}

// NewReferencesRule creates a new references rule.
func NewReferencesRule() *ReferencesRule {
	return &ReferencesRule{
		BaseRule: texrules.NewBaseRule(
			"TX060",
			"references",
			"Cross references render as links to labels",
			60,
			[]string{"references", "protect"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *ReferencesRule) Apply(ctx *texrules.Context, text string) (string, error) {
	return texrules.ReplaceCommands(text, refCommands, 1, func(c texrules.Command) string {
		keys := splitKeys(c.Args[0])
		links := make([]string, 0, len(keys))
		for _, key := range keys {
			links = append(links, RefLink(key))
		}
		html := strings.Join(links, ", ")
		if c.Name == "eqref" {
			html = "(" + html + ")"
		}
		return ctx.ProtectHTML(html)
	}), nil
}

// RefLink returns the link for a reference to label.
func RefLink(label string) string {
	escaped := texrules.EscapeHTML(label)
	return `<a class="tp-ref" href="#` + escaped + `">` + escaped + `</a>`
}

// LabelsRule turns labels into anchors.
type LabelsRule struct {
	texrules.BaseRule
}

// NewLabelsRule creates a new labels rule.
func NewLabelsRule() *LabelsRule {
	return &LabelsRule{
		BaseRule: texrules.NewBaseRule(
			"TX070",
			"labels",
			"Labels become link targets",
			70,
			[]string{"references", "protect"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *LabelsRule) Apply(ctx *texrules.Context, text string) (string, error) {
	return texrules.ReplaceCommand(text, "label", 1, func(c texrules.Command) string {
		return ctx.ProtectHTML(`<span class="tp-label" id="` + texrules.EscapeHTML(strings.TrimSpace(c.Args[0])) + `"></span>`)
	}), nil
}
