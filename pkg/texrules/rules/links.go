package rules

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// LinksRule renders hyperlinks and footnotes.
type LinksRule struct {
	texrules.BaseRule
}

// NewLinksRule creates a new links rule.
func NewLinksRule() *LinksRule {
	return &LinksRule{
		BaseRule: texrules.NewBaseRule(
			"TX140",
			"links",
			"URLs, hyperlinks and footnotes render as inline HTML",
			140,
			[]string{"links", "protect"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *LinksRule) Apply(ctx *texrules.Context, text string) (string, error) {
	if !strings.Contains(text, `\`) {
		return text, nil
	}

	text = texrules.ReplaceCommand(text, "href", 2, func(c texrules.Command) string {
		open := ctx.ProtectHTML(`<a class="tp-link" href="` + texrules.EscapeHTML(strings.TrimSpace(c.Args[0])) + `">`)
		return open + c.Args[1] + ctx.ProtectHTML("</a>")
	})
	text = texrules.ReplaceCommand(text, "url", 1, func(c texrules.Command) string {
		url := texrules.EscapeHTML(strings.TrimSpace(c.Args[0]))
		return ctx.ProtectHTML(`<a class="tp-url" href="` + url + `">` + url + `</a>`)
	})
	text = texrules.ReplaceCommand(text, "email", 1, func(c texrules.Command) string {
		addr := texrules.EscapeHTML(strings.TrimSpace(c.Args[0]))
		return ctx.ProtectHTML(`<a class="tp-email" href="mailto:` + addr + `">` + addr + `</a>`)
	})

	text = texrules.ReplaceCommands(text, []string{"footnote", "footnotetext"}, 1, func(c texrules.Command) string {
		return ctx.ProtectHTML(`<span class="tp-footnote">`) + collapseLines(c.Args[0]) + ctx.ProtectHTML("</span>")
	})
	text = texrules.ReplaceCommand(text, "footnotemark", 0, func(texrules.Command) string {
		return ctx.ProtectHTML(`<sup class="tp-footnote-mark">*</sup>`)
	})
	return text, nil
}
