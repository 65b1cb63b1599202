package rules

import (
	"regexp"
	"strings"
	"time"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// controlWordPattern matches control words, with an optional star.
var controlWordPattern = regexp.MustCompile(`\\[A-Za-z@]+\*?`)

// MaketitleRule renders \maketitle from the document metadata.
type MaketitleRule struct {
	texrules.BaseRule
	now func() time.Time
}

// NewMaketitleRule creates a new maketitle rule.
func NewMaketitleRule() *MaketitleRule {
	return &MaketitleRule{
		BaseRule: texrules.NewBaseRule(
			"TX090",
			"maketitle",
			"The title block renders from the document metadata",
			90,
			[]string{"structure", "protect"},
		),
		now: time.Now,
	}
}

// Apply implements texrules.Rule.
func (r *MaketitleRule) Apply(ctx *texrules.Context, text string) (string, error) {
	return texrules.ReplaceCommand(text, "maketitle", 0, func(texrules.Command) string {
		if ctx.Meta.IsZero() {
			return ""
		}
		return texrules.HTMLBlock(ctx.ProtectHTML(r.titleHTML(ctx.Meta)))
	}), nil
}

func (r *MaketitleRule) titleHTML(meta texrules.Metadata) string {
	var sb strings.Builder
	sb.WriteString(`<header class="tp-title">`)

	if meta.Title != "" {
		sb.WriteString("<h1>" + metadataHTML(meta.Title) + "</h1>")
	}
	if meta.Author != "" {
		var authors []string
		for _, author := range strings.Split(meta.Author, `\and`) {
			if html := metadataHTML(author); html != "" {
				authors = append(authors, `<span class="tp-author">`+html+`</span>`)
			}
		}
		sb.WriteString(`<p class="tp-authors">` + strings.Join(authors, ", ") + "</p>")
	}
	if meta.Date != "" {
		date := strings.ReplaceAll(meta.Date, `\today`, r.now().Format("January 2, 2006"))
		sb.WriteString(`<p class="tp-date">` + metadataHTML(date) + "</p>")
	}

	sb.WriteString("</header>")
	return sb.String()
}

// metadataHTML reduces a metadata field to escaped text. Line breaks are
// kept; footnotes and other commands are dropped.
func metadataHTML(field string) string {
	field = texrules.ReplaceCommand(field, "thanks", 1, func(texrules.Command) string { return "" })

	lines := strings.Split(field, `\\`)
	for i, line := range lines {
		line = controlWordPattern.ReplaceAllString(line, "")
		line = strings.NewReplacer("{", "", "}", "", "~", " ").Replace(line)
		lines[i] = texrules.EscapeHTML(collapseLines(line))
	}

	var kept []string
	for _, line := range lines {
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "<br>")
}
