package rules

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// citeStyle selects how a citation command renders its keys.
type citeStyle int

const (
	citeBracketed citeStyle = iota // [a, b, note]
	citeBare                       // a, b
	citeTextual                    // a [note]
	citeHidden                     // nothing
)

//nolint:gochecknoglobals // read-only lookup table
var citeStyles = map[string]citeStyle{
	"cite":       citeBracketed,
	"citep":      citeBracketed,
	"parencite":  citeBracketed,
	"autocite":   citeBracketed,
	"supercite":  citeBracketed,
	"footcite":   citeBracketed,
	"citealp":    citeBare,
	"citeauthor": citeBare,
	"citeyear":   citeBare,
	"citetitle":  citeBare,
	"citet":      citeTextual,
	"citealt":    citeTextual,
	"textcite":   citeTextual,
	"nocite":     citeHidden,
}

//nolint:gochecknoglobals // read-only lookup table
var citeCommands = func() map[string]bool {
	set := make(map[string]bool, len(citeStyles))
	for name := range citeStyles {
		set[name] = true
	}
	return set
}()

// CitationsRule renders citation commands as links to bibliography entries.
type CitationsRule struct {
	texrules.BaseRule
}

// NewCitationsRule creates a new citations rule.
func NewCitationsRule() *CitationsRule {
	return &CitationsRule{
		BaseRule: texrules.NewBaseRule(
			"TX050",
			"citations",
			"Citations render as links to bibliography entries",
			50,
			[]string{"references", "protect"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *CitationsRule) Apply(ctx *texrules.Context, text string) (string, error) {
	return scanCommands(text, citeCommands, func(name string, _, end int) (string, int, bool) {
		return renderCitation(ctx, citeStyles[name], text, end)
	}), nil
}

// renderCitation parses the star, up to two notes and the key list that
// follow a citation command at pos.
func renderCitation(ctx *texrules.Context, style citeStyle, text string, pos int) (string, int, bool) {
	if pos < len(text) && text[pos] == '*' {
		pos++
	}

	var notes []string
	for range 2 {
		note, after, ok := texrules.ReadOptional(text, pos)
		if !ok {
			break
		}
		notes = append(notes, note)
		pos = after
	}

	list, end, ok := texrules.ReadGroup(text, pos)
	if !ok {
		return "", pos, false
	}
	if style == citeHidden {
		return "", end, true
	}

	keys := splitKeys(list)
	links := make([]string, 0, len(keys))
	for _, key := range keys {
		links = append(links, ctx.ProtectHTML(CiteLink(key)))
	}
	body := strings.Join(links, ", ")

	// With one note it is the postnote; with two the first is the prenote.
	var pre, post string
	switch len(notes) {
	case 0:
	case 1:
		post = citeNote(notes[0])
	default:
		pre, post = citeNote(notes[0]), citeNote(notes[1])
	}

	var html string
	switch style {
	case citeBracketed:
		if pre != "" {
			body = pre + " " + body
		}
		if post != "" {
			body += ", " + post
		}
		html = "[" + body + "]"
	case citeTextual:
		html = body
		if post != "" {
			html += " [" + post + "]"
		}
	default:
		html = body
	}

	return ctx.ProtectHTML(`<span class="tp-citation">` + html + `</span>`), end, true
}

// CiteLink returns the link for one citation key.
func CiteLink(key string) string {
	return `<a class="tp-cite" href="#` + CiteAnchor(key) + `">` + texrules.EscapeHTML(key) + `</a>`
}

// CiteAnchor returns the element id of a bibliography entry.
func CiteAnchor(key string) string {
	return "cite-" + texrules.EscapeHTML(key)
}

func citeNote(note string) string {
	return texrules.EscapeHTML(strings.ReplaceAll(strings.TrimSpace(note), "~", " "))
}

// BibliographyRule renders thebibliography as an ordered list of entries.
type BibliographyRule struct {
	texrules.BaseRule
}

// NewBibliographyRule creates a new bibliography rule.
func NewBibliographyRule() *BibliographyRule {
	return &BibliographyRule{
		BaseRule: texrules.NewBaseRule(
			"TX055",
			"bibliography",
			"Bibliography environments render as reference lists",
			55,
			[]string{"references"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *BibliographyRule) Apply(ctx *texrules.Context, text string) (string, error) {
	text = texrules.ReplaceEnvironment(text, "thebibliography", renderBibliography)
	text = texrules.ReplaceCommand(text, "bibliography", 1, func(c texrules.Command) string {
		html := `<div class="tp-bibliography" data-source="` + texrules.EscapeHTML(c.Args[0]) + `"></div>`
		return texrules.HTMLBlock(ctx.ProtectHTML(html))
	})
	return text, nil
}

func renderBibliography(env texrules.Env) string {
	body := env.Body
	// The widest-label argument only sets indentation.
	if _, after, ok := texrules.ReadGroup(body, 0); ok {
		body = body[after:]
	}

	var sb strings.Builder
	sb.WriteString("\n\n<section class=\"tp-bibliography\">\n<h2>References</h2>\n<ol>\n")

	for _, entry := range splitBibItems(body) {
		sb.WriteString(`<li id="` + CiteAnchor(entry.key) + `">`)
		sb.WriteString(`<span class="tp-bibkey">[` + texrules.EscapeHTML(entry.label) + `]</span> `)
		sb.WriteString(collapseLines(strings.ReplaceAll(entry.text, `\newblock`, " ")))
		sb.WriteString("</li>\n")
	}

	sb.WriteString("</ol>\n</section>\n\n")
	return sb.String()
}

type bibItem struct {
	key   string
	label string
	text  string
}

// splitBibItems splits a bibliography body on \bibitem.
func splitBibItems(body string) []bibItem {
	var items []bibItem
	const marker = `\bibitem`

	rest := body
	for {
		idx := strings.Index(rest, marker)
		if idx < 0 {
			return items
		}
		rest = rest[idx+len(marker):]
		if rest != "" && isASCIILetter(rest[0]) {
			continue
		}

		item := bibItem{}
		pos := 0
		if label, after, ok := texrules.ReadOptional(rest, pos); ok {
			item.label = strings.TrimSpace(label)
			pos = after
		}
		key, after, ok := texrules.ReadGroup(rest, pos)
		if !ok {
			continue
		}
		item.key = strings.TrimSpace(key)
		if item.label == "" {
			item.label = item.key
		}

		rest = rest[after:]
		next := strings.Index(rest, marker)
		if next < 0 {
			next = len(rest)
		}
		item.text = rest[:next]
		items = append(items, item)
	}
}

func isASCIILetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
