package rules

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// styleTag pairs an opening and closing HTML tag.
type styleTag struct {
	open  string
	close string
}

// styleCommands map one-argument text style commands to HTML.
//
//nolint:gochecknoglobals // read-only lookup table
var styleCommands = map[string]styleTag{
	"textbf":          {"<strong>", "</strong>"},
	"textit":          {"<em>", "</em>"},
	"textsl":          {"<em>", "</em>"},
	"emph":            {"<em>", "</em>"},
	"texttt":          {"<code>", "</code>"},
	"underline":       {"<u>", "</u>"},
	"uline":           {"<u>", "</u>"},
	"sout":            {"<del>", "</del>"},
	"textsc":          {`<span class="tp-smallcaps">`, "</span>"},
	"textsf":          {`<span class="tp-sans">`, "</span>"},
	"textsuperscript": {"<sup>", "</sup>"},
	"textsubscript":   {"<sub>", "</sub>"},
	"fbox":            {`<span class="tp-fbox">`, "</span>"},
	"textrm":          {},
	"textup":          {},
	"textmd":          {},
	"textnormal":      {},
	"mbox":            {},
	"hbox":            {},
	"text":            {},
}

// styleDeclarations map declarations used inside a group, as in {\bf x}.
//
//nolint:gochecknoglobals // read-only lookup table
var styleDeclarations = map[string]styleTag{
	"bf":         {"<strong>", "</strong>"},
	"bfseries":   {"<strong>", "</strong>"},
	"it":         {"<em>", "</em>"},
	"itshape":    {"<em>", "</em>"},
	"em":         {"<em>", "</em>"},
	"sl":         {"<em>", "</em>"},
	"tt":         {"<code>", "</code>"},
	"ttfamily":   {"<code>", "</code>"},
	"sc":         {`<span class="tp-smallcaps">`, "</span>"},
	"scshape":    {`<span class="tp-smallcaps">`, "</span>"},
	"sf":         {`<span class="tp-sans">`, "</span>"},
	"sffamily":   {`<span class="tp-sans">`, "</span>"},
	"rm":         {},
	"rmfamily":   {},
	"normalfont": {},
}

// maxStyleDepth bounds the recursion into nested style arguments.
const maxStyleDepth = 32

// TextStylesRule renders font style commands as inline HTML.
type TextStylesRule struct {
	texrules.BaseRule
}

// NewTextStylesRule creates a new text styles rule.
func NewTextStylesRule() *TextStylesRule {
	return &TextStylesRule{
		BaseRule: texrules.NewBaseRule(
			"TX130",
			"text-styles",
			"Font style commands render as inline HTML",
			130,
			[]string{"text"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *TextStylesRule) Apply(_ *texrules.Context, text string) (string, error) {
	return applyStyles(text, 0), nil
}

func applyStyles(text string, depth int) string {
	if depth > maxStyleDepth || !strings.Contains(text, `\`) {
		return text
	}

	text = scanCommands(text, styleCommandSet, func(name string, _, end int) (string, int, bool) {
		arg, stop, ok := texrules.ReadGroup(text, end)
		if !ok {
			return "", end, false
		}
		tag := styleCommands[name]
		return tag.open + applyStyles(arg, depth+1) + tag.close, stop, true
	})

	text = texrules.ReplaceCommands(text, []string{"textcolor", "colorbox"}, 2, func(c texrules.Command) string {
		property := "color"
		if c.Name == "colorbox" {
			property = "background-color"
		}
		return `<span style="` + property + `: ` + texrules.EscapeHTML(strings.TrimSpace(c.Args[0])) + `">` +
			applyStyles(c.Args[1], depth+1) + "</span>"
	})

	return applyDeclarations(text, depth)
}

// applyDeclarations rewrites groups that open with a style declaration.
func applyDeclarations(text string, depth int) string {
	if !strings.Contains(text, `{\`) {
		return text
	}

	var sb strings.Builder
	last := 0
	pos := 0
	for {
		idx := strings.Index(text[pos:], `{\`)
		if idx < 0 {
			break
		}
		start := pos + idx

		name, end, ok := readControlWord(text[start+1:])
		tag, known := styleDeclarations[name]
		if !ok || !known {
			pos = start + 2
			continue
		}
		group, stop, ok := texrules.ReadGroup(text, start)
		if !ok {
			pos = start + 2
			continue
		}

		inner := strings.TrimLeft(group[end:], " ")
		sb.WriteString(text[last:start])
		sb.WriteString(tag.open + applyStyles(inner, depth+1) + tag.close)
		last = stop
		pos = stop
	}

	if last == 0 {
		return text
	}
	sb.WriteString(text[last:])
	return sb.String()
}

//nolint:gochecknoglobals // read-only lookup table
var styleCommandSet = func() map[string]bool {
	set := make(map[string]bool, len(styleCommands))
	for name := range styleCommands {
		set[name] = true
	}
	return set
}()
