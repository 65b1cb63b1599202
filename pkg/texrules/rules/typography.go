package rules

import (
	"strings"
	"time"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// typographyReplacer converts TeX ligatures and ties. Longer sequences come
// first so --- wins over --.
//
//nolint:gochecknoglobals // read-only replacer
var typographyReplacer = strings.NewReplacer(
	"---", "—",
	"--", "–",
	"``", "“",
	"''", "”",
	"`", "‘",
	"'", "’",
	"~", "\u00a0",
)

// logoCommands map text commands to the text they print.
//
//nolint:gochecknoglobals // read-only lookup table
var logoCommands = map[string]string{
	"LaTeX":             "LaTeX",
	"LaTeXe":            "LaTeX2ε",
	"TeX":               "TeX",
	"BibTeX":            "BibTeX",
	"ldots":             "…",
	"dots":              "…",
	"textellipsis":      "…",
	"textendash":        "–",
	"textemdash":        "—",
	"textquoteleft":     "‘",
	"textquoteright":    "’",
	"textquotedblleft":  "“",
	"textquotedblright": "”",
	"slash":             "/",
	"quad":              "\u2002",
	"qquad":             "\u2003",
}

// TypographyRule applies TeX typographic conventions to running text.
type TypographyRule struct {
	texrules.BaseRule
	now func() time.Time
}

// NewTypographyRule creates a new typography rule.
func NewTypographyRule() *TypographyRule {
	return &TypographyRule{
		BaseRule: texrules.NewBaseRule(
			"TX150",
			"typography",
			"Quotes, dashes, ties and logos render as typographic characters",
			150,
			[]string{"text"},
		),
		now: time.Now,
	}
}

// Apply implements texrules.Rule.
func (r *TypographyRule) Apply(_ *texrules.Context, text string) (string, error) {
	text = scanCommands(text, typographyCommands, func(name string, _, end int) (string, int, bool) {
		stop := end
		switch {
		case strings.HasPrefix(text[end:], "{}"):
			stop += 2
		case end < len(text) && text[end] == ' ':
			stop++
		}
		if name == "today" {
			return r.now().Format("January 2, 2006"), stop, true
		}
		return logoCommands[name], stop, true
	})
	return typographyReplacer.Replace(text), nil
}

//nolint:gochecknoglobals // read-only lookup table
var typographyCommands = func() map[string]bool {
	set := nameSet("today")
	for name := range logoCommands {
		set[name] = true
	}
	return set
}()
