package rules

import (
	"regexp"
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// layoutDeclarations are argument-less commands with no visible output.
//
//nolint:gochecknoglobals // read-only lookup table
var layoutDeclarations = []string{
	"centering", "raggedright", "raggedleft", "noindent", "indent",
	"newpage", "clearpage", "cleardoublepage", "pagebreak", "nopagebreak",
	"vfill", "medskip", "smallskip", "bigskip", "protect", "relax",
	"tableofcontents", "listoffigures", "listoftables", "appendix",
	"frontmatter", "mainmatter", "backmatter", "onecolumn", "twocolumn",
	"tiny", "scriptsize", "footnotesize", "small", "normalsize",
	"large", "Large", "LARGE", "huge", "Huge", "selectfont",
	"bfseries", "itshape", "ttfamily", "normalfont", "printbibliography",
}

// layoutCommands map commands with brace arguments to their argument counts.
//
//nolint:gochecknoglobals // read-only lookup table
var layoutCommands = []struct {
	name  string
	nargs int
}{
	{"vspace", 1},
	{"addvspace", 1},
	{"pagestyle", 1},
	{"thispagestyle", 1},
	{"bibliographystyle", 1},
	{"graphicspath", 1},
	{"usepackage", 1},
	{"documentclass", 1},
	{"input", 1},
	{"include", 1},
	{"setlength", 2},
	{"addtolength", 2},
	{"setcounter", 2},
	{"addtocounter", 2},
	{"addcontentsline", 3},
}

// envMarkerPattern matches \begin and \end of environments no rule handled.
var envMarkerPattern = regexp.MustCompile(`\\(?:begin|end)\{[A-Za-z@*]+\}`)

// LayoutRule removes page layout and spacing commands. It runs last and
// also drops the markers of environments no other rule handled, keeping
// their content.
type LayoutRule struct {
	texrules.BaseRule
}

// NewLayoutRule creates a new layout rule.
func NewLayoutRule() *LayoutRule {
	return &LayoutRule{
		BaseRule: texrules.NewBaseRule(
			"TX160",
			"layout",
			"Spacing and page layout commands are removed",
			160,
			[]string{"whitespace"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *LayoutRule) Apply(_ *texrules.Context, text string) (string, error) {
	if !strings.Contains(text, `\`) {
		return text, nil
	}

	empty := func(texrules.Command) string { return "" }
	for _, lc := range layoutCommands {
		text = texrules.ReplaceCommand(text, lc.name, lc.nargs, empty)
	}
	text = texrules.ReplaceCommands(text, []string{"hspace", "hskip"}, 1, func(texrules.Command) string { return " " })
	text = texrules.ReplaceCommands(text, []string{"hfill", "hfil"}, 0, func(texrules.Command) string { return " " })
	text = texrules.ReplaceCommands(text, []string{"newline", "linebreak"}, 0, func(texrules.Command) string { return "<br>" })
	text = texrules.ReplaceCommand(text, "par", 0, func(texrules.Command) string { return "\n\n" })
	text = texrules.ReplaceCommands(text, layoutDeclarations, 0, empty)

	return envMarkerPattern.ReplaceAllString(text, ""), nil
}
