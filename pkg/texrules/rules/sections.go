package rules

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// sectionLevels maps sectioning commands to Markdown heading levels. Level 1
// is reserved for the document title.
//
//nolint:gochecknoglobals // read-only lookup table
var sectionLevels = []struct {
	name  string
	level int
}{
	{"part", 1},
	{"chapter", 1},
	{"section", 2},
	{"subsection", 3},
	{"subsubsection", 4},
	{"paragraph", 5},
	{"subparagraph", 6},
}

// SectioningRule turns sectioning commands into Markdown headings.
type SectioningRule struct {
	texrules.BaseRule
}

// NewSectioningRule creates a new sectioning rule.
func NewSectioningRule() *SectioningRule {
	return &SectioningRule{
		BaseRule: texrules.NewBaseRule(
			"TX080",
			"sectioning",
			"Sectioning commands render as headings",
			80,
			[]string{"structure"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *SectioningRule) Apply(_ *texrules.Context, text string) (string, error) {
	if !strings.Contains(text, `\`) {
		return text, nil
	}

	for _, sl := range sectionLevels {
		marker := strings.Repeat("#", sl.level)
		text = texrules.ReplaceCommand(text, sl.name, 1, func(c texrules.Command) string {
			title := collapseLines(c.Args[0])
			if title == "" {
				return ""
			}
			return "\n\n" + marker + " " + title + "\n\n"
		})
	}
	return text, nil
}
