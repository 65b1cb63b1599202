package rules

import "github.com/yaklabco/texpreview/pkg/texrules"

// DedentRule strips line indentation, which the Markdown pass would
// otherwise read as an indented code block.
type DedentRule struct {
	texrules.BaseRule
}

// NewDedentRule creates a new dedent rule.
func NewDedentRule() *DedentRule {
	return &DedentRule{
		BaseRule: texrules.NewBaseRule(
			"TX015",
			"dedent",
			"Leading indentation is removed from every line",
			15,
			[]string{"whitespace"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *DedentRule) Apply(_ *texrules.Context, text string) (string, error) {
	return texrules.Dedent(text), nil
}
