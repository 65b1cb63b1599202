package rules

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
	"github.com/yaklabco/texpreview/pkg/texsplit"
)

// CommentsRule removes comments. A comment also consumes its line break and
// the indentation of the following line, joining the two lines as TeX does.
type CommentsRule struct {
	texrules.BaseRule
}

// NewCommentsRule creates a new comments rule.
func NewCommentsRule() *CommentsRule {
	return &CommentsRule{
		BaseRule: texrules.NewBaseRule(
			"TX010",
			"comments",
			"Comments are removed and their line breaks joined",
			10,
			[]string{"whitespace"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *CommentsRule) Apply(_ *texrules.Context, text string) (string, error) {
	if !strings.Contains(text, "%") {
		return text, nil
	}

	tokens := texsplit.Lex(text)
	var sb strings.Builder
	sb.Grow(len(text))
	skipIndent := false

	for idx := 0; idx < len(tokens); idx++ {
		tok := tokens[idx]
		if tok.Kind == texsplit.TokComment {
			if idx+1 < len(tokens) && tokens[idx+1].Kind == texsplit.TokNewline {
				idx++
				skipIndent = true
			}
			continue
		}

		chunk := tok.Text(text)
		if skipIndent {
			chunk = strings.TrimLeft(chunk, " \t")
			skipIndent = chunk == ""
		}
		sb.WriteString(chunk)
	}

	return sb.String(), nil
}
