package rules

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

//nolint:gochecknoglobals // read-only lookup table
var listEnvNames = []string{"itemize", "enumerate", "description"}

// ListsRule converts list environments into Markdown lists. Nested lists are
// indented under their parent item.
type ListsRule struct {
	texrules.BaseRule
}

// NewListsRule creates a new lists rule.
func NewListsRule() *ListsRule {
	return &ListsRule{
		BaseRule: texrules.NewBaseRule(
			"TX120",
			"lists",
			"List environments render as Markdown lists",
			120,
			[]string{"structure", "lists"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *ListsRule) Apply(_ *texrules.Context, text string) (string, error) {
	return convertLists(text, "\n\n"), nil
}

// convertLists replaces each outermost list environment with a Markdown
// list surrounded by pad.
func convertLists(text, pad string) string {
	if !strings.Contains(text, `\begin`) {
		return text
	}

	pos := 0
	for {
		env, ok := firstListEnv(text, pos)
		if !ok {
			return text
		}
		before := strings.TrimRight(text[:env.Start], " \t\n")
		list := pad + renderList(env) + pad
		text = before + list + strings.TrimLeft(text[env.End:], " \t\n")
		pos = len(before) + len(list)
	}
}

// firstListEnv returns the list environment that starts first at or after pos.
func firstListEnv(text string, pos int) (texrules.Env, bool) {
	var best texrules.Env
	found := false
	for _, name := range listEnvNames {
		env, ok := texrules.FindEnvironment(text, name, pos)
		if ok && (!found || env.Start < best.Start) {
			best = env
			found = true
		}
	}
	return best, found
}

func renderList(env texrules.Env) string {
	var lines []string
	for idx, item := range splitItems(env.Body) {
		marker := "- "
		if env.Name == "enumerate" {
			marker = "1. "
		}

		content := strings.TrimSpace(convertLists(item.content, "\n"))
		if item.hasLabel {
			label := strings.TrimSpace(item.label)
			if env.Name == "description" {
				label = "<strong>" + label + "</strong>"
			}
			content = strings.TrimSpace(label + " " + content)
		}

		if idx > 0 && strings.Contains(content, "\n\n") {
			lines = append(lines, "")
		}
		lines = append(lines, indentItem(marker, content))
	}
	return strings.Join(lines, "\n")
}

// indentItem prefixes content with marker and indents continuation lines to
// the item's content column.
func indentItem(marker, content string) string {
	indent := strings.Repeat(" ", len(marker))
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != "" {
			lines[i] = indent + lines[i]
		} else {
			lines[i] = ""
		}
	}
	return marker + strings.Join(lines, "\n")
}

type listItem struct {
	label    string
	hasLabel bool
	content  string
}

// splitItems splits a list body on the \item commands that belong to it.
// Text before the first item is dropped.
func splitItems(body string) []listItem {
	var items []listItem
	var current *listItem
	start := 0
	depth := 0

	flush := func(end int) {
		if current != nil {
			current.content = body[start:end]
			items = append(items, *current)
		}
	}

	for idx := 0; idx < len(body); idx++ {
		switch {
		case strings.HasPrefix(body[idx:], `\begin{`):
			depth++
			idx = skipEnvName(body, idx+len(`\begin{`)) - 1
		case strings.HasPrefix(body[idx:], `\end{`):
			depth--
			idx = skipEnvName(body, idx+len(`\end{`)) - 1
		case body[idx] == '{':
			depth++
		case body[idx] == '}':
			depth--
		case depth == 0 && isItemAt(body, idx):
			flush(idx)
			current = &listItem{}
			pos := idx + len(`\item`)
			if label, after, ok := texrules.ReadOptional(body, pos); ok {
				current.label = label
				current.hasLabel = true
				pos = after
			}
			start = pos
			idx = pos - 1
		case body[idx] == '\\':
			idx++
		}
	}
	flush(len(body))
	return items
}

func isItemAt(body string, idx int) bool {
	if !strings.HasPrefix(body[idx:], `\item`) {
		return false
	}
	next := idx + len(`\item`)
	return next >= len(body) || !isASCIILetter(body[next])
}

// skipEnvName returns the offset past the } closing an environment name that
// starts at pos.
func skipEnvName(body string, pos int) int {
	if end := strings.IndexByte(body[pos:], '}'); end >= 0 {
		return pos + end + 1
	}
	return len(body)
}
