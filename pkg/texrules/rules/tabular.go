package rules

import (
	"strconv"
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// tabularEnvs maps tabular-like environments to the number of brace groups
// before the body.
//
//nolint:gochecknoglobals // read-only lookup table
var tabularEnvs = []struct {
	name   string
	groups int
}{
	{"tabular", 1},
	{"tabular*", 2},
	{"tabularx", 2},
	{"longtable", 1},
}

// maxRepeatedColumns bounds the count in a *{n}{spec} column group.
const maxRepeatedColumns = 64

// ruleCommands are horizontal rules dropped from table rows.
//
//nolint:gochecknoglobals // read-only lookup table
var ruleCommands = []string{
	"hline", "toprule", "midrule", "bottomrule",
	"endhead", "endfirsthead", "endfoot", "endlastfoot",
}

// TabularRule converts tabular environments into HTML tables. Cell content
// is left for the later rules.
type TabularRule struct {
	texrules.BaseRule
}

// NewTabularRule creates a new tabular rule.
func NewTabularRule() *TabularRule {
	return &TabularRule{
		BaseRule: texrules.NewBaseRule(
			"TX035",
			"tabular",
			"Tabular environments render as HTML tables",
			35,
			[]string{"tables"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *TabularRule) Apply(_ *texrules.Context, text string) (string, error) {
	if !strings.Contains(text, `\begin`) {
		return text, nil
	}

	for _, te := range tabularEnvs {
		text = texrules.ReplaceEnvironment(text, te.name, func(env texrules.Env) string {
			return renderTabular(env.Body, te.groups)
		})
	}
	return text, nil
}

func renderTabular(body string, groups int) string {
	var colSpec string
	pos := 0
	for range groups {
		group, after, ok := texrules.ReadGroup(body, skipBlankLines(body, pos))
		if !ok {
			break
		}
		colSpec = group
		pos = after
	}
	aligns := ParseColumnSpec(colSpec)

	var sb strings.Builder
	sb.WriteString("\n\n<table class=\"tp-table\">\n")

	for _, row := range splitTopLevel(body[pos:], `\\`) {
		row = stripRowRules(row)
		if strings.TrimSpace(row) == "" {
			continue
		}

		sb.WriteString("<tr>")
		col := 0
		for _, cell := range splitTopLevel(row, "&") {
			col += writeCell(&sb, cell, aligns, col)
		}
		sb.WriteString("</tr>\n")
	}

	sb.WriteString("</table>\n\n")
	return sb.String()
}

// stripRowRules removes rule commands and a leading row-spacing argument.
func stripRowRules(row string) string {
	row = strings.TrimSpace(row)
	if opt, after, ok := texrules.ReadOptional(row, 0); ok && !strings.Contains(opt, "&") {
		row = row[after:]
	}
	row = texrules.ReplaceCommands(row, ruleCommands, 0, func(texrules.Command) string { return "" })
	row = texrules.ReplaceCommand(row, "cline", 1, func(texrules.Command) string { return "" })
	row = texrules.ReplaceCommand(row, "cmidrule", 1, func(texrules.Command) string { return "" })
	return row
}

// writeCell writes one cell and returns the number of columns it spans.
func writeCell(sb *strings.Builder, cell string, aligns []string, col int) int {
	content := collapseLines(cell)
	span := 1

	trimmed := strings.TrimSpace(content)
	if name, end, ok := readControlWord(trimmed); ok && name == "multicolumn" {
		n, after1, ok1 := texrules.ReadGroup(trimmed, end)
		spec, after2, ok2 := texrules.ReadGroup(trimmed, after1)
		inner, after3, ok3 := texrules.ReadGroup(trimmed, after2)
		if ok1 && ok2 && ok3 && strings.TrimSpace(trimmed[after3:]) == "" {
			if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil && parsed > 0 {
				span = parsed
			}
			content = inner
			aligns = ParseColumnSpec(spec)
			col = 0
		}
	}

	sb.WriteString("<td")
	if span > 1 {
		sb.WriteString(` colspan="` + strconv.Itoa(span) + `"`)
	}
	if col < len(aligns) && aligns[col] != "left" {
		sb.WriteString(` style="text-align: ` + aligns[col] + `"`)
	}
	sb.WriteString(">")
	sb.WriteString(strings.TrimSpace(content))
	sb.WriteString("</td>")
	return span
}

// ParseColumnSpec returns the horizontal alignment of each column in a
// tabular column specification: "left", "center" or "right".
func ParseColumnSpec(spec string) []string {
	var aligns []string

	for idx := 0; idx < len(spec); idx++ {
		switch spec[idx] {
		case 'l', 'X':
			aligns = append(aligns, "left")
		case 'c':
			aligns = append(aligns, "center")
		case 'r':
			aligns = append(aligns, "right")
		case 'p', 'm', 'b':
			aligns = append(aligns, "left")
			if _, after, ok := texrules.ReadGroup(spec, idx+1); ok {
				idx = after - 1
			}
		case '@', '!', '>', '<':
			if _, after, ok := texrules.ReadGroup(spec, idx+1); ok {
				idx = after - 1
			}
		case '*':
			count, after1, ok1 := texrules.ReadGroup(spec, idx+1)
			inner, after2, ok2 := texrules.ReadGroup(spec, after1)
			if !ok1 || !ok2 {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(count))
			if err == nil && n > 0 && n <= maxRepeatedColumns {
				for range n {
					aligns = append(aligns, ParseColumnSpec(inner)...)
				}
			}
			idx = after2 - 1
		}
	}
	return aligns
}

// readControlWord reads a control word at the start of s.
func readControlWord(s string) (string, int, bool) {
	if !strings.HasPrefix(s, `\`) {
		return "", 0, false
	}
	end := 1
	for end < len(s) && ((s[end] >= 'a' && s[end] <= 'z') || (s[end] >= 'A' && s[end] <= 'Z')) {
		end++
	}
	if end == 1 {
		return "", 0, false
	}
	return s[1:end], end, true
}

func skipBlankLines(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t' || s[pos] == '\n') {
		pos++
	}
	return pos
}
