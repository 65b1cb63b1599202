package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/texpreview/pkg/texrules/rules"
)

func TestTabularRule(t *testing.T) {
	t.Parallel()

	text := "\\begin{tabular}{lc}\n\\hline\na & b \\\\\nc & d \\\\\n\\hline\n\\end{tabular}"
	want := "\n\n<table class=\"tp-table\">\n" +
		"<tr><td>a</td><td style=\"text-align: center\">b</td></tr>\n" +
		"<tr><td>c</td><td style=\"text-align: center\">d</td></tr>\n" +
		"</table>\n\n"

	assert.Equal(t, want, apply(t, rules.NewTabularRule(), text))
}

func TestTabularRule_Cells(t *testing.T) {
	t.Parallel()

	rule := rules.NewTabularRule()

	multi := apply(t, rule, `\begin{tabular}{ll}\multicolumn{2}{r}{wide}\\\end{tabular}`)
	assert.Contains(t, multi, `<td colspan="2" style="text-align: right">wide</td>`)

	escaped := apply(t, rule, `\begin{tabular}{l}a \& b\\\end{tabular}`)
	assert.Contains(t, escaped, `<td>a \& b</td>`)

	grouped := apply(t, rule, `\begin{tabular}{ll}\textbf{x & y} & z\end{tabular}`)
	assert.Contains(t, grouped, `<td>\textbf{x & y}</td><td>z</td>`)

	starred := apply(t, rule, `\begin{tabular*}{\linewidth}{rl}1 & 2\end{tabular*}`)
	assert.Contains(t, starred, `<tr><td style="text-align: right">1</td><td>2</td></tr>`)

	spaced := apply(t, rule, "\\begin{tabular}{l}a\\\\[2pt]\nb\\end{tabular}")
	assert.Contains(t, spaced, "<tr><td>a</td></tr>\n<tr><td>b</td></tr>")
}

func TestParseColumnSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec string
		want []string
	}{
		{"lcr", []string{"left", "center", "right"}},
		{"|l|*{2}{c}|p{3cm}r", []string{"left", "center", "center", "left", "right"}},
		{"@{}lr@{}", []string{"left", "right"}},
		{">{\\bfseries}lX", []string{"left", "left"}},
		{"", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rules.ParseColumnSpec(tt.spec), "spec %q", tt.spec)
	}
}
