package rules_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texpreview/pkg/texrules"
	"github.com/yaklabco/texpreview/pkg/texrules/rules"
)

// apply runs one rule and resolves its protection tokens.
func apply(t *testing.T, rule texrules.Rule, text string) string {
	t.Helper()

	ctx := texrules.NewContext(nil, nil)
	return applyWith(t, ctx, rule, text)
}

func applyWith(t *testing.T, ctx *texrules.Context, rule texrules.Rule, text string) string {
	t.Helper()

	out, err := rule.Apply(ctx, text)
	require.NoError(t, err)
	return ctx.Protect.Resolve(out)
}

type ruleCase struct {
	name string
	text string
	want string
}

func runCases(t *testing.T, rule texrules.Rule, cases []ruleCase) {
	t.Helper()

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, apply(t, rule, tt.text))
		})
	}
}

func TestRegisterAll(t *testing.T) {
	t.Parallel()

	reg := texrules.NewRegistry()
	rules.RegisterAll(reg)
	rules.RegisterAliases(reg)

	require.Equal(t, 21, reg.Len())

	prev := -1
	for _, rule := range reg.Rules() {
		order, err := strconv.Atoi(strings.TrimPrefix(rule.ID(), "TX"))
		require.NoError(t, err, rule.ID())
		assert.Equal(t, order, rule.Order(), "ID and order agree for %s", rule.ID())
		assert.Greater(t, rule.Order(), prev, "rules are ordered")
		assert.True(t, rule.DefaultEnabled())
		assert.NotEmpty(t, rule.Description())
		prev = rule.Order()
	}

	id, _, ok := reg.Resolve("math")
	require.True(t, ok)
	assert.Equal(t, "TX020", id)
}

func TestDefaultRegistryPopulated(t *testing.T) {
	t.Parallel()

	rule, ok := texrules.DefaultRegistry.Get("citations")
	require.True(t, ok)
	assert.Equal(t, "TX050", rule.ID())
}

func TestPipeline(t *testing.T) {
	t.Parallel()

	enabled, unknown := texrules.ResolveRules(texrules.DefaultRegistry, nil)
	require.Empty(t, unknown)

	text := "\\section{Intro}\n" +
		"We cite \\cite{k} and use $x_1$ in \\textbf{bold}.\n" +
		"% a comment\n" +
		"\\begin{itemize}\n  \\item first\n  \\item \\emph{second}\n\\end{itemize}\n" +
		"See Figure~\\ref{fig:a} -- it's ``nice''."

	ctx := texrules.NewContext(nil, nil)
	out, err := texrules.Run(ctx, enabled, text)
	require.NoError(t, err)
	html := ctx.Protect.Resolve(out)

	assert.Contains(t, html, "## Intro")
	assert.Contains(t, html, `href="#cite-k"`)
	assert.Contains(t, html, `<span class="math inline">\(x_1\)</span>`)
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "- first\n- <em>second</em>")
	assert.Contains(t, html, "Figure\u00a0<a class=\"tp-ref\" href=\"#fig:a\">fig:a</a> – it’s “nice”.")
	assert.NotContains(t, html, "comment")
	assert.Empty(t, ctx.Warnings)
}
