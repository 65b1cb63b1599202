package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/texpreview/pkg/texrules/rules"
)

func TestVerbatimRule_Environments(t *testing.T) {
	t.Parallel()

	rule := rules.NewVerbatimRule()

	plain := apply(t, rule, "\\begin{verbatim}\nx < y\n\\end{verbatim}")
	assert.Contains(t, plain, `<div class="tp-raw"><pre class="tp-code"><code class="language-`)
	assert.Contains(t, plain, `x &lt; y</code></pre></div>`)

	listing := apply(t, rule, "\\begin{lstlisting}[language=Python]\nprint(1)\n\\end{lstlisting}")
	assert.Contains(t, listing, `<code class="language-python">print(1)</code>`)

	minted := apply(t, rule, "\\begin{minted}{go}\nfunc f() {}\n\\end{minted}")
	assert.Contains(t, minted, `<code class="language-go">func f() {}</code>`)

	percent := apply(t, rule, "\\begin{verbatim}\n100% done\n\\end{verbatim}")
	assert.Contains(t, percent, "100% done</code>")
}

func TestVerbatimRule_DropsComments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab", apply(t, rules.NewVerbatimRule(), "a\\begin{comment}secret\\end{comment}b"))
}

func TestVerbatimRule_Inline(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewVerbatimRule(), []ruleCase{
		{"verb", `use \verb|a_b| here`, `use <code class="tp-verb">a_b</code> here`},
		{"verb star", `\verb*+x y+`, `<code class="tp-verb">x y</code>`},
		{"lstinline braces", `\lstinline[language=C]{int x;}`, `<code class="tp-verb language-c">int x;</code>`},
		{"mintinline", `\mintinline{python}|x = 1|`, `<code class="tp-verb language-python">x = 1</code>`},
		{"escaped html", `\verb!<b>!`, `<code class="tp-verb">&lt;b&gt;</code>`},
		{"unterminated on line", "\\verb|abc\ndef|", "\\verb|abc\ndef|"},
		{"letter delimiter", `\verbatim`, `\verbatim`},
	})
}
