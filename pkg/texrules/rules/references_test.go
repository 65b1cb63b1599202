package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/texpreview/pkg/texrules/rules"
)

func TestCitationsRule(t *testing.T) {
	t.Parallel()

	link := func(key string) string {
		return `<a class="tp-cite" href="#cite-` + key + `">` + key + `</a>`
	}

	runCases(t, rules.NewCitationsRule(), []ruleCase{
		{"cite", `\cite{a, b}`, `<span class="tp-citation">[` + link("a") + ", " + link("b") + `]</span>`},
		{"postnote", `\cite[p.~3]{k}`, `<span class="tp-citation">[` + link("k") + `, p. 3]</span>`},
		{"pre and postnote", `\citep[see][ch.~2]{k}`, `<span class="tp-citation">[see ` + link("k") + `, ch. 2]</span>`},
		{"textual", `\citet{k}`, `<span class="tp-citation">` + link("k") + `</span>`},
		{"textual with note", `\textcite[p.~1]{k}`, `<span class="tp-citation">` + link("k") + ` [p. 1]</span>`},
		{"bare", `\citeyear{k}`, `<span class="tp-citation">` + link("k") + `</span>`},
		{"nocite", `x\nocite{*}y`, "xy"},
		{"missing keys", `\cite and more`, `\cite and more`},
	})
}

func TestBibliographyRule(t *testing.T) {
	t.Parallel()

	text := "\\begin{thebibliography}{9}\n" +
		"\\bibitem{knuth} D. Knuth.\n\\newblock TeX.\n" +
		"\\bibitem[L]{lamport} Lamport.\n" +
		"\\end{thebibliography}"
	out := apply(t, rules.NewBibliographyRule(), text)

	assert.Contains(t, out, "<section class=\"tp-bibliography\">\n<h2>References</h2>\n<ol>\n")
	assert.Contains(t, out, `<li id="cite-knuth"><span class="tp-bibkey">[knuth]</span> D. Knuth. TeX.</li>`)
	assert.Contains(t, out, `<li id="cite-lamport"><span class="tp-bibkey">[L]</span> Lamport.</li>`)

	external := apply(t, rules.NewBibliographyRule(), `\bibliography{refs}`)
	assert.Contains(t, external, `<div class="tp-bibliography" data-source="refs"></div>`)
}

func TestReferencesRule(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewReferencesRule(), []ruleCase{
		{"ref", `\ref{sec:a}`, `<a class="tp-ref" href="#sec:a">sec:a</a>`},
		{"eqref", `\eqref{e1}`, `(<a class="tp-ref" href="#e1">e1</a>)`},
		{"cref list", `\cref{a,b}`, `<a class="tp-ref" href="#a">a</a>, <a class="tp-ref" href="#b">b</a>`},
		{"escaped label", `\ref{a<b}`, `<a class="tp-ref" href="#a&lt;b">a&lt;b</a>`},
	})
}

func TestLabelsRule(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewLabelsRule(), []ruleCase{
		{"label", `x\label{sec:x}`, `x<span class="tp-label" id="sec:x"></span>`},
		{"labelformat untouched", `\labelformat{a}`, `\labelformat{a}`},
	})
}
