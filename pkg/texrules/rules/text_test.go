package rules_test

import (
	"testing"

	"github.com/yaklabco/texpreview/pkg/texrules/rules"
)

func TestCommentsRule(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewCommentsRule(), []ruleCase{
		{"joins lines", "a % note\nb", "a b"},
		{"drops indentation", "line %x\n    next", "line next"},
		{"marker only", "a\n%\nb", "a\nb"},
		{"keeps paragraph break", "a %x\n\nb", "a \n\nb"},
		{"escaped percent", `50\% done`, `50\% done`},
		{"trailing comment", "end % bye", "end "},
	})
}

func TestDedentRule(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewDedentRule(), []ruleCase{
		{"indented", "    a\n\tb", "a\nb"},
		{"flat", "a\nb", "a\nb"},
	})
}

func TestEscapesRule(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewEscapesRule(), []ruleCase{
		{"specials", `50\% of \$5 \& \#1`, "50% of $5 &amp; #1"},
		{"underscore and braces", `\_x \{y\}`, "_x {y}"},
		{"line break", `a\\b`, "a<br>b"},
		{"line break with spacing", `a\\[2pt]b`, "a<br>b"},
		{"starred line break", `a\\*b`, "a<br>b"},
		{"symbols", `\textbackslash{} and \S 3`, `\ and §3`},
		{"control space", `a\ b\,c`, "a b c"},
		{"discretionary hyphen", `hy\-phen`, "hyphen"},
		{"unknown command kept", `\foo{x}`, `\foo{x}`},
		{"trailing backslash", `a\`, `a\`},
	})
}

func TestTextStylesRule(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewTextStylesRule(), []ruleCase{
		{"bold with nested emphasis", `\textbf{a \emph{b}}`, "<strong>a <em>b</em></strong>"},
		{"same command nested", `\textbf{a \textbf{b}}`, "<strong>a <strong>b</strong></strong>"},
		{"typewriter", `\texttt{x}`, "<code>x</code>"},
		{"declaration group", `{\bf bold} text`, "<strong>bold</strong> text"},
		{"emphasis declaration", `{\em x}`, "<em>x</em>"},
		{"colour", `\textcolor{red}{hot}`, `<span style="color: red">hot</span>`},
		{"box drops markup", `\mbox{x}`, "x"},
		{"unknown declaration", `{\relax x}`, `{\relax x}`},
		{"missing argument", `\textbf x`, `\textbf x`},
	})
}

func TestLinksRule(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewLinksRule(), []ruleCase{
		{"url", `\url{https://x.org/a_b}`, `<a class="tp-url" href="https://x.org/a_b">https://x.org/a_b</a>`},
		{"href", `\href{https://x.org}{site}`, `<a class="tp-link" href="https://x.org">site</a>`},
		{"email", `\email{a@b.c}`, `<a class="tp-email" href="mailto:a@b.c">a@b.c</a>`},
		{"footnote", "text\\footnote{a\nnote}", `text<span class="tp-footnote">a note</span>`},
	})
}

func TestTypographyRule(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewTypographyRule(), []ruleCase{
		{"quotes and dashes", "``quoted'' -- and --- it's", "“quoted” – and — it’s"},
		{"tie", "Fig.~1", "Fig.\u00a01"},
		{"logo with empty group", `\LaTeX{} is`, "LaTeX is"},
		{"logo swallows space", `\TeX is`, "TeXis"},
		{"ellipsis", `wait\ldots`, "wait…"},
	})
}

func TestLayoutRule(t *testing.T) {
	t.Parallel()

	runCases(t, rules.NewLayoutRule(), []ruleCase{
		{"spacing", `\vspace{1em}a\hfill b\newpage`, "a b"},
		{"packages", `\usepackage[utf8]{inputenc}x`, "x"},
		{"lengths", `\setlength{\parindent}{0pt}y`, "y"},
		{"unknown environment keeps content", `\begin{unknown}x\end{unknown}`, "x"},
		{"paragraph", `a\par b`, "a\n\nb"},
		{"size", `{\small tiny}`, "{tiny}"},
	})
}
