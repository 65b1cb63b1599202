// Package rules provides the built-in substitution rules for texpreview.
//
// # Pipeline
//
// Rules run in ascending order. Early rules hide fragile content behind
// protection tokens; later rules rewrite structure into Markdown and raw
// HTML that the Markdown pass renders or passes through:
//
//   - TX005 verbatim (5): verbatim-like environments, \verb, \lstinline
//   - TX010 comments (10): comment removal with TeX line joining
//   - TX015 dedent (15): strips indentation that Markdown would read as code
//   - TX020 display-math (20): $$, \[ \] and display math environments
//   - TX030 inline-math (30): $..$ and \( \)
//   - TX035 tabular (35): tabular environments to HTML tables
//   - TX040 escapes (40): \%, \&, \\ and friends
//   - TX050 citations (50): \cite and its natbib/biblatex variants
//   - TX055 bibliography (55): thebibliography and \bibitem
//   - TX060 references (60): \ref, \eqref, \autoref, \cref
//   - TX070 labels (70): \label anchors
//   - TX080 sectioning (80): \section and friends to headings
//   - TX090 maketitle (90): the title block
//   - TX100 floats (100): figure, table, algorithm, captions, graphics
//   - TX110 theorems (110): theorem-like environments, proof, abstract
//   - TX115 alignment (115): center, flushleft, flushright, quote
//   - TX120 lists (120): itemize, enumerate, description
//   - TX130 text-styles (130): \textbf, \emph, \texttt and friends
//   - TX140 links (140): \url, \href, \footnote
//   - TX150 typography (150): quotes, dashes, ties, logos
//   - TX160 layout (160): spacing and page layout commands
//
// # Registration
//
// Rules are registered with texrules.DefaultRegistry via RegisterAll during init.
package rules
