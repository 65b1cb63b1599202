package render_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/yaklabco/texpreview/pkg/render"
)

func benchmarkDocument(sections int) string {
	var sb strings.Builder
	sb.WriteString("\\title{Benchmark}\n\\begin{document}\n\\maketitle\n\n")
	for i := range sections {
		fmt.Fprintf(&sb, "\\section{Part %d}\\label{sec:%d}\n\n", i, i)
		fmt.Fprintf(&sb, "Paragraph %d cites \\ref{sec:%d} with $x_%d^2$ inline.\n\n", i, i, i)
		fmt.Fprintf(&sb, "\\begin{equation}\n\\sum_{k=0}^{%d} k = \\frac{n(n+1)}{2}\n\\end{equation}\n\n", i)
		sb.WriteString("\\begin{itemize}\n\\item \\textbf{one}\n\\item \\emph{two}\n\\end{itemize}\n\n")
	}
	sb.WriteString("\\end{document}\n")
	return sb.String()
}

func BenchmarkRender_Full(b *testing.B) {
	doc := benchmarkDocument(100)

	b.ReportAllocs()
	for b.Loop() {
		o := newOrchestrator(render.Options{})
		o.Render(doc)
	}
}

func BenchmarkRender_SingleEdit(b *testing.B) {
	doc := benchmarkDocument(100)
	edited := strings.Replace(doc, "Paragraph 50 ", "Paragraph fifty ", 1)

	o := newOrchestrator(render.Options{})
	o.Render(doc)

	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		if i%2 == 0 {
			o.Render(edited)
		} else {
			o.Render(doc)
		}
	}
}
