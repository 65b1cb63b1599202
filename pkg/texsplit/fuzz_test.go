package texsplit_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/texpreview/pkg/texsplit"
)

func FuzzSplit(f *testing.F) {
	seeds := []string{
		"Intro text.\n\n$$x=1$$\n\nMore text.",
		"\\begin{figure}\nA\n\nB\n\\end{figure}",
		"{\n\n}\n\n{",
		"\\begin{verbatim}\n%{\n\\end{verbatim}",
		"\\[ \\] $$ \\end{x}",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		tokens := texsplit.Lex(input)
		if !texsplit.ValidateTokens(tokens, len(input)) {
			t.Fatalf("tokens do not cover input %q", input)
		}

		blocks := texsplit.Split(input)
		if strings.TrimSpace(input) == "" && len(blocks) != 0 {
			t.Fatalf("blank input produced %d blocks", len(blocks))
		}

		for i, b := range blocks {
			if strings.TrimSpace(b.Text) == "" {
				t.Fatalf("block %d is blank", i)
			}
			if b.LineCount < 1 {
				t.Fatalf("block %d has line count %d", i, b.LineCount)
			}
			if i > 0 && b.StartLine < blocks[i-1].StartLine {
				t.Fatalf("block %d starts before block %d", i, i-1)
			}
		}
	})
}
