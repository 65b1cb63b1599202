package reporter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/yaklabco/texpreview/internal/ui/pretty"
)

// Markers for changes when color is disabled.
const (
	removeOpen  = "[-"
	removeClose = "-]"
	addOpen     = "{+"
	addClose    = "+}"
)

// inlineDiff renders a character-level diff of two block sources. Deleted and
// inserted runs are colored, or bracketed when color is off.
func inlineDiff(styles *pretty.Styles, colorEnabled bool, oldText, newText string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(styleLines(styles.DiffContext, colorEnabled, d.Text))
		case diffmatchpatch.DiffDelete:
			sb.WriteString(mark(styles.DiffRemove, colorEnabled, removeOpen, removeClose, d.Text))
		case diffmatchpatch.DiffInsert:
			sb.WriteString(mark(styles.DiffAdd, colorEnabled, addOpen, addClose, d.Text))
		}
	}
	return sb.String()
}

func mark(style lipgloss.Style, colorEnabled bool, open, closing, text string) string {
	if !colorEnabled {
		return open + text + closing
	}
	return styleLines(style, true, text)
}

// styleLines applies style line by line, since lipgloss pads multi-line
// strings to a common width.
func styleLines(style lipgloss.Style, colorEnabled bool, text string) string {
	if !colorEnabled || text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
