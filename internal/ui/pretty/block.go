package pretty

import (
	"fmt"
	"strings"
)

// FormatLines renders a 0-based line span as 1-based display lines: "4" for
// a single line, "4-7" otherwise.
func FormatLines(start, count int) string {
	if count <= 1 {
		return fmt.Sprintf("%d", start+1)
	}
	return fmt.Sprintf("%d-%d", start+1, start+count)
}

// FormatFileHeader formats a header line for a document.
func (s *Styles) FormatFileHeader(path string, blocks int) string {
	word := "blocks"
	if blocks == 1 {
		word = "block"
	}
	return s.FilePath.Render(path) + s.Dim.Render(fmt.Sprintf(" (%d %s)", blocks, word))
}

// FormatBlockHeader formats the hunk line that introduces a block in diff
// output, for example "@@ -block 3 +block 3 @@ lines 12-15".
func (s *Styles) FormatBlockHeader(oldIndex, newIndex int, lines string) string {
	var parts []string
	if oldIndex >= 0 {
		parts = append(parts, fmt.Sprintf("-block %d", oldIndex))
	}
	if newIndex >= 0 {
		parts = append(parts, fmt.Sprintf("+block %d", newIndex))
	}

	header := s.DiffHunk.Render("@@ " + strings.Join(parts, " ") + " @@")
	if lines != "" {
		header += " " + s.Location.Render("lines "+lines)
	}
	return header
}

// FormatBlockWarning formats a non-fatal problem found while rendering a block.
func (s *Styles) FormatBlockWarning(index int, message string) string {
	return fmt.Sprintf("  %s %s %s\n",
		s.Warning.Render("warning"),
		s.BlockID.Render(fmt.Sprintf("[block %d]", index)),
		s.Message.Render(message),
	)
}

// FormatBlockError formats a block that failed to render.
func (s *Styles) FormatBlockError(index int, err error) string {
	return fmt.Sprintf("  %s %s %s\n",
		s.Error.Render("error"),
		s.BlockID.Render(fmt.Sprintf("[block %d]", index)),
		s.Message.Render(err.Error()),
	)
}

// Preview condenses block source to its first non-blank line with runs of
// whitespace collapsed, truncated to width. A zero width disables truncation.
func Preview(text string, width int) string {
	var first string
	for line := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(line) != "" {
			first = line
			break
		}
	}

	first = strings.Join(strings.Fields(first), " ")
	if width > 0 {
		first = truncateString(first, width)
	}
	return first
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	runes := []rune(str)
	if len(runes) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
