package pretty

import (
	"fmt"
	"strings"
)

// PatchSummary holds the counts shown for one render.
type PatchSummary struct {
	Full     bool
	Blocks   int
	Start    int
	Deleted  int
	Inserted int
	End      int
	Shift    int
	Failed   int
}

// FormatPatchSummary formats render statistics as a single line.
// Example: "patch: 3 kept, 1 removed, 2 inserted, 4 kept (shift +1)".
func (s *Styles) FormatPatchSummary(sum PatchSummary) string {
	var sb strings.Builder

	switch {
	case sum.Full:
		sb.WriteString(s.SummaryTitle.Render("full render"))
		sb.WriteString(s.Dim.Render(fmt.Sprintf(": %d blocks", sum.Blocks)))
	case sum.Deleted == 0 && sum.Inserted == 0:
		sb.WriteString(s.Success.Render("no changes"))
		sb.WriteString(s.Dim.Render(fmt.Sprintf(" (%d blocks)", sum.Blocks)))
	default:
		sb.WriteString(s.SummaryTitle.Render("patch"))
		sb.WriteString(": ")
		sb.WriteString(s.Dim.Render(fmt.Sprintf("%d kept", sum.Start)))
		sb.WriteString(", ")
		sb.WriteString(s.DiffRemove.Render(fmt.Sprintf("%d removed", sum.Deleted)))
		sb.WriteString(", ")
		sb.WriteString(s.DiffAdd.Render(fmt.Sprintf("%d inserted", sum.Inserted)))
		sb.WriteString(", ")
		sb.WriteString(s.Dim.Render(fmt.Sprintf("%d kept", sum.End)))
		if sum.Shift != 0 {
			sb.WriteString(s.Dim.Render(fmt.Sprintf(" (shift %+d)", sum.Shift)))
		}
	}

	if sum.Failed > 0 {
		word := "blocks"
		if sum.Failed == 1 {
			word = "block"
		}
		sb.WriteString(", ")
		sb.WriteString(s.Failure.Render(fmt.Sprintf("%d %s failed", sum.Failed, word)))
	}

	sb.WriteString("\n")
	return sb.String()
}
