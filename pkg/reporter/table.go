package reporter

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/yaklabco/texpreview/internal/ui/pretty"
	"github.com/yaklabco/texpreview/pkg/render"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// TableReporter writes blocks and patches as styled tables. Location answers
// are written as text.
type TableReporter struct {
	*TextReporter

	formatter *pretty.TableFormatter
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	text := NewTextReporter(opts)

	width := opts.TermWidth
	if width <= 0 {
		width = getTerminalWidth(opts.Writer)
	}

	return &TableReporter{
		TextReporter: text,
		formatter:    pretty.NewTableFormatter(text.styles, text.colorEnabled, width),
	}
}

// ReportBlocks implements Reporter.
func (r *TableReporter) ReportBlocks(_ context.Context, report *BlocksReport) (err error) {
	defer r.flush(&err)

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(report.Path, len(report.Blocks)))
	rows := make([]pretty.TableRow, 0, len(report.Blocks))
	for _, block := range report.Blocks {
		rows = append(rows, tableRow(pretty.MarkNone, block))
	}
	fmt.Fprint(r.bw, r.formatter.FormatTable(rows))
	return nil
}

// ReportPatch implements Reporter.
func (r *TableReporter) ReportPatch(_ context.Context, report *PatchReport) (err error) {
	defer r.flush(&err)

	changes := report.Changes()
	var rows []pretty.TableRow
	for _, block := range report.Old[changes.Start : changes.Start+changes.DeleteCount] {
		rows = append(rows, tableRow(pretty.MarkRemove, block))
	}
	inserted := report.New[changes.Start : changes.Start+len(changes.Inserted)]
	for _, block := range inserted {
		rows = append(rows, tableRow(pretty.MarkAdd, block))
	}

	fmt.Fprint(r.bw, r.formatter.FormatTable(rows))
	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatPatchSummary(pretty.PatchSummary{
			Full:     report.Patch != nil && report.Patch.Type == render.PatchFull,
			Blocks:   len(report.New),
			Start:    changes.Start,
			Deleted:  changes.DeleteCount,
			Inserted: len(changes.Inserted),
			End:      changes.End,
			Shift:    changes.Shift(),
			Failed:   countFailed(inserted),
		}))
	}
	return nil
}

func tableRow(mark string, block render.CachedBlock) pretty.TableRow {
	row := pretty.TableRow{
		Mark:   mark,
		Index:  block.Index,
		Lines:  pretty.FormatLines(block.StartLine, block.LineCount),
		Source: block.Text,
	}
	switch {
	case block.Err != nil:
		row.Status = pretty.RowError
		row.Message = block.Err.Error()
	case len(block.Warnings) > 0:
		row.Status = pretty.RowWarning
	}
	return row
}

// getTerminalWidth attempts to get the terminal width from the writer.
func getTerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
