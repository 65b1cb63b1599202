package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/texpreview/internal/ui/pretty"
	"github.com/yaklabco/texpreview/pkg/render"
)

// previewWidth bounds block previews in text output.
const previewWidth = 72

// TextReporter writes results as styled terminal output.
type TextReporter struct {
	opts         Options
	styles       *pretty.Styles
	colorEnabled bool
	bw           *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:         opts,
		styles:       pretty.NewStyles(colorEnabled),
		colorEnabled: colorEnabled,
		bw:           bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

func (r *TextReporter) flush(err *error) {
	if flushErr := r.bw.Flush(); *err == nil {
		*err = flushErr
	}
}

// ReportBlocks implements Reporter.
func (r *TextReporter) ReportBlocks(_ context.Context, report *BlocksReport) (err error) {
	defer r.flush(&err)

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(report.Path, len(report.Blocks)))
	for _, block := range report.Blocks {
		fmt.Fprintf(r.bw, "%s %s  %s\n",
			r.styles.BlockID.Render(fmt.Sprintf("%4d", block.Index)),
			r.styles.Location.Render(fmt.Sprintf("%-9s", pretty.FormatLines(block.StartLine, block.LineCount))),
			r.styles.Preview.Render(pretty.Preview(block.Text, previewWidth)),
		)
		r.writeProblems(block)
	}
	return nil
}

// ReportPatch implements Reporter.
func (r *TextReporter) ReportPatch(_ context.Context, report *PatchReport) (err error) {
	defer r.flush(&err)

	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render("--- "+report.OldPath))
	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render("+++ "+report.NewPath))

	changes := report.Changes()
	deleted := report.Old[changes.Start : changes.Start+changes.DeleteCount]
	inserted := report.New[changes.Start : changes.Start+len(changes.Inserted)]

	for k := range max(len(deleted), len(inserted)) {
		switch {
		case k < len(deleted) && k < len(inserted):
			newBlock := inserted[k]
			fmt.Fprintln(r.bw, r.styles.FormatBlockHeader(deleted[k].Index, newBlock.Index,
				pretty.FormatLines(newBlock.StartLine, newBlock.LineCount)))
			r.writeBody(inlineDiff(r.styles, r.colorEnabled, deleted[k].Text, newBlock.Text))
			r.writeProblems(newBlock)
		case k < len(deleted):
			old := deleted[k]
			fmt.Fprintln(r.bw, r.styles.FormatBlockHeader(old.Index, -1,
				pretty.FormatLines(old.StartLine, old.LineCount)))
			r.writeBody(inlineDiff(r.styles, r.colorEnabled, old.Text, ""))
		default:
			newBlock := inserted[k]
			fmt.Fprintln(r.bw, r.styles.FormatBlockHeader(-1, newBlock.Index,
				pretty.FormatLines(newBlock.StartLine, newBlock.LineCount)))
			r.writeBody(inlineDiff(r.styles, r.colorEnabled, "", newBlock.Text))
			r.writeProblems(newBlock)
		}
	}

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

// ReportLocation implements Reporter.
func (r *TextReporter) ReportLocation(_ context.Context, report *LocationReport) (err error) {
	defer r.flush(&err)

	if report.Location.Index < 0 {
		fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(report.Path), r.styles.Dim.Render("no blocks"))
		return nil
	}

	line := r.styles.Location.Render(fmt.Sprintf("%s:%d", report.Path, report.Line+1))
	block := r.styles.BlockID.Render(fmt.Sprintf("block %d", report.Location.Index))
	ratio := r.styles.Dim.Render(fmt.Sprintf("at %.2f", report.Location.Ratio))

	if report.Query == QueryBlock {
		fmt.Fprintf(r.bw, "%s %s -> %s\n", block, ratio, line)
		return nil
	}
	fmt.Fprintf(r.bw, "%s -> %s %s\n", line, block, ratio)
	return nil
}

func (r *TextReporter) writeBody(body string) {
	if body == "" {
		return
	}
	fmt.Fprint(r.bw, body)
	if !strings.HasSuffix(body, "\n") {
		fmt.Fprintln(r.bw)
	}
}

func (r *TextReporter) writeProblems(block render.CachedBlock) {
	if block.Err != nil {
		fmt.Fprint(r.bw, r.styles.FormatBlockError(block.Index, block.Err))
	}
	for _, warning := range block.Warnings {
		fmt.Fprint(r.bw, r.styles.FormatBlockWarning(block.Index, warning))
	}
}
