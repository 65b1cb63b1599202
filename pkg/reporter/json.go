package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"slices"
)

// JSONBlocks is the JSON form of a BlocksReport.
type JSONBlocks struct {
	Path       string      `json:"path"`
	BodyOffset int         `json:"bodyOffset"`
	Blocks     []JSONBlock `json:"blocks"`
}

// JSONBlock is one rendered block.
type JSONBlock struct {
	Index     int      `json:"index"`
	StartLine int      `json:"startLine"`
	LineCount int      `json:"lineCount"`
	Text      string   `json:"text"`
	HTML      string   `json:"html"`
	Warnings  []string `json:"warnings,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// JSONLocation is the JSON form of a LocationReport.
type JSONLocation struct {
	Path  string  `json:"path"`
	Line  int     `json:"line"`
	Index int     `json:"index"`
	Ratio float64 `json:"ratio"`
}

// JSONReporter writes results as JSON. Patches are written in the wire form
// a live view consumes.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// ReportBlocks implements Reporter.
func (r *JSONReporter) ReportBlocks(_ context.Context, report *BlocksReport) error {
	out := JSONBlocks{
		Path:       report.Path,
		BodyOffset: report.BodyOffset,
		Blocks:     make([]JSONBlock, 0, len(report.Blocks)),
	}
	for _, block := range report.Blocks {
		jb := JSONBlock{
			Index:     block.Index,
			StartLine: block.StartLine,
			LineCount: block.LineCount,
			Text:      block.Text,
			HTML:      block.HTML,
			Warnings:  slices.Clone(block.Warnings),
		}
		if block.Err != nil {
			jb.Error = block.Err.Error()
		}
		out.Blocks = append(out.Blocks, jb)
	}
	return r.encode(out)
}

// ReportPatch implements Reporter.
func (r *JSONReporter) ReportPatch(_ context.Context, report *PatchReport) error {
	return r.encode(report.Patch)
}

// ReportLocation implements Reporter.
func (r *JSONReporter) ReportLocation(_ context.Context, report *LocationReport) error {
	return r.encode(JSONLocation{
		Path:  report.Path,
		Line:  report.Line,
		Index: report.Location.Index,
		Ratio: report.Location.Ratio,
	})
}

func (r *JSONReporter) encode(v any) (err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	enc := json.NewEncoder(r.bw)
	enc.SetEscapeHTML(false)
	if !r.opts.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
