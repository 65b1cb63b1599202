// Package reporter writes render results for the command line: block lists,
// patches between two renders and source location answers.
package reporter

import (
	"context"
	"fmt"
)

// Reporter formats and writes render results.
type Reporter interface {
	// ReportBlocks writes the blocks of one render.
	ReportBlocks(ctx context.Context, report *BlocksReport) error

	// ReportPatch writes the change between two renders.
	ReportPatch(ctx context.Context, report *PatchReport) error

	// ReportLocation writes the answer to a location query.
	ReportLocation(ctx context.Context, report *LocationReport) error
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatTable:
		return NewTableReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
