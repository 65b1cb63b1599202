package runner

// FileOutcome is the result of rendering one source file.
type FileOutcome struct {
	// Path is the absolute source path.
	Path string

	// Output is the HTML file the render was written to.
	Output string

	// Blocks is the number of blocks in the document.
	Blocks int

	// Failed is the number of blocks replaced by an error marker.
	Failed int

	// Written is false when Output already held identical HTML.
	Written bool

	// Error is set when the file could not be read or written.
	Error error
}

// Stats aggregates a batch render.
type Stats struct {
	FilesDiscovered int
	FilesRendered   int
	FilesWritten    int
	FilesErrored    int
	Blocks          int
	BlocksFailed    int
}

// Result is the outcome of a batch render, in discovery order.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any block failed to render.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.BlocksFailed > 0
}

// Errors returns the per-file errors in discovery order.
func (r *Result) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, outcome := range r.Files {
		if outcome.Error != nil {
			errs = append(errs, outcome.Error)
		}
	}
	return errs
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesRendered++
	r.Stats.Blocks += outcome.Blocks
	r.Stats.BlocksFailed += outcome.Failed
	if outcome.Written {
		r.Stats.FilesWritten++
	}
}
