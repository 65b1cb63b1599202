package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/yaklabco/texpreview/internal/logging"
	"github.com/yaklabco/texpreview/pkg/fsutil"
	"github.com/yaklabco/texpreview/pkg/render"
)

const outputDirMode = 0o755

// Factory creates the Orchestrator for one file. Each file gets its own
// instance, so orchestrators never cross goroutines.
type Factory func() *render.Orchestrator

// Runner renders every document found by Discover with a bounded worker pool.
// Progress is logged to the logger attached to the run's context.
type Runner struct {
	newOrchestrator Factory
}

// New creates a Runner.
func New(factory Factory) *Runner {
	return &Runner{newOrchestrator: factory}
}

// Run discovers the files under opts.Paths and renders them concurrently.
// Outcomes are returned in discovery order whatever order workers finish in.
// A cancelled context stops the run and returns the outcomes gathered so far.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	// Discover already resolved this directory.
	workDir, _ := resolveWorkDir(opts.WorkingDir)
	outDir := opts.OutputDir
	if outDir != "" && !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range workCh {
				outcome := r.renderFile(ctx, path, outputPath(path, workDir, outDir), opts.Standalone)
				select {
				case <-ctx.Done():
					return
				case outCh <- outcome:
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) renderFile(ctx context.Context, path, output string, standalone bool) FileOutcome {
	outcome := FileOutcome{Path: path, Output: output}
	ctx = logging.WithFields(ctx, logging.FieldPath, path)

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	o := r.newOrchestrator()
	o.Render(string(content))

	html, err := o.Document(standalone)
	if err != nil {
		outcome.Error = fmt.Errorf("%s: %w", path, err)
		return outcome
	}

	if err := os.MkdirAll(filepath.Dir(output), outputDirMode); err != nil {
		outcome.Error = fmt.Errorf("create output directory: %w", err)
		return outcome
	}
	written, err := fsutil.WriteAtomicIfChanged(ctx, output, []byte(html+"\n"), 0)
	if err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", output, err)
		return outcome
	}

	for _, block := range o.Blocks() {
		outcome.Blocks++
		if block.Err != nil {
			outcome.Failed++
		}
	}
	outcome.Written = written

	logging.FromContext(ctx).Debug("rendered file",
		logging.FieldOutput, output,
		logging.FieldBlocks, outcome.Blocks,
	)
	return outcome
}

// outputPath maps a source file to its HTML file. Sources outside workDir
// keep only their base name under outDir.
func outputPath(path, workDir, outDir string) string {
	name := strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
	if outDir == "" {
		return name
	}

	rel, err := filepath.Rel(workDir, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(name)
	}
	return filepath.Join(outDir, rel)
}
