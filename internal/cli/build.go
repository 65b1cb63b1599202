package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/texpreview/internal/logging"
	"github.com/yaklabco/texpreview/pkg/render"
	"github.com/yaklabco/texpreview/pkg/runner"
)

type buildFlags struct {
	outDir         string
	standalone     bool
	flavor         string
	strict         bool
	jobs           int
	exclude        []string
	followSymlinks bool
}

func newBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [PATH...]",
		Short: "Render every document under the given paths",
		Long: `Render .tex, .latex and .ltx files concurrently and write one HTML file per
source. Directories are walked recursively, skipping hidden entries. Files
whose HTML did not change are left untouched.

Examples:
  texpreview build                          # Everything under the current directory
  texpreview build chapters --out-dir site --standalone
  texpreview build --exclude 'drafts/**' --jobs 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "directory for HTML files (default: next to each source)")
	cmd.Flags().BoolVar(&flags.standalone, "standalone", false, "wrap each file in a complete HTML page")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor for text blocks: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with an error when any block fails to render")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of files rendered in parallel (default: CPU count)")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "glob of files or directories to skip (repeatable)")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "walk into symlinked directories")

	return cmd
}

func runBuild(cmd *cobra.Command, paths []string, flags *buildFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")
	ctx := commandContext(cmd)

	cliCfg := flavorOverride(cmd, flags.flavor)
	cliCfg.Standalone = flags.standalone

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	run := runner.New(func() *render.Orchestrator { return newOrchestrator(cfg) })
	result, err := run.Run(logging.WithLogger(ctx, logging.Default()), runner.Options{
		Paths:          paths,
		WorkingDir:     workDir,
		ExcludeGlobs:   flags.exclude,
		FollowSymlinks: flags.followSymlinks,
		Jobs:           flags.jobs,
		OutputDir:      flags.outDir,
		Standalone:     cfg.Standalone,
	})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	reportBuild(logger, result)

	if errs := result.Errors(); len(errs) > 0 {
		return errors.Join(errs...)
	}
	if flags.strict && result.HasFailures() {
		return fmt.Errorf("%w: %d of %d", ErrBlockFailures, result.Stats.BlocksFailed, result.Stats.Blocks)
	}
	return nil
}

func reportBuild(logger *log.Logger, result *runner.Result) {
	for _, file := range result.Files {
		switch {
		case file.Error != nil:
			logger.Error("render failed", logging.FieldPath, file.Path, logging.FieldError, file.Error)
		case file.Failed > 0:
			logger.Warn("rendered with failures", logging.FieldPath, file.Path, logging.FieldBlocks, file.Blocks, "failed", file.Failed)
		case file.Written:
			logger.Info("rendered", logging.FieldPath, file.Path, logging.FieldOutput, file.Output)
		}
	}

	stats := result.Stats
	if stats.FilesDiscovered == 0 {
		logger.Warn("no documents found")
		return
	}
	logger.Info("build complete",
		"files", stats.FilesRendered,
		"written", stats.FilesWritten,
		logging.FieldBlocks, stats.Blocks,
		"failed", stats.BlocksFailed,
	)
}
