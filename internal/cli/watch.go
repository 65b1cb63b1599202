package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texpreview/internal/logging"
	"github.com/yaklabco/texpreview/pkg/fsutil"
)

type watchFlags struct {
	output     string
	standalone bool
	flavor     string
	interval   time.Duration
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-render a document every time it changes",
		Long: `Watch a document and render it again whenever its content changes.

Each render prints one JSON patch per line on standard output: a full payload
first, then patches that replace only the changed blocks. A live view applies
them in order. With --output the complete document is also written to a file
after every change. Stop with Ctrl-C.

Examples:
  texpreview watch paper.tex
  texpreview watch paper.tex -o paper.html --standalone
  texpreview watch paper.tex --interval 1s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "also write the rendered document to this file")
	cmd.Flags().BoolVar(&flags.standalone, "standalone", false, "wrap the written document in a complete HTML page")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor for text blocks: commonmark, gfm")
	cmd.Flags().DurationVar(&flags.interval, "interval", fsutil.DefaultPollInterval, "how often to check the file")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, flags *watchFlags) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	cliCfg := flavorOverride(cmd, flags.flavor)
	cliCfg.Output = flags.output
	cliCfg.Standalone = flags.standalone

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	o := newOrchestrator(cfg)
	watcher := fsutil.NewWatcher(path, flags.interval)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)

	for {
		content, err := watcher.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		patch := o.Render(string(content))
		if err := enc.Encode(patch); err != nil {
			return fmt.Errorf("write patch: %w", err)
		}
		logger.Debug("patch",
			logging.FieldPath, path,
			logging.FieldBlocks, len(o.Blocks()),
			logging.FieldShift, patch.Shift,
		)

		if cfg.Output == "" {
			continue
		}
		html, err := o.Document(cfg.Standalone)
		if err != nil {
			return err
		}
		if _, err := fsutil.WriteAtomicIfChanged(ctx, cfg.Output, []byte(html+"\n"), 0); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("write %s: %w", cfg.Output, err)
		}
	}
}
