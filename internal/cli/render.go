package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texpreview/internal/logging"
	"github.com/yaklabco/texpreview/pkg/fsutil"
)

type renderFlags struct {
	output     string
	standalone bool
	flavor     string
	strict     bool
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a document to HTML",
		Long: `Render a document to HTML in one pass.

The output is the sequence of block elements a live view starts from. With
--standalone it is wrapped in a complete page that loads a math typesetter.

Examples:
  texpreview render paper.tex                      # Print block HTML
  texpreview render paper.tex -o paper.html        # Write atomically to a file
  texpreview render paper.tex --standalone -o p.html
  texpreview render paper.tex --strict             # Fail if any block fails`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write HTML to this file instead of standard output")
	cmd.Flags().BoolVar(&flags.standalone, "standalone", false, "wrap the output in a complete HTML page")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor for text blocks: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with an error when any block fails to render")

	return cmd
}

func runRender(cmd *cobra.Command, path string, flags *renderFlags) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	cliCfg := flavorOverride(cmd, flags.flavor)
	cliCfg.Output = flags.output
	cliCfg.Standalone = flags.standalone

	cfg, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	src, err := readSource(ctx, path)
	if err != nil {
		return err
	}

	o := newOrchestrator(cfg)
	o.Render(src)

	html, err := o.Document(cfg.Standalone)
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), html); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else {
		written, err := fsutil.WriteAtomicIfChanged(ctx, cfg.Output, []byte(html+"\n"), 0)
		if err != nil {
			return fmt.Errorf("write %s: %w", cfg.Output, err)
		}
		logger.Debug("output", logging.FieldOutput, cfg.Output, "written", written)
	}

	blocks := o.Blocks()
	failed := countFailed(blocks)
	logger.Debug("rendered",
		logging.FieldInput, path,
		logging.FieldBlocks, len(blocks),
		logging.FieldBodyOffset, o.BodyOffset(),
	)

	if flags.strict && failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBlockFailures, failed, len(blocks))
	}
	return nil
}
