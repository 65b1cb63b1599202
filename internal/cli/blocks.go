package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texpreview/pkg/reporter"
)

type blocksFlags struct {
	format  string
	flavor  string
	compact bool
}

func newBlocksCommand() *cobra.Command {
	flags := &blocksFlags{}

	cmd := &cobra.Command{
		Use:   "blocks FILE",
		Short: "List the blocks a document splits into",
		Long: `Split and render a document and list its blocks with their 1-based source
lines, a preview of their source, and any warnings or failures.

Examples:
  texpreview blocks paper.tex
  texpreview blocks paper.tex --format table
  texpreview blocks paper.tex --format json    # Includes the block HTML`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlocks(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor for text blocks: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "print JSON on a single line")

	return cmd
}

func runBlocks(cmd *cobra.Command, path string, flags *blocksFlags) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd, flavorOverride(cmd, flags.flavor))
	if err != nil {
		return err
	}

	rep, err := newReporter(cmd, cfg, flags.format, flags.compact)
	if err != nil {
		return err
	}

	src, err := readSource(ctx, path)
	if err != nil {
		return err
	}

	o := newOrchestrator(cfg)
	o.Render(src)

	if err := rep.ReportBlocks(ctx, &reporter.BlocksReport{
		Path:       path,
		BodyOffset: o.BodyOffset(),
		Blocks:     o.Blocks(),
	}); err != nil {
		return fmt.Errorf("report blocks: %w", err)
	}
	return nil
}
