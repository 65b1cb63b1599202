package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texpreview/pkg/reporter"
)

type diffFlags struct {
	format  string
	flavor  string
	compact bool
}

func newDiffCommand() *cobra.Command {
	flags := &diffFlags{}

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Show the patch between two versions of a document",
		Long: `Render OLD and then NEW with the same renderer and report the patch the
second render produced: which blocks were kept, removed and inserted.

The json format prints the patch exactly as a live view receives it. The text
format shows a character diff of every changed block.

Examples:
  texpreview diff draft.tex paper.tex
  texpreview diff draft.tex paper.tex --format json
  texpreview diff draft.tex paper.tex --format table`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "gfm", "Markdown flavor for text blocks: commonmark, gfm")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "print JSON on a single line")

	return cmd
}

func runDiff(cmd *cobra.Command, oldPath, newPath string, flags *diffFlags) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd, flavorOverride(cmd, flags.flavor))
	if err != nil {
		return err
	}

	rep, err := newReporter(cmd, cfg, flags.format, flags.compact)
	if err != nil {
		return err
	}

	oldSrc, err := readSource(ctx, oldPath)
	if err != nil {
		return err
	}
	newSrc, err := readSource(ctx, newPath)
	if err != nil {
		return err
	}

	o := newOrchestrator(cfg)
	o.Render(oldSrc)
	oldBlocks := o.Blocks()
	patch := o.Render(newSrc)

	if err := rep.ReportPatch(ctx, &reporter.PatchReport{
		OldPath: oldPath,
		NewPath: newPath,
		Old:     oldBlocks,
		New:     o.Blocks(),
		Patch:   patch,
	}); err != nil {
		return fmt.Errorf("report patch: %w", err)
	}
	return nil
}
