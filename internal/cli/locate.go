package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texpreview/pkg/config"
	"github.com/yaklabco/texpreview/pkg/render"
	"github.com/yaklabco/texpreview/pkg/reporter"
)

type locateFlags struct {
	line    int
	block   int
	ratio   float64
	format  string
	compact bool
}

func newLocateCommand() *cobra.Command {
	flags := &locateFlags{}

	cmd := &cobra.Command{
		Use:   "locate FILE",
		Short: "Map a source line to a rendered block or back",
		Long: `Answer the scroll-sync questions a preview asks.

With --line, report the block that holds a 1-based source line and how far into
the block it is, as a ratio from 0 to 1. With --block, report the source line at
--ratio within that block. Lines between blocks belong to the block above them.

Examples:
  texpreview locate paper.tex --line 120
  texpreview locate paper.tex --block 14 --ratio 0.5
  texpreview locate paper.tex --line 120 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocate(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.line, "line", 0, "1-based source line to locate")
	cmd.Flags().IntVar(&flags.block, "block", 0, "block index to map back to a source line")
	cmd.Flags().Float64Var(&flags.ratio, "ratio", 0, "position within the block, from 0 to 1")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "print JSON on a single line")
	cmd.MarkFlagsMutuallyExclusive("line", "block")
	cmd.MarkFlagsOneRequired("line", "block")

	return cmd
}

func runLocate(cmd *cobra.Command, path string, flags *locateFlags) error {
	ctx := commandContext(cmd)

	if cmd.Flags().Changed("line") && flags.line < 1 {
		return fmt.Errorf("%w: --line must be at least 1", ErrInvalidUsage)
	}

	cfg, err := loadConfig(cmd, &config.Config{})
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

	report := &reporter.LocationReport{Path: path}
	if cmd.Flags().Changed("line") {
		report.Query = reporter.QueryLine
		report.Line = flags.line - 1
		report.Location = o.BlockIndexForLine(report.Line)
	} else {
		report.Query = reporter.QueryBlock
		report.Location = clampLocation(o.LineMap(), flags.block, flags.ratio)
		report.Line = o.LineForBlockIndex(flags.block, flags.ratio)
	}

	if err := rep.ReportLocation(ctx, report); err != nil {
		return fmt.Errorf("report location: %w", err)
	}
	return nil
}

// clampLocation reports the block and ratio LineForBlockIndex actually uses.
func clampLocation(m *render.LineMap, index int, ratio float64) render.Location {
	if m.Len() == 0 {
		return render.Location{Index: -1}
	}
	if math.IsNaN(ratio) {
		ratio = 0
	}
	return render.Location{
		Index: min(max(index, 0), m.Len()-1),
		Ratio: min(max(ratio, 0), 1),
	}
}
