// Package cli provides the Cobra command structure for texpreview.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texpreview/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root texpreview command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "texpreview",
		Short: "Incremental LaTeX-to-HTML preview renderer",
		Long: `texpreview renders scientific papers written in LaTeX-like markup to HTML.

Documents are split into structural blocks. When a document is edited, only the
blocks whose source changed are rendered again, and the result is a patch a live
view can apply. Math is emitted for client-side typesetting and source lines can
be mapped to rendered blocks and back.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	})

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newBlocksCommand())
	rootCmd.AddCommand(newLocateCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
