package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texpreview/internal/logging"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date and Go toolchain of texpreview.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			logger := logging.NewWithWriter(cmd.OutOrStdout(), "info")
			logger.Info("texpreview",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				"go", runtime.Version(),
				"platform", runtime.GOOS+"/"+runtime.GOARCH,
			)
		},
	}
}
