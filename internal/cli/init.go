package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texpreview/internal/logging"
	"github.com/yaklabco/texpreview/pkg/config"
	"github.com/yaklabco/texpreview/pkg/fsutil"
	"github.com/yaklabco/texpreview/pkg/texrules"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force   bool
	full    bool
	restore bool
	format  string
	output  string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a texpreview configuration file",
		Long: `Create a .texpreview.yml configuration file in the current directory with
the defaults written out as comments. With --force an existing file is kept as a
.bak backup next to the new one, and --restore puts that backup back.

Examples:
  texpreview init                      Create minimal .texpreview.yml
  texpreview init --full               Document every substitution rule
  texpreview init --format json        Create .texpreview.json instead
  texpreview init --force              Replace the file, keeping a backup
  texpreview init --restore            Undo the last --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all rules documented")
	cmd.Flags().BoolVar(&flags.restore, "restore", false, "Restore the backup made by the last --force")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: .texpreview.yml or .texpreview.json)")
	cmd.MarkFlagsMutuallyExclusive("force", "restore")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")
	ctx := commandContext(cmd)

	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrInvalidUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".texpreview.yml"
		if flags.format == "json" {
			outputPath = ".texpreview.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if flags.restore {
		restored, err := fsutil.RestoreBackup(ctx, absPath)
		if err != nil {
			return fmt.Errorf("restore %s: %w", outputPath, err)
		}
		if !restored {
			return fmt.Errorf("no backup of %q to restore: %w", outputPath, fsutil.ErrNotFound)
		}
		logger.Info("restored configuration file", logging.FieldPath, outputPath)
		return nil
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, outputPath)
		}
		backup, err := fsutil.CreateBackup(ctx, absPath)
		if err != nil {
			return fmt.Errorf("back up %s: %w", outputPath, err)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath, "backup", backup)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", outputPath, err)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
		Rules:  templateRules(texrules.DefaultRegistry),
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(ctx, absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.full {
		logger.Info("full template includes all rules with documentation")
	}
	logger.Info("run 'texpreview rules' to see all substitution rules")

	return nil
}

func templateRules(reg *texrules.Registry) []config.RuleInfo {
	rules := reg.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, config.RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Order:       rule.Order(),
			Enabled:     rule.DefaultEnabled(),
			Tags:        rule.Tags(),
		})
	}
	return infos
}
