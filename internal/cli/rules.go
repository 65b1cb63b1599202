package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/texpreview/internal/logging"
	"github.com/yaklabco/texpreview/pkg/config"
	"github.com/yaklabco/texpreview/pkg/texrules"
)

type rulesFlags struct {
	ruleFormat string
	format     string
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Order       int      `json:"order"`
	Enabled     bool     `json:"enabled"`
	Tags        []string `json:"tags"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the substitution rules",
		Long: `List the substitution rules in the order they run, with their IDs, names,
tags and whether they are enabled by default. Rules can be disabled by ID, name
or alias in the rules section of the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules := texrules.DefaultRegistry.Rules()

			if flags.format == formatJSON {
				return outputRulesJSON(cmd, rules)
			}
			if flags.format != "text" {
				return fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, flags.format)
			}

			ruleFormat, err := config.ParseRuleFormat(flags.ruleFormat)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
			}

			logger := logging.NewWithWriter(cmd.OutOrStdout(), "info")
			if len(rules) == 0 {
				logger.Info("no rules registered")
				return nil
			}

			for _, rule := range rules {
				id := config.FormatRuleID(ruleFormat, rule.ID(), rule.Name())
				keyvals := []any{logging.FieldOrder, rule.Order()}
				if !rule.DefaultEnabled() {
					keyvals = append(keyvals, "enabled", false)
				}
				if tags := rule.Tags(); len(tags) > 0 {
					keyvals = append(keyvals, logging.FieldTags, strings.Join(tags, ","))
				}
				keyvals = append(keyvals, logging.FieldDescription, rule.Description())
				logger.Info(id, keyvals...)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "combined",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(cmd *cobra.Command, rules []texrules.Rule) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(ruleInfos(rules)); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}

func ruleInfos(rules []texrules.Rule) []ruleInfo {
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		tags := rule.Tags()
		if tags == nil {
			tags = []string{}
		}
		infos = append(infos, ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Order:       rule.Order(),
			Enabled:     rule.DefaultEnabled(),
			Tags:        tags,
		})
	}
	return infos
}
