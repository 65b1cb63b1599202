package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/texpreview/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	FlagType    lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Default     lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:     plain,
			Heading:     plain,
			Subcommand:  plain,
			Flag:        plain,
			FlagType:    plain,
			Description: plain,
			Example:     plain,
			Default:     plain,
		}
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	return &HelpStyles{
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		FlagType:    dim,
		Description: lipgloss.NewStyle(),
		Example:     dim,
		Default:     dim,
	}
}

// HelpFormatter renders styled help for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
	usage  *template.Template
	help   *template.Template
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable }}
  {{ command .UseLine }}{{ end }}
{{- if .HasAvailableSubCommands }}
  {{ command .CommandPath }} [command]{{ end }}
{{- if .HasExample }}

{{ heading "Examples:" }}
{{ example .Example }}{{ end }}
{{- if .HasAvailableSubCommands }}

{{ heading "Commands:" }}{{ range .Commands }}{{ if (or .IsAvailableCommand (eq .Name "help")) }}
  {{ subcommand (pad .Name .NamePadding) }} {{ .Short }}{{ end }}{{ end }}{{ end }}
{{- if .HasAvailableLocalFlags }}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}{{ end }}
{{- if .HasAvailableInheritedFlags }}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}{{ end }}
{{- if .HasAvailableSubCommands }}

Run "{{ command (print .CommandPath " [command] --help") }}" for more about a command.{{ end }}
`

const helpTemplate = `{{ with (or .Long .Short) }}{{ trimRight . }}

{{ end }}{{ template "usage" . }}`

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	h := &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}

	funcs := template.FuncMap{
		"heading":    h.styles.Heading.Render,
		"command":    h.styles.Command.Render,
		"subcommand": h.styles.Subcommand.Render,
		"example":    h.styles.Example.Render,
		"flags":      h.formatFlags,
		"pad":        pad,
		"trimRight":  trimRightLines,
	}
	h.usage = template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	h.help = template.Must(template.Must(h.usage.Clone()).New("help").Parse(helpTemplate))
	return h
}

// formatFlags lays out a flag set in two columns: the flag with its value
// type, and the usage text with the default value.
func (h *HelpFormatter) formatFlags(set *pflag.FlagSet) string {
	type row struct {
		plain  string
		styled string
		usage  string
	}

	var rows []row
	width := 0
	set.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		name := "    --" + f.Name
		styled := "    " + h.styles.Flag.Render("--"+f.Name)
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", --" + f.Name
			styled = h.styles.Flag.Render("-"+f.Shorthand) + ", " + h.styles.Flag.Render("--"+f.Name)
		}
		if kind, _ := pflag.UnquoteUsage(f); kind != "" {
			name += " " + kind
			styled += " " + h.styles.FlagType.Render(kind)
		}

		usage := h.styles.Description.Render(f.Usage)
		if showDefault(f) {
			usage += " " + h.styles.Default.Render(fmt.Sprintf("(default %s)", quoteDefault(f)))
		}

		rows = append(rows, row{plain: name, styled: styled, usage: usage})
		width = max(width, len(name))
	})

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = "  " + r.styled + strings.Repeat(" ", width-len(r.plain)+3) + r.usage
	}
	return strings.Join(lines, "\n")
}

func showDefault(f *pflag.Flag) bool {
	switch f.DefValue {
	case "", "false", "0", "0s", "[]":
		return false
	}
	return true
}

func quoteDefault(f *pflag.Flag) string {
	if f.Value.Type() == "string" {
		return fmt.Sprintf("%q", f.DefValue)
	}
	return f.DefValue
}

// ApplyToCommand installs the styled templates on cmd. Subcommands inherit
// them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := h.usage.Execute(c.OutOrStderr(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimRightLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
