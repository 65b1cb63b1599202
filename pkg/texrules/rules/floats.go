package rules

import (
	"math"
	"strconv"
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// floatEnv describes a float environment.
type floatEnv struct {
	name  string
	class string
	label string
	// groups is the number of brace-group arguments after \begin{name}.
	groups int
}

// percentScale converts a width factor to hundredths of a percent.
const percentScale = 10000

//nolint:gochecknoglobals // read-only lookup table
var floatEnvs = []floatEnv{
	{name: "figure", class: "tp-figure", label: "Figure"},
	{name: "figure*", class: "tp-figure", label: "Figure"},
	{name: "subfigure", class: "tp-subfigure", label: "", groups: 1},
	{name: "wrapfigure", class: "tp-figure", label: "Figure", groups: 2},
	{name: "table", class: "tp-table-float", label: "Table"},
	{name: "table*", class: "tp-table-float", label: "Table"},
	{name: "algorithm", class: "tp-algorithm", label: "Algorithm"},
}

// FloatsRule renders floats, captions, graphics and algorithm listings.
type FloatsRule struct {
	texrules.BaseRule
}

// NewFloatsRule creates a new floats rule.
func NewFloatsRule() *FloatsRule {
	return &FloatsRule{
		BaseRule: texrules.NewBaseRule(
			"TX100",
			"floats",
			"Figures, tables and algorithms render as figures with captions",
			100,
			[]string{"structure", "figures"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *FloatsRule) Apply(ctx *texrules.Context, text string) (string, error) {
	if !strings.Contains(text, `\`) {
		return text, nil
	}

	text = replaceAlgorithmic(text)
	text = replaceGraphics(ctx, text)

	// Inner floats first so a subfigure caption stays with its subfigure.
	for idx := len(floatEnvs) - 1; idx >= 0; idx-- {
		fe := floatEnvs[idx]
		text = texrules.ReplaceEnvironment(text, fe.name, func(env texrules.Env) string {
			return fe.render(env.Body)
		})
	}

	// Captions outside floats, such as \captionof.
	text = texrules.ReplaceCommand(text, "captionof", 2, func(c texrules.Command) string {
		return "\n\n" + captionHTML(c.Args[1], labelFor(c.Args[0])) + "\n\n"
	})
	return text, nil
}

func (fe floatEnv) render(body string) string {
	pos := 0
	for range fe.groups {
		_, after, ok := texrules.ReadGroup(body, skipBlankLines(body, pos))
		if !ok {
			break
		}
		pos = after
	}
	body = body[pos:]

	var caption string
	hasCaption := false
	body = texrules.ReplaceCommand(body, "caption", 1, func(c texrules.Command) string {
		if !hasCaption {
			caption = c.Args[0]
			hasCaption = true
		}
		return ""
	})
	body = texrules.ReplaceCommands(body, []string{"centering", "raggedright", "raggedleft"}, 0,
		func(texrules.Command) string { return "" })

	var sb strings.Builder
	sb.WriteString("\n\n<figure class=\"" + fe.class + "\">\n\n")
	if trimmed := strings.TrimSpace(body); trimmed != "" {
		sb.WriteString(trimmed)
		sb.WriteString("\n\n")
	}
	if hasCaption {
		sb.WriteString(captionHTML(caption, fe.label))
		sb.WriteString("\n")
	}
	sb.WriteString("</figure>\n\n")
	return sb.String()
}

// captionHTML renders a figcaption. The caption text is left for later rules.
func captionHTML(caption, label string) string {
	var sb strings.Builder
	sb.WriteString("<figcaption>")
	if label != "" {
		sb.WriteString(`<span class="tp-caption-label">` + label + ":</span> ")
	}
	sb.WriteString(collapseLines(caption))
	sb.WriteString("</figcaption>")
	return sb.String()
}

func labelFor(floatType string) string {
	for _, fe := range floatEnvs {
		if fe.name == strings.TrimSpace(floatType) {
			return fe.label
		}
	}
	return ""
}

// replaceGraphics rewrites \includegraphics as images.
func replaceGraphics(ctx *texrules.Context, text string) string {
	return texrules.ReplaceCommand(text, "includegraphics", 1, func(c texrules.Command) string {
		src := strings.TrimSpace(c.Args[0])
		var sb strings.Builder
		sb.WriteString(`<img class="tp-graphic" src="` + texrules.EscapeHTML(src) + `" alt="` + texrules.EscapeHTML(src) + `"`)
		if width := GraphicWidth(c.Optional); width != "" {
			sb.WriteString(` style="width: ` + width + `"`)
		}
		sb.WriteString(">")
		return ctx.ProtectHTML(sb.String())
	})
}

// GraphicWidth converts the width or scale key of \includegraphics options
// into a CSS width. Widths relative to the text width become percentages.
// It returns "" when no width applies.
func GraphicWidth(options string) string {
	for _, opt := range strings.Split(options, ",") {
		key, value, ok := strings.Cut(opt, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "width":
			for _, rel := range []string{`\textwidth`, `\linewidth`, `\columnwidth`} {
				if factor, found := strings.CutSuffix(value, rel); found {
					return relativeWidth(factor)
				}
			}
			if isCSSLength(value) {
				return value
			}
		case "scale":
			return relativeWidth(value)
		}
	}
	return ""
}

func relativeWidth(factor string) string {
	factor = strings.TrimSpace(factor)
	if factor == "" {
		return "100%"
	}
	f, err := strconv.ParseFloat(factor, 64)
	if err != nil || f <= 0 {
		return ""
	}
	return strconv.FormatFloat(math.Round(f*percentScale)/100, 'f', -1, 64) + "%"
}

func isCSSLength(value string) bool {
	for _, unit := range []string{"cm", "mm", "in", "pt", "px", "em"} {
		if number, found := strings.CutSuffix(value, unit); found {
			_, err := strconv.ParseFloat(number, 64)
			return err == nil
		}
	}
	return false
}
