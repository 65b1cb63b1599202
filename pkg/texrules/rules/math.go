package rules

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// displayEnv describes how a display math environment is handed to the
// math renderer.
type displayEnv struct {
	name string
	// wrap is the environment used inside display math, or "" to pass the
	// body as is.
	wrap string
	// takesColumns is set for alignat, whose body starts with a column count.
	takesColumns bool
}

//nolint:gochecknoglobals // read-only lookup table
var displayEnvs = []displayEnv{
	{name: "equation"},
	{name: "equation*"},
	{name: "displaymath"},
	{name: "align", wrap: "aligned"},
	{name: "align*", wrap: "aligned"},
	{name: "flalign", wrap: "aligned"},
	{name: "flalign*", wrap: "aligned"},
	{name: "eqnarray", wrap: "aligned"},
	{name: "eqnarray*", wrap: "aligned"},
	{name: "gather", wrap: "gathered"},
	{name: "gather*", wrap: "gathered"},
	{name: "multline", wrap: "gathered"},
	{name: "multline*", wrap: "gathered"},
	{name: "alignat", wrap: "alignedat", takesColumns: true},
	{name: "alignat*", wrap: "alignedat", takesColumns: true},
}

// DisplayMathRule renders display math.
type DisplayMathRule struct {
	texrules.BaseRule
}

// NewDisplayMathRule creates a new display math rule.
func NewDisplayMathRule() *DisplayMathRule {
	return &DisplayMathRule{
		BaseRule: texrules.NewBaseRule(
			"TX020",
			"display-math",
			"Display math renders through the math renderer",
			20,
			[]string{"math", "protect"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *DisplayMathRule) Apply(ctx *texrules.Context, text string) (string, error) {
	render := func(tex string) string {
		return displayMath(ctx, tex)
	}

	text = replaceDelimited(text, "$$", "$$", false, render)
	text = replaceDelimited(text, `\[`, `\]`, false, render)

	if !strings.Contains(text, `\begin`) {
		return text, nil
	}
	for _, de := range displayEnvs {
		text = texrules.ReplaceEnvironment(text, de.name, func(env texrules.Env) string {
			return displayMath(ctx, de.source(env))
		})
	}
	return text, nil
}

// source rebuilds the math source for an environment.
func (de displayEnv) source(env texrules.Env) string {
	body := env.Body
	if env.HasOptional {
		body = "[" + env.Optional + "]" + body
	}
	if de.wrap == "" {
		return body
	}

	header := `\begin{` + de.wrap + `}`
	if de.takesColumns {
		if cols, after, ok := texrules.ReadGroup(body, 0); ok {
			header += "{" + cols + "}"
			body = body[after:]
		}
	}
	return header + body + `\end{` + de.wrap + `}`
}

// displayMath renders tex as a display math block. Labels inside the math
// become anchors on the wrapper.
func displayMath(ctx *texrules.Context, tex string) string {
	var labels []string
	tex = texrules.ReplaceCommand(tex, "label", 1, func(c texrules.Command) string {
		labels = append(labels, strings.TrimSpace(c.Args[0]))
		return ""
	})
	tex = texrules.ReplaceCommands(tex, []string{"nonumber", "notag"}, 0, func(texrules.Command) string {
		return ""
	})

	token := ctx.RenderMath(strings.TrimSpace(tex), true)
	if len(labels) == 0 {
		return texrules.HTMLBlock(token)
	}

	var sb strings.Builder
	sb.WriteString(`<div class="tp-equation" id="` + texrules.EscapeHTML(labels[0]) + `">`)
	for _, extra := range labels[1:] {
		sb.WriteString(`<span id="` + texrules.EscapeHTML(extra) + `"></span>`)
	}
	sb.WriteString(token)
	sb.WriteString(`</div>`)
	return texrules.HTMLBlock(ctx.ProtectHTML(sb.String()))
}

// InlineMathRule renders inline math.
type InlineMathRule struct {
	texrules.BaseRule
}

// NewInlineMathRule creates a new inline math rule.
func NewInlineMathRule() *InlineMathRule {
	return &InlineMathRule{
		BaseRule: texrules.NewBaseRule(
			"TX030",
			"inline-math",
			"Inline math renders through the math renderer",
			30,
			[]string{"math", "protect"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *InlineMathRule) Apply(ctx *texrules.Context, text string) (string, error) {
	render := func(tex string) string {
		return ctx.RenderMath(strings.TrimSpace(tex), false)
	}

	text = replaceDelimited(text, `\(`, `\)`, true, render)
	text = replaceDelimited(text, "$", "$", true, render)
	text = texrules.ReplaceEnvironment(text, "math", func(env texrules.Env) string {
		return render(env.Body)
	})
	text = texrules.ReplaceCommand(text, "ensuremath", 1, func(c texrules.Command) string {
		return render(c.Args[0])
	})
	return text, nil
}
