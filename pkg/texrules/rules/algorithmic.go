package rules

import (
	"strconv"
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
)

// algStep describes how one algorithmic keyword renders.
type algStep struct {
	// head is the bold keyword text.
	head string
	// tail follows the condition argument, if any.
	tail string
	// args is the number of brace-group arguments.
	args int
	// before and after adjust the indentation around the line.
	before, after int
}

// algSteps is keyed by lowercase keyword so both the algorithmic and the
// algpseudocode spellings match.
//
//nolint:gochecknoglobals // read-only lookup table
var algSteps = map[string]algStep{
	"state":        {},
	"statex":       {},
	"if":           {head: "if", tail: "then", args: 1, after: 1},
	"elsif":        {head: "else if", tail: "then", args: 1, before: -1, after: 1},
	"elseif":       {head: "else if", tail: "then", args: 1, before: -1, after: 1},
	"else":         {head: "else", before: -1, after: 1},
	"endif":        {head: "end if", before: -1},
	"for":          {head: "for", tail: "do", args: 1, after: 1},
	"forall":       {head: "for all", tail: "do", args: 1, after: 1},
	"endfor":       {head: "end for", before: -1},
	"while":        {head: "while", tail: "do", args: 1, after: 1},
	"endwhile":     {head: "end while", before: -1},
	"repeat":       {head: "repeat", after: 1},
	"until":        {head: "until", args: 1, before: -1},
	"loop":         {head: "loop", after: 1},
	"endloop":      {head: "end loop", before: -1},
	"function":     {head: "function", args: 2, after: 1},
	"procedure":    {head: "procedure", args: 2, after: 1},
	"endfunction":  {head: "end function", before: -1},
	"endprocedure": {head: "end procedure", before: -1},
	"require":      {head: "Require:"},
	"ensure":       {head: "Ensure:"},
	"return":       {head: "return"},
}

// replaceAlgorithmic renders algorithmic environments one statement per line.
func replaceAlgorithmic(text string) string {
	return texrules.ReplaceEnvironment(text, "algorithmic", func(env texrules.Env) string {
		return renderAlgorithmic(env.Body)
	})
}

func renderAlgorithmic(body string) string {
	var sb strings.Builder
	sb.WriteString("\n\n<div class=\"tp-algorithmic\">\n")

	indent := 0
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		content, step := algLine(line)
		indent = max(indent+step.before, 0)
		sb.WriteString(`<div class="tp-alg-line"`)
		if indent > 0 {
			sb.WriteString(` style="padding-left: ` + strconv.Itoa(2*indent) + `em"`)
		}
		sb.WriteString(">" + content + "</div>\n")
		indent = max(indent+step.after, 0)
	}

	sb.WriteString("</div>\n\n")
	return sb.String()
}

// algLine renders one statement line and reports its keyword.
func algLine(line string) (string, algStep) {
	name, end, ok := readControlWord(line)
	if !ok {
		return line, algStep{}
	}
	step, known := algSteps[strings.ToLower(name)]
	if !known {
		if strings.EqualFold(name, "comment") {
			if arg, after, hasArg := texrules.ReadGroup(line, end); hasArg {
				return `<span class="tp-alg-comment">&#9655; ` + arg + "</span>" + line[after:], algStep{}
			}
		}
		return line, algStep{}
	}

	rest := line[end:]
	var args []string
	for range step.args {
		arg, after, hasArg := texrules.ReadGroup(rest, 0)
		if !hasArg {
			break
		}
		args = append(args, arg)
		rest = rest[after:]
	}

	var parts []string
	if step.head != "" {
		parts = append(parts, "<strong>"+step.head+"</strong>")
	}
	switch {
	case len(args) > 1:
		parts = append(parts, args[0]+"("+args[1]+")")
	case len(args) > 0:
		parts = append(parts, args[0])
	}
	if step.tail != "" && len(args) > 0 {
		parts = append(parts, "<strong>"+step.tail+"</strong>")
	}
	if rest = strings.TrimSpace(rest); rest != "" {
		parts = append(parts, rest)
	}
	return strings.Join(parts, " "), step
}
