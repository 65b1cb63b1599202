package texrules

import (
	"html"
	"strings"

	"github.com/yaklabco/texpreview/pkg/texsplit"
)

// Command is one parsed use of a control word.
type Command struct {
	// Name is the control word without the backslash.
	Name string

	// Star is true for the starred form (\name*).
	Star bool

	// Optional is the bracketed argument, valid when HasOptional is set.
	Optional    string
	HasOptional bool

	// Args are the mandatory brace-group arguments.
	Args []string

	// Start and End delimit the whole use in the source text.
	Start int
	End   int
}

// Env is one parsed environment.
type Env struct {
	// Name is the environment name as written, including any star.
	Name string

	// Optional is the bracketed argument after \begin{name}, valid when HasOptional is set.
	Optional    string
	HasOptional bool

	// Body is the content between the header and \end{name}.
	Body string

	// Start and End delimit the environment in the source text.
	Start int
	End   int
}

// ReadGroup reads a brace-delimited argument at or after pos.
func ReadGroup(src string, pos int) (string, int, bool) {
	return texsplit.ReadGroup(src, pos)
}

// ReadOptional reads a bracket-delimited optional argument at or after pos.
func ReadOptional(src string, pos int) (string, int, bool) {
	return texsplit.ReadOptional(src, pos)
}

// EscapeHTML escapes the HTML special characters in s.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// ReplaceCommand rewrites every use of \name that carries nargs brace-group
// arguments. An optional bracketed argument and a star are recognized when
// present. Uses with missing arguments are left unchanged.
func ReplaceCommand(text, name string, nargs int, fn func(Command) string) string {
	return ReplaceCommands(text, []string{name}, nargs, fn)
}

// ReplaceCommands is ReplaceCommand for several control words sharing an
// argument shape.
func ReplaceCommands(text string, names []string, nargs int, fn func(Command) string) string {
	if !strings.Contains(text, `\`) {
		return text
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var sb strings.Builder
	last := 0
	pos := 0
	for pos < len(text) {
		idx := strings.IndexByte(text[pos:], '\\')
		if idx < 0 {
			break
		}
		pos += idx

		cmdName, end, ok := texsplit.ReadName(text, pos)
		if !ok {
			pos += 2 // escaped character, including \\
			continue
		}
		if !wanted[cmdName] {
			pos = end
			continue
		}

		cmd, ok := parseCommand(text, pos, end, cmdName, nargs)
		if !ok {
			pos = end
			continue
		}

		sb.WriteString(text[last:cmd.Start])
		sb.WriteString(fn(cmd))
		last = cmd.End
		pos = cmd.End
	}

	if last == 0 {
		return text
	}
	sb.WriteString(text[last:])
	return sb.String()
}

func parseCommand(text string, start, end int, name string, nargs int) (Command, bool) {
	cmd := Command{Name: name, Start: start}

	pos := end
	if pos < len(text) && text[pos] == '*' {
		cmd.Star = true
		pos++
	}
	if opt, after, ok := texsplit.ReadOptional(text, pos); ok {
		cmd.Optional = opt
		cmd.HasOptional = true
		pos = after
	}

	for range nargs {
		arg, after, ok := texsplit.ReadGroup(text, skipBlank(text, pos))
		if !ok {
			return Command{}, false
		}
		cmd.Args = append(cmd.Args, arg)
		pos = after
	}

	// Swallow the space that terminates an argument-less control word.
	if nargs == 0 && !cmd.HasOptional && pos < len(text) && text[pos] == ' ' {
		pos++
	}

	cmd.End = pos
	return cmd, true
}

// ReplaceEnvironment rewrites every \begin{name}..\end{name} in text, honoring
// nesting of the same environment. Unclosed environments are left unchanged.
func ReplaceEnvironment(text, name string, fn func(Env) string) string {
	if !strings.Contains(text, `\begin{`+name+`}`) {
		return text
	}

	var sb strings.Builder
	last := 0
	for {
		env, ok := FindEnvironment(text, name, last)
		if !ok {
			break
		}
		sb.WriteString(text[last:env.Start])
		sb.WriteString(fn(env))
		last = env.End
	}

	if last == 0 {
		return text
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// FindEnvironment returns the first complete \begin{name}..\end{name} that
// starts at or after from.
func FindEnvironment(text, name string, from int) (Env, bool) {
	begin := `\begin{` + name + `}`
	end := `\end{` + name + `}`

	pos := from
	for pos < len(text) {
		idx := strings.Index(text[pos:], begin)
		if idx < 0 {
			return Env{}, false
		}
		start := pos + idx
		headerEnd := start + len(begin)

		closeAt := findEnvEnd(text, headerEnd, begin, end)
		if closeAt < 0 {
			pos = headerEnd
			continue
		}

		env := Env{Name: name, Start: start, End: closeAt + len(end)}
		bodyStart := headerEnd
		if opt, after, ok := texsplit.ReadOptional(text, headerEnd); ok && after <= closeAt {
			env.Optional = opt
			env.HasOptional = true
			bodyStart = after
		}
		env.Body = text[bodyStart:closeAt]
		return env, true
	}
	return Env{}, false
}

// findEnvEnd returns the offset of the \end matching a \begin whose header
// ends at from, or -1.
func findEnvEnd(text string, from int, begin, end string) int {
	depth := 1
	pos := from
	for {
		nextEnd := strings.Index(text[pos:], end)
		if nextEnd < 0 {
			return -1
		}
		nextBegin := strings.Index(text[pos:], begin)
		if nextBegin >= 0 && nextBegin < nextEnd {
			depth++
			pos += nextBegin + len(begin)
			continue
		}
		depth--
		if depth == 0 {
			return pos + nextEnd
		}
		pos += nextEnd + len(end)
	}
}

// Dedent removes leading horizontal whitespace from every line.
func Dedent(text string) string {
	if !strings.Contains(text, "\n ") && !strings.Contains(text, "\n\t") &&
		!strings.HasPrefix(text, " ") && !strings.HasPrefix(text, "\t") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// HTMLBlock wraps an already-protected token in a raw HTML block so the
// Markdown pass neither wraps it in a paragraph nor merges it with
// neighbouring text.
func HTMLBlock(token string) string {
	return "\n\n<div class=\"tp-raw\">" + token + "</div>\n\n"
}

func skipBlank(text string, pos int) int {
	for pos < len(text) && (text[pos] == ' ' || text[pos] == '\t' || text[pos] == '\n') {
		pos++
	}
	return pos
}
