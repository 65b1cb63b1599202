package mathrender

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/texpreview/pkg/texsplit"
)

const (
	// DefaultMaxDepth bounds nested macro expansion.
	DefaultMaxDepth = 16

	// maxExpansionBytes bounds the size of an expansion result.
	maxExpansionBytes = 1 << 20
)

var (
	// ErrMacroDepth indicates macro expansion nested deeper than allowed,
	// usually because a macro refers to itself.
	ErrMacroDepth = errors.New("macro expansion too deep")

	// ErrExpansionTooLarge indicates macro expansion produced too much output.
	ErrExpansionTooLarge = errors.New("macro expansion too large")

	// ErrMissingArgument indicates a macro was used with fewer arguments than it declares.
	ErrMissingArgument = errors.New("missing macro argument")
)

// Expand replaces every use of a macro in tex with its body, recursively up to
// maxDepth levels. A non-positive maxDepth selects DefaultMaxDepth.
func Expand(tex string, macros Macros, maxDepth int) (string, error) {
	if len(macros) == 0 || !strings.Contains(tex, `\`) {
		return tex, nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	exp := &expander{macros: macros, maxDepth: maxDepth}
	return exp.expand(tex, 0)
}

type expander struct {
	macros   Macros
	maxDepth int
	produced int
}

func (e *expander) expand(tex string, depth int) (string, error) {
	if depth > e.maxDepth {
		return "", fmt.Errorf("%w: limit %d", ErrMacroDepth, e.maxDepth)
	}

	var sb strings.Builder
	pos := 0
	for pos < len(tex) {
		idx := strings.IndexByte(tex[pos:], '\\')
		if idx < 0 {
			sb.WriteString(tex[pos:])
			break
		}
		sb.WriteString(tex[pos : pos+idx])
		pos += idx

		name, end, ok := texsplit.ReadName(tex, pos)
		if !ok {
			// Escaped character or trailing backslash.
			step := min(2, len(tex)-pos)
			sb.WriteString(tex[pos : pos+step])
			pos += step
			continue
		}

		macro, defined := e.macros[name]
		if !defined {
			sb.WriteString(tex[pos:end])
			pos = end
			continue
		}

		args, after, err := readArgs(tex, end, macro)
		if err != nil {
			return "", fmt.Errorf("\\%s: %w", name, err)
		}

		e.produced += len(macro.Body)
		if e.produced > maxExpansionBytes {
			return "", ErrExpansionTooLarge
		}

		inner, err := e.expand(substitute(macro.Body, args), depth+1)
		if err != nil {
			return "", err
		}
		sb.WriteString(inner)

		// Keep a control word from fusing with following letters.
		if after < len(tex) && isLetterByte(tex[after]) && endsWithControlWord(inner) {
			sb.WriteByte(' ')
		}
		pos = after
	}

	return sb.String(), nil
}

// readArgs collects the arguments of a macro use starting at pos.
func readArgs(tex string, pos int, macro Macro) ([]string, int, error) {
	args := make([]string, 0, macro.Args)
	for i := 0; i < macro.Args; i++ {
		if i == 0 && macro.Optional {
			if opt, after, ok := texsplit.ReadOptional(tex, pos); ok {
				args = append(args, opt)
				pos = after
			} else {
				args = append(args, macro.Default)
			}
			continue
		}

		arg, after, ok := readArg(tex, pos)
		if !ok {
			return nil, pos, fmt.Errorf("%w: want %d", ErrMissingArgument, macro.Args)
		}
		args = append(args, arg)
		pos = after
	}
	return args, pos, nil
}

// readArg reads one undelimited argument: a brace group, a control sequence or
// a single character.
func readArg(tex string, pos int) (string, int, bool) {
	for pos < len(tex) && (tex[pos] == ' ' || tex[pos] == '\t' || tex[pos] == '\n') {
		pos++
	}
	if pos >= len(tex) {
		return "", pos, false
	}

	switch tex[pos] {
	case '{':
		return texsplit.ReadGroup(tex, pos)
	case '}':
		return "", pos, false
	case '\\':
		if name, end, ok := texsplit.ReadName(tex, pos); ok {
			return `\` + name, end, true
		}
		end := min(pos+2, len(tex))
		return tex[pos:end], end, true
	default:
		// One UTF-8 sequence.
		end := pos + 1
		for end < len(tex) && tex[end]&0xC0 == 0x80 {
			end++
		}
		return tex[pos:end], end, true
	}
}

// substitute replaces #1..#9 in body with args. ## yields a literal #.
func substitute(body string, args []string) string {
	if !strings.Contains(body, "#") {
		return body
	}

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] != '#' || i+1 >= len(body) {
			sb.WriteByte(body[i])
			continue
		}
		next := body[i+1]
		switch {
		case next == '#':
			sb.WriteByte('#')
			i++
		case next >= '1' && next <= '9':
			if n := int(next - '1'); n < len(args) {
				sb.WriteString(args[n])
			}
			i++
		default:
			sb.WriteByte('#')
		}
	}
	return sb.String()
}

func endsWithControlWord(s string) bool {
	end := len(s)
	start := end
	for start > 0 && isLetterByte(s[start-1]) {
		start--
	}
	return start < end && start > 0 && s[start-1] == '\\'
}

func isLetterByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
