package mathrender

import (
	"hash/fnv"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/texpreview/pkg/texsplit"
)

// maxMacroArgs is the largest parameter count a definition may declare.
const maxMacroArgs = 9

// Macro is a user-defined control sequence.
type Macro struct {
	// Name is the control word without the backslash.
	Name string

	// Args is the number of parameters (#1..#9).
	Args int

	// Body is the replacement text.
	Body string

	// Optional marks the first parameter as optional, with Default as its value.
	Optional bool
	Default  string
}

// Macros maps a macro name to its definition.
type Macros map[string]Macro

// Clone returns a copy of m.
func (m Macros) Clone() Macros {
	out := make(Macros, len(m))
	for name, macro := range m {
		out[name] = macro
	}
	return out
}

// Merge returns a new set with other's definitions overriding m's.
func (m Macros) Merge(other Macros) Macros {
	out := m.Clone()
	for name, macro := range other {
		out[name] = macro
	}
	return out
}

// Key returns a stable fingerprint of the set. Equal sets have equal keys.
func (m Macros) Key() string {
	if len(m) == 0 {
		return ""
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	hash := fnv.New64a()
	for _, name := range names {
		macro := m[name]
		hash.Write([]byte(name))
		hash.Write([]byte{0})
		hash.Write([]byte(strconv.Itoa(macro.Args)))
		if macro.Optional {
			hash.Write([]byte{1})
			hash.Write([]byte(macro.Default))
		}
		hash.Write([]byte{0})
		hash.Write([]byte(macro.Body))
		hash.Write([]byte{0})
	}

	return strconv.FormatUint(hash.Sum64(), 16)
}

// NewMacro builds a macro from a bare body, inferring the parameter count
// from the highest #n it references.
func NewMacro(name, body string) Macro {
	name = strings.TrimPrefix(name, `\`)
	args := 0
	for i := 0; i+1 < len(body); i++ {
		if body[i] == '#' && body[i+1] >= '1' && body[i+1] <= '9' {
			args = max(args, int(body[i+1]-'0'))
		}
	}
	return Macro{Name: name, Args: args, Body: body}
}

// DefinitionCommands lists the control words ParseMacroDefinition understands.
func DefinitionCommands() []string {
	return []string{"newcommand", "renewcommand", "providecommand", "def", "DeclareMathOperator"}
}

// ParseMacroDefinition parses a macro definition starting at the backslash at
// pos. Supported forms:
//
//	\newcommand{\name}[n][default]{body}   (also \renewcommand, \providecommand, starred)
//	\newcommand\name{body}
//	\def\name#1#2{body}
//	\DeclareMathOperator{\name}{text}      (starred for limits)
//
// It returns the macro and the offset just past the definition.
func ParseMacroDefinition(src string, pos int) (Macro, int, bool) {
	cmd, end, ok := texsplit.ReadName(src, pos)
	if !ok {
		return Macro{}, pos, false
	}

	star := end < len(src) && src[end] == '*'
	if star {
		end++
	}

	switch cmd {
	case "newcommand", "renewcommand", "providecommand":
		return parseNewCommand(src, pos, end)
	case "def":
		if star {
			return Macro{}, pos, false
		}
		return parseDef(src, pos, end)
	case "DeclareMathOperator":
		return parseOperator(src, pos, end, star)
	default:
		return Macro{}, pos, false
	}
}

func parseNewCommand(src string, pos, end int) (Macro, int, bool) {
	name, next, ok := readDefinedName(src, end)
	if !ok {
		return Macro{}, pos, false
	}

	macro := Macro{Name: name}
	if count, after, ok := texsplit.ReadOptional(src, next); ok {
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n < 0 || n > maxMacroArgs {
			return Macro{}, pos, false
		}
		macro.Args = n
		next = after

		if def, after, ok := texsplit.ReadOptional(src, next); ok && n > 0 {
			macro.Optional = true
			macro.Default = def
			next = after
		}
	}

	body, after, ok := texsplit.ReadGroup(src, next)
	if !ok {
		return Macro{}, pos, false
	}
	macro.Body = body

	return macro, after, true
}

func parseDef(src string, pos, end int) (Macro, int, bool) {
	name, next, ok := texsplit.ReadName(src, end)
	if !ok {
		return Macro{}, pos, false
	}

	args := 0
	for next+1 < len(src) && src[next] == '#' && src[next+1] >= '1' && src[next+1] <= '9' {
		args++
		next += 2
	}

	body, after, ok := texsplit.ReadGroup(src, next)
	if !ok {
		return Macro{}, pos, false
	}

	return Macro{Name: name, Args: args, Body: body}, after, true
}

func parseOperator(src string, pos, end int, star bool) (Macro, int, bool) {
	name, next, ok := readDefinedName(src, end)
	if !ok {
		return Macro{}, pos, false
	}

	text, after, ok := texsplit.ReadGroup(src, next)
	if !ok {
		return Macro{}, pos, false
	}

	op := `\operatorname`
	if star {
		op += "*"
	}

	return Macro{Name: name, Body: op + "{" + text + "}"}, after, true
}

// readDefinedName reads the macro name of a \newcommand-style definition,
// either braced ({\name}) or bare (\name).
func readDefinedName(src string, pos int) (string, int, bool) {
	for pos < len(src) && (src[pos] == ' ' || src[pos] == '\t') {
		pos++
	}
	if pos < len(src) && src[pos] == '{' {
		group, after, ok := texsplit.ReadGroup(src, pos)
		if !ok {
			return "", pos, false
		}
		group = strings.TrimSpace(group)
		name, end, ok := texsplit.ReadName(group, 0)
		if !ok || end != len(group) {
			return "", pos, false
		}
		return name, after, true
	}
	return texsplit.ReadName(src, pos)
}
