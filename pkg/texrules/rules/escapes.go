package rules

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/texrules"
	"github.com/yaklabco/texpreview/pkg/texsplit"
)

// escapedChars are control symbols that print their character.
const escapedChars = `%&$#_{}`

// spacingSymbols map spacing and discretionary control symbols to text.
//
//nolint:gochecknoglobals // read-only lookup table
var spacingSymbols = map[byte]string{
	' ': " ",
	',': " ",
	';': " ",
	':': " ",
	'!': "",
	'-': "",
	'@': "",
	'/': "",
}

// textSymbols map symbol commands to the characters they print.
//
//nolint:gochecknoglobals // read-only lookup table
var textSymbols = map[string]string{
	"textbackslash":   `\`,
	"textasciitilde":  "~",
	"textasciicircum": "^",
	"textunderscore":  "_",
	"textbar":         "|",
	"textless":        "<",
	"textgreater":     ">",
	"textbullet":      "•",
	"textdegree":      "°",
	"S":               "§",
	"P":               "¶",
	"copyright":       "©",
	"pounds":          "£",
	"dag":             "†",
	"ddag":            "‡",
	"ss":              "ß",
	"ae":              "æ",
	"o":               "ø",
}

// EscapesRule turns control symbols into the characters they print and \\
// into line breaks.
type EscapesRule struct {
	texrules.BaseRule
}

// NewEscapesRule creates a new escapes rule.
func NewEscapesRule() *EscapesRule {
	return &EscapesRule{
		BaseRule: texrules.NewBaseRule(
			"TX040",
			"escapes",
			"Escaped characters and line breaks render literally",
			40,
			[]string{"text", "protect"},
		),
	}
}

// Apply implements texrules.Rule.
func (r *EscapesRule) Apply(ctx *texrules.Context, text string) (string, error) {
	if !strings.Contains(text, `\`) {
		return text, nil
	}

	var sb strings.Builder
	sb.Grow(len(text))
	pos := 0

	for pos < len(text) {
		idx := strings.IndexByte(text[pos:], '\\')
		if idx < 0 {
			break
		}
		sb.WriteString(text[pos : pos+idx])
		pos += idx

		if pos+1 >= len(text) {
			sb.WriteByte('\\')
			pos++
			continue
		}

		next := text[pos+1]
		switch {
		case next == '\\':
			pos = skipLineBreakArgs(text, pos+2)
			sb.WriteString(ctx.ProtectHTML("<br>"))
		case strings.IndexByte(escapedChars, next) >= 0:
			sb.WriteString(ctx.ProtectText(string(next)))
			pos += 2
		default:
			if repl, ok := spacingSymbols[next]; ok {
				sb.WriteString(repl)
				pos += 2
				continue
			}
			name, end, ok := texsplit.ReadName(text, pos)
			if !ok {
				sb.WriteByte('\\')
				pos++
				continue
			}
			if repl, known := textSymbols[name]; known {
				sb.WriteString(ctx.ProtectText(repl))
				pos = skipEmptyGroup(text, end)
				continue
			}
			sb.WriteString(text[pos:end])
			pos = end
		}
	}

	sb.WriteString(text[pos:])
	return sb.String(), nil
}

// skipLineBreakArgs skips the star and spacing argument of \\.
func skipLineBreakArgs(text string, pos int) int {
	if pos < len(text) && text[pos] == '*' {
		pos++
	}
	if pos < len(text) && text[pos] == '[' {
		if _, after, ok := texrules.ReadOptional(text, pos); ok {
			pos = after
		}
	}
	return pos
}

// skipEmptyGroup skips a {} terminating a symbol command, or the space after it.
func skipEmptyGroup(text string, pos int) int {
	if strings.HasPrefix(text[pos:], "{}") {
		return pos + 2
	}
	if pos < len(text) && text[pos] == ' ' {
		return pos + 1
	}
	return pos
}
