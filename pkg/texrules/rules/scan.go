package rules

import (
	"strings"

	"github.com/yaklabco/texpreview/pkg/texsplit"
)

// replaceDelimited rewrites every span opened by opener and closed by closer.
// Delimiters are matched outside escapes, so \$ and \\[ never count. An
// opener without a closer stays literal. With stopAtPar, a blank line ends
// the search for the closer.
func replaceDelimited(text, opener, closer string, stopAtPar bool, fn func(inner string) string) string {
	if !strings.Contains(text, opener) {
		return text
	}

	var sb strings.Builder
	last := 0
	pos := 0

	for pos < len(text) {
		at := findDelimiter(text, pos, opener, false)
		if at < 0 {
			break
		}
		innerStart := at + len(opener)
		closeAt := findDelimiter(text, innerStart, closer, stopAtPar)
		if closeAt < 0 {
			pos = innerStart
			continue
		}

		sb.WriteString(text[last:at])
		sb.WriteString(fn(text[innerStart:closeAt]))
		last = closeAt + len(closer)
		pos = last
	}

	if last == 0 {
		return text
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// findDelimiter returns the offset of the next unescaped delim at or after
// from, or -1. A single $ never matches the first half of $$.
func findDelimiter(text string, from int, delim string, stopAtPar bool) int {
	single := delim == "$"

	for idx := from; idx < len(text); idx++ {
		ch := text[idx]
		switch {
		case ch == '\\':
			if delim[0] == '\\' && strings.HasPrefix(text[idx:], delim) {
				return idx
			}
			idx++ // skip the escaped byte
		case ch == '\n' && stopAtPar && isBlankLineAt(text, idx+1):
			return -1
		case strings.HasPrefix(text[idx:], delim):
			if single && idx+1 < len(text) && text[idx+1] == '$' {
				idx++
				continue
			}
			return idx
		}
	}
	return -1
}

// isBlankLineAt reports whether the line starting at pos holds only
// horizontal whitespace before its newline.
func isBlankLineAt(text string, pos int) bool {
	for pos < len(text) {
		switch text[pos] {
		case ' ', '\t':
			pos++
		case '\n':
			return true
		default:
			return false
		}
	}
	return false
}

// collapseLines joins the lines of s with single spaces.
func collapseLines(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitTopLevel splits s on sep where sep is outside brace groups and not
// escaped.
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth := 0
	start := 0

	for idx := 0; idx < len(s); idx++ {
		switch s[idx] {
		case '{':
			depth++
			continue
		case '}':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 && strings.HasPrefix(s[idx:], sep) {
			parts = append(parts, s[start:idx])
			idx += len(sep) - 1
			start = idx + 1
			continue
		}
		if s[idx] == '\\' {
			idx++
		}
	}
	return append(parts, s[start:])
}

// scanCommands calls fn for every control word listed in names. fn returns
// the replacement and the end offset of the use, or ok=false to leave the
// use unchanged.
func scanCommands(text string, names map[string]bool, fn func(name string, start, end int) (string, int, bool)) string {
	if !strings.Contains(text, `\`) {
		return text
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

		name, end, ok := texsplit.ReadName(text, pos)
		if !ok {
			pos += 2
			continue
		}
		if !names[name] {
			pos = end
			continue
		}

		repl, stop, ok := fn(name, pos, end)
		if !ok {
			pos = end
			continue
		}
		sb.WriteString(text[last:pos])
		sb.WriteString(repl)
		last = stop
		pos = stop
	}

	if last == 0 {
		return text
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// nameSet builds a lookup set from names.
func nameSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// splitKeys splits a comma-separated key list, dropping empty keys.
func splitKeys(list string) []string {
	var keys []string
	for _, key := range strings.Split(list, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
