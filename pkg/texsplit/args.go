package texsplit

// ReadGroup reads a brace-delimited argument starting at or after pos, skipping
// leading horizontal whitespace. Escaped braces do not count toward nesting.
// It returns the group content, the offset just past the closing brace, and
// whether a complete group was found.
func ReadGroup(src string, pos int) (string, int, bool) {
	pos = skipSpaces(src, pos)
	if pos >= len(src) || src[pos] != '{' {
		return "", pos, false
	}

	depth := 0
	for idx := pos; idx < len(src); idx++ {
		switch src[idx] {
		case '\\':
			idx++ // skip the escaped byte
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[pos+1 : idx], idx + 1, true
			}
		}
	}

	return "", pos, false
}

// ReadOptional reads a bracket-delimited optional argument starting at or after
// pos. Brackets nested inside brace groups are ignored. When no optional
// argument is present it returns ok=false and pos unchanged.
func ReadOptional(src string, pos int) (string, int, bool) {
	start := skipSpaces(src, pos)
	if start >= len(src) || src[start] != '[' {
		return "", pos, false
	}

	braces := 0
	for idx := start + 1; idx < len(src); idx++ {
		switch src[idx] {
		case '\\':
			idx++
		case '{':
			braces++
		case '}':
			if braces > 0 {
				braces--
			}
		case ']':
			if braces == 0 {
				return src[start+1 : idx], idx + 1, true
			}
		}
	}

	return "", pos, false
}

// ReadName reads a control word (\name) at pos and returns the name without the
// backslash and the offset past it.
func ReadName(src string, pos int) (string, int, bool) {
	if pos >= len(src) || src[pos] != '\\' {
		return "", pos, false
	}
	end := pos + 1
	for end < len(src) && (isLetter(src[end]) || src[end] == '@') {
		end++
	}
	if end == pos+1 {
		return "", pos, false
	}
	return src[pos+1 : end], end, true
}

func skipSpaces(src string, pos int) int {
	for pos < len(src) && (src[pos] == ' ' || src[pos] == '\t') {
		pos++
	}
	return pos
}
