package texsplit

import "strings"

// verbatimEnvs are lexed raw: their bodies are emitted as a single text token
// so that braces, comments and delimiters inside them are never interpreted.
//
//nolint:gochecknoglobals // Read-only lookup table.
var verbatimEnvs = map[string]bool{
	"verbatim":     true,
	"verbatim*":    true,
	"Verbatim":     true,
	"lstlisting":   true,
	"minted":       true,
	"comment":      true,
	"filecontents": true,
}

// IsVerbatimEnv reports whether the environment body is lexed raw.
func IsVerbatimEnv(name string) bool {
	return verbatimEnvs[name]
}

// lexer performs a single-pass tokenization of markup source.
// It produces a contiguous, non-overlapping token stream covering [0, len(src)).
type lexer struct {
	src       string
	tokens    []Token
	pos       int
	textStart int // start of pending text run, -1 when none

	// Math mode of the current paragraph, reset at paragraph breaks.
	inlineMath  bool
	displayMath bool
}

// Lex tokenizes text. The returned tokens are contiguous, non-overlapping and
// cover [0, len(text)); concatenating their source slices reproduces text.
func Lex(text string) []Token {
	if text == "" {
		return nil
	}

	const initialCapacityDivisor = 4 // reasonable initial capacity estimate
	lx := &lexer{
		src:       text,
		tokens:    make([]Token, 0, len(text)/initialCapacityDivisor+1),
		textStart: -1,
	}

	lx.run()

	return lx.tokens
}

// run performs the main tokenization loop.
func (l *lexer) run() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.lexBackslash()
		case '%':
			l.lexComment()
		case '{':
			l.emit(TokOpenBrace, l.pos, l.pos+1, "")
		case '}':
			l.emit(TokCloseBrace, l.pos, l.pos+1, "")
		case '$':
			l.lexDollar()
		case '\n':
			l.lexNewline()
		default:
			l.advanceText(1)
		}
	}
	l.flushText(len(l.src))
}

// advanceText extends the pending text run by n bytes.
func (l *lexer) advanceText(n int) {
	if l.textStart < 0 {
		l.textStart = l.pos
	}
	l.pos += n
}

// flushText emits the pending text run ending at end, if any.
func (l *lexer) flushText(end int) {
	if l.textStart >= 0 && end > l.textStart {
		l.tokens = append(l.tokens, Token{Kind: TokText, Start: l.textStart, End: end})
	}
	l.textStart = -1
}

// emit flushes pending text and appends a token, advancing past it.
func (l *lexer) emit(kind TokenKind, start, end int, name string) {
	l.flushText(start)
	l.tokens = append(l.tokens, Token{Kind: kind, Start: start, End: end, Name: name})
	l.pos = end
}

// lexDollar emits $$ as a display delimiter. Inside inline math, $$ closes
// one formula and opens the next, as in $a$$b$, and stays text.
func (l *lexer) lexDollar() {
	double := l.pos+1 < len(l.src) && l.src[l.pos+1] == '$'
	switch {
	case double && l.inlineMath:
		l.advanceText(2)
	case double:
		l.displayMath = !l.displayMath
		l.emit(TokDisplayDollar, l.pos, l.pos+2, "")
	default:
		if !l.displayMath {
			l.inlineMath = !l.inlineMath
		}
		l.advanceText(1)
	}
}

// lexBackslash handles control words, environment markers, escapes and \[ \].
func (l *lexer) lexBackslash() {
	start := l.pos
	if start+1 >= len(l.src) {
		l.advanceText(1)
		return
	}

	next := l.src[start+1]
	switch {
	case isLetter(next):
		l.lexControlWord(start)
	case next == '[':
		l.emit(TokDisplayOpen, start, start+2, "")
	case next == ']':
		l.emit(TokDisplayClose, start, start+2, "")
	case next == '\n' || next >= 0x80:
		// A backslash before a line break or a multi-byte rune is plain text;
		// the newline must stay visible to paragraph break detection.
		l.advanceText(1)
	default:
		l.emit(TokEscape, start, start+2, "")
	}
}

// lexControlWord handles \name, including \begin{env}, \end{env} and \verb.
func (l *lexer) lexControlWord(start int) {
	end := start + 1
	for end < len(l.src) && isLetter(l.src[end]) {
		end++
	}
	name := l.src[start+1 : end]

	switch name {
	case "begin", "end":
		env, envEnd, ok := scanEnvName(l.src, end)
		if !ok {
			l.emit(TokCommand, start, end, name)
			return
		}
		if name == "end" {
			l.emit(TokEnd, start, envEnd, env)
			return
		}
		l.emit(TokBegin, start, envEnd, env)
		if verbatimEnvs[env] {
			l.lexVerbatimBody(env)
		}
	case "verb":
		if verbEnd, ok := scanVerb(l.src, end); ok {
			// Inline verbatim is opaque content.
			if l.textStart < 0 {
				l.textStart = start
			}
			l.pos = verbEnd
			return
		}
		l.emit(TokCommand, start, end, name)
	default:
		l.emit(TokCommand, start, end, name)
	}
}

// lexVerbatimBody emits the raw body of a verbatim-like environment up to its
// matching \end. An unclosed body is lexed normally so that the rest of the
// document is not swallowed.
func (l *lexer) lexVerbatimBody(env string) {
	closer := `\end{` + env + `}`
	idx := strings.Index(l.src[l.pos:], closer)
	if idx < 0 {
		return
	}
	bodyEnd := l.pos + idx
	if bodyEnd > l.pos {
		l.tokens = append(l.tokens, Token{Kind: TokText, Start: l.pos, End: bodyEnd})
	}
	l.pos = bodyEnd
	l.emit(TokEnd, bodyEnd, bodyEnd+len(closer), env)
}

// lexComment emits a comment from % to the end of the line, newline excluded.
func (l *lexer) lexComment() {
	start := l.pos
	end := strings.IndexByte(l.src[start:], '\n')
	if end < 0 {
		end = len(l.src)
	} else {
		end += start
	}
	l.emit(TokComment, start, end, "")
}

// lexNewline emits either a single newline or a paragraph break spanning every
// following whitespace-only line.
func (l *lexer) lexNewline() {
	start := l.pos
	lastNewline := start
	scan := start + 1

	for scan < len(l.src) {
		ch := l.src[scan]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v' {
			scan++
			continue
		}
		if ch == '\n' {
			lastNewline = scan
			scan++
			continue
		}
		break
	}

	if lastNewline == start {
		l.emit(TokNewline, start, start+1, "")
		return
	}
	l.inlineMath, l.displayMath = false, false
	l.emit(TokParBreak, start, lastNewline+1, "")
}

// scanEnvName parses "{name}" after \begin or \end, allowing horizontal
// whitespace before the brace. Returns the name and the offset past '}'.
func scanEnvName(src string, pos int) (string, int, bool) {
	for pos < len(src) && (src[pos] == ' ' || src[pos] == '\t') {
		pos++
	}
	if pos >= len(src) || src[pos] != '{' {
		return "", 0, false
	}
	nameStart := pos + 1
	end := nameStart
	for end < len(src) && isEnvNameByte(src[end]) {
		end++
	}
	if end == nameStart || end >= len(src) || src[end] != '}' {
		return "", 0, false
	}
	return src[nameStart:end], end + 1, true
}

// scanVerb parses the delimited argument of \verb or \verb* starting at pos.
// The argument must close on the same line.
func scanVerb(src string, pos int) (int, bool) {
	if pos < len(src) && src[pos] == '*' {
		pos++
	}
	if pos >= len(src) {
		return 0, false
	}
	delim := src[pos]
	if isLetter(delim) || delim == ' ' || delim == '\n' || delim == '{' {
		return 0, false
	}
	for i := pos + 1; i < len(src); i++ {
		switch src[i] {
		case delim:
			return i + 1, true
		case '\n':
			return 0, false
		}
	}
	return 0, false
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isEnvNameByte(ch byte) bool {
	return isLetter(ch) || (ch >= '0' && ch <= '9') || ch == '*' || ch == '@' || ch == '-' || ch == ':'
}
