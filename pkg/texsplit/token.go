// Package texsplit segments scientific-paper markup into independently
// renderable blocks.
//
// Segmentation runs in two stages: Lex produces a contiguous token stream, and
// a Splitter consumes it with an explicit environment stack and brace depth
// counter, cutting blocks at top-level paragraph breaks and before major
// environments. Malformed input (unclosed braces, environments or display
// math delimiters) is absorbed by bounded-lookahead recovery so that a single
// typo never swallows the remainder of the document.
package texsplit

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	// TokText is a run of ordinary content.
	TokText TokenKind = iota

	// TokEscape is a backslash followed by a single non-letter byte (e.g. \{, \%, \\).
	TokEscape

	// TokCommand is a control word such as \section. Name holds the word without the backslash.
	TokCommand

	// TokComment runs from an unescaped % to the end of the line, newline excluded.
	TokComment

	// TokBegin is \begin{name}. Name holds the environment name.
	TokBegin

	// TokEnd is \end{name}. Name holds the environment name.
	TokEnd

	// TokOpenBrace is a raw {.
	TokOpenBrace

	// TokCloseBrace is a raw }.
	TokCloseBrace

	// TokNewline is a single line break that does not start a blank line.
	TokNewline

	// TokParBreak spans a newline followed by one or more whitespace-only lines.
	TokParBreak

	// TokDisplayDollar is the $$ display math delimiter.
	TokDisplayDollar

	// TokDisplayOpen is the \[ display math opener.
	TokDisplayOpen

	// TokDisplayClose is the \] display math closer.
	TokDisplayClose
)

// String returns a short human-readable name for the kind.
func (k TokenKind) String() string {
	switch k {
	case TokText:
		return "text"
	case TokEscape:
		return "escape"
	case TokCommand:
		return "command"
	case TokComment:
		return "comment"
	case TokBegin:
		return "begin"
	case TokEnd:
		return "end"
	case TokOpenBrace:
		return "open-brace"
	case TokCloseBrace:
		return "close-brace"
	case TokNewline:
		return "newline"
	case TokParBreak:
		return "par-break"
	case TokDisplayDollar:
		return "display-dollar"
	case TokDisplayOpen:
		return "display-open"
	case TokDisplayClose:
		return "display-close"
	default:
		return "unknown"
	}
}

// Token is a lexical unit covering source[Start:End].
type Token struct {
	Kind  TokenKind
	Start int
	End   int

	// Name is the environment name for TokBegin/TokEnd and the control word
	// for TokCommand. Empty otherwise.
	Name string
}

// Len returns the length of the token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// Text returns the source slice the token covers.
func (t Token) Text(src string) string {
	return src[t.Start:t.End]
}

// ValidateTokens reports whether tokens are contiguous, non-empty and cover [0, length).
func ValidateTokens(tokens []Token, length int) bool {
	pos := 0
	for _, tok := range tokens {
		if tok.Start != pos || tok.End <= tok.Start {
			return false
		}
		pos = tok.End
	}
	return pos == length
}
