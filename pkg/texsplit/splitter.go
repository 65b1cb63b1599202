package texsplit

import (
	"sort"
	"strings"
)

// Synthetic stack entries for open display math regions. Environment names
// cannot contain '$' or '\', so these never collide with a real environment.
const (
	stackDollar  = "$$"
	stackBracket = `\[`
)

// Block is a contiguous run of source text that renders as one HTML unit.
type Block struct {
	// Text is the trimmed source slice.
	Text string

	// StartLine is the 0-based line of the first non-whitespace byte. It never
	// decreases, but a forced mid-line split gives two blocks the same line.
	StartLine int

	// LineCount is the number of source lines spanned, consumed separators included.
	LineCount int
}

// EndLine returns the last line covered by the block.
func (b Block) EndLine() int {
	return b.StartLine + b.LineCount - 1
}

// Splitter segments text into blocks. A Splitter is immutable and safe for
// concurrent use.
type Splitter struct {
	opts    Options
	major   envSet
	ignored envSet
}

// NewSplitter creates a Splitter, filling zero-valued options with defaults.
func NewSplitter(opts Options) *Splitter {
	if opts.LookaheadWindow <= 0 {
		opts.LookaheadWindow = DefaultLookaheadWindow
	}
	if opts.DisplayMathWindow <= 0 {
		opts.DisplayMathWindow = DefaultDisplayMathWindow
	}
	if opts.TrapLines == 0 {
		opts.TrapLines = DefaultTrapLines
	}
	if opts.MajorEnvs == nil {
		opts.MajorEnvs = DefaultMajorEnvs()
	}
	if opts.IgnoredEnvs == nil {
		opts.IgnoredEnvs = DefaultIgnoredEnvs()
	}

	return &Splitter{
		opts:    opts,
		major:   newEnvSet(opts.MajorEnvs),
		ignored: newEnvSet(opts.IgnoredEnvs),
	}
}

// Options returns the effective options.
func (s *Splitter) Options() Options {
	return s.opts
}

//nolint:gochecknoglobals // Immutable default splitter.
var defaultSplitter = NewSplitter(DefaultOptions())

// Split segments text using the default options.
func Split(text string) []Block {
	return defaultSplitter.Split(text)
}

// Split segments text into blocks in source order. Whitespace-only and
// comment-only segments are dropped. Line numbers are relative to the first
// line of text.
func (s *Splitter) Split(text string) []Block {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	st := &splitState{
		Splitter: s,
		src:      text,
		tokens:   Lex(text),
		newlines: newlineOffsets(text),
	}
	st.run()

	return st.blocks
}

// splitState is the stack automaton for one Split call.
type splitState struct {
	*Splitter

	src      string
	tokens   []Token
	newlines []int
	blocks   []Block

	segStart int // byte offset where the pending segment begins
	segTok   int // index of the first token of the pending segment
	stack    []string
	depth    int
}

func (st *splitState) topLevel() bool {
	return len(st.stack) == 0 && st.depth == 0
}

func (st *splitState) reset() {
	st.stack = st.stack[:0]
	st.depth = 0
}

func (st *splitState) run() {
	for idx, tok := range st.tokens {
		switch tok.Kind {
		case TokBegin:
			st.onBegin(idx, tok)
		case TokEnd:
			st.onEnd(tok)
		case TokOpenBrace:
			st.depth++
		case TokCloseBrace:
			if st.depth > 0 {
				st.depth--
			}
		case TokDisplayDollar, TokDisplayOpen:
			st.onDisplayOpen(idx, tok)
		case TokDisplayClose:
			st.onDisplayClose(idx, tok)
		case TokParBreak:
			st.onParBreak(idx, tok)
		default:
		}
	}

	st.flush(len(st.src), len(st.tokens))
}

func (st *splitState) onBegin(idx int, tok Token) {
	if st.ignored.has(tok.Name) {
		return
	}
	if st.major.has(tok.Name) && st.topLevel() {
		st.flush(tok.Start, idx)
	}
	st.stack = append(st.stack, tok.Name)
}

// onEnd pops the stack down to the innermost matching entry. An \end with no
// matching entry is ordinary content.
func (st *splitState) onEnd(tok Token) {
	if st.ignored.has(tok.Name) {
		return
	}
	if pos := st.findEntry(tok.Name); pos >= 0 {
		st.stack = st.stack[:pos]
	}
}

// onDisplayOpen pushes a display math entry, or for $$ inside open $$ math,
// pops down to it the way \] does.
func (st *splitState) onDisplayOpen(idx int, tok Token) {
	if tok.Kind == TokDisplayDollar {
		if pos := st.findEntry(stackDollar); pos >= 0 {
			st.stack = st.stack[:pos]
			return
		}
	}

	limit := tok.End + st.opts.DisplayMathWindow
	if FindDisplayMathCloser(st.tokens, idx+1, tok.Kind, limit) < 0 {
		// Unclosed: literal text, isolated from what follows.
		if st.topLevel() {
			st.flush(tok.End, idx+1)
		}
		return
	}

	if st.topLevel() {
		st.flush(tok.Start, idx)
	}
	entry := stackDollar
	if tok.Kind == TokDisplayOpen {
		entry = stackBracket
	}
	st.stack = append(st.stack, entry)
}

func (st *splitState) onDisplayClose(idx int, tok Token) {
	if pos := st.findEntry(stackBracket); pos >= 0 {
		st.stack = st.stack[:pos]
		return
	}
	// A stray \] at top level is literal; isolate it like an unclosed opener.
	if st.topLevel() {
		st.flush(tok.End, idx+1)
	}
}

func (st *splitState) onParBreak(idx int, tok Token) {
	if st.topLevel() {
		st.flush(tok.End, idx+1)
		return
	}

	if st.depth > 0 {
		limit := tok.End + st.opts.LookaheadWindow
		if FindClosingBrace(st.tokens, idx+1, st.depth, limit) < 0 {
			// Unbalanced brace: assume a typo and recover.
			st.reset()
			st.flush(tok.End, idx+1)
			return
		}
	}

	if st.trapped(tok.Start) {
		st.reset()
		st.flush(tok.End, idx+1)
	}
}

// trapped reports whether the pending segment has outgrown the trap threshold.
func (st *splitState) trapped(offset int) bool {
	if st.opts.TrapLines < 0 {
		return false
	}
	return st.lineOf(offset)-st.lineOf(st.segStart) > st.opts.TrapLines
}

func (st *splitState) findEntry(name string) int {
	for pos := len(st.stack) - 1; pos >= 0; pos-- {
		if st.stack[pos] == name {
			return pos
		}
	}
	return -1
}

// flush emits src[segStart:end) as a block when it holds meaningful content
// and starts a new segment at end. tokEnd is the index of the first token of
// the new segment.
func (st *splitState) flush(end, tokEnd int) {
	if end <= st.segStart {
		return
	}

	if st.meaningful(st.segTok, tokEnd) {
		raw := st.src[st.segStart:end]
		lead := len(raw) - len(strings.TrimLeft(raw, " \t\r\n\f\v"))
		first := st.segStart + lead

		count := strings.Count(st.src[first:end], "\n")
		if st.src[end-1] != '\n' {
			count++
		}
		if count < 1 {
			count = 1
		}

		st.blocks = append(st.blocks, Block{
			Text:      strings.TrimSpace(raw),
			StartLine: st.lineOf(first),
			LineCount: count,
		})
	}

	st.segStart = end
	st.segTok = tokEnd
}

// meaningful reports whether tokens[from:to] contain anything besides
// comments and whitespace.
func (st *splitState) meaningful(from, to int) bool {
	if to > len(st.tokens) {
		to = len(st.tokens)
	}
	for _, tok := range st.tokens[from:to] {
		switch tok.Kind {
		case TokComment, TokNewline, TokParBreak:
			continue
		case TokText:
			if strings.TrimSpace(tok.Text(st.src)) == "" {
				continue
			}
			return true
		default:
			return true
		}
	}
	return false
}

// lineOf returns the 0-based line containing byte offset.
func (st *splitState) lineOf(offset int) int {
	return sort.SearchInts(st.newlines, offset)
}

func newlineOffsets(text string) []int {
	offsets := make([]int, 0, strings.Count(text, "\n"))
	for idx := 0; idx < len(text); idx++ {
		if text[idx] == '\n' {
			offsets = append(offsets, idx)
		}
	}
	return offsets
}
