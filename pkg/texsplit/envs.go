package texsplit

import "strings"

// Default recovery limits. All are tunable through Options.
const (
	// DefaultLookaheadWindow bounds the forward scan for a matching close brace, in bytes.
	DefaultLookaheadWindow = 2000

	// DefaultDisplayMathWindow bounds the forward scan for a display math closer, in bytes.
	DefaultDisplayMathWindow = 2000

	// DefaultTrapLines is the number of buffered lines after which a block still
	// nested inside an environment or brace group is force-split.
	DefaultTrapLines = 50
)

// Options configures a Splitter. Zero-valued fields select the defaults.
type Options struct {
	// LookaheadWindow bounds the closing-brace search performed at a paragraph
	// break with non-zero brace depth. Worst case the splitter scans this many
	// bytes per paragraph break inside a brace group.
	LookaheadWindow int

	// DisplayMathWindow bounds the search for a closer after $$ or \[.
	DisplayMathWindow int

	// TrapLines forces a reset-and-split at the next paragraph break once a
	// nested block spans more lines. Negative disables the valve.
	TrapLines int

	// MajorEnvs force a split before them when opened at top level.
	MajorEnvs []string

	// IgnoredEnvs are kept as content but never pushed on the environment stack.
	IgnoredEnvs []string
}

// DefaultMajorEnvs returns the default set of split-forcing environments.
func DefaultMajorEnvs() []string {
	base := []string{
		// Display math.
		"equation", "align", "gather", "multline", "eqnarray", "displaymath", "flalign", "alignat",
		// Floats.
		"figure", "table", "algorithm", "wrapfigure",
		// Theorem-like.
		"theorem", "lemma", "corollary", "proposition", "definition", "remark",
		"example", "claim", "conjecture", "assumption", "note",
	}

	envs := make([]string, 0, len(base)*2+16)
	for _, name := range base {
		envs = append(envs, name, name+"*")
	}

	envs = append(envs, "tabular", "tabular*", "tabularx", "thebibliography", "abstract")
	for name := range verbatimEnvs {
		envs = append(envs, name)
	}

	return envs
}

// DefaultIgnoredEnvs returns the default set of environments transparent to splitting.
func DefaultIgnoredEnvs() []string {
	return []string{
		"document",
		"proof", "itemize", "enumerate", "description", "list",
		"tikzpicture", "tikzcd", "picture", "forest",
	}
}

// DefaultOptions returns the recommended splitter configuration.
func DefaultOptions() Options {
	return Options{
		LookaheadWindow:   DefaultLookaheadWindow,
		DisplayMathWindow: DefaultDisplayMathWindow,
		TrapLines:         DefaultTrapLines,
		MajorEnvs:         DefaultMajorEnvs(),
		IgnoredEnvs:       DefaultIgnoredEnvs(),
	}
}

// envSet is a normalized lookup of environment names.
type envSet map[string]bool

func newEnvSet(names []string) envSet {
	set := make(envSet, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			set[name] = true
		}
	}
	return set
}

func (s envSet) has(name string) bool {
	return s[name]
}
