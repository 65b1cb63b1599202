// Package runner renders many documents concurrently.
package runner

// Options controls a batch render.
type Options struct {
	// Paths are the files or directories to render. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths and anchors glob patterns.
	// Defaults to the process working directory.
	WorkingDir string

	// Extensions are the lowercase source extensions, with leading dot,
	// picked up when walking directories. Defaults to DefaultExtensions().
	Extensions []string

	// ExcludeGlobs skip matching files and directories. Patterns use / as
	// the separator and ** to cross directories.
	ExcludeGlobs []string

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool

	// Jobs bounds the number of concurrent renders. 0 means runtime.NumCPU().
	Jobs int

	// OutputDir receives the HTML files, mirroring the layout under
	// WorkingDir. Empty writes each file next to its source.
	OutputDir string

	// Standalone wraps every file in a complete HTML page.
	Standalone bool
}

// DefaultExtensions returns the source extensions rendered by default.
func DefaultExtensions() []string {
	return []string{".tex", ".latex", ".ltx"}
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) paths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
