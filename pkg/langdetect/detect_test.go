package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/texpreview/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"shebang bash", "#!/bin/bash\necho hello", "bash"},
		{"shebang python", "#!/usr/bin/env python3\nprint('hello')", "python"},
		{"go code", "package main\n\nfunc main() {}\n", "go"},
		{"python def", "def foo(x):\n    return x\n", "python"},
		{"python import", "import numpy as np\nx = np.zeros(3)\n", "python"},
		{"c include", "#include <stdio.h>\nint main(void) { return 0; }\n", "c"},
		{"cpp include", "#include <iostream>\nint main() { std::cout << 1; }\n", "cpp"},
		{"java main", "public static void main(String[] args) {}\n", "java"},
		{"rust main", "fn main() {\n    let mut x = 1;\n}\n", "rust"},
		{"sql select", "select * from papers;", "sql"},
		{"latex source", "\\begin{itemize}\n\\item a\n\\end{itemize}", "latex"},
		{"empty", "", "text"},
		{"whitespace", "  \n\t", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, langdetect.Detect([]byte(tt.content)))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"Python", "python"},
		{"C++", "cpp"},
		{"[Sharp]C", "csharp"},
		{"[LaTeX]TeX", "latex"},
		{"[90]Fortran", "fortran"},
		{"Octave", "matlab"},
		{"sh", "bash"},
		{"  ", "text"},
		{"", "text"},
		{"mylang", "mylang"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, langdetect.Normalize(tt.input), "input %q", tt.input)
	}
}

func TestFromListingOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		options  string
		expected string
	}{
		{"language=Python", "python"},
		{"caption={A, b}, language = C++", "cpp"},
		{"language={[LaTeX]TeX}, numbers=left", "latex"},
		{"numbers=left", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, langdetect.FromListingOptions(tt.options), "options %q", tt.options)
	}
}
