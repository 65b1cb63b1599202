// Package langdetect names the programming language of code listings.
// It uses go-enry to resolve listings and minted language names and to guess
// the language of unlabelled verbatim content, so listings render with a
// highlighter-friendly language class.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language constants for common detected languages.
const (
	langBash   = "bash"
	langC      = "c"
	langCpp    = "cpp"
	langCSharp = "csharp"
	langGo     = "go"
	langJava   = "java"
	langLaTeX  = "latex"
	langMatlab = "matlab"
	langPython = "python"
	langRust   = "rust"
	langSQL    = "sql"
	langText   = "text"
)

// Text is returned when no language could be determined.
const Text = langText

// listingsNames maps names used by the listings and minted packages that
// enry does not know as aliases.
//
//nolint:gochecknoglobals // read-only lookup table
var listingsNames = map[string]string{
	"c++":         langCpp,
	"[sharp]c":    langCSharp,
	"c#":          langCSharp,
	"[latex]tex":  langLaTeX,
	"tex":         langLaTeX,
	"latex":       langLaTeX,
	"sh":          langBash,
	"shell":       langBash,
	"octave":      langMatlab,
	"[77]fortran": "fortran",
	"[90]fortran": "fortran",
	"[95]fortran": "fortran",
}

// Normalize converts a language name as written in a listings option or a
// minted argument into a lowercase class name. Unknown names are lowercased
// and returned as they are; an empty name yields Text.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return langText
	}

	key := strings.ToLower(name)
	if mapped, ok := listingsNames[key]; ok {
		return mapped
	}
	// Strip a listings dialect such as [ANSI]C or [Objective]Caml.
	if strings.HasPrefix(key, "[") {
		if idx := strings.IndexByte(key, ']'); idx >= 0 {
			key = key[idx+1:]
		}
	}
	if lang, ok := enry.GetLanguageByAlias(key); ok {
		return fold(lang)
	}
	return key
}

// FromListingOptions extracts the language from a listings key-value option
// list such as "language=Python, caption={A}". It returns "" when the options
// name no language.
func FromListingOptions(options string) string {
	depth := 0
	start := 0
	for idx := 0; idx <= len(options); idx++ {
		if idx < len(options) {
			switch options[idx] {
			case '{':
				depth++
				continue
			case '}':
				depth--
				continue
			case ',':
				if depth > 0 {
					continue
				}
			default:
				continue
			}
		}

		key, value, found := strings.Cut(options[start:idx], "=")
		start = idx + 1
		if found && strings.EqualFold(strings.TrimSpace(key), "language") {
			return Normalize(strings.Trim(strings.TrimSpace(value), "{}"))
		}
	}
	return ""
}

// Detect guesses the language of code content. It returns Text when
// detection fails or confidence is low.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return langText
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fold(lang)
	}

	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	candidates := []string{
		"Python", "C", "C++", "Java", "Go", "Rust", "Shell",
		"MATLAB", "SQL", "JavaScript", "TeX", "R", "Julia",
	}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return fold(lang)
	}

	return langText
}

// detectByPattern checks for patterns that are highly indicative of a
// language in short academic listings.
func detectByPattern(content []byte) string {
	text := string(content)
	trimmed := strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(trimmed, "package "):
		return langGo
	case strings.Contains(text, "#include <iostream>") || strings.Contains(text, "std::"):
		return langCpp
	case strings.Contains(text, "#include"):
		return langC
	case strings.Contains(text, "public static void main") || strings.Contains(text, "System.out.println"):
		return langJava
	case strings.Contains(text, "fn main()") || strings.Contains(text, "let mut "):
		return langRust
	case isPython(text):
		return langPython
	case isMatlab(text):
		return langMatlab
	case isSQL(trimmed):
		return langSQL
	case strings.Contains(text, `\documentclass`) || strings.Contains(text, `\begin{`):
		return langLaTeX
	}
	return ""
}

func isPython(text string) bool {
	if strings.Contains(text, "def ") && strings.Contains(text, "):") {
		return true
	}
	if strings.Contains(text, "__name__") {
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(text), "import ") && !strings.Contains(text, ";")
}

func isMatlab(text string) bool {
	return strings.Contains(text, "function ") && strings.Contains(text, "end") &&
		(strings.Contains(text, "%") || strings.Contains(text, "zeros(") || strings.Contains(text, "disp("))
}

func isSQL(trimmed string) bool {
	upper := strings.ToUpper(trimmed)
	for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}

// fold converts enry language names to class names.
func fold(lang string) string {
	switch lang {
	case "Shell":
		return langBash
	case "C++":
		return langCpp
	case "C#":
		return langCSharp
	case "TeX":
		return langLaTeX
	}
	return strings.ToLower(lang)
}
