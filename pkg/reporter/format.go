package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format represents an output format.
type Format string

// Output formats supported by the reporter.
const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formats returns every supported format in help order.
func Formats() []Format {
	return []Format{FormatText, FormatTable, FormatJSON}
}

// ParseFormat parses a format name. The empty string selects FormatText.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	if f := Format(s); f.IsValid() {
		return f, nil
	}

	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", s, strings.Join(names, ", "))
}

func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	return slices.Contains(Formats(), f)
}
