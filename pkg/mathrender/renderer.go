// Package mathrender turns TeX math fragments into HTML.
//
// The default HTMLRenderer expands user macros, validates the fragment and
// emits it escaped inside the standard \( \) or \[ \] delimiters, ready for a
// client-side typesetter. Other engines plug in through the Renderer interface.
package mathrender

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// ErrUnbalancedBraces indicates a math fragment whose braces do not match.
var ErrUnbalancedBraces = errors.New("unbalanced braces in math")

// Renderer renders one math fragment. Implementations must not panic on any input.
type Renderer interface {
	RenderMath(tex string, display bool, macros Macros) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(tex string, display bool, macros Macros) (string, error)

// RenderMath calls f.
func (f RendererFunc) RenderMath(tex string, display bool, macros Macros) (string, error) {
	return f(tex, display, macros)
}

// HTMLRenderer is the default Renderer.
type HTMLRenderer struct {
	// MaxDepth bounds macro expansion. Zero selects DefaultMaxDepth.
	MaxDepth int
}

// NewHTMLRenderer creates an HTMLRenderer with default limits.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{MaxDepth: DefaultMaxDepth}
}

// RenderMath expands macros in tex and wraps the escaped result for display or
// inline typesetting.
func (r *HTMLRenderer) RenderMath(tex string, display bool, macros Macros) (string, error) {
	expanded, err := Expand(tex, macros, r.MaxDepth)
	if err != nil {
		return "", err
	}
	if err := CheckBraces(expanded); err != nil {
		return "", err
	}

	body := html.EscapeString(strings.TrimSpace(expanded))
	if display {
		return `<div class="math display">\[` + body + `\]</div>`, nil
	}
	return `<span class="math inline">\(` + body + `\)</span>`, nil
}

// CheckBraces verifies that unescaped braces in tex are balanced.
func CheckBraces(tex string) error {
	depth := 0
	for i := 0; i < len(tex); i++ {
		switch tex[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unexpected } at offset %d", ErrUnbalancedBraces, i)
			}
		}
	}
	if depth > 0 {
		return fmt.Errorf("%w: %d unclosed {", ErrUnbalancedBraces, depth)
	}
	return nil
}

// ErrorHTML renders a visible marker for a fragment that failed to render.
func ErrorHTML(tex string, display bool, err error) string {
	tag := "span"
	if display {
		tag = "div"
	}
	msg := "math error"
	if err != nil {
		msg = err.Error()
	}
	return "<" + tag + ` class="tp-math-error" title="` + html.EscapeString(msg) + `">` +
		html.EscapeString(tex) + "</" + tag + ">"
}
