package texrules

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/yaklabco/texpreview/pkg/mathrender"
	"github.com/yaklabco/texpreview/pkg/protect"
)

// Metadata holds document-level information extracted from the preamble.
type Metadata struct {
	Title  string
	Author string
	Date   string
}

// IsZero reports whether no metadata was found.
func (m Metadata) IsZero() bool {
	return m.Title == "" && m.Author == "" && m.Date == ""
}

// Fingerprint returns a short stable hash of the metadata.
func (m Metadata) Fingerprint() string {
	hash := fnv.New64a()
	hash.Write([]byte(m.Title))
	hash.Write([]byte{0})
	hash.Write([]byte(m.Author))
	hash.Write([]byte{0})
	hash.Write([]byte(m.Date))
	return strconv.FormatUint(hash.Sum64(), 16)
}

// Context carries per-block state through the rule pipeline.
//
// A Context is created for each block render and must not be shared.
type Context struct {
	// Protect is the block's protection registry.
	Protect *protect.Registry

	// Math renders math fragments.
	Math mathrender.Renderer

	// Macros is the effective macro set for the document.
	Macros mathrender.Macros

	// Meta is the document metadata.
	Meta Metadata

	// BlockIndex is the position of the block in the document.
	BlockIndex int

	// Warnings collects non-fatal problems found while rendering the block.
	Warnings []string
}

// NewContext creates a Context with a fresh protection registry.
func NewContext(reg *protect.Registry, math mathrender.Renderer) *Context {
	if reg == nil {
		reg = protect.New()
	}
	if math == nil {
		math = mathrender.NewHTMLRenderer()
	}
	return &Context{
		Protect: reg,
		Math:    math,
	}
}

// ProtectHTML hides html from the Markdown pass and returns its token.
func (c *Context) ProtectHTML(html string) string {
	return c.Protect.Protect(html)
}

// ProtectText escapes text and hides it from the Markdown pass.
func (c *Context) ProtectText(text string) string {
	return c.Protect.Protect(EscapeHTML(text))
}

// RenderMath renders a math fragment and returns the token standing in for
// the result. Failures render as a visible error marker and are recorded as
// warnings; they never fail the block.
func (c *Context) RenderMath(tex string, display bool) string {
	html, err := c.renderMath(tex, display)
	if err != nil {
		c.Warnf("math: %v", err)
		html = mathrender.ErrorHTML(tex, display, err)
	}
	return c.Protect.Protect(html)
}

func (c *Context) renderMath(tex string, display bool) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("math renderer panic: %v", r)
		}
	}()
	return c.Math.RenderMath(tex, display, c.Macros)
}

// Warnf records a non-fatal problem.
func (c *Context) Warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}
