// Package markup provides the generic Markdown-to-HTML pass using goldmark.
//
// Substitution rules hand this pass a mix of Markdown and raw HTML in which
// fragile content is hidden behind protection tokens, so the renderer is
// configured to pass raw HTML through unchanged.
package markup

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Flavor identifies the Markdown flavor used by the renderer.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Renderer converts Markdown text to HTML. It is safe for concurrent use.
type Renderer struct {
	flavor string
	md     goldmark.Markdown
}

// Option configures a Renderer.
type Option func(*settings)

type settings struct {
	typographer bool
	xhtml       bool
}

// WithTypographer enables smart punctuation (dashes, ellipses, quotes).
func WithTypographer() Option {
	return func(s *settings) { s.typographer = true }
}

// WithXHTML emits self-closing void elements.
func WithXHTML() Option {
	return func(s *settings) { s.xhtml = true }
}

// New creates a renderer for the given flavor. Supported flavors are
// "commonmark" and "gfm". Invalid flavors default to "commonmark".
func New(flavor string, opts ...Option) *Renderer {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}

	f := FlavorOrDefault(flavor)
	return &Renderer{
		flavor: f,
		md:     newGoldmarkInstance(f, cfg),
	}
}

// Flavor returns the configured Markdown flavor.
func (r *Renderer) Flavor() string {
	return r.flavor
}

// Render converts text to HTML.
func (r *Renderer) Render(text string) (string, error) {
	var buf bytes.Buffer
	buf.Grow(len(text) + len(text)/2)

	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("markup conversion failed: %w", err)
	}

	return buf.String(), nil
}

// FlavorOrDefault returns the flavor if valid, otherwise CommonMark.
func FlavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string, cfg settings) goldmark.Markdown {
	var exts []goldmark.Extender

	switch flavor {
	case FlavorGFM:
		exts = append(exts, extension.GFM)
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	if cfg.typographer {
		exts = append(exts, extension.Typographer)
	}

	rendererOpts := []goldmark.Option{}
	htmlOpts := []renderer.Option{html.WithUnsafe()}
	if cfg.xhtml {
		htmlOpts = append(htmlOpts, html.WithXHTML())
	}
	rendererOpts = append(rendererOpts,
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(htmlOpts...),
	)

	return goldmark.New(rendererOpts...)
}
