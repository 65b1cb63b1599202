package render

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/texpreview/pkg/config"
	"github.com/yaklabco/texpreview/pkg/markup"
	"github.com/yaklabco/texpreview/pkg/mathrender"
	"github.com/yaklabco/texpreview/pkg/protect"
	"github.com/yaklabco/texpreview/pkg/texrules"
	"github.com/yaklabco/texpreview/pkg/texsplit"
)

// DefaultFullThreshold is the changed block count above which a render emits
// a full payload instead of a patch.
const DefaultFullThreshold = 40

// MarkupRenderer converts the Markdown and raw HTML produced by the
// substitution rules into HTML.
type MarkupRenderer interface {
	Render(text string) (string, error)
}

// Options configures an Orchestrator. Zero-valued fields select defaults.
type Options struct {
	// Splitter tunes block segmentation.
	Splitter texsplit.Options

	// Rules is the rule registry. Defaults to texrules.DefaultRegistry.
	Rules *texrules.Registry

	// RuleOverrides enables or disables rules by ID, name or alias.
	RuleOverrides map[string]bool

	// Markup is the generic markup pass. Defaults to a GFM goldmark renderer.
	Markup MarkupRenderer

	// Math renders math fragments. Defaults to mathrender.NewHTMLRenderer().
	Math mathrender.Renderer

	// Macros are available to every document. Document definitions override them.
	Macros mathrender.Macros

	// FullThreshold is the changed block count above which a full payload
	// is emitted. Defaults to DefaultFullThreshold.
	FullThreshold int

	// MaxResolvePasses bounds nested token resolution per block.
	// Defaults to protect.DefaultMaxPasses.
	MaxResolvePasses int

	// Logger receives per-render statistics and block failures.
	// Defaults to logging.Default().
	Logger *log.Logger
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		Splitter:         texsplit.DefaultOptions(),
		Rules:            texrules.DefaultRegistry,
		FullThreshold:    DefaultFullThreshold,
		MaxResolvePasses: protect.DefaultMaxPasses,
	}
}

// OptionsFromConfig creates Options from config.Config.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}

	opts.Splitter = texsplit.Options{
		LookaheadWindow:   cfg.Splitter.LookaheadWindow,
		DisplayMathWindow: cfg.Splitter.DisplayMathWindow,
		TrapLines:         cfg.Splitter.TrapLines,
		MajorEnvs:         slices.Clone(cfg.Splitter.MajorEnvironments),
		IgnoredEnvs:       slices.Clone(cfg.Splitter.IgnoredEnvironments),
	}
	opts.RuleOverrides = cfg.RuleOverrides()
	var markupOpts []markup.Option
	if cfg.Render.Typographer {
		markupOpts = append(markupOpts, markup.WithTypographer())
	}
	if cfg.Render.XHTML {
		markupOpts = append(markupOpts, markup.WithXHTML())
	}
	opts.Markup = markup.New(string(cfg.Flavor), markupOpts...)

	if len(cfg.Macros) > 0 {
		opts.Macros = make(mathrender.Macros, len(cfg.Macros))
		for name, body := range cfg.Macros {
			macro := mathrender.NewMacro(name, body)
			opts.Macros[macro.Name] = macro
		}
	}
	if cfg.Render.FullThreshold > 0 {
		opts.FullThreshold = cfg.Render.FullThreshold
	}
	if cfg.Render.MaxResolvePasses > 0 {
		opts.MaxResolvePasses = cfg.Render.MaxResolvePasses
	}

	return opts
}
