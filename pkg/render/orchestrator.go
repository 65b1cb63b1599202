package render

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/texpreview/internal/logging"
	"github.com/yaklabco/texpreview/pkg/blockdiff"
	"github.com/yaklabco/texpreview/pkg/markup"
	"github.com/yaklabco/texpreview/pkg/mathrender"
	"github.com/yaklabco/texpreview/pkg/protect"
	"github.com/yaklabco/texpreview/pkg/texrules"
	"github.com/yaklabco/texpreview/pkg/texsplit"
)

// ErrBlockRender wraps any failure that replaced a block with an error marker.
var ErrBlockRender = errors.New("block render failed")

// titleMarker is the command whose output depends on the document metadata.
const titleMarker = `\maketitle`

// CachedBlock is one rendered block of the previous render.
type CachedBlock struct {
	// Text is the block source compared by the diff, fingerprint included.
	Text string

	// HTML is the rendered block without its wrapper element.
	HTML string

	// Index is the absolute position of the block.
	Index int

	// StartLine is the 0-based absolute line of the block's first line.
	StartLine int

	// LineCount is the number of source lines the block spans.
	LineCount int

	// Warnings are non-fatal problems found while rendering the block.
	Warnings []string

	// Err is set when the block failed and HTML holds an error marker.
	Err error
}

// Orchestrator renders successive versions of one document, re-rendering
// only the blocks whose source changed.
//
// An Orchestrator is not safe for concurrent use; callers serialize Render
// calls and use one instance per open document.
type Orchestrator struct {
	splitter      *texsplit.Splitter
	rules         []texrules.Rule
	markup        MarkupRenderer
	math          mathrender.Renderer
	macros        mathrender.Macros
	fullThreshold int
	resolvePasses int
	logger        *log.Logger

	blocks     []CachedBlock
	docMacros  mathrender.Macros
	macroKey   string
	meta       Metadata
	bodyOffset int
	lineMap    *LineMap
}

// New creates an Orchestrator with an empty cache.
func New(opts Options) *Orchestrator {
	if opts.Rules == nil {
		opts.Rules = texrules.DefaultRegistry
	}
	if opts.Markup == nil {
		opts.Markup = markup.New(markup.FlavorGFM)
	}
	if opts.Math == nil {
		opts.Math = mathrender.NewHTMLRenderer()
	}
	if opts.FullThreshold <= 0 {
		opts.FullThreshold = DefaultFullThreshold
	}
	if opts.MaxResolvePasses <= 0 {
		opts.MaxResolvePasses = protect.DefaultMaxPasses
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}

	rules, unknown := texrules.ResolveRules(opts.Rules, opts.RuleOverrides)
	for _, key := range unknown {
		opts.Logger.Warn("unknown rule in overrides", logging.FieldName, key)
	}

	return &Orchestrator{
		splitter:      texsplit.NewSplitter(opts.Splitter),
		rules:         rules,
		markup:        opts.Markup,
		math:          opts.Math,
		macros:        opts.Macros.Clone(),
		fullThreshold: opts.FullThreshold,
		resolvePasses: opts.MaxResolvePasses,
		logger:        opts.Logger,
		lineMap:       NewLineMap(nil),
	}
}

// Reset drops the block cache and document state. The next Render emits a
// full payload.
func (o *Orchestrator) Reset() {
	o.blocks = nil
	o.docMacros = nil
	o.macroKey = ""
	o.meta = Metadata{}
	o.bodyOffset = 0
	o.lineMap = NewLineMap(nil)
}

// Render renders text and returns the patch that turns the previous view
// into the new one. It never fails: blocks that cannot be rendered carry an
// inline error marker.
func (o *Orchestrator) Render(text string) *Patch {
	started := time.Now()

	text = NeutralizeComments(NormalizeText(text))
	text, meta, docMacros := ExtractMetadata(text)
	macros := o.macros.Merge(docMacros)
	if key := macros.Key(); key != o.macroKey {
		if len(o.blocks) > 0 {
			o.logger.Debug("macro set changed, dropping block cache", logging.FieldMacros, len(macros))
		}
		o.blocks = nil
		o.macroKey = key
	}
	o.docMacros = macros
	o.meta = meta

	body, offset := ExtractBody(text)
	o.bodyOffset = offset
	split := o.splitter.Split(body)

	texts := make([]string, len(split))
	for i, block := range split {
		texts[i] = block.Text
		if strings.Contains(block.Text, titleMarker) {
			texts[i] += "\n%" + meta.Fingerprint()
		}
	}

	prev := make([]string, len(o.blocks))
	for i, block := range o.blocks {
		prev[i] = block.Text
	}

	diff := blockdiff.Diff(prev, texts)
	rendered := make([]CachedBlock, len(diff.Inserted))
	for i := range diff.Inserted {
		idx := diff.Start + i
		rendered[i] = o.renderBlock(idx, split[idx].Text)
		rendered[i].Text = texts[idx]
	}

	full := len(o.blocks) == 0 || diff.DeleteCount+len(diff.Inserted) > o.fullThreshold
	blocks := blockdiff.Apply(o.blocks, diff, rendered)

	if diff.End > 0 && diff.Shift() != 0 {
		for i := len(blocks) - diff.End; i < len(blocks); i++ {
			blocks[i].Index = i
		}
	}
	for i, block := range split {
		blocks[i].StartLine = block.StartLine + offset
		blocks[i].LineCount = block.LineCount
	}

	o.blocks = blocks
	o.lineMap = NewLineMap(blocks)

	o.logger.Debug("render",
		logging.FieldBlocks, len(blocks),
		logging.FieldStart, diff.Start,
		logging.FieldDeleted, diff.DeleteCount,
		logging.FieldInserted, len(diff.Inserted),
		logging.FieldEnd, diff.End,
		logging.FieldFull, full,
		logging.FieldDuration, time.Since(started),
	)

	if full {
		return &Patch{Type: PatchFull, HTML: o.HTML(), Shift: diff.Shift()}
	}

	htmls := make([]string, len(rendered))
	for i := range rendered {
		htmls[i] = wrapBlock(blocks[diff.Start+i])
	}
	return &Patch{
		Type:        PatchIncremental,
		Start:       diff.Start,
		DeleteCount: diff.DeleteCount,
		End:         diff.End,
		HTMLs:       htmls,
		Shift:       diff.Shift(),
	}
}

// renderBlock runs one block through the rules, the markup pass and token
// resolution. Failures are contained in the returned block.
func (o *Orchestrator) renderBlock(index int, src string) CachedBlock {
	block := CachedBlock{Index: index}

	html, warnings, err := o.renderHTML(index, src)
	block.Warnings = warnings
	if err != nil {
		o.logger.Warn("block render failed", logging.FieldBlock, index, logging.FieldError, err)
		block.Err = err
		html = ErrorHTML(err)
	}
	for _, warning := range warnings {
		o.logger.Debug(warning, logging.FieldBlock, index)
	}

	block.HTML = html
	return block
}

func (o *Orchestrator) renderHTML(index int, src string) (html string, warnings []string, err error) {
	reg := protect.New(protect.WithPrefix(blockPrefix(index)), protect.WithMaxPasses(o.resolvePasses))
	ctx := texrules.NewContext(reg, o.math)
	ctx.Macros = o.docMacros
	ctx.Meta = o.meta
	ctx.BlockIndex = index

	defer func() {
		if r := recover(); r != nil {
			warnings = ctx.Warnings
			err = fmt.Errorf("%w: panic: %v", ErrBlockRender, r)
		}
	}()

	text, err := texrules.Run(ctx, o.rules, src)
	if err != nil {
		return "", ctx.Warnings, fmt.Errorf("%w: %w", ErrBlockRender, err)
	}

	out, err := o.markup.Render(text)
	if err != nil {
		return "", ctx.Warnings, fmt.Errorf("%w: markup: %w", ErrBlockRender, err)
	}

	resolved, err := reg.ResolveChecked(out)
	if err != nil {
		ctx.Warnf("resolve: %v", err)
	}

	return strings.TrimSpace(resolved), ctx.Warnings, nil
}

// ErrorHTML renders a visible inline marker for a failed block.
func ErrorHTML(err error) string {
	return `<div class="tp-error">` + texrules.EscapeHTML(err.Error()) + `</div>`
}

// blockPrefix names a block's token namespace after its position: 0 is "a",
// 25 is "z", 26 is "ba".
func blockPrefix(index int) string {
	const letters = 26

	var buf []byte
	for {
		buf = append(buf, byte('a'+index%letters))
		index /= letters
		if index == 0 {
			break
		}
	}
	slices.Reverse(buf)
	return string(buf)
}

// wrapBlock adds the block element. data-line is only valid at emission; see
// Patch.
func wrapBlock(block CachedBlock) string {
	var sb strings.Builder
	sb.Grow(len(block.HTML) + 64)
	sb.WriteString(`<div class="tp-block" data-block="`)
	sb.WriteString(strconv.Itoa(block.Index))
	sb.WriteString(`" data-line="`)
	sb.WriteString(strconv.Itoa(block.StartLine))
	sb.WriteString(`">`)
	sb.WriteString(block.HTML)
	sb.WriteString("</div>")
	return sb.String()
}

// Blocks returns a copy of the cached blocks of the last render.
func (o *Orchestrator) Blocks() []CachedBlock {
	return slices.Clone(o.blocks)
}

// HTML returns the full document HTML of the last render.
func (o *Orchestrator) HTML() string {
	parts := make([]string, len(o.blocks))
	for i, block := range o.blocks {
		parts[i] = wrapBlock(block)
	}
	return strings.Join(parts, "\n")
}

// Metadata returns the document metadata of the last render.
func (o *Orchestrator) Metadata() Metadata {
	return o.meta
}

// Macros returns the effective macro set of the last render.
func (o *Orchestrator) Macros() mathrender.Macros {
	return o.docMacros.Clone()
}

// BodyOffset returns the line of the document body start in the last render.
func (o *Orchestrator) BodyOffset() int {
	return o.bodyOffset
}

// LineMap returns the source location map of the last render.
func (o *Orchestrator) LineMap() *LineMap {
	return o.lineMap
}

// BlockIndexForLine locates an absolute source line in the last render.
func (o *Orchestrator) BlockIndexForLine(line int) Location {
	return o.lineMap.BlockIndexForLine(line)
}

// LineForBlockIndex returns the absolute source line at ratio within a block.
func (o *Orchestrator) LineForBlockIndex(index int, ratio float64) int {
	return o.lineMap.LineForBlockIndex(index, ratio)
}
