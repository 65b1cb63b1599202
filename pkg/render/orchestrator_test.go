package render_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texpreview/internal/logging"
	"github.com/yaklabco/texpreview/pkg/mathrender"
	"github.com/yaklabco/texpreview/pkg/render"
	"github.com/yaklabco/texpreview/pkg/texrules"
	_ "github.com/yaklabco/texpreview/pkg/texrules/rules" // Register built-in rules
)

func newOrchestrator(opts render.Options) *render.Orchestrator {
	opts.Logger = logging.Discard()
	return render.New(opts)
}

func blockTexts(o *render.Orchestrator) []string {
	var out []string
	for _, block := range o.Blocks() {
		out = append(out, block.Text)
	}
	return out
}

func TestRender_FirstRenderIsFull(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{})
	patch := o.Render("Intro text.\n\n$$x=1$$\n\nMore text.")

	require.Equal(t, render.PatchFull, patch.Type)
	assert.Equal(t, []string{"Intro text.", "$$x=1$$", "More text."}, blockTexts(o))
	assert.Contains(t, patch.HTML, `<div class="tp-block" data-block="0" data-line="0"><p>Intro text.</p></div>`)
	assert.Contains(t, patch.HTML, `data-block="1" data-line="2"`)
	assert.Contains(t, patch.HTML, `<div class="math display">\[x=1\]</div>`)
	assert.Equal(t, o.HTML(), patch.HTML)
}

func TestRender_NoOpIsIdempotent(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{})
	text := "A\n\nB\n\nC"
	o.Render(text)
	patch := o.Render(text)

	require.Equal(t, render.PatchIncremental, patch.Type)
	assert.Equal(t, 3, patch.Start)
	assert.Zero(t, patch.DeleteCount)
	assert.Zero(t, patch.End)
	assert.Empty(t, patch.HTMLs)
	assert.Zero(t, patch.Shift)
	assert.True(t, patch.Unchanged())
}

func TestRender_IncrementalEdit(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{})
	o.Render("A\n\nB\n\nC")
	before := o.Blocks()

	patch := o.Render("A\n\nB2\n\nC")

	require.Equal(t, render.PatchIncremental, patch.Type)
	assert.Equal(t, 1, patch.Start)
	assert.Equal(t, 1, patch.DeleteCount)
	assert.Equal(t, 1, patch.End)
	require.Len(t, patch.HTMLs, 1)
	assert.Equal(t, `<div class="tp-block" data-block="1" data-line="2"><p>B2</p></div>`, patch.HTMLs[0])

	after := o.Blocks()
	assert.Equal(t, before[0].HTML, after[0].HTML)
	assert.Equal(t, before[2].HTML, after[2].HTML)
}

func TestRender_ShiftRewritesTrailingIndexes(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{})
	o.Render("A\n\nB\n\nC")
	patch := o.Render("A\n\nX\n\nY\n\nB\n\nC")

	require.Equal(t, render.PatchIncremental, patch.Type)
	assert.Equal(t, 1, patch.Start)
	assert.Zero(t, patch.DeleteCount)
	assert.Equal(t, 2, patch.End)
	assert.Equal(t, 2, patch.Shift)
	require.Len(t, patch.HTMLs, 2)
	assert.Contains(t, patch.HTMLs[1], `data-block="2"`)

	blocks := o.Blocks()
	require.Len(t, blocks, 5)
	for i, block := range blocks {
		assert.Equal(t, i, block.Index)
	}
	assert.Equal(t, 6, blocks[3].StartLine, "unchanged blocks take their new lines")
}

func TestRender_MacroChangeInvalidatesCache(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{})
	first := o.Render("\\newcommand{\\R}{\\mathbb{R}}\n\nLet $x \\in \\R$.\n\nOther.")
	require.Equal(t, render.PatchFull, first.Type)
	assert.Contains(t, first.HTML, `\mathbb{R}`)

	second := o.Render("\\newcommand{\\R}{\\mathbf{R}}\n\nLet $x \\in \\R$.\n\nOther.")
	require.Equal(t, render.PatchFull, second.Type)
	assert.Contains(t, second.HTML, `\mathbf{R}`)

	third := o.Render("\\newcommand{\\R}{\\mathbf{R}}\n\nLet $x \\in \\R$.\n\nOther.")
	assert.True(t, third.Unchanged())
}

func TestRender_ConfigMacros(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{
		Macros: mathrender.Macros{"R": mathrender.NewMacro("R", `\mathbb{R}`)},
	})
	patch := o.Render(`$\R$`)
	assert.Contains(t, patch.HTML, `\mathbb{R}`)
	assert.Contains(t, o.Macros(), "R")
}

func TestRender_FullThreshold(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{FullThreshold: 2})
	o.Render("A\n\nB\n\nC\n\nD")

	small := o.Render("A\n\nB\n\nC2\n\nD")
	assert.Equal(t, render.PatchIncremental, small.Type)

	large := o.Render("A2\n\nB2\n\nC3\n\nD")
	require.Equal(t, render.PatchFull, large.Type)
	assert.Equal(t, o.HTML(), large.HTML)
}

func TestRender_MetadataEditRerendersTitleBlock(t *testing.T) {
	t.Parallel()

	doc := func(title string) string {
		return "\\title{" + title + "}\n\\author{Ada}\n\\begin{document}\n\\maketitle\n\nBody text.\n\\end{document}\n"
	}

	o := newOrchestrator(render.Options{})
	first := o.Render(doc("First"))
	require.Equal(t, render.PatchFull, first.Type)
	assert.Contains(t, first.HTML, "<h1>First</h1>")
	assert.Equal(t, "First", o.Metadata().Title)

	patch := o.Render(doc("Second"))
	require.Equal(t, render.PatchIncremental, patch.Type)
	assert.Zero(t, patch.Start)
	assert.Equal(t, 1, patch.DeleteCount)
	assert.Equal(t, 1, patch.End)
	require.Len(t, patch.HTMLs, 1)
	assert.Contains(t, patch.HTMLs[0], "<h1>Second</h1>")
	assert.NotContains(t, patch.HTMLs[0], "%", "the fingerprint never reaches the output")
}

func TestRender_BodyOffset(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{})
	o.Render("\\documentclass{article}\n\\begin{document}\nFirst\n\nSecond\n\\end{document}\n")

	assert.Equal(t, []string{"First", "Second"}, blockTexts(o))
	assert.Equal(t, 1, o.BodyOffset())

	blocks := o.Blocks()
	assert.Equal(t, 2, blocks[0].StartLine)
	assert.Equal(t, 4, blocks[1].StartLine)

	assert.Equal(t, render.Location{Index: 1, Ratio: 0}, o.BlockIndexForLine(4))
	assert.Equal(t, render.Location{Index: 0, Ratio: 0}, o.BlockIndexForLine(0))
	assert.Equal(t, 4, o.LineForBlockIndex(1, 0))
	assert.Equal(t, 2, o.LineMap().Len())
}

func TestRender_CommentsDoNotShiftLines(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{})
	o.Render("% header comment\n% more\n\nText % trailing\n\nNext")

	blocks := o.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, 3, blocks[0].StartLine)
	assert.Equal(t, 5, blocks[1].StartLine)
	assert.Contains(t, blocks[0].HTML, "Text")
	assert.NotContains(t, blocks[0].HTML, "trailing")
}

func TestRender_LineOnlyEditUpdatesLineMap(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{})
	o.Render("A\n\nB")
	patch := o.Render("A\n\n\n\nB")

	assert.True(t, patch.Unchanged())
	assert.Equal(t, render.Location{Index: 1, Ratio: 0}, o.BlockIndexForLine(4))
	assert.Equal(t, 4, o.LineForBlockIndex(1, 0))
	assert.Contains(t, o.HTML(), `data-block="1" data-line="4"`)
}

func TestRender_RuleOverrides(t *testing.T) {
	t.Parallel()

	enabled := newOrchestrator(render.Options{})
	assert.Contains(t, enabled.Render("pages 1--2").HTML, "1\u20132")

	disabled := newOrchestrator(render.Options{RuleOverrides: map[string]bool{"typography": false}})
	assert.Contains(t, disabled.Render("pages 1--2").HTML, "1--2")
}

func TestRender_Reset(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{})
	o.Render("A\n\nB")
	o.Reset()

	assert.Empty(t, o.Blocks())
	assert.Equal(t, -1, o.BlockIndexForLine(0).Index)
	assert.Equal(t, render.PatchFull, o.Render("A\n\nB").Type)
}

func TestRender_BlankDocument(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{})
	patch := o.Render("  \n\n% only a comment\n")

	assert.Equal(t, render.PatchFull, patch.Type)
	assert.Empty(t, patch.HTML)
	assert.Empty(t, o.Blocks())
}

// failingMarkup fails or panics on blocks containing a marker word.
type failingMarkup struct{}

func (failingMarkup) Render(text string) (string, error) {
	switch {
	case strings.Contains(text, "PANIC"):
		panic("markup exploded")
	case strings.Contains(text, "FAIL"):
		return "", errors.New("markup refused")
	default:
		return "<p>" + text + "</p>", nil
	}
}

func TestRender_ErrorsAreContainedPerBlock(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(render.Options{
		Rules:  texrules.NewRegistry(),
		Markup: failingMarkup{},
	})
	patch := o.Render("good\n\nFAIL here\n\nPANIC <here>\n\nalso good")

	require.Equal(t, render.PatchFull, patch.Type)
	blocks := o.Blocks()
	require.Len(t, blocks, 4)

	assert.Equal(t, "<p>good</p>", blocks[0].HTML)
	assert.NoError(t, blocks[0].Err)

	require.ErrorIs(t, blocks[1].Err, render.ErrBlockRender)
	assert.Contains(t, blocks[1].HTML, `<div class="tp-error">`)
	assert.Contains(t, blocks[1].HTML, "markup refused")

	require.ErrorIs(t, blocks[2].Err, render.ErrBlockRender)
	assert.Contains(t, blocks[2].HTML, "markup exploded")

	assert.Equal(t, "<p>also good</p>", blocks[3].HTML)
}

// panicRule panics on every block.
type panicRule struct {
	texrules.BaseRule
}

func (panicRule) Apply(*texrules.Context, string) (string, error) {
	panic("rule exploded")
}

func TestRender_RuleFailureIsContained(t *testing.T) {
	t.Parallel()

	reg := texrules.NewRegistry()
	reg.Register(&panicRule{BaseRule: texrules.NewBaseRule("TX999", "explode", "panics", 999, nil)})

	o := newOrchestrator(render.Options{Rules: reg})
	patch := o.Render("one\n\ntwo")

	require.Equal(t, render.PatchFull, patch.Type)
	for _, block := range o.Blocks() {
		require.ErrorIs(t, block.Err, texrules.ErrRuleFailed)
		assert.Contains(t, block.HTML, "TX999")
	}
}

func TestRender_NeverPanics(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"{",
		"}}}}",
		"\\begin{itemize}\n\\item a\n\n\\item b",
		"$$ unclosed\n\nmore",
		"\\[ x \\]\\]",
		"\\end{document}",
		"\\begin{document}",
		"\uE000p:0\uE001",
		"\\newcommand{\\loop}{\\loop}\n$\\loop$",
		"\\title{\n\\maketitle",
		"\\verb",
		"%",
	}

	o := newOrchestrator(render.Options{})
	for _, input := range inputs {
		assert.NotPanics(t, func() { o.Render(input) }, "input %q", input)
	}
}
