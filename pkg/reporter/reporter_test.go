package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/texpreview/internal/logging"
	"github.com/yaklabco/texpreview/pkg/render"
	"github.com/yaklabco/texpreview/pkg/reporter"
	_ "github.com/yaklabco/texpreview/pkg/texrules/rules" // Register built-in rules
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: "xml"})
	require.Error(t, err)
}

func newReporter(t *testing.T, format reporter.Format) (reporter.Reporter, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	rep, err := reporter.New(reporter.Options{
		Writer:      &buf,
		Format:      format,
		Color:       "never",
		ShowSummary: true,
		TermWidth:   80,
	})
	require.NoError(t, err)
	return rep, &buf
}

// twoRenders renders two versions of a document with one orchestrator.
func twoRenders(t *testing.T, oldText, newText string) *reporter.PatchReport {
	t.Helper()

	o := render.New(render.Options{Logger: logging.Discard()})
	o.Render(oldText)
	old := o.Blocks()
	patch := o.Render(newText)

	return &reporter.PatchReport{
		OldPath: "old.tex",
		NewPath: "new.tex",
		Old:     old,
		New:     o.Blocks(),
		Patch:   patch,
	}
}

func TestJSONReporter_Patch(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatJSON)
	report := twoRenders(t, "A\n\nB\n\nC", "A\n\nB2\n\nC")
	require.NoError(t, rep.ReportPatch(context.Background(), report))

	assert.Contains(t, buf.String(), `"htmls": [`)
	assert.Contains(t, buf.String(), `<p>B2</p>`, "HTML is not escaped")

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "patch", out["type"])
	assert.InDelta(t, 1, out["start"], 0)
	assert.InDelta(t, 1, out["deleteCount"], 0)
	assert.InDelta(t, 1, out["end"], 0)
}

func TestJSONReporter_Blocks(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatJSON)
	report := &reporter.BlocksReport{
		Path:       "paper.tex",
		BodyOffset: 4,
		Blocks: []render.CachedBlock{
			{Index: 0, Text: "A", HTML: "<p>A</p>", StartLine: 4, LineCount: 1},
			{Index: 1, Text: "B", HTML: "x", StartLine: 6, LineCount: 2, Warnings: []string{"w"}, Err: errors.New("boom")},
		},
	}
	require.NoError(t, rep.ReportBlocks(context.Background(), report))

	var out reporter.JSONBlocks
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "paper.tex", out.Path)
	assert.Equal(t, 4, out.BodyOffset)
	require.Len(t, out.Blocks, 2)
	assert.Equal(t, "<p>A</p>", out.Blocks[0].HTML)
	assert.Empty(t, out.Blocks[0].Error)
	assert.Equal(t, "boom", out.Blocks[1].Error)
	assert.Equal(t, []string{"w"}, out.Blocks[1].Warnings)
}

func TestJSONReporter_Location(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatJSON)
	require.NoError(t, rep.ReportLocation(context.Background(), &reporter.LocationReport{
		Path:     "paper.tex",
		Query:    reporter.QueryLine,
		Line:     7,
		Location: render.Location{Index: 2, Ratio: 0.5},
	}))

	var out reporter.JSONLocation
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, reporter.JSONLocation{Path: "paper.tex", Line: 7, Index: 2, Ratio: 0.5}, out)
}

func TestTextReporter_Patch(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)
	report := twoRenders(t, "A\n\nB\n\nC", "A\n\nB2\n\nNew\n\nC")
	require.NoError(t, rep.ReportPatch(context.Background(), report))

	out := buf.String()
	assert.Contains(t, out, "--- old.tex\n+++ new.tex\n")
	assert.Contains(t, out, "@@ -block 1 +block 1 @@ lines 3\nB{+2+}\n")
	assert.Contains(t, out, "@@ +block 2 @@ lines 5\n{+New+}\n")
	assert.True(t, strings.HasSuffix(out, "patch: 1 kept, 1 removed, 2 inserted, 1 kept (shift +1)\n"), out)
}

func TestTextReporter_PatchDeletion(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)
	report := twoRenders(t, "A\n\nB\n\nC", "A\n\nC")
	require.NoError(t, rep.ReportPatch(context.Background(), report))

	out := buf.String()
	assert.Contains(t, out, "@@ -block 1 @@ lines 3\n[-B-]\n")
	assert.Contains(t, out, "(shift -1)")
}

func TestTextReporter_NoChanges(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)
	report := twoRenders(t, "A\n\nB", "A\n\nB")
	require.NoError(t, rep.ReportPatch(context.Background(), report))

	assert.Equal(t, "--- old.tex\n+++ new.tex\nno changes (2 blocks)\n", buf.String())
}

func TestTextReporter_Blocks(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)
	require.NoError(t, rep.ReportBlocks(context.Background(), &reporter.BlocksReport{
		Path: "paper.tex",
		Blocks: []render.CachedBlock{
			{Index: 0, Text: "\\section{Intro}", StartLine: 0, LineCount: 1},
			{Index: 1, Text: "Body\nmore", StartLine: 2, LineCount: 2, Warnings: []string{"unknown command"}},
		},
	}))

	out := buf.String()
	assert.Contains(t, out, "paper.tex (2 blocks)\n")
	assert.Contains(t, out, "   0 1          \\section{Intro}\n")
	assert.Contains(t, out, "   1 3-4        Body\n")
	assert.Contains(t, out, "warning [block 1] unknown command")
}

func TestTextReporter_Location(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report reporter.LocationReport
		want   string
	}{
		{
			name:   "line query",
			report: reporter.LocationReport{Path: "p.tex", Query: reporter.QueryLine, Line: 9, Location: render.Location{Index: 3, Ratio: 0.25}},
			want:   "p.tex:10 -> block 3 at 0.25\n",
		},
		{
			name:   "block query",
			report: reporter.LocationReport{Path: "p.tex", Query: reporter.QueryBlock, Line: 9, Location: render.Location{Index: 3, Ratio: 1}},
			want:   "block 3 at 1.00 -> p.tex:10\n",
		},
		{
			name:   "empty document",
			report: reporter.LocationReport{Path: "p.tex", Query: reporter.QueryLine, Location: render.Location{Index: -1}},
			want:   "p.tex: no blocks\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rep, buf := newReporter(t, reporter.FormatText)
			require.NoError(t, rep.ReportLocation(context.Background(), &tt.report))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatTable)
	report := twoRenders(t, "A\n\nB\n\nC", "A\n\nB2\n\nC")
	require.NoError(t, rep.ReportPatch(context.Background(), report))

	out := buf.String()
	assert.Contains(t, out, "BLOCK")
	assert.Contains(t, out, " -      1  3        B\n")
	assert.Contains(t, out, " +      1  3        B2\n")
	assert.Contains(t, out, "patch: 1 kept, 1 removed, 1 inserted, 1 kept\n")

	buf.Reset()
	require.NoError(t, rep.ReportBlocks(context.Background(), &reporter.BlocksReport{Path: "new.tex", Blocks: report.New}))
	assert.Contains(t, buf.String(), "new.tex (3 blocks)")
}
