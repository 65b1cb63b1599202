package render_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/texpreview/pkg/render"
)

func sampleLineMap() *render.LineMap {
	return render.NewLineMap([]render.CachedBlock{
		{StartLine: 2, LineCount: 3},
		{StartLine: 7, LineCount: 1},
		{StartLine: 9, LineCount: 2},
	})
}

func TestLineMap_BlockIndexForLine(t *testing.T) {
	t.Parallel()

	m := sampleLineMap()

	tests := []struct {
		line int
		want render.Location
	}{
		{-3, render.Location{Index: 0, Ratio: 0}},
		{0, render.Location{Index: 0, Ratio: 0}},
		{2, render.Location{Index: 0, Ratio: 0}},
		{3, render.Location{Index: 0, Ratio: 0.5}},
		{4, render.Location{Index: 0, Ratio: 1}},
		{5, render.Location{Index: 0, Ratio: 1}},
		{7, render.Location{Index: 1, Ratio: 0}},
		{8, render.Location{Index: 1, Ratio: 1}},
		{9, render.Location{Index: 2, Ratio: 0}},
		{10, render.Location{Index: 2, Ratio: 1}},
		{500, render.Location{Index: 2, Ratio: 1}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, m.BlockIndexForLine(tt.line), "line %d", tt.line)
	}
}

func TestLineMap_LineForBlockIndex(t *testing.T) {
	t.Parallel()

	m := sampleLineMap()

	tests := []struct {
		name  string
		index int
		ratio float64
		want  int
	}{
		{"start", 0, 0, 2},
		{"middle", 0, 0.5, 3},
		{"end", 0, 1, 4},
		{"single line block", 1, 0.7, 7},
		{"index below range", -5, 0, 2},
		{"index above range", 99, 2, 10},
		{"negative ratio", 2, -1, 9},
		{"nan ratio", 2, math.NaN(), 9},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, m.LineForBlockIndex(tt.index, tt.ratio), tt.name)
	}
}

func TestLineMap_RoundTrip(t *testing.T) {
	t.Parallel()

	m := sampleLineMap()
	for _, line := range []int{2, 3, 4, 7, 9, 10} {
		loc := m.BlockIndexForLine(line)
		assert.Equal(t, line, m.LineForBlockIndex(loc.Index, loc.Ratio), "line %d", line)
	}
}

func TestLineMap_Empty(t *testing.T) {
	t.Parallel()

	m := render.NewLineMap(nil)
	assert.Zero(t, m.Len())
	assert.Equal(t, render.Location{Index: -1}, m.BlockIndexForLine(3))
	assert.Equal(t, -1, m.LineForBlockIndex(0, 0.5))
}
