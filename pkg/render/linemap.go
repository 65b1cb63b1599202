package render

import (
	"math"
	"sort"
)

// Location addresses a position inside the rendered view.
type Location struct {
	// Index is the block position, or -1 when there are no blocks.
	Index int `json:"index"`

	// Ratio is the fractional offset within the block's line span, in [0, 1].
	Ratio float64 `json:"ratio"`
}

type lineSpan struct {
	start int
	count int
}

// LineMap translates between source lines and block positions. Lines are
// 0-based and absolute within the document.
type LineMap struct {
	spans []lineSpan
}

// NewLineMap builds a map from blocks in document order.
func NewLineMap(blocks []CachedBlock) *LineMap {
	spans := make([]lineSpan, len(blocks))
	for i, block := range blocks {
		spans[i] = lineSpan{start: block.StartLine, count: max(block.LineCount, 1)}
	}
	return &LineMap{spans: spans}
}

// Len returns the number of blocks in the map.
func (m *LineMap) Len() int {
	return len(m.spans)
}

// BlockIndexForLine locates line. Lines before the first block map to the
// first block at ratio 0; lines after a block, including the gap before the
// next one, map to that block at ratio 1.
func (m *LineMap) BlockIndexForLine(line int) Location {
	if len(m.spans) == 0 {
		return Location{Index: -1}
	}

	// Last block starting at or before line.
	idx := sort.Search(len(m.spans), func(i int) bool {
		return m.spans[i].start > line
	}) - 1
	if idx < 0 {
		return Location{Index: 0, Ratio: 0}
	}

	span := m.spans[idx]
	offset := line - span.start
	if offset >= span.count {
		return Location{Index: idx, Ratio: 1}
	}
	if span.count == 1 {
		return Location{Index: idx, Ratio: 0}
	}
	return Location{Index: idx, Ratio: float64(offset) / float64(span.count-1)}
}

// LineForBlockIndex returns the source line at ratio within the block at
// index. Index and ratio are clamped to the valid range. It returns -1 when
// there are no blocks.
func (m *LineMap) LineForBlockIndex(index int, ratio float64) int {
	if len(m.spans) == 0 {
		return -1
	}

	index = min(max(index, 0), len(m.spans)-1)
	if math.IsNaN(ratio) {
		ratio = 0
	}
	ratio = min(max(ratio, 0), 1)

	span := m.spans[index]
	return span.start + int(math.Round(ratio*float64(span.count-1)))
}
