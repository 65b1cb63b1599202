package reporter

import (
	"github.com/yaklabco/texpreview/pkg/blockdiff"
	"github.com/yaklabco/texpreview/pkg/render"
)

// BlocksReport describes the blocks of one render.
type BlocksReport struct {
	Path       string
	BodyOffset int
	Blocks     []render.CachedBlock
}

// PatchReport describes the change between two renders of a document.
type PatchReport struct {
	OldPath string
	NewPath string

	// Old and New are the cached blocks after each render.
	Old []render.CachedBlock
	New []render.CachedBlock

	// Patch is what the second render returned.
	Patch *render.Patch
}

// Changes re-derives the changed block range from the block texts. It
// matches the range the second render computed, including for full patches,
// which do not carry it.
func (r *PatchReport) Changes() blockdiff.Result {
	return blockdiff.Diff(blockTexts(r.Old), blockTexts(r.New))
}

// LocationQuery names the direction of a location lookup.
type LocationQuery string

// Location queries.
const (
	QueryLine  LocationQuery = "line"
	QueryBlock LocationQuery = "block"
)

// LocationReport answers a source location query. Line is 0-based.
type LocationReport struct {
	Path     string
	Query    LocationQuery
	Line     int
	Location render.Location
}

func blockTexts(blocks []render.CachedBlock) []string {
	texts := make([]string, len(blocks))
	for i, block := range blocks {
		texts[i] = block.Text
	}
	return texts
}

func countFailed(blocks []render.CachedBlock) int {
	var n int
	for _, block := range blocks {
		if block.Err != nil {
			n++
		}
	}
	return n
}
