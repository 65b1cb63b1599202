package render

import (
	"bytes"
	"encoding/json"
)

// PatchType distinguishes wholesale replacement from an incremental splice.
type PatchType string

const (
	// PatchFull replaces the whole view with HTML.
	PatchFull PatchType = "full"

	// PatchIncremental removes DeleteCount blocks at Start and inserts HTMLs there.
	PatchIncremental PatchType = "patch"
)

// Patch is the result of one render, applied by the host to its live view.
//
// Each block element carries data-block and data-line attributes. data-line
// is the block's source line when the element was emitted. Line-only edits,
// such as added blank lines between blocks, shift later blocks without
// changing their HTML, so they produce no patch and leave data-line stale.
// Hosts that map lines to blocks use the Orchestrator's LineMap, which is
// current after every render.
type Patch struct {
	Type PatchType

	// HTML is the concatenated document for a full patch.
	HTML string

	// Start is the number of unchanged leading blocks.
	Start int

	// DeleteCount is the number of existing blocks removed at Start.
	DeleteCount int

	// End is the number of unchanged trailing blocks.
	End int

	// HTMLs are the newly rendered blocks, inserted at Start in order.
	HTMLs []string

	// Shift is the net change in block count.
	Shift int
}

// Unchanged reports whether applying the patch leaves the view as it was.
func (p *Patch) Unchanged() bool {
	return p.Type == PatchIncremental && p.DeleteCount == 0 && len(p.HTMLs) == 0
}

type fullPayload struct {
	Type PatchType `json:"type"`
	HTML string    `json:"html"`
}

type patchPayload struct {
	Type        PatchType `json:"type"`
	Start       int       `json:"start"`
	DeleteCount int       `json:"deleteCount"`
	End         int       `json:"end"`
	HTMLs       []string  `json:"htmls"`
	Shift       int       `json:"shift"`
}

// MarshalJSON emits only the fields valid for the patch type.
func (p Patch) MarshalJSON() ([]byte, error) {
	if p.Type == PatchFull {
		return marshalRaw(fullPayload{Type: p.Type, HTML: p.HTML})
	}

	htmls := p.HTMLs
	if htmls == nil {
		htmls = []string{}
	}
	return marshalRaw(patchPayload{
		Type:        PatchIncremental,
		Start:       p.Start,
		DeleteCount: p.DeleteCount,
		End:         p.End,
		HTMLs:       htmls,
		Shift:       p.Shift,
	})
}

// marshalRaw encodes v without escaping <, > and &. Callers that want the
// escaped form get it from json.Marshal, which re-escapes Marshaler output.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
