// Package blockdiff computes the changed region between two block sequences
// by longest common prefix and suffix matching.
package blockdiff

import "slices"

// Result describes how a new block sequence differs from an old one.
type Result struct {
	// Start is the length of the longest common prefix.
	Start int

	// DeleteCount is the number of old blocks replaced.
	DeleteCount int

	// End is the length of the longest common suffix after the prefix is excluded.
	End int

	// Inserted holds the new blocks of the changed region.
	Inserted []string

	// Deleted holds the old blocks of the changed region.
	Deleted []string
}

// InsertCount returns the number of new blocks in the changed region.
func (r Result) InsertCount() int {
	return len(r.Inserted)
}

// Shift returns the net change in block count.
func (r Result) Shift() int {
	return len(r.Inserted) - r.DeleteCount
}

// Unchanged reports whether the sequences were identical.
func (r Result) Unchanged() bool {
	return r.DeleteCount == 0 && len(r.Inserted) == 0
}

// Diff compares prev and next by exact string equality. It runs in time linear
// in the sequence lengths and guarantees Start+End <= min(len(prev), len(next)).
func Diff(prev, next []string) Result {
	limit := min(len(prev), len(next))

	start := 0
	for start < limit && prev[start] == next[start] {
		start++
	}

	end := 0
	for end < limit-start && prev[len(prev)-1-end] == next[len(next)-1-end] {
		end++
	}

	deleted := slices.Clone(prev[start : len(prev)-end])
	inserted := slices.Clone(next[start : len(next)-end])

	return Result{
		Start:       start,
		DeleteCount: len(deleted),
		End:         end,
		Inserted:    inserted,
		Deleted:     deleted,
	}
}

// Apply splices a changed region into old: it keeps old's prefix and suffix as
// described by r and places replacement in between. len(replacement) should
// equal r.InsertCount().
func Apply[T any](old []T, r Result, replacement []T) []T {
	start := min(r.Start, len(old))
	tail := min(start+r.DeleteCount, len(old))

	out := make([]T, 0, start+len(replacement)+len(old)-tail)
	out = append(out, old[:start]...)
	out = append(out, replacement...)
	out = append(out, old[tail:]...)
	return out
}
