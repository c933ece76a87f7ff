// Package intrinsics implements spec.md §4.3: the per-save deduplication
// table that assigns every keyframe a compact index into a shared list of
// camera intrinsics, under a numeric-tolerance equality rather than an
// identity hash (DELTA-tolerance equality is not hashable, so the table is
// a linear-probe scan, not a map).
package intrinsics

import "github.com/vgraph/mapcore/valuecodec"

// Delta is the fixed absolute tolerance spec.md §3 defines: two intrinsics
// are equal iff their four parameters each differ by less than Delta.
const Delta = 0.1

// Source is a borrowed, non-owning reference to a keyframe's intrinsics
// together with a pointer-identity key. Save aliases entries straight out
// of the live keyframes, so two keyframes that share one matrix instance
// take the fast path in Table.Index without ever comparing floats.
type Source struct {
	Key    any
	Values valuecodec.Intrinsics
}

// Table deduplicates intrinsics under DELTA-tolerance equality and
// preserves first-seen order, the row index being what gets persisted per
// keyframe.
type Table struct {
	entries []Source
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Reset clears the table, releasing any borrowed references. Must be
// called at the end of every save per the resource-ownership contract
// (intermediate vectors are exclusively owned by the core).
func (t *Table) Reset() {
	t.entries = nil
}

// Len returns the number of distinct intrinsics rows recorded so far.
func (t *Table) Len() int {
	return len(t.entries)
}

// Values returns the table's rows in first-seen order, the list written
// into the header's cameraMatrices field.
func (t *Table) Values() []valuecodec.Intrinsics {
	out := make([]valuecodec.Intrinsics, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Values
	}

	return out
}

// Index returns the row index for src, appending a new row on first sight.
// The match check first tries pointer identity (src.Key == an existing
// entry's Key) as a fast path, then falls back to DELTA-tolerance
// comparison — the linear-probe algorithm spec.md §4.3 mandates in place
// of a hash-based lookup, since tolerance-equality classes are not stable
// hash buckets.
func (t *Table) Index(src Source) int {
	for i, e := range t.entries {
		if src.Key != nil && e.Key != nil && src.Key == e.Key {
			return i
		}

		if e.Values.Equal(src.Values, Delta) {
			return i
		}
	}

	t.entries = append(t.entries, src)

	return len(t.entries) - 1
}
