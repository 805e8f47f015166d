// aggregator.go - bounded open-addressed owner-id -> bytes map
//
// Mirrors the reference implementation's find_index/insert_or_update/
// pack_result (original_source/dug_fts_mt.c), fixing the one behavior the
// spec calls out as unsafe: rather than reserving UINT_MAX as an "empty
// slot" sentinel (which collides with a real owner id of UINT_MAX), this
// version keeps a parallel occupancy bitmap so no owner-id value is
// reserved.

package dug

// aggregatorCap is G in spec.md: the fixed number of distinct owners a
// single Aggregator can hold before upsert reports full. Deliberately
// small -- overflow is meant to be an operational signal, not silently
// absorbed.
const aggregatorCap = 128

// Pair is one packed (owner id, accumulated bytes) entry.
type Pair struct {
	Owner uint32
	Bytes uint64
}

// Aggregator is a fixed-capacity, open-addressed map from owner id to
// accumulated byte count. Not concurrency-safe: each worker (and the
// coordinator) owns exactly one instance for the duration of its walk.
type Aggregator struct {
	owner    [aggregatorCap]uint32
	bytes    [aggregatorCap]uint64
	occupied [aggregatorCap]bool
	n        int
}

// NewAggregator returns a freshly zeroed Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Upsert adds delta bytes to owner's running total, creating a new slot if
// owner hasn't been seen yet. It reports false if the table is full and
// owner does not already have a slot -- a fatal condition for the caller's
// whole run (spec.md §4.1).
func (a *Aggregator) Upsert(owner uint32, delta uint64) bool {
	h := int(owner % aggregatorCap)
	i := h
	for {
		if !a.occupied[i] {
			a.occupied[i] = true
			a.owner[i] = owner
			a.bytes[i] = delta
			a.n++
			return true
		}
		if a.owner[i] == owner {
			a.bytes[i] += delta
			return true
		}
		i = (i + 1) % aggregatorCap
		if i == h {
			return false
		}
	}
}

// Len returns the number of distinct owners currently tracked.
func (a *Aggregator) Len() int {
	return a.n
}

// Pack walks the table once in slot order and returns the occupied
// entries as a packed snapshot. The order is stable for a given
// Aggregator instance but otherwise arbitrary.
func (a *Aggregator) Pack() []Pair {
	out := make([]Pair, 0, a.n)
	for i := 0; i < aggregatorCap; i++ {
		if a.occupied[i] {
			out = append(out, Pair{Owner: a.owner[i], Bytes: a.bytes[i]})
		}
	}
	return out
}

// MergeFrom upserts every entry of pairs into a. Used to build rollups; this
// operation is commutative and associative so the order results arrive in
// (e.g. from concurrent workers) never affects the merged totals.
func (a *Aggregator) MergeFrom(pairs []Pair) bool {
	for _, p := range pairs {
		if !a.Upsert(p.Owner, p.Bytes) {
			return false
		}
	}
	return true
}
