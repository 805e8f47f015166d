// result.go - the ordered result tree the coordinator emits
//
// spec.md §3: "[root_entry, sub_entry_1, ..., sub_entry_k, summary_entry]"

package dug

// ResultEntry is one (path, owner->bytes pairs) entry: the root's direct
// contents, one per audited subdirectory, or the terminal rollup.
type ResultEntry struct {
	Path  string
	Pairs []Pair
}

// Total returns the sum of bytes across every pair in this entry.
func (r *ResultEntry) Total() uint64 {
	var t uint64
	for _, p := range r.Pairs {
		t += p.Bytes
	}
	return t
}

// ResultTree is the coordinator's full output: the root entry, each
// subdirectory's entry in discovery order, and a terminal summary entry
// whose Pairs equal the per-owner sum over every other entry.
type ResultTree struct {
	Root    ResultEntry
	Subdirs []ResultEntry
	Summary ResultEntry
	Errors  []string
	Failed  bool
}

// Total returns the grand total across the rollup summary.
func (t *ResultTree) Total() uint64 {
	return t.Summary.Total()
}

// buildSummary constructs the rollup Aggregator by summing the root entry
// and every subdirectory entry (spec.md §4.7 step 6). It returns false if
// the rollup itself overflows G distinct owners -- unlikely since it can
// only ever hold the union of owners already seen, but upsert's contract
// requires the check regardless.
func buildSummary(root ResultEntry, subdirs []ResultEntry) (ResultEntry, bool) {
	agg := NewAggregator()
	if !agg.MergeFrom(root.Pairs) {
		return ResultEntry{Path: "totals"}, false
	}
	for _, s := range subdirs {
		if !agg.MergeFrom(s.Pairs) {
			return ResultEntry{Path: "totals"}, false
		}
	}
	return ResultEntry{Path: "totals", Pairs: agg.Pack()}, true
}
