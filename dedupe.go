// dedupe.go - per-worker hardlink deduplication
//
// Chained hash set of inode numbers, grounded on the reference
// insert_inode/free_inode_table pair (original_source/dug_fts_mt.c). Only
// entries with st_nlink > 1 are ever admitted (spec.md §4.2) -- the common
// case of a single-link file never pays the hash/chain cost.

package dug

// deduperBuckets is I in spec.md: the number of chain heads. This bounds
// hash-collision chain length for realistic inode counts but is not a
// hard cap on distinct inodes tracked -- chains grow without limit.
const deduperBuckets = 16384

type inodeNode struct {
	num  uint64
	next *inodeNode
}

// Deduper suppresses double-counting of multiply-linked files within a
// single Aggregator's scope. Not concurrency-safe; one instance per
// worker (and one in the coordinator for its direct root-level entries).
type Deduper struct {
	buckets [deduperBuckets]*inodeNode
}

// NewDeduper returns an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{}
}

// Insert records inode num, returning true if this is the first time it's
// been seen by this Deduper, false if it was already present.
func (d *Deduper) Insert(num uint64) bool {
	idx := num % deduperBuckets
	head := d.buckets[idx]
	for n := head; n != nil; n = n.next {
		if n.num == num {
			return false
		}
	}
	d.buckets[idx] = &inodeNode{num: num, next: head}
	return true
}

// Free releases every chain. Safe to call once the Deduper is no longer
// needed; the Deduper itself remains usable but empty afterward.
func (d *Deduper) Free() {
	for i := range d.buckets {
		d.buckets[i] = nil
	}
}
