// worker.go - the Subtree Worker: audits one subdirectory end-to-end
//
// Traversal shape (readdir-and-recurse, pre-order count, post-order
// ignore, no symlink following, pruned at the root's device) is grounded
// directly on the teacher's readDir/walkPath pair (walk.go, walk/walk.go)
// and on the reference fts_walk (original_source/dug_fts_mt.c) -- but
// instead of emitting entries onto a channel for a generic consumer, each
// entry is aggregated inline, because a Subtree Worker has exactly one
// consumer of its traversal: its own Aggregator.

package dug

import (
	"fmt"
	"os"
)

// WorkerStatus names how a Subtree Worker terminated. The coordinator
// does not inspect it: a worker that hits a fatal condition records the
// run's exit status itself through the shared signal, so the global exit
// status, not the per-worker return value, carries any failure.
type WorkerStatus string

const (
	StatusOK             WorkerStatus = "ok"
	StatusCancelled      WorkerStatus = "cancelled"
	StatusAggregatorFull WorkerStatus = "aggregator-full"
	StatusSinkOverflow   WorkerStatus = "sink-overflow"
	StatusOpenFailed     WorkerStatus = "open-failed"
)

// subtreeWorker audits one subdirectory. It exclusively owns its
// Aggregator and Deduper until Run returns, at which point ownership of
// the packed ResultEntry transfers to the coordinator (spec.md §3
// "Ownership").
type subtreeWorker struct {
	cfg     Config
	rootDev uint64
	excl    *ExcludeSet
	sink    *ErrorSink
	sig     *signal

	agg *Aggregator
	ded *Deduper
}

func newSubtreeWorker(cfg Config, rootDev uint64, excl *ExcludeSet, sink *ErrorSink, sig *signal) *subtreeWorker {
	return &subtreeWorker{
		cfg:     cfg,
		rootDev: rootDev,
		excl:    excl,
		sink:    sink,
		sig:     sig,
		agg:     NewAggregator(),
		ded:     NewDeduper(),
	}
}

// Run audits the subtree rooted at path (which the coordinator has
// already confirmed exists, is on the root device, and is not excluded)
// and returns its packed result plus a termination status.
func (w *subtreeWorker) Run(path string) (*ResultEntry, WorkerStatus) {
	defer w.ded.Free()

	e, err := Lstat(path)
	if err != nil {
		w.recordError(path, "stat", err)
		return &ResultEntry{Path: path}, StatusOpenFailed
	}

	if st := w.count(e); st != StatusOK {
		return &ResultEntry{Path: path, Pairs: w.agg.Pack()}, st
	}

	st := w.walkDir(path)
	return &ResultEntry{Path: path, Pairs: w.agg.Pack()}, st
}

// walkDir reads one directory's entries and recurses into subdirectories
// that are on the root device and not excluded. There is no explicit
// post-order visit (fts's FTS_DP) because this walker never re-emits a
// directory it has already counted.
func (w *subtreeWorker) walkDir(path string) WorkerStatus {
	if w.sig.Cancelled() {
		return StatusCancelled
	}

	fd, err := os.Open(path)
	if err != nil {
		return w.recordError(path, "opendir", err)
	}
	names, err := fd.Readdirnames(-1)
	fd.Close()
	if err != nil {
		return w.recordError(path, "readdir", err)
	}

	for _, name := range names {
		if w.sig.Cancelled() {
			return StatusCancelled
		}

		fp := path + "/" + name
		e, err := Lstat(fp)
		if err != nil {
			if st := w.recordError(fp, "stat", err); st != StatusOK {
				return st
			}
			continue
		}

		if w.excl.Contains(e.Ino) {
			// directory: never recursed into, pruning the subtree;
			// file: simply skipped.
			continue
		}

		if e.IsDir() && e.Dev != w.rootDev {
			continue // different device than the root: skip entirely
		}

		if st := w.count(e); st != StatusOK {
			return st
		}

		if e.IsDir() {
			if st := w.walkDir(fp); st != StatusOK {
				return st
			}
		}
	}
	return StatusOK
}

// count implements spec.md §4.6's "Count" procedure: exclude already
// handled by the caller, so from here it's dedupe-gate, size-select,
// owner-select, upsert.
func (w *subtreeWorker) count(e *Entry) WorkerStatus {
	if e.Nlink > 1 {
		if !w.ded.Insert(e.Ino) {
			return StatusOK // already counted via another hardlink
		}
	}

	var size uint64
	switch w.cfg.Size {
	case SizeApparent:
		size = uint64(e.Siz)
	default:
		size = uint64(e.Blk) * 512
	}

	owner := e.Gid
	if w.cfg.Owner == OwnerUID {
		owner = e.Uid
	}

	if !w.agg.Upsert(owner, size) {
		w.sig.Fail(2)
		aerr := &AggregatorFullError{Path: e.Path(), Owner: owner}
		w.sink.Record(e.Path(), aerr.Error())
		return StatusAggregatorFull
	}
	return StatusOK
}

// recordError records an entry-local error. If the sink itself has
// overflowed, cancellation is asserted and StatusSinkOverflow propagates
// to the caller; otherwise the error was recorded and the walk continues.
func (w *subtreeWorker) recordError(path, op string, err error) WorkerStatus {
	if serr := w.sink.Record(path, fmt.Sprintf("%s: %s", op, err)); serr != nil {
		w.sig.Fail(3)
		return StatusSinkOverflow
	}
	return StatusOK
}
