// cancel.go - monotonic, shared cancellation signal plus captured exit status
//
// spec.md §5: "the cancellation flag is monotonic (false->true, never
// reset during a run)" and "treated as atomic with relaxed ordering --
// losing a racing write is harmless because any set-to-true is
// sufficient to terminate." The exit status is captured alongside it:
// whichever fatal condition fires first claims the run's exit code
// (spec.md §7's taxonomy assigns each fatal class a fixed code, so the
// first one to land is as good as any other raised concurrently).
package dug

import "sync/atomic"

type signal struct {
	cancelled atomic.Bool
	status    atomic.Int32
}

// Fail asserts cancellation and, if no fatal condition has claimed the
// exit status yet, records code as the run's exit status.
func (s *signal) Fail(code int) {
	s.cancelled.Store(true)
	s.status.CompareAndSwap(0, int32(code))
}

// Cancelled reports whether the run has been asked to stop.
func (s *signal) Cancelled() bool {
	return s.cancelled.Load()
}

// Status returns the captured exit status, or 0 if nothing fatal has
// happened yet.
func (s *signal) Status() int {
	return int(s.status.Load())
}
