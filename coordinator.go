// coordinator.go - enumerates the root, dispatches workers, rolls up
//
// Grounded on the reference walk() (original_source/dug_fts_mt.c): open
// the root, count its immediate files/symlinks/other entries directly,
// launch one worker per immediate subdirectory on the same device, wait
// for them, then build the summary. Lifecycle transitions are logged via
// the teacher's logging stack (testsuite/trun.go's logger.Logger) instead
// of the reference's scattered printf calls.
package dug

import (
	"os"
	"sort"
	"strings"
	"sync"

	logger "github.com/opencoff/go-logger"
)

// Run states, spec.md §4.8.
const (
	stateInit      = "init"
	stateEnumRoot  = "enumerating-root"
	stateWorkers   = "workers-running"
	stateRollingUp = "rolling-up"
	stateEmitting  = "emitting"
	stateDone      = "done"
	stateFailed    = "failed"
)

// Coordinator enumerates the audited root, dispatches one Subtree Worker
// per immediate subdirectory via a bounded Pool, and assembles the final
// Result Tree. Each worker (and the coordinator itself) deduplicates
// hardlinks with its own Deduper, so a file hardlinked from two different
// immediate subdirectories is counted once in each.
type Coordinator struct {
	cfg  Config
	excl *ExcludeSet
	log  logger.Logger

	sink *ErrorSink
	pool *Pool
	sig  signal

	state string
}

// NewCoordinator builds a Coordinator for one run.
func NewCoordinator(cfg Config, excl *ExcludeSet, log logger.Logger) *Coordinator {
	return &Coordinator{
		cfg:   cfg,
		excl:  excl,
		log:   log,
		sink:  NewErrorSink(cfg.MaxErrors),
		pool:  NewPool(cfg.Concurrency),
		state: stateInit,
	}
}

func (c *Coordinator) setState(s string) {
	c.state = s
	c.log.Debug("state: %s", s)
}

// Run performs the whole audit and returns the result tree plus the
// process exit status (spec.md §6 "Exit codes").
func (c *Coordinator) Run() (*ResultTree, int) {
	c.setState(stateEnumRoot)

	root := canonicalize(c.cfg.Root)
	rootEntry, err := Lstat(root)
	if err != nil {
		c.log.Err("%s: %s", root, err)
		return nil, 1
	}
	rootDev := rootEntry.Dev

	coordAgg := NewAggregator()
	coordDed := NewDeduper()
	defer coordDed.Free()

	count := func(e *Entry) bool {
		if e.Nlink > 1 && !coordDed.Insert(e.Ino) {
			return true
		}
		var size uint64
		switch c.cfg.Size {
		case SizeApparent:
			size = uint64(e.Siz)
		default:
			size = uint64(e.Blk) * 512
		}
		owner := e.Gid
		if c.cfg.Owner == OwnerUID {
			owner = e.Uid
		}
		if !coordAgg.Upsert(owner, size) {
			c.sig.Fail(2)
			aerr := &AggregatorFullError{Path: e.Path(), Owner: owner}
			c.sink.Record(e.Path(), aerr.Error())
			return false
		}
		if c.cfg.Verbose {
			c.log.Debug("+%s", e.String())
		}
		return true
	}

	// The root's own dot-entry contributes its directory size to the
	// root result (spec.md §4.7).
	if !count(rootEntry) {
		return c.finish(nil, nil), c.sig.Status()
	}

	fd, err := os.Open(root)
	if err != nil {
		c.log.Err("opendir %s: %s", root, err)
		return nil, 1
	}
	names, err := fd.Readdirnames(-1)
	fd.Close()
	if err != nil {
		c.log.Err("readdir %s: %s", root, err)
		return nil, 1
	}
	// Discovery order is otherwise OS-dependent; fix it so repeated runs
	// over an unchanged tree produce the same Subdirs ordering.
	sort.Strings(names)

	type job struct {
		idx  int
		path string
	}

	var subdirs []ResultEntry
	var jobs []job

	for _, name := range names {
		if c.sig.Cancelled() {
			break
		}

		fp := root + name
		e, err := Lstat(fp)
		if err != nil {
			if serr := c.sink.Record(fp, "stat: "+err.Error()); serr != nil {
				c.sig.Fail(3)
				break
			}
			continue
		}

		if c.excl.Contains(e.Ino) {
			continue
		}

		if e.IsDir() {
			if e.Dev != rootDev {
				continue // different device than root: skipped entirely
			}
			idx := len(subdirs)
			subdirs = append(subdirs, ResultEntry{Path: fp})
			jobs = append(jobs, job{idx: idx, path: fp})
			continue
		}

		if !count(e) {
			break
		}
	}

	c.setState(stateWorkers)
	var mu sync.Mutex
	for _, j := range jobs {
		j := j
		if c.sig.Cancelled() {
			break
		}
		c.log.Info("auditing %s", j.path)
		c.pool.Go(func() {
			w := newSubtreeWorker(c.cfg, rootDev, c.excl, c.sink, &c.sig)
			res, _ := w.Run(j.path)
			mu.Lock()
			subdirs[j.idx] = *res
			mu.Unlock()
		})
	}
	c.pool.Finalize()

	rootResult := ResultEntry{Path: root, Pairs: coordAgg.Pack()}
	return c.finish(&rootResult, subdirs), c.sig.Status()
}

// finish assembles the final tree. If the run was cancelled, it returns
// the failure-shaped tree (errors only, no rollup) per spec.md §4.8: "the
// coordinator still awaits workers, then emits the failure variant of the
// output."
func (c *Coordinator) finish(rootResult *ResultEntry, subdirs []ResultEntry) *ResultTree {
	if c.sig.Cancelled() {
		c.setState(stateFailed)
		return &ResultTree{Errors: c.sink.Errors(), Failed: true}
	}

	c.setState(stateRollingUp)
	summary, ok := buildSummary(*rootResult, subdirs)
	if !ok {
		c.sig.Fail(2)
		c.setState(stateFailed)
		return &ResultTree{Errors: c.sink.Errors(), Failed: true}
	}

	c.setState(stateEmitting)
	tree := &ResultTree{
		Root:    *rootResult,
		Subdirs: subdirs,
		Summary: summary,
		Errors:  c.sink.Errors(),
	}
	c.setState(stateDone)
	return tree
}

// canonicalize ensures path ends with exactly one trailing slash
// (spec.md §4.7 step 1).
func canonicalize(path string) string {
	return strings.TrimRight(path, "/") + "/"
}
