// testhelpers_test.go - shared test fixtures
//
// newAsserter is the teacher's assertion idiom (clone/utils_test.go,
// cmp/utils_test.go); mkfile/mksym extend walk_test.go's fixture builders
// with mklink (hardlinks) and mkowned (explicit ownership) for the
// aggregation and dedup scenarios this package needs to cover.

package dug

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func newAsserter(t *testing.T) func(cond bool, msg string, args ...interface{}) {
	return func(cond bool, msg string, args ...interface{}) {
		if cond {
			return
		}
		_, file, line, ok := runtime.Caller(1)
		if !ok {
			file = "???"
			line = 0
		}
		s := fmt.Sprintf(msg, args...)
		t.Fatalf("\n%s: %d: Assertion failed: %s\n", file, line, s)
	}
}

// mkfile creates a regular file at tmpdir/p (and any missing parent
// directories) with some non-empty content.
func mkfile(tmpdir, p string) error {
	fn := filepath.Join(tmpdir, p)
	bn := filepath.Dir(fn)
	if err := os.MkdirAll(bn, 0700); err != nil {
		return fmt.Errorf("mkdir: %s: %w", bn, err)
	}
	fd, err := os.OpenFile(fn, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creat: %s: %w", fn, err)
	}
	if _, err := fd.Write([]byte("hello")); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

// mksym creates a symlink at tmpdir/dst pointing at the absolute path
// tmpdir/src.
func mksym(tmpdir, src, dst string) error {
	s := filepath.Join(tmpdir, src)
	d := filepath.Join(tmpdir, dst)
	return os.Symlink(s, d)
}

// mklink creates p as a hardlink to the existing file at tmpdir/existing.
func mklink(tmpdir, existing, p string) error {
	src := filepath.Join(tmpdir, existing)
	dst := filepath.Join(tmpdir, p)
	if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return err
	}
	return os.Link(src, dst)
}

// mkowned creates a file at tmpdir/p and chowns it to uid:gid. Tests that
// call this must tolerate an error on systems where the calling process
// lacks permission to chown (anything other than its own uid/gid).
func mkowned(tmpdir, p string, uid, gid int) error {
	if err := mkfile(tmpdir, p); err != nil {
		return err
	}
	return os.Chown(filepath.Join(tmpdir, p), uid, gid)
}
