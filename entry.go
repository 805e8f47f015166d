// entry.go - a normalized stat(2) view of a file system entry
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package dug

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"syscall"
)

// Entry represents the subset of file/dir metadata the auditor needs:
// identity (device, inode), link count for hardlink detection, size in
// both apparent and occupied forms, and the owning uid/gid.
type Entry struct {
	Ino   uint64
	Dev   uint64
	Rdev  uint64
	Siz   int64
	Blk   int64 // st_blocks, in 512-byte units
	Mod   fs.FileMode
	Uid   uint32
	Gid   uint32
	Nlink uint32

	path string
}

// Lstatm is like os.Lstat but fills caller-supplied memory with the
// normalized view, and never follows a terminal symlink.
func Lstatm(nm string, e *Entry) error {
	var st syscall.Stat_t
	if err := syscall.Lstat(nm, &st); err != nil {
		return err
	}
	fillEntry(e, nm, &st)
	return nil
}

// Lstat is like Lstatm but allocates a new Entry.
func Lstat(nm string) (*Entry, error) {
	var e Entry
	if err := Lstatm(nm, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Path returns the path this Entry was stat'd from.
func (e *Entry) Path() string {
	return e.path
}

// Name returns the basename of the entry.
func (e *Entry) Name() string {
	return filepath.Base(e.path)
}

// Mode returns the file mode bits.
func (e *Entry) Mode() fs.FileMode {
	return e.Mod
}

// IsDir reports whether the entry is a directory.
func (e *Entry) IsDir() bool {
	return e.Mod.IsDir()
}

// IsSymlink reports whether the entry is a symbolic link.
func (e *Entry) IsSymlink() bool {
	return e.Mod&fs.ModeSymlink != 0
}

// String is a short human representation, useful in verbose traces.
func (e *Entry) String() string {
	return fmt.Sprintf("%s: ino=%d size=%d blocks=%d uid=%d gid=%d nlink=%d", e.path, e.Ino, e.Siz, e.Blk, e.Uid, e.Gid, e.Nlink)
}

func fillEntry(e *Entry, nm string, st *syscall.Stat_t) {
	e.path = nm
	e.Ino = st.Ino
	e.Dev = uint64(st.Dev)
	e.Rdev = uint64(st.Rdev)
	e.Siz = st.Size
	e.Blk = st.Blocks
	e.Mod = fs.FileMode(st.Mode & 0777)
	e.Mod |= modeFromStat(st.Mode)
	e.Uid = st.Uid
	e.Gid = st.Gid
	e.Nlink = uint32(st.Nlink)
}

// modeFromStat maps the POSIX S_IF* type bits to the Go fs.FileMode type
// bits (dir, symlink, char/block device, named pipe, socket); regular
// files and any other type map to 0.
func modeFromStat(mode uint32) fs.FileMode {
	switch mode & syscall.S_IFMT {
	case syscall.S_IFDIR:
		return fs.ModeDir
	case syscall.S_IFLNK:
		return fs.ModeSymlink
	case syscall.S_IFCHR:
		return fs.ModeDevice | fs.ModeCharDevice
	case syscall.S_IFBLK:
		return fs.ModeDevice
	case syscall.S_IFIFO:
		return fs.ModeNamedPipe
	case syscall.S_IFSOCK:
		return fs.ModeSocket
	default:
		return 0
	}
}
