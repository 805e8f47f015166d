// namecache.go - concurrent owner-id -> name resolution
//
// Name resolution is explicitly out of scope for the traversal engine
// (spec.md §1: "treated as an external lookup service"); this is that
// service. The renderers resolve ids under -n after the walk has finished;
// the cache is the same concurrent map the teacher uses for its path->Info
// cache (fiomap.go), just keyed and valued differently, so it is also safe
// for concurrent callers.

package dug

import (
	"os/user"
	"strconv"

	"github.com/puzpuzpuz/xsync/v3"
)

// NameCache memoizes owner-id -> name lookups; it is safe for concurrent use.
type NameCache struct {
	byGID *xsync.MapOf[uint32, string]
	byUID *xsync.MapOf[uint32, string]
}

// NewNameCache returns an empty, ready-to-use NameCache.
func NewNameCache() *NameCache {
	return &NameCache{
		byGID: xsync.NewMapOf[uint32, string](),
		byUID: xsync.NewMapOf[uint32, string](),
	}
}

// Resolve returns the display name for owner under mode: the resolved
// group/user name if lookup succeeds, otherwise the decimal id rendered
// as a string (spec.md §6: "unresolved ids rendered numerically").
func (nc *NameCache) Resolve(owner uint32, mode OwnerMode) string {
	cache := nc.byGID
	if mode == OwnerUID {
		cache = nc.byUID
	}

	if name, ok := cache.Load(owner); ok {
		return name
	}

	name := lookupName(owner, mode)
	cache.Store(owner, name)
	return name
}

func lookupName(owner uint32, mode OwnerMode) string {
	id := strconv.FormatUint(uint64(owner), 10)
	if mode == OwnerUID {
		if u, err := user.LookupId(id); err == nil {
			return u.Username
		}
		return id
	}
	if g, err := user.LookupGroupId(id); err == nil {
		return g.Name
	}
	return id
}
