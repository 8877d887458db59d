// Package cache memoizes changed-file computations across polling cycles.
//
// A computation is keyed by the structural triple (previous revision, current
// revision, excluded branch). Entries are evicted least-recently-used at a
// fixed capacity; failed computations are never stored, so the next call for
// the same key retries. Concurrent misses for the same key are collapsed
// into one computation; distinct keys never block each other.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity is the default number of changed-file lists to keep.
// A decision engine is re-evaluated once per poll per head, so a modest
// capacity covers every active head between pushes.
const DefaultCapacity = 128

// Key identifies one changed-file computation. All three fields participate
// in identity: the same revision pair diffed with a different excluded
// branch is a different computation.
type Key struct {
	// Previous is the hash of the last built revision.
	Previous string

	// Current is the hash of the revision under consideration.
	Current string

	// ExcludedBranch is the branch whose shared commits are subtracted;
	// empty when exclusion is disabled.
	ExcludedBranch string
}

// flightKey renders the key for singleflight grouping. The NUL separator
// cannot appear in a revision hash or branch name.
func (k Key) flightKey() string {
	return k.Previous + "\x00" + k.Current + "\x00" + k.ExcludedBranch
}

// ChangedFiles is an LRU-bounded memoization of changed-file computations.
// Safe for concurrent use.
type ChangedFiles struct {
	entries *lru.Cache[Key, []string]
	group   singleflight.Group
}

// New creates a ChangedFiles cache with the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func New(capacity int) *ChangedFiles {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, _ := lru.New[Key, []string](capacity)
	return &ChangedFiles{entries: entries}
}

// GetOrCompute returns the cached file list for key, computing and storing
// it on a miss. compute runs at most once per concurrent group of callers
// for the same key; its error is returned to every waiter and nothing is
// cached, so a later call retries.
func (c *ChangedFiles) GetOrCompute(key Key, compute func() ([]string, error)) ([]string, error) {
	if files, ok := c.entries.Get(key); ok {
		return files, nil
	}

	v, err, _ := c.group.Do(key.flightKey(), func() (any, error) {
		// A concurrent caller may have stored the entry while this one
		// was waiting to enter the group.
		if files, ok := c.entries.Get(key); ok {
			return files, nil
		}

		files, err := compute()
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, files)
		return files, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Len returns the number of cached entries.
func (c *ChangedFiles) Len() int {
	return c.entries.Len()
}
