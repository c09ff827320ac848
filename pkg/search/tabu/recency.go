// Package tabu implements tabu search and its two built-in tabu memories
// (spec §4.8): a full-solution memory backed by a bounded FIFO list of
// solutions, and an id-subset memory backed by a bounded FIFO recency set.
// Grounded on the teacher's TabuList
// (pkg/scheduler/optimizer/local_search.go), which keeps a fixed-size FIFO
// of recently-assigned (employee, shift) pairs behind a membership set;
// here the FIFO's payload is generalized from a scheduling pair to a
// generic comparable key.
package tabu

import "container/list"

// BoundedRecencySet is a size-limited collection of recently-seen keys
// with amortized O(1) membership test, insertion, and eviction of the
// least-recently-added key once the set is over capacity. Inserting a key
// already present is a no-op: membership and recency are both left
// unchanged, matching a FIFO's "first in, first out" contract rather than
// an LRU's "touch refreshes recency".
//
// No third-party library in the retrieved pack offers a generic bounded
// FIFO set; this is plain stdlib container/list plus a map, the same
// combination any Go LRU/FIFO cache implementation uses.
type BoundedRecencySet[K comparable] struct {
	capacity int
	members  map[K]*list.Element
	order    *list.List
}

// NewBoundedRecencySet builds an empty set that holds at most capacity
// keys. capacity is clamped to at least 1.
func NewBoundedRecencySet[K comparable](capacity int) *BoundedRecencySet[K] {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedRecencySet[K]{
		capacity: capacity,
		members:  make(map[K]*list.Element),
		order:    list.New(),
	}
}

// Contains reports whether k is currently in the set.
func (b *BoundedRecencySet[K]) Contains(k K) bool {
	_, ok := b.members[k]
	return ok
}

// Add inserts k, evicting the oldest key if the set is now over capacity.
// A duplicate insert is a no-op.
func (b *BoundedRecencySet[K]) Add(k K) {
	if _, ok := b.members[k]; ok {
		return
	}
	elem := b.order.PushBack(k)
	b.members[k] = elem
	if b.order.Len() > b.capacity {
		oldest := b.order.Front()
		b.order.Remove(oldest)
		delete(b.members, oldest.Value.(K))
	}
}

// Clear empties the set.
func (b *BoundedRecencySet[K]) Clear() {
	b.members = make(map[K]*list.Element)
	b.order.Init()
}

// Len returns the number of keys currently held.
func (b *BoundedRecencySet[K]) Len() int { return b.order.Len() }
