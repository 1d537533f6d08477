package pathfinding

import (
	"slices"
	"sort"
)

type nodeState uint8

const (
	unvisited nodeState = iota
	open
	closed
)

// Frontier is the open/closed set of the A* search: a work list kept sorted
// by priority plus a status per key. Insertion uses a lower-bound binary
// search, so a key added with a priority equal to queued keys is popped
// before them. Equal inputs therefore always pop in the same order.
type Frontier[K comparable] struct {
	items    []K
	state    map[K]nodeState
	priority map[K]float64
}

// NewFrontier returns an empty frontier.
func NewFrontier[K comparable]() *Frontier[K] {
	return &Frontier[K]{
		state:    make(map[K]nodeState),
		priority: make(map[K]float64),
	}
}

// Add queues key with the given priority and marks it open. A key that is
// already queued is moved to the position of its new priority.
func (f *Frontier[K]) Add(key K, priority float64) {
	if f.state[key] == open {
		if i := slices.Index(f.items, key); i >= 0 {
			f.items = slices.Delete(f.items, i, i+1)
		}
	}
	f.state[key] = open
	f.priority[key] = priority

	i := sort.Search(len(f.items), func(i int) bool {
		return f.priority[f.items[i]] >= priority
	})
	f.items = slices.Insert(f.items, i, key)
}

// Pop removes and returns the key with the lowest priority and marks it
// closed. The second result is false when the frontier is empty.
func (f *Frontier[K]) Pop() (K, bool) {
	if len(f.items) == 0 {
		var zero K
		return zero, false
	}
	key := f.items[0]
	f.items = f.items[1:]
	f.state[key] = closed
	return key, true
}

// IsOpen reports whether key is queued.
func (f *Frontier[K]) IsOpen(key K) bool {
	return f.state[key] == open
}

// IsClosed reports whether key has been popped and not re-added since.
func (f *Frontier[K]) IsClosed(key K) bool {
	return f.state[key] == closed
}

// Priority returns the last priority assigned to key.
func (f *Frontier[K]) Priority(key K) (float64, bool) {
	p, ok := f.priority[key]
	return p, ok
}

// Len returns the number of queued keys.
func (f *Frontier[K]) Len() int {
	return len(f.items)
}

// Empty reports whether no key is queued.
func (f *Frontier[K]) Empty() bool {
	return len(f.items) == 0
}
