package hopscotch

import "fmt"

const (
	initialNeighborhood = 4
	initialCapacity     = initialNeighborhood
)

// Map is an associative container mapping keys of type K to values of
// type V, built on hopscotch hashing. Every live key for a given hash
// resides within a bounded neighborhood of its home slot, so Find
// touches at most H contiguous buckets.
//
// Map is not safe for concurrent use without external synchronization.
type Map[K comparable, V any] struct {
	store  entryStore[K, V]
	table  bucketTable[K, V]
	hasher HashFn[K]

	// neighborhood is the current H: the maximum allowed displacement
	// from a key's home to its actual bucket.
	neighborhood int
}

// New creates an empty map using the default hasher for K (see
// GetHasher).
func New[K comparable, V any]() *Map[K, V] {
	return NewWithHasher[K, V](GetHasher[K]())
}

// NewWithHasher creates an empty map using the given hash function.
func NewWithHasher[K comparable, V any](hasher HashFn[K]) *Map[K, V] {
	return &Map[K, V]{
		table:        newBucketTable[K, V](initialCapacity),
		hasher:       hasher,
		neighborhood: initialNeighborhood,
	}
}

// Size returns the number of entries currently stored. O(1).
func (m *Map[K, V]) Size() int {
	return m.store.length
}

// Empty reports whether the map holds no entries. O(1).
func (m *Map[K, V]) Empty() bool {
	return m.store.length == 0
}

// HashFunction returns the hash function this map was constructed with.
func (m *Map[K, V]) HashFunction() HashFn[K] {
	return m.hasher
}

// homeIndex computes the home bucket for key under the table's current
// capacity.
func (m *Map[K, V]) homeIndex(key K) int {
	return int(m.hasher(key) % uint64(m.table.capacity()))
}

// Find returns the handle for key, or (nil, false) if key is absent.
// O(H) worst case.
func (m *Map[K, V]) Find(key K) (*Entry[K, V], bool) {
	idx, ok := m.findIndex(key)
	if !ok {
		return nil, false
	}
	return m.table.at(idx).entry, true
}

// At returns the handle for key, or a non-nil error wrapping
// ErrNotFound if key is absent.
func (m *Map[K, V]) At(key K) (*Entry[K, V], error) {
	e, ok := m.Find(key)
	if !ok {
		return nil, &notFoundError[K]{key: key}
	}
	return e, nil
}

// Insert maps key to val if key is not already present. It never
// overwrites: if key already exists, Insert returns its existing
// handle unchanged and false. Otherwise it stores (key, val), returning
// the new handle and true.
func (m *Map[K, V]) Insert(key K, val V) (*Entry[K, V], bool) {
	if e, ok := m.Find(key); ok {
		return e, false
	}

	e := m.store.appendFront(key, val)
	if !m.place(e, m.homeIndex(key)) {
		oldTable, oldNeighborhood := m.table, m.neighborhood
		defer func() {
			if r := recover(); r != nil {
				m.table, m.neighborhood = oldTable, oldNeighborhood
				m.store.remove(e)
				panic(r)
			}
		}()
		m.rehash()
	}
	return e, true
}

// LookupOrInsert returns the handle for key, inserting (key, def) if
// key is absent. It is the subscript-like "lookup or default" op: the
// caller can read or overwrite the value through the returned handle.
func (m *Map[K, V]) LookupOrInsert(key K, def V) *Entry[K, V] {
	e, _ := m.Insert(key, def)
	return e
}

// Erase removes key's entry, if present. It never triggers shrink or
// rehash, and is a no-op if key is absent.
func (m *Map[K, V]) Erase(key K) bool {
	idx, ok := m.findIndex(key)
	if !ok {
		return false
	}
	m.eraseSlot(idx)
	return true
}

// Clear removes every entry and resets the table to its initial
// capacity and neighborhood size.
func (m *Map[K, V]) Clear() {
	m.store.clear()
	m.table.reset(initialCapacity)
	m.neighborhood = initialNeighborhood
}

// Each calls fn for every entry in the map, in entry-store order (most
// recently inserted first). If fn returns true, iteration stops early.
// The public contract does not fix this order beyond stability across
// non-mutating operations.
func (m *Map[K, V]) Each(fn func(e *Entry[K, V]) bool) {
	for e := m.store.head; e != nil; e = e.storeNext {
		if fn(e) {
			return
		}
	}
}

// Copy returns an independent map holding the same (key, value) pairs.
// Mutating either map afterwards does not affect the other.
func (m *Map[K, V]) Copy() *Map[K, V] {
	cpy := NewWithHasher[K, V](m.hasher)
	m.Each(func(e *Entry[K, V]) bool {
		cpy.Insert(e.key, e.val)
		return false
	})
	return cpy
}

// notFoundError wraps ErrNotFound with the offending key for messages
// without widening the sentinel's comparability (errors.Is still
// matches ErrNotFound).
type notFoundError[K comparable] struct {
	key K
}

func (e *notFoundError[K]) Error() string {
	return fmt.Sprintf("hopscotch: key not found: %v", e.key)
}

func (e *notFoundError[K]) Unwrap() error {
	return ErrNotFound
}
