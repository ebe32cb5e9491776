package hopscotch

// noIndex marks an absent chain link or an unoccupied home chain head.
// Chain links are stored as absolute bucket indices rather than
// signed deltas relative to each bucket's own index (see DESIGN.md).
const noIndex = -1

// bucket is a fixed-layout metadata record, one per table slot. A given
// index plays two independent roles at once:
//
//   - as a physical slot, it either is empty or holds a handle to the
//     entry currently occupying it (entry, home);
//   - as a home bucket, it anchors the chain of every occupant whose
//     home hashes here (firstChain); this holds regardless of whether
//     this slot's own occupant, if any, belongs to that chain or a
//     different one.
type bucket[K comparable, V any] struct {
	occupied bool
	entry    *Entry[K, V]
	// home is the home index of the entry occupying this slot. Valid
	// only when occupied.
	home int

	// firstChain is the index of the first occupant (lowest index) whose
	// home is this bucket, or noIndex if this bucket currently hosts no
	// chain. Always meaningful, independent of occupied.
	firstChain int
	// nextChain/prevChain link this slot to the other occupants sharing
	// its own home, ordered by increasing index. Valid only when
	// occupied.
	nextChain int
	prevChain int
}

func (b *bucket[K, V]) clearOccupant() {
	b.occupied = false
	b.entry = nil
	b.home = 0
	b.nextChain = noIndex
	b.prevChain = noIndex
}

// bucketTable is a contiguous array of bucket records supporting O(1)
// indexed access and wholesale reallocation on rehash.
type bucketTable[K comparable, V any] struct {
	buckets []bucket[K, V]
}

func newBucketTable[K comparable, V any](n int) bucketTable[K, V] {
	return bucketTable[K, V]{buckets: freshBuckets[K, V](n)}
}

func freshBuckets[K comparable, V any](n int) []bucket[K, V] {
	b := allocBuckets[K, V](n)
	for i := range b {
		b[i].firstChain = noIndex
		b[i].nextChain = noIndex
		b[i].prevChain = noIndex
	}
	return b
}

// capacity returns the current number of slots. Always >= the current
// neighborhood size and always > 0.
func (t *bucketTable[K, V]) capacity() int {
	return len(t.buckets)
}

// at returns a mutable pointer to slot i.
func (t *bucketTable[K, V]) at(i int) *bucket[K, V] {
	return &t.buckets[i]
}

// reset replaces the table with newCapacity empty buckets. Used only
// during rehash; every prior occupant must be re-placed by the caller.
func (t *bucketTable[K, V]) reset(newCapacity int) {
	t.buckets = freshBuckets[K, V](newCapacity)
}
