package hopscotch

// growCapacity and growNeighborhood are the multiplicative factors the
// rehash policy applies to capacity and H respectively. Unlike a
// bitmap-based hopscotch table, the chain linkage here has no
// fixed-width encoding to outgrow, so H is never capped: an adversarial
// hasher that collapses every key to one home bucket is handled by
// simply letting that home's chain, and H along with it, grow to cover
// every such key.
const (
	growCapacity     = 3
	growNeighborhood = 3
)

// findIndex locates key's bucket index within its home's chain.
// O(chain length) <= O(H).
func (m *Map[K, V]) findIndex(key K) (int, bool) {
	home := m.homeIndex(key)
	cur := m.table.at(home).firstChain
	for cur != noIndex {
		cb := m.table.at(cur)
		if cb.entry.key == key {
			return cur, true
		}
		cur = cb.nextChain
	}
	return 0, false
}

// place installs e, whose key's home bucket is home, into the table.
// It returns false if no legal placement could be found (Step A ran off
// the end of the table, or a hop got stuck); the caller is then
// expected to rehash and retry.
func (m *Map[K, V]) place(e *Entry[K, V], home int) bool {
	capacity := m.table.capacity()

	// Step A: linear probe for the nearest empty slot at or after home.
	f := home
	for f < capacity && m.table.at(f).occupied {
		f++
	}
	if f >= capacity {
		return false
	}

	// Step B: hop the empty slot f backward until it is within H of
	// home.
	for f-home >= m.neighborhood {
		s := m.findHopCandidate(f)
		if s == noIndex {
			return false
		}
		m.hop(s, f)
		f = s
	}

	// Step C: install e at f and splice it into home's chain.
	m.installAt(f, home, e)
	return true
}

// findHopCandidate scans the window [max(f-(H-1), 0), f-1] backward from
// f-1 toward the low end, returning the first (largest-index) occupied
// bucket that can legally move forward to f without violating the
// neighborhood invariant for itself: its own home must be <= s, and f
// must still be within H of that home.
//
// Scanning backward is required, not just faster: a same-home occupant
// can never lie strictly between a chosen s and f (it would itself be a
// valid, larger-index candidate), so moving s to f leaves every other
// member of s's chain at a smaller index than f and the chain stays in
// increasing-index order. Picking the smallest valid index instead can
// strand a later same-home occupant behind the moved one, leaving the
// chain out of order.
func (m *Map[K, V]) findHopCandidate(f int) int {
	start := f - (m.neighborhood - 1)
	if start < 0 {
		start = 0
	}
	for s := f - 1; s >= start; s-- {
		sb := m.table.at(s)
		if sb.occupied && sb.home <= s && f-sb.home < m.neighborhood {
			return s
		}
	}
	return noIndex
}

// hop moves the occupant of s forward into empty slot f, repairing its
// chain linkage in place. s must be occupied and f must be empty.
func (m *Map[K, V]) hop(s, f int) {
	sb := m.table.at(s)
	fb := m.table.at(f)

	fb.occupied = true
	fb.entry = sb.entry
	fb.home = sb.home
	fb.nextChain = sb.nextChain
	fb.prevChain = sb.prevChain

	if sb.prevChain == noIndex {
		m.table.at(sb.home).firstChain = f
	} else {
		m.table.at(sb.prevChain).nextChain = f
	}
	if sb.nextChain != noIndex {
		m.table.at(sb.nextChain).prevChain = f
	}

	sb.clearOccupant()
}

// installAt writes e into empty bucket f as an occupant of home, and
// splices f into home's chain in increasing-index order.
func (m *Map[K, V]) installAt(f, home int, e *Entry[K, V]) {
	fb := m.table.at(f)
	fb.occupied = true
	fb.entry = e
	fb.home = home
	fb.nextChain = noIndex
	fb.prevChain = noIndex

	homeBucket := m.table.at(home)
	head := homeBucket.firstChain
	if head == noIndex || head > f {
		homeBucket.firstChain = f
		fb.nextChain = head
		if head != noIndex {
			m.table.at(head).prevChain = f
		}
		return
	}

	p := head
	for {
		pb := m.table.at(p)
		if pb.nextChain == noIndex || pb.nextChain > f {
			fb.prevChain = p
			fb.nextChain = pb.nextChain
			if pb.nextChain != noIndex {
				m.table.at(pb.nextChain).prevChain = f
			}
			pb.nextChain = f
			return
		}
		p = pb.nextChain
	}
}

// eraseSlot splices out the occupant at idx and removes its entry from
// the store.
func (m *Map[K, V]) eraseSlot(idx int) {
	b := m.table.at(idx)
	e := b.entry

	if b.prevChain == noIndex {
		m.table.at(b.home).firstChain = b.nextChain
	} else {
		m.table.at(b.prevChain).nextChain = b.nextChain
	}
	if b.nextChain != noIndex {
		m.table.at(b.nextChain).prevChain = b.prevChain
	}

	b.clearOccupant()
	m.store.remove(e)
}

// rehash rebuilds the table, growing capacity and/or the neighborhood
// size, and re-places every live entry. It retries with a larger
// target whenever a re-placement fails, which always terminates:
// capacity eventually exceeds the entry count by enough margin that
// H >= capacity and placement succeeds trivially.
func (m *Map[K, V]) rehash() {
	for {
		newCapacity, newNeighborhood := m.nextRehashTarget()
		m.table.reset(newCapacity)
		m.neighborhood = newNeighborhood

		ok := true
		for e := m.store.head; e != nil; e = e.storeNext {
			if !m.place(e, m.homeIndex(e.key)) {
				ok = false
				break
			}
		}
		if ok {
			return
		}
	}
}

// nextRehashTarget grows capacity and/or neighborhood size against the
// table's current values: grow capacity once entries fill it, grow both
// once H is already a large fraction of capacity, otherwise grow H
// alone.
func (m *Map[K, V]) nextRehashTarget() (capacity, neighborhood int) {
	cap := m.table.capacity()
	h := m.neighborhood

	switch {
	case m.store.length >= cap:
		capacity, neighborhood = cap*growCapacity, h
	case h*growNeighborhood >= cap:
		capacity, neighborhood = cap*growCapacity, h*growNeighborhood
	default:
		capacity, neighborhood = cap, h*growNeighborhood
	}
	return capacity, neighborhood
}
