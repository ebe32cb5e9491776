package hopscotch

import (
	"math/rand"
	"testing"
)

// checkInvariants walks every bucket and every home chain, verifying
// that every occupant sits within its neighborhood's bound, that every
// home chain is reachable, strictly increasing, correctly doubly
// linked, and touches only buckets that actually belong to it, and that
// the occupied-bucket count matches the entry store length.
func checkInvariants[K comparable, V any](t *testing.T, m *Map[K, V]) {
	t.Helper()

	occupied := 0
	reachedViaChain := make(map[int]bool)

	for i := 0; i < m.table.capacity(); i++ {
		b := m.table.at(i)
		if !b.occupied {
			continue
		}
		occupied++
		if d := i - b.home; d < 0 || d >= m.neighborhood {
			t.Fatalf("neighborhood bound violated: bucket %d has home %d, displacement %d, H=%d", i, b.home, d, m.neighborhood)
		}
	}

	for h := 0; h < m.table.capacity(); h++ {
		home := m.table.at(h)
		cur := home.firstChain
		prev := noIndex
		lastIdx := -1
		for cur != noIndex {
			cb := m.table.at(cur)
			if !cb.occupied {
				t.Fatalf("chain for home %d reaches empty bucket %d", h, cur)
			}
			if cb.home != h {
				t.Fatalf("bucket %d in home %d's chain has home %d", cur, h, cb.home)
			}
			if cb.prevChain != prev {
				t.Fatalf("bucket %d prevChain = %d, want %d", cur, cb.prevChain, prev)
			}
			if cur <= lastIdx {
				t.Fatalf("chain for home %d is not strictly increasing at %d", h, cur)
			}
			if reachedViaChain[cur] {
				t.Fatalf("bucket %d reached by more than one home chain", cur)
			}
			reachedViaChain[cur] = true
			lastIdx = cur
			prev = cur
			cur = cb.nextChain
		}
	}

	if occupied != m.store.length {
		t.Fatalf("%d occupied buckets, %d stored entries", occupied, m.store.length)
	}
	if len(reachedViaChain) != occupied {
		t.Fatalf("%d buckets occupied but only %d reachable via a home chain", occupied, len(reachedViaChain))
	}
}

func TestPlaceFindEraseInvariantsUnderChurn(t *testing.T) {
	m := NewWithHasher[int, int](func(k int) uint64 { return uint64(k) })
	rng := rand.New(rand.NewSource(1))
	reference := map[int]int{}

	for i := 0; i < 5000; i++ {
		key := rng.Intn(400)
		switch rng.Intn(3) {
		case 0, 1:
			val := rng.Int()
			_, alreadyPresent := reference[key]
			e, inserted := m.Insert(key, val)
			if inserted == alreadyPresent {
				t.Fatalf("Insert returned wrong new-ness for key %d", key)
			}
			if inserted {
				reference[key] = val
			}
			if e.Key() != key {
				t.Fatalf("handle key = %d, want %d", e.Key(), key)
			}
		case 2:
			delete(reference, key)
			m.Erase(key)
		}
		checkInvariants(t, m)
	}

	if m.Size() != len(reference) {
		t.Fatalf("Size() = %d, want %d", m.Size(), len(reference))
	}
	for k, v := range reference {
		got, ok := m.Find(k)
		if !ok || got.Value() != v {
			t.Fatalf("Find(%d) = (%v, %v), want (%v, true)", k, got, ok, v)
		}
	}
}

func TestAdversarialConstantHasher(t *testing.T) {
	m := NewWithHasher[int, int](func(int) uint64 { return 0 })

	const n = 1000
	for i := 0; i < n; i++ {
		m.Insert(i, i)
		checkInvariants(t, m)
	}

	if m.Size() != n {
		t.Fatalf("Size() = %d, want %d", m.Size(), n)
	}
	for i := 0; i < n; i++ {
		v, ok := m.Find(i)
		if !ok || v.Value() != i {
			t.Fatalf("Find(%d) = (%v, %v), want (%d, true)", i, v, ok, i)
		}
	}
}
