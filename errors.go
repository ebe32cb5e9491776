package hopscotch

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by At when the requested key is not present.
	ErrNotFound = errors.New("hopscotch: key not found")

	// ErrOutOfMemory is raised when a bucket table allocation during
	// rehash cannot be satisfied. The map is left holding the entries
	// it held before the Insert that triggered the rehash: Insert puts
	// back the previous table and neighborhood size and drops the entry
	// it was adding before re-raising the panic.
	ErrOutOfMemory = errors.New("hopscotch: out of memory")
)

// allocBuckets allocates n buckets, converting a runtime allocation
// failure into a panic carrying ErrOutOfMemory so callers that recover
// around a rehash can distinguish it with errors.Is. Go gives no other
// way to observe slice-allocation failure.
func allocBuckets[K comparable, V any](n int) (buckets []bucket[K, V]) {
	defer func() {
		if r := recover(); r != nil {
			panic(fmt.Errorf("allocating %d buckets: %v: %w", n, r, ErrOutOfMemory))
		}
	}()
	return make([]bucket[K, V], n)
}
