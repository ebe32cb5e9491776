package hopscotch

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"reflect"
	"unsafe"

	"github.com/dchest/siphash"
)

// HashFn is a function that returns the hash of k. It is treated as an
// opaque, pure function throughout the map: the same key always hashes
// to the same value, and the hash is never reused for equality.
type HashFn[K any] func(k K) uint64

// sipKey0/sipKey1 form the 128-bit SipHash key used by the default string
// hasher. They are drawn once per process from crypto/rand so that
// two processes don't share a predictable hash, which defends against
// hash-flooding attacks on keys an attacker can choose; every map within
// one process shares this key. A read failure is exceedingly rare and
// falls back to fixed constants rather than leaving the hashers unusable.
var sipKey0, sipKey1 = func() (uint64, uint64) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0x9ae16a3b2f90404f, 0xc3a5c85c97cb3127
	}
	return binary.LittleEndian.Uint64(buf[0:8]), binary.LittleEndian.Uint64(buf[8:16])
}()

// GetHasher returns a hasher for the Go built-in kinds: fixed-width
// integers and floats get a MurmurHash3-style finalizer, strings get
// SipHash keyed by sipKey0/sipKey1.
func GetHasher[K any]() HashFn[K] {
	var key K
	kind := reflect.ValueOf(&key).Elem().Type().Kind()

	switch kind {
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		switch unsafe.Sizeof(key) {
		case 2:
			return *(*func(K) uint64)(unsafe.Pointer(&hashWord))
		case 4:
			return *(*func(K) uint64)(unsafe.Pointer(&hashDword))
		case 8:
			return *(*func(K) uint64)(unsafe.Pointer(&hashQword))
		default:
			panic("unsupported integer byte size")
		}

	case reflect.Int8, reflect.Uint8:
		return *(*func(K) uint64)(unsafe.Pointer(&hashByte))
	case reflect.Int16, reflect.Uint16:
		return *(*func(K) uint64)(unsafe.Pointer(&hashWord))
	case reflect.Int32, reflect.Uint32:
		return *(*func(K) uint64)(unsafe.Pointer(&hashDword))
	case reflect.Int64, reflect.Uint64:
		return *(*func(K) uint64)(unsafe.Pointer(&hashQword))
	case reflect.Float32:
		return *(*func(K) uint64)(unsafe.Pointer(&hashFloat32))
	case reflect.Float64:
		return *(*func(K) uint64)(unsafe.Pointer(&hashFloat64))
	case reflect.String:
		return *(*func(K) uint64)(unsafe.Pointer(&hashString))

	default:
		panic(fmt.Sprintf("unsupported key type %T of kind %v", key, kind))
	}
}

var hashByte = func(in uint8) uint64 {
	key := uint32(in)
	key *= 0xcc9e2d51
	key = (key << 15) | (key >> 17)
	key *= 0x1b873593
	return uint64(key)
}

var hashWord = func(in uint16) uint64 {
	key := uint32(in)
	key *= 0xcc9e2d51
	key = (key << 15) | (key >> 17)
	key *= 0x1b873593
	return uint64(key)
}

var hashDword = func(key uint32) uint64 {
	key *= 0xcc9e2d51
	key = (key << 15) | (key >> 17)
	key *= 0x1b873593
	return uint64(key)
}

var hashFloat32 = func(in float32) uint64 {
	p := unsafe.Pointer(&in)
	key := *(*uint32)(p)

	key *= 0xcc9e2d51
	key = (key << 15) | (key >> 17)
	key *= 0x1b873593
	return uint64(key)
}

var hashFloat64 = func(in float64) uint64 {
	p := unsafe.Pointer(&in)
	key := *(*uint64)(p)

	key ^= key >> 33
	key *= 0xff51afd7ed558ccd
	key ^= key >> 33
	key *= 0xc4ceb9fe1a85ec53
	key ^= key >> 33
	return key
}

// hashQword implements MurmurHash3's 64-bit finalizer.
var hashQword = func(key uint64) uint64 {
	key ^= key >> 33
	key *= 0xff51afd7ed558ccd
	key ^= key >> 33
	key *= 0xc4ceb9fe1a85ec53
	key ^= key >> 33
	return key
}

// hashString hashes via SipHash-2-4, keyed by sipKey0/sipKey1.
var hashString = func(key string) uint64 {
	return siphash.Hash(sipKey0, sipKey1, []byte(key))
}
