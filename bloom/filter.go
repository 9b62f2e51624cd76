// Package bloom implements a fixed-size bit-array membership filter with a
// pluggable set of hash functions, ported from the original's bloom.c.
package bloom

import "golang.org/x/crypto/blake2b"

type namedHash struct {
	name string
	fn   HashFunc
}

// Filter is a Bloom filter: a size-bit array tested and set by every
// registered hash function. It is not safe for concurrent writers; reads
// (Test) concurrent with other reads are fine.
type Filter struct {
	bits  []byte
	size  uint32
	hashes []namedHash
}

// New creates a filter with the given bit-array size, pre-registered with
// the two default hashes the original always installs: djb2 and jenkins.
func New(size uint32) *Filter {
	f := &Filter{
		bits: make([]byte, (size+7)>>3),
		size: size,
	}
	f.AddHash("djb2", djb2)
	f.AddHash("jenkins", jenkins)
	return f
}

// AddHash registers an additional hash function under name. Registering a
// name already in use appends a second entry rather than replacing the
// first, matching bloom_add_hash's append-only linked list.
func (f *Filter) AddHash(name string, fn HashFunc) {
	f.hashes = append(f.hashes, namedHash{name: name, fn: fn})
}

// Blake2bHash is a higher-quality optional third hash, available to
// callers who want to register it via AddHash for lower false-positive
// rates at a higher per-insert cost.
func Blake2bHash(key []byte) uint32 {
	sum := blake2b.Sum256(key)
	return uint32(sum[0]) | uint32(sum[1])<<8 | uint32(sum[2])<<16 | uint32(sum[3])<<24
}

func (f *Filter) bitIndex(h uint32) (byteIdx uint32, mask byte) {
	bit := h % f.size
	return bit >> 3, 0x80 >> (bit & 7)
}

// Add marks item as present: every registered hash sets its corresponding
// bit.
func (f *Filter) Add(item []byte) {
	for _, h := range f.hashes {
		idx, mask := f.bitIndex(h.fn(item))
		f.bits[idx] |= mask
	}
}

// Test reports whether item might be present. False negatives never
// happen; false positives are expected at a rate governed by the filter's
// size, the number of items added, and the hash count.
func (f *Filter) Test(item []byte) bool {
	for _, h := range f.hashes {
		idx, mask := f.bitIndex(h.fn(item))
		if f.bits[idx]&mask == 0 {
			return false
		}
	}
	return true
}

// Size returns the filter's bit-array size.
func (f *Filter) Size() uint32 { return f.size }

// HashCount returns how many hash functions are currently registered.
func (f *Filter) HashCount() int { return len(f.hashes) }
