package addr

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	"github.com/zeebo/blake3"

	"github.com/clabby/sparse-arr-lib/types"
)

// tombstoneSeed separates tombstone addresses from element addresses derived
// from the same base address.
const tombstoneSeed uint64 = 0x746f6d6273746f6e

// Mix is a mixing function distributing derived addresses across the whole
// address space.
type Mix func(data []byte) types.Address

// XXH64 mixes data using the xxhash algorithm.
func XXH64(data []byte) types.Address {
	return types.Address(xxhash.Sum64(data))
}

// Blake3 mixes data using the blake3 algorithm.
func Blake3(data []byte) types.Address {
	hash := blake3.Sum256(data)
	return types.Address(binary.LittleEndian.Uint64(hash[:]))
}

// Scheme derives the store addresses used by an array rooted at a base
// address. The zero value mixes with XXH64.
type Scheme struct {
	Mix Mix
}

// ElementBase returns the address of the slot storing the first element of
// the array rooted at base.
func (s Scheme) ElementBase(base types.Address) types.Address {
	var b [types.UInt64Length]byte
	binary.LittleEndian.PutUint64(b[:], uint64(base))
	return s.mix(b[:])
}

// Element returns the address of the slot storing the i-th element.
// Consecutive slots never collide because they are derived by addition,
// not by mixing.
func (s Scheme) Element(base types.Address, i uint64) types.Address {
	return s.ElementBase(base) + types.Address(i)
}

// TombstoneLog returns the address of the word counting recorded deletions
// of the array rooted at base.
func (s Scheme) TombstoneLog(base types.Address) types.Address {
	var b [2 * types.UInt64Length]byte
	binary.LittleEndian.PutUint64(b[:], tombstoneSeed)
	binary.LittleEndian.PutUint64(b[types.UInt64Length:], uint64(base))
	return s.mix(b[:])
}

// TombstoneEntryBase returns the address of the slot storing the first
// tombstone log entry.
func (s Scheme) TombstoneEntryBase(base types.Address) types.Address {
	var b [types.UInt64Length]byte
	binary.LittleEndian.PutUint64(b[:], uint64(s.TombstoneLog(base)))
	return s.mix(b[:])
}

// TombstoneEntry returns the address of the slot storing the k-th tombstone
// log entry.
func (s Scheme) TombstoneEntry(base types.Address, k uint64) types.Address {
	return s.TombstoneEntryBase(base) + types.Address(k)
}

func (s Scheme) mix(data []byte) types.Address {
	if s.Mix == nil {
		return XXH64(data)
	}
	return s.Mix(data)
}
