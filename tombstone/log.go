package tombstone

import (
	"github.com/clabby/sparse-arr-lib/addr"
	"github.com/clabby/sparse-arr-lib/store"
	"github.com/clabby/sparse-arr-lib/types"
)

// Config stores the configuration of the log.
type Config struct {
	BaseAddress types.Address
	Scheme      addr.Scheme
	Store       store.Store
}

// New creates the tombstone log of the array rooted at the base address.
func New(config Config) *Log {
	return &Log{
		config:       config,
		countAddress: config.Scheme.TombstoneLog(config.BaseAddress),
		entryBase:    config.Scheme.TombstoneEntryBase(config.BaseAddress),
	}
}

// Log records the logical positions vacated by deletions. It keeps enough
// information to translate logical indexes to physical slots without moving
// a single element.
//
// The k-th entry stores the logical index deleted as the k-th one, biased by
// k+1 so that entries form a strictly increasing sequence of canonical
// physical positions as long as deletions happen in ascending logical order.
type Log struct {
	config       Config
	countAddress types.Address
	entryBase    types.Address
}

// Count returns the number of recorded deletions.
func (l *Log) Count() uint64 {
	return types.ValueOf[uint64](l.config.Store.ReadWord(l.countAddress))
}

// Entry returns the k-th recorded entry.
func (l *Log) Entry(k uint64) uint64 {
	return types.ValueOf[uint64](l.config.Store.ReadWord(l.entryBase + types.Address(k)))
}

// Append records the deletion of the logical index. The entry is written
// before the count so that a torn sequence never exposes an uninitialized
// entry. Callers must delete indexes in ascending logical order, the log
// does not verify it.
func (l *Log) Append(index uint64) error {
	count := l.Count()
	if err := l.config.Store.WriteWord(l.entryBase+types.Address(count),
		types.WordOf(index+count+1)); err != nil {
		return err
	}
	return l.config.Store.WriteWord(l.countAddress, types.WordOf(count+1))
}

// Offset returns the number of physical slots skipped before the logical
// index: the unique o such that exactly o recorded entries are at most
// index+o. Takes O(log count) word reads.
func (l *Log) Offset(index uint64) uint64 {
	count := l.Count()
	if count == 0 {
		return 0
	}

	// Entry k is skipped iff it is at most the canonical position index+k+1.
	// Entries are strictly increasing, so the skipped entries form a prefix
	// and its length is found by binary search.
	var offset uint64
	low, high := int64(0), int64(count)-1
	for low <= high {
		mid := uint64(low+high) / 2
		switch recorded := l.Entry(mid); {
		case index+mid+1 < recorded:
			high = int64(mid) - 1
		case index+mid+1 > recorded:
			offset = mid + 1
			low = int64(mid) + 1
		default:
			return mid + 1
		}
	}
	return offset
}
