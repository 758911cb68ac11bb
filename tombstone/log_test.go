package tombstone_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clabby/sparse-arr-lib/test"
	"github.com/clabby/sparse-arr-lib/tombstone"
)

func newLog() (*tombstone.Log, *test.Store) {
	s := test.NewStore()
	return tombstone.New(tombstone.Config{
		BaseAddress: 0x01,
		Store:       s,
	}), s
}

func TestEmptyLog(t *testing.T) {
	requireT := require.New(t)
	l, _ := newLog()

	requireT.EqualValues(0, l.Count())
	requireT.EqualValues(0, l.Offset(0))
	requireT.EqualValues(0, l.Offset(100))
}

func TestAppendRecordsBiasedEntries(t *testing.T) {
	requireT := require.New(t)
	l, _ := newLog()

	// Deleting logical 1, 3, 5, 6 from an array of 10, each index evaluated
	// against the array as it is at that moment.
	requireT.NoError(l.Append(1))
	requireT.NoError(l.Append(3))
	requireT.NoError(l.Append(5))
	requireT.NoError(l.Append(6))

	requireT.EqualValues(4, l.Count())
	requireT.EqualValues(2, l.Entry(0))
	requireT.EqualValues(5, l.Entry(1))
	requireT.EqualValues(8, l.Entry(2))
	requireT.EqualValues(10, l.Entry(3))
}

func TestOffsetAfterSingleDeletion(t *testing.T) {
	requireT := require.New(t)
	l, _ := newLog()

	requireT.NoError(l.Append(1))

	requireT.EqualValues(0, l.Offset(0))
	requireT.EqualValues(1, l.Offset(1))
	requireT.EqualValues(1, l.Offset(2))

	// The next append skips the vacated slot as well.
	requireT.EqualValues(1, l.Offset(3))
}

func TestOffsetAfterManyDeletions(t *testing.T) {
	requireT := require.New(t)
	l, _ := newLog()

	requireT.NoError(l.Append(1))
	requireT.NoError(l.Append(3))
	requireT.NoError(l.Append(5))
	requireT.NoError(l.Append(6))

	for index, offset := range []uint64{0, 1, 1, 2, 2, 3} {
		requireT.EqualValues(offset, l.Offset(uint64(index)), "index: %d", index)
	}
}

func TestAppendWritesTwoWords(t *testing.T) {
	requireT := require.New(t)
	l, s := newLog()

	s.Accesses()
	requireT.NoError(l.Append(1))

	read, written := s.Accesses()
	requireT.Len(read, 1)
	requireT.Len(written, 2)
}

func TestOffsetReadsLogarithmically(t *testing.T) {
	requireT := require.New(t)
	l, s := newLog()

	for i := range uint64(64) {
		requireT.NoError(l.Append(2 * i))
	}

	s.Accesses()
	l.Offset(5)

	// The count word plus at most six probed entries.
	read, _ := s.Accesses()
	requireT.LessOrEqual(len(read), 7)
}

func TestOffsetAgainstReference(t *testing.T) {
	requireT := require.New(t)
	rnd := rand.New(rand.NewSource(42))

	for range 100 {
		l, _ := newLog()

		length := uint64(20 + rnd.Intn(80))
		live := make([]uint64, 0, length)
		for i := range length {
			live = append(live, i)
		}
		entries := []uint64{}

		for range rnd.Intn(int(length)) {
			count := uint64(len(entries))

			// Stay inside the supported regime: every deletion targets an
			// index after the previously deleted one.
			var lowest uint64
			if count > 0 {
				lowest = entries[count-1] - count + 1
			}
			if lowest >= uint64(len(live)) {
				break
			}
			index := lowest + uint64(rnd.Intn(len(live)-int(lowest)))

			requireT.NoError(l.Append(index))
			entries = append(entries, index+count+1)
			live = append(live[:index], live[index+1:]...)
		}

		requireT.EqualValues(len(entries), l.Count())

		for index := range uint64(len(live)) {
			offset := l.Offset(index)
			requireT.Equal(referenceOffset(entries, index), offset)
			requireT.Equal(live[index], index+offset)
		}

		// The append position skips every vacated slot.
		appendIndex := uint64(len(live))
		requireT.Equal(referenceOffset(entries, appendIndex), l.Offset(appendIndex))
		requireT.EqualValues(len(entries), l.Offset(appendIndex))
	}
}

// referenceOffset resolves the offset by brute force: it iterates the number
// of skipped entries down from the entry count until it stabilizes, reaching
// the greatest fixpoint without assuming anything about the entry layout.
func referenceOffset(entries []uint64, index uint64) uint64 {
	offset := uint64(len(entries))
	for {
		var skipped uint64
		for _, e := range entries {
			if e <= index+offset {
				skipped++
			}
		}
		if skipped == offset {
			return offset
		}
		offset = skipped
	}
}
