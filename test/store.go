package test

import (
	"sort"

	"github.com/clabby/sparse-arr-lib/types"
)

// NewStore creates the word store used in tests. It records the addresses
// accessed so that tests can verify the physical footprint of operations.
func NewStore() *Store {
	return &Store{
		words:        map[types.Address]types.Word{},
		wordsRead:    map[types.Address]struct{}{},
		wordsWritten: map[types.Address]struct{}{},
	}
}

// Store is the word store implementation used in tests.
type Store struct {
	words        map[types.Address]types.Word
	wordsRead    map[types.Address]struct{}
	wordsWritten map[types.Address]struct{}
}

// ReadWord returns the word stored under the address.
func (s *Store) ReadWord(address types.Address) types.Word {
	s.wordsRead[address] = struct{}{}
	return s.words[address]
}

// WriteWord stores the word under the address.
func (s *Store) WriteWord(address types.Address, word types.Word) error {
	s.wordsWritten[address] = struct{}{}
	s.words[address] = word
	return nil
}

// Words returns the number of words stored.
func (s *Store) Words() uint64 {
	return uint64(len(s.words))
}

// Accesses returns the addresses read and written since the previous call
// and resets the recording.
func (s *Store) Accesses() (read, written []types.Address) {
	return mapToSlice(s.wordsRead), mapToSlice(s.wordsWritten)
}

func mapToSlice(m map[types.Address]struct{}) []types.Address {
	s := make([]types.Address, 0, len(m))
	for k := range m {
		s = append(s, k)
	}

	clear(m)

	sort.Slice(s, func(i, j int) bool {
		return s[i] < s[j]
	})

	return s
}
