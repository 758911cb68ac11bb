package store

import (
	"sync"

	"github.com/clabby/sparse-arr-lib/types"
)

// NewMemoryStore creates new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		words: map[types.Address]types.Word{},
	}
}

// MemoryStore keeps words in memory. Words written under sparse addresses
// are kept in a map because the address space is far too large for a flat
// region.
type MemoryStore struct {
	mu    sync.RWMutex
	words map[types.Address]types.Word
}

// ReadWord returns the word stored under the address.
func (s *MemoryStore) ReadWord(address types.Address) types.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.words[address]
}

// WriteWord stores the word under the address.
func (s *MemoryStore) WriteWord(address types.Address, word types.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.words[address] = word
	return nil
}

// Words returns the number of words stored.
func (s *MemoryStore) Words() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint64(len(s.words))
}
