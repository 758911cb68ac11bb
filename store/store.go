package store

import (
	"github.com/clabby/sparse-arr-lib/types"
)

// Store provides word-granular access to the backing storage. Addresses
// which were never written read as the zero word.
type Store interface {
	ReadWord(address types.Address) types.Word
	WriteWord(address types.Address, word types.Word) error
}
