package types

import (
	"github.com/outofforest/photon"
)

const (
	// UInt64Length is the number of bytes taken by uint64.
	UInt64Length = 8

	// WordLength is the number of bytes stored under a single address.
	WordLength = 32
)

type (
	// Address represents the address of a word in the store.
	Address uint64

	// Word represents the content stored under a single address. Addresses
	// which were never written read as the zero word.
	Word [WordLength]byte
)

// WordOf returns the word storing the value.
func WordOf[T comparable](v T) Word {
	var w Word
	copy(w[:], photon.NewFromValue(&v).B)
	return w
}

// ValueOf returns the value stored in the word.
func ValueOf[T comparable](w Word) T {
	var v T
	copy(photon.NewFromValue(&v).B, w[:])
	return v
}
