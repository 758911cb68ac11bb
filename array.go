package sparsearr

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/clabby/sparse-arr-lib/addr"
	"github.com/clabby/sparse-arr-lib/store"
	"github.com/clabby/sparse-arr-lib/tombstone"
	"github.com/clabby/sparse-arr-lib/types"
)

var (
	// ErrOutOfRange is returned when the index lies outside the bounds
	// accepted by the operation.
	ErrOutOfRange = errors.New("index out of range")

	// ErrUnderflow is returned when popping an empty array.
	ErrUnderflow = errors.New("array underflow")

	// ErrDeletionUnderflow is returned when a guarded deletion targets a
	// canonical position already superseded by a later deletion.
	ErrDeletionUnderflow = errors.New("deletion underflow")
)

// Config stores the configuration of the array.
type Config struct {
	BaseAddress types.Address
	Scheme      addr.Scheme
	Store       store.Store
}

// New creates an array of V rooted at the base address. V must fit in a
// single store word.
func New[V comparable](config Config) (*Array[V], error) {
	var v V
	if uint64(unsafe.Sizeof(v)) > types.WordLength {
		return nil, errors.New("value type is too big")
	}

	return &Array[V]{
		config: config,
		log: tombstone.New(tombstone.Config{
			BaseAddress: config.BaseAddress,
			Scheme:      config.Scheme,
			Store:       config.Store,
		}),
		elementBase: config.Scheme.ElementBase(config.BaseAddress),
	}, nil
}

// Array is a sparse array stored in a word store. The length lives at the
// base address, elements live at slots derived from it, and deletions are
// recorded in a tombstone log instead of moving elements. Lookups skip the
// vacated slots by adding the offset resolved from the log, so deleting costs
// O(1) writes and reading costs O(log deletions).
//
// Deletions must happen in ascending logical order. DeleteAt trusts the
// caller, SafeDeleteAt rejects violations. Arrays rooted at different base
// addresses never touch each other's words.
//
// Operations on the same array must not be interleaved concurrently. A
// parallel append and offset resolution may observe inconsistent
// length/count pairs.
type Array[V comparable] struct {
	config      Config
	log         *tombstone.Log
	elementBase types.Address
}

// Length returns the number of logically present elements.
func (a *Array[V]) Length() uint64 {
	return types.ValueOf[uint64](a.config.Store.ReadWord(a.config.BaseAddress))
}

// Deleted returns the number of recorded deletions.
func (a *Array[V]) Deleted() uint64 {
	return a.log.Count()
}

// Store stores the value under the logical index. Storing under the index
// equal to the length appends the value and grows the array.
func (a *Array[V]) Store(index uint64, v V) error {
	length := a.Length()
	if index > length {
		return errors.Wrapf(ErrOutOfRange, "index: %d, length: %d", index, length)
	}

	if index == length {
		if err := a.setLength(length + 1); err != nil {
			return err
		}
	}
	return a.config.Store.WriteWord(a.slot(index), types.WordOf(v))
}

// Get returns the value stored under the logical index.
func (a *Array[V]) Get(index uint64) (V, error) {
	length := a.Length()
	if index >= length {
		var v V
		return v, errors.Wrapf(ErrOutOfRange, "index: %d, length: %d", index, length)
	}

	return types.ValueOf[V](a.config.Store.ReadWord(a.slot(index))), nil
}

// Push appends the value at the end of the array.
func (a *Array[V]) Push(v V) error {
	return a.Store(a.Length(), v)
}

// Pop removes the last element. The vacated word stays in the store, the
// decremented length makes it unreachable.
func (a *Array[V]) Pop() error {
	length := a.Length()
	if length == 0 {
		return errors.WithStack(ErrUnderflow)
	}

	return a.setLength(length - 1)
}

// DeleteAt removes the element under the logical index without moving the
// elements after it. The caller must delete indexes in ascending logical
// order, violations silently corrupt offset resolution for later lookups.
func (a *Array[V]) DeleteAt(index uint64) error {
	length := a.Length()
	if index >= length {
		return errors.Wrapf(ErrOutOfRange, "index: %d, length: %d", index, length)
	}

	if err := a.setLength(length - 1); err != nil {
		return err
	}
	return a.log.Append(index)
}

// SafeDeleteAt removes the element under the logical index, rejecting
// deletions violating the ascending order required by the tombstone log.
func (a *Array[V]) SafeDeleteAt(index uint64) error {
	length := a.Length()
	if index >= length {
		return errors.Wrapf(ErrOutOfRange, "index: %d, length: %d", index, length)
	}

	if count := a.log.Count(); count > 0 {
		if last := a.log.Entry(count - 1); index+count+1 <= last {
			return errors.Wrapf(ErrDeletionUnderflow, "index: %d, last deleted canonical position: %d",
				index, last)
		}
	}

	if err := a.setLength(length - 1); err != nil {
		return err
	}
	return a.log.Append(index)
}

// Iterator returns an iterator iterating over the live values in logical
// order.
func (a *Array[V]) Iterator() func(func(uint64, V) bool) {
	return func(yield func(uint64, V) bool) {
		for i, length := uint64(0), a.Length(); i < length; i++ {
			if !yield(i, types.ValueOf[V](a.config.Store.ReadWord(a.slot(i)))) {
				return
			}
		}
	}
}

func (a *Array[V]) setLength(length uint64) error {
	return a.config.Store.WriteWord(a.config.BaseAddress, types.WordOf(length))
}

func (a *Array[V]) slot(index uint64) types.Address {
	return a.elementBase + types.Address(index+a.log.Offset(index))
}
