package store

import (
	"context"
	"os"
	"sync"
	"time"
	"unsafe"

	"github.com/cespare/xxhash"
	"github.com/outofforest/parallel"
	"github.com/outofforest/photon"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/clabby/sparse-arr-lib/types"
)

// ErrOutOfSpace is returned when the slot table of a file store cannot fit
// another word.
var ErrOutOfSpace = errors.New("out of space")

const (
	fileMagic   uint64 = 0x5350415253415252 // "SPARSARR"
	fileVersion uint64 = 1

	syncInterval = 100 * time.Millisecond
)

type fileHeader struct {
	Magic    uint64
	Version  uint64
	Capacity uint64
	Words    uint64
}

type slotState byte

const (
	slotFree slotState = iota
	slotUsed
)

type fileSlot struct {
	Address types.Address
	Word    types.Word
	State   slotState
}

const (
	headerSize = uint64(unsafe.Sizeof(fileHeader{}))
	slotSize   = uint64(unsafe.Sizeof(fileSlot{}))
)

// NewFileStore creates new file-based store. Words are kept in a memory-mapped
// open addressing table sized to the highest power of two fitting in the file.
func NewFileStore(file *os.File, size uint64) (*FileStore, func(), error) {
	if size < headerSize+slotSize {
		return nil, nil, errors.New("file size is too small")
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "memory allocation failed")
	}

	capacity := highestPowerOfTwo((size - headerSize) / slotSize)

	header := photon.FromBytes[fileHeader](data[:headerSize])
	h := *header // header is dead after munmap in the rejection branches.
	switch {
	case h.Magic == 0 && h.Words == 0:
		header.Magic = fileMagic
		header.Version = fileVersion
		header.Capacity = capacity
	case h.Magic != fileMagic:
		_ = unix.Munmap(data)
		return nil, nil, errors.Errorf("unrecognized file magic: %#x", h.Magic)
	case h.Version != fileVersion:
		_ = unix.Munmap(data)
		return nil, nil, errors.Errorf("unsupported file version: %d", h.Version)
	case h.Capacity != capacity:
		_ = unix.Munmap(data)
		return nil, nil, errors.Errorf("file capacity mismatch: expected %d, got %d",
			h.Capacity, capacity)
	}

	return &FileStore{
			file:   file,
			data:   data,
			header: header,
			slots:  photon.SliceFromPointer[fileSlot](unsafe.Pointer(&data[headerSize]), int(capacity)),
			mask:   capacity - 1,
		}, func() {
			_ = unix.Munmap(data)
			_ = file.Close()
		}, nil
}

// FileStore defines persistent file-based store.
type FileStore struct {
	file   *os.File
	data   []byte
	header *fileHeader
	slots  []fileSlot
	mask   uint64

	mu sync.RWMutex
}

// ReadWord returns the word stored under the address.
func (s *FileStore) ReadWord(address types.Address) types.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, n := s.probe(address), uint64(0); n <= s.mask; i, n = (i+1)&s.mask, n+1 {
		slot := &s.slots[i]
		switch {
		case slot.State == slotFree:
			return types.Word{}
		case slot.Address == address:
			return slot.Word
		}
	}
	return types.Word{}
}

// WriteWord stores the word under the address.
func (s *FileStore) WriteWord(address types.Address, word types.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := s.probe(address), uint64(0); n <= s.mask; i, n = (i+1)&s.mask, n+1 {
		slot := &s.slots[i]
		switch {
		case slot.State == slotFree:
			slot.Address = address
			slot.Word = word
			slot.State = slotUsed
			s.header.Words++
			return nil
		case slot.Address == address:
			slot.Word = word
			return nil
		}
	}
	return errors.WithStack(ErrOutOfSpace)
}

// Capacity returns the number of slots in the table.
func (s *FileStore) Capacity() uint64 {
	return s.header.Capacity
}

// Words returns the number of words stored.
func (s *FileStore) Words() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.header.Words
}

// Sync syncs pending writes.
func (s *FileStore) Sync() error {
	if err := unix.Msync(s.data, unix.MS_SYNC); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(s.file.Sync())
}

// Run runs the flusher syncing written words to disk periodically and once
// more on shutdown.
func (s *FileStore) Run(ctx context.Context) error {
	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("flusher", parallel.Fail, func(ctx context.Context) error {
			ticker := time.NewTicker(syncInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					if err := s.Sync(); err != nil {
						return err
					}
					return errors.WithStack(ctx.Err())
				case <-ticker.C:
					if err := s.Sync(); err != nil {
						return err
					}
				}
			}
		})
		return nil
	})
}

func (s *FileStore) probe(address types.Address) uint64 {
	return xxhash.Sum64(photon.NewFromValue(&address).B) & s.mask
}

func highestPowerOfTwo(n uint64) uint64 {
	var m uint64 = 1
	for m <= n {
		m <<= 1
	}
	return m >> 1
}
