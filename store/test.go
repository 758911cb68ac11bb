package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// NewForTest creates a file store over a temporary file for unit tests.
func NewForTest(t *testing.T, size uint64) *FileStore {
	dir := t.TempDir()
	storeFile := filepath.Join(dir, "sparsearr.db")
	f, err := os.OpenFile(storeFile, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o600)
	require.NoError(t, err)

	_, err = f.Seek(int64(size)-1, io.SeekStart)
	require.NoError(t, err)

	_, err = f.Write([]byte{0x00})
	require.NoError(t, err)

	s, storeCloseFunc, err := NewFileStore(f, size)
	require.NoError(t, err)
	t.Cleanup(storeCloseFunc)

	return s
}

// RunInTest creates and runs a file store for unit tests.
func RunInTest(t *testing.T, size uint64) *FileStore {
	s := NewForTest(t, size)

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig)))
	t.Cleanup(cancel)

	group := parallel.NewGroup(ctx)
	group.Spawn("store", parallel.Continue, s.Run)

	t.Cleanup(func() {
		group.Exit(nil)
		if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			t.Fatal(err)
		}
	})

	return s
}
