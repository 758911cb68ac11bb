package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clabby/sparse-arr-lib/store"
	"github.com/clabby/sparse-arr-lib/types"
)

func TestMemoryStoreReadsZeroWordByDefault(t *testing.T) {
	requireT := require.New(t)
	s := store.NewMemoryStore()

	requireT.Equal(types.Word{}, s.ReadWord(0x00))
	requireT.Equal(types.Word{}, s.ReadWord(0x01))
	requireT.Equal(types.Word{}, s.ReadWord(types.Address(1<<63)+0x123456))
	requireT.EqualValues(0, s.Words())
}

func TestMemoryStoreReadsBackWrites(t *testing.T) {
	requireT := require.New(t)
	s := store.NewMemoryStore()

	requireT.NoError(s.WriteWord(0x01, types.WordOf[uint64](42)))
	requireT.NoError(s.WriteWord(types.Address(1<<63), types.WordOf[uint64](43)))

	requireT.Equal(types.WordOf[uint64](42), s.ReadWord(0x01))
	requireT.Equal(types.WordOf[uint64](43), s.ReadWord(types.Address(1<<63)))
	requireT.Equal(types.Word{}, s.ReadWord(0x02))
	requireT.EqualValues(2, s.Words())
}

func TestMemoryStoreOverwrites(t *testing.T) {
	requireT := require.New(t)
	s := store.NewMemoryStore()

	requireT.NoError(s.WriteWord(0x01, types.WordOf[uint64](42)))
	requireT.NoError(s.WriteWord(0x01, types.WordOf[uint64](442)))

	requireT.Equal(types.WordOf[uint64](442), s.ReadWord(0x01))
	requireT.EqualValues(1, s.Words())
}
