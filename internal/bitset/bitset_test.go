package bitset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equocredite/minifs/internal/bitset"
)

func TestNewStartsFullyFree(t *testing.T) {
	s := bitset.New(16)
	assert.Equal(t, 16, s.CountFree())
	assert.Equal(t, 0, s.FirstFree())
}

func TestAllocateClearsLowestFreeBit(t *testing.T) {
	s := bitset.New(8)
	s.Allocate(0)
	s.Allocate(1)
	assert.False(t, s.IsFree(0))
	assert.False(t, s.IsFree(1))
	assert.Equal(t, 2, s.FirstFree())
	assert.Equal(t, 6, s.CountFree())
}

func TestFirstFreeReturnsMinusOneWhenFull(t *testing.T) {
	s := bitset.New(4)
	for i := 0; i < 4; i++ {
		s.Allocate(i)
	}
	assert.Equal(t, -1, s.FirstFree())
}

func TestFreeRejectsDoubleFree(t *testing.T) {
	s := bitset.New(4)
	s.Allocate(2)
	require.True(t, s.Free(2))
	assert.False(t, s.Free(2), "freeing an already-free bit must be reported, not silently accepted")
}

func TestLoadRoundTripsBytes(t *testing.T) {
	s := bitset.New(16)
	s.Allocate(3)
	s.Allocate(9)

	raw := append([]byte(nil), s.Bytes()...)
	reloaded := bitset.Load(16, raw)

	assert.False(t, reloaded.IsFree(3))
	assert.False(t, reloaded.IsFree(9))
	assert.Equal(t, s.CountFree(), reloaded.CountFree())
}

func TestUnusedTailBitsStayFree(t *testing.T) {
	// The on-disk bitmap occupies a whole block even though only NumBlocks
	// or NumInodes bits are meaningful; the convention (spec §3) is that the
	// unused tail stays 1 (free). Set covers only the meaningful bits, so
	// this just pins the all-free starting convention a fresh bitmap relies
	// on for those unused bits never being consulted.
	s := bitset.New(5)
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 5, s.CountFree())
}
