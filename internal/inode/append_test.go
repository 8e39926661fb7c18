package inode_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/inode"
	"github.com/equocredite/minifs/internal/layout"
)

func TestAppendToFileRoundTrips(t *testing.T) {
	inodes := newStore(t)
	fileID, err := inodes.Allocate()
	require.NoError(t, err)
	require.NoError(t, inodes.Write(fileID, inode.Inode{FileType: layout.RegularFile, Direct: inode.NewDirect()}))

	data := bytes.Repeat([]byte{0x7A}, layout.BlockSize+17)
	require.NoError(t, inodes.AppendToFile(fileID, data))

	content, err := inodes.ReadFile(fileID)
	require.NoError(t, err)
	assert.Equal(t, data, content)
}

// A block allocation failing partway through a multi-block append must not
// lose the blocks already written: n.Size and n.Direct are committed after
// every block, not just once the whole append succeeds.
func TestAppendToFilePersistsPartialProgressOnAllocationFailure(t *testing.T) {
	inodes := newStore(t)
	fileID, err := inodes.Allocate()
	require.NoError(t, err)
	require.NoError(t, inodes.Write(fileID, inode.Inode{FileType: layout.RegularFile, Direct: inode.NewDirect()}))

	freeBefore, err := inodes.Blocks().NFreeBlocks()
	require.NoError(t, err)
	for i := 0; i < freeBefore-2; i++ {
		_, err := inodes.Blocks().Allocate()
		require.NoError(t, err)
	}
	remaining, err := inodes.Blocks().NFreeBlocks()
	require.NoError(t, err)
	require.Equal(t, 2, remaining)

	data := bytes.Repeat([]byte{0xAB}, layout.BlockSize*3)

	err = inodes.AppendToFile(fileID, data)
	require.Error(t, err)
	e, ok := err.(*errs.Error)
	require.True(t, ok)
	assert.Equal(t, errs.NoSpaceBlocks, e.Kind())

	n, err := inodes.Read(fileID)
	require.NoError(t, err)
	assert.EqualValues(t, layout.BlockSize*2, n.Size, "the two blocks that succeeded must be committed to size")
	assert.NotEqual(t, int32(-1), n.Direct[0])
	assert.NotEqual(t, int32(-1), n.Direct[1])
	assert.Equal(t, int32(-1), n.Direct[2], "the third, never-allocated block must stay unset")

	content, err := inodes.ReadFile(fileID)
	require.NoError(t, err)
	assert.Equal(t, data[:layout.BlockSize*2], content)
}
