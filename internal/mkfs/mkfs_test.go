package mkfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equocredite/minifs/internal/block"
	"github.com/equocredite/minifs/internal/diskio"
	"github.com/equocredite/minifs/internal/inode"
	"github.com/equocredite/minifs/internal/layout"
	"github.com/equocredite/minifs/internal/mkfs"
)

func freshDisk(t *testing.T) diskio.Disk {
	t.Helper()
	disk := diskio.NewMemDisk(layout.DiskSize)
	require.NoError(t, mkfs.Format(disk))
	return disk
}

func TestFormatWritesValidSuperblock(t *testing.T) {
	disk := freshDisk(t)
	sb, err := block.ReadSuperblock(disk)
	require.NoError(t, err)
	assert.EqualValues(t, layout.Magic, sb.Magic)
}

func TestFormatReservesOneInodeAndOneBlockForRoot(t *testing.T) {
	disk := freshDisk(t)
	blocks := block.NewStore(disk)
	inodes := inode.NewStore(disk, blocks)

	nFreeBlocks, err := inodes.Blocks().NFreeBlocks()
	require.NoError(t, err)
	nFreeInodes, err := inodes.NFreeInodes()
	require.NoError(t, err)

	assert.Equal(t, layout.NumBlocks-1, nFreeBlocks, "root's \".\"/\"..\" block must be allocated")
	assert.Equal(t, layout.NumInodes-1, nFreeInodes, "root's inode must be allocated")
}

func TestFormatSeedsRootDirectory(t *testing.T) {
	disk := freshDisk(t)
	blocks := block.NewStore(disk)
	inodes := inode.NewStore(disk, blocks)

	require.True(t, inodes.IsDir(layout.RootInodeID))

	root, err := inodes.Read(layout.RootInodeID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, root.RefCount, "root is reachable only through its own \".\"")

	dot, err := inodes.Lookup(layout.RootInodeID, ".", 0)
	require.NoError(t, err)
	assert.EqualValues(t, layout.RootInodeID, dot)

	dotdot, err := inodes.Lookup(layout.RootInodeID, "..", 0)
	require.NoError(t, err)
	assert.EqualValues(t, layout.RootInodeID, dotdot, "root's \"..\" points back at itself")
}

func TestValidateRejectsBadMagic(t *testing.T) {
	disk := diskio.NewMemDisk(layout.DiskSize)
	err := mkfs.Validate(disk)
	assert.Error(t, err)
}

func TestValidateAcceptsFormattedImage(t *testing.T) {
	disk := freshDisk(t)
	assert.NoError(t, mkfs.Validate(disk))
}
