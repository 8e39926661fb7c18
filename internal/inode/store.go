package inode

import (
	"github.com/equocredite/minifs/internal/bitset"
	"github.com/equocredite/minifs/internal/block"
	"github.com/equocredite/minifs/internal/diskio"
	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/layout"
)

// Store is the inode layer's handle on the disk: the inode bitmap and
// table, layered on top of a block.Store (for allocating/freeing the data
// blocks an inode owns).
type Store struct {
	disk   diskio.Disk
	blocks *block.Store
}

// NewStore wraps disk and blocks with the inode layer.
func NewStore(disk diskio.Disk, blocks *block.Store) *Store {
	return &Store{disk: disk, blocks: blocks}
}

// Blocks returns the underlying block store, for components (directory
// iteration, append) that need to allocate/free/read/write data blocks
// directly.
func (s *Store) Blocks() *block.Store {
	return s.blocks
}

func inodeOffset(id ID) int64 {
	return layout.InodeTableOffset + int64(id)*layout.InodeSize
}

func (s *Store) readBitmap() (*bitset.Set, error) {
	raw := make([]byte, layout.NumInodes/8)
	if err := s.disk.ReadAt(raw, layout.InodeBitmapOffset); err != nil {
		return nil, err
	}
	return bitset.Load(layout.NumInodes, raw), nil
}

func (s *Store) writeBitmap(bm *bitset.Set) error {
	return s.disk.WriteAt(bm.Bytes(), layout.InodeBitmapOffset)
}

// IsAllocated reports whether id is in range and currently allocated.
func (s *Store) IsAllocated(id ID) bool {
	if !IsValidID(id) {
		return false
	}
	bm, err := s.readBitmap()
	if err != nil {
		return false
	}
	return !bm.IsFree(int(id))
}

// Read loads the inode record at id. The caller must have already confirmed
// id is allocated; Read itself does not check.
func (s *Store) Read(id ID) (Inode, error) {
	buf := make([]byte, layout.InodeSize)
	if err := s.disk.ReadAt(buf, inodeOffset(id)); err != nil {
		return Inode{}, err
	}
	return decodeInode(buf), nil
}

// Write persists n at id.
func (s *Store) Write(id ID, n Inode) error {
	return s.disk.WriteAt(n.encode(), inodeOffset(id))
}

// IsDir reports whether id is an allocated directory inode.
func (s *Store) IsDir(id ID) bool {
	if !s.IsAllocated(id) {
		return false
	}
	n, err := s.Read(id)
	return err == nil && n.FileType == layout.Directory
}

// IsRegularFile reports whether id is an allocated regular-file inode.
func (s *Store) IsRegularFile(id ID) bool {
	if !s.IsAllocated(id) {
		return false
	}
	n, err := s.Read(id)
	return err == nil && n.FileType == layout.RegularFile
}

// NFreeInodes returns the superblock's free-inode counter.
func (s *Store) NFreeInodes() (int, error) {
	return s.blocks.NFreeInodes()
}

// Allocate clears the first free inode bit and returns its id. The caller
// must fully initialise every field before the inode is linked into any
// directory — Allocate leaves field contents stale, same as the C source.
func (s *Store) Allocate() (ID, error) {
	nFree, err := s.NFreeInodes()
	if err != nil {
		return 0, err
	}
	if nFree == 0 {
		return 0, errs.New(errs.NoSpaceInodes)
	}

	bm, err := s.readBitmap()
	if err != nil {
		return 0, err
	}
	id := bm.FirstFree()
	if id == -1 {
		return 0, errs.CorruptedDisk.WithMessage("superblock reports free inodes but bitmap has none")
	}
	bm.Allocate(id)
	if err := s.writeBitmap(bm); err != nil {
		return 0, err
	}
	if err := s.adjustFreeInodes(-1); err != nil {
		return 0, err
	}
	return ID(id), nil
}

// Free releases inode id. It does not free the blocks the inode owns —
// that's the teardown routine's job (see refcount.go).
func (s *Store) Free(id ID) error {
	if !IsValidID(id) {
		return errs.CorruptedDisk.WithMessage("invalid inode id")
	}
	bm, err := s.readBitmap()
	if err != nil {
		return err
	}
	if !bm.Free(int(id)) {
		return errs.CorruptedDisk.WithMessage("double free of inode")
	}
	if err := s.writeBitmap(bm); err != nil {
		return err
	}
	return s.adjustFreeInodes(1)
}

// adjustFreeInodes is the inode-side half of block.updateSuperblock: it
// reuses the block store's access to the shared superblock (both counters
// live in the same 12-byte record) rather than duplicating the bounds
// check.
func (s *Store) adjustFreeInodes(delta int32) error {
	return s.blocks.AdjustFreeInodes(delta)
}
