package block

import (
	"github.com/equocredite/minifs/internal/bitset"
	"github.com/equocredite/minifs/internal/diskio"
	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/layout"
)

// Store is the block layer's handle on the disk: it owns the block bitmap
// and knows how to allocate, free, read, and write data blocks.
type Store struct {
	disk diskio.Disk
}

// NewStore wraps disk with the block layer. The image must already be
// formatted (see internal/mkfs).
func NewStore(disk diskio.Disk) *Store {
	return &Store{disk: disk}
}

func (s *Store) readBitmap() (*bitset.Set, error) {
	raw := make([]byte, layout.NumBlocks/8)
	if err := s.disk.ReadAt(raw, layout.BlockBitmapOffset); err != nil {
		return nil, err
	}
	return bitset.Load(layout.NumBlocks, raw), nil
}

func (s *Store) writeBitmap(bm *bitset.Set) error {
	return s.disk.WriteAt(bm.Bytes(), layout.BlockBitmapOffset)
}

// IsValidID reports whether id names an in-range data block.
func IsValidID(id int32) bool {
	return id >= 0 && id < layout.NumBlocks
}

// NFreeBlocks returns the superblock's free-block counter.
func (s *Store) NFreeBlocks() (int, error) {
	sb, err := readSuperblock(s.disk)
	if err != nil {
		return 0, err
	}
	return int(sb.NFreeBlocks), nil
}

// NFreeInodes returns the superblock's free-inode counter (the inode layer
// delegates its own copy of this to the same superblock).
func (s *Store) NFreeInodes() (int, error) {
	sb, err := readSuperblock(s.disk)
	if err != nil {
		return 0, err
	}
	return int(sb.NFreeInodes), nil
}

// Allocate finds the first free block, marks it allocated, 0xFF-fills it
// (matching the C source's memset(buf, -1, ...)), and returns its id.
func (s *Store) Allocate() (int32, error) {
	sb, err := readSuperblock(s.disk)
	if err != nil {
		return 0, err
	}
	if sb.NFreeBlocks == 0 {
		return 0, errs.New(errs.NoSpaceBlocks)
	}

	bm, err := s.readBitmap()
	if err != nil {
		return 0, err
	}
	id := bm.FirstFree()
	if id == -1 {
		return 0, errs.CorruptedDisk.WithMessage("superblock reports free blocks but bitmap has none")
	}
	bm.Allocate(id)
	if err := s.writeBitmap(bm); err != nil {
		return 0, err
	}
	if err := updateSuperblock(s.disk, -1, 0); err != nil {
		return 0, err
	}

	filler := make([]byte, layout.BlockSize)
	for i := range filler {
		filler[i] = 0xFF
	}
	if err := s.Write(int32(id), filler); err != nil {
		return 0, err
	}
	return int32(id), nil
}

// Free releases block id. Freeing an already-free or out-of-range block is
// corruption (spec's Open Question resolution), not a silent no-op.
func (s *Store) Free(id int32) error {
	if !IsValidID(id) {
		return errs.CorruptedDisk.WithMessage("invalid block id")
	}
	bm, err := s.readBitmap()
	if err != nil {
		return err
	}
	if !bm.Free(int(id)) {
		return errs.CorruptedDisk.WithMessage("double free of block")
	}
	if err := s.writeBitmap(bm); err != nil {
		return err
	}
	return updateSuperblock(s.disk, 1, 0)
}

// Read copies the contents of block id into buf, which must be exactly
// layout.BlockSize bytes.
func (s *Store) Read(id int32, buf []byte) error {
	if !IsValidID(id) {
		return errs.CorruptedDisk.WithMessage("invalid block id")
	}
	return s.disk.ReadAt(buf, layout.DataOffset+int64(id)*layout.BlockSize)
}

// Write overwrites block id with buf, which must be exactly layout.BlockSize
// bytes.
func (s *Store) Write(id int32, buf []byte) error {
	if !IsValidID(id) {
		return errs.CorruptedDisk.WithMessage("invalid block id")
	}
	return s.disk.WriteAt(buf, layout.DataOffset+int64(id)*layout.BlockSize)
}

// Disk exposes the underlying disk for components (the inode layer) that
// need raw positioned access alongside block-level access.
func (s *Store) Disk() diskio.Disk {
	return s.disk
}

// AdjustFreeInodes applies delta to the superblock's free-inode counter.
// The inode store calls this instead of touching the superblock directly,
// since the block store already owns the read-modify-write and the
// drift/corruption bounds check around it.
func (s *Store) AdjustFreeInodes(delta int32) error {
	return updateSuperblock(s.disk, 0, delta)
}
