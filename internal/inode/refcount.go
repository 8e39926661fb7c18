package inode

import (
	"github.com/equocredite/minifs/internal/block"
	"github.com/equocredite/minifs/internal/layout"
)

// IncrementRefCount is increment_ref_count().
func (s *Store) IncrementRefCount(id ID) error {
	n, err := s.Read(id)
	if err != nil {
		return err
	}
	n.RefCount++
	return s.Write(id, n)
}

// DecrementRefCount is decrement_ref_count(): it tears the inode down once
// its reference count reaches zero.
func (s *Store) DecrementRefCount(id ID) error {
	n, err := s.Read(id)
	if err != nil {
		return err
	}
	n.RefCount--
	if n.RefCount == 0 {
		return s.RemoveInode(id)
	}
	return s.Write(id, n)
}

// RemoveInode is remove_inode(): it dispatches to the regular-file or
// directory teardown routine depending on the inode's type.
func (s *Store) RemoveInode(id ID) error {
	if s.IsRegularFile(id) {
		return s.removeInodeRegular(id)
	}
	if s.IsDir(id) {
		return s.removeInodeDir(id)
	}
	return nil
}

// removeInodeRegular is remove_inode_regular(): it frees every block the
// file owns, then the inode slot itself.
func (s *Store) removeInodeRegular(id ID) error {
	n, err := s.Read(id)
	if err != nil {
		return err
	}
	for _, blockID := range n.Direct {
		if !block.IsValidID(blockID) {
			break
		}
		if err := s.blocks.Free(blockID); err != nil {
			return err
		}
	}
	return s.Free(id)
}

// removeInodeDir is remove_inode_dir(): it recursively tears down every
// child entry other than "." and "..", frees the directory's own data
// blocks, then the inode slot.
func (s *Store) removeInodeDir(id ID) error {
	n, err := s.Read(id)
	if err != nil {
		return err
	}

	data := make([]byte, layout.BlockSize)
	for _, blockID := range n.Direct {
		if !block.IsValidID(blockID) {
			break
		}
		if err := s.blocks.Read(blockID, data); err != nil {
			return err
		}
		for slot := 0; slot < layout.EntriesPerBlock; slot++ {
			off := slot * layout.EntrySize
			e := decodeEntry(data[off : off+layout.EntrySize])
			if e.Filename == "." || e.Filename == ".." {
				continue
			}
			if !entrySlotFree(e.InodeID) {
				if err := s.RemoveInode(e.InodeID); err != nil {
					return err
				}
			}
		}
		if err := s.blocks.Free(blockID); err != nil {
			return err
		}
	}
	return s.Free(id)
}
