package inode

import (
	"bytes"
	"encoding/binary"

	"github.com/equocredite/minifs/internal/block"
	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/layout"
)

// entry is one raw directory entry: a 4-byte inode id and a fixed-width
// filename field. An entry whose InodeID is out of range is an unoccupied
// slot, the same convention go() and add_file_to_dir use in the C source.
type entry struct {
	InodeID  int32
	Filename string
}

func (e entry) encode() []byte {
	buf := make([]byte, layout.EntrySize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(e.InodeID))
	copy(buf[4:4+layout.FilenameLen], e.Filename)
	return buf
}

func decodeEntry(buf []byte) entry {
	id := int32(binary.LittleEndian.Uint32(buf[0:4]))
	name := buf[4 : 4+layout.FilenameLen]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return entry{InodeID: id, Filename: string(name)}
}

func entrySlotFree(id int32) bool {
	return !IsValidID(id)
}

// forEachSlot walks every entry slot across a directory inode's allocated
// blocks, in block-then-offset order, calling visit with the block id, the
// entry, and a function to overwrite that slot in place. visit returns
// stop=true to end the walk early.
func (s *Store) forEachSlot(dirID ID, visit func(blockID int32, e entry, put func(entry) error) (stop bool, err error)) error {
	n, err := s.Read(dirID)
	if err != nil {
		return err
	}
	blockBuf := make([]byte, layout.BlockSize)
	for _, blockID := range n.Direct {
		if !block.IsValidID(blockID) {
			continue
		}
		if err := s.blocks.Read(blockID, blockBuf); err != nil {
			return err
		}
		for slot := 0; slot < layout.EntriesPerBlock; slot++ {
			off := slot * layout.EntrySize
			e := decodeEntry(blockBuf[off : off+layout.EntrySize])
			bID := blockID
			put := func(newE entry) error {
				copy(blockBuf[off:off+layout.EntrySize], newE.encode())
				return s.blocks.Write(bID, blockBuf)
			}
			stop, err := visit(blockID, e, put)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
	return nil
}

// DirEntry is the public view of one occupied directory slot.
type DirEntry struct {
	InodeID  ID
	Filename string
}

// ListEntries returns every occupied slot in dirID that userID may see, in
// on-disk order (block, then slot within block) — the same order
// list_entries() walks in the C source, with the same per-entry ownership
// check Lookup applies (spec's permission model: an entry pointing at an
// inode owned by a uid other than 0 or the caller does not show up, even in
// its own directory's listing).
func (s *Store) ListEntries(dirID ID, userID int32) ([]DirEntry, error) {
	var entries []DirEntry
	err := s.forEachSlot(dirID, func(_ int32, e entry, _ func(entry) error) (bool, error) {
		if !entrySlotFree(e.InodeID) && s.checkUserID(e.InodeID, userID) {
			entries = append(entries, DirEntry{InodeID: e.InodeID, Filename: e.Filename})
		}
		return false, nil
	})
	return entries, err
}

// ListAllEntries returns every occupied slot in dirID with no ownership
// filtering, for Check's integrity walk: a corrupted or cross-user entry
// must still be seen and accounted for, not hidden the way a user-facing
// listing hides it.
func (s *Store) ListAllEntries(dirID ID) ([]DirEntry, error) {
	var entries []DirEntry
	err := s.forEachSlot(dirID, func(_ int32, e entry, _ func(entry) error) (bool, error) {
		if !entrySlotFree(e.InodeID) {
			entries = append(entries, DirEntry{InodeID: e.InodeID, Filename: e.Filename})
		}
		return false, nil
	})
	return entries, err
}

// Lookup is go(): it resolves filename inside dirID, enforcing that the
// caller's effective user id may see the target (spec's permission model —
// an inode owned by a uid other than 0 or the caller is invisible, not just
// unwritable).
func (s *Store) Lookup(dirID ID, filename string, userID int32) (ID, error) {
	if !s.IsDir(dirID) {
		return 0, errs.New(errs.NotADirectory)
	}
	var found ID = -1
	err := s.forEachSlot(dirID, func(_ int32, e entry, _ func(entry) error) (bool, error) {
		if !entrySlotFree(e.InodeID) && e.Filename == filename {
			found = e.InodeID
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return 0, err
	}
	if found == -1 {
		return 0, errs.New(errs.NoSuchPath)
	}
	if !s.checkUserID(found, userID) {
		return 0, errs.New(errs.NoSuchPath)
	}
	return found, nil
}

// checkUserID is check_user_id(): inode 0 (root-owned) is visible to
// everyone, otherwise the inode must belong to userID.
func (s *Store) checkUserID(id ID, userID int32) bool {
	n, err := s.Read(id)
	if err != nil {
		return false
	}
	return n.UserID == 0 || n.UserID == userID
}

// AddEntry is add_file_to_dir(): it writes a new entry into the first free
// slot across dirID's allocated blocks, allocating a fresh block when every
// existing one is full. It bumps fileID's reference count unless filename
// is "..", which — per the ref-count invariant — is never itself counted
// as a live link (only "." and ordinary names are).
func (s *Store) AddEntry(dirID, fileID ID, filename string) error {
	countsTowardRefs := filename != ".."
	if countsTowardRefs {
		if err := s.IncrementRefCount(fileID); err != nil {
			return err
		}
	}

	n, err := s.Read(dirID)
	if err != nil {
		return err
	}

	newEntry := entry{InodeID: fileID, Filename: filename}
	blockBuf := make([]byte, layout.BlockSize)
	for i, blockID := range n.Direct {
		if !block.IsValidID(blockID) {
			newID, err := s.blocks.Allocate()
			if err != nil {
				if countsTowardRefs {
					_ = s.DecrementRefCount(fileID)
				}
				return err
			}
			n.Direct[i] = newID
			blockID = newID
		}
		if err := s.blocks.Read(blockID, blockBuf); err != nil {
			return err
		}
		for slot := 0; slot < layout.EntriesPerBlock; slot++ {
			off := slot * layout.EntrySize
			e := decodeEntry(blockBuf[off : off+layout.EntrySize])
			if entrySlotFree(e.InodeID) {
				copy(blockBuf[off:off+layout.EntrySize], newEntry.encode())
				if err := s.blocks.Write(blockID, blockBuf); err != nil {
					return err
				}
				n.Size += layout.EntrySize
				return s.Write(dirID, n)
			}
		}
	}

	if countsTowardRefs {
		_ = s.DecrementRefCount(fileID)
	}
	return errs.New(errs.DirectoryFull)
}

// RemoveEntry is remove_file_from_dir(): it blanks the slot naming fileID
// and drops its reference count, unless the removed slot's filename is
// ".." — the only name that never carries a reference of its own.
func (s *Store) RemoveEntry(dirID, fileID ID) error {
	done := false
	var removedName string
	err := s.forEachSlot(dirID, func(_ int32, e entry, put func(entry) error) (bool, error) {
		if e.InodeID != fileID {
			return false, nil
		}
		removedName = e.Filename
		if err := put(entry{InodeID: -1}); err != nil {
			return true, err
		}
		done = true
		return true, nil
	})
	if err != nil {
		return err
	}
	if !done {
		return errs.New(errs.NoSuchPath)
	}

	n, err := s.Read(dirID)
	if err != nil {
		return err
	}
	n.Size -= layout.EntrySize
	if err := s.Write(dirID, n); err != nil {
		return err
	}

	if removedName == ".." {
		return nil
	}
	return s.DecrementRefCount(fileID)
}

// RenameEntry is rename_file_in_dir(): it rewrites the filename field of
// the slot matching oldName, in place.
func (s *Store) RenameEntry(dirID ID, oldName, newName string) error {
	done := false
	err := s.forEachSlot(dirID, func(_ int32, e entry, put func(entry) error) (bool, error) {
		if e.Filename != oldName || entrySlotFree(e.InodeID) {
			return false, nil
		}
		if err := put(entry{InodeID: e.InodeID, Filename: newName}); err != nil {
			return true, err
		}
		done = true
		return true, nil
	})
	if err != nil {
		return err
	}
	if !done {
		return errs.New(errs.NoSuchPath)
	}
	return nil
}

// FilenameOf is get_filename_by_inode(): the inverse of Lookup, used by pwd
// to walk back up from a working directory to its name in its parent.
func (s *Store) FilenameOf(dirID, fileID ID) (string, error) {
	var name string
	found := false
	err := s.forEachSlot(dirID, func(_ int32, e entry, _ func(entry) error) (bool, error) {
		if e.InodeID == fileID {
			name = e.Filename
			found = true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", errs.New(errs.NoSuchPath)
	}
	return name, nil
}

// InitDir is init_dir(): it allocates the directory's first data block and
// seeds it with "." pointing at id and ".." pointing at parentID.
func (s *Store) InitDir(id, parentID ID) (Inode, error) {
	blockID, err := s.blocks.Allocate()
	if err != nil {
		return Inode{}, err
	}

	n := Inode{
		FileType: layout.Directory,
		Size:     2 * layout.EntrySize,
		Direct:   NewDirect(),
	}
	n.Direct[0] = blockID

	buf := make([]byte, layout.BlockSize)
	copy(buf[0:layout.EntrySize], entry{InodeID: id, Filename: "."}.encode())
	copy(buf[layout.EntrySize:2*layout.EntrySize], entry{InodeID: parentID, Filename: ".."}.encode())
	if err := s.blocks.Write(blockID, buf); err != nil {
		return Inode{}, err
	}
	return n, nil
}
