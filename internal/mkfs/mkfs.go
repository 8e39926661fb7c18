// Package mkfs formats a fresh MiniFS image and validates an existing one
// at mount time, grounded on the teacher's file_systems/unixv1/format.go
// (sequential header writes via bytewriter.New over a pre-sized buffer)
// and on mkfs's responsibilities in src/main.c (format-if-missing, then
// seed the root directory).
package mkfs

import (
	"encoding/binary"
	"time"

	"github.com/noxer/bytewriter"

	"github.com/equocredite/minifs/internal/block"
	"github.com/equocredite/minifs/internal/diskio"
	"github.com/equocredite/minifs/internal/inode"
	"github.com/equocredite/minifs/internal/layout"
)

// Format writes a brand new, empty MiniFS layout to disk: magic number,
// both bitmaps entirely free, a zeroed inode table — then creates the root
// directory, whose "." and ".." both point back at inode 0.
func Format(disk diskio.Disk) error {
	header := make([]byte, layout.InodeTableOffset+layout.InodeSize*layout.NumInodes)
	w := bytewriter.New(header)

	if err := binary.Write(w, binary.LittleEndian, int32(layout.Magic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(layout.NumBlocks)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(layout.NumInodes)); err != nil {
		return err
	}
	if _, err := w.Write(make([]byte, layout.BlockSize-12)); err != nil {
		return err
	}

	// Each bitmap fills a whole block; the bits past NumBlocks/NumInodes are
	// never consulted and stay 1 (free) like the meaningful ones.
	freeBitmap := make([]byte, layout.BlockSize)
	for i := range freeBitmap {
		freeBitmap[i] = 0xFF
	}
	if _, err := w.Write(freeBitmap); err != nil {
		return err
	}

	freeInodeBitmap := make([]byte, layout.BlockSize)
	for i := range freeInodeBitmap {
		freeInodeBitmap[i] = 0xFF
	}
	if _, err := w.Write(freeInodeBitmap); err != nil {
		return err
	}

	// The inode table itself is left zeroed; every slot is unallocated
	// until the root directory below claims the first one.

	if err := disk.WriteAt(header, 0); err != nil {
		return err
	}

	filler := make([]byte, layout.BlockSize)
	for i := range filler {
		filler[i] = 0xFF
	}
	for id := int32(0); id < layout.NumBlocks; id++ {
		if err := disk.WriteAt(filler, layout.DataOffset+int64(id)*layout.BlockSize); err != nil {
			return err
		}
	}

	return createRoot(disk)
}

func createRoot(disk diskio.Disk) error {
	blocks := block.NewStore(disk)
	inodes := inode.NewStore(disk, blocks)

	rootID, err := inodes.Allocate()
	if err != nil {
		return err
	}

	dirInode, err := inodes.InitDir(rootID, rootID)
	if err != nil {
		return err
	}
	now := time.Now()
	dirInode.UserID = 0
	dirInode.Created = now
	dirInode.LastAccessed = now
	dirInode.LastModified = now
	// The root's only incoming link is its own "." entry; nothing ever adds
	// a named entry for the root elsewhere, so its ref count starts at 1
	// and stays there for the life of the image.
	dirInode.RefCount = 1
	return inodes.Write(rootID, dirInode)
}

// Validate checks that disk already holds a well-formed MiniFS image,
// returning the fatal corrupted-disk error if the magic number doesn't
// match.
func Validate(disk diskio.Disk) error {
	_, err := block.ReadSuperblock(disk)
	return err
}
