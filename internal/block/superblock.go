// Package block is MiniFS's block layer (spec §4.3): the superblock, the
// block bitmap, and the allocator over it, grounded on the teacher's
// drivers/common/blockmanager.go (itself a go-bitmap allocator over a
// BlockStream) and on src/block.c for the exact free-count bookkeeping.
package block

import (
	"encoding/binary"

	"github.com/equocredite/minifs/internal/diskio"
	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/layout"
)

// Superblock is the magic number plus the two free-space counters (spec §3).
type Superblock struct {
	Magic       int32
	NFreeBlocks int32
	NFreeInodes int32
}

const superblockEncodedSize = 12

func (sb Superblock) encode() []byte {
	buf := make([]byte, superblockEncodedSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(sb.Magic))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(sb.NFreeBlocks))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(sb.NFreeInodes))
	return buf
}

func decodeSuperblock(buf []byte) Superblock {
	return Superblock{
		Magic:       int32(binary.LittleEndian.Uint32(buf[0:4])),
		NFreeBlocks: int32(binary.LittleEndian.Uint32(buf[4:8])),
		NFreeInodes: int32(binary.LittleEndian.Uint32(buf[8:12])),
	}
}

func readSuperblock(d diskio.Disk) (Superblock, error) {
	buf := make([]byte, superblockEncodedSize)
	if err := d.ReadAt(buf, layout.SuperblockOffset); err != nil {
		return Superblock{}, err
	}
	return decodeSuperblock(buf), nil
}

func writeSuperblock(d diskio.Disk, sb Superblock) error {
	return d.WriteAt(sb.encode(), layout.SuperblockOffset)
}

// ReadSuperblock reads and validates the superblock's magic number,
// returning errs.CorruptedDisk if it doesn't match — the fatal "corrupted
// image" case from spec §7, checked once at mount time.
func ReadSuperblock(d diskio.Disk) (Superblock, error) {
	sb, err := readSuperblock(d)
	if err != nil {
		return Superblock{}, err
	}
	if sb.Magic != layout.Magic {
		return Superblock{}, errs.New(errs.CorruptedDisk)
	}
	return sb, nil
}

// WriteFreshSuperblock writes a brand new superblock declaring every block
// and inode free. Used only by internal/mkfs when formatting an image.
func WriteFreshSuperblock(d diskio.Disk) error {
	return writeSuperblock(d, Superblock{
		Magic:       layout.Magic,
		NFreeBlocks: layout.NumBlocks,
		NFreeInodes: layout.NumInodes,
	})
}

// updateSuperblock applies deltaBlocks/deltaInodes to the free counters.
// Callers are expected to have already checked for ordinary exhaustion (no
// free blocks/inodes left); a range violation reaching this far means the
// counters and the bitmaps have drifted apart, which is corruption, not a
// capacity error — the same atomic-at-one-operation contract as
// update_superblock in the C source.
func updateSuperblock(d diskio.Disk, deltaBlocks, deltaInodes int32) error {
	sb, err := readSuperblock(d)
	if err != nil {
		return err
	}
	newBlocks := sb.NFreeBlocks + deltaBlocks
	newInodes := sb.NFreeInodes + deltaInodes
	if newBlocks < 0 || newBlocks > layout.NumBlocks || newInodes < 0 || newInodes > layout.NumInodes {
		return errs.CorruptedDisk.WithMessage("superblock free counters out of range")
	}
	sb.NFreeBlocks = newBlocks
	sb.NFreeInodes = newInodes
	return writeSuperblock(d, sb)
}
