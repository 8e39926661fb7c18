package fsengine

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/equocredite/minifs/internal/layout"
)

// Check walks the entire image and reports every structural-invariant
// violation it finds, rather than stopping at the first one — useful for
// test fixtures and for a diagnostic command an operator can run against a
// suspect image. It never mutates the disk.
func (e *Engine) Check() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var result *multierror.Error

	nFreeBlocks, err := e.blocks.NFreeBlocks()
	if err != nil {
		return err
	}
	nFreeInodes, err := e.inodes.NFreeInodes()
	if err != nil {
		return err
	}

	ownerOfBlock := make(map[int32]int32)
	expectedRefCount := make(map[int32]int32)
	blockUsed := 0
	inodeUsed := 0

	for id := int32(0); id < layout.NumInodes; id++ {
		if !e.inodes.IsAllocated(id) {
			continue
		}
		inodeUsed++

		n, err := e.inodes.Read(id)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("inode %d: %w", id, err))
			continue
		}

		for _, blockID := range n.Direct {
			if blockID == -1 {
				continue
			}
			if blockID < 0 || blockID >= layout.NumBlocks {
				result = multierror.Append(result, fmt.Errorf("inode %d: direct pointer out of range: %d", id, blockID))
				continue
			}
			if owner, ok := ownerOfBlock[blockID]; ok {
				result = multierror.Append(result, fmt.Errorf("block %d claimed by both inode %d and inode %d", blockID, owner, id))
				continue
			}
			ownerOfBlock[blockID] = id
			blockUsed++
		}

		if n.FileType != layout.Directory {
			continue
		}
		entries, err := e.inodes.ListAllEntries(id)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("inode %d: %w", id, err))
			continue
		}
		for _, ent := range entries {
			if !e.inodes.IsAllocated(ent.InodeID) {
				if ent.Filename != ".." {
					result = multierror.Append(result, fmt.Errorf("inode %d: entry %q names unallocated inode %d", id, ent.Filename, ent.InodeID))
				}
				continue
			}
			// "." counts as a live link to its own directory; ".." never
			// counts, per the ref-count invariant (spec §8, property 3).
			if ent.Filename != ".." {
				expectedRefCount[ent.InodeID]++
			}
		}
	}

	for id := int32(0); id < layout.NumInodes; id++ {
		if !e.inodes.IsAllocated(id) {
			continue
		}
		n, err := e.inodes.Read(id)
		if err != nil {
			continue
		}
		if n.RefCount != expectedRefCount[id] {
			result = multierror.Append(result, fmt.Errorf("inode %d: ref_count %d, expected %d from live directory entries", id, n.RefCount, expectedRefCount[id]))
		}
	}

	if blockUsed+nFreeBlocks != layout.NumBlocks {
		result = multierror.Append(result, fmt.Errorf("block accounting mismatch: %d used + %d free != %d total", blockUsed, nFreeBlocks, layout.NumBlocks))
	}
	if inodeUsed+nFreeInodes != layout.NumInodes {
		result = multierror.Append(result, fmt.Errorf("inode accounting mismatch: %d used + %d free != %d total", inodeUsed, nFreeInodes, layout.NumInodes))
	}

	return result.ErrorOrNil()
}
