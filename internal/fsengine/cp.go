package fsengine

import (
	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/layout"
	"github.com/equocredite/minifs/internal/session"
)

// Cp is copy(): it duplicates the bytes of an existing regular file at src
// into a freshly created regular file at dest.
func (e *Engine) Cp(sess *session.Session, src, dest string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.resolver(sess)
	srcID, err := r.Traverse(src)
	if err != nil {
		return err
	}
	if !e.inodes.IsRegularFile(srcID) {
		return errs.New(errs.NotARegularFile)
	}

	srcInode, err := e.inodes.Read(srcID)
	if err != nil {
		return err
	}
	if err := e.checkFreeBlocks(int(srcInode.Size)); err != nil {
		return err
	}

	content, err := e.inodes.ReadFile(srcID)
	if err != nil {
		return err
	}

	newID, err := e.createFileLocked(sess, dest, layout.RegularFile)
	if err != nil {
		return err
	}
	return e.inodes.AppendToFile(newID, content)
}

func (e *Engine) checkFreeBlocks(size int) error {
	nFree, err := e.blocks.NFreeBlocks()
	if err != nil {
		return err
	}
	if layout.BlocksNeeded(size) > nFree {
		return errs.New(errs.NoSpaceBlocks)
	}
	return nil
}
