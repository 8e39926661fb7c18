package fsengine

import (
	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/layout"
	"github.com/equocredite/minifs/internal/session"
)

// Mv is move(): a same-directory move is a pure rename; a cross-directory
// move relinks the entry into the destination directory and, if the moved
// inode is itself a directory, rewrites its ".." entry to point at the new
// parent.
func (e *Engine) Mv(sess *session.Session, src, dest string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.resolver(sess)
	srcID, err := r.Traverse(src)
	if err != nil {
		return err
	}
	if srcID == layout.RootInodeID {
		return errs.New(errs.RefuseRoot)
	}
	if r.Exists(dest) {
		return errs.New(errs.AlreadyExists)
	}

	srcParentID, srcName, err := r.SplitParent(src)
	if err != nil {
		return err
	}
	destParentID, destName, err := r.SplitParent(dest)
	if err != nil {
		return err
	}

	if srcParentID == destParentID {
		return e.inodes.RenameEntry(srcParentID, srcName, destName)
	}

	if !e.inodes.IsDir(destParentID) {
		return errs.New(errs.NotADirectory)
	}
	destParent, err := e.inodes.Read(destParentID)
	if err != nil {
		return err
	}
	if layout.MaxFileSize-int(destParent.Size) < layout.EntrySize {
		return errs.New(errs.DirectoryFull)
	}

	if err := e.inodes.AddEntry(destParentID, srcID, destName); err != nil {
		return err
	}
	if err := e.inodes.RemoveEntry(srcParentID, srcID); err != nil {
		return err
	}
	if e.inodes.IsDir(srcID) {
		if err := e.inodes.RemoveEntry(srcID, srcParentID); err != nil {
			return err
		}
		if err := e.inodes.AddEntry(srcID, destParentID, ".."); err != nil {
			return err
		}
	}
	return nil
}
