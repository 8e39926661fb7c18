package fsengine

import (
	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/layout"
	"github.com/equocredite/minifs/internal/session"
)

// Rm is remove(): it unlinks target from its parent directory, tearing
// down the inode (recursively, if it's a directory) once its reference
// count reaches zero.
func (e *Engine) Rm(sess *session.Session, target string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rmLocked(sess, target)
}

func (e *Engine) rmLocked(sess *session.Session, target string) error {
	r := e.resolver(sess)
	parentID, filename, err := r.SplitParent(target)
	if err != nil {
		return err
	}

	fileID, err := e.inodes.Lookup(parentID, filename, sess.UserID)
	if err != nil {
		return err
	}
	if fileID == layout.RootInodeID {
		return errs.New(errs.RefuseRoot)
	}
	isDir := e.inodes.IsDir(fileID)
	if err := e.inodes.RemoveEntry(parentID, fileID); err != nil {
		return err
	}
	if isDir {
		// Once its name is gone from the parent, a directory's own "." entry
		// is its last link; dropping it triggers the recursive teardown.
		return e.inodes.DecrementRefCount(fileID)
	}
	return nil
}
