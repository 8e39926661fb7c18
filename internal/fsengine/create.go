package fsengine

import (
	"time"

	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/inode"
	"github.com/equocredite/minifs/internal/layout"
	"github.com/equocredite/minifs/internal/session"
)

// Mkdir is create_file(..., DIRECTORY).
func (e *Engine) Mkdir(sess *session.Session, target string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.createFileLocked(sess, target, layout.Directory)
	return err
}

// Touch is create_file(..., REGULAR_FILE).
func (e *Engine) Touch(sess *session.Session, target string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.createFileLocked(sess, target, layout.RegularFile)
	return err
}

// createFileLocked is create_file(): it validates that target's parent
// exists, is a directory, has room for one more entry, and that the
// filesystem has a free inode (and, for a directory, a free block for its
// "."/".." block), then allocates and links the new inode.
func (e *Engine) createFileLocked(sess *session.Session, target string, fileType layout.FileType) (inode.ID, error) {
	r := e.resolver(sess)
	if r.Exists(target) {
		return 0, errs.New(errs.AlreadyExists)
	}

	parentID, filename, err := r.SplitParent(target)
	if err != nil {
		return 0, err
	}
	if !e.inodes.IsDir(parentID) {
		return 0, errs.New(errs.NotADirectory)
	}

	parent, err := e.inodes.Read(parentID)
	if err != nil {
		return 0, err
	}
	if layout.MaxFileSize-int(parent.Size) < layout.EntrySize {
		return 0, errs.New(errs.DirectoryFull)
	}

	nFreeInodes, err := e.inodes.NFreeInodes()
	if err != nil {
		return 0, err
	}
	nFreeBlocks, err := e.blocks.NFreeBlocks()
	if err != nil {
		return 0, err
	}
	if nFreeInodes == 0 {
		return 0, errs.New(errs.NoSpaceInodes)
	}
	if fileType == layout.Directory && nFreeBlocks == 0 {
		return 0, errs.New(errs.NoSpaceBlocks)
	}

	now := time.Now()
	newID, err := e.inodes.Allocate()
	if err != nil {
		return 0, err
	}

	n := inode.Inode{
		FileType:     fileType,
		UserID:       sess.UserID,
		Created:      now,
		LastAccessed: now,
		LastModified: now,
		Direct:       inode.NewDirect(),
	}
	if fileType == layout.Directory {
		dirInode, err := e.inodes.InitDir(newID, parentID)
		if err != nil {
			return 0, err
		}
		n.Direct = dirInode.Direct
		n.Size = dirInode.Size
		// The directory's own "." entry is a permanent, self-counted link
		// for its entire lifetime; InitDir writes it directly rather than
		// through AddEntry, so the ref count starts at 1 here instead.
		n.RefCount = 1
	}
	if err := e.inodes.Write(newID, n); err != nil {
		return 0, err
	}

	if err := e.inodes.AddEntry(parentID, newID, filename); err != nil {
		return 0, err
	}
	return newID, nil
}
