package fsengine

import (
	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/inode"
	"github.com/equocredite/minifs/internal/session"
)

// Cd is change_dir(): it resolves target and, if it names a directory
// visible to sess, moves sess's working directory there and returns the
// new absolute working path.
func (e *Engine) Cd(sess *session.Session, target string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	destID, err := e.resolver(sess).Traverse(target)
	if err != nil {
		return "", err
	}
	if !e.inodes.IsDir(destID) {
		return "", errs.New(errs.NotADirectory)
	}
	sess.WorkDir = destID
	return e.pwdLocked(sess)
}

// resolveDir is a small shared helper: resolve path and confirm it names a
// directory, defaulting to sess's working directory when path is empty.
func (e *Engine) resolveDir(sess *session.Session, p string) (inode.ID, error) {
	if p == "" {
		return sess.WorkDir, nil
	}
	id, err := e.resolver(sess).Traverse(p)
	if err != nil {
		return 0, err
	}
	if !e.inodes.IsDir(id) {
		return 0, errs.New(errs.NotADirectory)
	}
	return id, nil
}
