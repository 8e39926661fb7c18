package fsengine

import (
	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/layout"
	"github.com/equocredite/minifs/internal/session"
)

// PrecheckWrite reports whether an incoming file of size bytes would fit,
// before the daemon reads a single byte of it off the wire — the daemon
// calls this right after the client announces its size header, mirroring
// the original's ordering of "validate, then stream" for --from-local.
func (e *Engine) PrecheckWrite(size int) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if size > layout.MaxFileSize {
		return errs.New(errs.FileTooBig)
	}
	return e.checkFreeBlocks(size)
}

// CpFromLocal is copy_from_local(): it creates a new regular file at dest
// and fills it with content, which the daemon has already received off the
// wire in full. Callers are expected to have validated the size with
// PrecheckWrite before reading the content off the wire.
func (e *Engine) CpFromLocal(sess *session.Session, dest string, content []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	newID, err := e.createFileLocked(sess, dest, layout.RegularFile)
	if err != nil {
		return err
	}
	return e.inodes.AppendToFile(newID, content)
}

// CpToLocal is copy_to_local(): it returns the full content of the regular
// file at src for the daemon to stream back to the client.
func (e *Engine) CpToLocal(sess *session.Session, src string) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	srcID, err := e.resolver(sess).Traverse(src)
	if err != nil {
		return nil, err
	}
	if !e.inodes.IsRegularFile(srcID) {
		return nil, errs.New(errs.NotARegularFile)
	}
	return e.inodes.ReadFile(srcID)
}

// Cat is print_contents(): it returns the full content of the regular file
// at target.
func (e *Engine) Cat(sess *session.Session, target string) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	id, err := e.resolver(sess).Traverse(target)
	if err != nil {
		return nil, err
	}
	if !e.inodes.IsRegularFile(id) {
		return nil, errs.New(errs.NotARegularFile)
	}
	return e.inodes.ReadFile(id)
}
