// Package session holds per-connection state for the MiniFS daemon: the
// user id presented at connect time and the inode of the connection's
// current working directory. Each TCP client gets its own Session; all
// Sessions share one fsengine.Engine and its single lock.
package session

import (
	"github.com/equocredite/minifs/internal/inode"
	"github.com/equocredite/minifs/internal/layout"
)

// Session is one connected client's state. There is no "nested" flag here
// — unlike the original single-process implementation, verbs that need to
// call another verb's logic do so through an unexported, already-locked
// entry point instead of re-entering a locked one under a reentrancy flag.
type Session struct {
	UserID  int32
	WorkDir inode.ID
}

// New starts a session rooted at the filesystem root, the same starting
// point every connecting client gets.
func New(userID int32) *Session {
	return &Session{UserID: userID, WorkDir: layout.RootInodeID}
}
