// Package fsengine implements the filesystem verbs (spec §5): cd, ls,
// mkdir, touch, rm, mv, cp, cat, pwd. Every verb is grounded on its
// counterpart in src/interface.c, translated from the single-process
// reader/writer-lock-plus-nested-flag pattern into a locked public method
// calling an unexported, already-locked routine — the redesign the original
// author's own comments flag as "a crutch" worth removing.
package fsengine

import (
	"sync"

	"github.com/equocredite/minifs/internal/block"
	"github.com/equocredite/minifs/internal/diskio"
	"github.com/equocredite/minifs/internal/inode"
	"github.com/equocredite/minifs/internal/path"
	"github.com/equocredite/minifs/internal/session"
)

// Engine is the single, disk-wide filesystem state shared by every
// connected client. All structural mutation goes through one
// sync.RWMutex: reads (cd's destination check, ls, cat, pwd, cp --to-local)
// take RLock, mutations take Lock.
type Engine struct {
	mu     sync.RWMutex
	blocks *block.Store
	inodes *inode.Store
}

// Open wraps disk with a ready-to-use Engine. The image must already be
// formatted (see internal/mkfs).
func Open(disk diskio.Disk) *Engine {
	blocks := block.NewStore(disk)
	inodes := inode.NewStore(disk, blocks)
	return &Engine{blocks: blocks, inodes: inodes}
}

// resolver builds a path.Resolver scoped to sess's identity and current
// directory. Callers must already hold e.mu.
func (e *Engine) resolver(sess *session.Session) path.Resolver {
	return path.Resolver{Inodes: e.inodes, WorkID: sess.WorkDir, UserID: sess.UserID}
}

// NFreeBlocks and NFreeInodes report live capacity under the read lock.
// The verbs' own pre-flight checks read the counters through e.blocks and
// e.inodes instead, since they already hold e.mu.
func (e *Engine) NFreeBlocks() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.blocks.NFreeBlocks()
}

func (e *Engine) NFreeInodes() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.blocks.NFreeInodes()
}
