package fsengine

import (
	"strings"

	"github.com/equocredite/minifs/internal/layout"
	"github.com/equocredite/minifs/internal/session"
)

// Pwd is print_work_path(): it climbs from sess's working directory up to
// the root, collecting each step's name from its parent via FilenameOf,
// then joins them front-to-back. The result is always newline-terminated
// by the caller at the protocol layer, never here.
func (e *Engine) Pwd(sess *session.Session) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pwdLocked(sess)
}

func (e *Engine) pwdLocked(sess *session.Session) (string, error) {
	if sess.WorkDir == layout.RootInodeID {
		return "/", nil
	}

	var components []string
	cur := sess.WorkDir
	for cur != layout.RootInodeID {
		parentID, err := e.inodes.Lookup(cur, "..", sess.UserID)
		if err != nil {
			return "", err
		}
		name, err := e.inodes.FilenameOf(parentID, cur)
		if err != nil {
			return "", err
		}
		components = append(components, name)
		cur = parentID
	}

	for i, j := 0, len(components)-1; i < j; i, j = i+1, j-1 {
		components[i], components[j] = components[j], components[i]
	}
	return "/" + strings.Join(components, "/"), nil
}
