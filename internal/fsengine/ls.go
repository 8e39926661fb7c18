package fsengine

import (
	"github.com/equocredite/minifs/internal/session"
)

// Ls is list_entries(): it lists the names in target (or sess's working
// directory, if target is empty), skipping dotfiles unless all is set.
func (e *Engine) Ls(sess *session.Session, target string, all bool) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	dirID, err := e.resolveDir(sess, target)
	if err != nil {
		return nil, err
	}

	entries, err := e.inodes.ListEntries(dirID, sess.UserID)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, ent := range entries {
		if !all && len(ent.Filename) > 0 && ent.Filename[0] == '.' {
			continue
		}
		names = append(names, ent.Filename)
	}
	return names, nil
}
