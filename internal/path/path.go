// Package path resolves MiniFS paths against the inode tree — tokenizing
// on "/" the way strtok_r does in str_util.c's split_str (consecutive and
// trailing separators collapse, producing no empty components) and walking
// inode.Store.Lookup one component at a time, grounded on traverse() and
// traverse_from() in src/inode.c.
package path

import (
	"strings"

	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/inode"
	"github.com/equocredite/minifs/internal/layout"
)

// Split tokenizes a path string on "/", dropping empty components the same
// way strtok_r does for consecutive or leading/trailing slashes.
func Split(pathStr string) []string {
	parts := strings.Split(pathStr, "/")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// IsAbsolute reports whether pathStr starts at the root rather than the
// caller's working directory.
func IsAbsolute(pathStr string) bool {
	return strings.HasPrefix(pathStr, "/")
}

// Resolver walks a path against a fixed inode tree and a fixed caller
// identity, mirroring the C source's module-level work_inode_id/user_id
// globals without relying on package-level state.
type Resolver struct {
	Inodes *inode.Store
	WorkID inode.ID
	UserID int32
}

// TraverseFrom is traverse_from(): it walks tokens one at a time starting
// at startID, resolving each through the inode store's directory lookup.
func (r Resolver) TraverseFrom(startID inode.ID, tokens []string) (inode.ID, error) {
	id := startID
	for _, tok := range tokens {
		next, err := r.Inodes.Lookup(id, tok, r.UserID)
		if err != nil {
			return 0, err
		}
		id = next
	}
	return id, nil
}

// Traverse is traverse(): it resolves pathStr from the root if it's
// absolute, or from the resolver's working directory otherwise.
func (r Resolver) Traverse(pathStr string) (inode.ID, error) {
	start := r.WorkID
	if IsAbsolute(pathStr) {
		start = layout.RootInodeID
	}
	return r.TraverseFrom(start, Split(pathStr))
}

// Exists reports whether pathStr names something reachable, without
// surfacing the specific resolution error.
func (r Resolver) Exists(pathStr string) bool {
	_, err := r.Traverse(pathStr)
	return err == nil
}

// SplitParent is get_parent_and_filename(): it resolves pathStr's parent
// directory and final path component, so callers (mkdir, touch, rm, mv,
// cp) can operate on "the directory entry named X inside directory Y"
// without re-walking the path themselves. A path that resolves to the
// root is reported as living inside itself under the name ".", matching
// the C source's special case.
func (r Resolver) SplitParent(pathStr string) (parent inode.ID, filename string, err error) {
	target, resolveErr := r.Traverse(pathStr)
	if resolveErr == nil && target == layout.RootInodeID {
		return layout.RootInodeID, ".", nil
	}

	tokens := Split(pathStr)
	if len(tokens) == 0 {
		return 0, "", errs.New(errs.NoSuchPath)
	}

	start := r.WorkID
	if IsAbsolute(pathStr) {
		start = layout.RootInodeID
	}
	parent, err = r.TraverseFrom(start, tokens[:len(tokens)-1])
	if err != nil {
		return 0, "", err
	}
	return parent, tokens[len(tokens)-1], nil
}
