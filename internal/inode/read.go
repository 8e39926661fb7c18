package inode

import (
	"github.com/equocredite/minifs/internal/layout"
)

// ReadFile returns the full content of the regular file at id, reading its
// direct blocks in order and trimming the final block down to n.Size — the
// same chunking print_contents()/copy_to_local() do when streaming over
// the wire, collapsed here into one buffer since the engine layer doesn't
// need to stream internally.
func (s *Store) ReadFile(id ID) ([]byte, error) {
	n, err := s.Read(id)
	if err != nil {
		return nil, err
	}
	content := make([]byte, 0, n.Size)
	remaining := int(n.Size)
	buf := make([]byte, layout.BlockSize)
	for _, blockID := range n.Direct {
		if remaining <= 0 {
			break
		}
		if err := s.blocks.Read(blockID, buf); err != nil {
			return nil, err
		}
		chunk := remaining
		if chunk > layout.BlockSize {
			chunk = layout.BlockSize
		}
		content = append(content, buf[:chunk]...)
		remaining -= chunk
	}
	return content, nil
}
