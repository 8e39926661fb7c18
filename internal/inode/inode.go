// Package inode is MiniFS's inode layer (spec §4.4): the inode bitmap and
// table, directory-entry manipulation, reference counting with cascading
// teardown, and append — grounded on src/inode.c for exact semantics and on
// the teacher's file_systems/unixv6/dirents.go for the shape of a raw,
// byte-encoded inode record living inside a packed table.
package inode

import (
	"encoding/binary"
	"time"

	"github.com/equocredite/minifs/internal/layout"
)

// ID names an inode slot in the inode table.
type ID = int32

// Inode is the in-memory form of a MiniFS inode record (spec §3). Unused
// Direct slots hold -1, an out-of-range sentinel never satisfied by
// block.IsValidID.
type Inode struct {
	FileType     layout.FileType
	Size         int32
	UserID       int32
	RefCount     int32
	Direct       [layout.DirectPointers]int32
	Created      time.Time
	LastAccessed time.Time
	LastModified time.Time
}

// NewDirect returns a Direct array with every slot set to the unused
// sentinel, the same initial state as memset(inode.direct, -1, ...) in
// create_file.
func NewDirect() [layout.DirectPointers]int32 {
	var d [layout.DirectPointers]int32
	for i := range d {
		d[i] = -1
	}
	return d
}

func (n *Inode) encode() []byte {
	buf := make([]byte, layout.InodeSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(n.FileType))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(n.Size))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(n.UserID))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(n.RefCount))
	off := 16
	for i := 0; i < layout.DirectPointers; i++ {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(n.Direct[i]))
		off += 4
	}
	binary.LittleEndian.PutUint64(buf[off:off+8], uint64(n.Created.Unix()))
	off += 8
	binary.LittleEndian.PutUint64(buf[off:off+8], uint64(n.LastAccessed.Unix()))
	off += 8
	binary.LittleEndian.PutUint64(buf[off:off+8], uint64(n.LastModified.Unix()))
	return buf
}

func decodeInode(buf []byte) Inode {
	var n Inode
	n.FileType = layout.FileType(binary.LittleEndian.Uint32(buf[0:4]))
	n.Size = int32(binary.LittleEndian.Uint32(buf[4:8]))
	n.UserID = int32(binary.LittleEndian.Uint32(buf[8:12]))
	n.RefCount = int32(binary.LittleEndian.Uint32(buf[12:16]))
	off := 16
	for i := 0; i < layout.DirectPointers; i++ {
		n.Direct[i] = int32(binary.LittleEndian.Uint32(buf[off : off+4]))
		off += 4
	}
	n.Created = time.Unix(int64(binary.LittleEndian.Uint64(buf[off:off+8])), 0)
	off += 8
	n.LastAccessed = time.Unix(int64(binary.LittleEndian.Uint64(buf[off:off+8])), 0)
	off += 8
	n.LastModified = time.Unix(int64(binary.LittleEndian.Uint64(buf[off:off+8])), 0)
	return n
}

// IsValidID reports whether id names an in-range inode slot.
func IsValidID(id ID) bool {
	return id >= 0 && id < layout.NumInodes
}
