// Package bitset is MiniFS's bit-utility layer (spec §4.1): it finds and
// flips individual allocation bits in a block or inode bitmap.
//
// It is a thin wrapper around github.com/boljen/go-bitmap, the same
// allocation-bitmap library the teacher's drivers/common/blockmanager.go and
// allocatormap.go use. Unlike the teacher, MiniFS's on-disk bit polarity is
// inverted (1 = free) to stay byte-compatible with the original C image
// format, so Set's boolean argument is read as "free", not "allocated".
package bitset

import "github.com/boljen/go-bitmap"

// Set is a fixed-size allocation bitmap where a 1 bit means "free" and a 0
// bit means "allocated" — the polarity the original MiniFS disk format uses.
type Set struct {
	bm   bitmap.Bitmap
	size int
}

// New creates a Set with all n bits marked free.
func New(n int) *Set {
	bm := bitmap.New(n)
	data := bm.Data(false)
	for i := range data {
		data[i] = 0xFF
	}
	return &Set{bm: bm, size: n}
}

// Load creates a Set of n bits from raw on-disk bitmap bytes.
func Load(n int, raw []byte) *Set {
	bm := bitmap.New(n)
	copy(bm.Data(false), raw)
	return &Set{bm: bm, size: n}
}

// Bytes returns the raw bytes backing the bitmap, suitable for writing
// straight back to the disk image. The slice aliases the Set's storage.
func (s *Set) Bytes() []byte {
	return s.bm.Data(false)[:(s.size+7)/8]
}

// Len returns the number of bits in the set.
func (s *Set) Len() int {
	return s.size
}

// IsFree reports whether bit i is free. i must be in [0, Len()).
func (s *Set) IsFree(i int) bool {
	return s.bm.Get(i)
}

// FirstFree returns the index of the lowest-numbered free bit, or -1 if the
// set is fully allocated.
func (s *Set) FirstFree() int {
	for i := 0; i < s.size; i++ {
		if s.bm.Get(i) {
			return i
		}
	}
	return -1
}

// Allocate clears (marks allocated) bit i. The caller must have already
// confirmed i was free; allocating an already-allocated bit is not checked
// and leaves it allocated.
func (s *Set) Allocate(i int) {
	s.bm.Set(i, false)
}

// Free sets (marks free) bit i. It reports false if the bit was already
// free — a double-free, which the caller must treat as corruption.
func (s *Set) Free(i int) bool {
	if s.bm.Get(i) {
		return false
	}
	s.bm.Set(i, true)
	return true
}

// CountFree returns the population of free (1) bits.
func (s *Set) CountFree() int {
	n := 0
	for i := 0; i < s.size; i++ {
		if s.bm.Get(i) {
			n++
		}
	}
	return n
}
