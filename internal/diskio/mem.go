package diskio

import (
	"io"
	"sync"

	"github.com/xaionaro-go/bytesextra"
)

// MemDisk backs an image with an in-memory byte slice, via the same
// bytesextra.ReadWriteSeeker the teacher's testing/images.go helper uses to
// give fixture bytes a seekable, writable view without touching a real file.
// MemDisk exists for package tests and for minifsd's --in-memory flag
// (quick local runs with no image to clean up afterwards).
//
// Unlike FileDisk, which uses os.File's ReadAt/WriteAt (pread/pwrite) and so
// needs no lock of its own, bytesextra.ReadWriteSeeker has one shared seek
// cursor. Engine's RWMutex lets multiple read-only verbs (ls, cat, cp
// --to-local, cd, pwd) run against the disk concurrently, so a seek-then-
// read/write pair here must be serialized under mu or two such readers can
// interleave their seeks and tear each other's reads (spec §5's named
// hazard for any backing store that isn't pread/pwrite-based).
type MemDisk struct {
	mu   sync.Mutex
	rws  io.ReadWriteSeeker
	size int64
}

// NewMemDisk creates a MemDisk over a freshly 0xFF-filled buffer of n bytes.
func NewMemDisk(n int64) *MemDisk {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = 0xFF
	}
	return &MemDisk{rws: bytesextra.NewReadWriteSeeker(buf), size: n}
}

func (d *MemDisk) ReadAt(buf []byte, off int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.rws.Seek(off, io.SeekStart); err != nil {
		return err
	}
	_, err := io.ReadFull(d.rws, buf)
	return err
}

func (d *MemDisk) WriteAt(buf []byte, off int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.rws.Seek(off, io.SeekStart); err != nil {
		return err
	}
	for written := 0; written < len(buf); {
		n, err := d.rws.Write(buf[written:])
		if n > 0 {
			written += n
		}
		if err != nil && n == 0 {
			return err
		}
	}
	return nil
}

func (d *MemDisk) Size() int64 {
	return d.size
}

func (d *MemDisk) Close() error {
	return nil
}
