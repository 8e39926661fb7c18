package diskio

import (
	"fmt"
	"os"

	"github.com/equocredite/minifs/internal/layout"
)

// FileDisk backs an image with a regular file, opened once and shared across
// every worker goroutine. It uses ReadAt/WriteAt (pread/pwrite under the
// hood) specifically so that concurrent readers need no shared seek cursor
// and no lock of their own, per spec §5's resource-lifetime note.
type FileDisk struct {
	f *os.File
}

// OpenFile opens path as a MiniFS image backing store, creating it (and
// sizing it to layout.DiskSize, pre-filled with 0xFF) if it doesn't exist.
func OpenFile(path string) (*FileDisk, bool, error) {
	_, statErr := os.Stat(path)
	existed := statErr == nil

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, false, fmt.Errorf("open disk image %q: %w", path, err)
	}

	disk := &FileDisk{f: f}
	if !existed {
		if err := disk.grow(); err != nil {
			f.Close()
			return nil, false, err
		}
	}
	return disk, existed, nil
}

func (d *FileDisk) grow() error {
	filler := make([]byte, layout.BlockSize)
	for i := range filler {
		filler[i] = 0xFF
	}
	for off := int64(0); off < layout.DiskSize; off += layout.BlockSize {
		if err := d.WriteAt(filler, off); err != nil {
			return err
		}
	}
	return nil
}

func (d *FileDisk) ReadAt(buf []byte, off int64) error {
	return loopRead(d.f, buf, off)
}

func (d *FileDisk) WriteAt(buf []byte, off int64) error {
	return loopWrite(d.f, buf, off)
}

func (d *FileDisk) Size() int64 {
	info, err := d.f.Stat()
	if err != nil {
		return 0
	}
	return info.Size()
}

func (d *FileDisk) Close() error {
	return d.f.Close()
}
