package diskio

import (
	"fmt"
	"io"
	"os"

	"github.com/equocredite/minifs/internal/layout"
)

// CharDevice backs an image with a character special file, such as the one
// exposed by the kernel-module collaborator described in spec §6/§9 at
// /dev/minifs. That device behaves like a pipe limited to exactly
// layout.BlockSize bytes per read/write call rather than a seekable regular
// file, so CharDevice never does positioned I/O: it always reads or writes
// the device sequentially, one whole block at a time, and ignores the offset
// it is given. The block and inode layers read and write sub-block ranges
// (the 12-byte superblock, the bitmaps, single inode records) at arbitrary
// offsets, which CharDevice does not map onto the device.
type CharDevice struct {
	f *os.File
}

// OpenCharDevice opens an existing character device at path. Unlike
// OpenFile, it never creates or sizes the device — that's the kernel
// module's job.
func OpenCharDevice(path string) (*CharDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open char device %q: %w", path, err)
	}
	return &CharDevice{f: f}, nil
}

// ReadAt is only correct when off and len(buf) are both multiples of
// layout.BlockSize: the device has no concept of an offset, so callers must
// already be reading sequential whole blocks in order.
func (d *CharDevice) ReadAt(buf []byte, _ int64) error {
	for start := 0; start < len(buf); start += layout.BlockSize {
		end := start + layout.BlockSize
		if end > len(buf) {
			end = len(buf)
		}
		chunk := make([]byte, layout.BlockSize)
		if err := readFull(d.f, chunk); err != nil {
			return err
		}
		copy(buf[start:end], chunk[:end-start])
	}
	return nil
}

func (d *CharDevice) WriteAt(buf []byte, _ int64) error {
	for start := 0; start < len(buf); start += layout.BlockSize {
		end := start + layout.BlockSize
		chunk := make([]byte, layout.BlockSize)
		if end > len(buf) {
			end = len(buf)
		}
		copy(chunk, buf[start:end])
		if _, err := d.f.Write(chunk); err != nil {
			return err
		}
	}
	return nil
}

func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	return err
}

func (d *CharDevice) Size() int64 {
	return layout.DiskSize
}

func (d *CharDevice) Close() error {
	return d.f.Close()
}
