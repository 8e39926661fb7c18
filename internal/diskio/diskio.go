// Package diskio is MiniFS's disk I/O layer (spec §4.2): positioned
// read/write of byte ranges against whatever is backing the image.
//
// The teacher abstracts this the same way (drivers/common.BlockStream /
// BlockDevice wrap an io.ReadWriteSeeker), and spec §9's open question about
// the kernel-module backing path — "an implementation should abstract the
// disk behind a byte-oriented interface and provide two adapters" — is
// resolved here: Disk is the byte-oriented interface, and FileDisk/MemDisk/
// CharDevice are its adapters.
package diskio

import "io"

// Disk is the sole path every other MiniFS component uses to touch bytes of
// the backing image. Offsets are byte offsets into the image.
type Disk interface {
	io.Closer
	// ReadAt reads len(buf) bytes starting at off, looping internally until
	// every byte has arrived — a short read from the underlying transport is
	// resumed, not reported as an error.
	ReadAt(buf []byte, off int64) error
	// WriteAt writes all of buf starting at off, looping internally until
	// every byte has been accepted.
	WriteAt(buf []byte, off int64) error
	// Size returns the total size of the backing image, in bytes.
	Size() int64
}

// loopRead reads exactly len(buf) bytes from r, resuming on short reads, the
// same contract as the C source's read_data loop.
func loopRead(r io.ReaderAt, buf []byte, off int64) error {
	for read := 0; read < len(buf); {
		n, err := r.ReadAt(buf[read:], off+int64(read))
		if n > 0 {
			read += n
		}
		if err != nil && !(err == io.EOF && read == len(buf)) {
			if n == 0 {
				return err
			}
		}
	}
	return nil
}

// loopWrite writes exactly len(buf) bytes to w, resuming on short writes.
func loopWrite(w io.WriterAt, buf []byte, off int64) error {
	for written := 0; written < len(buf); {
		n, err := w.WriteAt(buf[written:], off+int64(written))
		if n > 0 {
			written += n
		}
		if err != nil && n == 0 {
			return err
		}
	}
	return nil
}
