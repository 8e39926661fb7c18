// Package daemon is the TCP accept loop and wire protocol: one goroutine
// per connection (standing in for the original's one-thread-per-client
// model), the status-byte-plus-payload line protocol, and command
// dispatch via internal/commandtable — grounded on net_io.c/client.c for
// the framing and on interface.c for which verb emits which payload
// shape.
package daemon

import (
	"bufio"
	"encoding/binary"
	"io"
)

const successByte = '1'
const failureByte = '0'

func writeStatus(w io.Writer, ok bool) error {
	b := byte(failureByte)
	if ok {
		b = successByte
	}
	_, err := w.Write([]byte{b})
	return err
}

func writeText(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

// writeSize writes n as an 8-byte little-endian size_t, the framing
// copy_from_local's caller expects before the file content itself.
func writeSize(w io.Writer, n uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	_, err := w.Write(buf[:])
	return err
}

func readSize(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// readLine reads one newline-terminated command line, trimming the
// trailing "\n" (and a preceding "\r" for clients that send CRLF).
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = line[:len(line)-1]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line, nil
}
