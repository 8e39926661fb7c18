// Package client is the MiniFS REPL's network half: it dials the daemon,
// performs the one-line login handshake, and speaks the status-byte-plus-
// payload wire protocol described in spec §6, including the two binary
// exceptions (cp --from-local's size header, cp --to-local/cat's raw
// stream). It is external collaborator glue (spec §1), grounded on the
// teacher's io.ReadWriteCloser-based File/Disk adapters for the same
// "loop until you have everything" read discipline, not on any filesystem
// logic of its own.
package client

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"
)

// replyTimeout is the client's per-reply receive deadline (spec §5): once
// no more bytes arrive within this window, the server is assumed done
// sending and the reply is considered complete.
const replyTimeout = 300 * time.Millisecond

// Client is one connection to a minifsd daemon.
type Client struct {
	conn net.Conn
	r    *bufio.Reader
}

// Dial connects to addr (host:port), sends userID as the login line, and
// reads the one-byte acknowledgement spec §6 describes.
func Dial(addr string, userID int32) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	c := &Client{conn: conn, r: bufio.NewReader(conn)}

	if _, err := fmt.Fprintf(conn, "%d\n", userID); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send user id: %w", err)
	}
	ack := make([]byte, 1)
	if _, err := io.ReadFull(c.r, ack); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read login ack: %w", err)
	}
	return c, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Reply is one command's status byte plus payload bytes.
type Reply struct {
	OK      bool
	Payload []byte
}

// Command sends line as the next command and reads back its reply using
// the short-receive-timeout framing spec §6 describes for ordinary
// commands (no explicit length prefix).
func (c *Client) Command(line string) (Reply, error) {
	if err := c.sendLine(line); err != nil {
		return Reply{}, err
	}
	return c.readReply()
}

// CpFromLocal drives the cp --from-local exception to the framing rule: it
// sends the command line, then the 8-byte little-endian size header and
// the file content itself, unconditionally — the daemon validates and
// commits (or rejects) only after it has consumed the whole upload, so the
// byte stream stays in sync regardless of the outcome. Exactly one status
// byte closes the command out, same as every other verb.
func (c *Client) CpFromLocal(local, dest string, content []byte) (Reply, error) {
	if err := c.sendLine(fmt.Sprintf("cp --from-local %s %s", local, dest)); err != nil {
		return Reply{}, err
	}
	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(len(content)))
	if _, err := c.conn.Write(sizeBuf[:]); err != nil {
		return Reply{}, fmt.Errorf("send size header: %w", err)
	}
	if _, err := c.conn.Write(content); err != nil {
		return Reply{}, fmt.Errorf("send file content: %w", err)
	}
	return c.readReply()
}

func (c *Client) sendLine(line string) error {
	_, err := fmt.Fprintf(c.conn, "%s\n", line)
	return err
}

// readReply reads the status byte, then drains bytes until replyTimeout
// passes with nothing new arriving — the connection-level framing spec §6
// uses for every payload that isn't a `cp --from-local` upload.
func (c *Client) readReply() (Reply, error) {
	status := make([]byte, 1)
	if _, err := io.ReadFull(c.r, status); err != nil {
		return Reply{}, fmt.Errorf("read status byte: %w", err)
	}

	var payload []byte
	buf := make([]byte, 4096)
	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(replyTimeout))
		n, err := c.r.Read(buf)
		if n > 0 {
			payload = append(payload, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	_ = c.conn.SetReadDeadline(time.Time{})

	return Reply{OK: status[0] == '1', Payload: payload}, nil
}
