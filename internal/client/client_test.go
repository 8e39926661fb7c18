package client_test

import (
	"bufio"
	"encoding/binary"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equocredite/minifs/internal/client"
)

// acceptWithLogin starts a listener, accepts exactly one connection, reads
// the login line, and acks it — mirroring the daemon's conn.go handshake closely
// enough to drive Dial without spinning up a whole daemon.
func acceptWithLogin(t *testing.T) (addr string, conn net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	connCh := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		r := bufio.NewReader(c)
		if _, err := r.ReadString('\n'); err != nil {
			return
		}
		_, _ = c.Write([]byte{'1'})
		connCh <- c
	}()

	return ln.Addr().String(), <-connCh
}

func TestDialPerformsLoginHandshake(t *testing.T) {
	addr, serverConn := acceptWithLogin(t)
	t.Cleanup(func() { _ = serverConn.Close() })

	c, err := client.Dial(addr, 42)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
}

func TestCommandReadsStatusAndPayload(t *testing.T) {
	addr, serverConn := acceptWithLogin(t)
	t.Cleanup(func() { _ = serverConn.Close() })

	c, err := client.Dial(addr, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	go func() {
		r := bufio.NewReader(serverConn)
		line, err := r.ReadString('\n')
		if err != nil || line != "pwd\n" {
			return
		}
		_, _ = serverConn.Write([]byte("1/\n"))
	}()

	reply, err := c.Command("pwd")
	require.NoError(t, err)
	assert.True(t, reply.OK)
	assert.Equal(t, []byte("/\n"), reply.Payload)
}

func TestCommandReportsFailureStatus(t *testing.T) {
	addr, serverConn := acceptWithLogin(t)
	t.Cleanup(func() { _ = serverConn.Close() })

	c, err := client.Dial(addr, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	go func() {
		r := bufio.NewReader(serverConn)
		_, err := r.ReadString('\n')
		if err != nil {
			return
		}
		_, _ = serverConn.Write([]byte("0no such path"))
	}()

	reply, err := c.Command("cat /missing")
	require.NoError(t, err)
	assert.False(t, reply.OK)
	assert.Equal(t, []byte("no such path"), reply.Payload)
}

// CpFromLocal must send the command line, then the 8-byte size header, then
// the content, before it ever reads a reply.
func TestCpFromLocalSendsSizeHeaderThenContent(t *testing.T) {
	addr, serverConn := acceptWithLogin(t)
	t.Cleanup(func() { _ = serverConn.Close() })

	c, err := client.Dial(addr, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	content := []byte("payload bytes")
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		r := bufio.NewReader(serverConn)
		line, err := r.ReadString('\n')
		if err != nil || line != "cp --from-local local.txt /f\n" {
			return
		}
		var sizeBuf [8]byte
		if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
			return
		}
		if binary.LittleEndian.Uint64(sizeBuf[:]) != uint64(len(content)) {
			return
		}
		got := make([]byte, len(content))
		if _, err := io.ReadFull(r, got); err != nil {
			return
		}
		if string(got) != string(content) {
			return
		}
		_, _ = serverConn.Write([]byte{'1'})
	}()

	reply, err := c.CpFromLocal("local.txt", "/f", content)
	require.NoError(t, err)
	assert.True(t, reply.OK)
	<-serverDone
}
