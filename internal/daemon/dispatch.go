package daemon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/equocredite/minifs/internal/commandtable"
	"github.com/equocredite/minifs/internal/errs"
	"github.com/equocredite/minifs/internal/session"
)

// dispatch parses one command line and runs it against s.Engine, writing a
// status byte plus payload back to conn per the wire protocol. It reports
// whether the session should end.
func (s *Server) dispatch(conn net.Conn, r *bufio.Reader, sess *session.Session, line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		s.fail(conn, errs.New(errs.Protocol))
		return false
	}

	name, args := tokens[0], tokens[1:]
	if _, ok := commandtable.Lookup(name); !ok {
		s.fail(conn, fmt.Errorf("%w: %s", errs.New(errs.Protocol), name))
		return false
	}

	switch name {
	case "exit":
		_ = writeStatus(conn, true)
		return true

	case "help":
		s.ok(conn, commandtable.HelpText())

	case "pwd":
		s.replyPath(conn, s.Engine.Pwd(sess))

	case "cd":
		if len(args) < 1 {
			s.fail(conn, errs.New(errs.Protocol))
			return false
		}
		s.replyPath(conn, s.Engine.Cd(sess, args[0]))

	case "ls":
		all := false
		var path string
		for _, a := range args {
			if a == "--all" {
				all = true
			} else {
				path = a
			}
		}
		names, err := s.Engine.Ls(sess, path, all)
		if err != nil {
			s.fail(conn, err)
			break
		}
		s.ok(conn, strings.Join(names, "\n"))

	case "mkdir":
		if len(args) < 1 {
			s.fail(conn, errs.New(errs.Protocol))
			return false
		}
		s.reply(conn, s.Engine.Mkdir(sess, args[0]))

	case "touch":
		if len(args) < 1 {
			s.fail(conn, errs.New(errs.Protocol))
			return false
		}
		s.reply(conn, s.Engine.Touch(sess, args[0]))

	case "rm":
		if len(args) < 1 {
			s.fail(conn, errs.New(errs.Protocol))
			return false
		}
		s.reply(conn, s.Engine.Rm(sess, args[0]))

	case "mv":
		if len(args) < 2 {
			s.fail(conn, errs.New(errs.Protocol))
			return false
		}
		s.reply(conn, s.Engine.Mv(sess, args[0], args[1]))

	case "cat":
		if len(args) < 1 {
			s.fail(conn, errs.New(errs.Protocol))
			return false
		}
		content, err := s.Engine.Cat(sess, args[0])
		if err != nil {
			s.fail(conn, err)
			break
		}
		s.streamOut(conn, content)

	case "cp":
		s.dispatchCp(conn, r, sess, args)

	default:
		s.fail(conn, fmt.Errorf("%w: %s not implemented", errs.New(errs.Protocol), name))
	}

	return false
}

// dispatchCp handles the three forms of cp: a plain minifs-to-minifs copy,
// --from-local (client streams a local file up, after a size header), and
// --to-local (the engine's content streams back down).
func (s *Server) dispatchCp(conn net.Conn, r *bufio.Reader, sess *session.Session, args []string) {
	switch {
	case len(args) >= 2 && args[0] == "--from-local":
		dest := args[len(args)-1]
		// The client announces its size and streams content unconditionally,
		// independent of whether the upload is ultimately accepted, so the
		// byte stream stays framed: exactly one status byte closes out this
		// command, once the whole upload has actually been read off the wire.
		size, err := readSize(r)
		if err != nil {
			s.Logger.Warn("failed to read incoming size header", "err", err)
			return
		}
		precheckErr := s.Engine.PrecheckWrite(int(size))
		content := make([]byte, size)
		if _, err := io.ReadFull(r, content); err != nil {
			s.Logger.Warn("failed to read incoming file content", "err", err)
			return
		}
		if precheckErr != nil {
			s.fail(conn, precheckErr)
			return
		}
		s.reply(conn, s.Engine.CpFromLocal(sess, dest, content))

	case len(args) >= 2 && args[0] == "--to-local":
		src := args[1]
		content, err := s.Engine.CpToLocal(sess, src)
		if err != nil {
			s.fail(conn, err)
			return
		}
		s.streamOut(conn, content)

	case len(args) >= 2:
		s.reply(conn, s.Engine.Cp(sess, args[0], args[1]))

	default:
		s.fail(conn, errs.New(errs.Protocol))
	}
}

// reply writes a bare success/failure status, with the error's message as
// the payload on failure.
func (s *Server) reply(conn net.Conn, err error) {
	if err != nil {
		s.fail(conn, err)
		return
	}
	s.ok(conn, "")
}

// replyPath writes pwd and cd's payload: the working path, always
// newline-terminated (even for "/"), or the error's message on failure.
func (s *Server) replyPath(conn net.Conn, path string, err error) {
	if err != nil {
		s.fail(conn, err)
		return
	}
	s.ok(conn, path+"\n")
}

func (s *Server) ok(conn net.Conn, payload string) {
	if err := writeStatus(conn, true); err != nil {
		return
	}
	if payload == "" {
		return
	}
	_ = writeText(conn, payload)
}

func (s *Server) fail(conn net.Conn, err error) {
	if writeErr := writeStatus(conn, false); writeErr != nil {
		return
	}
	_ = writeText(conn, err.Error())
}

// streamOut sends content after a successful status byte, relying on the
// connection-level short-read framing the client uses to detect the end of
// the payload rather than an explicit length prefix.
func (s *Server) streamOut(conn net.Conn, content []byte) {
	if err := writeStatus(conn, true); err != nil {
		return
	}
	if _, err := conn.Write(content); err != nil && !errors.Is(err, io.EOF) {
		s.Logger.Warn("failed to stream file content", "err", err)
	}
}
