package daemon

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/equocredite/minifs/internal/session"
)

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	addr := conn.RemoteAddr().String()
	s.Logger.Info("client connected", "addr", addr)

	r := bufio.NewReader(conn)

	idLine, err := readLine(r)
	if err != nil {
		s.Logger.Warn("client disconnected before sending a user id", "addr", addr)
		return
	}
	userID, err := strconv.Atoi(strings.TrimSpace(idLine))
	if err != nil {
		_ = writeStatus(conn, false)
		s.Logger.Warn("malformed user id", "addr", addr, "line", idLine)
		return
	}
	if err := writeStatus(conn, true); err != nil {
		return
	}

	sess := session.New(int32(userID))
	s.Logger.Info("session started", "addr", addr, "user_id", userID)

	for {
		line, err := readLine(r)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.Logger.Warn("connection read error", "addr", addr, "err", err)
			}
			s.Logger.Info("session ended", "addr", addr)
			return
		}

		if shouldExit := s.dispatch(conn, r, sess, line); shouldExit {
			s.Logger.Info("session exited", "addr", addr)
			return
		}
	}
}
