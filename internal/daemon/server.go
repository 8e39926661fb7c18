package daemon

import (
	"context"
	"log/slog"
	"net"

	"github.com/equocredite/minifs/internal/fsengine"
)

// Server accepts MiniFS client connections and dispatches each one to its
// own goroutine, sharing a single Engine (and its single lock) across all
// of them — the Go equivalent of the original's one-thread-per-client
// pthread model.
type Server struct {
	Engine *fsengine.Engine
	Logger *slog.Logger
}

// New builds a Server. A nil logger falls back to slog.Default().
func New(engine *fsengine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Engine: engine, Logger: logger}
}

// Serve accepts connections on ln until ctx is cancelled or Accept fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go s.handleConn(conn)
	}
}
