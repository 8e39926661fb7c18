// Command minifsd is the MiniFS daemon: it opens (or formats) a backing
// disk image and serves it to TCP clients, the same one-binary-one-image
// shape as the teacher's cmd/main.go, with urfave/cli/v2 supplying the
// command-line surface instead of hand-rolled flag parsing.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/equocredite/minifs/internal/daemon"
	"github.com/equocredite/minifs/internal/diskio"
	"github.com/equocredite/minifs/internal/fsengine"
	"github.com/equocredite/minifs/internal/layout"
	"github.com/equocredite/minifs/internal/mkfs"
)

func main() {
	app := &cli.App{
		Name:      "minifsd",
		Usage:     "Serve a MiniFS disk image over TCP",
		ArgsUsage: "[port]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "image",
				Value: "minifs.img",
				Usage: "path to the backing disk image (created if missing)",
			},
			&cli.BoolFlag{
				Name:  "in-memory",
				Usage: "use a scratch in-memory image instead of --image (discarded on exit)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "append structured logs to this file instead of stderr",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func run(c *cli.Context) error {
	port := 8080
	if c.Args().Len() > 0 {
		p, err := parsePort(c.Args().First())
		if err != nil {
			return err
		}
		port = p
	}

	logger, err := newLogger(c.String("log-file"))
	if err != nil {
		return err
	}

	disk, err := openDisk(c.Bool("in-memory"), c.String("image"), logger)
	if err != nil {
		return err
	}
	defer disk.Close()

	engine := fsengine.Open(disk)
	server := daemon.New(engine, logger)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", port, err)
	}
	logger.Info("minifsd listening", "port", port)

	return server.Serve(context.Background(), ln)
}

// openDisk opens the --image path (formatting a fresh one if it didn't
// already exist) or, with --in-memory, allocates a scratch image that never
// touches the filesystem.
func openDisk(inMemory bool, imagePath string, logger *slog.Logger) (diskio.Disk, error) {
	if inMemory {
		disk := diskio.NewMemDisk(layout.DiskSize)
		if err := mkfs.Format(disk); err != nil {
			return nil, fmt.Errorf("format in-memory image: %w", err)
		}
		logger.Info("formatted a fresh in-memory image")
		return disk, nil
	}

	disk, existed, err := diskio.OpenFile(imagePath)
	if err != nil {
		return nil, err
	}
	if !existed {
		if err := mkfs.Format(disk); err != nil {
			disk.Close()
			return nil, fmt.Errorf("format %q: %w", imagePath, err)
		}
		logger.Info("formatted a fresh image", "path", imagePath)
		return disk, nil
	}
	if err := mkfs.Validate(disk); err != nil {
		disk.Close()
		return nil, fmt.Errorf("open %q: %w", imagePath, err)
	}
	logger.Info("opened existing image", "path", imagePath)
	return disk, nil
}

func newLogger(logFile string) (*slog.Logger, error) {
	if logFile == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, nil)), nil
	}
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %q: %w", logFile, err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), nil
}

func parsePort(s string) (int, error) {
	var port int
	if _, err := fmt.Sscanf(s, "%d", &port); err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return port, nil
}
