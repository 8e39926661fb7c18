// Command minifs is the MiniFS shell client: it connects to a minifsd
// daemon and offers a shell-like REPL over the line protocol described in
// spec §6. All filesystem logic lives in the daemon; this binary is thin
// glue (spec §1) that reads a line, forwards it (or, for cp --from-local/
// --to-local, shuttles local file bytes), and prints the reply.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/equocredite/minifs/internal/client"
)

func main() {
	app := &cli.App{
		Name:      "minifs",
		Usage:     "Connect to a MiniFS daemon and run a shell session",
		ArgsUsage: "[ip] [port]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "user",
				Value: 1,
				Usage: "user id to present at login",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "minifs: %s\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ip := "127.0.0.1"
	port := "8080"
	if c.Args().Len() > 0 {
		ip = c.Args().Get(0)
	}
	if c.Args().Len() > 1 {
		port = c.Args().Get(1)
	}

	cl, err := client.Dial(ip+":"+port, int32(c.Int("user")))
	if err != nil {
		return err
	}
	defer cl.Close()

	fmt.Printf("connected to %s:%s\n", ip, port)
	repl(cl)
	return nil
}

// repl reads commands from stdin until "exit" or EOF, forwarding each to
// the daemon and printing its reply.
func repl(cl *client.Client) {
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("minifs> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)

		if tokens[0] == "exit" {
			reply, err := cl.Command(line)
			if err == nil {
				printReply(reply)
			}
			return
		}

		if tokens[0] == "cp" && len(tokens) >= 2 && tokens[1] == "--from-local" {
			handleFromLocal(cl, tokens)
			continue
		}
		if tokens[0] == "cp" && len(tokens) >= 2 && tokens[1] == "--to-local" {
			handleToLocal(cl, line, tokens)
			continue
		}

		reply, err := cl.Command(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "minifs: %s\n", err)
			return
		}
		printReply(reply)
	}
}

// handleFromLocal implements `cp --from-local local dest`: it reads the
// local file fully into memory (uploads are bounded by layout.MaxFileSize
// on the daemon side anyway) and hands it to client.CpFromLocal.
func handleFromLocal(cl *client.Client, tokens []string) {
	if len(tokens) < 4 {
		fmt.Println("usage: cp --from-local local dest")
		return
	}
	local, dest := tokens[2], tokens[3]

	content, err := os.ReadFile(local)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minifs: reading %q: %s\n", local, err)
		return
	}

	reply, err := cl.CpFromLocal(local, dest, content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minifs: %s\n", err)
		return
	}
	printReply(reply)
}

// handleToLocal implements `cp --to-local src local`: it forwards the
// command verbatim (the daemon streams src's content as the reply
// payload, per spec §6) and, on success, writes that payload to the local
// path instead of echoing it to the terminal.
func handleToLocal(cl *client.Client, line string, tokens []string) {
	if len(tokens) < 4 {
		fmt.Println("usage: cp --to-local src local")
		return
	}
	local := tokens[3]

	reply, err := cl.Command(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minifs: %s\n", err)
		return
	}
	if !reply.OK {
		fmt.Fprintf(os.Stderr, "error: %s\n", strings.TrimSpace(string(reply.Payload)))
		return
	}
	if err := os.WriteFile(local, reply.Payload, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "minifs: writing %q: %s\n", local, err)
		return
	}
	fmt.Printf("wrote %d bytes to %s\n", len(reply.Payload), local)
}

func printReply(r client.Reply) {
	if r.OK {
		if len(r.Payload) > 0 {
			os.Stdout.Write(r.Payload)
			if r.Payload[len(r.Payload)-1] != '\n' {
				fmt.Println()
			}
		}
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", strings.TrimSpace(string(r.Payload)))
}
