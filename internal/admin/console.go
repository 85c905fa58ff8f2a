// Package admin implements the operator console read from standard input.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/core"
)

// Kicker is the part of core.Hub the console drives.
type Kicker interface {
	Kick(ctx context.Context, id core.ClientID) error
}

// Console parses operator commands, one per line.
type Console struct {
	in  io.Reader
	out io.Writer
	hub Kicker
	log *zerolog.Logger
}

// NewConsole builds a console reading from in and answering on out.
func NewConsole(in io.Reader, out io.Writer, hub Kicker, logger *zerolog.Logger) *Console {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Console{in: in, out: out, hub: hub, log: logger}
}

// Run handles commands until the input ends or ctx is cancelled. A closed
// input only stops the console, never the server.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			c.log.Warn().Err(err).Msg("console input error")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				c.log.Debug().Msg("console input closed")
				return nil
			}
			if err := c.Execute(ctx, line); err != nil {
				return err
			}
		}
	}
}

// Execute runs one command line. Only a stopped hub is reported as an error;
// operator mistakes are answered on the output.
func (c *Console) Execute(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "kick":
		if len(args) != 2 {
			c.println("Usage: kick <id>")
			return nil
		}
		id, err := core.ParseClientID(args[1])
		if err != nil {
			c.println("<id> is not a number")
			return nil
		}
		return c.kick(ctx, id)
	default:
		c.println("Invalid command")
		return nil
	}
}

func (c *Console) kick(ctx context.Context, id core.ClientID) error {
	err := c.hub.Kick(ctx, id)
	switch {
	case err == nil:
		c.log.Info().Stringer("client_id", id).Msg("client kicked from console")
		return nil
	case errors.Is(err, core.ErrClientNotFound):
		c.println(fmt.Sprintf("Client %s not found", id))
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	default:
		return fmt.Errorf("admin: kick %s: %w", id, err)
	}
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}
