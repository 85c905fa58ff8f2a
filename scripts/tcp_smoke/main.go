package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"time"

	"github.com/vovakirdan/roomrelay/internal/core"
)

const prompt = "Nickname: "

func main() {
	addr := flag.String("addr", "localhost:8080", "chat server address")
	room := flag.String("room", "", "room to switch both clients into (default room when empty)")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, *addr, *room, *text); err != nil {
		log.Fatalf("smoke failed: %v", err)
	}
	fmt.Println("smoke ok")
}

type session struct {
	conn net.Conn
	r    *bufio.Reader
}

func login(ctx context.Context, addr, nickname string) (*session, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	s := &session{conn: conn, r: bufio.NewReader(conn)}
	if err := s.waitFor(prompt); err != nil {
		conn.Close()
		return nil, fmt.Errorf("welcome: %w", err)
	}
	if err := s.send(nickname); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) send(line string) error {
	if _, err := io.WriteString(s.conn, line+"\n"); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// waitFor consumes input until want has been seen.
func (s *session) waitFor(want string) error {
	var seen strings.Builder
	for !strings.Contains(core.StripANSI(seen.String()), want) {
		b, err := s.r.ReadByte()
		if err != nil {
			return fmt.Errorf("waiting for %q: %w", want, err)
		}
		seen.WriteByte(b)
	}
	return nil
}

func run(ctx context.Context, addr, room, text string) error {
	listener, err := login(ctx, addr, "smoke-listener")
	if err != nil {
		return err
	}
	defer listener.conn.Close()

	sender, err := login(ctx, addr, "smoke-sender")
	if err != nil {
		return err
	}
	defer sender.conn.Close()

	if room != "" {
		for _, s := range []*session{listener, sender} {
			if err := s.send("/room " + room); err != nil {
				return err
			}
		}
		// Give the hub a moment to move both clients before talking.
		time.Sleep(200 * time.Millisecond)
	} else if err := listener.waitFor("smoke-sender joined"); err != nil {
		return err
	}

	if err := sender.send(text); err != nil {
		return err
	}
	if err := listener.waitFor("smoke-sender: " + text); err != nil {
		return err
	}
	log.Printf("listener received %q", text)
	return nil
}
