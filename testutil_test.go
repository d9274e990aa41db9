package main

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestServer() *Server {
	cfg := defaultConfig()
	cfg.FloodRate = 0
	return newServer(cfg, zerolog.Nop())
}

// newTestClient returns a client whose peer side is pumped into a line
// channel, so server-side writes never block.
func newTestClient(t *testing.T, s *Server) (*Client, <-chan string) {
	t.Helper()

	serverSide, peer := net.Pipe()
	t.Cleanup(func() {
		_ = serverSide.Close()
		_ = peer.Close()
	})

	lines := make(chan string, 256)
	go func() {
		reader := bufio.NewReader(peer)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				lines <- strings.TrimRight(line, "\r\n")
			}
			if err != nil {
				close(lines)
				return
			}
		}
	}()

	return NewClient(s, serverSide), lines
}

// newScriptedClient is like newTestClient but also feeds the session the
// given input lines.
func newScriptedClient(t *testing.T, s *Server,
	input ...string) (*Client, <-chan string) {
	t.Helper()

	serverSide, peer := net.Pipe()
	t.Cleanup(func() {
		_ = serverSide.Close()
		_ = peer.Close()
	})

	go func() {
		for _, line := range input {
			if _, err := peer.Write([]byte(line + "\r\n")); err != nil {
				return
			}
		}
	}()

	lines := make(chan string, 256)
	go func() {
		reader := bufio.NewReader(peer)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				lines <- strings.TrimRight(line, "\r\n")
			}
			if err != nil {
				close(lines)
				return
			}
		}
	}()

	return NewClient(s, serverSide), lines
}

// recvLine reads one line the client was shown, failing fast if nothing
// arrives.
func recvLine(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case line, ok := <-lines:
		if !ok {
			t.Fatalf("peer closed while waiting for a line")
		}
		return line
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for a line")
	}
	return ""
}

// loginTestClient registers an account and binds it to the client the way
// a login would.
func loginTestClient(t *testing.T, s *Server, c *Client, name string) *Account {
	t.Helper()

	account, ok := s.Accounts.Register(name, "pw")
	if !ok {
		account = s.Accounts.Lookup(name)
	}
	if account == nil {
		t.Fatalf("unable to register account %s", name)
	}
	if !account.login(c) {
		t.Fatalf("account %s is already online", name)
	}
	c.bindAccount(name, account)
	return account
}
