package main

import (
	"net"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func pipePair(t *testing.T) (*Conn, net.Conn) {
	t.Helper()
	serverSide, peer := net.Pipe()
	t.Cleanup(func() {
		_ = serverSide.Close()
		_ = peer.Close()
	})
	return NewConn(serverSide, nil), peer
}

func TestConnRecvFraming(t *testing.T) {
	conn, peer := pipePair(t)

	go func() {
		_, _ = peer.Write([]byte("hello\r\nwo"))
		_, _ = peer.Write([]byte("rld\r\n"))
	}()

	line, err := conn.Recv()
	if err != nil {
		t.Fatalf("Recv() = error %s", err)
	}
	if string(line) != "hello\r\n" {
		t.Errorf("Recv() = %q, wanted %q", line, "hello\r\n")
	}

	line, err = conn.Recv()
	if err != nil {
		t.Fatalf("Recv() = error %s", err)
	}
	if string(line) != "world\r\n" {
		t.Errorf("Recv() = %q, wanted %q", line, "world\r\n")
	}
}

func TestConnInputStripsTerminator(t *testing.T) {
	conn, peer := pipePair(t)

	go func() {
		_, _ = peer.Write([]byte("a line\r\n"))
	}()

	line, err := conn.Input("")
	if err != nil {
		t.Fatalf("Input() = error %s", err)
	}
	if line != "a line" {
		t.Errorf("Input() = %q, wanted %q", line, "a line")
	}
}

func TestConnSendNormalisesLineEndings(t *testing.T) {
	tests := []struct {
		input  string
		output string
	}{
		{"plain\n", "plain\r\n"},
		{"already\r\n", "already\r\n"},
		{"bare\rreturn\n", "bare\r\nreturn\r\n"},
		{"a\nb\nc\n", "a\r\nb\r\nc\r\n"},
	}

	for _, test := range tests {
		conn, peer := pipePair(t)

		result := make(chan string, 1)
		go func() {
			buffer := make([]byte, 256)
			total := 0
			for total < len(test.output) {
				n, err := peer.Read(buffer[total:])
				total += n
				if err != nil {
					break
				}
			}
			result <- string(buffer[:total])
		}()

		if err := conn.Send([]byte(test.input)); err != nil {
			t.Fatalf("Send(%q) = error %s", test.input, err)
		}
		if got := <-result; got != test.output {
			t.Errorf("Send(%q) wrote %q, wanted %q", test.input, got,
				test.output)
		}
	}
}

func TestConnRecvOversizeLine(t *testing.T) {
	conn, peer := pipePair(t)

	go func() {
		chunk := []byte(strings.Repeat("x", 1<<12))
		for {
			if _, err := peer.Write(chunk); err != nil {
				return
			}
		}
	}()

	_, err := conn.Recv()
	if err == nil {
		t.Fatalf("Recv() succeeded, wanted error")
	}
	if !errors.Is(err, errConnClosed) {
		t.Errorf("Recv() = %s, wanted errConnClosed", err)
	}
	if !conn.Closed() {
		t.Errorf("connection not closed after oversize line")
	}
}

func TestConnCloseTwice(t *testing.T) {
	conn, _ := pipePair(t)

	if err := conn.Close(); err != nil {
		t.Fatalf("first Close() = error %s", err)
	}
	if err := conn.Close(); !errors.Is(err, errConnClosed) {
		t.Errorf("second Close() = %v, wanted errConnClosed", err)
	}
	if err := conn.Send([]byte("x\n")); !errors.Is(err, errConnClosed) {
		t.Errorf("Send after Close = %v, wanted errConnClosed", err)
	}
}
