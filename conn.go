package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	// How much we ask the kernel for on each read.
	recvSize = 1 << 12

	// Maximum bytes we hold without seeing a line terminator. A peer that
	// sends more than this in one "line" gets cut off.
	buffSize = 1 << 16
)

var separator = []byte("\r\n")

// errConnClosed indicates the transport is closed and the worker should
// unwind. Every I/O failure on a Conn collapses into this sentinel.
var errConnClosed = errors.New("connection closed")

// Conn is a line-framed connection to a client.
//
// Reads happen only on the connection's own worker goroutine. Writes may
// come from any goroutine (channel broadcasts, inbox notifications), so
// they are serialised by a send lock.
type Conn struct {
	conn    net.Conn
	limiter *rate.Limiter

	sendMu sync.Mutex

	mu     sync.Mutex
	closed bool

	// Unread bytes accumulated while looking for a separator.
	buffer []byte
}

// NewConn initializes a Conn. limiter may be nil to disable the flood
// guard.
func NewConn(conn net.Conn, limiter *rate.Limiter) *Conn {
	return &Conn{
		conn:    conn,
		limiter: limiter,
	}
}

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// RemoteIP returns the remote address without the port.
func (c *Conn) RemoteIP() string {
	host, _, err := net.SplitHostPort(c.conn.RemoteAddr().String())
	if err != nil {
		return c.conn.RemoteAddr().String()
	}
	return host
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close shuts the connection down in both directions and marks the
// transport closed. Any I/O after this returns errConnClosed, which
// unwinds the connection's worker.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errConnClosed
	}
	c.closed = true
	c.mu.Unlock()

	if tc, ok := c.conn.(*net.TCPConn); ok {
		// Bidirectional shutdown before the close proper.
		_ = tc.CloseRead()
		_ = tc.CloseWrite()
	}
	return c.conn.Close()
}

// Recv returns the next line including its CRLF terminator.
func (c *Conn) Recv() ([]byte, error) {
	if c.Closed() {
		return nil, errConnClosed
	}

	if c.limiter != nil {
		_ = c.limiter.Wait(context.Background())
	}

	for !bytes.Contains(c.buffer, separator) {
		chunk := make([]byte, recvSize)
		n, err := c.conn.Read(chunk)
		if n > 0 {
			c.buffer = append(c.buffer, chunk[:n]...)
		}
		if err != nil {
			_ = c.Close()
			return nil, errors.WithMessagef(errConnClosed, "read: %v", err)
		}
		if len(c.buffer) > buffSize {
			_ = c.Close()
			return nil, errors.WithMessage(errConnClosed, "unterminated line too long")
		}
	}

	index := bytes.Index(c.buffer, separator) + len(separator)
	line := c.buffer[:index]
	c.buffer = c.buffer[index:]
	return line, nil
}

// Send normalises line endings and writes the full payload.
//
// Any lone CR or LF becomes CRLF so the client always sees whole frames.
func (c *Conn) Send(text []byte) error {
	if c.Closed() {
		return errConnClosed
	}

	text = bytes.ReplaceAll(text, []byte("\r\n"), []byte("\n"))
	text = bytes.ReplaceAll(text, []byte("\r"), []byte("\n"))
	text = bytes.ReplaceAll(text, []byte("\n"), []byte("\r\n"))

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	for len(text) > 0 {
		n, err := c.conn.Write(text)
		if err != nil {
			_ = c.Close()
			return errors.WithMessagef(errConnClosed, "write: %v", err)
		}
		text = text[n:]
	}
	return nil
}

// Input optionally prints a prompt line, then returns the next line
// decoded as text without its terminator.
func (c *Conn) Input(prompt string) (string, error) {
	if prompt != "" {
		if err := c.Print(prompt); err != nil {
			return "", err
		}
	}
	line, err := c.Recv()
	if err != nil {
		return "", err
	}
	return string(line[:len(line)-len(separator)]), nil
}

// Print formats the values separated by spaces, terminated by a newline,
// and sends the result.
func (c *Conn) Print(values ...interface{}) error {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return c.Send([]byte(strings.Join(parts, " ") + "\n"))
}
