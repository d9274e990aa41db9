package main

import (
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Client holds state about a single client connection.
//
// A client starts out anonymous. Once it logs in, the session binds an
// account name and a reference to the Account. The Account holds the
// reverse reference (see Account.client); both sides are cleared on
// logout or disconnect so neither owns the other.
type Client struct {
	// Conn holds the line transport to the client.
	Conn *Conn

	// A unique id. Internal to this server only. It keys the client in
	// channel membership maps.
	ID string

	// Server references the main server the client is connected to. It's
	// helpful to have to avoid passing server all over the place.
	Server *Server

	mu      sync.Mutex
	name    string
	account *Account
}

// NewClient creates a Client.
func NewClient(s *Server, conn net.Conn) *Client {
	var limiter *rate.Limiter
	if s.Config.FloodRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.Config.FloodRate),
			s.Config.FloodBurst)
	}

	return &Client{
		Conn:   NewConn(conn, limiter),
		ID:     uuid.New().String(),
		Server: s,
	}
}

func (c *Client) String() string {
	return fmt.Sprintf("%s %s", c.ID[:8], c.Conn.RemoteAddr())
}

// Name returns the account name bound to this session, or "" when the
// client has not logged in.
func (c *Client) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// Account returns the account bound to this session, or nil.
func (c *Client) Account() *Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.account
}

func (c *Client) bindAccount(name string, account *Account) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
	c.account = account
}

func (c *Client) unbindAccount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = ""
	c.account = nil
}
