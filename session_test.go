package main

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// net.Pipe addresses have no host:port shape, so RemoteIP falls back to
// the whole address string.
const pipeAddress = "pipe"

func TestBanFilterBlocksBannedPeer(t *testing.T) {
	s := newTestServer()
	client, _ := newTestClient(t, s)
	s.Bans.Add(pipeAddress)

	filter := &BanFilter{client: client}
	next, err := filter.Handle()
	require.Nil(t, next)
	require.True(t, errors.Is(err, errConnClosed))
	require.True(t, client.Conn.Closed())
}

func TestBanFilterPassesAndSaysGoodbye(t *testing.T) {
	s := newTestServer()
	client, lines := newTestClient(t, s)

	filter := &BanFilter{client: client}
	next, err := filter.Handle()
	require.NoError(t, err)
	require.IsType(t, &OutsideMenu{}, next)

	// Popping back to the filter ends the session.
	next, err = filter.Handle()
	require.Nil(t, next)
	require.True(t, errors.Is(err, errConnClosed))
	require.Equal(t, "Disconnecting ...", recvLine(t, lines))
	require.True(t, client.Conn.Closed())
}

func TestForgivenessTrap(t *testing.T) {
	s := newTestServer()

	// The first account is the administrator; carol is not.
	s.Accounts.Register("admin", "pw")
	client, lines := newTestClient(t, s)
	loginTestClient(t, s, client, "carol")

	menu := &InsideMenu{client: client}

	next, err := menu.doAdmin(nil)
	require.Nil(t, next)
	require.True(t, errors.Is(err, errPop))
	require.Equal(t, "You are not authorized to be here.",
		recvLine(t, lines))
	require.True(t, s.Accounts.Exists("carol"))

	next, err = menu.doAdmin(nil)
	require.Nil(t, next)
	require.True(t, errors.Is(err, errConnClosed))
	require.Equal(t, "You have been warned for the last time!",
		recvLine(t, lines))

	require.False(t, s.Accounts.Exists("carol"))
	require.True(t, s.Bans.Matches(pipeAddress))
	require.True(t, client.Conn.Closed())
}

func TestAdminConsoleReachableByAdministrator(t *testing.T) {
	s := newTestServer()
	client, _ := newTestClient(t, s)
	account := loginTestClient(t, s, client, "admin")
	require.True(t, account.IsAdministrator())

	menu := &InsideMenu{client: client}
	next, err := menu.doAdmin(nil)
	require.NoError(t, err)
	require.IsType(t, &AdminConsole{}, next)
}

func TestChannelAdminSingleWriter(t *testing.T) {
	s := newTestServer()
	ch := NewChannel("general", "alice")
	ch.adminMu.Lock()
	ch.mu.Lock()
	ch.adminName = "alice"
	ch.mu.Unlock()

	client, lines := newTestClient(t, s)
	loginTestClient(t, s, client, "bob")

	admin := newChannelAdmin(client, ch)
	next, err := admin.Handle()
	require.NoError(t, err)
	require.Nil(t, next)
	require.Equal(t, "alice is currently using the admin console.",
		recvLine(t, lines))

	ch.adminMu.Unlock()
}
