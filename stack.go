package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/pkg/errors"
)

// Stack drives one connection through its tree of modal screens. It is a
// plain stack machine: push what Handle returns, pop on nil, stop when the
// stack empties or the transport dies.
type Stack struct {
	client *Client
	stack  []Handler
}

// NewStack seeds the stack with the connection's first screen.
func NewStack(root Handler, client *Client) *Stack {
	return &Stack{
		client: client,
		stack:  []Handler{root},
	}
}

// Run processes the client's handlers until the session ends. It runs on
// the connection's worker goroutine.
func (st *Stack) Run() {
	defer st.client.Server.WG.Done()
	defer st.teardown()

	for len(st.stack) > 0 {
		next, err := safeHandle(st.stack[len(st.stack)-1])
		if err != nil {
			if errors.Is(err, errConnClosed) {
				st.client.Server.log.Info().Msgf("Client %s: %s", st.client, err)
				return
			}
			// A programming error. Isolate it to this session: show the
			// client a bordered report and tear the session down.
			st.client.Server.log.Error().Msgf("Client %s: unexpected error: %+v",
				st.client, err)
			st.reportError(err)
			return
		}

		if next == nil {
			st.stack = st.stack[:len(st.stack)-1]
		} else {
			st.stack = append(st.stack, next)
		}
	}
}

// safeHandle invokes the top handler, converting a panic into an error so
// one client's crash never takes out the process.
func safeHandle(h Handler) (next Handler, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v\n\n%s", r, debug.Stack())
		}
	}()
	return h.Handle()
}

func (st *Stack) reportError(err error) {
	border := strings.Repeat("X", 70)
	conn := st.client.Conn

	// Best effort. The transport may already be gone.
	_ = conn.Print(border)
	_ = conn.Print("Please report this error ASAP!")
	_ = conn.Print(border)
	_ = conn.Print(fmt.Sprintf("%+v", err))
	_ = conn.Print(border)
}

func (st *Stack) teardown() {
	st.client.Server.removeClient(st.client)

	if account := st.client.Account(); account != nil {
		account.setOffline(st.client)
	}
	st.client.unbindAccount()

	if !st.client.Conn.Closed() {
		_ = st.client.Conn.Close()
	}

	st.client.Server.Metrics.SessionsActive.Dec()
	st.client.Server.log.Info().Msgf("Client %s: session ended", st.client)
}
