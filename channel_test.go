package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelBufferTrim(t *testing.T) {
	tests := []struct {
		size   *int
		lines  int
		kept   int
		oldest string
	}{
		{intPtr(3), 5, 3, "line 2"},
		{intPtr(0), 5, 0, ""},
		{nil, 5, 5, "line 0"},
		{intPtr(20000), 5, 5, "line 0"},
	}

	for _, test := range tests {
		ch := NewChannel("general", "alice")
		ch.BufferSize = test.size

		for i := 0; i < test.lines; i++ {
			ch.addLine("alice", fmt.Sprintf("line %d", i))
		}

		ch.mu.Lock()
		got := append([]ChannelLine(nil), ch.Buffer...)
		ch.mu.Unlock()

		if len(got) != test.kept {
			t.Errorf("size %v: kept %d lines, wanted %d", test.size,
				len(got), test.kept)
			continue
		}
		if test.kept > 0 && got[0].Body != test.oldest {
			t.Errorf("size %v: oldest is %q, wanted %q", test.size,
				got[0].Body, test.oldest)
		}
	}
}

func TestChannelSetBufferSizeTrims(t *testing.T) {
	ch := NewChannel("general", "alice")
	for i := 0; i < 10; i++ {
		ch.addLine("alice", fmt.Sprintf("line %d", i))
	}

	two := 2
	ch.setBufferSize(&two)

	ch.mu.Lock()
	defer ch.mu.Unlock()
	require.Len(t, ch.Buffer, 2)
	require.Equal(t, "line 8", ch.Buffer[0].Body)
	require.Equal(t, "line 9", ch.Buffer[1].Body)
}

func TestChannelReplaySizes(t *testing.T) {
	s := newTestServer()

	makeSession := func(replay *int) (*channelSession, <-chan string) {
		client, lines := newTestClient(t, s)
		loginTestClient(t, s, client, fmt.Sprintf("user%p", client))

		ch := NewChannel("general", "owner")
		ch.ReplaySize = replay
		for i := 0; i < 4; i++ {
			ch.addLine("owner", fmt.Sprintf("line %d", i))
		}
		return &channelSession{channel: ch, client: client}, lines
	}

	// nil replays the whole buffer.
	session, lines := makeSession(nil)
	require.NoError(t, session.replayBuffer())
	require.Equal(t, "[owner] line 0", recvLine(t, lines))

	// Zero replays nothing; the next write is the status line.
	session, lines = makeSession(intPtr(0))
	require.NoError(t, session.replayBuffer())
	require.NoError(t, session.showStatus())
	require.Equal(t, "0 people are connected.", recvLine(t, lines))

	// A small limit replays only the newest lines.
	session, lines = makeSession(intPtr(2))
	require.NoError(t, session.replayBuffer())
	require.Equal(t, "[owner] line 2", recvLine(t, lines))
	require.Equal(t, "[owner] line 3", recvLine(t, lines))
}

func TestBroadcastPolicy(t *testing.T) {
	s := newTestServer()
	ch := NewChannel("general", "alice")

	alice, aliceLines := newTestClient(t, s)
	loginTestClient(t, s, alice, "alice")
	bob, bobLines := newTestClient(t, s)
	loginTestClient(t, s, bob, "bob")
	carol, carolLines := newTestClient(t, s)
	loginTestClient(t, s, carol, "carol")
	dave, daveLines := newTestClient(t, s)
	loginTestClient(t, s, dave, "dave")

	ch.mu.Lock()
	for _, c := range []*Client{alice, bob, carol, dave} {
		ch.connected[c.ID] = c
	}
	// carol muted alice; dave is already scheduled for ejection.
	ch.MutedToMuter["alice"] = []string{"carol"}
	ch.Kicked = []string{"dave"}
	ch.mu.Unlock()

	session := &channelSession{channel: ch, client: alice}

	// A plain message echoes to the sender, skips the muter and the
	// kicked.
	session.broadcast(ChannelLine{Source: "alice", Body: "hello"}, true)
	require.Equal(t, "[alice] hello", recvLine(t, aliceLines))
	require.Equal(t, "[alice] hello", recvLine(t, bobLines))

	// An EVENT line does not echo to its originator.
	session.broadcast(ChannelLine{Source: "EVENT", Body: "alice is joining."},
		false)
	require.Equal(t, "[EVENT] alice is joining.", recvLine(t, bobLines))
	require.Equal(t, "[EVENT] alice is joining.", recvLine(t, carolLines))

	select {
	case line := <-carolLines:
		t.Fatalf("carol received %q despite muting alice", line)
	case line := <-daveLines:
		t.Fatalf("dave received %q despite being kicked", line)
	default:
	}
}

func TestChannelPurgeUser(t *testing.T) {
	ch := NewChannel("general", "alice")
	ch.mu.Lock()
	ch.Banned = []string{"bob", "carol", "bob"}
	ch.Kicked = []string{"bob"}
	ch.MutedToMuter = map[string][]string{
		"bob":   {"alice"},
		"carol": {"bob"},
		"dave":  {"bob", "alice"},
	}
	ch.mu.Unlock()

	ch.purgeUser("bob")

	ch.mu.Lock()
	defer ch.mu.Unlock()
	require.Equal(t, []string{"carol"}, ch.Banned)
	require.Empty(t, ch.Kicked)
	require.Equal(t, map[string][]string{"dave": {"alice"}}, ch.MutedToMuter)
}

func TestMuteSelfRejected(t *testing.T) {
	s := newTestServer()
	client, lines := newTestClient(t, s)
	loginTestClient(t, s, client, "bob")

	ch := NewChannel("general", "alice")
	session := &channelSession{channel: ch, client: client}

	next, err := session.doMute([]string{"add", "bob"})
	require.NoError(t, err)
	require.Nil(t, next)
	require.Equal(t, "There is no point in muting yourself.",
		recvLine(t, lines))

	ch.mu.Lock()
	defer ch.mu.Unlock()
	require.Empty(t, ch.MutedToMuter)
}

func TestWisperEmptyMessageRejected(t *testing.T) {
	s := newTestServer()
	client, lines := newScriptedClient(t, s, "")
	loginTestClient(t, s, client, "alice")

	ch := NewChannel("general", "alice")
	session := &channelSession{channel: ch, client: client}

	next, err := session.doWisper([]string{"bob"})
	require.NoError(t, err)
	require.Nil(t, next)
	require.Equal(t, "What do you want to say?", recvLine(t, lines))
	require.Equal(t, "You may not wisper empty messages.",
		recvLine(t, lines))
}

func TestWisperFallsBackToInbox(t *testing.T) {
	s := newTestServer()
	client, lines := newTestClient(t, s)
	loginTestClient(t, s, client, "alice")
	s.Accounts.Register("bob", "pw")

	ch := NewChannel("general", "alice")
	session := &channelSession{channel: ch, client: client}

	next, err := session.doWisper([]string{"bob", "are", "you", "there"})
	require.NoError(t, err)
	require.Nil(t, next)
	require.Equal(t, "Wisper has been delivered to their inbox.",
		recvLine(t, lines))

	messages := s.Accounts.Lookup("bob").MessagesSnapshot()
	require.Len(t, messages, 1)
	require.Equal(t, "are you there", messages[0].Body)
	require.Equal(t, "alice", messages[0].Source)
}

func TestChannelRegistry(t *testing.T) {
	registry := NewChannelRegistry()

	general := registry.OpenOrCreate("general", "alice")
	require.Same(t, general, registry.OpenOrCreate("general", "bob"))
	require.Equal(t, "alice", general.Owner)
	require.True(t, registry.Exists("general"))

	registry.OpenOrCreate("random", "bob")
	require.Equal(t, []string{"general", "random"}, registry.Names())

	require.False(t, registry.Rename("general", "random"))
	require.True(t, registry.Rename("general", "lobby"))
	require.Equal(t, []string{"lobby", "random"}, registry.Names())

	require.True(t, registry.Delete("lobby"))
	require.False(t, registry.Delete("lobby"))
	require.Equal(t, []string{"random"}, registry.Names())
}

func TestChannelResetState(t *testing.T) {
	ch := NewChannel("general", "alice")
	ch.mu.Lock()
	ch.Password = "secret"
	ch.Banned = []string{"bob"}
	ch.MutedToMuter = map[string][]string{"bob": {"alice"}}
	ch.addLineLockedForTest("alice", "hello")
	ch.resetState("bob")
	ch.mu.Unlock()

	require.Equal(t, "bob", ch.Owner)
	require.Equal(t, "", ch.Password)
	require.Empty(t, ch.Buffer)
	require.Empty(t, ch.Banned)
	require.Empty(t, ch.MutedToMuter)
	require.Nil(t, ch.BufferSize)
	require.Equal(t, defaultReplaySize, *ch.ReplaySize)
}

// addLineLockedForTest appends without taking the lock, for tests that
// already hold it.
func (ch *Channel) addLineLockedForTest(source, body string) {
	ch.Buffer = append(ch.Buffer, ChannelLine{Source: source, Body: body})
}

func intPtr(n int) *int { return &n }
