package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()

	source := newTestServer()
	alice, _ := source.Accounts.Register("alice", "pw1")
	source.Accounts.Register("bob", "pw2")
	require.NoError(t, alice.AddContact("bob", source.Accounts))
	source.Accounts.Deliver("bob", "alice", "hello\n\nthere")
	source.Bans.Add("10.0.0.1")

	general := source.Channels.OpenOrCreate("general", "alice")
	general.addLine("alice", "first line")
	general.addLine("bob", "second line")
	general.mu.Lock()
	general.Password = "secret"
	general.Status = statusReady
	general.MutedToMuter = map[string][]string{"bob": {"alice"}}
	general.Banned = []string{"carol"}
	general.mu.Unlock()
	source.Channels.OpenOrCreate("random", "bob")

	require.NoError(t, saveState(dir, source))

	restored := newTestServer()
	require.NoError(t, loadState(dir, restored))

	require.True(t, restored.Accounts.Exists("alice"))
	require.True(t, restored.Accounts.Exists("bob"))

	loaded := restored.Accounts.Lookup("alice")
	require.True(t, loaded.IsAdministrator())
	require.True(t, loaded.CheckPassword("pw1"))
	require.Equal(t, []string{"bob"}, loaded.ContactsSnapshot())
	require.Equal(t, 1, loaded.NewMessageCount())
	require.Equal(t, "hello\n\nthere", loaded.MessagesSnapshot()[0].Body)

	// Session state never survives a restart.
	require.False(t, loaded.Online())

	require.True(t, restored.Bans.Matches("10.0.0.1"))
	require.Equal(t, []string{"general", "random"}, restored.Channels.Names())

	ch := restored.Channels.OpenOrCreate("general", "ignored")
	ch.mu.Lock()
	defer ch.mu.Unlock()
	require.Equal(t, "alice", ch.Owner)
	require.Equal(t, "secret", ch.Password)
	require.Equal(t, statusReady, ch.Status)
	require.Len(t, ch.Buffer, 2)
	require.Equal(t, ChannelLine{Source: "alice", Body: "first line"},
		ch.Buffer[0])
	require.Equal(t, map[string][]string{"bob": {"alice"}}, ch.MutedToMuter)
	require.Equal(t, []string{"carol"}, ch.Banned)
	require.NotNil(t, ch.connected)
	require.Equal(t, defaultReplaySize, *ch.ReplaySize)
}

func TestLoadStateMissingFilesIsFresh(t *testing.T) {
	s := newTestServer()
	require.NoError(t, loadState(t.TempDir(), s))
	require.Equal(t, 0, s.Accounts.Count())
	require.Empty(t, s.Channels.Names())
	require.Empty(t, s.Bans.List())
}

func TestLoadStateDropsOrphanedChannelName(t *testing.T) {
	dir := t.TempDir()

	source := newTestServer()
	source.Channels.OpenOrCreate("general", "alice")
	require.NoError(t, saveState(dir, source))

	// Lose the channel snapshot but keep the name binding.
	require.NoError(t, os.Remove(persistPath(dir, "ChannelRegistry",
		channelField(1))))

	restored := newTestServer()
	require.NoError(t, loadState(dir, restored))
	require.Empty(t, restored.Channels.Names())
}
