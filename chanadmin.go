package main

import (
	"fmt"
	"strings"
)

// ChannelAdmin is the per-channel management console. Only one session may
// hold it at a time; a second privileged user asking for it is told who is
// inside and bounced back to the channel.
type ChannelAdmin struct {
	client  *Client
	channel *Channel
}

func newChannelAdmin(client *Client, channel *Channel) *ChannelAdmin {
	return &ChannelAdmin{client: client, channel: channel}
}

func (a *ChannelAdmin) Handle() (Handler, error) {
	ch := a.channel

	if !ch.adminMu.TryLock() {
		ch.mu.Lock()
		admin := ch.adminName
		ch.mu.Unlock()
		return nil, a.client.Conn.Print(admin,
			"is currently using the admin console.")
	}

	ch.mu.Lock()
	ch.adminName = a.client.Name()
	ch.mu.Unlock()
	defer func() {
		ch.mu.Lock()
		ch.adminName = ""
		ch.mu.Unlock()
		ch.adminMu.Unlock()
	}()

	if err := a.client.Conn.Print(
		"Opening channel admin console ..."); err != nil {
		return nil, err
	}
	return a.commands().loop("")
}

func (a *ChannelAdmin) commands() *commandSet {
	set := newCommandSet(a.client)

	set.add("buffer", "Set the channel buffer size limit.", a.doBuffer)
	set.add("replay", "Set how many buffered lines replay on arrival.",
		a.doReplay)
	set.add("purge", "Clear the channel buffer.", a.doPurge)
	set.add("history", "Show the full channel buffer.", a.doHistory)
	set.add("settings", "Show the channel settings.", a.doSettings)
	set.add("owner", "Hand the channel to another account.", a.doOwner)
	set.add("password", "Set or unset the channel password.", a.doPassword)
	set.add("rename", "Rename the channel.", a.doRename)
	set.add("close", "Kick everyone off the channel.", a.doClose)
	set.add("delete", "Remove the channel's name from the listing.",
		a.doDelete)
	set.add("reset", "Kick everyone and restart channel setup.", a.doReset)
	set.add("finalize", "Permanently shut the channel down.", a.doFinalize)

	return set
}

func (a *ChannelAdmin) doBuffer(args []string) (Handler, error) {
	size, err := getSize(a.client, args)
	if err != nil {
		return nil, err
	}
	a.channel.setBufferSize(size)
	return nil, a.client.Conn.Print("Buffer size has been set.")
}

func (a *ChannelAdmin) doReplay(args []string) (Handler, error) {
	size, err := getSize(a.client, args)
	if err != nil {
		return nil, err
	}

	a.channel.mu.Lock()
	a.channel.ReplaySize = size
	a.channel.mu.Unlock()
	return nil, a.client.Conn.Print("Replay size has been set.")
}

func (a *ChannelAdmin) doPurge([]string) (Handler, error) {
	a.channel.mu.Lock()
	a.channel.Buffer = []ChannelLine{}
	a.channel.mu.Unlock()
	return nil, a.client.Conn.Print("The buffer has been cleared.")
}

func (a *ChannelAdmin) doHistory([]string) (Handler, error) {
	a.channel.mu.Lock()
	lines := append([]ChannelLine(nil), a.channel.Buffer...)
	a.channel.mu.Unlock()

	if len(lines) == 0 {
		return nil, a.client.Conn.Print("The channel buffer is empty.")
	}
	for _, line := range lines {
		if err := line.echoTo(a.client); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func sizeText(size *int) string {
	if size == nil {
		return "Infinite"
	}
	return fmt.Sprint(*size)
}

func (a *ChannelAdmin) doSettings([]string) (Handler, error) {
	ch := a.channel
	ch.mu.Lock()
	name := ch.Name
	owner := ch.Owner
	password := ch.Password
	buffered := len(ch.Buffer)
	bufferSize := sizeText(ch.BufferSize)
	replaySize := sizeText(ch.ReplaySize)
	ch.mu.Unlock()

	if name == "" {
		name = "<deleted>"
	}
	protection := "off"
	if password != "" {
		protection = "on"
	}

	return nil, a.client.Conn.Print(strings.Join([]string{
		"Name:             " + name,
		"Owner:            " + owner,
		"Password:         " + protection,
		"Buffer size:      " + bufferSize,
		"Replay size:      " + replaySize,
		fmt.Sprintf("Buffered lines:   %d", buffered),
	}, "\n"))
}

func (a *ChannelAdmin) doOwner(args []string) (Handler, error) {
	conn := a.client.Conn

	name, err := getName(a.client, args, "Who should own this channel?")
	if err != nil {
		return nil, err
	}
	if name == "" || hasWhitespace(name) {
		return nil, conn.Print("That is not a valid account name.")
	}

	// Resolve existence before the channel lock; the account registry is
	// never consulted while a channel lock is held.
	if !a.client.Server.Accounts.Exists(name) {
		return nil, conn.Print(name, "does not exist.")
	}

	ch := a.channel
	ch.mu.Lock()
	same := name == ch.Owner
	if !same {
		ch.Owner = name
	}
	ch.mu.Unlock()

	if same {
		return nil, conn.Print(name, "already owns this channel.")
	}
	return nil, conn.Print(name, "now owns this channel.")
}

func (a *ChannelAdmin) doPassword(args []string) (Handler, error) {
	conn := a.client.Conn

	if len(args) == 0 {
		return nil, conn.Print("Try password set or unset.")
	}

	switch args[0] {
	case "set":
		word, err := conn.Input("Enter password:")
		if err != nil {
			return nil, err
		}
		if word == "" {
			return nil, conn.Print("Empty password may not be set.")
		}
		a.channel.mu.Lock()
		a.channel.Password = word
		a.channel.mu.Unlock()
		return nil, conn.Print("Password has been set.")

	case "unset":
		a.channel.mu.Lock()
		a.channel.Password = ""
		a.channel.mu.Unlock()
		return nil, conn.Print("Password has been unset.")
	}

	return nil, conn.Print("Try password set or unset.")
}

func (a *ChannelAdmin) doRename(args []string) (Handler, error) {
	conn := a.client.Conn

	name, err := getName(a.client, args, "What should the channel be called?")
	if err != nil {
		return nil, err
	}
	if name == "" || hasWhitespace(name) {
		return nil, conn.Print("That is not a valid channel name.")
	}

	// The channel lock covers the registry rebind so the binding and the
	// channel's own name never diverge. Channel lock before channel
	// registry lock is the fixed order.
	ch := a.channel
	ch.mu.Lock()
	deleted := ch.Name == ""
	renamed := false
	if !deleted {
		renamed = a.client.Server.Channels.Rename(ch.Name, name)
		if renamed {
			ch.Name = name
		}
	}
	ch.mu.Unlock()

	if deleted {
		return nil, conn.Print("Deleted channels cannot be renamed.")
	}
	if !renamed {
		return nil, conn.Print(name, "is already taken.")
	}
	return nil, conn.Print("Channel has been renamed.")
}

func (a *ChannelAdmin) doClose([]string) (Handler, error) {
	a.channel.mu.Lock()
	a.channel.kickEveryone()
	a.channel.mu.Unlock()
	return nil, a.client.Conn.Print(
		"Everyone has been kicked off the channel.")
}

func (a *ChannelAdmin) doDelete([]string) (Handler, error) {
	ch := a.channel
	ch.mu.Lock()
	deleted := ch.Name == ""
	if !deleted {
		a.client.Server.Channels.Delete(ch.Name)
		ch.Name = ""
	}
	ch.mu.Unlock()

	if deleted {
		return nil, a.client.Conn.Print("Channel was already deleted.")
	}
	return nil, a.client.Conn.Print("Channel has been deleted.")
}

func (a *ChannelAdmin) doReset([]string) (Handler, error) {
	ch := a.channel
	ch.mu.Lock()
	ch.Status = statusReset
	ch.kickEveryone()
	ch.resetState(a.client.Name())
	ch.mu.Unlock()

	return nil, a.client.Conn.Print(
		"Channel has been reset, and you are its owner.")
}

func (a *ChannelAdmin) doFinalize([]string) (Handler, error) {
	ch := a.channel
	ch.mu.Lock()
	ch.Status = statusFinal
	if ch.Name != "" {
		a.client.Server.Channels.Delete(ch.Name)
		ch.Name = ""
	}
	ch.kickEveryone()
	ch.mu.Unlock()

	if err := a.client.Conn.Print(
		"Channel has been permanently closed."); err != nil {
		return nil, err
	}
	return nil, errPop
}
