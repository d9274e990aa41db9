package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type channelStatus int

const (
	// statusStart means no setup dialogue has run yet. The first arrival
	// claims it and moves the channel to statusSetup.
	statusStart channelStatus = iota

	// statusSetup means the owner is in the setup dialogue; everyone else
	// is turned away until it finishes.
	statusSetup

	statusReady

	// statusReset behaves like statusSetup except the owner's next arrival
	// restarts the setup dialogue.
	statusReset

	// statusFinal is terminal. Sessions connecting to a finalized channel
	// pop straight back to the previous screen.
	statusFinal
)

// builtinBufferLimit caps the channel buffer regardless of the configured
// size.
const builtinBufferLimit = 10000

const defaultReplaySize = 10

// ChannelLine is one buffered line of channel traffic.
type ChannelLine struct {
	Source string `json:"source"`
	Body   string `json:"body"`
}

func (l ChannelLine) echoTo(c *Client) error {
	return c.Conn.Print(fmt.Sprintf("[%s] %s", l.Source, l.Body))
}

// Channel is one chat room. The exported fields are the persistent state;
// connected sessions and the admin console claim are transient.
//
// The channel lock orders after the account registry lock and never nests
// it: account existence is always resolved before the channel lock is
// taken.
type Channel struct {
	mu      sync.Mutex
	adminMu sync.Mutex

	// Name is the registered name, or "" once the channel is deleted.
	Name  string `json:"name"`
	Owner string `json:"owner"`

	// Password is empty when no password is required to connect.
	Password string `json:"password"`

	Buffer []ChannelLine `json:"buffer"`

	// BufferSize limits the buffer; nil means unbounded up to the builtin
	// limit. ReplaySize limits the replay on arrival; nil means replay
	// everything.
	BufferSize *int `json:"buffer_size"`
	ReplaySize *int `json:"replay_size"`

	Status channelStatus `json:"status"`

	// MutedToMuter maps a muted account name to the names that muted it.
	// Empty muter lists are removed, so presence of a key means at least
	// one muter.
	MutedToMuter map[string][]string `json:"muted_to_muter"`

	Kicked []string `json:"kicked"`
	Banned []string `json:"banned"`

	connected map[string]*Client
	adminName string
}

func NewChannel(name, owner string) *Channel {
	replay := defaultReplaySize
	return &Channel{
		Name:         name,
		Owner:        owner,
		Buffer:       []ChannelLine{},
		ReplaySize:   &replay,
		Status:       statusStart,
		MutedToMuter: make(map[string][]string),
		Kicked:       []string{},
		Banned:       []string{},
		connected:    make(map[string]*Client),
	}
}

// restoreTransient rebuilds the session fields after loading from disk.
func (ch *Channel) restoreTransient() {
	ch.connected = make(map[string]*Client)
	ch.adminName = ""
	if ch.Buffer == nil {
		ch.Buffer = []ChannelLine{}
	}
	if ch.MutedToMuter == nil {
		ch.MutedToMuter = make(map[string][]string)
	}
	if ch.Kicked == nil {
		ch.Kicked = []string{}
	}
	if ch.Banned == nil {
		ch.Banned = []string{}
	}
}

// Connect returns the session handler that joins the client to this
// channel when pushed.
func (ch *Channel) Connect(client *Client) Handler {
	return &channelSession{channel: ch, client: client}
}

// addLine appends a line to the buffer, trimming to the effective
// capacity. Capacity zero means nothing is buffered at all.
func (ch *Channel) addLine(source, body string) ChannelLine {
	line := ChannelLine{Source: source, Body: body}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	capacity := builtinBufferLimit
	if ch.BufferSize != nil {
		capacity = minInt(*ch.BufferSize, builtinBufferLimit)
	}
	if capacity > 0 {
		ch.Buffer = append(ch.Buffer, line)
		ch.trimBuffer(capacity)
	}
	return line
}

// trimBuffer drops the oldest lines down to capacity. Caller holds ch.mu.
func (ch *Channel) trimBuffer(capacity int) {
	if len(ch.Buffer) <= capacity {
		return
	}
	trimmed := make([]ChannelLine, capacity)
	copy(trimmed, ch.Buffer[len(ch.Buffer)-capacity:])
	ch.Buffer = trimmed
}

// setBufferSize updates the size limit and trims the existing buffer so it
// never exceeds the new capacity.
func (ch *Channel) setBufferSize(size *int) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	ch.BufferSize = size
	capacity := builtinBufferLimit
	if size != nil {
		capacity = minInt(*size, builtinBufferLimit)
	}
	ch.trimBuffer(capacity)
}

// purgeUser removes a deleted account from the ban, kick, and mute state.
func (ch *Channel) purgeUser(name string) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	ch.Banned = removeAll(ch.Banned, name)
	ch.Kicked = removeAll(ch.Kicked, name)
	delete(ch.MutedToMuter, name)
	for muted, muters := range ch.MutedToMuter {
		muters = removeAll(muters, name)
		if len(muters) == 0 {
			delete(ch.MutedToMuter, muted)
		} else {
			ch.MutedToMuter[muted] = muters
		}
	}
}

// resetState restores the channel to a fresh unconfigured state owned by
// the given account. Caller holds ch.mu.
func (ch *Channel) resetState(owner string) {
	replay := defaultReplaySize
	ch.Owner = owner
	ch.Password = ""
	ch.Buffer = []ChannelLine{}
	ch.BufferSize = nil
	ch.ReplaySize = &replay
	ch.MutedToMuter = make(map[string][]string)
	ch.Banned = []string{}
}

// kickEveryone marks every connected session kicked. Caller holds ch.mu.
func (ch *Channel) kickEveryone() {
	for _, c := range ch.connected {
		ch.Kicked = append(ch.Kicked, c.Name())
	}
}

// channelSession is one client's presence on a channel.
type channelSession struct {
	channel *Channel
	client  *Client
}

func (s *channelSession) Handle() (next Handler, err error) {
	ch := s.channel

	// Membership is (re)registered on every entry: the session leaves the
	// channel while a pushed screen (the admin console) runs, and rejoins
	// when it pops back here.
	ch.mu.Lock()
	ch.connected[s.client.ID] = s.client
	ch.mu.Unlock()

	defer func() {
		name := s.client.Name()
		ch.mu.Lock()
		ch.Kicked = removeAll(ch.Kicked, name)
		delete(ch.connected, s.client.ID)
		ch.mu.Unlock()
	}()

	return s.dispatch()
}

// dispatch routes on the channel's lifecycle status. The first session to
// find the channel in start claims the setup dialogue; late arrivals see
// setup and are told to come back.
func (s *channelSession) dispatch() (Handler, error) {
	ch := s.channel
	name := s.client.Name()

	ch.mu.Lock()
	if ch.Status == statusReset && name == ch.Owner {
		ch.Status = statusStart
	}
	status := ch.Status
	if status == statusStart {
		ch.Status = statusSetup
	}
	ch.mu.Unlock()

	switch status {
	case statusStart:
		err := s.setupChannel()
		ch.mu.Lock()
		ch.Status = statusReady
		ch.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return s.runChannel()

	case statusSetup, statusReset:
		ch.mu.Lock()
		owner := ch.Owner
		ch.mu.Unlock()
		return nil, s.client.Conn.Print(owner, "is setting up this channel.")

	case statusReady:
		return s.runChannel()

	case statusFinal:
		return nil, nil
	}

	return nil, errors.Errorf("%d is not a valid channel status", status)
}

// getSize reads a non-negative size limit, with nil meaning no limit. A
// leading argument is consumed as the first answer.
func getSize(c *Client, args []string) (*int, error) {
	first := true
	for {
		var line string
		if first && len(args) > 0 {
			line = args[0]
		} else {
			var err error
			line, err = c.Conn.Input("Size limitation:")
			if err != nil {
				return nil, err
			}
		}
		first = false

		switch line {
		case "all", "infinite", "total":
			return nil, nil
		}

		size, err := strconv.Atoi(line)
		if err != nil || size < 0 {
			if err := c.Conn.Print(
				"Please enter a non-negative number."); err != nil {
				return nil, err
			}
			continue
		}
		return &size, nil
	}
}

// setupChannel walks the owner through the initial configuration.
func (s *channelSession) setupChannel() error {
	conn := s.client.Conn
	ch := s.channel

	if err := conn.Print("Channel setup started ..."); err != nil {
		return err
	}

	answer, err := conn.Input("Do you want a password?")
	if err != nil {
		return err
	}
	password := ""
	if yes(answer) {
		password, err = conn.Input("Enter password:")
		if err != nil {
			return err
		}
	}

	answer, err = conn.Input("Do you want to limit the channel buffer?")
	if err != nil {
		return err
	}
	var bufferSize *int
	if yes(answer) {
		bufferSize, err = getSize(s.client, nil)
		if err != nil {
			return err
		}
	}

	answer, err = conn.Input("Do you want to limit the buffer replay?")
	if err != nil {
		return err
	}
	replay := defaultReplaySize
	replaySize := &replay
	if yes(answer) {
		replaySize, err = getSize(s.client, nil)
		if err != nil {
			return err
		}
	}

	ch.mu.Lock()
	ch.Password = password
	ch.BufferSize = bufferSize
	ch.ReplaySize = replaySize
	ch.mu.Unlock()

	return conn.Print("Channel setup finished ...")
}

// privileged reports whether the session's user is a server administrator
// or the channel owner.
func (s *channelSession) privileged(showError bool) (bool, error) {
	if account := s.client.Account(); account != nil &&
		account.IsAdministrator() {
		return true, nil
	}

	s.channel.mu.Lock()
	owner := s.channel.Owner
	s.channel.mu.Unlock()
	if s.client.Name() == owner {
		return true, nil
	}

	if showError {
		return false, s.client.Conn.Print(
			"Only administrators or channel owner may do that.")
	}
	return false, nil
}

// isProtected reports whether the named account is shielded from ban and
// kick (channel owner or server administrator). known is false when no
// such account exists.
func (s *channelSession) isProtected(name string) (protected, known bool) {
	admin, exists := s.client.Server.Accounts.IsAdministrator(name)
	if !exists {
		return false, false
	}
	if admin {
		return true, true
	}

	s.channel.mu.Lock()
	owner := s.channel.Owner
	s.channel.mu.Unlock()
	return name == owner, true
}

func (s *channelSession) authenticate() (bool, error) {
	ch := s.channel
	ch.mu.Lock()
	password := ch.Password
	ch.mu.Unlock()

	if password == "" {
		return true, nil
	}
	if ok, err := s.privileged(false); err != nil {
		return false, err
	} else if ok {
		return true, nil
	}

	word, err := s.client.Conn.Input("Password to connect:")
	if err != nil {
		return false, err
	}
	return word == password, nil
}

// replayBuffer echoes the most recent buffered lines per the channel's
// replay size. nil replays everything; zero replays nothing.
func (s *channelSession) replayBuffer() error {
	ch := s.channel
	ch.mu.Lock()
	lines := append([]ChannelLine(nil), ch.Buffer...)
	size := ch.ReplaySize
	ch.mu.Unlock()

	if size != nil && len(lines) > *size {
		lines = lines[len(lines)-*size:]
	}
	for _, line := range lines {
		if err := line.echoTo(s.client); err != nil {
			return err
		}
	}
	return nil
}

func (s *channelSession) showStatus() error {
	ch := s.channel
	ch.mu.Lock()
	count := len(ch.connected)
	ch.mu.Unlock()

	people := "people are"
	if count == 1 {
		people = "person is"
	}
	return s.client.Conn.Print(fmt.Sprintf("%d %s connected.", count, people))
}

// broadcast fans a line out to the connected sessions. Recipients who
// muted the source and recipients already kicked are skipped; the sender
// is included only when echo is true. Per-recipient write failures are
// ignored, each session notices its own dead transport.
func (s *channelSession) broadcast(line ChannelLine, echo bool) {
	ch := s.channel

	ch.mu.Lock()
	clients := make([]*Client, 0, len(ch.connected))
	for _, c := range ch.connected {
		clients = append(clients, c)
	}
	muters := append([]string(nil), ch.MutedToMuter[line.Source]...)
	kicked := append([]string(nil), ch.Kicked...)
	ch.mu.Unlock()

	for _, dest := range clients {
		if !echo && dest == s.client {
			continue
		}
		name := dest.Name()
		if contains(kicked, name) || contains(muters, name) {
			continue
		}
		if line.echoTo(dest) == nil {
			s.client.Server.Metrics.LinesDelivered.Inc()
		}
	}
}

// runChannel is the ready-state flow: ban check, password, replay, then
// the message loop.
func (s *channelSession) runChannel() (Handler, error) {
	ch := s.channel
	conn := s.client.Conn
	name := s.client.Name()

	ch.mu.Lock()
	banned := contains(ch.Banned, name)
	ch.mu.Unlock()
	if banned {
		return nil, conn.Print("You have been banned from this channel.")
	}

	ok, err := s.authenticate()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conn.Print("You have failed authentication.")
	}

	if err := s.replayBuffer(); err != nil {
		return nil, err
	}
	if err := s.showStatus(); err != nil {
		return nil, err
	}

	s.broadcast(ChannelLine{Source: "EVENT", Body: name + " is joining."},
		false)
	next, err := s.messageLoop()
	s.broadcast(ChannelLine{Source: "EVENT", Body: name + " is leaving."},
		false)
	return next, err
}

// messageLoop broadcasts plain lines and dispatches ":" prefixed lines as
// commands. There is no prompt; the channel is a live feed.
func (s *channelSession) messageLoop() (Handler, error) {
	set := s.commands()
	conn := s.client.Conn
	name := s.client.Name()

	for {
		line, err := conn.Input("")
		if err != nil {
			return nil, err
		}

		s.channel.mu.Lock()
		kicked := contains(s.channel.Kicked, name)
		s.channel.mu.Unlock()
		if kicked {
			return nil, conn.Print(
				"You have been kicked out of this channel.")
		}

		if strings.HasPrefix(line, ":") {
			next, result, err := set.runLine(line[1:])
			if err != nil {
				return nil, err
			}
			switch result {
			case cmdMute:
			case cmdNotFound:
				if err := conn.Print("Command not found!"); err != nil {
					return nil, err
				}
			case cmdPop:
				return nil, nil
			default:
				if next != nil {
					return next, nil
				}
			}
			continue
		}

		s.broadcast(s.channel.addLine(name, line), true)
	}
}

func (s *channelSession) commands() *commandSet {
	set := newCommandSet(s.client)

	set.add("admin", "Open the channel admin console.", s.doAdmin)
	set.add("ban", "Ban users from the channel: ban add|del|list [name].",
		s.doBan)
	set.add("invite", "Invite a user to this channel.", s.doInvite)
	set.add("kick", "Kick a user off the channel.", s.doKick)
	set.add("list", "List who is connected to the channel.", s.doList)
	set.add("mute", "Mute a user for yourself: mute add|del|list [name].",
		s.doMute)
	set.add("wisper", "Send a private line to one connected user.",
		s.doWisper)
	set.add("summary", "Summarize the channel buffer.", s.doSummary)

	reserved := func([]string) (Handler, error) {
		if ok, err := s.privileged(true); err != nil || !ok {
			return nil, err
		}
		return nil, s.client.Conn.Print(
			"Reserved command for future expansion ...")
	}
	set.add("bot", "Reserved.", reserved)
	set.add("map", "Reserved.", reserved)
	set.add("run", "Reserved.", reserved)

	return set
}

func (s *channelSession) doAdmin([]string) (Handler, error) {
	if ok, err := s.privileged(true); err != nil || !ok {
		return nil, err
	}
	return newChannelAdmin(s.client, s.channel), nil
}

// getName reads a target account name, from args when given.
func getName(c *Client, args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return c.Conn.Input(prompt)
}

func (s *channelSession) doBan(args []string) (Handler, error) {
	if ok, err := s.privileged(true); err != nil || !ok {
		return nil, err
	}
	conn := s.client.Conn

	if len(args) == 0 {
		return nil, conn.Print("Try ban add, del, or list.")
	}
	action, rest := args[0], args[1:]

	switch action {
	case "add":
		name, err := getName(s.client, rest, "Who do you want to ban?")
		if err != nil {
			return nil, err
		}
		protected, known := s.isProtected(name)
		if !known {
			return nil, conn.Print(name, "does not exist.")
		}
		if protected {
			return nil, conn.Print(name, "cannot be banned.")
		}

		// Banning also ejects the target if they are on the channel now.
		s.channel.mu.Lock()
		already := contains(s.channel.Banned, name)
		if !already {
			s.channel.Banned = append(s.channel.Banned, name)
			for _, c := range s.channel.connected {
				if c.Name() == name {
					s.channel.Kicked = append(s.channel.Kicked, name)
					break
				}
			}
		}
		s.channel.mu.Unlock()

		if already {
			return nil, conn.Print(name, "was already banned.")
		}
		return nil, conn.Print(name, "has been banned.")

	case "del":
		name, err := getName(s.client, rest, "Who do you want to unban?")
		if err != nil {
			return nil, err
		}

		s.channel.mu.Lock()
		present := contains(s.channel.Banned, name)
		s.channel.Banned = removeAll(s.channel.Banned, name)
		s.channel.mu.Unlock()

		if !present {
			return nil, conn.Print(name, "was not banned.")
		}
		return nil, conn.Print(name, "has been unbanned.")

	case "list":
		s.channel.mu.Lock()
		banned := append([]string(nil), s.channel.Banned...)
		s.channel.mu.Unlock()

		if len(banned) == 0 {
			return nil, conn.Print("No one is banned from this channel.")
		}
		return nil, conn.Print("Banned users:\n    " +
			strings.Join(banned, "\n    "))
	}

	return nil, conn.Print("Try ban add, del, or list.")
}

func (s *channelSession) doInvite(args []string) (Handler, error) {
	conn := s.client.Conn
	sender := s.client.Name()
	ch := s.channel

	ch.mu.Lock()
	channelName := ch.Name
	password := ch.Password
	owner := ch.Owner
	ch.mu.Unlock()

	if channelName == "" {
		return nil, conn.Print("Deleted channels have no name to invite to.")
	}

	// Only the privileged may hand out the password with the invite.
	if password != "" {
		admin := false
		if account := s.client.Account(); account != nil {
			admin = account.IsAdministrator()
		}
		if !admin && sender != owner {
			return nil, conn.Print(
				"Only administrators or channel owner may invite here.")
		}
	}

	name, err := getName(s.client, args, "Who do you want to invite?")
	if err != nil {
		return nil, err
	}
	if name == sender {
		return nil, conn.Print("There is no point in inviting yourself.")
	}

	text := fmt.Sprintf("%s has invited you to channel %s.", sender,
		channelName)
	if password != "" {
		text += fmt.Sprintf("\n\nUse this to get in: %q", password)
	}

	if !s.client.Server.Accounts.Deliver(sender, name, text) {
		return nil, conn.Print(name, "does not exist.")
	}
	s.client.Server.Metrics.MessagesDelivered.Inc()
	return nil, conn.Print("Invitation has been sent.")
}

func (s *channelSession) doKick(args []string) (Handler, error) {
	if ok, err := s.privileged(true); err != nil || !ok {
		return nil, err
	}
	return nil, s.kickUser(args, true)
}

// kickUser marks a connected user kicked. The target notices on its next
// read and leaves.
func (s *channelSession) kickUser(args []string, verbose bool) error {
	conn := s.client.Conn

	name, err := getName(s.client, args, "Who do you want to kick?")
	if err != nil {
		return err
	}

	protected, known := s.isProtected(name)
	if !known {
		return conn.Print(name, "does not exist.")
	}
	if protected {
		return conn.Print(name, "cannot be kicked.")
	}

	ch := s.channel
	ch.mu.Lock()
	present := false
	for _, c := range ch.connected {
		if c.Name() == name {
			present = true
			break
		}
	}
	if present {
		ch.Kicked = append(ch.Kicked, name)
	}
	ch.mu.Unlock()

	if !present {
		return conn.Print(name, "is not on this channel.")
	}
	if verbose {
		return conn.Print(name, "has been kicked.")
	}
	return nil
}

func (s *channelSession) doList([]string) (Handler, error) {
	ch := s.channel
	ch.mu.Lock()
	names := make([]string, 0, len(ch.connected))
	for _, c := range ch.connected {
		names = append(names, c.Name())
	}
	ch.mu.Unlock()
	sort.Strings(names)

	return nil, s.client.Conn.Print("Connected users:\n    " +
		strings.Join(names, "\n    "))
}

func (s *channelSession) doMute(args []string) (Handler, error) {
	conn := s.client.Conn
	muter := s.client.Name()
	ch := s.channel

	if len(args) == 0 {
		return nil, conn.Print("Try mute add, del, or list.")
	}
	action, rest := args[0], args[1:]

	switch action {
	case "add":
		name, err := getName(s.client, rest, "Who do you want to mute?")
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, conn.Print("Cancelling ...")
		}
		// A name may never appear as its own muter.
		if name == muter {
			return nil, conn.Print("There is no point in muting yourself.")
		}
		if !s.client.Server.Accounts.Exists(name) {
			return nil, conn.Print(name, "does not exist.")
		}

		ch.mu.Lock()
		already := contains(ch.MutedToMuter[name], muter)
		if !already {
			ch.MutedToMuter[name] = append(ch.MutedToMuter[name], muter)
		}
		ch.mu.Unlock()

		if already {
			return nil, conn.Print(name, "was already muted.")
		}
		return nil, conn.Print(name, "has been muted.")

	case "del":
		name, err := getName(s.client, rest, "Who do you want to unmute?")
		if err != nil {
			return nil, err
		}

		ch.mu.Lock()
		present := contains(ch.MutedToMuter[name], muter)
		if present {
			muters := removeAll(ch.MutedToMuter[name], muter)
			if len(muters) == 0 {
				delete(ch.MutedToMuter, name)
			} else {
				ch.MutedToMuter[name] = muters
			}
		}
		ch.mu.Unlock()

		if !present {
			return nil, conn.Print(name, "was not muted.")
		}
		return nil, conn.Print(name, "has been unmuted.")

	case "list":
		ch.mu.Lock()
		muted := []string{}
		for name, muters := range ch.MutedToMuter {
			if contains(muters, muter) {
				muted = append(muted, name)
			}
		}
		ch.mu.Unlock()
		sort.Strings(muted)

		if len(muted) == 0 {
			return nil, conn.Print("Your list is empty.")
		}
		return nil, conn.Print("You have muted:\n    " +
			strings.Join(muted, "\n    "))
	}

	return nil, conn.Print("Try mute add, del, or list.")
}

// mayWisper returns the connected client for name, or nil when the target
// is absent or has muted the sender.
func (s *channelSession) mayWisper(name string) *Client {
	ch := s.channel
	sender := s.client.Name()

	ch.mu.Lock()
	muted := contains(ch.MutedToMuter[sender], name)
	clients := make([]*Client, 0, len(ch.connected))
	for _, c := range ch.connected {
		clients = append(clients, c)
	}
	ch.mu.Unlock()

	if muted {
		return nil
	}
	for _, c := range clients {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func (s *channelSession) doWisper(args []string) (Handler, error) {
	conn := s.client.Conn

	name, err := getName(s.client, args, "Who do you want to wisper to?")
	if err != nil {
		return nil, err
	}

	var text string
	if len(args) > 1 {
		text = strings.Join(args[1:], " ")
	} else {
		text, err = conn.Input("What do you want to say?")
		if err != nil {
			return nil, err
		}
	}
	if text == "" {
		return nil, conn.Print("You may not wisper empty messages.")
	}

	if target := s.mayWisper(name); target != nil {
		_ = target.Conn.Print(fmt.Sprintf("(%s) %s", s.client.Name(), text))
		return nil, conn.Print("Wisper has been sent.")
	}

	// Absent targets, and targets who muted the sender, get the wisper in
	// their inbox instead.
	if !s.client.Server.Accounts.Deliver(s.client.Name(), name, text) {
		return nil, conn.Print(name, "does not exist.")
	}
	s.client.Server.Metrics.MessagesDelivered.Inc()
	return nil, conn.Print("Wisper has been delivered to their inbox.")
}

func (s *channelSession) doSummary([]string) (Handler, error) {
	ch := s.channel
	ch.mu.Lock()
	lines := append([]ChannelLine(nil), ch.Buffer...)
	ch.mu.Unlock()

	if len(lines) == 0 {
		return nil, s.client.Conn.Print("There is nothing to summarize.")
	}
	return newMarkVShaney(s.client, s.channel, lines), nil
}
