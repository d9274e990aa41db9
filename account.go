package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Message is one inbox entry. New is true on arrival and cleared once the
// message has been read in full. Source and Body never change after
// delivery; New is guarded by the owning account's lock.
type Message struct {
	Source string `json:"source"`
	Body   string `json:"body"`
	New    bool   `json:"new"`
}

var (
	errNoSuchAccount = errors.New("account does not exist")
	errContactExists = errors.New("contact already present")
	errNoSuchContact = errors.New("contact not present")
	errWrongPassword = errors.New("wrong password")
	errEmptyPassword = errors.New("password may not be empty")
)

// Account holds one user's persistent state plus the transient session
// fields. The exported fields are what the persistence codec writes out;
// online and client are rebuilt as "offline / no client" on load.
type Account struct {
	mu sync.Mutex

	Administrator bool       `json:"administrator"`
	Password      string     `json:"password"`
	Contacts      []string   `json:"contacts"`
	Messages      []*Message `json:"messages"`
	Forgiven      int        `json:"forgiven"`

	// Transient. The client reference is cleared whenever the session
	// ends, so it never keeps a dead connection alive.
	online bool
	client *Client
}

// NewAccount creates an account. The first registered account becomes an
// administrator.
func NewAccount(administrator bool) *Account {
	return &Account{
		Administrator: administrator,
		Contacts:      []string{},
		Messages:      []*Message{},
	}
}

// restoreTransient resets the session fields after loading from disk.
func (a *Account) restoreTransient() {
	a.online = false
	a.client = nil
	if a.Contacts == nil {
		a.Contacts = []string{}
	}
	if a.Messages == nil {
		a.Messages = []*Message{}
	}
}

func (a *Account) CheckPassword(word string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Password == word
}

// ChangePassword verifies the old password before setting the new one.
func (a *Account) ChangePassword(old, word string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Password != old {
		return errWrongPassword
	}
	if word == "" {
		return errEmptyPassword
	}
	a.Password = word
	return nil
}

// SetPassword sets the password without verification. Used by register and
// the administrator's account editor.
func (a *Account) SetPassword(word string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Password = word
}

func (a *Account) IsAdministrator() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Administrator
}

// ToggleAdministrator flips the administrator flag and returns the new
// value.
func (a *Account) ToggleAdministrator() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Administrator = !a.Administrator
	return a.Administrator
}

func (a *Account) Online() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.online
}

// login marks the account online and installs the session back-reference.
// It fails when another session already holds the account.
func (a *Account) login(c *Client) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.online {
		return false
	}
	a.online = true
	a.client = c
	return true
}

// setOffline clears the online flag and back-reference, but only if the
// given client is the one bound. A stale session must not knock a newer
// one offline.
func (a *Account) setOffline(c *Client) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if c == nil || a.client == c {
		a.online = false
		a.client = nil
	}
}

// Broadcast shows message to the account's client if it is online. The
// write happens outside the account lock so a stalled recipient can still
// be force-disconnected.
func (a *Account) Broadcast(message string) {
	a.mu.Lock()
	online := a.online
	client := a.client
	a.mu.Unlock()

	if online && client != nil {
		_ = client.Conn.Print(message)
	}
}

// ForceDisconnect closes the account's connection if it has one. The
// worker owning the connection unwinds on its next I/O.
func (a *Account) ForceDisconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.online && a.client != nil {
		_ = a.client.Conn.Close()
	}
}

// IncForgiven bumps the forgiveness counter and returns the new value.
func (a *Account) IncForgiven() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Forgiven++
	return a.Forgiven
}

func (a *Account) ResetForgiven() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Forgiven = 0
}

// AddContact adds name to the contact list. The target must exist at the
// time of addition. Existence is checked against the registry before the
// account lock is taken; the registry lock never nests inside an account
// lock.
func (a *Account) AddContact(name string, accounts *AccountRegistry) error {
	if !accounts.Exists(name) {
		return errNoSuchAccount
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range a.Contacts {
		if c == name {
			return errContactExists
		}
	}
	a.Contacts = append(a.Contacts, name)
	return nil
}

func (a *Account) RemoveContact(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, c := range a.Contacts {
		if c == name {
			a.Contacts = append(a.Contacts[:i], a.Contacts[i+1:]...)
			return nil
		}
	}
	return errNoSuchContact
}

// forgetUser drops name from the contact list if present. Part of the
// account deletion cascade.
func (a *Account) forgetUser(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, c := range a.Contacts {
		if c == name {
			a.Contacts = append(a.Contacts[:i], a.Contacts[i+1:]...)
			return
		}
	}
}

func (a *Account) PurgeContacts() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Contacts = []string{}
}

func (a *Account) PurgeMessages() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Messages = []*Message{}
}

func (a *Account) appendMessage(m *Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Messages = append(a.Messages, m)
}

// DeleteMessages removes the given messages (matched by identity) from the
// inbox.
func (a *Account) DeleteMessages(messages []*Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, m := range messages {
		for i, have := range a.Messages {
			if have == m {
				a.Messages = append(a.Messages[:i], a.Messages[i+1:]...)
				break
			}
		}
	}
}

// markRead clears the message's new flag. Another session may be showing
// a summary of the same inbox, so the flag flips under the account lock.
func (a *Account) markRead(m *Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	m.New = false
}

// NewMessageCount returns how many inbox messages are unread.
func (a *Account) NewMessageCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	count := 0
	for _, m := range a.Messages {
		if m.New {
			count++
		}
	}
	return count
}

// ContactsSnapshot returns a copy of the contact list.
func (a *Account) ContactsSnapshot() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.Contacts...)
}

// MessagesSnapshot returns a copy of the inbox. The messages themselves
// are shared.
func (a *Account) MessagesSnapshot() []*Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*Message(nil), a.Messages...)
}

// ShowContacts prints the contact list to the client, optionally with
// online status, and returns the snapshot it printed.
func (a *Account) ShowContacts(c *Client, withStatus bool,
	accounts *AccountRegistry) ([]string, error) {
	contacts := a.ContactsSnapshot()
	if len(contacts) == 0 {
		return contacts, c.Conn.Print("Contact list is empty.")
	}

	for i, name := range contacts {
		line := fmt.Sprintf("(%d) %s", i+1, name)
		if withStatus {
			status := "FF"
			if accounts.IsOnline(name) {
				status = "N"
			}
			line = fmt.Sprintf("%s [O%sline]", line, status)
		}
		if err := c.Conn.Print(line); err != nil {
			return nil, err
		}
	}
	return contacts, nil
}

func pruneByStatus(status string, messages []*Message) []*Message {
	if status == "" {
		return messages
	}
	kept := []*Message{}
	for _, m := range messages {
		if (status == "unread") == m.New {
			kept = append(kept, m)
		}
	}
	return kept
}

func pruneBySource(source string, messages []*Message) []*Message {
	if source == "" {
		return messages
	}
	kept := []*Message{}
	for _, m := range messages {
		if m.Source == source {
			kept = append(kept, m)
		}
	}
	return kept
}

// ShowMessageSummary prints a formatted inbox summary and returns the
// messages it printed. filterStatus may be "read" or "unread";
// filterSource limits to one sender. Empty filters match everything.
func (a *Account) ShowMessageSummary(c *Client, withStatus bool, length int,
	filterStatus, filterSource string) ([]*Message, error) {
	// Filtering and the new flags are read under the lock; the writes to
	// the client happen outside it.
	a.mu.Lock()
	messages := append([]*Message(nil), a.Messages...)
	messages = pruneByStatus(filterStatus, messages)
	messages = pruneBySource(filterSource, messages)
	unread := make([]bool, len(messages))
	for i, m := range messages {
		unread[i] = m.New
	}
	a.mu.Unlock()

	if len(messages) == 0 {
		return messages, c.Conn.Print("There are no messages.")
	}

	for i, m := range messages {
		status := ""
		if withStatus {
			if unread[i] {
				status = " [UNread]"
			} else {
				status = " [read]"
			}
		}
		if err := c.Conn.Print(fmt.Sprintf("Message %d from %s%s:", i+1,
			m.Source, status)); err != nil {
			return nil, err
		}

		text := strings.ReplaceAll(m.Body, "\n", " ")
		if len(text) > length {
			text = text[:length] + "..."
		}
		if err := c.Conn.Print("    " + text); err != nil {
			return nil, err
		}
	}
	return messages, nil
}
