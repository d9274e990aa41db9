package main

import "github.com/pkg/errors"

// AccountOptions is the self-service account settings screen.
type AccountOptions struct {
	client *Client
}

func (m *AccountOptions) Handle() (Handler, error) {
	if err := m.client.Conn.Print("Opening account options ..."); err != nil {
		return nil, err
	}
	return m.commands().loop("")
}

func (m *AccountOptions) commands() *commandSet {
	set := newCommandSet(m.client)

	set.add("delete_account", "Delete your account permanently.",
		m.doDeleteAccount)
	set.add("password", "Change your password.", m.doPassword)
	set.add("purge", "Purge your messages, contacts, or both.", m.doPurge)

	return set
}

func (m *AccountOptions) doDeleteAccount(args []string) (Handler, error) {
	conn := m.client.Conn

	confirmed := len(args) > 0 && args[0] == "force"
	if !confirmed {
		answer, err := conn.Input("Seriously?")
		if err != nil {
			return nil, err
		}
		confirmed = yes(answer)
	}
	if !confirmed {
		return nil, conn.Print("Cancelling ...")
	}

	_ = conn.Print("Your account and connection are being closed.")
	m.client.Server.Accounts.Delete(m.client.Name(), m.client.Server.Channels)
	_ = conn.Close()
	return nil, errConnClosed
}

func (m *AccountOptions) doPassword(args []string) (Handler, error) {
	conn := m.client.Conn

	old, err := getName(m.client, args, "Old password:")
	if err != nil {
		return nil, err
	}
	account := m.client.Account()
	if !account.CheckPassword(old) {
		return nil, conn.Print("Old password is not correct.")
	}

	var word string
	if len(args) > 1 {
		word = args[1]
	} else {
		word, err = conn.Input("New password:")
		if err != nil {
			return nil, err
		}
	}

	switch err := account.ChangePassword(old, word); {
	case errors.Is(err, errEmptyPassword):
		return nil, conn.Print("Your password may not be empty.")
	case errors.Is(err, errWrongPassword):
		return nil, conn.Print("Old password is not correct.")
	case err != nil:
		return nil, err
	}
	return nil, conn.Print("Your password has been changed.")
}

func (m *AccountOptions) doPurge(args []string) (Handler, error) {
	conn := m.client.Conn
	account := m.client.Account()

	what, err := getName(m.client, args, "What?")
	if err != nil {
		return nil, err
	}

	switch what {
	case "messages":
		account.PurgeMessages()
		return nil, conn.Print("All of your messages have been deleted.")
	case "contacts":
		account.PurgeContacts()
		return nil, conn.Print("All of your contacts have been deleted.")
	case "both":
		account.PurgeMessages()
		account.PurgeContacts()
		return nil, conn.Print("Your messages and contacts have been deleted.")
	}
	return nil, conn.Print("Try messages, contacts, or both.")
}
