package main

import "github.com/pkg/errors"

// ContactManager is the contact list screen.
type ContactManager struct {
	client *Client
}

func (m *ContactManager) Handle() (Handler, error) {
	if err := m.client.Conn.Print("Opening contact manager ..."); err != nil {
		return nil, err
	}
	return m.commands().loop("")
}

func (m *ContactManager) commands() *commandSet {
	set := newCommandSet(m.client)

	set.add("add", "Add a friend to your contact list.", m.doAdd)
	set.add("remove", "Remove someone from your contact list.", m.doRemove)
	set.add("show", "Display your friend list with online/offline status.",
		m.doShow)

	return set
}

func (m *ContactManager) doAdd(args []string) (Handler, error) {
	conn := m.client.Conn

	name, err := getName(m.client, args, "Who?")
	if err != nil {
		return nil, err
	}

	switch err := m.client.Account().AddContact(name,
		m.client.Server.Accounts); {
	case errors.Is(err, errContactExists):
		return nil, conn.Print(name, "is already in your contact list.")
	case errors.Is(err, errNoSuchAccount):
		return nil, conn.Print(name, "does not currently exist.")
	case err != nil:
		return nil, err
	}
	return nil, conn.Print(name, "has been added to your contact list.")
}

func (m *ContactManager) doRemove(args []string) (Handler, error) {
	conn := m.client.Conn

	name, err := getName(m.client, args, "Who?")
	if err != nil {
		return nil, err
	}

	if err := m.client.Account().RemoveContact(name); err != nil {
		return nil, conn.Print(name, "is not in your contact list.")
	}
	return nil, conn.Print(name, "has been removed from your contact list.")
}

func (m *ContactManager) doShow([]string) (Handler, error) {
	_, err := m.client.Account().ShowContacts(m.client, true,
		m.client.Server.Accounts)
	return nil, err
}
