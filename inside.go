package main

import "fmt"

// maxForgiveness is how many admin-console attempts a non-administrator
// gets before the trap springs.
const maxForgiveness = 2

// InsideMenu is the post-login hub. Popping it logs the account out.
type InsideMenu struct {
	client *Client
}

func (m *InsideMenu) Handle() (Handler, error) {
	if err := m.printStatus(); err != nil {
		return nil, err
	}

	next, err := m.commands().loop("")
	if err == nil && next == nil {
		// Leaving the hub for good logs the session out. Teardown on
		// transport death handles the error path.
		if account := m.client.Account(); account != nil {
			account.setOffline(m.client)
		}
		m.client.unbindAccount()
	}
	return next, err
}

func (m *InsideMenu) printStatus() error {
	conn := m.client.Conn
	account := m.client.Account()

	if account.IsAdministrator() {
		if err := conn.Print("Welcome, administrator!"); err != nil {
			return err
		}
	}

	newCount := account.NewMessageCount()
	plural := "s"
	if newCount == 1 {
		plural = ""
	}
	if err := conn.Print(fmt.Sprintf("You have %d new message%s.", newCount,
		plural)); err != nil {
		return err
	}

	contacts := account.ContactsSnapshot()
	online := 0
	for _, name := range contacts {
		if m.client.Server.Accounts.IsOnline(name) {
			online++
		}
	}
	total := len(contacts)
	friends := "friends"
	if total == 1 {
		friends = "friend"
	}
	are := "are"
	if online == 1 {
		are = "is"
	}
	return conn.Print(fmt.Sprintf("%d of your %d %s %s online.", online,
		total, friends, are))
}

func (m *InsideMenu) commands() *commandSet {
	set := newCommandSet(m.client)

	set.add("admin",
		"Access the administration console (if you are an administrator).",
		m.doAdmin)
	set.add("channel", "Create and connect to message channels.", m.doChannel)
	set.add("contacts", "Open your contact list to view and edit it.",
		func([]string) (Handler, error) {
			return &ContactManager{client: m.client}, nil
		})
	set.add("messages", "Open your inbox to read and send messages.",
		func([]string) (Handler, error) {
			return &MessageManager{client: m.client}, nil
		})
	set.add("options", "Change some of your account settings.",
		func([]string) (Handler, error) {
			return &AccountOptions{client: m.client}, nil
		})
	set.add("eval", "Proof of concept: a math expression evaluator.",
		m.doEval)

	return set
}

// doAdmin gates the administrator console. Non-administrators are warned
// and thrown out; on the second attempt their address is banned and their
// account removed.
func (m *InsideMenu) doAdmin([]string) (Handler, error) {
	account := m.client.Account()
	conn := m.client.Conn

	if account.IsAdministrator() {
		return &AdminConsole{client: m.client}, nil
	}

	if account.IncForgiven() >= maxForgiveness {
		m.client.Server.Bans.Append(conn.RemoteIP())
		m.client.Server.Accounts.Delete(m.client.Name(),
			m.client.Server.Channels)
		m.client.Server.log.Info().Msgf(
			"Client %s: banned by the forgiveness trap", m.client)

		_ = conn.Print("You have been warned for the last time!")
		_ = conn.Print("Now your IP address has been blocked &")
		_ = conn.Print("your account has been completely removed.")
		_ = conn.Close()
		return nil, errConnClosed
	}

	if err := conn.Print("You are not authorized to be here."); err != nil {
		return nil, err
	}
	return nil, errPop
}

func (m *InsideMenu) doChannel(args []string) (Handler, error) {
	conn := m.client.Conn

	name, err := getName(m.client, args, "Channel to open?")
	if err != nil {
		return nil, err
	}
	if len(args) > 1 || hasWhitespace(name) {
		return nil, conn.Print("Channel name may not have whitespace!")
	}
	if name == "" {
		return nil, conn.Print("Channel name may not be empty.")
	}

	channel := m.client.Server.Channels.OpenOrCreate(name, m.client.Name())
	if err := conn.Print("Opening the", name, "channel ..."); err != nil {
		return nil, err
	}
	return channel.Connect(m.client), nil
}

func (m *InsideMenu) doEval(args []string) (Handler, error) {
	version, err := getName(m.client, args, "Version?")
	if err != nil {
		return nil, err
	}

	switch version {
	case "old":
		return &MathExpressionEvaluator{client: m.client}, nil
	case "new":
		return &MathEvaluator2{client: m.client}, nil
	}
	return nil, m.client.Conn.Print("Try old or new.")
}
