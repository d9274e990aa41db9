package main

import "fmt"

// AccountEditor lets an administrator inspect and change someone else's
// account.
type AccountEditor struct {
	client  *Client
	name    string
	account *Account
}

func (e *AccountEditor) Handle() (Handler, error) {
	if err := e.client.Conn.Print("Opening account editor ..."); err != nil {
		return nil, err
	}
	return e.commands().loop("")
}

func (e *AccountEditor) commands() *commandSet {
	set := newCommandSet(e.client)

	set.add("edit", "Change various attributes of the account.", e.doEdit)
	set.add("info", "Show information about the current account.", e.doInfo)
	set.add("password", "Show the password on the account.", e.doPassword)
	set.add("read", "Show the account's contact list or message summaries.",
		e.doRead)

	return set
}

func (e *AccountEditor) doEdit(args []string) (Handler, error) {
	conn := e.client.Conn

	attr, err := getName(e.client, args, "What?")
	if err != nil {
		return nil, err
	}

	switch attr {
	case "admin":
		not := "not "
		if e.account.ToggleAdministrator() {
			not = ""
		}
		return nil, conn.Print(fmt.Sprintf("%s is %san administrator now.",
			e.name, not))

	case "password":
		var word string
		if len(args) > 1 {
			word = args[1]
		} else {
			word, err = conn.Input("Password:")
			if err != nil {
				return nil, err
			}
		}
		e.account.SetPassword(word)
		return nil, conn.Print("Password has been changed to",
			fmt.Sprintf("%q", word))

	case "forgiven":
		reset := len(args) > 1 && args[1] == "reset"
		if !reset {
			answer, err := conn.Input("Reset?")
			if err != nil {
				return nil, err
			}
			reset = yes(answer)
		}
		if reset {
			e.account.ResetForgiven()
			return nil, conn.Print("Forgiven count has been set to zero.")
		}
		return nil, nil
	}

	return nil, conn.Print("Try admin, password, or forgiven.")
}

func (e *AccountEditor) doInfo([]string) (Handler, error) {
	conn := e.client.Conn
	a := e.account

	if err := conn.Print(fmt.Sprintf("About account %q:", e.name)); err != nil {
		return nil, err
	}

	a.mu.Lock()
	admin := a.Administrator
	online := a.online
	friends := len(a.Contacts)
	messages := len(a.Messages)
	forgiven := a.Forgiven
	a.mu.Unlock()

	for _, line := range []string{
		fmt.Sprintf("Admin    = %t", admin),
		fmt.Sprintf("Online   = %t", online),
		fmt.Sprintf("Friends  = %d", friends),
		fmt.Sprintf("Messages = %d", messages),
		fmt.Sprintf("Forgiven = %d", forgiven),
	} {
		if err := conn.Print(line); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (e *AccountEditor) doPassword([]string) (Handler, error) {
	conn := e.client.Conn

	if err := conn.Print("Username:", fmt.Sprintf("%q", e.name)); err != nil {
		return nil, err
	}
	e.account.mu.Lock()
	word := e.account.Password
	e.account.mu.Unlock()
	return nil, conn.Print("Password:", fmt.Sprintf("%q", word))
}

func (e *AccountEditor) doRead(args []string) (Handler, error) {
	conn := e.client.Conn

	attr, err := getName(e.client, args, "Contacts or messages?")
	if err != nil {
		return nil, err
	}

	switch attr {
	case "contacts":
		if err := conn.Print(
			fmt.Sprintf("%s's contact list:", e.name)); err != nil {
			return nil, err
		}
		_, err := e.account.ShowContacts(e.client, false,
			e.client.Server.Accounts)
		return nil, err

	case "messages":
		if err := conn.Print(
			"First 70 bytes of each message:"); err != nil {
			return nil, err
		}
		_, err := e.account.ShowMessageSummary(e.client, false, summaryWidth,
			"", "")
		return nil, err
	}

	return nil, conn.Print("Try contacts or messages.")
}
