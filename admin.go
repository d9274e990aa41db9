package main

import (
	"fmt"
	"net"
	"strconv"
)

// Shutdown levels. Each level includes the ones before it: stop accepting
// and drop anonymous connections, then drop regular users, then other
// administrators, then the caller too.
const (
	shutdownServer = iota
	shutdownUsers
	shutdownAdmin
	shutdownAll
)

var shutdownLevels = map[string]int{
	"server": shutdownServer,
	"users":  shutdownUsers,
	"admin":  shutdownAdmin,
	"all":    shutdownAll,
}

// AdminConsole is the server-wide management screen, reachable only by
// administrators.
type AdminConsole struct {
	client *Client
}

func (a *AdminConsole) Handle() (Handler, error) {
	if err := a.client.Conn.Print("Opening admin console ..."); err != nil {
		return nil, err
	}
	return a.commands().loop("")
}

func (a *AdminConsole) commands() *commandSet {
	set := newCommandSet(a.client)

	set.add("account", "Access all account related controls.", a.doAccount)
	set.add("ban", "Access all address ban filter controls.", a.doBan)
	set.add("channels", "View a list of all current channels.", a.doChannels)
	set.add("shutdown", "Arrange for the server to shutdown and save its data.",
		a.doShutdown)

	return set
}

func (a *AdminConsole) doAccount(args []string) (Handler, error) {
	conn := a.client.Conn

	if len(args) == 0 {
		return nil, conn.Print("Try view, remove, or edit.")
	}
	switch args[0] {
	case "view":
		return nil, a.accountView(a.client.Server.Accounts.Names())
	case "remove":
		return nil, a.accountRemove(args[1:])
	case "edit":
		return a.accountEdit(args[1:])
	}
	return nil, conn.Print("Try view, remove, or edit.")
}

func (a *AdminConsole) accountView(names []string) error {
	for index, name := range names {
		if err := a.client.Conn.Print(
			fmt.Sprintf("(%d) %s", index+1, name)); err != nil {
			return err
		}
	}
	return nil
}

// getAccountName shows every other account and asks which one is meant.
// Returns "" on a bad answer or when there is nothing to pick from.
func (a *AdminConsole) getAccountName() (string, error) {
	conn := a.client.Conn

	names := a.client.Server.Accounts.NamesExcept(a.client.Name())
	if len(names) == 0 {
		return "", conn.Print("There are no other accounts.")
	}
	if err := a.accountView(names); err != nil {
		return "", err
	}

	line, err := conn.Input("Account number?")
	if err != nil {
		return "", err
	}
	index, convErr := strconv.Atoi(line)
	if convErr != nil || index < 1 || index > len(names) {
		return "", conn.Print("You must enter a valid number.")
	}
	return names[index-1], nil
}

func (a *AdminConsole) accountRemove(args []string) error {
	conn := a.client.Conn

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		var err error
		name, err = a.getAccountName()
		if err != nil || name == "" {
			return err
		}
	}
	if name == a.client.Name() {
		return conn.Print("You cannot remove yourself.")
	}

	account := a.client.Server.Accounts.Lookup(name)
	if account == nil {
		return conn.Print("Account does not exist.")
	}
	account.ForceDisconnect()
	a.client.Server.Accounts.Delete(name, a.client.Server.Channels)
	return conn.Print("Account has been removed.")
}

func (a *AdminConsole) accountEdit(args []string) (Handler, error) {
	conn := a.client.Conn

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		var err error
		name, err = a.getAccountName()
		if err != nil || name == "" {
			return nil, err
		}
	}
	if name == a.client.Name() {
		return nil, conn.Print("You may not edit yourself.")
	}

	account := a.client.Server.Accounts.Lookup(name)
	if account == nil {
		return nil, conn.Print("Unable to access account.")
	}
	return &AccountEditor{client: a.client, name: name, account: account}, nil
}

func (a *AdminConsole) doBan(args []string) (Handler, error) {
	conn := a.client.Conn

	if len(args) == 0 {
		return nil, conn.Print("Try view, add, or remove.")
	}
	switch args[0] {
	case "view":
		return nil, a.banView(a.client.Server.Bans.List())
	case "add":
		return nil, a.banAdd(args[1:])
	case "remove":
		return nil, a.banRemove(args[1:])
	}
	return nil, conn.Print("Try view, add, or remove.")
}

func (a *AdminConsole) banView(addresses []string) error {
	if len(addresses) == 0 {
		return a.client.Conn.Print("No one is in the ban list.")
	}
	for index, address := range addresses {
		if err := a.client.Conn.Print(
			fmt.Sprintf("(%d) %s", index+1, address)); err != nil {
			return err
		}
	}
	return nil
}

func (a *AdminConsole) banAdd(args []string) error {
	conn := a.client.Conn

	address, err := getName(a.client, args, "Address:")
	if err != nil {
		return err
	}
	if address == "" {
		return conn.Print("Empty address may not be added.")
	}
	if !a.client.Server.Bans.Add(address) {
		return conn.Print("Address is already in ban list.")
	}
	return conn.Print("Address has been successfully added.")
}

func (a *AdminConsole) banRemove(args []string) error {
	conn := a.client.Conn
	bans := a.client.Server.Bans

	if len(args) > 0 {
		if !bans.Remove(args[0]) {
			return conn.Print("Address not found.")
		}
		return conn.Print("Address has been removed.")
	}

	addresses := bans.List()
	if err := a.banView(addresses); err != nil {
		return err
	}
	if len(addresses) == 0 {
		return nil
	}

	line, err := conn.Input("Item number?")
	if err != nil {
		return err
	}
	index, convErr := strconv.Atoi(line)
	if convErr != nil || index < 1 || index > len(addresses) {
		return conn.Print("You must enter a valid number.")
	}
	bans.Remove(addresses[index-1])
	return conn.Print("Address has been removed.")
}

func (a *AdminConsole) doChannels([]string) (Handler, error) {
	conn := a.client.Conn

	names := a.client.Server.Channels.Names()
	if len(names) == 0 {
		return nil, conn.Print("There are no channels at this time.")
	}

	plural := "s "
	if len(names) == 1 {
		plural = " "
	}
	if err := conn.Print(fmt.Sprintf("Channel%scurrently in existence:",
		plural)); err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := conn.Print("   ", name); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (a *AdminConsole) doShutdown(args []string) (Handler, error) {
	conn := a.client.Conn

	if len(args) == 0 {
		return nil, conn.Print("Try server, users, admin, or all.")
	}
	level, ok := shutdownLevels[args[0]]
	if !ok {
		return nil, conn.Print("Try server, users, admin, or all.")
	}

	message := a.client.Name() + " is shutting down your connection."
	if err := a.shutdownServer(message); err != nil {
		return nil, err
	}
	if level > shutdownServer {
		return nil, a.disconnectAccounts(message, level)
	}
	return nil, nil
}

// shutdownServer stops the accept loop and drops connections that never
// logged in. The server's own port is dialed once to wake the listener.
func (a *AdminConsole) shutdownServer(message string) error {
	conn := a.client.Conn
	server := a.client.Server

	clients, already := server.beginShutdown()
	if already {
		return conn.Print("Server was already closed.")
	}
	if err := conn.Print("Server has been shutdown."); err != nil {
		return err
	}
	return a.disconnectSleepers(message, clients)
}

// disconnectSleepers drops the connections with no account bound.
func (a *AdminConsole) disconnectSleepers(message string,
	clients []*Client) error {
	count := 0
	for _, c := range clients {
		if c.Name() == "" {
			_ = c.Conn.Print(message)
			_ = c.Conn.Close()
			count++
		}
	}

	sleepers := "s were"
	if count == 1 {
		sleepers = " was"
	}
	return a.client.Conn.Print(fmt.Sprintf("%d sleeper%s disconnected.",
		count, sleepers))
}

// disconnectAccounts notifies and drops logged-in users per the shutdown
// level. At shutdownUsers administrators stay; above that everyone but the
// caller goes, and at shutdownAll the caller goes too.
func (a *AdminConsole) disconnectAccounts(message string, level int) error {
	caller := a.client.Account()
	for _, account := range a.client.Server.Accounts.Accounts() {
		if account == caller {
			continue
		}
		if level > shutdownUsers || !account.IsAdministrator() {
			account.Broadcast(message)
			account.ForceDisconnect()
		}
	}

	if err := a.client.Conn.Print(
		"Shutdown process has been completed."); err != nil {
		return err
	}
	if level == shutdownAll {
		_ = a.client.Conn.Close()
		return errConnClosed
	}
	return nil
}

// wakeListener dials our own listen port so a blocked Accept returns and
// the loop can observe the stopped flag.
func wakeListener(port string) {
	conn, err := net.Dial("tcp", net.JoinHostPort("localhost", port))
	if err != nil {
		return
	}
	_ = conn.Close()
}
