package main

import (
	"strconv"
	"strings"
)

// summaryWidth is how many characters of a message show in summaries, and
// the width messages are wrapped to when read in full.
const summaryWidth = 70

// MessageManager is the inbox screen.
type MessageManager struct {
	client *Client
}

func (m *MessageManager) Handle() (Handler, error) {
	if err := m.client.Conn.Print("Opening message manager ..."); err != nil {
		return nil, err
	}
	return m.commands().loop("")
}

func (m *MessageManager) commands() *commandSet {
	set := newCommandSet(m.client)

	set.add("delete", "Provides various options for deleting your messages.",
		m.doDelete)
	set.add("read", "Allows you to read a message in its entirety.", m.doRead)
	set.add("send", "Allows you to send a message to someone else.", m.doSend)
	set.add("show", "Shows message summaries with status information.",
		m.doShow)

	return set
}

func (m *MessageManager) doShow([]string) (Handler, error) {
	_, err := m.client.Account().ShowMessageSummary(m.client, true,
		summaryWidth, "", "")
	return nil, err
}

func (m *MessageManager) doDelete(args []string) (Handler, error) {
	picked, err := m.parseArgs(args, true)
	if err != nil {
		return nil, err
	}
	if picked == nil {
		return nil, nil
	}
	m.client.Account().DeleteMessages(picked)
	return nil, m.client.Conn.Print("Deletion has been completed.")
}

func (m *MessageManager) doRead(args []string) (Handler, error) {
	picked, err := m.parseArgs(args, false)
	if err != nil {
		return nil, err
	}
	if len(picked) != 1 {
		return nil, nil
	}
	message := picked[0]
	m.client.Account().markRead(message)

	conn := m.client.Conn
	border := strings.Repeat("=", summaryWidth)
	if err := conn.Print("From:", message.Source); err != nil {
		return nil, err
	}
	if err := conn.Print(border); err != nil {
		return nil, err
	}

	paragraphs := strings.Split(message.Body, "\n\n")
	for index, section := range paragraphs {
		section = strings.ReplaceAll(section, "\n", " ")
		for _, line := range wrapText(section, summaryWidth) {
			if err := conn.Print(line); err != nil {
				return nil, err
			}
		}
		if index+1 < len(paragraphs) {
			if err := conn.Print(); err != nil {
				return nil, err
			}
		}
	}
	return nil, conn.Print(border)
}

func (m *MessageManager) doSend(args []string) (Handler, error) {
	conn := m.client.Conn

	name, err := getName(m.client, args, "Destination:")
	if err != nil {
		return nil, err
	}
	if name == m.client.Name() {
		return nil, conn.Print("You are not allowed to talk to yourself.")
	}
	if !m.client.Server.Accounts.Exists(name) {
		return nil, conn.Print("Account does not exist.")
	}

	text, err := m.getMessage()
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, conn.Print("Empty messages may not be sent.")
	}

	if !m.client.Server.Accounts.Deliver(m.client.Name(), name, text) {
		return nil, conn.Print(name, "was removed while you were writing.")
	}
	m.client.Server.Metrics.MessagesDelivered.Inc()
	return nil, conn.Print("Message has been delivered.")
}

// getMessage reads a multi-line message, terminated by two blank lines.
// Leading blank lines are stripped.
func (m *MessageManager) getMessage() (string, error) {
	conn := m.client.Conn
	border := strings.Repeat("=", summaryWidth)

	if err := conn.Print("Please compose your message."); err != nil {
		return "", err
	}
	if err := conn.Print("Enter 2 blank lines to send."); err != nil {
		return "", err
	}
	if err := conn.Print(border); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := conn.Input("")
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
		if len(lines) >= 2 && lines[len(lines)-1] == "" &&
			lines[len(lines)-2] == "" {
			break
		}
	}
	if err := conn.Print(border); err != nil {
		return "", err
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return strings.Join(lines[:len(lines)-2], "\n"), nil
}

// parseArgs resolves which messages a command is aimed at: by number, by
// read/unread status, by source, or interactively from the summary.
func (m *MessageManager) parseArgs(args []string,
	allowAll bool) ([]*Message, error) {
	if len(args) > 0 {
		return m.findMessages(args[0], allowAll)
	}

	messages, err := m.client.Account().ShowMessageSummary(m.client, true,
		summaryWidth, "", "")
	if err != nil {
		return nil, err
	}
	return m.pickMessages(messages, allowAll)
}

func (m *MessageManager) findMessages(clue string,
	allowAll bool) ([]*Message, error) {
	account := m.client.Account()

	if index, err := strconv.Atoi(clue); err == nil {
		messages := account.MessagesSnapshot()
		if index >= 1 && index <= len(messages) {
			return []*Message{messages[index-1]}, nil
		}
		return nil, m.client.Conn.Print("That is not a valid message number.")
	}

	filterStatus, filterSource := "", ""
	if clue == "read" || clue == "unread" {
		filterStatus = clue
	} else {
		filterSource = clue
	}
	messages, err := account.ShowMessageSummary(m.client, true, summaryWidth,
		filterStatus, filterSource)
	if err != nil {
		return nil, err
	}
	return m.pickMessages(messages, allowAll)
}

// pickMessages asks the client which of the just-shown messages they
// meant. An empty answer cancels; "all" selects everything when allowed.
func (m *MessageManager) pickMessages(messages []*Message,
	allowAll bool) ([]*Message, error) {
	conn := m.client.Conn

	for len(messages) > 0 {
		line, err := conn.Input("Which one?")
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, conn.Print("Cancelling ...")
		}
		if allowAll && line == "all" {
			return messages, nil
		}

		index, err := strconv.Atoi(line)
		if err != nil || index < 1 || index > len(messages) {
			if err := conn.Print(
				"Please enter a valid message number."); err != nil {
				return nil, err
			}
			continue
		}
		return []*Message{messages[index-1]}, nil
	}
	return nil, nil
}
