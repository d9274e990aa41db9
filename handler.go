package main

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Handler is one modal screen owned by a connection.
//
// Handle blocks reading commands until the screen is done. It returns the
// next screen to push, or nil to pop back to the previous one. A transport
// failure surfaces as an error satisfying errConnClosed and unwinds the
// whole session.
type Handler interface {
	Handle() (Handler, error)
}

// errPop is returned by a command to leave the current command loop. It is
// the in-band "this screen is done" signal and never reaches the client.
var errPop = errors.New("pop handler")

type cmdResult int

const (
	// cmdContinue means keep looping with the normal prompt.
	cmdContinue cmdResult = iota

	// cmdMute means keep looping but suppress the next prompt. Used after
	// __json_help__ so the machine-readable reply is not followed by a
	// prompt line.
	cmdMute

	cmdNotFound
	cmdPop
)

type command struct {
	help string
	run  func(args []string) (Handler, error)
}

// commandSet is a static registry of commands for one screen. Each handler
// builds its set once per Handle call and runs the shared command loop
// over it. help and __json_help__ iterate the registry.
type commandSet struct {
	client   *Client
	commands map[string]command
}

func newCommandSet(client *Client) *commandSet {
	s := &commandSet{
		client:   client,
		commands: make(map[string]command),
	}

	s.add("exit", "Exit from this area of the server.",
		func([]string) (Handler, error) {
			return nil, errPop
		})
	s.add("help", "Call help with a command name for more information.",
		s.doHelp)

	return s
}

func (s *commandSet) add(name, help string,
	run func(args []string) (Handler, error)) {
	s.commands[name] = command{help: help, run: run}
}

func (s *commandSet) names() []string {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *commandSet) getHelp(name string) string {
	cmd, ok := s.commands[name]
	if !ok {
		return "Command not found!"
	}
	if cmd.help == "" {
		return "Command has no help!"
	}
	return cmd.help
}

func (s *commandSet) doHelp(args []string) (Handler, error) {
	if len(args) > 0 {
		name := args[0]
		if name == "?" {
			name = "help"
		}
		return nil, s.client.Conn.Print(s.getHelp(name))
	}

	if err := s.client.Conn.Print("Command list:\n    " +
		strings.Join(s.names(), "\n    ")); err != nil {
		return nil, err
	}
	return nil, s.client.Conn.Print(
		"Call help with command name for more info.")
}

// jsonHelp serialises the command to help-text map as one JSON line.
func (s *commandSet) jsonHelp() error {
	help := make(map[string]string, len(s.commands))
	for name := range s.commands {
		help[name] = s.getHelp(name)
	}

	payload, err := json.Marshal(help)
	if err != nil {
		return errors.Wrap(err, "marshaling command help")
	}
	return s.client.Conn.Print(string(payload))
}

// runLine tokenises one input line and dispatches by its first token.
func (s *commandSet) runLine(line string) (Handler, cmdResult, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, cmdContinue, nil
	}

	name, args := tokens[0], tokens[1:]

	if name == "__json_help__" {
		if err := s.jsonHelp(); err != nil {
			return nil, cmdContinue, err
		}
		return nil, cmdMute, nil
	}

	if name == "?" {
		name = "help"
	}

	cmd, ok := s.commands[name]
	if !ok {
		return nil, cmdNotFound, nil
	}

	next, err := cmd.run(args)
	if err != nil {
		if errors.Is(err, errPop) {
			return nil, cmdPop, nil
		}
		return nil, cmdContinue, err
	}
	return next, cmdContinue, nil
}

// loop prompts, reads, and dispatches until a command pushes a new screen
// or pops this one.
func (s *commandSet) loop(prompt string) (Handler, error) {
	mute := false
	for {
		linePrompt := prompt
		if mute {
			linePrompt = ""
		}
		line, err := s.client.Conn.Input(linePrompt)
		if err != nil {
			return nil, err
		}
		mute = false

		next, result, err := s.runLine(line)
		if err != nil {
			return nil, err
		}

		switch result {
		case cmdMute:
			mute = true
		case cmdNotFound:
			if err := s.client.Conn.Print("Command not found!"); err != nil {
				return nil, err
			}
		case cmdPop:
			return nil, nil
		default:
			if next != nil {
				return next, nil
			}
		}
	}
}
