package main

import (
	"encoding/json"
	"testing"
)

func TestCommandSetRunLine(t *testing.T) {
	s := newTestServer()
	client, _ := newTestClient(t, s)

	ran := ""
	set := newCommandSet(client)
	set.add("greet", "Say hello.", func(args []string) (Handler, error) {
		if len(args) > 0 {
			ran = args[0]
		} else {
			ran = "greet"
		}
		return nil, nil
	})
	set.add("leave", "", func([]string) (Handler, error) {
		return nil, errPop
	})

	tests := []struct {
		line   string
		result cmdResult
		ran    string
	}{
		{"greet", cmdContinue, "greet"},
		{"greet bob extra", cmdContinue, "bob"},
		{"  greet   carol  ", cmdContinue, "carol"},
		{"missing", cmdNotFound, ""},
		{"x__json_help__", cmdNotFound, ""},
		{"leave", cmdPop, ""},
		{"", cmdContinue, ""},
	}

	for _, test := range tests {
		ran = ""
		_, result, err := set.runLine(test.line)
		if err != nil {
			t.Fatalf("runLine(%q) = error %s", test.line, err)
		}
		if result != test.result {
			t.Errorf("runLine(%q) = result %d, wanted %d", test.line, result,
				test.result)
		}
		if ran != test.ran {
			t.Errorf("runLine(%q) ran %q, wanted %q", test.line, ran, test.ran)
		}
	}
}

func TestCommandSetHelp(t *testing.T) {
	s := newTestServer()
	client, lines := newTestClient(t, s)

	set := newCommandSet(client)
	set.add("thing", "Does the thing.", func([]string) (Handler, error) {
		return nil, nil
	})

	if _, _, err := set.runLine("help thing"); err != nil {
		t.Fatalf("help thing: %s", err)
	}
	if got := recvLine(t, lines); got != "Does the thing." {
		t.Errorf("help thing showed %q", got)
	}

	// "?" is an alias for help.
	if _, _, err := set.runLine("? nosuch"); err != nil {
		t.Fatalf("? nosuch: %s", err)
	}
	if got := recvLine(t, lines); got != "Command not found!" {
		t.Errorf("help for missing command showed %q", got)
	}

	if _, _, err := set.runLine("help leave"); err != nil {
		t.Fatalf("help leave: %s", err)
	}
	if got := recvLine(t, lines); got != "Command not found!" {
		t.Errorf("help for unknown command showed %q", got)
	}
}

func TestCommandSetJSONHelp(t *testing.T) {
	s := newTestServer()
	client, lines := newTestClient(t, s)

	set := newCommandSet(client)
	set.add("thing", "Does the thing.", func([]string) (Handler, error) {
		return nil, nil
	})
	set.add("bare", "", func([]string) (Handler, error) {
		return nil, nil
	})

	_, result, err := set.runLine("__json_help__")
	if err != nil {
		t.Fatalf("__json_help__: %s", err)
	}
	if result != cmdMute {
		t.Errorf("__json_help__ result = %d, wanted cmdMute", result)
	}

	payload := recvLine(t, lines)
	help := map[string]string{}
	if err := json.Unmarshal([]byte(payload), &help); err != nil {
		t.Fatalf("__json_help__ produced invalid JSON %q: %s", payload, err)
	}

	if help["thing"] != "Does the thing." {
		t.Errorf("thing help = %q", help["thing"])
	}
	if help["bare"] != "Command has no help!" {
		t.Errorf("bare help = %q", help["bare"])
	}
	if _, ok := help["exit"]; !ok {
		t.Errorf("builtin exit missing from JSON help")
	}
}
