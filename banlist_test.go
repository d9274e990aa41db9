package main

import "testing"

func TestBanListMatches(t *testing.T) {
	bans := NewBanList()
	bans.Add("10.0.0.1")
	bans.Add("Evil.Example.Com")

	tests := []struct {
		candidates []string
		output     bool
	}{
		{[]string{"10.0.0.1"}, true},
		{[]string{"10.0.0.2"}, false},
		{[]string{"10.0.0.2", "evil.example.com"}, true},
		{[]string{"EVIL.EXAMPLE.COM"}, true},
		{[]string{}, false},
	}

	for _, test := range tests {
		if got := bans.Matches(test.candidates...); got != test.output {
			t.Errorf("Matches(%v) = %t, wanted %t", test.candidates, got,
				test.output)
		}
	}
}

func TestBanListAddRemove(t *testing.T) {
	bans := NewBanList()

	if !bans.Add("10.0.0.1") {
		t.Fatalf("first Add failed")
	}
	if bans.Add("10.0.0.1") {
		t.Errorf("duplicate Add succeeded")
	}

	// The forgiveness trap appends without checking, so removal must drop
	// every occurrence.
	bans.Append("10.0.0.1")
	if got := len(bans.List()); got != 2 {
		t.Fatalf("got %d entries, wanted 2", got)
	}

	if !bans.Remove("10.0.0.1") {
		t.Errorf("Remove of present address failed")
	}
	if bans.Matches("10.0.0.1") {
		t.Errorf("address still matches after Remove")
	}
	if bans.Remove("10.0.0.1") {
		t.Errorf("Remove of absent address succeeded")
	}
}
