package main

import (
	"reflect"
	"testing"
)

func TestYes(t *testing.T) {
	tests := []struct {
		input  string
		output bool
	}{
		{"yes", true},
		{"true", true},
		{"1", true},
		{"y", false},
		{"YES", false},
		{"no", false},
		{"", false},
	}

	for _, test := range tests {
		if got := yes(test.input); got != test.output {
			t.Errorf("yes(%q) = %t, wanted %t", test.input, got, test.output)
		}
	}
}

func TestHasWhitespace(t *testing.T) {
	tests := []struct {
		input  string
		output bool
	}{
		{"alice", false},
		{"", false},
		{"a b", true},
		{"a\tb", true},
		{" a", true},
		{"a ", true},
		{" ", true},
	}

	for _, test := range tests {
		if got := hasWhitespace(test.input); got != test.output {
			t.Errorf("hasWhitespace(%q) = %t, wanted %t", test.input, got,
				test.output)
		}
	}
}

func TestRemoveAll(t *testing.T) {
	tests := []struct {
		list   []string
		s      string
		output []string
	}{
		{[]string{"a", "b", "a"}, "a", []string{"b"}},
		{[]string{"a"}, "b", []string{"a"}},
		{[]string{}, "a", []string{}},
	}

	for _, test := range tests {
		got := removeAll(append([]string{}, test.list...), test.s)
		if !reflect.DeepEqual(got, test.output) {
			t.Errorf("removeAll(%v, %q) = %v, wanted %v", test.list, test.s,
				got, test.output)
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		input  string
		width  int
		output []string
	}{
		{"", 10, nil},
		{"one", 10, []string{"one"}},
		{"one two three", 7, []string{"one two", "three"}},
		{"one two three", 100, []string{"one two three"}},
		{"abcdefghijk lm", 5, []string{"abcdefghijk", "lm"}},
	}

	for _, test := range tests {
		got := wrapText(test.input, test.width)
		if !reflect.DeepEqual(got, test.output) {
			t.Errorf("wrapText(%q, %d) = %v, wanted %v", test.input,
				test.width, got, test.output)
		}
	}
}
