package main

import "strings"

// yes interprets an affirmative answer the way the prompts expect it.
func yes(answer string) bool {
	switch answer {
	case "yes", "true", "1":
		return true
	}
	return false
}

// hasWhitespace reports whether s contains any whitespace at all.
func hasWhitespace(s string) bool {
	return strings.Join(strings.Fields(s), "") != s
}

func contains(list []string, s string) bool {
	for _, have := range list {
		if have == s {
			return true
		}
	}
	return false
}

// removeAll returns list without any occurrence of s.
func removeAll(list []string, s string) []string {
	kept := list[:0]
	for _, have := range list {
		if have != s {
			kept = append(kept, have)
		}
	}
	return kept
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// wrapText greedily wraps text into lines of at most width characters.
// Words longer than width get a line of their own.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := []string{}
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= width {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
