package main

import "testing"

func TestSplitRightmost(t *testing.T) {
	tests := []struct {
		input  string
		left   string
		symbol string
		right  string
		ok     bool
	}{
		{"1+2", "1", "+", "2", true},
		{"1+2*3", "1+2", "*", "3", true},
		{"5 -> x", "5 ", "->", " x", true},
		{"a<<2", "a", "<<", "2", true},
		{"a<=b", "a", "<=", "b", true},
		{"42", "", "", "", false},
		{"name", "", "", "", false},
	}

	for _, test := range tests {
		left, symbol, right, ok := splitRightmost(test.input)
		if ok != test.ok {
			t.Errorf("splitRightmost(%q) ok = %t, wanted %t", test.input, ok,
				test.ok)
			continue
		}
		if !ok {
			continue
		}
		if left != test.left || symbol != test.symbol || right != test.right {
			t.Errorf("splitRightmost(%q) = %q %q %q, wanted %q %q %q",
				test.input, left, symbol, right, test.left, test.symbol,
				test.right)
		}
	}
}

func TestIntEvaluator(t *testing.T) {
	m := &MathEvaluator2{}

	tests := []struct {
		source   string
		variable string
		output   int64
	}{
		{"5 -> x", "x", 5},
		{"0x10 -> x", "x", 16},
		{"0b101 -> x", "x", 5},
		{"0o17 -> x", "x", 15},
		{"0q123 -> x", "x", 27},
		{"0d42 -> x", "x", 42},
		{"2+3*4 -> x", "x", 20},
		{"7/2 -> x", "x", 3},
		{"2**8 -> x", "x", 256},
		{"1<<4 -> x", "x", 16},
		{"5 -> a; a+1 -> b", "b", 6},
		{"3==3 -> x", "x", 1},
		{"3!=3 -> x", "x", 0},
		{"0&&9 -> x", "x", 0},
		{"4||9 -> x", "x", 4},
	}

	for _, test := range tests {
		bindings := make(map[string]int64)
		if err := m.evaluate(test.source, bindings); err != nil {
			t.Errorf("evaluate(%q) = error %s", test.source, err)
			continue
		}
		if got := bindings[test.variable]; got != test.output {
			t.Errorf("evaluate(%q): %s = %d, wanted %d", test.source,
				test.variable, got, test.output)
		}
	}
}

func TestIntEvaluatorErrors(t *testing.T) {
	m := &MathEvaluator2{}

	tests := []struct {
		source string
		output string
	}{
		{"x -> 5", "TypeError: assignment needs a name"},
		{"y + 1 -> x", "NameError: y"},
		{"1/0 -> x", "ZeroDivisionError: integer division or modulo by zero"},
		{"1%0 -> x", "ZeroDivisionError: integer division or modulo by zero"},
		{"@! -> x", "SyntaxError: @!"},
	}

	for _, test := range tests {
		err := m.evaluate(test.source, make(map[string]int64))
		if err == nil {
			t.Errorf("evaluate(%q) succeeded, wanted %q", test.source,
				test.output)
			continue
		}
		if err.Error() != test.output {
			t.Errorf("evaluate(%q) = %q, wanted %q", test.source,
				err.Error(), test.output)
		}
	}
}

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		x, y, div, mod int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{7, -2, -4, -1},
		{-7, -2, 3, -1},
		{6, 3, 2, 0},
	}

	for _, test := range tests {
		if got := floorDiv(test.x, test.y); got != test.div {
			t.Errorf("floorDiv(%d, %d) = %d, wanted %d", test.x, test.y, got,
				test.div)
		}
		if got := floorMod(test.x, test.y); got != test.mod {
			t.Errorf("floorMod(%d, %d) = %d, wanted %d", test.x, test.y, got,
				test.mod)
		}
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("1+1 # comment\r\n\r\n  \na;b")
	want := []string{"1+1 ", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("splitStatements = %q, wanted %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("statement %d = %q, wanted %q", i, got[i], want[i])
		}
	}
}
