package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MathEvaluator2 is the newer integer calculator screen. It assigns with
// `value -> name`, knows prefixed literals (0x, 0d, 0o, 0q, 0b), and
// splits expressions on the rightmost operator, so everything associates
// to the left with no precedence.
type MathEvaluator2 struct {
	client *Client
}

func (m *MathEvaluator2) Handle() (Handler, error) {
	bindings := make(map[string]int64)
	for {
		line, err := m.client.Conn.Input(">>> ")
		if err != nil {
			return nil, err
		}
		switch line {
		case "exit", "quit", "stop":
			return nil, nil
		}

		if err := m.evaluate(line, bindings); err != nil {
			if printErr := m.client.Conn.Print(err.Error()); printErr != nil {
				return nil, printErr
			}
		}
	}
}

func (m *MathEvaluator2) evaluate(source string,
	bindings map[string]int64) error {
	for _, expression := range splitStatements(source) {
		node, err := m.parse(expression, true)
		if err != nil {
			return err
		}
		value, err := node.eval(bindings)
		if err != nil {
			return err
		}
		bindings["_"] = value
	}
	return nil
}

// splitStatements normalises line endings, strips comments, and splits on
// semicolons.
func splitStatements(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")

	statements := []string{}
	for _, line := range strings.Split(source, "\n") {
		if index := strings.Index(line, "#"); index >= 0 {
			line = line[:index]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		statements = append(statements, strings.Split(line, ";")...)
	}
	return statements
}

type intExpr interface {
	eval(bindings map[string]int64) (int64, error)
}

type intConstant int64

func (c intConstant) eval(map[string]int64) (int64, error) {
	return int64(c), nil
}

type intVariable string

func (v intVariable) eval(bindings map[string]int64) (int64, error) {
	value, ok := bindings[string(v)]
	if !ok {
		return 0, errors.New("NameError: " + string(v))
	}
	return value, nil
}

type intOperation struct {
	left   intExpr
	symbol string
	right  intExpr
}

const assignmentSymbol = "->"

// floorDiv and floorMod round toward negative infinity.
func floorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

func floorMod(x, y int64) int64 {
	r := x % y
	if r != 0 && ((r < 0) != (y < 0)) {
		r += y
	}
	return r
}

func intPow(x, y int64) (int64, error) {
	if y < 0 {
		return 0, errors.New("ValueError: negative exponent")
	}
	result := int64(1)
	for ; y > 0; y-- {
		result *= x
	}
	return result, nil
}

func (o intOperation) eval(bindings map[string]int64) (int64, error) {
	if o.symbol == assignmentSymbol {
		name, ok := o.right.(intVariable)
		if !ok {
			return 0, errors.New("TypeError: assignment needs a name")
		}
		value, err := o.left.eval(bindings)
		if err != nil {
			return 0, err
		}
		bindings[string(name)] = value
		return value, nil
	}

	x, err := o.left.eval(bindings)
	if err != nil {
		return 0, err
	}
	y, err := o.right.eval(bindings)
	if err != nil {
		return 0, err
	}

	asInt := func(b bool) int64 {
		if b {
			return 1
		}
		return 0
	}

	switch o.symbol {
	case "&&":
		if x == 0 {
			return x, nil
		}
		return y, nil
	case "||":
		if x != 0 {
			return x, nil
		}
		return y, nil
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return 0, errors.New(
				"ZeroDivisionError: integer division or modulo by zero")
		}
		return floorDiv(x, y), nil
	case "%":
		if y == 0 {
			return 0, errors.New(
				"ZeroDivisionError: integer division or modulo by zero")
		}
		return floorMod(x, y), nil
	case "**":
		return intPow(x, y)
	case "&":
		return x & y, nil
	case "|":
		return x | y, nil
	case "^":
		return x ^ y, nil
	case ">>":
		return x >> uint(y), nil
	case "<<":
		return x << uint(y), nil
	case "==":
		return asInt(x == y), nil
	case "!=":
		return asInt(x != y), nil
	case ">":
		return asInt(x > y), nil
	case ">=":
		return asInt(x >= y), nil
	case "<":
		return asInt(x < y), nil
	case "<=":
		return asInt(x <= y), nil
	}
	return 0, errors.New("SyntaxError: " + o.symbol)
}

type intPrint struct {
	inner intExpr
	conn  *Conn
}

func (p intPrint) eval(bindings map[string]int64) (int64, error) {
	value, err := p.inner.eval(bindings)
	if err != nil {
		return 0, err
	}
	if err := p.conn.Print(value); err != nil {
		return 0, err
	}
	return value, nil
}

// Longer symbols are matched before shorter ones.
var intOperators = []string{
	assignmentSymbol, "&&", "||", "**", ">>", "<<", "==", "!=", ">=", "<=",
	"+", "-", "*", "/", "%", "&", "|", "^", ">", "<",
}

// splitRightmost finds the last operator in the expression such that no
// operator remains to its right, and returns the pieces around it.
func splitRightmost(expression string) (left, symbol, right string, ok bool) {
	symbol, right, ok = splitTail(expression)
	if !ok {
		return "", "", "", false
	}
	left = expression[:len(expression)-len(symbol)-len(right)]
	return left, symbol, right, true
}

func splitTail(expression string) (symbol, right string, ok bool) {
	for _, sym := range intOperators {
		index := strings.LastIndex(expression, sym)
		if index < 0 {
			continue
		}
		rest := expression[index+len(sym):]
		if tailSym, tailRight, tailOK := splitTail(rest); tailOK {
			return tailSym, tailRight, true
		}
		return sym, rest, true
	}
	return "", "", false
}

func isIdentifier(word string) bool {
	for index, r := range word {
		alpha := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if !alpha && !(digit && index > 0) {
			return false
		}
	}
	return len(word) > 0
}

func isDigits(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(word) > 0
}

// parse builds the expression tree. Top-level non-assignments print their
// result.
func (m *MathEvaluator2) parse(expression string, top bool) (intExpr, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, errors.New("SyntaxError: empty expression")
	}

	if left, symbol, right, ok := splitRightmost(trimmed); ok {
		leftExpr, err := m.parse(left, false)
		if err != nil {
			return nil, err
		}
		rightExpr, err := m.parse(right, false)
		if err != nil {
			return nil, err
		}
		node := intExpr(intOperation{left: leftExpr, symbol: symbol,
			right: rightExpr})
		if top && symbol != assignmentSymbol {
			node = intPrint{inner: node, conn: m.client.Conn}
		}
		return node, nil
	}

	if len(strings.Fields(trimmed)) > 1 {
		return nil, errors.New("SyntaxError: " + trimmed)
	}

	node, err := m.parseAtom(trimmed)
	if err != nil {
		return nil, err
	}
	if top {
		node = intPrint{inner: node, conn: m.client.Conn}
	}
	return node, nil
}

func (m *MathEvaluator2) parseAtom(word string) (intExpr, error) {
	bases := map[string]int{"0x": 16, "0d": 10, "0o": 8, "0q": 4, "0b": 2}
	if len(word) > 2 {
		if base, ok := bases[word[:2]]; ok {
			value, err := strconv.ParseInt(word[2:], base, 64)
			if err != nil {
				return nil, errors.New("ValueError: " + word)
			}
			return intConstant(value), nil
		}
	}

	if isDigits(word) {
		value, err := strconv.ParseInt(word, 10, 64)
		if err != nil {
			return nil, errors.New("ValueError: " + word)
		}
		return intConstant(value), nil
	}
	if isIdentifier(word) {
		return intVariable(word), nil
	}
	return nil, errors.New("SyntaxError: " + word)
}
