package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MathExpressionEvaluator is the original float-based calculator screen.
// Statements look like `a = b = 1 + 2 * 3`; a line without `=` evaluates
// and prints. `;` separates statements, `#` starts a comment line.
type MathExpressionEvaluator struct {
	client *Client
}

func (m *MathExpressionEvaluator) Handle() (Handler, error) {
	vars := make(map[string]float64)
	for {
		line, err := m.client.Conn.Input("Eval:")
		if err != nil {
			return nil, err
		}
		switch line {
		case "exit", "quit", "stop":
			return nil, nil
		}

		if err := m.run(line, vars); err != nil {
			if printErr := m.client.Conn.Print(err.Error()); printErr != nil {
				return nil, printErr
			}
		}
	}
}

func (m *MathExpressionEvaluator) run(line string,
	vars map[string]float64) error {
	statements, err := m.parse(line)
	if err != nil {
		return err
	}
	for _, statement := range statements {
		value, err := statement.eval(vars)
		if err != nil {
			return err
		}
		vars["_"] = value
	}
	return nil
}

// floatExpr is one node of the float expression tree.
type floatExpr interface {
	eval(vars map[string]float64) (float64, error)
}

type floatConstant float64

func (c floatConstant) eval(map[string]float64) (float64, error) {
	return float64(c), nil
}

type floatVariable string

func (v floatVariable) eval(vars map[string]float64) (float64, error) {
	value, ok := vars[string(v)]
	if !ok {
		return 0, errors.New("Unknown variable: " + string(v))
	}
	return value, nil
}

type floatOperation struct {
	left  floatExpr
	op    string
	right floatExpr
}

func truthy(x float64) bool { return x != 0 }

func (o floatOperation) eval(vars map[string]float64) (float64, error) {
	if o.op == "=" {
		name, ok := o.left.(floatVariable)
		if !ok {
			return 0, errors.New("Must Assign to Variable")
		}
		value, err := o.right.eval(vars)
		if err != nil {
			return 0, err
		}
		vars[string(name)] = value
		return value, nil
	}

	x, err := o.left.eval(vars)
	if err != nil {
		return 0, err
	}
	y, err := o.right.eval(vars)
	if err != nil {
		return 0, err
	}

	asFloat := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}

	switch o.op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		return x / y, nil
	case "//":
		return math.Floor(x / y), nil
	case "%":
		return x - y*math.Floor(x/y), nil
	case "**":
		return math.Pow(x, y), nil
	case "^":
		return float64(int64(x) ^ int64(y)), nil
	case "and":
		if truthy(x) {
			return y, nil
		}
		return x, nil
	case "&":
		return float64(int64(x) & int64(y)), nil
	case "or":
		if truthy(x) {
			return x, nil
		}
		return y, nil
	case "|":
		return float64(int64(x) | int64(y)), nil
	case "==":
		return asFloat(x == y), nil
	case "!=":
		return asFloat(x != y), nil
	case ">":
		return asFloat(x > y), nil
	case "<":
		return asFloat(x < y), nil
	case ">=":
		return asFloat(x >= y), nil
	case "<=":
		return asFloat(x <= y), nil
	}
	return 0, errors.New("Unknown operator: " + o.op)
}

// floatPrint evaluates its expression and shows the result.
type floatPrint struct {
	inner floatExpr
	conn  *Conn
}

func (p floatPrint) eval(vars map[string]float64) (float64, error) {
	value, err := p.inner.eval(vars)
	if err != nil {
		return 0, err
	}
	if err := p.conn.Print(strconv.FormatFloat(value, 'g', -1,
		64)); err != nil {
		return 0, err
	}
	return value, nil
}

// floatToken is either an operator symbol or an operand.
type floatToken struct {
	op      string
	operand floatExpr
}

var floatOperators = map[string]bool{
	"=": true, "+": true, "-": true, "*": true, "/": true, "//": true,
	"%": true, "**": true, "^": true, "and": true, "&": true, "or": true,
	"|": true, "==": true, "!=": true, ">": true, "<": true, ">=": true,
	"<=": true,
}

// parse splits the line into statements (on `;` and newlines) and builds
// an expression tree for each.
func (m *MathExpressionEvaluator) parse(line string) ([]floatExpr, error) {
	statements := []floatExpr{}

	for _, statement := range strings.Split(
		strings.ReplaceAll(line, ";", "\n"), "\n") {
		if statement == "" || strings.HasPrefix(statement, "#") {
			continue
		}

		tokens := []floatToken{}
		for _, word := range strings.Fields(statement) {
			if floatOperators[word] {
				tokens = append(tokens, floatToken{op: word})
				continue
			}
			if value, err := strconv.ParseFloat(word, 64); err == nil {
				tokens = append(tokens,
					floatToken{operand: floatConstant(value)})
				continue
			}
			tokens = append(tokens, floatToken{operand: floatVariable(word)})
		}

		built, err := m.build(tokens)
		if err != nil {
			return nil, err
		}
		statements = append(statements, built)
	}
	return statements, nil
}

// build handles assignment chains: every `=`-separated section but the
// last must be a single variable, and the last flattens to an expression
// assigned right to left.
func (m *MathExpressionEvaluator) build(
	tokens []floatToken) (floatExpr, error) {
	sections := [][]floatToken{}
	current := []floatToken{}
	assigned := false
	for _, token := range tokens {
		if token.op == "=" {
			assigned = true
			sections = append(sections, current)
			current = []floatToken{}
			continue
		}
		current = append(current, token)
	}
	sections = append(sections, current)

	if !assigned {
		flat, err := m.flatten(tokens)
		if err != nil {
			return nil, err
		}
		return floatPrint{inner: flat, conn: m.client.Conn}, nil
	}

	for _, section := range sections[:len(sections)-1] {
		if len(section) != 1 {
			return nil, errors.New("Must Have Single Token")
		}
		if _, ok := section[0].operand.(floatVariable); !ok {
			return nil, errors.New("Must Assign to Variable")
		}
	}

	value, err := m.flatten(sections[len(sections)-1])
	if err != nil {
		return nil, err
	}
	op := floatExpr(value)
	for index := len(sections) - 2; index >= 0; index-- {
		op = floatOperation{left: sections[index][0].operand, op: "=",
			right: op}
	}
	return op, nil
}

// flatten folds an operand/operator alternation left to right, with no
// precedence.
func (m *MathExpressionEvaluator) flatten(
	tokens []floatToken) (floatExpr, error) {
	if len(tokens)%2 != 1 {
		return nil, errors.New("Must Have Odd Number of Tokens")
	}
	for index, token := range tokens {
		if index%2 == 0 && token.operand == nil {
			return nil, errors.New("Must Have Constant or Variable")
		}
		if index%2 == 1 && token.op == "" {
			return nil, errors.New("Must Have Operation")
		}
	}

	op := tokens[0].operand
	for index := 1; index < len(tokens); index += 2 {
		op = floatOperation{left: op, op: tokens[index].op,
			right: tokens[index+1].operand}
	}
	return op, nil
}
