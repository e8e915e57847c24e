package interpreter

import (
	"errors"
	"strconv"

	"steptrace/ast"
	"steptrace/parser"
)

// EvaluateExpression parses and evaluates expr against env. Every failure
// is a *RuntimeError whose span column is relative to expr.
func EvaluateExpression(expr string, env Env) (Value, error) {
	e, err := parser.ParseExpr(expr)
	if err != nil {
		return Value{}, fromParseErr(err)
	}
	return evalExpr(e, env)
}

// EvaluateCondition evaluates a single integer comparison.
func EvaluateCondition(cond string, env Env) (bool, error) {
	c, err := parser.ParseCondition(cond)
	if err != nil {
		return false, fromParseErr(err)
	}
	left, err := evalExpr(c.Left, env)
	if err != nil {
		return false, err
	}
	right, err := evalExpr(c.Right, env)
	if err != nil {
		return false, err
	}
	if !left.IsInt() || !right.IsInt() {
		return false, runtimeErr(c.GetSpan(), "Comparison operators only work with integers (got %s %s %s)", left.Kind, c.Op, right.Kind)
	}
	a, b := left.Int, right.Int
	switch c.Op {
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case ">=":
		return a >= b, nil
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	}
	return false, runtimeErr(c.GetSpan(), "Unknown comparison %q", c.Op)
}

func fromParseErr(err error) error {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return &RuntimeError{Span: ast.Span{Col: pe.Col}, Msg: pe.Msg}
	}
	return &RuntimeError{Msg: err.Error()}
}

func evalExpr(e ast.Expr, env Env) (Value, error) {
	switch expr := e.(type) {
	case *ast.StringLiteral:
		return StringValue(expr.Value), nil

	case *ast.NumberLiteral:
		n, err := strconv.ParseInt(leadingDigits(expr.Lexeme), 10, 64)
		if err != nil {
			return Value{}, runtimeErr(expr.GetSpan(), "Invalid number %q", expr.Lexeme)
		}
		return IntValue(n), nil

	case *ast.Identifier:
		v, ok := env[expr.Name]
		if !ok {
			return Value{}, runtimeErr(expr.GetSpan(), "Unknown variable %q", expr.Name)
		}
		return v, nil

	case *ast.ParenExpr:
		return evalExpr(expr.Inner, env)

	case *ast.UnaryExpr:
		right, err := evalExpr(expr.Right, env)
		if err != nil {
			return Value{}, err
		}
		if !right.IsInt() {
			return Value{}, runtimeErr(expr.GetSpan(), "Negation only works with integers")
		}
		return IntValue(-right.Int), nil

	case *ast.BinaryExpr:
		left, err := evalExpr(expr.Left, env)
		if err != nil {
			return Value{}, err
		}
		right, err := evalExpr(expr.Right, env)
		if err != nil {
			return Value{}, err
		}
		return applyOp(expr, left, right)

	default:
		span, _ := ast.SpanOf(e)
		return Value{}, runtimeErr(span, "Unsupported expression")
	}
}

var opNames = map[string]string{
	"-": "Subtraction",
	"*": "Multiplication",
	"/": "Division",
	"%": "Modulo",
}

func applyOp(expr *ast.BinaryExpr, left, right Value) (Value, error) {
	if expr.Op == "+" {
		if !left.IsInt() || !right.IsInt() {
			return StringValue(left.ToString() + right.ToString()), nil
		}
		return IntValue(left.Int + right.Int), nil
	}

	name, ok := opNames[expr.Op]
	if !ok {
		return Value{}, runtimeErr(expr.GetSpan(), "Unknown operator %q", expr.Op)
	}
	if !left.IsInt() || !right.IsInt() {
		return Value{}, runtimeErr(expr.GetSpan(), "%s only works with integers", name)
	}
	a, b := left.Int, right.Int
	switch expr.Op {
	case "-":
		return IntValue(a - b), nil
	case "*":
		return IntValue(a * b), nil
	case "/":
		if b == 0 {
			return Value{}, runtimeErr(expr.GetSpan(), "Division by zero")
		}
		return IntValue(floorDiv(a, b)), nil
	default:
		if b == 0 {
			return Value{}, runtimeErr(expr.GetSpan(), "Modulo by zero")
		}
		return IntValue(a % b), nil
	}
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

// floorDiv rounds toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
