package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"steptrace/ast"
)

// ErrNotWaiting is returned by ProvideInput when no read is pending.
var ErrNotWaiting = errors.New("session is not waiting for input")

// RuntimeError is a failed step. The session has already been rolled back
// when a caller sees one.
type RuntimeError struct {
	Label string
	Span  ast.Span
	Msg   string
	Line  string
}

func (e *RuntimeError) Error() string {
	if e.Label == "" && e.Line == "" {
		if e.Span.Col > 0 {
			return fmt.Sprintf("%s (column %d)", e.Msg, e.Span.Col)
		}
		return e.Msg
	}

	var b strings.Builder
	b.WriteString("Runtime error")
	if e.Label != "" {
		b.WriteString(" at step " + e.Label)
	}
	if e.Span.Line > 0 {
		b.WriteString(" (line " + e.Span.String() + ")")
	}
	b.WriteString("\n  " + e.Msg)

	if e.Line != "" && e.Span.Line > 0 {
		prefix := fmt.Sprintf("  %d | ", e.Span.Line)
		b.WriteString("\n" + prefix + e.Line)
		if e.Span.Col > 0 {
			b.WriteString("\n" + strings.Repeat(" ", len(prefix)+e.Span.Col-1) + "^")
		}
	}
	return b.String()
}

func runtimeErr(span ast.Span, format string, args ...any) *RuntimeError {
	return &RuntimeError{Span: span, Msg: fmt.Sprintf(format, args...)}
}

// InputError rejects a value supplied for a read that is not an integer.
type InputError struct {
	Raw string
	Var string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("Input must be a whole number: %q is not valid for %s", e.Raw, e.Var)
}

// relocate moves an expression-relative error span onto the expression's
// position in the source.
func relocate(err error, base ast.Span) error {
	var re *RuntimeError
	if errors.As(err, &re) && re.Span.Line == 0 {
		re.Span = re.Span.Shift(base)
	}
	return err
}

// describe attaches the failing action's label and source line.
func describe(err error, label, line string) error {
	var re *RuntimeError
	if !errors.As(err, &re) {
		return &RuntimeError{Label: label, Msg: err.Error(), Line: line}
	}
	re.Label = label
	re.Line = line
	return re
}
