package parser

import "fmt"

// ParseError reports the first structural problem found. Program errors
// carry a Line; expression errors carry a Col relative to the expression.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("Parse error at line %d: %s", e.Line, e.Msg)
	case e.Col > 0:
		return fmt.Sprintf("%s at column %d", e.Msg, e.Col)
	default:
		return e.Msg
	}
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
