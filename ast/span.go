package ast

import "fmt"

// Span is a 1-based source position. Col 0 means the whole line.
type Span struct {
	Line int
	Col  int
}

func (s Span) String() string {
	if s.Col > 0 {
		return fmt.Sprintf("%d:%d", s.Line, s.Col)
	}
	return fmt.Sprintf("%d", s.Line)
}

// Shift moves a span that is relative to an expression string onto the
// position where that expression starts in the source.
func (s Span) Shift(base Span) Span {
	out := Span{Line: base.Line, Col: base.Col}
	if s.Col > 0 {
		out.Col = base.Col + s.Col - 1
	}
	return out
}

type HasSpan interface {
	GetSpan() Span
}

func SpanOf(n any) (Span, bool) {
	if n == nil {
		return Span{}, false
	}
	hs, ok := n.(HasSpan)
	if !ok {
		return Span{}, false
	}
	return hs.GetSpan(), true
}
