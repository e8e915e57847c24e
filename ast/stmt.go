package ast

import "fmt"

// Kind is the classification of a single command line.
type Kind int

const (
	KindUnknown Kind = iota
	KindStart
	KindStop
	KindPrint
	KindRead
	KindAssign
	KindGoto
	KindIf
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindStop:
		return "stop"
	case KindPrint:
		return "print"
	case KindRead:
		return "read"
	case KindAssign:
		return "assignment"
	case KindGoto:
		return "goto"
	case KindIf:
		return "if"
	default:
		return "unknown"
	}
}

// Text is unparsed expression or condition source. Expressions are parsed
// when they are evaluated, so a malformed one only fails the step using it.
type Text struct {
	S   Span
	Src string
}

type Command interface {
	Node
	Kind() Kind
	String() string
	GetSpan() Span
}

type StartCmd struct{ S Span }

func (c *StartCmd) NodeKind() string { return "StartCmd" }
func (c *StartCmd) Kind() Kind       { return KindStart }
func (c *StartCmd) GetSpan() Span    { return c.S }
func (c *StartCmd) String() string   { return "Start" }

type StopCmd struct{ S Span }

func (c *StopCmd) NodeKind() string { return "StopCmd" }
func (c *StopCmd) Kind() Kind       { return KindStop }
func (c *StopCmd) GetSpan() Span    { return c.S }
func (c *StopCmd) String() string   { return "Stop" }

type PrintCmd struct {
	S     Span
	Value Text
}

func (c *PrintCmd) NodeKind() string { return "PrintCmd" }
func (c *PrintCmd) Kind() Kind       { return KindPrint }
func (c *PrintCmd) GetSpan() Span    { return c.S }
func (c *PrintCmd) String() string   { return fmt.Sprintf("Print(%s)", c.Value.Src) }

type ReadCmd struct {
	S    Span
	Name string
}

func (c *ReadCmd) NodeKind() string { return "ReadCmd" }
func (c *ReadCmd) Kind() Kind       { return KindRead }
func (c *ReadCmd) GetSpan() Span    { return c.S }
func (c *ReadCmd) String() string   { return fmt.Sprintf("Read(%s)", c.Name) }

type AssignCmd struct {
	S     Span
	Name  string
	Value Text
}

func (c *AssignCmd) NodeKind() string { return "AssignCmd" }
func (c *AssignCmd) Kind() Kind       { return KindAssign }
func (c *AssignCmd) GetSpan() Span    { return c.S }
func (c *AssignCmd) String() string {
	return fmt.Sprintf("Assign(%s = %s)", c.Name, c.Value.Src)
}

// GotoCmd.Target is -1 when the target could not be read from the line.
type GotoCmd struct {
	S      Span
	Target int
	Raw    string
}

func (c *GotoCmd) NodeKind() string { return "GotoCmd" }
func (c *GotoCmd) Kind() Kind       { return KindGoto }
func (c *GotoCmd) GetSpan() Span    { return c.S }
func (c *GotoCmd) String() string   { return fmt.Sprintf("Goto(step-%d)", c.Target) }

// IfCmd is used both for a conditional step and for a conditional nested
// inside another conditional's block.
type IfCmd struct {
	S         Span
	Condition Text
	Block     []*BlockItem
}

func (c *IfCmd) NodeKind() string { return "IfCmd" }
func (c *IfCmd) Kind() Kind       { return KindIf }
func (c *IfCmd) GetSpan() Span    { return c.S }
func (c *IfCmd) String() string {
	return fmt.Sprintf("If(%s, block=%d)", c.Condition.Src, len(c.Block))
}

type UnknownCmd struct {
	S    Span
	Text string
}

func (c *UnknownCmd) NodeKind() string { return "UnknownCmd" }
func (c *UnknownCmd) Kind() Kind       { return KindUnknown }
func (c *UnknownCmd) GetSpan() Span    { return c.S }
func (c *UnknownCmd) String() string   { return fmt.Sprintf("Unknown(%q)", c.Text) }

// Step is one numbered top-level line. Source is the original line with
// trailing whitespace removed.
type Step struct {
	S      Span
	Number int
	Cmd    Command
	Source string
}

func (s *Step) NodeKind() string { return "Step" }
func (s *Step) GetSpan() Span    { return s.S }
func (s *Step) String() string   { return fmt.Sprintf("Step(%d, %s)", s.Number, s.Cmd.String()) }

// BlockItem is one indented line of a conditional block. Indent counts the
// leading spaces of Source.
type BlockItem struct {
	S      Span
	Cmd    Command
	Indent int
	Source string
}

func (b *BlockItem) NodeKind() string { return "BlockItem" }
func (b *BlockItem) GetSpan() Span    { return b.S }
func (b *BlockItem) String() string   { return fmt.Sprintf("BlockItem(%s)", b.Cmd.String()) }

// Nested reports the inner conditional when the item is itself an if.
func (b *BlockItem) Nested() (*IfCmd, bool) {
	c, ok := b.Cmd.(*IfCmd)
	return c, ok
}
