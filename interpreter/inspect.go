package interpreter

import (
	"sort"
	"strings"
)

// BlockCursor locates execution inside a conditional's block.
type BlockCursor struct {
	Step  int `yaml:"step"`
	Depth int `yaml:"depth"`
	Index int `yaml:"index"`
	Sub   int `yaml:"sub"`
}

// Display is a copy of the session state for rendering. Nothing in it
// aliases the live session.
type Display struct {
	Status          string       `yaml:"status"`
	ProgramCounter  int          `yaml:"program_counter"`
	BlockCursor     *BlockCursor `yaml:"block_cursor,omitempty"`
	CurrentLabel    string       `yaml:"current_label,omitempty"`
	CurrentLine     int          `yaml:"current_line,omitempty"`
	Variables       Env          `yaml:"variables"`
	Columns         []string     `yaml:"columns"`
	ConsoleText     string       `yaml:"console"`
	TraceRows       []TraceRow   `yaml:"trace"`
	WaitingForInput bool         `yaml:"waiting_for_input"`
	WaitingVariable string       `yaml:"waiting_variable,omitempty"`
	UndoDepth       int          `yaml:"undo_depth"`
}

func (s *Session) SnapshotForDisplay() Display {
	d := Display{
		Status:          s.Status().String(),
		ProgramCounter:  s.cur.pc,
		Variables:       s.cur.vars.Clone(),
		Columns:         s.prog.Variables(),
		ConsoleText:     s.cur.console,
		TraceRows:       s.cur.trace.Clone(),
		WaitingForInput: s.cur.waiting,
		WaitingVariable: s.cur.waitVar,
		UndoDepth:       len(s.history),
	}
	if n := len(s.cur.frames); n > 0 && s.cur.pc < len(s.prog.Steps) {
		d.BlockCursor = &BlockCursor{
			Step:  s.prog.Steps[s.cur.pc].Number,
			Depth: n,
			Index: s.cur.frames[n-1].index,
			Sub:   s.cur.sub,
		}
	}
	if !s.atEnd() {
		label, _, span := s.current()
		d.CurrentLabel = label
		d.CurrentLine = span.Line
	}
	return d
}

// Variables returns a copy of the variable environment.
func (s *Session) Variables() Env { return s.cur.vars.Clone() }

// VariableNames returns the currently bound names, sorted.
func (s *Session) VariableNames() []string {
	names := make([]string, 0, len(s.cur.vars))
	for name := range s.cur.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Session) Console() string { return s.cur.console }

func (s *Session) Trace() TraceLog { return s.cur.trace.Clone() }

// FormatConsole makes spaces visible.
func FormatConsole(text string) string {
	return strings.ReplaceAll(text, " ", "·")
}
