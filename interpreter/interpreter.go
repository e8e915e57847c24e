// Package interpreter evaluates expressions and runs a parsed program one
// atomic action at a time, with undo back to any earlier point.
package interpreter

import (
	"strconv"
	"strings"

	"steptrace/ast"
)

type Status int

const (
	Idle Status = iota
	Running
	WaitingForInput
	Halted
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case WaitingForInput:
		return "waiting-for-input"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}

// frame is a position inside one block. The innermost block is last.
type frame struct {
	items []*ast.BlockItem
	index int
}

// state is everything a step may change. Program nodes referenced from
// frames are immutable and shared; everything else is owned.
type state struct {
	pc      int
	vars    Env
	console string
	trace   TraceLog

	frames []frame
	// sub is the label position inside the current step's block
	sub int

	waiting   bool
	waitVar   string
	waitLabel string

	halted bool
}

func (st state) clone() state {
	out := st
	out.vars = st.vars.Clone()
	out.trace = st.trace.Clone()
	if st.frames != nil {
		out.frames = append([]frame(nil), st.frames...)
	}
	return out
}

// Session is the live execution of one program. It is not safe for
// concurrent use.
type Session struct {
	prog    *ast.Program
	cur     state
	history []state
}

func NewSession(prog *ast.Program) *Session {
	return &Session{
		prog: prog,
		cur: state{
			vars:  Env{},
			trace: TraceLog{},
		},
		history: []state{},
	}
}

func (s *Session) Program() *ast.Program { return s.prog }

func (s *Session) Status() Status {
	switch {
	case s.cur.waiting:
		return WaitingForInput
	case s.atEnd():
		return Halted
	case len(s.history) == 0:
		return Idle
	default:
		return Running
	}
}

func (s *Session) atEnd() bool {
	return s.cur.halted || (len(s.cur.frames) == 0 && s.cur.pc >= len(s.prog.Steps))
}

// CanStep reports whether Step would do anything.
func (s *Session) CanStep() bool { return !s.cur.waiting && !s.atEnd() }

// CanStepBack reports whether there is history to undo.
func (s *Session) CanStepBack() bool { return len(s.history) > 0 }

// Step performs exactly one atomic action. On failure the session is
// restored to its state before the call and a *RuntimeError is returned.
func (s *Session) Step() error {
	if !s.CanStep() {
		return nil
	}
	label, line, _ := s.current()
	s.history = append(s.history, s.cur.clone())

	var err error
	if len(s.cur.frames) > 0 {
		err = s.execBlockItem()
	} else {
		err = s.execStep()
	}
	if err != nil {
		s.StepBack()
		return describe(err, label, line)
	}
	return nil
}

// StepBack restores the state from before the most recent Step. The
// session never resumes in the waiting state; a read has to be stepped
// into again.
func (s *Session) StepBack() {
	if len(s.history) == 0 {
		return
	}
	last := len(s.history) - 1
	s.cur = s.history[last]
	s.history = s.history[:last]
	s.cur.waiting = false
	s.cur.waitVar = ""
	s.cur.waitLabel = ""
}

// ProvideInput resolves a pending read. The raw text is echoed to the
// console even when it is rejected.
func (s *Session) ProvideInput(raw string) error {
	if !s.cur.waiting {
		return ErrNotWaiting
	}
	s.cur.console += raw + "\n"

	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return &InputError{Raw: raw, Var: s.cur.waitVar}
	}
	name, label := s.cur.waitVar, s.cur.waitLabel
	s.cur.vars[name] = IntValue(n)
	s.record(label, "", Env{name: IntValue(n)})
	s.cur.waiting = false
	s.cur.waitVar = ""
	s.cur.waitLabel = ""

	if len(s.cur.frames) > 0 {
		s.advanceBlock()
	} else {
		s.cur.pc++
	}
	return nil
}

// current describes the action the cursor points at.
func (s *Session) current() (label string, line string, span ast.Span) {
	if s.cur.pc >= len(s.prog.Steps) {
		return "", "", ast.Span{}
	}
	st := s.prog.Steps[s.cur.pc]
	if n := len(s.cur.frames); n > 0 {
		top := s.cur.frames[n-1]
		if top.index < len(top.items) {
			item := top.items[top.index]
			return SubLabel(st.Number, s.cur.sub), item.Source, item.S
		}
	}
	return StepLabel(st.Number), st.Source, st.S
}

func (s *Session) execStep() error {
	st := s.prog.Steps[s.cur.pc]
	label := StepLabel(st.Number)

	switch cmd := st.Cmd.(type) {
	case *ast.StartCmd:
		s.record(label, "", nil)
		s.cur.pc++

	case *ast.StopCmd:
		s.record(label, "", nil)
		s.cur.pc++
		s.cur.halted = true

	case *ast.PrintCmd:
		if err := s.print(label, cmd); err != nil {
			return err
		}
		s.cur.pc++

	case *ast.AssignCmd:
		if err := s.assign(label, cmd); err != nil {
			return err
		}
		s.cur.pc++

	case *ast.ReadCmd:
		s.suspend(cmd.Name, label)

	case *ast.GotoCmd:
		return s.jump(cmd)

	case *ast.IfCmd:
		ok, err := s.condition(cmd)
		if err != nil {
			return err
		}
		if !ok {
			s.cur.pc++
			return nil
		}
		s.cur.frames = []frame{{items: cmd.Block}}
		s.cur.sub = 0
		s.settle()

	default:
		return runtimeErr(st.Cmd.GetSpan(), "Unknown command: %s", strings.TrimSpace(st.Source))
	}
	return nil
}

func (s *Session) execBlockItem() error {
	top := &s.cur.frames[len(s.cur.frames)-1]
	item := top.items[top.index]
	label := SubLabel(s.prog.Steps[s.cur.pc].Number, s.cur.sub)

	switch cmd := item.Cmd.(type) {
	case *ast.IfCmd:
		ok, err := s.condition(cmd)
		if err != nil {
			return err
		}
		top.index++
		if ok {
			s.cur.frames = append(s.cur.frames, frame{items: cmd.Block})
		} else {
			// skipped actions still use up their labels
			s.cur.sub += len(cmd.Block)
		}
		s.settle()

	case *ast.GotoCmd:
		return s.jump(cmd)

	case *ast.ReadCmd:
		s.suspend(cmd.Name, label)

	case *ast.PrintCmd:
		if err := s.print(label, cmd); err != nil {
			return err
		}
		s.advanceBlock()

	case *ast.AssignCmd:
		if err := s.assign(label, cmd); err != nil {
			return err
		}
		s.advanceBlock()

	default:
		return runtimeErr(item.S, "Unsupported command in if block: %s", strings.TrimSpace(item.Source))
	}
	return nil
}

func (s *Session) advanceBlock() {
	s.cur.frames[len(s.cur.frames)-1].index++
	s.cur.sub++
	s.settle()
}

// settle drops finished blocks; leaving the outermost one moves past the
// conditional step.
func (s *Session) settle() {
	for n := len(s.cur.frames); n > 0 && s.cur.frames[n-1].index >= len(s.cur.frames[n-1].items); n = len(s.cur.frames) {
		s.cur.frames = s.cur.frames[:n-1]
	}
	if len(s.cur.frames) == 0 {
		s.cur.frames = nil
		s.cur.sub = 0
		s.cur.pc++
	}
}

func (s *Session) jump(cmd *ast.GotoCmd) error {
	if cmd.Target < 0 {
		return runtimeErr(cmd.GetSpan(), "Invalid goto command: %s", cmd.Raw)
	}
	idx := s.prog.IndexOf(cmd.Target)
	if idx < 0 {
		return runtimeErr(cmd.GetSpan(), "Invalid goto target: step-%d", cmd.Target)
	}
	s.cur.frames = nil
	s.cur.sub = 0
	s.cur.pc = idx
	return nil
}

func (s *Session) suspend(name, label string) {
	s.cur.waiting = true
	s.cur.waitVar = name
	s.cur.waitLabel = label
}

func (s *Session) print(label string, cmd *ast.PrintCmd) error {
	v, err := s.eval(cmd.Value)
	if err != nil {
		return err
	}
	out := v.ToString()
	s.cur.console += out
	s.record(label, out, nil)
	return nil
}

func (s *Session) assign(label string, cmd *ast.AssignCmd) error {
	v, err := s.eval(cmd.Value)
	if err != nil {
		return err
	}
	s.cur.vars[cmd.Name] = v
	s.record(label, "", Env{cmd.Name: v})
	return nil
}

func (s *Session) condition(cmd *ast.IfCmd) (bool, error) {
	ok, err := EvaluateCondition(cmd.Condition.Src, s.cur.vars)
	if err != nil {
		return false, relocate(err, cmd.Condition.S)
	}
	return ok, nil
}

func (s *Session) eval(t ast.Text) (Value, error) {
	v, err := EvaluateExpression(t.Src, s.cur.vars)
	if err != nil {
		return Value{}, relocate(err, t.S)
	}
	return v, nil
}

func (s *Session) record(label, output string, changed Env) {
	s.cur.trace = s.cur.trace.Append(TraceRow{Label: label, Output: output, Changed: changed})
}
