package interpreter

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"steptrace/ast"
	"steptrace/parser"
	"steptrace/validator"
)

func mustLoad(t *testing.T, src string) *Session {
	t.Helper()
	s, err := Load(src)
	if err != nil {
		t.Fatalf("Load error: %v\nsource:\n%s", err, src)
	}
	return s
}

// runAll steps until the session halts or waits, failing after limit steps.
func runAll(t *testing.T, s *Session, limit int) {
	t.Helper()
	for n := 0; s.CanStep(); n++ {
		if n >= limit {
			t.Fatalf("still running after %d steps", limit)
		}
		if err := s.Step(); err != nil {
			t.Fatalf("step %d: %v", n+1, err)
		}
	}
}

func labels(s *Session) []string {
	out := []string{}
	for _, row := range s.Trace() {
		out = append(out, row.Label)
	}
	return out
}

func wantLabels(t *testing.T, s *Session, want ...string) {
	t.Helper()
	if got := labels(s); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("labels = %v, want %v", got, want)
	}
}

const simple = `step-1: start
step-2: X = 5
step-3: print "X is " + X
step-4: stop`

func TestRunSimple(t *testing.T) {
	s := mustLoad(t, simple)
	if s.Status() != Idle {
		t.Fatalf("status = %s, want idle", s.Status())
	}
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != Running {
		t.Fatalf("status = %s, want running", s.Status())
	}
	runAll(t, s, 10)
	if s.Status() != Halted {
		t.Fatalf("status = %s, want halted", s.Status())
	}
	wantLabels(t, s, "1", "2", "3", "4")
	if s.Console() != "X is 5" {
		t.Fatalf("console = %q", s.Console())
	}
	rows := s.Trace()
	if rows[1].Changed["X"] != IntValue(5) || rows[2].Output != "X is 5" {
		t.Fatalf("trace = %+v", rows)
	}

	before := s.SnapshotForDisplay()
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, s.SnapshotForDisplay()) {
		t.Fatalf("stepping a halted session changed it")
	}
}

const labelled = `step-1: start
step-2: X = %s
step-3: if (X > 0):
          print "a"
          if (X > 5):
            print "b"
            print "c"
            print "d"
          print "e"
step-4: stop`

func TestFalseNestedIfSkipsLabels(t *testing.T) {
	s := mustLoad(t, strings.Replace(labelled, "%s", "1", 1))
	runAll(t, s, 20)
	wantLabels(t, s, "1", "2", "3a", "3e", "4")
	if s.Console() != "ae" {
		t.Fatalf("console = %q", s.Console())
	}
}

func TestTrueNestedIfLabels(t *testing.T) {
	s := mustLoad(t, strings.Replace(labelled, "%s", "9", 1))
	runAll(t, s, 20)
	wantLabels(t, s, "1", "2", "3a", "3b", "3c", "3d", "3e", "4")
	if s.Console() != "abcde" {
		t.Fatalf("console = %q", s.Console())
	}
}

func TestFalseConditionSkipsBlock(t *testing.T) {
	s := mustLoad(t, strings.Replace(labelled, "%s", "0", 1))
	runAll(t, s, 20)
	wantLabels(t, s, "1", "2", "4")
}

func TestEnteringBlockIsOwnStep(t *testing.T) {
	s := mustLoad(t, strings.Replace(labelled, "%s", "1", 1))
	for range 3 {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	d := s.SnapshotForDisplay()
	if len(d.TraceRows) != 2 {
		t.Fatalf("entering a block recorded a row: %+v", d.TraceRows)
	}
	want := &BlockCursor{Step: 3, Depth: 1, Index: 0, Sub: 0}
	if !reflect.DeepEqual(d.BlockCursor, want) {
		t.Fatalf("cursor = %+v, want %+v", d.BlockCursor, want)
	}
	if d.CurrentLabel != "3a" || d.CurrentLine != 4 {
		t.Fatalf("current = %s line %d", d.CurrentLabel, d.CurrentLine)
	}
}

func TestUndoExactness(t *testing.T) {
	s := mustLoad(t, strings.Replace(labelled, "%s", "9", 1))
	snaps := []Display{s.SnapshotForDisplay()}
	for s.CanStep() {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
		snaps = append(snaps, s.SnapshotForDisplay())
	}
	for i := len(snaps) - 2; i >= 0; i-- {
		s.StepBack()
		if got := s.SnapshotForDisplay(); !reflect.DeepEqual(got, snaps[i]) {
			t.Fatalf("after undo to %d:\n got %+v\nwant %+v", i, got, snaps[i])
		}
	}
	if s.CanStepBack() {
		t.Fatalf("history left after undoing everything")
	}
	s.StepBack()
	if !reflect.DeepEqual(s.SnapshotForDisplay(), snaps[0]) {
		t.Fatalf("StepBack with empty history changed the session")
	}
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	s := mustLoad(t, simple)
	runAll(t, s, 10)
	d := s.SnapshotForDisplay()
	d.Variables["X"] = IntValue(99)
	d.TraceRows[1].Changed["X"] = IntValue(99)
	if s.Variables()["X"] != IntValue(5) || s.Trace()[1].Changed["X"] != IntValue(5) {
		t.Fatalf("display copy aliases the session")
	}
}

const reading = `step-1: start
step-2: read N
step-3: print N * 2
step-4: stop`

func TestReadAndProvideInput(t *testing.T) {
	s := mustLoad(t, reading)
	if err := s.ProvideInput("1"); !errors.Is(err, ErrNotWaiting) {
		t.Fatalf("ProvideInput before read = %v, want ErrNotWaiting", err)
	}
	runAll(t, s, 10)
	if s.Status() != WaitingForInput {
		t.Fatalf("status = %s, want waiting", s.Status())
	}
	if d := s.SnapshotForDisplay(); !d.WaitingForInput || d.WaitingVariable != "N" {
		t.Fatalf("display = %+v", d)
	}
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	wantLabels(t, s, "1")

	err := s.ProvideInput("abc")
	var inErr *InputError
	if !errors.As(err, &inErr) || inErr.Raw != "abc" || inErr.Var != "N" {
		t.Fatalf("ProvideInput(abc) = %v, want *InputError", err)
	}
	if s.Status() != WaitingForInput || s.Console() != "abc\n" {
		t.Fatalf("after bad input: status %s console %q", s.Status(), s.Console())
	}
	wantLabels(t, s, "1")
	if _, ok := s.Variables()["N"]; ok {
		t.Fatalf("bad input was stored")
	}

	for _, bad := range []string{"", "1.5", "0x10", "12abc"} {
		if err := s.ProvideInput(bad); !errors.As(err, &inErr) {
			t.Fatalf("ProvideInput(%q) = %v, want *InputError", bad, err)
		}
	}

	if err := s.ProvideInput(" -21 "); err != nil {
		t.Fatal(err)
	}
	if s.Variables()["N"] != IntValue(-21) {
		t.Fatalf("N = %v", s.Variables()["N"])
	}
	rows := s.Trace()
	if rows[1].Label != "2" || rows[1].Changed["N"] != IntValue(-21) {
		t.Fatalf("read row = %+v", rows[1])
	}
	runAll(t, s, 10)
	if !strings.HasSuffix(s.Console(), " -21 \n-42") {
		t.Fatalf("console = %q", s.Console())
	}
}

func TestStepBackClearsWaiting(t *testing.T) {
	s := mustLoad(t, reading)
	runAll(t, s, 10)
	s.StepBack()
	if s.Status() != Running || !s.CanStep() {
		t.Fatalf("status = %s after undoing the read", s.Status())
	}
	if d := s.SnapshotForDisplay(); d.WaitingForInput || d.CurrentLabel != "2" {
		t.Fatalf("display = %+v", d)
	}
	if err := s.Step(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != WaitingForInput {
		t.Fatalf("re-stepping the read: status = %s", s.Status())
	}
}

func TestUndoResolvedRead(t *testing.T) {
	s := mustLoad(t, reading)
	runAll(t, s, 10)
	if err := s.ProvideInput("4"); err != nil {
		t.Fatal(err)
	}
	s.StepBack()
	if s.Console() != "" || len(s.Trace()) != 1 || len(s.Variables()) != 0 {
		t.Fatalf("undo left console %q trace %v vars %v", s.Console(), s.Trace(), s.Variables())
	}
}

func TestReadInsideBlock(t *testing.T) {
	s := mustLoad(t, `step-1: start
step-2: X = 1
step-3: if (X == 1):
          read N
          print N
step-4: stop`)
	runAll(t, s, 10)
	if s.Status() != WaitingForInput {
		t.Fatalf("status = %s", s.Status())
	}
	if err := s.ProvideInput("7"); err != nil {
		t.Fatal(err)
	}
	runAll(t, s, 10)
	wantLabels(t, s, "1", "2", "3a", "3b", "4")
	if s.Console() != "7\n7" {
		t.Fatalf("console = %q", s.Console())
	}
}

func TestGotoLoopNeverHalts(t *testing.T) {
	s := mustLoad(t, `step-1: start
step-2: X = 0
step-3: X = X + 1
step-4: goto step-3
step-5: stop`)
	for range 1000 {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
		if s.Status() == Halted {
			t.Fatalf("loop halted")
		}
	}
	if x := s.Variables()["X"]; x != IntValue(499) {
		t.Fatalf("X = %v, want 499", x)
	}
	for _, l := range labels(s) {
		if l == "4" {
			t.Fatalf("goto recorded a trace row")
		}
	}
}

func TestGotoInsideBlock(t *testing.T) {
	s := mustLoad(t, `step-1: start
step-2: X = 0
step-3: X = X + 1
step-4: if (X < 3):
          print X
          goto step-3
          print "never"
step-5: print "done"
step-6: stop`)
	runAll(t, s, 50)
	wantLabels(t, s, "1", "2", "3", "4a", "3", "4a", "3", "5", "6")
	if s.Console() != "12done" {
		t.Fatalf("console = %q", s.Console())
	}
}

func TestRuntimeErrorRollsBack(t *testing.T) {
	s := mustLoad(t, `step-1: start
step-2: X = 5
step-3: Y = X / 0
step-4: stop`)
	for range 2 {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	before := s.SnapshotForDisplay()
	err := s.Step()
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("Step = %v, want *RuntimeError", err)
	}
	if re.Label != "3" || re.Msg != "Division by zero" || re.Span.Line != 3 || re.Span.Col != 15 {
		t.Fatalf("error = %+v", re)
	}
	want := "Runtime error at step 3 (line 3:15)\n  Division by zero\n  3 | step-3: Y = X / 0\n" + strings.Repeat(" ", 20) + "^"
	if err.Error() != want {
		t.Fatalf("message:\n%s\nwant:\n%s", err.Error(), want)
	}
	if !reflect.DeepEqual(before, s.SnapshotForDisplay()) {
		t.Fatalf("failed step changed state")
	}
	if _, ok := s.Variables()["Y"]; ok {
		t.Fatalf("Y was assigned")
	}
}

func TestRuntimeErrorInCondition(t *testing.T) {
	s := mustLoad(t, `step-1: start
step-2: if ("a" < 1):
          print 1
step-3: stop`)
	_ = s.Step()
	err := s.Step()
	var re *RuntimeError
	if !errors.As(err, &re) || re.Msg != "Comparison operators only work with integers (got string < integer)" {
		t.Fatalf("Step = %v", err)
	}
	if re.Label != "2" || re.Span.Col != 17 {
		t.Fatalf("error = %+v", re)
	}
}

func TestRuntimeErrorInBlockItem(t *testing.T) {
	s := mustLoad(t, `step-1: start
step-2: X = 0
step-3: if (X == 0):
          Y = 4 / X
step-4: stop`)
	for range 3 {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	err := s.Step()
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("Step = %v, want *RuntimeError", err)
	}
	if re.Label != "3a" || re.Span != (ast.Span{Line: 4, Col: 17}) {
		t.Fatalf("error = %+v", re)
	}
	want := "Runtime error at step 3a (line 4:17)\n  Division by zero\n  4 |           Y = 4 / X\n" + strings.Repeat(" ", 22) + "^"
	if err.Error() != want {
		t.Fatalf("message:\n%s\nwant:\n%s", err.Error(), want)
	}
	if d := s.SnapshotForDisplay(); d.CurrentLabel != "3a" || len(d.TraceRows) != 2 {
		t.Fatalf("after rollback: %+v", d)
	}
}

func TestUnknownVariableAtRuntime(t *testing.T) {
	s := mustLoad(t, "step-1: start\nstep-2: print Y\nstep-3: stop")
	_ = s.Step()
	err := s.Step()
	var re *RuntimeError
	if !errors.As(err, &re) || re.Msg != `Unknown variable "Y"` {
		t.Fatalf("Step = %v", err)
	}
	if re.Span != (ast.Span{Line: 2, Col: 15}) {
		t.Fatalf("span = %+v, want 2:15", re.Span)
	}
}

func TestRestart(t *testing.T) {
	s := mustLoad(t, simple)
	runAll(t, s, 10)
	if err := s.Restart(); err != nil {
		t.Fatal(err)
	}
	d := s.SnapshotForDisplay()
	if d.Status != "idle" || len(d.TraceRows) != 0 || len(d.Variables) != 0 || d.ConsoleText != "" || d.UndoDepth != 0 {
		t.Fatalf("after restart: %+v", d)
	}
}

func TestLoadProgram(t *testing.T) {
	s := mustLoad(t, simple)
	runAll(t, s, 10)
	before := s.SnapshotForDisplay()

	err := s.LoadProgram("step-1: begin\nstep-2: stop")
	var ve *validator.Error
	if !errors.As(err, &ve) {
		t.Fatalf("LoadProgram(bad) = %v, want *validator.Error", err)
	}
	if !reflect.DeepEqual(before, s.SnapshotForDisplay()) {
		t.Fatalf("failed load changed the session")
	}

	if err := s.LoadProgram(reading); err != nil {
		t.Fatal(err)
	}
	if len(s.Program().Steps) != 4 || s.Status() != Idle || s.Console() != "" {
		t.Fatalf("after load: %+v", s.SnapshotForDisplay())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	if _, err := Load("print 1"); err == nil {
		t.Fatalf("Load accepted a program without steps")
	}
}

func TestColumnsAndVariableNames(t *testing.T) {
	s := mustLoad(t, `step-1: start
step-2: read B
step-3: A = B + 1
step-4: stop`)
	d := s.SnapshotForDisplay()
	if strings.Join(d.Columns, ",") != "B,A" {
		t.Fatalf("columns = %v", d.Columns)
	}
	runAll(t, s, 10)
	_ = s.ProvideInput("1")
	runAll(t, s, 10)
	if strings.Join(s.VariableNames(), ",") != "A,B" {
		t.Fatalf("names = %v", s.VariableNames())
	}
}

func TestFormatConsole(t *testing.T) {
	if got := FormatConsole("a b  c\n"); got != "a·b··c\n" {
		t.Fatalf("FormatConsole = %q", got)
	}
}

func TestGotoResetLoopNeverHalts(t *testing.T) {
	s := mustLoad(t, `step-1: start
step-2: X = 0
step-3: if (X < 3):
          X = X + 1
          goto step-2
step-4: stop`)
	for range 500 {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
		if s.Status() == Halted {
			t.Fatalf("loop halted")
		}
	}
}

// A false nested if advances the label counter by its own item count,
// not by the actions nested further inside it.
func TestSkipCountIsShallow(t *testing.T) {
	prog, err := parser.Parse(`step-1: start
step-2: X = 1
step-3: if (X > 0):
          if (X > 5):
            print 1
            if (X > 6):
              print 2
              print 3
          print "z"
step-4: stop`)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(prog)
	runAll(t, s, 20)
	wantLabels(t, s, "1", "2", "3c", "4")
}
