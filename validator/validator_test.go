package validator

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func prog(lines ...string) string { return strings.Join(lines, "\n") }

const valid = `step-1: start
step-2: read N
step-3: X = N * 2
step-4: if (X > 10):
          print "big"
          if (N == 6):
            print "six"
          X = 0
step-5: goto step-6
step-6: print X
step-7: stop`

func TestValidProgram(t *testing.T) {
	res := Validate(valid)
	if !res.OK {
		t.Fatalf("valid program rejected: %v", res.Errors)
	}
	if res.Errors == nil || len(res.Errors) != 0 {
		t.Fatalf("Errors = %#v, want empty slice", res.Errors)
	}
	if res.Err() != nil {
		t.Fatalf("Err() = %v, want nil", res.Err())
	}
}

func TestValidateMessages(t *testing.T) {
	block := "          print 1"
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "  \n", "The program is empty; start with 'step-1: start' and end with a 'stop' step"},
		{"tab", prog("step-1: start", "\tstep-2: stop"), "Line 2: tab characters are not allowed; indent with spaces"},
		{"blank", prog("step-1: start", "", "step-2: stop"), "Line 2: blank lines are not allowed between steps"},
		{"uppercase", prog("Step-1: start", "step-2: stop"), `Line 1: 'step' must be lowercase; write "step-1:"`},
		{"no hyphen", prog("step 1: start", "step-2: stop"), "Line 1: use a hyphen between 'step' and its number; write 'step-1:'"},
		{"no colon", prog("step-1 start", "step-2: stop"), "Line 1: missing ':' after 'step-1'"},
		{"no space", prog("step-1:start", "step-2: stop"), "Line 1: add a space after 'step-1:'"},
		{"two spaces", prog("step-1:  start", "step-2: stop"), "Line 1: use exactly one space after 'step-1:'"},
		{"gap", prog("step-1: start", "step-3: stop"), "Line 2: expected step-2 but found step-3; steps must be numbered 1, 2, 3, ... in order"},
		{"leading zero", prog("step-1: start", "step-02: stop"), "Line 2: write step numbers without leading zeros; use 'step-2'"},
		{"too large", prog("step-1: start", "step-100: stop"), "Line 2: step numbers cannot exceed 99 (found step-100)"},
		{"first not start", prog("step-1: begin", "step-2: stop"), "Line 1: the first step must be 'step-1: start'"},
		{"after stop", prog("step-1: start", "step-2: stop", "step-3: print 1"), "Line 3: step-3 comes after the 'stop' step; 'stop' must be the last step"},
		{"last not stop", prog("step-1: start", "step-2: print 1"), "Line 2: the last step must be 'stop'"},
		{"indent 11", prog("step-1: start", "step-2: if (1 > 0):", "           print 1", "step-3: stop"),
			"Line 3: expected 10 spaces of indentation for the block of step-2, found 11"},
		{"empty block", prog("step-1: start", "step-2: if (1 > 0):", "step-3: stop"),
			"Line 2: the 'if' block is empty; indent at least one command by 10 spaces"},
		{"stray indent", prog("step-1: start", "  print 1", "step-2: stop"),
			"Line 2: unexpected indentation; only commands inside an 'if' block may be indented"},
		{"double nesting", prog("step-1: start", "step-2: if (1 > 0):", "          if (2 > 1):", "            if (3 > 2):", "step-3: stop"),
			"Line 4: an 'if' cannot be nested inside a nested 'if'; only one level of nesting is allowed"},
		{"go to", prog("step-1: start", "step-2: go to step-1", "step-3: stop"), "Line 2: write 'goto' as one word"},
		{"bare goto", prog("step-1: start", "step-2: goto 1", "step-3: stop"), "Line 2: write the target as 'goto step-1'"},
		{"print no space", prog("step-1: start", `step-2: print"hi"`, "step-3: stop"), "Line 2: add a space after 'print'"},
		{"read no space", prog("step-1: start", "step-2: readX", "step-3: stop"), "Line 2: add a space after 'read'"},
		{"typo", prog("step-1: start", "step-2: prnt X", "step-3: stop"), `Line 2: unrecognized command "prnt X"; did you mean 'print'?`},
		{"unknown", prog("step-1: start", "step-2: jump", "step-3: stop"), `Line 2: unrecognized command "jump"`},
		{"lowercase name", prog("step-1: start", "step-2: x = 1", "step-3: stop"),
			`Line 2: invalid variable name "x"; names start with an uppercase letter followed by letters or digits`},
		{"assign spacing", prog("step-1: start", "step-2: X=1", "step-3: stop"), "Line 2: put one space on each side of '='; write 'X = 1'"},
		{"assign empty", prog("step-1: start", "step-2: X =", "step-3: stop"), "Line 2: the assignment to X has no expression"},
		{"read bare", prog("step-1: start", "step-2: read", "step-3: stop"), "Line 2: 'read' needs a variable name: read <Name>"},
		{"print bare", prog("step-1: start", "step-2: print", "step-3: stop"), "Line 2: 'print' needs an expression: print <expression>"},
		{"second start", prog("step-1: start", "step-2: start", "step-3: stop"), "Line 2: 'start' may only be used as step-1"},
		{"stop args", prog("step-1: start", "step-2: stop now"), "Line 2: 'stop' takes no arguments"},
		{"stop in block", prog("step-1: start", "step-2: if (1 > 0):", "          stop", "step-3: stop"),
			"Line 3: 'stop' cannot be used inside an 'if' block"},
		{"if paren space", prog("step-1: start", "step-2: if(1 > 0):", block, "step-3: stop"),
			"Line 2: add a space between 'if' and '('; write 'if (<condition>):'"},
		{"if no colon", prog("step-1: start", "step-2: if (1 > 0)", block, "step-3: stop"),
			"Line 2: the 'if' line must end with ':'; write 'if (1 > 0):'"},
		{"if no parens", prog("step-1: start", "step-2: if 1 > 0:", block, "step-3: stop"),
			"Line 2: wrap the condition in parentheses; write 'if (1 > 0):'"},
		{"if empty", prog("step-1: start", "step-2: if ():", block, "step-3: stop"), "Line 2: the 'if' condition is empty"},
		{"if no compare", prog("step-1: start", "step-2: if (1):", block, "step-3: stop"),
			"Line 2: the 'if' condition needs a comparison (<, >, <=, >=, ==, !=)"},
		{"if double parens", prog("step-1: start", "step-2: if ((1 > 0)):", block, "step-3: stop"),
			"Line 2: use a single pair of parentheses around the condition; write 'if (1 > 0):'"},
		{"bad goto", prog("step-1: start", "step-2: goto step-x", "step-3: stop"), "Line 2: invalid goto; write 'goto step-<number>'"},
		{"goto missing", prog("step-1: start", "step-2: goto step-5", "step-3: stop"), "Line 2: goto target step-5 does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.src)
			if res.OK {
				t.Fatalf("accepted:\n%s", tt.src)
			}
			if len(res.Errors) != 1 || res.Errors[0] != tt.want {
				t.Fatalf("got %q\nwant %q", res.Errors, tt.want)
			}
		})
	}
}

func TestTooManyVariables(t *testing.T) {
	src := prog("step-1: start",
		"step-2: A = 1", "step-3: B = 1", "step-4: C = 1", "step-5: D = 1",
		"step-6: E = 1", "step-7: F = 1", "step-8: read G", "step-9: stop")
	res := Validate(src)
	want := "Too many variables: found 7 (A, B, C, D, E, F, G); a program may use at most 6"
	if res.OK || res.Errors[0] != want {
		t.Fatalf("got %q, want %q", res.Errors, want)
	}

	six := prog("step-1: start",
		"step-2: A = 1", "step-3: B = 1", "step-4: C = 1", "step-5: D = 1",
		"step-6: E = 1", "step-7: F = A + B", "step-8: stop")
	if res := Validate(six); !res.OK {
		t.Fatalf("six variables rejected: %v", res.Errors)
	}
}

func TestNameLength(t *testing.T) {
	name := "A" + strings.Repeat("b", MaxNameLength)
	res := Validate(prog("step-1: start", "step-2: "+name+" = 1", "step-3: stop"))
	want := `Line 2: variable name "` + name + `" is too long (43 characters, maximum 42)`
	if res.OK || res.Errors[0] != want {
		t.Fatalf("got %q, want %q", res.Errors, want)
	}
	ok := "A" + strings.Repeat("b", MaxNameLength-1)
	if res := Validate(prog("step-1: start", "step-2: "+ok+" = 1", "step-3: stop")); !res.OK {
		t.Fatalf("42-character name rejected: %v", res.Errors)
	}
}

func TestGroupedConditionSidesAllowed(t *testing.T) {
	src := prog("step-1: start", "step-2: if ((1) < (2 + 3)):", "          print \"(\"", "step-3: stop")
	if res := Validate(src); !res.OK {
		t.Fatalf("rejected: %v", res.Errors)
	}
}

func TestTrailingBlankLinesAllowed(t *testing.T) {
	if res := Validate("\nstep-1: start\nstep-2: stop\n\n"); !res.OK {
		t.Fatalf("rejected: %v", res.Errors)
	}
}

func TestDeterministic(t *testing.T) {
	src := prog("step-1: start", "step-2: X=1", "step-3: Y == 2", "step-4: stop")
	first := Validate(src)
	for range 5 {
		if got := Validate(src); !reflect.DeepEqual(got, first) {
			t.Fatalf("got %v, then %v", first, got)
		}
	}
}

func TestErrType(t *testing.T) {
	err := Validate("").Err()
	var ve *Error
	if !errors.As(err, &ve) {
		t.Fatalf("Err() = %T, want *Error", err)
	}
	if !strings.HasPrefix(err.Error(), "Validation failed:\n  The program is empty") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestSuggestKeyword(t *testing.T) {
	tests := map[string]string{
		"PRINT X": "print",
		"Stop":    "stop",
		"raed":    "read",
		"gotoo":   "goto",
		"jump":    "",
		"x":       "",
	}
	for in, want := range tests {
		if got := suggestKeyword(in); got != want {
			t.Fatalf("suggestKeyword(%q) = %q, want %q", in, got, want)
		}
	}
}
