// Package validator checks program text against the step language's
// syntax and style rules before anything is parsed for execution.
package validator

import (
	"fmt"
	"strings"

	"steptrace/parser"
)

const (
	MaxStepNumber = 99
	MaxVariables  = 6
	MaxNameLength = 42
)

// Result reports whether the text is acceptable. Errors holds the first
// problem found.
type Result struct {
	OK     bool
	Errors []string
}

// Err returns nil for a passing result and *Error otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &Error{Messages: append([]string{}, r.Errors...)}
}

type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "Validation failed:\n  " + strings.Join(e.Messages, "\n  ")
}

type line struct {
	num     int // 1-based line in the text
	text    string
	indent  int
	content string
	top     bool

	// set for top-level lines once the header is checked
	stepNum int
	numText string
}

type program struct {
	lines []*line
	steps []*line
}

type rule func(p *program) string

// rules run in order; the first message wins.
var rules = []rule{
	checkHeaders,
	checkNumbering,
	checkStartStop,
	checkIndentation,
	checkContents,
	checkVariableCount,
	checkGotoTargets,
}

// Validate is a pure function of its input.
func Validate(text string) Result {
	p, msg := load(text)
	if msg == "" {
		for _, r := range rules {
			if msg = r(p); msg != "" {
				break
			}
		}
	}
	if msg != "" {
		return Result{OK: false, Errors: []string{msg}}
	}
	return Result{OK: true, Errors: []string{}}
}

// load applies the whole-text rules: non-empty, no tabs, no blank lines
// between steps.
func load(text string) (*program, string) {
	if strings.TrimSpace(text) == "" {
		return nil, "The program is empty; start with 'step-1: start' and end with a 'stop' step"
	}
	raw := parser.SplitLines(text)
	for idx, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.Contains(l, "\t") {
			return nil, lineMsg(idx+1, "tab characters are not allowed; indent with spaces")
		}
	}

	first, last := 0, len(raw)-1
	for first <= last && raw[first] == "" {
		first++
	}
	for last >= first && raw[last] == "" {
		last--
	}

	p := &program{}
	for idx := first; idx <= last; idx++ {
		t := raw[idx]
		if t == "" {
			return nil, lineMsg(idx+1, "blank lines are not allowed between steps")
		}
		l := &line{
			num:     idx + 1,
			text:    t,
			indent:  parser.Indentation(t),
			content: strings.TrimLeft(t, " "),
			top:     !parser.IsIndented(t),
		}
		p.lines = append(p.lines, l)
		if l.top {
			p.steps = append(p.steps, l)
		}
	}
	return p, ""
}

func lineMsg(num int, format string, args ...any) string {
	return fmt.Sprintf("Line %d: ", num) + fmt.Sprintf(format, args...)
}
