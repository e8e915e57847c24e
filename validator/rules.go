package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"steptrace/ast"
	"steptrace/parser"
)

var (
	exactHeader   = regexp.MustCompile(`^step-(\d+): (\S.*)$`)
	anyCaseStep   = regexp.MustCompile(`^(?i)step\b`)
	spacedNumber  = regexp.MustCompile(`^step\s*(\d+)`)
	missingNumber = regexp.MustCompile(`^step-(\D|$)`)
	numberOnly    = regexp.MustCompile(`^step-(\d+)`)
	validName     = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	gotoForm      = regexp.MustCompile(`^goto step-(\d+)$`)
	gotoSpaced    = regexp.MustCompile(`^goto\s+step\s+(\d+)$`)
	gotoBare      = regexp.MustCompile(`^goto\s*(\d+)$`)
	compareOp     = regexp.MustCompile(`<=|>=|==|!=|<|>`)
)

func checkHeaders(p *program) string {
	if len(p.steps) == 0 {
		return "The program has no steps; unindented lines must look like 'step-1: start'"
	}
	for _, l := range p.lines {
		if l.top {
			if msg := checkHeader(l); msg != "" {
				return msg
			}
		}
		if msg := checkTypos(l); msg != "" {
			return msg
		}
	}
	return ""
}

// checkHeader requires exactly "step-<N>: <content>" and explains the
// common ways of getting it wrong.
func checkHeader(l *line) string {
	if m := exactHeader.FindStringSubmatch(l.text); m != nil {
		l.numText = m[1]
		l.stepNum, _ = strconv.Atoi(m[1])
		l.content = m[2]
		return ""
	}
	t := l.text
	if anyCaseStep.MatchString(t) && !strings.HasPrefix(t, "step") {
		return lineMsg(l.num, "'step' must be lowercase; write %q", "step"+t[len("step"):headerEnd(t)])
	}
	if m := spacedNumber.FindStringSubmatch(t); m != nil {
		return lineMsg(l.num, "use a hyphen between 'step' and its number; write 'step-%s:'", m[1])
	}
	if missingNumber.MatchString(t) {
		return lineMsg(l.num, "missing step number after 'step-'")
	}
	if m := numberOnly.FindStringSubmatch(t); m != nil {
		rest := t[len(m[0]):]
		switch {
		case !strings.HasPrefix(rest, ":"):
			return lineMsg(l.num, "missing ':' after 'step-%s'", m[1])
		case rest == ":":
			return lineMsg(l.num, "step-%s has no command", m[1])
		case !strings.HasPrefix(rest, ": "):
			return lineMsg(l.num, "add a space after 'step-%s:'", m[1])
		default:
			return lineMsg(l.num, "use exactly one space after 'step-%s:'", m[1])
		}
	}
	return lineMsg(l.num, "invalid step format %q; expected 'step-<number>: <command>'", t)
}

func headerEnd(t string) int {
	if idx := strings.IndexByte(t, ':'); idx >= 0 {
		return idx + 1
	}
	if idx := strings.IndexByte(t, ' '); idx >= 0 {
		return idx
	}
	return len(t)
}

// checkTypos catches misspelled keyword forms on any line.
func checkTypos(l *line) string {
	c := l.content
	switch {
	case c == "go to" || strings.HasPrefix(c, "go to "):
		return lineMsg(l.num, "write 'goto' as one word")
	case gotoSpaced.MatchString(c):
		return lineMsg(l.num, "write the target as 'goto step-%s'", gotoSpaced.FindStringSubmatch(c)[1])
	case gotoBare.MatchString(c):
		return lineMsg(l.num, "write the target as 'goto step-%s'", gotoBare.FindStringSubmatch(c)[1])
	}
	for _, kw := range []string{"print", "read", "goto"} {
		if strings.HasPrefix(c, kw) && len(c) > len(kw) && c[len(kw)] != ' ' && !isWordChar(c[len(kw)]) {
			return lineMsg(l.num, "add a space after '%s'", kw)
		}
	}
	if strings.HasPrefix(c, "read") && len(c) > 4 && c[4] >= 'A' && c[4] <= 'Z' && parser.AssignIndex(c) < 0 {
		return lineMsg(l.num, "add a space after 'read'")
	}
	if strings.HasPrefix(c, "goto") && strings.HasPrefix(c[4:], "step") {
		return lineMsg(l.num, "add a space after 'goto'")
	}
	return ""
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func checkNumbering(p *program) string {
	for idx, l := range p.steps {
		want := idx + 1
		if l.stepNum > MaxStepNumber {
			return lineMsg(l.num, "step numbers cannot exceed %d (found step-%s)", MaxStepNumber, l.numText)
		}
		if l.numText != strconv.Itoa(l.stepNum) {
			return lineMsg(l.num, "write step numbers without leading zeros; use 'step-%d'", l.stepNum)
		}
		if l.stepNum != want {
			return lineMsg(l.num, "expected step-%d but found step-%d; steps must be numbered 1, 2, 3, ... in order", want, l.stepNum)
		}
	}
	return ""
}

func checkStartStop(p *program) string {
	first := p.steps[0]
	if first.content != "start" {
		return lineMsg(first.num, "the first step must be 'step-1: start'")
	}
	for idx, l := range p.steps {
		if strings.HasPrefix(l.content, "stop") && idx < len(p.steps)-1 {
			next := p.steps[idx+1]
			return lineMsg(next.num, "step-%d comes after the 'stop' step; 'stop' must be the last step", next.stepNum)
		}
	}
	last := p.steps[len(p.steps)-1]
	if !strings.HasPrefix(last.content, "stop") {
		return lineMsg(last.num, "the last step must be 'stop'")
	}
	return ""
}

func isIf(content string) bool {
	return content == "if" || strings.HasPrefix(content, "if ") || strings.HasPrefix(content, "if(")
}

type ifBlock struct {
	line  *line
	base  int
	items int

	nested      *line
	nestedItems int
}

func (b *ifBlock) closeNested() string {
	if b.nested != nil && b.nestedItems == 0 {
		return lineMsg(b.nested.num, "the nested 'if' block is empty; indent its commands by %d spaces", b.base+2)
	}
	b.nested = nil
	b.nestedItems = 0
	return ""
}

func (b *ifBlock) close() string {
	if msg := b.closeNested(); msg != "" {
		return msg
	}
	if b.items == 0 {
		return lineMsg(b.line.num, "the 'if' block is empty; indent at least one command by %d spaces", b.base)
	}
	return ""
}

// checkIndentation requires block lines at exactly len("step-<N>: if")
// spaces and nested block lines two further, with a single nesting level.
func checkIndentation(p *program) string {
	var blk *ifBlock
	for _, l := range p.lines {
		if l.top {
			if blk != nil {
				if msg := blk.close(); msg != "" {
					return msg
				}
				blk = nil
			}
			if isIf(l.content) {
				blk = &ifBlock{line: l, base: parser.BlockColumn(l.numText)}
			}
			continue
		}

		if blk == nil {
			return lineMsg(l.num, "unexpected indentation; only commands inside an 'if' block may be indented")
		}
		switch {
		case l.indent == blk.base:
			if msg := blk.closeNested(); msg != "" {
				return msg
			}
			blk.items++
			if isIf(l.content) {
				blk.nested = l
			}
		case l.indent == blk.base+2 && blk.nested != nil:
			if isIf(l.content) {
				return lineMsg(l.num, "an 'if' cannot be nested inside a nested 'if'; only one level of nesting is allowed")
			}
			blk.nestedItems++
		case blk.nested != nil:
			return lineMsg(l.num, "expected %d spaces of indentation (or %d inside the nested 'if' on line %d), found %d",
				blk.base, blk.base+2, blk.nested.num, l.indent)
		default:
			return lineMsg(l.num, "expected %d spaces of indentation for the block of step-%d, found %d",
				blk.base, blk.line.stepNum, l.indent)
		}
	}
	if blk != nil {
		return blk.close()
	}
	return ""
}

func checkContents(p *program) string {
	for _, l := range p.lines {
		if msg := checkContent(l, p); msg != "" {
			return msg
		}
	}
	return ""
}

func checkContent(l *line, p *program) string {
	c := l.content
	switch {
	case c == "start":
		if !l.top {
			return lineMsg(l.num, "'start' cannot be used inside an 'if' block")
		}
		if l != p.steps[0] {
			return lineMsg(l.num, "'start' may only be used as step-1")
		}
	case strings.HasPrefix(c, "start"):
		return lineMsg(l.num, "'start' takes no arguments")

	case c == "stop":
		if !l.top {
			return lineMsg(l.num, "'stop' cannot be used inside an 'if' block")
		}
	case strings.HasPrefix(c, "stop"):
		return lineMsg(l.num, "'stop' takes no arguments")

	case c == "read":
		return lineMsg(l.num, "'read' needs a variable name: read <Name>")
	case strings.HasPrefix(c, "read "):
		return checkName(l, strings.TrimSpace(c[len("read "):]))

	case c == "print" || (strings.HasPrefix(c, "print ") && strings.TrimSpace(c[len("print "):]) == ""):
		return lineMsg(l.num, "'print' needs an expression: print <expression>")
	case strings.HasPrefix(c, "print "):

	case c == "goto" || strings.HasPrefix(c, "goto "):
		if !gotoForm.MatchString(c) {
			return lineMsg(l.num, "invalid goto; write 'goto step-<number>'")
		}

	case isIf(c):
		return checkIf(l)

	case parser.AssignIndex(c) >= 0:
		return checkAssign(l)

	default:
		return unknownCommand(l)
	}
	return ""
}

func checkIf(l *line) string {
	c := l.content
	if strings.HasPrefix(c, "if(") {
		return lineMsg(l.num, "add a space between 'if' and '('; write 'if (<condition>):'")
	}
	rest := strings.TrimSpace(strings.TrimPrefix(c, "if"))
	if rest == "" || rest == ":" {
		return lineMsg(l.num, "'if' needs a condition; write 'if (<condition>):'")
	}
	hasColon := strings.HasSuffix(rest, ":")
	body := strings.TrimSpace(strings.TrimSuffix(rest, ":"))
	if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
		return lineMsg(l.num, "wrap the condition in parentheses; write 'if (%s):'", strings.Trim(body, "()"))
	}
	if !hasColon {
		return lineMsg(l.num, "the 'if' line must end with ':'; write 'if %s:'", body)
	}
	if !strings.HasSuffix(rest, "):") {
		return lineMsg(l.num, "put ':' directly after ')'; write 'if %s:'", body)
	}
	if !strings.HasPrefix(c, "if (") {
		return lineMsg(l.num, "use a single space between 'if' and '('")
	}
	inner := strings.TrimSpace(body[1 : len(body)-1])
	if inner == "" {
		return lineMsg(l.num, "the 'if' condition is empty")
	}
	if wrapped(inner) {
		return lineMsg(l.num, "use a single pair of parentheses around the condition; write 'if (%s):'",
			strings.TrimSpace(inner[1:len(inner)-1]))
	}
	if !compareOp.MatchString(inner) {
		return lineMsg(l.num, "the 'if' condition needs a comparison (<, >, <=, >=, ==, !=)")
	}
	return ""
}

// wrapped reports whether s is entirely enclosed by one matching pair of
// parentheses, ignoring parentheses inside string literals.
func wrapped(s string) bool {
	if !strings.HasPrefix(s, "(") {
		return false
	}
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && inQuote:
			i++
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

func checkAssign(l *line) string {
	c := l.content
	eq := parser.AssignIndex(c)
	left, right := c[:eq], c[eq+1:]
	name := strings.TrimSpace(left)
	if strings.TrimSpace(right) == "" {
		return lineMsg(l.num, "the assignment to %s has no expression", name)
	}
	if !strings.HasSuffix(left, " ") || strings.HasSuffix(left, "  ") ||
		!strings.HasPrefix(right, " ") || strings.HasPrefix(right, "  ") {
		return lineMsg(l.num, "put one space on each side of '='; write '%s = %s'", name, strings.TrimSpace(right))
	}
	return checkName(l, name)
}

func checkName(l *line, name string) string {
	if !validName.MatchString(name) {
		return lineMsg(l.num, "invalid variable name %q; names start with an uppercase letter followed by letters or digits", name)
	}
	if len(name) > MaxNameLength {
		return lineMsg(l.num, "variable name %q is too long (%d characters, maximum %d)", name, len(name), MaxNameLength)
	}
	return ""
}

func checkVariableCount(p *program) string {
	seen := map[string]bool{}
	names := []string{}
	for _, l := range p.lines {
		name := variableOf(l.content)
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if len(names) > MaxVariables {
		return fmt.Sprintf("Too many variables: found %d (%s); a program may use at most %d",
			len(names), strings.Join(names, ", "), MaxVariables)
	}
	return ""
}

func variableOf(content string) string {
	switch parser.Classify(content) {
	case ast.KindRead:
		return strings.TrimSpace(content[len("read "):])
	case ast.KindAssign:
		return strings.TrimSpace(content[:parser.AssignIndex(content)])
	}
	return ""
}

func checkGotoTargets(p *program) string {
	exists := map[int]bool{}
	for _, l := range p.steps {
		exists[l.stepNum] = true
	}
	for _, l := range p.lines {
		m := gotoForm.FindStringSubmatch(l.content)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || !exists[n] {
			return lineMsg(l.num, "goto target step-%s does not exist", m[1])
		}
	}
	return ""
}
