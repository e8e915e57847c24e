package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"steptrace/ast"
)

var (
	stepHeader = regexp.MustCompile(`^step-(\d+):\s*(.+)$`)
	gotoTarget = regexp.MustCompile(`^goto\s+step-(\d+)$`)
)

// Parse turns program text into steps. It stops at the first structural
// problem; it does not require that the validator ran first.
func Parse(text string) (*ast.Program, error) {
	p := &programParser{lines: SplitLines(text)}
	steps, err := p.parseSteps()
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, &ParseError{Msg: "Program has no steps"}
	}
	return &ast.Program{Steps: steps, Source: text}, nil
}

// SplitLines normalizes line endings and trims trailing whitespace only;
// leading whitespace is the block indentation.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for idx, l := range lines {
		lines[idx] = strings.TrimRight(l, " \t")
	}
	return lines
}

// BlockColumn is the indentation of a conditional's block: the length of
// "step-<N>: if" as written.
func BlockColumn(numberText string) int {
	return len("step-") + len(numberText) + len(": if")
}

// Indentation counts leading spaces.
func Indentation(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

func IsIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

type programParser struct {
	lines []string
}

func (p *programParser) parseSteps() ([]*ast.Step, error) {
	steps := []*ast.Step{}
	for i := 0; i < len(p.lines); {
		line := p.lines[i]
		if line == "" {
			i++
			continue
		}
		if IsIndented(line) {
			return nil, p.errAt(i, "Unexpected indented line: %s", strings.TrimSpace(line))
		}

		m := stepHeader.FindStringSubmatchIndex(line)
		if m == nil {
			return nil, p.errAt(i, "Invalid step format: %s", line)
		}
		numText := line[m[2]:m[3]]
		num, err := strconv.Atoi(numText)
		if err != nil {
			return nil, p.errAt(i, "Invalid step number %q", numText)
		}

		content := strings.TrimSpace(line[m[4]:m[5]])
		span := ast.Span{Line: i + 1, Col: runeCol(line, m[4])}
		step := &ast.Step{S: ast.Span{Line: i + 1, Col: 1}, Number: num, Source: line}

		if strings.HasPrefix(content, "if ") {
			cmd := parseIf(content, span)
			block, next := p.parseBlock(i+1, BlockColumn(numText))
			cmd.Block = block
			step.Cmd = cmd
			i = next
		} else {
			step.Cmd = parseCommand(content, span)
			i++
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// parseBlock consumes lines starting at start that are indented by at least
// minIndent. A nested if consumes the lines below it indented two or more
// further.
func (p *programParser) parseBlock(start, minIndent int) ([]*ast.BlockItem, int) {
	items := []*ast.BlockItem{}
	j := start
	for j < len(p.lines) {
		line := p.lines[j]
		ind := Indentation(line)
		if line == "" || ind < minIndent {
			break
		}
		content := strings.TrimLeft(line, " \t")
		span := ast.Span{Line: j + 1, Col: ind + 1}
		item := &ast.BlockItem{S: span, Indent: ind, Source: line}

		if strings.HasPrefix(content, "if ") {
			cmd := parseIf(content, span)
			inner, next := p.parseBlock(j+1, ind+2)
			cmd.Block = inner
			item.Cmd = cmd
			j = next
		} else {
			item.Cmd = parseCommand(content, span)
			j++
		}
		items = append(items, item)
	}
	return items, j
}

func (p *programParser) errAt(idx int, format string, args ...any) error {
	return &ParseError{Line: idx + 1, Msg: sprintf(format, args...)}
}

func parseIf(content string, span ast.Span) *ast.IfCmd {
	rest := content[len("if "):]
	lead := len(rest) - len(strings.TrimLeft(rest, " "))
	cond := strings.TrimSpace(rest)
	if strings.HasSuffix(cond, ":") {
		cond = strings.TrimSpace(strings.TrimSuffix(cond, ":"))
	}
	return &ast.IfCmd{
		S:         span,
		Condition: ast.Text{S: shift(span, content, len("if ")+lead), Src: cond},
	}
}

func parseCommand(content string, span ast.Span) ast.Command {
	switch Classify(content) {
	case ast.KindStart:
		return &ast.StartCmd{S: span}
	case ast.KindStop:
		return &ast.StopCmd{S: span}
	case ast.KindPrint:
		return &ast.PrintCmd{S: span, Value: argText(content, len("print "), span)}
	case ast.KindRead:
		return &ast.ReadCmd{S: span, Name: strings.TrimSpace(content[len("read "):])}
	case ast.KindGoto:
		target := -1
		if m := gotoTarget.FindStringSubmatch(content); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				target = n
			}
		}
		return &ast.GotoCmd{S: span, Target: target, Raw: content}
	case ast.KindAssign:
		eq := AssignIndex(content)
		return &ast.AssignCmd{
			S:     span,
			Name:  strings.TrimSpace(content[:eq]),
			Value: argText(content, eq+1, span),
		}
	case ast.KindIf:
		return parseIf(content, span)
	default:
		return &ast.UnknownCmd{S: span, Text: content}
	}
}

// argText is the trimmed remainder of content from byte offset off, with
// its source position.
func argText(content string, off int, span ast.Span) ast.Text {
	rest := content[off:]
	lead := len(rest) - len(strings.TrimLeft(rest, " "))
	return ast.Text{S: shift(span, content, off+lead), Src: strings.TrimSpace(rest)}
}

func shift(span ast.Span, s string, off int) ast.Span {
	return ast.Span{Line: span.Line, Col: span.Col + utf8.RuneCountInString(s[:off])}
}

func runeCol(line string, off int) int {
	return utf8.RuneCountInString(line[:off]) + 1
}
