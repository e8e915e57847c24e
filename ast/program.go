package ast

import "strings"

// Program is immutable once parsed.
type Program struct {
	Steps  []*Step
	Source string
}

// IndexOf returns the position of step number n, or -1.
func (p *Program) IndexOf(n int) int {
	for idx, st := range p.Steps {
		if st.Number == n {
			return idx
		}
	}
	return -1
}

// Line is one row of the program listing.
type Line struct {
	Span      Span
	StepIndex int
	// Path is nil for a step line, otherwise the item positions from the
	// step's block down to this item.
	Path []int
	Text string
}

// Listing flattens steps and block items in source order.
func (p *Program) Listing() []Line {
	out := []Line{}
	for idx, st := range p.Steps {
		out = append(out, Line{Span: st.S, StepIndex: idx, Text: st.Source})
		if c, ok := st.Cmd.(*IfCmd); ok {
			out = appendBlock(out, idx, nil, c.Block)
		}
	}
	return out
}

func appendBlock(out []Line, stepIdx int, prefix []int, items []*BlockItem) []Line {
	for pos, it := range items {
		path := append(append([]int{}, prefix...), pos)
		out = append(out, Line{Span: it.S, StepIndex: stepIdx, Path: path, Text: it.Source})
		if c, ok := it.Nested(); ok {
			out = appendBlock(out, stepIdx, path, c.Block)
		}
	}
	return out
}

// String rebuilds the program text from the stored lines.
func (p *Program) String() string {
	lines := p.Listing()
	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		texts = append(texts, l.Text)
	}
	return strings.Join(texts, "\n")
}

// Variables lists assigned or read variable names in order of first
// appearance, including block contents.
func (p *Program) Variables() []string {
	seen := map[string]bool{}
	out := []string{}
	add := func(c Command) {
		name := ""
		switch cmd := c.(type) {
		case *AssignCmd:
			name = cmd.Name
		case *ReadCmd:
			name = cmd.Name
		}
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	var walk func(items []*BlockItem)
	walk = func(items []*BlockItem) {
		for _, it := range items {
			add(it.Cmd)
			if c, ok := it.Nested(); ok {
				walk(c.Block)
			}
		}
	}
	for _, st := range p.Steps {
		add(st.Cmd)
		if c, ok := st.Cmd.(*IfCmd); ok {
			walk(c.Block)
		}
	}
	return out
}
