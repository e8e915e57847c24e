package interpreter

import (
	"fmt"
	"strconv"
)

// TraceRow is one completed atomic action.
type TraceRow struct {
	Label   string `yaml:"label"`
	Output  string `yaml:"output,omitempty"`
	Changed Env    `yaml:"changed,omitempty"`
}

func (r TraceRow) clone() TraceRow {
	out := TraceRow{Label: r.Label, Output: r.Output}
	if r.Changed != nil {
		out.Changed = r.Changed.Clone()
	}
	return out
}

// TraceLog is append-only while stepping forward.
type TraceLog []TraceRow

func (t TraceLog) Append(row TraceRow) TraceLog { return append(t, row) }

func (t TraceLog) Clone() TraceLog {
	out := make(TraceLog, len(t))
	for idx, r := range t {
		out[idx] = r.clone()
	}
	return out
}

// StepLabel is the label of a top-level action.
func StepLabel(number int) string { return strconv.Itoa(number) }

// SubLabel is the label of the action at position sub (0-based) inside
// the block of step number.
func SubLabel(number, sub int) string {
	if sub < 26 {
		return fmt.Sprintf("%d%c", number, rune('a'+sub))
	}
	return fmt.Sprintf("%d%c%d", number, rune('a'+sub%26), sub/26)
}
