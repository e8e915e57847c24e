package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"steptrace/interpreter"
)

// termWidth is the output width, or 80 when stdout is not a terminal.
func termWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func clip(s string, width int) string {
	r := []rune(s)
	if width <= 1 || len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// renderListing prints the program with "=>" on the line about to run.
func renderListing(w io.Writer, sess *interpreter.Session) {
	cur := sess.SnapshotForDisplay().CurrentLine
	for _, l := range sess.Program().Listing() {
		marker := "  "
		if l.Span.Line == cur {
			marker = "=>"
		}
		fmt.Fprintf(w, "%s %3d | %s\n", marker, l.Span.Line, l.Text)
	}
}

// renderTrace prints one row per completed action, with a column per
// program variable showing the values assigned by that action.
func renderTrace(w io.Writer, sess *interpreter.Session, width int) {
	d := sess.SnapshotForDisplay()
	if len(d.TraceRows) == 0 {
		fmt.Fprintln(w, "(no steps taken)")
		return
	}
	cell := width / (len(d.Columns) + 2)
	if cell < 6 {
		cell = 6
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := append([]string{"step"}, d.Columns...)
	header = append(header, "output")
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range d.TraceRows {
		cols := []string{row.Label}
		for _, name := range d.Columns {
			v, ok := row.Changed[name]
			if !ok {
				cols = append(cols, "")
				continue
			}
			cols = append(cols, clip(v.String(), cell))
		}
		cols = append(cols, clip(interpreter.FormatConsole(strings.TrimSuffix(row.Output, "\n")), cell))
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	tw.Flush()
}

func renderVars(w io.Writer, sess *interpreter.Session) {
	vars := sess.Variables()
	names := sess.VariableNames()
	if len(names) == 0 {
		fmt.Fprintln(w, "(no variables)")
		return
	}
	for _, name := range names {
		fmt.Fprintf(w, "%s = %s\n", name, vars[name].String())
	}
}

func renderConsole(w io.Writer, sess *interpreter.Session) {
	text := sess.Console()
	if text == "" {
		fmt.Fprintln(w, "(console empty)")
		return
	}
	fmt.Fprint(w, interpreter.FormatConsole(text))
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(w)
	}
}

// renderStatus is the one-line summary printed after each command.
func renderStatus(w io.Writer, sess *interpreter.Session) {
	d := sess.SnapshotForDisplay()
	switch {
	case d.WaitingForInput:
		fmt.Fprintf(w, "[%s] waiting for input to %s\n", d.Status, d.WaitingVariable)
	case d.CurrentLabel != "":
		fmt.Fprintf(w, "[%s] next: step %s (line %d)\n", d.Status, d.CurrentLabel, d.CurrentLine)
	default:
		fmt.Fprintf(w, "[%s]\n", d.Status)
	}
}
