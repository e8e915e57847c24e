package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"steptrace/interpreter"
	"steptrace/parser"
	"steptrace/validator"
)

// checkSource validates src and reports the outcome to w.
func checkSource(w io.Writer, src string) bool {
	res := validator.Validate(src)
	if !res.OK {
		for _, msg := range res.Errors {
			fmt.Fprintln(w, msg)
		}
		return false
	}
	prog, err := parser.Parse(src)
	if err != nil {
		fmt.Fprintln(w, err)
		return false
	}
	fmt.Fprintf(w, "OK: %d steps, %d variables\n", len(prog.Steps), len(prog.Variables()))
	return true
}

// consoleStream writes only the part of the console not yet written.
type consoleStream struct {
	w       io.Writer
	written int
}

func (c *consoleStream) flush(sess *interpreter.Session) error {
	text := sess.Console()
	if len(text) < c.written {
		c.written = 0
	}
	if len(text) > c.written {
		n, err := io.WriteString(c.w, text[c.written:])
		c.written += n
		if err != nil {
			return fmt.Errorf("write console: %w", err)
		}
	}
	return nil
}

// runFile runs name to completion. Each pending read consumes one line of
// in; lines that are not whole numbers are reported and the next line is
// tried.
func runFile(name, src string, in io.Reader, out, errOut io.Writer, maxSteps int, dump bool, logger *slog.Logger) error {
	sess, err := interpreter.Load(src)
	if err != nil {
		return err
	}
	logger.Info("steptrace: program loaded", "file", name, "steps", len(sess.Program().Steps))

	scanner := bufio.NewScanner(in)
	stream := &consoleStream{w: out}
	steps := 0

	for sess.Status() != interpreter.Halted {
		if sess.Status() == interpreter.WaitingForInput {
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				return fmt.Errorf("input ended while waiting for %s", sess.SnapshotForDisplay().WaitingVariable)
			}
			err := sess.ProvideInput(scanner.Text())
			if werr := stream.flush(sess); werr != nil {
				return werr
			}
			var inErr *interpreter.InputError
			if errors.As(err, &inErr) {
				fmt.Fprintln(errOut, inErr)
				logger.Warn("steptrace: rejected input", "var", inErr.Var, "raw", inErr.Raw)
				continue
			}
			if err != nil {
				return err
			}
			continue
		}

		if maxSteps > 0 && steps >= maxSteps {
			logger.Warn("steptrace: step limit reached", "file", name, "max_steps", maxSteps)
			return fmt.Errorf("stopped after %d steps without reaching 'stop'", maxSteps)
		}
		if err := sess.Step(); err != nil {
			if werr := stream.flush(sess); werr != nil {
				return werr
			}
			return err
		}
		steps++
		if err := stream.flush(sess); err != nil {
			return err
		}
	}
	logger.Info("steptrace: program halted", "file", name, "steps", steps)

	if dump {
		return dumpState(out, sess)
	}
	return nil
}

func dumpState(w io.Writer, sess *interpreter.Session) error {
	b, err := yaml.Marshal(sess.SnapshotForDisplay())
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = w.Write(b)
	return err
}
