package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"steptrace/interpreter"
)

var replCommands = []string{
	":next", ":back", ":run", ":input", ":restart", ":load",
	":list", ":trace", ":vars", ":console", ":state", ":help", ":quit",
}

type debugger struct {
	name     string
	sess     *interpreter.Session
	out      io.Writer
	maxSteps int
	logger   *slog.Logger
}

func runREPL(name, src string, cfg Config, logger *slog.Logger) error {
	sess, err := interpreter.Load(src)
	if err != nil {
		return err
	}
	logger.Info("steptrace: program loaded", "file", name, "steps", len(sess.Program().Steps))

	items := make([]readline.PrefixCompleterInterface, 0, len(replCommands))
	for _, c := range replCommands {
		if c == ":load" {
			items = append(items, readline.PcItem(c, readline.PcItemDynamic(listFiles)))
			continue
		}
		items = append(items, readline.PcItem(c))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "step> ",
		HistoryFile:       cfg.HistoryFile,
		AutoComplete:      readline.NewPrefixCompleter(items...),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	d := &debugger{name: name, sess: sess, out: rl.Stdout(), maxSteps: cfg.MaxSteps, logger: logger}

	fmt.Fprintf(d.out, "steptrace: %s. Enter steps, :help for commands, :quit to exit.\n", name)
	renderListing(d.out, d.sess)
	renderStatus(d.out, d.sess)

	for {
		rl.SetPrompt(d.prompt())
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(d.out)
			return nil
		}
		if err != nil {
			return err
		}
		quit, cmdErr := d.handle(line)
		if cmdErr != nil {
			fmt.Fprintln(os.Stderr, cmdErr)
		}
		if quit {
			return nil
		}
	}
}

func listFiles(string) []string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}

func (d *debugger) prompt() string {
	if d.sess.Status() == interpreter.WaitingForInput {
		return "input> "
	}
	return "step> "
}

// handle runs one REPL line. While a read is pending, any line that is not
// a command is taken as the input value.
func (d *debugger) handle(line string) (quit bool, err error) {
	trim := strings.TrimSpace(line)
	if !strings.HasPrefix(trim, ":") {
		if d.sess.Status() == interpreter.WaitingForInput {
			return false, d.input(line)
		}
		if trim == "" {
			return false, d.next(1)
		}
		return false, fmt.Errorf("Unknown input %q. Try :help", trim)
	}

	fields := strings.Fields(trim)
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case ":q", ":quit", ":exit":
		return true, nil
	case ":h", ":help":
		d.help()
	case ":n", ":next":
		n, err := countArg(args)
		if err != nil {
			return false, err
		}
		return false, d.next(n)
	case ":b", ":back":
		n, err := countArg(args)
		if err != nil {
			return false, err
		}
		d.back(n)
	case ":r", ":run":
		return false, d.run()
	case ":i", ":input":
		if len(args) == 0 {
			return false, fmt.Errorf("Usage: :input <value>")
		}
		return false, d.input(strings.TrimSpace(strings.TrimPrefix(trim, cmd)))
	case ":restart":
		if err := d.sess.Restart(); err != nil {
			return false, err
		}
		d.logger.Info("steptrace: restarted", "file", d.name)
		renderStatus(d.out, d.sess)
	case ":load":
		if len(args) != 1 {
			return false, fmt.Errorf("Usage: :load <file>")
		}
		return false, d.load(args[0])
	case ":l", ":list":
		renderListing(d.out, d.sess)
	case ":t", ":trace":
		renderTrace(d.out, d.sess, termWidth())
	case ":v", ":vars":
		renderVars(d.out, d.sess)
	case ":c", ":console":
		renderConsole(d.out, d.sess)
	case ":s", ":state":
		return false, dumpState(d.out, d.sess)
	default:
		if s := suggestCommand(cmd); s != "" {
			return false, fmt.Errorf("Unknown command %s. Did you mean %s?", cmd, s)
		}
		return false, fmt.Errorf("Unknown command %s. Try :help", cmd)
	}
	return false, nil
}

func countArg(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive count, got %q", args[0])
	}
	return n, nil
}

func (d *debugger) next(n int) error {
	printed := len(d.sess.Console())
	defer func() {
		if text := d.sess.Console(); len(text) > printed {
			fmt.Fprint(d.out, text[printed:])
		}
		renderStatus(d.out, d.sess)
	}()
	for range n {
		if !d.sess.CanStep() {
			break
		}
		if err := d.sess.Step(); err != nil {
			d.logger.Debug("steptrace: step failed", "file", d.name, "err", err)
			return err
		}
	}
	return nil
}

func (d *debugger) back(n int) {
	for range n {
		if !d.sess.CanStepBack() {
			break
		}
		d.sess.StepBack()
	}
	renderStatus(d.out, d.sess)
}

// run steps until the program halts, waits for input or exceeds the
// configured step limit.
func (d *debugger) run() error {
	limit := d.maxSteps
	if limit <= 0 {
		limit = 10000
	}
	if err := d.next(limit); err != nil {
		return err
	}
	if d.sess.CanStep() {
		return fmt.Errorf("stopped after %d steps; use :run again to continue", limit)
	}
	return nil
}

func (d *debugger) input(raw string) error {
	printed := len(d.sess.Console())
	err := d.sess.ProvideInput(raw)
	if errors.Is(err, interpreter.ErrNotWaiting) {
		return err
	}
	if text := d.sess.Console(); len(text) > printed {
		fmt.Fprint(d.out, text[printed:])
	}
	renderStatus(d.out, d.sess)
	return err
}

func (d *debugger) load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Failed to read %s: %w", path, err)
	}
	if err := d.sess.LoadProgram(string(b)); err != nil {
		return err
	}
	d.name = path
	d.logger.Info("steptrace: program loaded", "file", path, "steps", len(d.sess.Program().Steps))
	renderListing(d.out, d.sess)
	renderStatus(d.out, d.sess)
	return nil
}

func (d *debugger) help() {
	fmt.Fprintln(d.out, "Commands:")
	fmt.Fprintln(d.out, "  <enter>, :next [n]   Run the next n atomic steps")
	fmt.Fprintln(d.out, "  :back [n]            Undo the last n steps")
	fmt.Fprintln(d.out, "  :run                 Run until stop or the next read")
	fmt.Fprintln(d.out, "  :input <value>       Answer a pending read (or just type the value)")
	fmt.Fprintln(d.out, "  :restart             Reset to the start of the program")
	fmt.Fprintln(d.out, "  :load <file>         Replace the program")
	fmt.Fprintln(d.out, "  :list                Show the program and the current line")
	fmt.Fprintln(d.out, "  :trace               Show the execution trace")
	fmt.Fprintln(d.out, "  :vars                Show variables")
	fmt.Fprintln(d.out, "  :console             Show console output, spaces as ·")
	fmt.Fprintln(d.out, "  :state               Dump the full state as YAML")
	fmt.Fprintln(d.out, "  :quit                Exit")
}

// suggestCommand returns the closest known command to an unknown one.
func suggestCommand(cmd string) string {
	bare := strings.TrimPrefix(cmd, ":")
	if bare == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(bare, replCommands)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
