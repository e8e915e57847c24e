package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"steptrace/logs"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  steptrace <file>               debug on a terminal, run otherwise")
	fmt.Println("  steptrace check <file>         validate only")
	fmt.Println("  steptrace run [flags] <file>   run to completion, reading input from stdin")
	fmt.Println("  steptrace debug [flags] <file> step through interactively")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	args := os.Args[1:]

	cmd := args[0]
	switch cmd {
	case "check", "run", "debug":
		args = args[1:]
	case "-h", "-help", "--help", "help":
		usage()
	default:
		cmd = "run"
		if term.IsTerminal(int(os.Stdin.Fd())) {
			cmd = "debug"
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	cfg.bindFlags(fs)
	dump := fs.Bool("dump", false, "run: print the final state as YAML")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
	}
	filename := fs.Arg(0)

	logger, closeLog, err := logs.New(logs.Options{Level: cfg.LogLevel, File: cfg.LogFile, Writer: os.Stderr})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	code := 1
	if src, err := os.ReadFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
	} else {
		logger.Debug("steptrace: source read", "file", filename, "bytes", len(src), "command", cmd)
		code = dispatch(cmd, filepath.Base(filename), string(src), cfg, *dump, logger)
	}
	_ = closeLog()
	os.Exit(code)
}

func dispatch(cmd, name, src string, cfg Config, dump bool, logger *slog.Logger) int {
	switch cmd {
	case "check":
		if !checkSource(os.Stdout, src) {
			return 1
		}
		return 0
	case "debug":
		if err := runREPL(name, src, cfg, logger); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	default:
		if err := runFile(name, src, os.Stdin, os.Stdout, os.Stderr, cfg.MaxSteps, dump, logger); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
}
