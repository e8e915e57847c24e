package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is resolved from defaults, then the environment (optionally
// seeded from a .env file), then command line flags.
type Config struct {
	LogLevel    string
	LogFile     string
	HistoryFile string
	MaxSteps    int
}

func defaultConfig() Config {
	hist := ""
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		hist = filepath.Join(home, ".steptrace_history")
	}
	return Config{
		LogLevel:    "warn",
		HistoryFile: hist,
		MaxSteps:    10000,
	}
}

func loadConfig(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := defaultConfig()
	if v := strings.TrimSpace(os.Getenv("STEPTRACE_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("STEPTRACE_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v, ok := os.LookupEnv("STEPTRACE_HISTORY"); ok {
		cfg.HistoryFile = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv("STEPTRACE_MAX_STEPS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("STEPTRACE_MAX_STEPS must be a positive integer, got %q", v)
		}
		cfg.MaxSteps = n
	}
	return cfg, nil
}

func (c *Config) bindFlags(set *flag.FlagSet) {
	set.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	set.StringVar(&c.LogFile, "log-file", c.LogFile, "also write JSON logs to this file")
	set.StringVar(&c.HistoryFile, "history", c.HistoryFile, "REPL history file (empty disables)")
	set.IntVar(&c.MaxSteps, "max-steps", c.MaxSteps, "stop run/:run after this many steps")
}
