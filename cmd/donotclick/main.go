package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"donotclick/internal/adapters/ollamacli"
	"donotclick/internal/core/reply"
)

// Five taps on the click counter unlock the debug log panel.
const adminUnlockTaps = 5

type config struct {
	tui          bool
	model        string
	llmCommand   string
	llmEnabled   bool
	replyTimeout time.Duration
	logLevel     slog.Level
}

type lineSinkWriter struct {
	sink  func(line string)
	mu    sync.Mutex
	lines bytes.Buffer
}

func (w *lineSinkWriter) Write(p []byte) (int, error) {
	if w.sink == nil {
		return len(p), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	total := len(p)
	for len(p) > 0 {
		idx := bytes.IndexByte(p, '\n')
		if idx == -1 {
			_, _ = w.lines.Write(p)
			break
		}
		_, _ = w.lines.Write(p[:idx])
		line := strings.TrimSpace(w.lines.String())
		w.lines.Reset()
		if line != "" {
			w.sink(line)
		}
		p = p[idx+1:]
	}
	return total, nil
}

func newSlogLogger(level slog.Level, sink func(line string)) *slog.Logger {
	if !debugLogsEnabled() {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: level,
		}))
	}

	out := io.Writer(os.Stderr)
	if sink != nil {
		out = io.MultiWriter(os.Stderr, &lineSinkWriter{sink: sink})
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

func debugLogsEnabled() bool {
	return strings.TrimSpace(os.Getenv("DEBUG")) == "1"
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid --log-level %q (expected debug|info|warning|error)", value)
	}
}

func parseConfig(args []string) (config, error) {
	cfg := config{}
	flags := flag.NewFlagSet("donotclick", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	var timeoutMS int
	var logLevelRaw string

	flags.BoolVar(&cfg.tui, "tui", false, "Play in the terminal instead of a desktop window.")
	flags.StringVar(&cfg.model, "model", reply.ModelFromEnv(), "Model passed to the text-generation tool. Defaults to $"+reply.ModelEnv+" or "+reply.DefaultModel+".")
	flags.StringVar(&cfg.llmCommand, "llm-cmd", ollamacli.DefaultCommand, "Local text-generation command used for narration.")
	flags.BoolVar(&cfg.llmEnabled, "llm", true, "Start with LLM narration enabled. Toggle at runtime with Ctrl+L (desktop) or l (terminal).")
	flags.IntVar(&timeoutMS, "reply-timeout", 3000, "Narration timeout in milliseconds before falling back to canned text.")
	flags.StringVar(&logLevelRaw, "log-level", "info", "Log verbosity (default: info). Allowed: debug, info, warning, error.")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if flags.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}
	if timeoutMS <= 0 {
		return cfg, fmt.Errorf("--reply-timeout must be > 0")
	}
	if strings.TrimSpace(cfg.model) == "" {
		return cfg, fmt.Errorf("--model must not be empty")
	}

	level, err := parseLogLevel(logLevelRaw)
	if err != nil {
		return cfg, err
	}

	cfg.logLevel = level
	cfg.replyTimeout = time.Duration(timeoutMS) * time.Millisecond
	return cfg, nil
}

func newReplySource(cfg config, logger *slog.Logger) *reply.Source {
	return reply.NewSource(reply.Config{
		Model:        cfg.model,
		Timeout:      cfg.replyTimeout,
		StartEnabled: cfg.llmEnabled,
	}, ollamacli.New(cfg.llmCommand), logger)
}

func run(args []string, stderr io.Writer) int {
	cfg, err := parseConfig(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if cfg.tui {
		logger := newSlogLogger(cfg.logLevel, nil)
		if err := runTUI(cfg, logger); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	if err := runUI(cfg); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}
