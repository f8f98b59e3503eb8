// Package reply produces narration for clicks: a local text-generation tool
// when it cooperates, canned lines when it does not.
package reply

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Reason explains why a reply fell back to canned text.
type Reason string

const (
	ReasonDisabled    Reason = "disabled-by-user"
	ReasonToolMissing Reason = "tool-unavailable"
	ReasonTimeout     Reason = "timeout"
	ReasonExitError   Reason = "non-zero-exit"
	ReasonEmptyOutput Reason = "empty-output"
)

// ErrToolMissing is returned by runners when the external binary cannot be
// found.
var ErrToolMissing = errors.New("text generation tool not found")

const (
	// ModelEnv overrides the model passed to the generation tool.
	ModelEnv     = "DONOTCLICK_MODEL"
	DefaultModel = "qwen2.5:7b"

	DefaultTimeout = 3 * time.Second
)

// ModelFromEnv returns the model from ModelEnv, or DefaultModel.
func ModelFromEnv() string {
	if model := strings.TrimSpace(os.Getenv(ModelEnv)); model != "" {
		return model
	}
	return DefaultModel
}

// Request asks for one narration line. Immutable once constructed.
type Request struct {
	ClickCount int
	Level      int
	Prompt     string
}

// Result is either generated text or a canned fallback with a reason.
// Seq orders results so consumers can ignore stale ones.
type Result struct {
	Text     string
	Fallback bool
	Reason   Reason
	Seq      uint64
}

// Runner produces text for a prompt. Success is non-empty output before the
// context deadline; anything else becomes a fallback.
type Runner interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type Config struct {
	Model        string
	Timeout      time.Duration
	StartEnabled bool
}

// Source issues reply requests off the UI thread and hands results back
// through a single-slot mailbox. The newest request always wins: superseded
// completions are discarded, never shown.
type Source struct {
	model   string
	timeout time.Duration
	runner  Runner
	logger  Logger

	enabled atomic.Bool
	seq     atomic.Uint64
	results chan Result

	lastMu sync.Mutex
	last   *Result
}

func NewSource(cfg Config, runner Runner, logger Logger) *Source {
	if cfg.Model == "" {
		cfg.Model = ModelFromEnv()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = nopLogger{}
	}
	s := &Source{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		runner:  runner,
		logger:  logger,
		results: make(chan Result, 1),
	}
	s.enabled.Store(cfg.StartEnabled)
	return s
}

func (s *Source) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}

func (s *Source) Enabled() bool {
	return s.enabled.Load()
}

// Toggle flips the enabled state and returns the new value.
func (s *Source) Toggle() bool {
	for {
		old := s.enabled.Load()
		if s.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Results delivers at most the newest completed reply. The UI loop is the
// only consumer; it must apply results on the UI thread.
func (s *Source) Results() <-chan Result {
	return s.results
}

// LastResult returns a copy of the most recently delivered result, or nil.
func (s *Source) LastResult() *Result {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	if s.last == nil {
		return nil
	}
	last := *s.last
	return &last
}

// Request issues a reply request. It never blocks the caller: a disabled
// source resolves immediately and an enabled one runs on its own goroutine.
func (s *Source) Request(req Request) {
	id := s.seq.Add(1)
	if !s.enabled.Load() {
		s.publish(id, fallbackResult(req.Level, ReasonDisabled))
		return
	}
	go s.generate(id, req)
}

func (s *Source) generate(id uint64, req Request) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		text, err := s.runner.Generate(ctx, s.model, req.Prompt)
		done <- outcome{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		// A late completion lands in the buffered channel and is dropped.
		s.logger.Warn("reply timed out", "clicks", req.ClickCount, "timeout", s.timeout)
		s.publish(id, fallbackResult(req.Level, ReasonTimeout))
	case out := <-done:
		s.publish(id, s.resolve(req, out.text, out.err))
	}
}

func (s *Source) resolve(req Request, text string, err error) Result {
	switch {
	case err == nil:
	case errors.Is(err, ErrToolMissing):
		s.logger.Warn("text generation tool unavailable", "err", err)
		return fallbackResult(req.Level, ReasonToolMissing)
	case errors.Is(err, context.DeadlineExceeded):
		return fallbackResult(req.Level, ReasonTimeout)
	default:
		s.logger.Warn("text generation failed", "err", err)
		return fallbackResult(req.Level, ReasonExitError)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fallbackResult(req.Level, ReasonEmptyOutput)
	}
	return Result{Text: text}
}

// publish hands a result to the UI loop. Results from superseded requests
// are discarded; the mailbox keeps only the newest value.
func (s *Source) publish(id uint64, res Result) {
	if id != s.seq.Load() {
		s.logger.Debug("discarding superseded reply", "seq", id)
		return
	}
	res.Seq = id

	s.lastMu.Lock()
	if s.last == nil || res.Seq >= s.last.Seq {
		last := res
		s.last = &last
	}
	s.lastMu.Unlock()

	for {
		select {
		case s.results <- res:
			return
		default:
			select {
			case <-s.results:
			default:
			}
		}
	}
}
