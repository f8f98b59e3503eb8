package reply

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeRunner returns fixed text/err, optionally after a plain sleep that
// ignores the context, to simulate a tool that outlives its deadline.
type fakeRunner struct {
	calls atomic.Int64
	text  string
	err   error
	delay time.Duration
}

func (f *fakeRunner) Generate(context.Context, string, string) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.text, f.err
}

// promptRunner routes each prompt to its own behaviour so overlapping
// requests can be scripted independently.
type promptRunner struct {
	mu       sync.Mutex
	byPrompt map[string]func() (string, error)
}

func (r *promptRunner) Generate(_ context.Context, _ string, prompt string) (string, error) {
	r.mu.Lock()
	fn := r.byPrompt[prompt]
	r.mu.Unlock()
	if fn == nil {
		return "", fmt.Errorf("unexpected prompt %q", prompt)
	}
	return fn()
}

func testSource(runner Runner, enabled bool, timeout time.Duration) *Source {
	return NewSource(Config{
		Model:        "test-model",
		Timeout:      timeout,
		StartEnabled: enabled,
	}, runner, nil)
}

func waitResult(t *testing.T, s *Source) Result {
	t.Helper()
	select {
	case res := <-s.Results():
		return res
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a reply result")
		return Result{}
	}
}

func TestDisabledNeverInvokesRunner(t *testing.T) {
	runner := &fakeRunner{text: "hello"}
	s := testSource(runner, false, time.Second)

	s.Request(Request{ClickCount: 1, Level: 0, Prompt: "p"})

	res := waitResult(t, s)
	if !res.Fallback || res.Reason != ReasonDisabled {
		t.Fatalf("got %#v, want disabled fallback", res)
	}
	if res.Text != FallbackText(0) {
		t.Fatalf("Text = %q, want canned line for level 0", res.Text)
	}
	if calls := runner.calls.Load(); calls != 0 {
		t.Fatalf("runner invoked %d times, want 0", calls)
	}
}

func TestSuccessPassesTextThrough(t *testing.T) {
	runner := &fakeRunner{text: "  you were warned  \n"}
	s := testSource(runner, true, time.Second)

	s.Request(Request{ClickCount: 3, Level: 1, Prompt: "p"})

	res := waitResult(t, s)
	if res.Fallback {
		t.Fatalf("unexpected fallback: %#v", res)
	}
	if res.Text != "you were warned" {
		t.Fatalf("Text = %q, want trimmed tool output", res.Text)
	}
}

func TestTimeoutFallsBackAndDiscardsLateResult(t *testing.T) {
	runner := &fakeRunner{text: "too slow", delay: 150 * time.Millisecond}
	s := testSource(runner, true, 30*time.Millisecond)

	s.Request(Request{ClickCount: 2, Level: 1, Prompt: "p"})

	res := waitResult(t, s)
	if !res.Fallback || res.Reason != ReasonTimeout {
		t.Fatalf("got %#v, want timeout fallback", res)
	}
	if res.Text != FallbackText(1) {
		t.Fatalf("Text = %q, want canned line for level 1", res.Text)
	}

	// The worker finishes long after the deadline; nothing further arrives.
	select {
	case late := <-s.Results():
		t.Fatalf("late result delivered: %#v", late)
	case <-time.After(250 * time.Millisecond):
	}
	if last := s.LastResult(); last == nil || last.Reason != ReasonTimeout {
		t.Fatalf("LastResult() = %#v, want timeout fallback", last)
	}
}

func TestLastRequestWins(t *testing.T) {
	release := make(chan struct{})
	runner := &promptRunner{byPrompt: map[string]func() (string, error){
		"r1": func() (string, error) { <-release; return "first", nil },
		"r2": func() (string, error) { return "second", nil },
	}}
	s := testSource(runner, true, 2*time.Second)

	s.Request(Request{ClickCount: 1, Level: 0, Prompt: "r1"})
	s.Request(Request{ClickCount: 2, Level: 0, Prompt: "r2"})

	res := waitResult(t, s)
	if res.Text != "second" {
		t.Fatalf("Text = %q, want the newest request's result", res.Text)
	}

	// Let the superseded worker finish late; its result must be discarded.
	close(release)
	select {
	case stale := <-s.Results():
		t.Fatalf("superseded result delivered: %#v", stale)
	case <-time.After(150 * time.Millisecond):
	}
	if last := s.LastResult(); last == nil || last.Text != "second" {
		t.Fatalf("LastResult() = %#v, want the newest result", last)
	}
}

func TestMailboxHoldsNewestResult(t *testing.T) {
	// Disabled requests publish synchronously, so two back-to-back requests
	// exercise the single-slot overwrite deterministically.
	s := testSource(&fakeRunner{}, false, time.Second)

	s.Request(Request{ClickCount: 1, Level: 0, Prompt: "p"})
	s.Request(Request{ClickCount: 2, Level: 1, Prompt: "p"})

	res := waitResult(t, s)
	if res.Seq != 2 {
		t.Fatalf("Seq = %d, want 2 (newest wins)", res.Seq)
	}
	if res.Text != FallbackText(1) {
		t.Fatalf("Text = %q, want canned line for level 1", res.Text)
	}
}

func TestToolMissingFallsBack(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("%w: ollama", ErrToolMissing)}
	s := testSource(runner, true, time.Second)

	s.Request(Request{ClickCount: 1, Level: 2, Prompt: "p"})

	res := waitResult(t, s)
	if !res.Fallback || res.Reason != ReasonToolMissing {
		t.Fatalf("got %#v, want tool-unavailable fallback", res)
	}
}

func TestExitErrorFallsBack(t *testing.T) {
	runner := &fakeRunner{err: errors.New("ollama exited with code 1: boom")}
	s := testSource(runner, true, time.Second)

	s.Request(Request{ClickCount: 1, Level: 3, Prompt: "p"})

	res := waitResult(t, s)
	if !res.Fallback || res.Reason != ReasonExitError {
		t.Fatalf("got %#v, want non-zero-exit fallback", res)
	}
	if res.Text != FallbackText(3) {
		t.Fatalf("Text = %q, want canned line for level 3", res.Text)
	}
}

func TestEmptyOutputFallsBack(t *testing.T) {
	runner := &fakeRunner{text: "   \n"}
	s := testSource(runner, true, time.Second)

	s.Request(Request{ClickCount: 1, Level: 0, Prompt: "p"})

	res := waitResult(t, s)
	if !res.Fallback || res.Reason != ReasonEmptyOutput {
		t.Fatalf("got %#v, want empty-output fallback", res)
	}
}

func TestToggle(t *testing.T) {
	s := testSource(&fakeRunner{}, true, time.Second)
	if !s.Enabled() {
		t.Fatalf("expected source to start enabled")
	}
	if s.Toggle() {
		t.Fatalf("Toggle() should flip to disabled")
	}
	if s.Enabled() {
		t.Fatalf("expected source disabled after toggle")
	}
	if !s.Toggle() {
		t.Fatalf("Toggle() should flip back to enabled")
	}
	s.SetEnabled(false)
	if s.Enabled() {
		t.Fatalf("expected source disabled after SetEnabled(false)")
	}
}

func TestFallbackTextClampsLevel(t *testing.T) {
	if FallbackText(-1) != FallbackText(0) {
		t.Fatalf("negative level should clamp to the first line")
	}
	if FallbackText(99) == "" {
		t.Fatalf("out-of-range level should still produce a line")
	}
}
