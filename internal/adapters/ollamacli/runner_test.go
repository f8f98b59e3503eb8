package ollamacli

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"donotclick/internal/core/reply"
)

func TestNewDefaultsCommand(t *testing.T) {
	if got := New("").command; got != DefaultCommand {
		t.Fatalf("New(\"\").command = %q, want %q", got, DefaultCommand)
	}
	if got := New("  ").command; got != DefaultCommand {
		t.Fatalf("New(blank).command = %q, want %q", got, DefaultCommand)
	}
}

func TestGenerateMissingBinary(t *testing.T) {
	runner := New("donotclick-no-such-binary")
	_, err := runner.Generate(context.Background(), "some-model", "prompt")
	if !errors.Is(err, reply.ErrToolMissing) {
		t.Fatalf("Generate() error = %v, want ErrToolMissing", err)
	}
}

func TestGenerateNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires unix false(1)")
	}
	runner := New("false")
	_, err := runner.Generate(context.Background(), "some-model", "prompt")
	if err == nil {
		t.Fatalf("Generate() expected an error for a non-zero exit")
	}
	if errors.Is(err, reply.ErrToolMissing) {
		t.Fatalf("Generate() error = %v, want an exit error, not ErrToolMissing", err)
	}
}
