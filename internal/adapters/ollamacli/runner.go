// Package ollamacli invokes a local text-generation CLI as a child process.
package ollamacli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"donotclick/internal/core/reply"
)

const DefaultCommand = "ollama"

// Runner shells out to an ollama-style CLI: <command> run <model> <prompt>.
// Success is a zero exit code; stdout is the generated text.
type Runner struct {
	command string
}

func New(command string) Runner {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	return Runner{command: command}
}

func (r Runner) Generate(ctx context.Context, model, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, r.command, "run", model, prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", reply.ErrToolMissing, r.command)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				detail = "no error output"
			}
			return "", fmt.Errorf("%s exited with code %d: %s", r.command, exitErr.ExitCode(), detail)
		}
		return "", err
	}

	return stdout.String(), nil
}
