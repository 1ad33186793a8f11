package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout marks a command that was killed because its deadline expired.
var ErrTimeout = errors.New("command timed out")

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Include stderr in error message for debugging
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("command '%s' failed: %w\nstderr: %s", name, err, stderrStr)
		}
		return "", fmt.Errorf("command '%s' failed: %w", name, err)
	}

	return stdout.String(), nil
}

// ExecuteTimeout runs an external command with a hard wall-clock deadline.
// On expiry the subprocess is killed and the returned error wraps ErrTimeout.
func (e *implExecutor) ExecuteTimeout(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := e.Execute(tctx, name, args...)
	if err != nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("command '%s' after %s: %w", name, timeout, ErrTimeout)
	}
	return out, err
}
