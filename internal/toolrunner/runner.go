package toolrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/einkmax/einkctl/internal/logger"
)

// Runner abstracts external tool invocation so services can be tested
// against canned output instead of a live X session.
type Runner interface {
	// Run executes the tool with a bounded timeout and returns its stdout.
	Run(ctx context.Context, name string, args ...string) (string, error)
	// Start launches a long-lived child (an image viewer) without waiting.
	Start(ctx context.Context, name string, args ...string) (*exec.Cmd, error)
	// LookPath probes whether the tool is installed.
	LookPath(name string) (string, error)
}

var (
	// ErrToolTimeout is returned when a tool exceeds its invocation deadline.
	ErrToolTimeout = errors.New("external tool timed out")
	// ErrToolNotInstalled is returned when the tool binary cannot be found.
	ErrToolNotInstalled = errors.New("external tool is not installed")
)

// ToolError reports a tool that ran but exited non-zero.
type ToolError struct {
	// Tool is the invoked binary name.
	Tool string
	// ExitCode is the tool's exit status.
	ExitCode int
	// Stderr is the captured diagnostic text, trimmed.
	Stderr string
}

// Error renders the failure with its diagnostic text when available.
func (e *ToolError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}

	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, e.Stderr)
}

// ExecRunner runs external tools through os/exec with a per-call timeout.
type ExecRunner struct {
	// timeout bounds every Run call.
	timeout time.Duration
}

// NewExecRunner creates a runner with the provided per-call timeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &ExecRunner{
		timeout: timeout,
	}
}

// Run executes the tool and returns its stdout. Non-zero exits become
// *ToolError with captured stderr; deadline hits become ErrToolTimeout;
// a missing binary becomes ErrToolNotInstalled.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	logger.DebugKV(ctx, "Running external tool", "tool", name, "args", strings.Join(args, " "))

	var (
		stdout bytes.Buffer
		stderr bytes.Buffer
	)

	cmd := exec.CommandContext(callCtx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	// The deadline check comes first: a killed child also reports a
	// non-zero exit, and the timeout is the more useful diagnosis.
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%s after %s: %w", name, r.timeout, ErrToolTimeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return "", &ToolError{
			Tool:     name,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderr.String()),
		}
	}

	if errors.Is(err, exec.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", name, ErrToolNotInstalled)
	}

	return "", fmt.Errorf("run %s: %w", name, err)
}

// Start launches the tool without waiting for it to exit. The caller owns
// the returned process; ctx only bounds the launch, not the child's lifetime.
func (r *ExecRunner) Start(ctx context.Context, name string, args ...string) (*exec.Cmd, error) {
	logger.DebugKV(ctx, "Starting external tool", "tool", name, "args", strings.Join(args, " "))

	cmd := exec.Command(name, args...)

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", name, ErrToolNotInstalled)
		}

		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	return cmd, nil
}

// LookPath probes whether the tool is installed and resolvable.
func (r *ExecRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrToolNotInstalled)
	}

	return path, nil
}
