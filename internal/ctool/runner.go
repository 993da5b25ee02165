package ctool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// waitDelay is how long a killed toolchain process may linger flushing its
// pipes before its I/O is forcibly abandoned.
const waitDelay = 5 * time.Second

type runResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// run executes one toolchain binary to completion. A nonzero exit is data,
// returned in runResult; the error return is reserved for faults where the
// tool produced no verdict: spawn failures, the configured timeout, and
// caller cancellation. The process is killed and reaped on all paths.
func (s *service) run(ctx context.Context, bin string, args []string, stdin io.Reader) (*runResult, error) {
	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("waiting for toolchain slot: %w", err)
		}
		defer s.sem.Release(1)
	}

	// The timeout clock starts after a slot is held so queue time under
	// MaxParallel does not eat into a tool's execution budget.
	runCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, bin, args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if err == nil {
		return &runResult{stdout: stdout.String(), stderr: stderr.String()}, nil
	}

	if runCtx.Err() != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("running %s: %w", bin, context.Cause(ctx))
		}
		return nil, fmt.Errorf("%s timed out after %s", bin, s.config.Timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &runResult{
			stdout:   stdout.String(),
			stderr:   stderr.String(),
			exitCode: exitErr.ExitCode(),
		}, nil
	}
	return nil, fmt.Errorf("running %s: %w", bin, err)
}
