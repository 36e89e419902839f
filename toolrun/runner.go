// Package toolrun executes external developer tools (compilers, interpreters,
// test runners) with bounded timeouts.
//
// Tool absence and timeouts are soft outcomes captured in the Result, not
// errors: callers decide whether a missing compiler degrades to a heuristic
// check or fails the operation.
package toolrun

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/lingua/errors"
	"github.com/teranos/lingua/logger"
)

// Result captures a single tool invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	NotFound bool
	Duration time.Duration
}

// Ok reports whether the tool ran to completion and exited zero.
func (r Result) Ok() bool {
	return !r.TimedOut && !r.NotFound && r.ExitCode == 0
}

// Runner executes external tools.
type Runner struct {
	logger *zap.SugaredLogger
}

// NewRunner creates a tool runner.
func NewRunner() *Runner {
	return &Runner{
		logger: logger.ComponentLogger("toolrun"),
	}
}

// Run executes argv in dir with the given timeout.
// argv[0] is resolved via PATH. A missing binary sets NotFound; exceeding
// the timeout sets TimedOut. Both return a nil-error Result.
func (r *Runner) Run(ctx context.Context, dir string, argv []string, timeout time.Duration) Result {
	if len(argv) == 0 {
		return Result{ExitCode: -1, Stderr: "empty command"}
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var execErr *exec.Error
		switch {
		case runCtx.Err() == context.DeadlineExceeded:
			result.TimedOut = true
			result.ExitCode = -1
			r.logger.Debugw("tool timed out",
				"tool", argv[0],
				"timeout", timeout.String())
		case errors.As(err, &execErr):
			result.NotFound = true
			result.ExitCode = -1
			r.logger.Debugw("tool not found", "tool", argv[0])
		default:
			if exitErr, ok := err.(*exec.ExitError); ok {
				result.ExitCode = exitErr.ExitCode()
			} else {
				result.ExitCode = -1
				result.Stderr = result.Stderr + "\n" + err.Error()
			}
		}
		return result
	}

	result.ExitCode = 0
	return result
}

// RunCommand splits a shell-style command string and executes it.
// Splitting uses shell quoting rules so configured commands like
// `python3 -m pytest "tests dir"` behave as users expect.
func (r *Runner) RunCommand(ctx context.Context, dir, command string, timeout time.Duration) (Result, error) {
	argv, err := shellquote.Split(command)
	if err != nil {
		return Result{}, errors.Wrapf(err, "invalid tool command %q", command)
	}
	if len(argv) == 0 {
		return Result{}, errors.Newf("empty tool command %q", command)
	}
	return r.Run(ctx, dir, argv, timeout), nil
}

// Available reports whether a binary can be resolved via PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
