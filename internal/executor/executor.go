// Package executor runs subprocesses for bootstrap steps.
//
// Executor is the only place that touches os/exec. Everything above it (the
// toolchain resolver, the step runner) talks to the interface, so tests swap in
// a fake that records invocations instead of spawning processes.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Command describes a single subprocess invocation.
type Command struct {
	// Args is the argv of the child; Args[0] is the executable.
	Args []string
	// Env is the complete child environment. Nil inherits the parent's.
	Env []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Result is the outcome of a subprocess that was started.
type Result struct {
	ExitCode int
	Output   string // combined stdout and stderr
}

// Executor spawns subprocesses.
type Executor interface {
	// Run starts cmd and waits for it. A non-zero exit is reported through
	// Result.ExitCode with a nil error; the error is reserved for failures to
	// start the process or cancellation.
	Run(ctx context.Context, cmd Command) (Result, error)

	// LookPath resolves an executable name the way the shell would.
	LookPath(name string) (string, error)
}

// OS is the Executor backed by os/exec.
type OS struct {
	// Stdout and Stderr receive the child's output as it is produced, in
	// addition to the capture in Result.Output. Nil discards.
	Stdout io.Writer
	Stderr io.Writer
}

// NewOS creates an OS executor that streams to the given writers.
func NewOS(stdout, stderr io.Writer) *OS {
	return &OS{Stdout: stdout, Stderr: stderr}
}

// Run implements Executor.
func (e *OS) Run(ctx context.Context, c Command) (Result, error) {
	if len(c.Args) == 0 {
		return Result{}, errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = os.Stdin

	var captured bytes.Buffer
	cmd.Stdout = io.MultiWriter(orDiscard(e.Stdout), &captured)
	cmd.Stderr = io.MultiWriter(orDiscard(e.Stderr), &captured)

	err := cmd.Run()
	res := Result{Output: captured.String()}
	if err == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = exitCodeOf(err)
		return res, fmt.Errorf("%s interrupted: %w", c.Args[0], ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}

// LookPath implements Executor.
func (e *OS) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func exitCodeOf(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
