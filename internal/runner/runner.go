// Package runner executes ordered installation steps fail-fast.
package runner

import (
	"context"
	"os"
	"strings"
	"time"

	bserrors "github.com/AndreyAkinshin/bootstrap/internal/errors"
	"github.com/AndreyAkinshin/bootstrap/internal/environment"
	"github.com/AndreyAkinshin/bootstrap/internal/executor"
	"github.com/AndreyAkinshin/bootstrap/internal/output"
)

// Step is a declarative unit of work.
type Step struct {
	Description string
	Command     []string
	Optional    bool
}

// String returns the command line as it is echoed before execution.
func (s Step) String() string {
	return strings.Join(s.Command, " ")
}

// StepResult is the outcome of one executed step. Results are values and are
// never modified after the runner records them.
type StepResult struct {
	Step      Step
	ExitCode  int
	Succeeded bool
	Output    string
	Duration  time.Duration
	Err       error // spawn failure or interruption; nil for a plain non-zero exit
}

// Runner executes steps sequentially through an Executor.
type Runner struct {
	exec executor.Executor
	out  *output.Writer

	// Environ supplies the base environment for children. Defaults to os.Environ.
	Environ func() []string
	// Dir is the working directory of every step.
	Dir string
}

// New creates a Runner.
func New(e executor.Executor, out *output.Writer) *Runner {
	return &Runner{
		exec:    e,
		out:     out,
		Environ: os.Environ,
	}
}

// Run executes steps strictly in order.
//
// A failing mandatory step stops the run: its failed result is the last entry
// and later steps are never started. A failing optional step is reported as a
// warning and the run continues. Cancelling ctx kills the running child and
// records the interrupted step as failed.
func (r *Runner) Run(ctx context.Context, steps []Step, env *environment.Environment) *Summary {
	summary := &Summary{
		Results: make([]StepResult, 0, len(steps)),
	}
	start := time.Now()
	defer func() { summary.TotalDuration = time.Since(start) }()

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			summary.Aborted = true
			summary.abortErr = bserrors.Wrap(err, "bootstrap interrupted before "+step.Description)
			return summary
		}

		r.out.StepStart(i+1, len(steps), step.Description)
		r.out.StepCommand(step.Command)

		result := r.runStep(ctx, step, env)
		summary.Results = append(summary.Results, result)

		switch {
		case result.Succeeded:
			summary.Passed++
			r.out.StepSuccess(step.Description)
		case step.Optional && ctx.Err() == nil:
			summary.Warned++
			r.out.StepWarning(step.Description, result.ExitCode)
		default:
			if !step.Optional {
				summary.Failed++
			}
			if ctx.Err() != nil {
				summary.Aborted = true
			}
			r.out.StepFailed(step.Description, result.ExitCode)
			return summary
		}
	}

	return summary
}

func (r *Runner) runStep(ctx context.Context, step Step, env *environment.Environment) StepResult {
	cmd := executor.Command{
		Args: append([]string(nil), step.Command...),
		Dir:  r.Dir,
	}
	if env != nil {
		cmd.Env = env.Overlay(r.baseEnviron())
	}
	r.out.Debug("%s", strings.Join(cmd.Args, " "))

	t0 := time.Now()
	res, err := r.exec.Run(ctx, cmd)
	result := StepResult{
		Step:     step,
		ExitCode: res.ExitCode,
		Output:   res.Output,
		Duration: time.Since(t0),
		Err:      err,
	}
	result.Succeeded = err == nil && res.ExitCode == 0
	if !result.Succeeded && result.ExitCode <= 0 {
		// Spawn failures and signal kills carry no usable exit status.
		result.ExitCode = bserrors.ExitRuntimeError
	}

	if r.out.IsVerbose() && res.Output != "" && !result.Succeeded {
		r.out.Debug("output of %q:\n%s", step.Description, strings.TrimRight(res.Output, "\n"))
	}
	return result
}

func (r *Runner) baseEnviron() []string {
	if r.Environ == nil {
		return os.Environ()
	}
	return r.Environ()
}
