package runner

import (
	"time"

	bserrors "github.com/AndreyAkinshin/bootstrap/internal/errors"
)

// Summary aggregates the results of a Run.
type Summary struct {
	Results       []StepResult
	Passed        int
	Failed        int // mandatory failures; at most one since the run stops
	Warned        int // optional failures
	Aborted       bool
	TotalDuration time.Duration

	abortErr error
}

// Succeeded reports whether every mandatory step that ran succeeded and the
// run was not interrupted.
func (s *Summary) Succeeded() bool {
	return s.Failed == 0 && !s.Aborted
}

// FirstFailure returns the failed mandatory result, if any.
func (s *Summary) FirstFailure() (StepResult, bool) {
	for _, r := range s.Results {
		if !r.Succeeded && !r.Step.Optional {
			return r, true
		}
	}
	return StepResult{}, false
}

// Err returns a StepFailed error for the first failing mandatory step, an
// interruption error, or nil.
func (s *Summary) Err() error {
	if r, ok := s.FirstFailure(); ok {
		return bserrors.StepFailed(r.Step.Description, r.ExitCode, r.Err)
	}
	if s.Aborted {
		if s.abortErr != nil {
			return s.abortErr
		}
		return bserrors.New("bootstrap interrupted")
	}
	return nil
}

// ExitCode is 0 on success, otherwise the exit code of the first failing
// mandatory step.
func (s *Summary) ExitCode() int {
	return bserrors.GetExitCode(s.Err())
}
