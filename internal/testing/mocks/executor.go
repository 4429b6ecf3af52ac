// Package mocks provides shared test doubles for bootstrap packages.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/AndreyAkinshin/bootstrap/internal/executor"
)

// Executor implements executor.Executor for testing.
// Use NewExecutor() to create instances with a fluent builder API.
//
// Responses are matched by the space-joined argv: the first rule whose
// substring occurs in the command line wins. Unmatched commands succeed with
// exit code 0 and no output.
type Executor struct {
	rules []rule
	paths map[string]string

	// RunFunc, if set, overrides rule matching entirely.
	RunFunc func(ctx context.Context, cmd executor.Command) (executor.Result, error)

	mu    sync.Mutex
	calls []executor.Command
}

type rule struct {
	match  string
	result executor.Result
	err    error
}

// NewExecutor creates a fake executor where every lookup fails until
// WithPath registers an executable.
func NewExecutor() *Executor {
	return &Executor{paths: make(map[string]string)}
}

// WithPath makes LookPath(name) resolve to path.
func (m *Executor) WithPath(name, path string) *Executor {
	m.paths[name] = path
	return m
}

// WithResult registers the result for commands containing match.
func (m *Executor) WithResult(match string, exitCode int, output string) *Executor {
	m.rules = append(m.rules, rule{match: match, result: executor.Result{ExitCode: exitCode, Output: output}})
	return m
}

// WithError registers a spawn error for commands containing match.
func (m *Executor) WithError(match string, err error) *Executor {
	m.rules = append(m.rules, rule{match: match, err: err})
	return m
}

// WithRunFunc sets the function called by Run.
func (m *Executor) WithRunFunc(fn func(ctx context.Context, cmd executor.Command) (executor.Result, error)) *Executor {
	m.RunFunc = fn
	return m
}

// executor.Executor interface implementation

func (m *Executor) Run(ctx context.Context, cmd executor.Command) (executor.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, cloneCommand(cmd))
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, cmd)
	}
	if err := ctx.Err(); err != nil {
		return executor.Result{ExitCode: -1}, err
	}

	line := strings.Join(cmd.Args, " ")
	for _, r := range m.rules {
		if strings.Contains(line, r.match) {
			return r.result, r.err
		}
	}
	return executor.Result{}, nil
}

func (m *Executor) LookPath(name string) (string, error) {
	if strings.ContainsRune(name, '/') {
		return name, nil
	}
	if p, ok := m.paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// Test inspection methods

// Calls returns a copy of every command passed to Run, in order.
func (m *Executor) Calls() []executor.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]executor.Command, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times Run was called.
func (m *Executor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears call tracking state.
func (m *Executor) Reset() {
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}

func cloneCommand(c executor.Command) executor.Command {
	out := executor.Command{Dir: c.Dir}
	out.Args = append([]string(nil), c.Args...)
	if c.Env != nil {
		out.Env = append([]string(nil), c.Env...)
	}
	return out
}
