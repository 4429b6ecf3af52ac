package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AndreyAkinshin/bootstrap/internal/config"
	"github.com/AndreyAkinshin/bootstrap/internal/environment"
	"github.com/AndreyAkinshin/bootstrap/internal/errors"
	"github.com/AndreyAkinshin/bootstrap/internal/executor"
	"github.com/AndreyAkinshin/bootstrap/internal/output"
	"github.com/AndreyAkinshin/bootstrap/internal/plan"
	"github.com/AndreyAkinshin/bootstrap/internal/record"
	"github.com/AndreyAkinshin/bootstrap/internal/runner"
	"github.com/AndreyAkinshin/bootstrap/internal/toolchain"
)

// app bundles the collaborators of one invocation. Tests replace them.
type app struct {
	out *output.Writer

	// exec runs steps and the version query. Nil selects the OS executor,
	// streaming step output to out.
	exec executor.Executor

	getwd   func() (string, error)
	environ func() []string
	now     func() time.Time
}

func newApp() *app {
	return &app{
		out:     output.New(),
		getwd:   os.Getwd,
		environ: os.Environ,
		now:     time.Now,
	}
}

// applyVerbosityToOutput configures the output writer based on options.
func (a *app) applyVerbosityToOutput(opts *Options) {
	a.out.SetQuiet(opts.Quiet)
	a.out.SetVerbose(opts.Verbose)
}

// executors returns the executor for the version query, which must not echo
// its banner, and the one for steps.
func (a *app) executors() (probe, steps executor.Executor) {
	if a.exec != nil {
		return a.exec, a.exec
	}
	var stdout io.Writer = a.out.Stdout()
	if a.out.IsQuiet() {
		stdout = nil
	}
	return executor.NewOS(nil, nil), executor.NewOS(stdout, a.out.Stderr())
}

func (a *app) run(ctx context.Context, args []string) int {
	opts, err := parseArgs(args)
	if err != nil {
		a.out.ErrorPrefix("%v", err)
		a.out.Hint("run 'bootstrap -h' for usage")
		return errors.GetExitCode(err)
	}

	if opts.Help {
		printUsage(a.out)
		return errors.ExitSuccess
	}
	if opts.ShowVersion {
		a.out.Println("bootstrap %s", Version)
		return errors.ExitSuccess
	}

	a.applyVerbosityToOutput(opts)
	return a.bootstrap(ctx, opts)
}

// bootstrap resolves the toolchain, builds the environment and the step
// plan, runs it and records the outcome.
func (a *app) bootstrap(ctx context.Context, opts *Options) int {
	workDir, err := a.getwd()
	if err != nil {
		a.out.ErrorPrefix("cannot determine working directory: %v", err)
		return errors.ExitRuntimeError
	}

	cfg, cfgPath, err := config.LoadAndValidate(workDir)
	if err != nil {
		cfgErr := errors.Config("invalid configuration: " + err.Error())
		a.out.ErrorPrefix("%v", cfgErr)
		return cfgErr.ExitCode()
	}
	if cfgPath != "" {
		a.out.Debug("loaded %s: %s", cfgPath, cfg)
	}

	candidate := cfg.Python
	if opts.Python != "" {
		candidate = opts.Python
	}

	probe, stepExec := a.executors()

	handle, err := toolchain.NewResolver(probe).Resolve(ctx, candidate)
	if err != nil {
		a.out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	env, err := environment.Build(handle, workDir, environment.Options{
		InstallDir: cfg.InstallDir,
		SearchVar:  cfg.SearchPathVar,
	})
	if err != nil {
		a.out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	steps := plan.Build(plan.Options{Docs: opts.Docs}, handle, env, cfg)

	a.out.Info("Using %s (%s)", handle.DisplayName(), handle.Executable)
	a.out.Info("Install root: %s", env.InstallRoot)
	if a.out.IsVerbose() {
		a.out.Section("Environment")
		var exports []string
		for _, exp := range env.Exports() {
			exports = append(exports, fmt.Sprintf("%s += %s", exp.Name, strings.Join(exp.Paths, string(os.PathListSeparator))))
		}
		a.out.List(exports)
	}

	digests := a.checkRequirements(workDir, env, cfg, opts)

	if opts.DryRun {
		printDryRun(a.out, steps)
		return errors.ExitSuccess
	}

	r := runner.New(stepExec, a.out)
	r.Dir = workDir
	r.Environ = a.environ
	summary := r.Run(ctx, steps, env)

	printRunSummary(a.out, handle, env, summary)

	state := record.NewState(Version, handle, env, summary, a.now())
	state.Requirements = digests
	if err := record.Write(env, state); err != nil {
		a.out.Warning("%v", err)
	} else {
		a.out.Debug("wrote %s", record.StateFile)
	}

	if err := summary.Err(); err != nil {
		a.out.ErrorPrefix("%v", err)
		return summary.ExitCode()
	}
	return errors.ExitSuccess
}

// checkRequirements hashes the requirements files that the plan installs and
// reports when they match the last successful run recorded in the install root.
func (a *app) checkRequirements(workDir string, env *environment.Environment, cfg *config.Config, opts *Options) []record.FileDigest {
	files := []string{cfg.Requirements}
	if opts.Docs && cfg.Docs != nil {
		files = append(files, cfg.Docs.Requirements)
	}

	digests, err := record.DigestFiles(workDir, files)
	if err != nil {
		a.out.Warning("%v", err)
		return nil
	}

	prev, err := record.Read(filepath.Join(env.InstallRoot, record.StateFile))
	if err != nil {
		return digests
	}
	if prev.RequirementsUnchanged(digests) {
		a.out.Info("Requirements unchanged since %s", prev.CreatedAt.Local().Format(time.RFC3339))
	}
	return digests
}

// formatDuration renders step durations for the summary.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
