// Package plan turns the resolved toolchain, environment and config into the
// ordered list of installation steps.
package plan

import (
	"strings"

	"github.com/AndreyAkinshin/bootstrap/internal/config"
	"github.com/AndreyAkinshin/bootstrap/internal/environment"
	"github.com/AndreyAkinshin/bootstrap/internal/runner"
	"github.com/AndreyAkinshin/bootstrap/internal/toolchain"
)

// Step descriptions, in execution order.
const (
	StepInstallPackageManager = "Install package manager"
	StepUpgradePackageManager = "Upgrade package manager"
	StepInstallRequirements   = "Install requirements"
	StepBuildDocumentation    = "Build documentation"
)

// Options select optional parts of the plan.
type Options struct {
	Docs bool // append the documentation step
}

// Build returns the step sequence. The three package manager steps are
// mandatory; the documentation step is optional and present only with
// opts.Docs.
func Build(opts Options, h *toolchain.Handle, env *environment.Environment, cfg *config.Config) []runner.Step {
	py := h.Executable
	target := "--target=" + env.SelfInstallRoot

	steps := []runner.Step{
		{
			Description: StepInstallPackageManager,
			Command:     []string{py, "-m", "ensurepip", "--root", env.InstallRoot, "--default-pip"},
		},
		{
			Description: StepUpgradePackageManager,
			Command:     pipInstall(py, cfg.PipFlags, "--upgrade", "pip", target),
		},
		{
			Description: StepInstallRequirements,
			Command:     pipInstall(py, cfg.PipFlags, "-r", cfg.Requirements, target, "--upgrade"),
		},
	}

	if opts.Docs {
		steps = append(steps, docsStep(py, target, cfg))
	}
	return steps
}

// docsStep installs the docs requirements and runs the docs build as a
// single shell command so that a failure of either is one optional warning.
func docsStep(py, target string, cfg *config.Config) runner.Step {
	docs := cfg.Docs
	if docs == nil {
		docs = &config.DocsConfig{
			Requirements: config.DefaultDocsRequirements,
			Directory:    config.DefaultDocsDirectory,
		}
	}

	install := pipInstall(py, cfg.PipFlags, "-r", docs.Requirements, target, "--upgrade")
	build := []string{"make", "-C", docs.Directory, "PYTHON=" + py}
	script := shellJoin(install) + " && " + shellJoin(build)

	return runner.Step{
		Description: StepBuildDocumentation,
		Command:     []string{"sh", "-c", script},
		Optional:    true,
	}
}

func pipInstall(py string, flags []string, args ...string) []string {
	cmd := []string{py, "-m", "pip", "install"}
	cmd = append(cmd, flags...)
	return append(cmd, args...)
}

// shellJoin renders argv as a POSIX shell command line.
func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

// shellQuote single-quotes s unless it consists only of characters that are
// never special to sh.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, c := range s {
		if !isShellSafe(c) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellSafe(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.ContainsRune("-_./=:+,@%", c)
}
