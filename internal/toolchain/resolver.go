package toolchain

import (
	"context"
	"strings"

	bserrors "github.com/AndreyAkinshin/bootstrap/internal/errors"
	"github.com/AndreyAkinshin/bootstrap/internal/executor"
)

// Resolver turns a candidate name or path into a Handle.
type Resolver struct {
	exec executor.Executor
}

// NewResolver creates a resolver that spawns through e.
func NewResolver(e executor.Executor) *Resolver {
	return &Resolver{exec: e}
}

// Resolve locates candidate and queries its version with one subprocess.
//
// Errors are *errors.BootstrapError of kind KindToolchainNotFound when the
// candidate cannot be located or started, and KindVersionParse when it runs
// but its output is not a recognizable version banner.
func (r *Resolver) Resolve(ctx context.Context, candidate string) (*Handle, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil, bserrors.ToolchainNotFound("(empty)", nil)
	}

	path, err := r.exec.LookPath(candidate)
	if err != nil {
		return nil, bserrors.ToolchainNotFound(candidate, err)
	}

	// Python 2 prints its version on stderr; the executor captures both.
	res, err := r.exec.Run(ctx, executor.Command{Args: []string{path, "--version"}})
	if err != nil {
		if ctx.Err() != nil {
			return nil, bserrors.Wrap(err, "toolchain resolution interrupted")
		}
		return nil, bserrors.ToolchainNotFound(candidate, err)
	}
	if res.ExitCode != 0 {
		return nil, bserrors.VersionParse(path, strings.TrimSpace(res.Output))
	}

	v, err := ParseVersion(res.Output)
	if err != nil {
		return nil, bserrors.VersionParse(path, strings.TrimSpace(res.Output))
	}

	return &Handle{
		Executable: path,
		Name:       v.Name,
		Major:      v.Major,
		Minor:      v.Minor,
		Patch:      v.Patch,
	}, nil
}
