// Package environment computes the isolated install root for a toolchain and
// the search-path variables that make installed artifacts discoverable.
//
// Nothing here touches the filesystem or the process environment: Build is a
// pure function of its inputs, and Overlay returns a new environment slice for
// a child process instead of calling os.Setenv.
package environment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	bserrors "github.com/AndreyAkinshin/bootstrap/internal/errors"
	"github.com/AndreyAkinshin/bootstrap/internal/toolchain"
)

// Defaults for Options.
const (
	DefaultInstallDir = "external"
	DefaultSearchVar  = "PYTHONPATH"
	PathVar           = "PATH"
)

// Options tune the layout. Zero values select the defaults.
type Options struct {
	// InstallDir is the install root, relative to the working directory.
	InstallDir string
	// SearchVar is the module search-path variable, e.g. PYTHONPATH.
	SearchVar string
}

// Environment is the isolated layout for one toolchain.
type Environment struct {
	WorkDir         string
	InstallRoot     string
	SelfInstallRoot string // --target of package manager installs
	SitePackages    string // where the self-installed package manager lands

	// SearchPaths are prepended to SearchVar; SelfInstallRoot comes first.
	SearchPaths []string
	// ExecutionPaths are prepended to PATH.
	ExecutionPaths []string
	SearchVar      string
}

// Export is one variable a wrapping shell would export.
type Export struct {
	Name  string
	Paths []string
}

// Build derives the environment for h rooted at workDir, which must be an
// absolute path. The install root is always a strict descendant of workDir.
func Build(h *toolchain.Handle, workDir string, opts Options) (*Environment, error) {
	if h == nil {
		return nil, bserrors.New("environment: nil toolchain handle")
	}
	if !filepath.IsAbs(workDir) {
		return nil, bserrors.Configf("working directory must be absolute, got %q", workDir)
	}
	workDir = filepath.Clean(workDir)

	installDir := opts.InstallDir
	if installDir == "" {
		installDir = DefaultInstallDir
	}
	if err := validateInstallDir(installDir); err != nil {
		return nil, err
	}

	searchVar := opts.SearchVar
	if searchVar == "" {
		searchVar = DefaultSearchVar
	}

	root := filepath.Join(workDir, filepath.FromSlash(installDir))
	sitePackages := filepath.Join(root, "usr", "lib", "python"+h.Series(), "site-packages")

	env := &Environment{
		WorkDir:         workDir,
		InstallRoot:     root,
		SelfInstallRoot: root,
		SitePackages:    sitePackages,
		SearchPaths:     []string{root, sitePackages},
		ExecutionPaths: []string{
			filepath.Join(root, "usr", "bin"),
			filepath.Join(root, "bin"),
		},
		SearchVar: searchVar,
	}
	if !env.contains(env.InstallRoot) {
		return nil, bserrors.Configf("install root %s is not inside %s", env.InstallRoot, workDir)
	}
	return env, nil
}

// validateInstallDir rejects anything that could place the install root
// outside (or at) the working directory.
func validateInstallDir(dir string) error {
	native := filepath.FromSlash(dir)
	if filepath.IsAbs(native) || !filepath.IsLocal(native) {
		return bserrors.Configf("install_dir %q must be a relative path inside the working directory", dir)
	}
	if filepath.Clean(native) == "." {
		return bserrors.Configf("install_dir %q must name a subdirectory of the working directory", dir)
	}
	return nil
}

// Exports returns the variables to prepend, PATH first.
func (e *Environment) Exports() []Export {
	return []Export{
		{Name: PathVar, Paths: copyStrings(e.ExecutionPaths)},
		{Name: e.SearchVar, Paths: copyStrings(e.SearchPaths)},
	}
}

// Overlay returns a copy of base (KEY=VALUE entries, as from os.Environ) with
// PATH and SearchVar rebuilt as local entries followed by any existing value.
// Unrelated variables keep their order. base is not modified.
func (e *Environment) Overlay(base []string) []string {
	existing := make(map[string]string, 2)
	result := make([]string, 0, len(base)+2)

	for _, kv := range base {
		name, value, _ := strings.Cut(kv, "=")
		if e.overlays(name) {
			// Later duplicates win, matching os/exec.
			existing[name] = value
			continue
		}
		result = append(result, kv)
	}

	for _, exp := range e.Exports() {
		entries := copyStrings(exp.Paths)
		if prev := existing[exp.Name]; prev != "" {
			entries = append(entries, prev)
		}
		result = append(result, exp.Name+"="+strings.Join(entries, string(os.PathListSeparator)))
	}
	return result
}

func (e *Environment) overlays(name string) bool {
	return name == PathVar || name == e.SearchVar
}

// contains reports whether path lies strictly inside the working directory.
func (e *Environment) contains(path string) bool {
	rel, err := filepath.Rel(e.WorkDir, path)
	if err != nil {
		return false
	}
	return rel != "." && filepath.IsLocal(rel)
}

// String renders the layout for verbose output.
func (e *Environment) String() string {
	return fmt.Sprintf("install root %s (%s=%s)", e.InstallRoot, e.SearchVar,
		strings.Join(e.SearchPaths, string(os.PathListSeparator)))
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
