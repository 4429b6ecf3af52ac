// Package record persists the outcome of a bootstrap run into the install root.
//
// Two files are written: bootstrap-state.yaml, a machine-readable description
// of the toolchain, layout and step results, and env.sh, a POSIX script that
// a wrapping shell can source to get the same PATH and search variable the
// steps ran with.
package record

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/bootstrap/internal/environment"
	"github.com/AndreyAkinshin/bootstrap/internal/runner"
	"github.com/AndreyAkinshin/bootstrap/internal/toolchain"
)

// File names inside the install root.
const (
	StateFile = "bootstrap-state.yaml"
	EnvFile   = "env.sh"
)

// SchemaVersion is bumped when State changes incompatibly.
const SchemaVersion = 1

// State is the persisted description of one run.
type State struct {
	SchemaVersion int            `yaml:"schema_version"`
	Tool          string         `yaml:"tool"`
	CreatedAt     time.Time      `yaml:"created_at"`
	Succeeded     bool           `yaml:"succeeded"`
	Toolchain     ToolchainState `yaml:"toolchain"`
	Paths         PathsState     `yaml:"paths"`
	Requirements  []FileDigest   `yaml:"requirements,omitempty"`
	Steps         []StepState    `yaml:"steps"`
}

// ToolchainState describes the resolved interpreter.
type ToolchainState struct {
	Executable string `yaml:"executable"`
	Name       string `yaml:"name"`
	Version    string `yaml:"version"`
	Series     string `yaml:"series"`
}

// PathsState describes the install layout.
type PathsState struct {
	WorkDir        string   `yaml:"work_dir"`
	InstallRoot    string   `yaml:"install_root"`
	SitePackages   string   `yaml:"site_packages"`
	SearchVar      string   `yaml:"search_var"`
	SearchPaths    []string `yaml:"search_paths"`
	ExecutionPaths []string `yaml:"execution_paths"`
}

// StepState is one executed step. Output is not persisted.
type StepState struct {
	Description string   `yaml:"description"`
	Command     []string `yaml:"command,flow"`
	Optional    bool     `yaml:"optional,omitempty"`
	Succeeded   bool     `yaml:"succeeded"`
	ExitCode    int      `yaml:"exit_code"`
	Duration    string   `yaml:"duration"`
	Error       string   `yaml:"error,omitempty"`
}

// NewState captures the run. tool identifies the bootstrap build that
// produced it.
func NewState(tool string, h *toolchain.Handle, env *environment.Environment, summary *runner.Summary, now time.Time) *State {
	s := &State{
		SchemaVersion: SchemaVersion,
		Tool:          tool,
		CreatedAt:     now.UTC().Truncate(time.Second),
		Succeeded:     summary.Succeeded(),
		Toolchain: ToolchainState{
			Executable: h.Executable,
			Name:       h.Name,
			Version:    h.Version(),
			Series:     h.Series(),
		},
		Paths: PathsState{
			WorkDir:        env.WorkDir,
			InstallRoot:    env.InstallRoot,
			SitePackages:   env.SitePackages,
			SearchVar:      env.SearchVar,
			SearchPaths:    append([]string(nil), env.SearchPaths...),
			ExecutionPaths: append([]string(nil), env.ExecutionPaths...),
		},
		Steps: make([]StepState, 0, len(summary.Results)),
	}

	for _, r := range summary.Results {
		st := StepState{
			Description: r.Step.Description,
			Command:     append([]string(nil), r.Step.Command...),
			Optional:    r.Step.Optional,
			Succeeded:   r.Succeeded,
			ExitCode:    r.ExitCode,
			Duration:    r.Duration.Round(time.Millisecond).String(),
		}
		if r.Err != nil {
			st.Error = r.Err.Error()
		}
		s.Steps = append(s.Steps, st)
	}
	return s
}

// Write stores the state file and env.sh in env.InstallRoot, creating the
// directory when the run failed before the package manager did.
func Write(env *environment.Environment, state *State) error {
	if err := os.MkdirAll(env.InstallRoot, 0755); err != nil {
		return fmt.Errorf("failed to create install root: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode install record: %w", err)
	}
	if err := os.WriteFile(filepath.Join(env.InstallRoot, StateFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write install record: %w", err)
	}

	if err := os.WriteFile(filepath.Join(env.InstallRoot, EnvFile), []byte(EnvScript(env)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", EnvFile, err)
	}
	return nil
}

// Read loads a state file written by Write.
func Read(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse install record: %w", err)
	}
	if s.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported install record version %d", s.SchemaVersion)
	}
	return &s, nil
}

// EnvScript renders export lines that prepend the local paths to the
// caller's PATH and search variable.
func EnvScript(env *environment.Environment) string {
	var b strings.Builder
	b.WriteString("# Generated by bootstrap. Source this file: . ")
	b.WriteString(filepath.ToSlash(filepath.Join(env.InstallRoot, EnvFile)))
	b.WriteString("\n")
	for _, exp := range env.Exports() {
		local := strings.Join(exp.Paths, ":")
		fmt.Fprintf(&b, "export %s=%s\"${%s:+:$%s}\"\n", exp.Name, singleQuote(local), exp.Name, exp.Name)
	}
	return b.String()
}

func singleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
