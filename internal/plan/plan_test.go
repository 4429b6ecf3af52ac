package plan

import (
	"reflect"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/bootstrap/internal/config"
	"github.com/AndreyAkinshin/bootstrap/internal/environment"
	"github.com/AndreyAkinshin/bootstrap/internal/toolchain"
)

func fixture(t *testing.T) (*toolchain.Handle, *environment.Environment, *config.Config) {
	t.Helper()
	h := &toolchain.Handle{Executable: "/usr/bin/python3", Name: "Python", Major: 3, Minor: 11, Patch: 4}
	env, err := environment.Build(h, "/work", environment.Options{})
	if err != nil {
		t.Fatalf("environment.Build() error = %v", err)
	}
	return h, env, config.Default()
}

func TestBuild_DefaultSequence(t *testing.T) {
	h, env, cfg := fixture(t)

	steps := Build(Options{}, h, env, cfg)

	wantDesc := []string{StepInstallPackageManager, StepUpgradePackageManager, StepInstallRequirements}
	if len(steps) != len(wantDesc) {
		t.Fatalf("len(steps) = %d, want %d", len(steps), len(wantDesc))
	}
	for i, s := range steps {
		if s.Description != wantDesc[i] {
			t.Errorf("steps[%d].Description = %q, want %q", i, s.Description, wantDesc[i])
		}
		if s.Optional {
			t.Errorf("steps[%d] is optional, want mandatory", i)
		}
	}

	tests := []struct {
		step int
		want []string
	}{
		{0, []string{"/usr/bin/python3", "-m", "ensurepip", "--root", "/work/external", "--default-pip"}},
		{1, []string{"/usr/bin/python3", "-m", "pip", "install", "--no-cache-dir", "-q", "--upgrade", "pip", "--target=/work/external"}},
		{2, []string{"/usr/bin/python3", "-m", "pip", "install", "--no-cache-dir", "-q", "-r", "requirements.txt", "--target=/work/external", "--upgrade"}},
	}
	for _, tt := range tests {
		if got := steps[tt.step].Command; !reflect.DeepEqual(got, tt.want) {
			t.Errorf("steps[%d].Command =\n  %q\nwant\n  %q", tt.step, got, tt.want)
		}
	}
}

func TestBuild_NoDocsStepWithoutFlag(t *testing.T) {
	h, env, cfg := fixture(t)

	for _, s := range Build(Options{Docs: false}, h, env, cfg) {
		if strings.Contains(s.String(), cfg.Docs.Requirements) {
			t.Errorf("step %q references docs requirements without +docs", s.Description)
		}
		if s.Description == StepBuildDocumentation {
			t.Error("docs step present without +docs")
		}
	}
}

func TestBuild_DocsStep(t *testing.T) {
	h, env, cfg := fixture(t)

	steps := Build(Options{Docs: true}, h, env, cfg)
	if len(steps) != 4 {
		t.Fatalf("len(steps) = %d, want 4", len(steps))
	}

	var optional []int
	for i, s := range steps {
		if s.Optional {
			optional = append(optional, i)
		}
	}
	if !reflect.DeepEqual(optional, []int{3}) {
		t.Fatalf("optional steps at %v, want only the last", optional)
	}

	docs := steps[3]
	if docs.Description != StepBuildDocumentation {
		t.Errorf("Description = %q", docs.Description)
	}
	if docs.Command[0] != "sh" || docs.Command[1] != "-c" {
		t.Fatalf("Command = %q, want sh -c wrapper", docs.Command)
	}
	script := docs.Command[2]
	for _, want := range []string{
		"-r docs/requirements.txt",
		"--target=/work/external",
		"&& make -C docs PYTHON=/usr/bin/python3",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script %q missing %q", script, want)
		}
	}
}

func TestBuild_UsesConfig(t *testing.T) {
	h, env, _ := fixture(t)
	cfg := &config.Config{
		Requirements: "reqs/prod.txt",
		PipFlags:     []string{},
		Docs:         &config.DocsConfig{Requirements: "site/req.txt", Directory: "site"},
	}

	steps := Build(Options{Docs: true}, h, env, cfg)

	want := []string{"/usr/bin/python3", "-m", "pip", "install", "-r", "reqs/prod.txt", "--target=/work/external", "--upgrade"}
	if !reflect.DeepEqual(steps[2].Command, want) {
		t.Errorf("requirements step = %q, want %q", steps[2].Command, want)
	}
	if !strings.Contains(steps[3].Command[2], "make -C site") {
		t.Errorf("docs script = %q", steps[3].Command[2])
	}
}

func TestBuild_DocsNilFallsBackToDefaults(t *testing.T) {
	h, env, _ := fixture(t)
	cfg := &config.Config{Requirements: "requirements.txt"}

	steps := Build(Options{Docs: true}, h, env, cfg)

	if !strings.Contains(steps[3].Command[2], "-r docs/requirements.txt") {
		t.Errorf("docs script = %q", steps[3].Command[2])
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "''"},
		{"python3", "python3"},
		{"--target=/work/external", "--target=/work/external"},
		{"/my dir/python", "'/my dir/python'"},
		{"it's", `'it'\''s'`},
		{"$HOME", "'$HOME'"},
		{"a;b", "'a;b'"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := shellQuote(tt.in); got != tt.want {
				t.Errorf("shellQuote(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuild_QuotesPathsWithSpaces(t *testing.T) {
	h := &toolchain.Handle{Executable: "/opt/my python/bin/python3", Name: "Python", Major: 3, Minor: 12}
	env, err := environment.Build(h, "/work space", environment.Options{})
	if err != nil {
		t.Fatal(err)
	}

	steps := Build(Options{Docs: true}, h, env, config.Default())

	script := steps[3].Command[2]
	if !strings.HasPrefix(script, "'/opt/my python/bin/python3' -m pip install") {
		t.Errorf("script = %q", script)
	}
	if !strings.Contains(script, "'--target=/work space/external'") {
		t.Errorf("script = %q", script)
	}
	if !strings.HasSuffix(script, "'PYTHON=/opt/my python/bin/python3'") {
		t.Errorf("script = %q", script)
	}
	// Argv steps are not shell-quoted.
	if steps[0].Command[0] != "/opt/my python/bin/python3" {
		t.Errorf("steps[0].Command[0] = %q", steps[0].Command[0])
	}
}
