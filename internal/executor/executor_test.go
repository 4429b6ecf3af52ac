package executor

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestOS_Run_Success(t *testing.T) {
	skipOnWindows(t)
	var stdout bytes.Buffer
	e := NewOS(&stdout, nil)

	res, err := e.Run(context.Background(), Command{Args: []string{"sh", "-c", "echo hello"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Output != "hello\n" {
		t.Errorf("Output = %q, want %q", res.Output, "hello\n")
	}
	if stdout.String() != "hello\n" {
		t.Errorf("streamed stdout = %q, want %q", stdout.String(), "hello\n")
	}
}

func TestOS_Run_NonZeroExitIsNotAnError(t *testing.T) {
	skipOnWindows(t)
	e := NewOS(nil, nil)

	res, err := e.Run(context.Background(), Command{Args: []string{"sh", "-c", "echo oops >&2; exit 7"}})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if res.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", res.ExitCode)
	}
	if !strings.Contains(res.Output, "oops") {
		t.Errorf("Output = %q, want stderr captured", res.Output)
	}
}

func TestOS_Run_EnvIsPassedToChild(t *testing.T) {
	skipOnWindows(t)
	e := NewOS(nil, nil)

	res, err := e.Run(context.Background(), Command{
		Args: []string{"sh", "-c", "echo $BOOTSTRAP_TEST_VAR"},
		Env:  []string{"BOOTSTRAP_TEST_VAR=from-overlay", "PATH=/usr/bin:/bin"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(res.Output) != "from-overlay" {
		t.Errorf("Output = %q, want %q", res.Output, "from-overlay")
	}
}

func TestOS_Run_Dir(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	e := NewOS(nil, nil)

	res, err := e.Run(context.Background(), Command{Args: []string{"sh", "-c", "pwd -P"}, Dir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(res.Output) == "" {
		t.Error("pwd produced no output")
	}
}

func TestOS_Run_MissingExecutable(t *testing.T) {
	e := NewOS(nil, nil)

	_, err := e.Run(context.Background(), Command{Args: []string{"definitely-not-a-real-binary-xyz"}})
	if err == nil {
		t.Fatal("Run() error = nil, want spawn error")
	}
}

func TestOS_Run_EmptyCommand(t *testing.T) {
	e := NewOS(nil, nil)

	if _, err := e.Run(context.Background(), Command{}); err == nil {
		t.Fatal("Run() with empty args should fail")
	}
}

func TestOS_Run_Cancelled(t *testing.T) {
	skipOnWindows(t)
	e := NewOS(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, Command{Args: []string{"sh", "-c", "sleep 5"}})
	if err == nil {
		t.Fatal("Run() error = nil, want cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestOS_LookPath(t *testing.T) {
	skipOnWindows(t)
	e := NewOS(nil, nil)

	if _, err := e.LookPath("sh"); err != nil {
		t.Errorf("LookPath(sh) error = %v", err)
	}
	if _, err := e.LookPath("definitely-not-a-real-binary-xyz"); err == nil {
		t.Error("LookPath() of missing binary should fail")
	}
}
