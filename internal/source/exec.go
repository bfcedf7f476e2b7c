package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Process is a running producer command whose stdout is the completion.
type Process struct {
	cmd    *exec.Cmd
	Stdout io.Reader
}

// Preflight checks that the shell used by Start is available on PATH.
func Preflight() error {
	if _, err := exec.LookPath("bash"); err != nil {
		return fmt.Errorf("required binary not found in PATH: bash")
	}
	return nil
}

// Start runs command under bash -c in its own process group. Stderr is
// passed through to stderr. Cancelling ctx terminates the whole group.
func Start(ctx context.Context, command, dir string, env []string) (*Process, error) {
	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	cmd.Dir = dir
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
	cmd.WaitDelay = 5 * time.Second
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %q: %w", command, err)
	}
	return &Process{cmd: cmd, Stdout: stdout}, nil
}

// Wait waits for the command to exit and returns its exit code. Stdout must
// have been read to EOF first.
func (p *Process) Wait() (int, error) {
	return exitCode(p.cmd.Wait())
}

// BuildEnv returns the current environment without CLAUDECODE* variables,
// plus LLMFILES_RUN_ID and LLMFILES_OUTPUT_DIR for the producer command.
func BuildEnv(runID, outputDir string) []string {
	var result []string
	for _, e := range os.Environ() {
		key := strings.SplitN(e, "=", 2)[0]
		if strings.HasPrefix(key, "CLAUDECODE") {
			continue
		}
		result = append(result, e)
	}
	return append(result,
		"LLMFILES_RUN_ID="+runID,
		"LLMFILES_OUTPUT_DIR="+outputDir,
	)
}

// exitCode extracts an exit code from a command error.
// Returns (code, nil) for ExitError, (0, err) for other errors, (0, nil) for nil.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
