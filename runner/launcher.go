package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Command is a fully resolved external process invocation.
type Command struct {
	Path string
	Args []string
	Env  []string
}

// Launcher runs a command to completion and returns its exit code.
type Launcher interface {
	Launch(ctx context.Context, cmd Command) (int, error)
}

// ExecLauncher launches commands as child processes. The child shares the
// configured stdout and stderr.
type ExecLauncher struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecLauncher creates a launcher attached to the current process's
// standard streams.
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Launch blocks until the child exits. A non-zero exit is returned as a code,
// not an error; a missing executable is a *VendorEntrypointMissingError.
func (l *ExecLauncher) Launch(ctx context.Context, command Command) (int, error) {
	cmd := exec.CommandContext(ctx, command.Path, command.Args...)
	cmd.Env = command.Env
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	if ctx.Err() != nil {
		return -1, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return -1, &VendorEntrypointMissingError{Path: command.Path}
	}

	return -1, fmt.Errorf("failed to start %s: %w", command.Path, err)
}
