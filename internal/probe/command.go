package probe

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
)

// Runner executes a shell command line and returns its standard output.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// ShellRunner runs commands through "sh -c".
type ShellRunner struct {
	// Shell overrides the interpreter. Empty means "sh".
	Shell string
}

// Run starts the command and collects stdout. A command that starts but
// exits non-zero is not an error; whatever it printed is returned.
func (r ShellRunner) Run(ctx context.Context, command string) (string, error) {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}

	out, err := exec.CommandContext(ctx, shell, "-c", command).Output() //nolint:gosec // commands are fixed by callers
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), nil
		}
		return "", err
	}
	return string(out), nil
}

// ExecuteCommand runs command with r and returns its output, or the
// placeholder "Failed to execute command: <command>" when it cannot start.
func ExecuteCommand(ctx context.Context, r Runner, logger *slog.Logger, command string) string {
	if r == nil {
		r = ShellRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	out, err := r.Run(ctx, command)
	if err != nil {
		logger.Error("failed to execute command", "command", command, "error", err)
		return "Failed to execute command: " + command
	}
	return out
}
