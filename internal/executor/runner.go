package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// waitDelay bounds how long a killed command may keep its output open
// through processes it spawned.
const waitDelay = 100 * time.Millisecond

// ExecRunner runs external programs through os/exec
type ExecRunner struct {
	logger *zap.Logger
}

// NewRunner creates a command runner
func NewRunner(logger *zap.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

// Output runs the command and returns the first line it printed.
// Whatever was printed is returned even when the command fails.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	// Stderr stays nil so it goes to the null device
	out, err := cmd.Output()
	line := firstLine(string(out))
	if err != nil {
		return line, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return line, nil
}

// Run runs the command and waits for it, discarding all output
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Start launches the command and reaps it in the background
func (r *ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			r.logger.Debug("Background command exited with error",
				zap.String("command", name),
				zap.Strings("args", args),
				zap.Error(err))
		}
	}()
	return nil
}

// Exists checks if a binary exists in PATH
func (r *ExecRunner) Exists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// firstLine keeps the first line of out without its line terminator
func firstLine(out string) string {
	line, _, _ := strings.Cut(out, "\n")
	return strings.TrimRight(line, "\r\n")
}
