// Package executor runs external tools on behalf of the launcher and the
// precheck rules, reporting a non-zero exit status as an *ExitError.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/project-ambr/ambr/internal/pkg/logger"
)

// Command describes one external tool invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env replaces the inherited environment when non-nil.
	Env []string
	// Stdin, Stdout and Stderr default to the launcher's own streams when nil.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// ExitError reports that a command ran but exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// ExitCode returns the exit status carried by err, if any.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}

	return 0, false
}

// Executor runs commands.
type Executor interface {
	// Run streams the command's output and waits for it to exit.
	Run(ctx context.Context, cmd Command) error
	// Output runs the command and returns its combined output.
	Output(ctx context.Context, cmd Command) ([]byte, error)
	// LookPath resolves an executable name.
	LookPath(name string) (string, error)
}

// OSExecutor runs commands as child processes.
type OSExecutor struct{}

func New() *OSExecutor {
	return &OSExecutor{}
}

func (e *OSExecutor) Run(ctx context.Context, c Command) error {
	cmd := e.build(ctx, c)
	cmd.Stdin = orReader(c.Stdin, os.Stdin)
	cmd.Stdout = orWriter(c.Stdout, os.Stdout)
	cmd.Stderr = orWriter(c.Stderr, os.Stderr)

	logger.Infof("Running: %s\n", c.String(), logger.VerbosityLevelDebug)

	return wrapExit(c, cmd.Run())
}

func (e *OSExecutor) Output(ctx context.Context, c Command) ([]byte, error) {
	cmd := e.build(ctx, c)
	if c.Stdin != nil {
		cmd.Stdin = c.Stdin
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	logger.Infof("Running: %s\n", c.String(), logger.VerbosityLevelDebug)
	err := cmd.Run()

	return out.Bytes(), wrapExit(c, err)
}

func (e *OSExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (e *OSExecutor) build(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if c.Env != nil {
		cmd.Env = c.Env
	}

	return cmd
}

func wrapExit(c Command, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return &ExitError{Command: c.String(), Code: exitErr.ExitCode()}
	}

	return fmt.Errorf("failed to run %s: %w", c.Name, err)
}

func orReader(r io.Reader, def io.Reader) io.Reader {
	if r != nil {
		return r
	}

	return def
}

func orWriter(w io.Writer, def io.Writer) io.Writer {
	if w != nil {
		return w
	}

	return def
}
