// Package fake provides a scripted executor.Executor for tests.
package fake

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/project-ambr/ambr/internal/pkg/executor"
)

// Response is the scripted outcome of a command.
type Response struct {
	Output []byte
	// ExitCode > 0 makes the command fail with an *executor.ExitError.
	ExitCode int
	Err      error
	// Hook runs when the command is recorded, before the response is returned.
	Hook func(cmd executor.Command)
}

// Executor records every command and answers from a table keyed by command
// line prefix. Unmatched commands succeed with no output.
type Executor struct {
	mu        sync.Mutex
	responses []match
	Commands  []executor.Command
	// Paths maps executable names to resolved paths; missing names are not found.
	Paths map[string]string
}

type match struct {
	prefix string
	resp   Response
}

func New() *Executor {
	return &Executor{Paths: map[string]string{}}
}

// On scripts the response for commands whose line starts with prefix.
// Later registrations win.
func (f *Executor) On(prefix string, resp Response) *Executor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append([]match{{prefix: prefix, resp: resp}}, f.responses...)

	return f
}

// Lines returns the recorded command lines in order.
func (f *Executor) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, 0, len(f.Commands))
	for _, c := range f.Commands {
		lines = append(lines, c.String())
	}

	return lines
}

func (f *Executor) Run(ctx context.Context, cmd executor.Command) error {
	resp := f.record(cmd)
	if resp.Output != nil && cmd.Stdout != nil {
		_, _ = cmd.Stdout.Write(resp.Output)
	}

	return f.result(cmd, resp)
}

func (f *Executor) Output(ctx context.Context, cmd executor.Command) ([]byte, error) {
	resp := f.record(cmd)

	return resp.Output, f.result(cmd, resp)
}

func (f *Executor) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.Paths[name]; ok {
		return p, nil
	}

	return "", fmt.Errorf("exec: %q: %w", name, exec.ErrNotFound)
}

func (f *Executor) record(cmd executor.Command) Response {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Commands = append(f.Commands, cmd)
	line := cmd.String()
	for _, m := range f.responses {
		if strings.HasPrefix(line, m.prefix) {
			if m.resp.Hook != nil {
				m.resp.Hook(cmd)
			}

			return m.resp
		}
	}

	return Response{}
}

func (f *Executor) result(cmd executor.Command, resp Response) error {
	if resp.Err != nil {
		return resp.Err
	}
	if resp.ExitCode > 0 {
		return &executor.ExitError{Command: cmd.String(), Code: resp.ExitCode}
	}

	return nil
}
