package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/project-ambr/ambr/internal/pkg/constants"
	"github.com/project-ambr/ambr/internal/pkg/executor"
)

// Kind classifies launch failures.
type Kind string

const (
	KindRuntimeMissing    Kind = "RuntimeMissing"
	KindPrecheck          Kind = "PrecheckFailure"
	KindEnvironmentCreate Kind = "EnvironmentCreateFailure"
	KindDependencyInstall Kind = "DependencyInstallFailure"
	KindEntryScript       Kind = "EntryScriptFailure"
)

// exitStatusInterrupted follows the shell convention for SIGINT.
const exitStatusInterrupted = 130

// LaunchError is returned by Launcher.Run. Code is the exit status the
// launcher process should terminate with.
type LaunchError struct {
	Kind Kind
	Code int
	Err  error
}

func (e *LaunchError) Error() string {
	switch e.Kind {
	case KindRuntimeMissing:
		return fmt.Sprintf("Python runtime not found: %v", e.Err)
	case KindPrecheck:
		return fmt.Sprintf("prechecks failed: %v", e.Err)
	case KindEnvironmentCreate:
		return fmt.Sprintf("failed to create environment: %v", e.Err)
	case KindDependencyInstall:
		return fmt.Sprintf("failed to install dependencies: %v", e.Err)
	case KindEntryScript:
		if _, ok := executor.ExitCode(e.Err); ok {
			return fmt.Sprintf("entry script exited with status %d", e.Code)
		}

		return fmt.Sprintf("entry script failed: %v", e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// newLaunchError classifies err, inheriting the exit status of the external
// tool when there is one.
func newLaunchError(ctx context.Context, kind Kind, err error) *LaunchError {
	code := constants.ExitFailure
	if c, ok := executor.ExitCode(err); ok {
		code = c
	}
	// a child that handled SIGINT itself may exit with any status
	if errors.Is(ctx.Err(), context.Canceled) {
		code = exitStatusInterrupted
	}

	return &LaunchError{Kind: kind, Code: code, Err: err}
}

// ExitCode maps an error returned by the CLI to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return constants.ExitSuccess
	}

	var launchErr *LaunchError
	if errors.As(err, &launchErr) {
		return launchErr.Code
	}

	return constants.ExitFailure
}
