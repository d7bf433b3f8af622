package interpreter

import (
	"context"
	"fmt"

	"github.com/project-ambr/ambr/internal/pkg/constants"
	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
)

// Name of the rule; the launcher treats its failure as a missing runtime.
const Name = "interpreter"

// RuntimeChecker is satisfied by every provisioner.
type RuntimeChecker interface {
	CheckRuntime(ctx context.Context) (string, error)
	Type() types.RuntimeType
}

type InterpreterRule struct {
	ctx     context.Context
	checker RuntimeChecker
	version string
}

func NewInterpreterRule(ctx context.Context, checker RuntimeChecker) *InterpreterRule {
	return &InterpreterRule{ctx: ctx, checker: checker}
}

func (r *InterpreterRule) Name() string {
	return Name
}

func (r *InterpreterRule) Description() string {
	return "Validates that the Python runtime (or the container engine hosting it) is installed."
}

func (r *InterpreterRule) Verify() error {
	logger.Infoln("Checking runtime presence", logger.VerbosityLevelDebug)

	version, err := r.checker.CheckRuntime(r.ctx)
	if err != nil {
		return err
	}
	r.version = version

	return nil
}

func (r *InterpreterRule) Message() string {
	if r.checker.Type() == types.RuntimeTypePodman {
		return fmt.Sprintf("Podman %s is installed", r.version)
	}

	return fmt.Sprintf("Python %s is installed", r.version)
}

func (r *InterpreterRule) Level() constants.ValidationLevel {
	return constants.ValidationLevelError
}

func (r *InterpreterRule) Hint() string {
	if r.checker.Type() == types.RuntimeTypePodman {
		return "Install podman, or use --provisioner venv with a local Python installation"
	}

	return "Install Python 3 from https://www.python.org/downloads/ and make sure it is on PATH, or pass --python"
}
