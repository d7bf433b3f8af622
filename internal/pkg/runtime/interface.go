package runtime

import (
	"context"

	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
)

// ErrRuntimeMissing is returned by CheckRuntime when the runtime is not installed.
var ErrRuntimeMissing = types.ErrRuntimeMissing

// Environment is the handle of an active sandbox.
type Environment = types.Environment

// Provisioner creates isolated dependency sandboxes.
type Provisioner interface {
	// CheckRuntime verifies the runtime is installed and returns its version.
	CheckRuntime(ctx context.Context) (string, error)

	// Create builds a fresh sandbox scoped to one run. The caller owns the
	// returned Environment and must Close it.
	Create(ctx context.Context) (Environment, error)

	// Type returns the runtime type this provisioner implements.
	Type() types.RuntimeType
}
