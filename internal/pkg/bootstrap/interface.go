package bootstrap

import (
	"context"

	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
)

// Bootstrap defines the launch sequence: verify the runtime, provision a
// sandbox, install dependencies, run the entry point and tear down.
type Bootstrap interface {
	// Run performs the complete sequence and returns a *LaunchError on failure.
	Run(ctx context.Context) error

	// Type returns the runtime type backing the sandbox.
	Type() types.RuntimeType
}
