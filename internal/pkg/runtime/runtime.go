package runtime

import (
	"fmt"
	"os"
	"strings"

	"github.com/project-ambr/ambr/internal/pkg/executor"
	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/runtime/podman"
	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
	"github.com/project-ambr/ambr/internal/pkg/runtime/venv"
	"github.com/project-ambr/ambr/internal/pkg/vars"
)

// RuntimeFactory creates provisioners based on configuration.
type RuntimeFactory struct {
	runtimeType types.RuntimeType
}

// NewRuntimeFactory creates a new runtime factory with the specified runtime type.
func NewRuntimeFactory(runtimeType types.RuntimeType) *RuntimeFactory {
	return &RuntimeFactory{
		runtimeType: runtimeType,
	}
}

// NewFactoryFromEnv creates a factory using environment variable or fallback.
func NewFactoryFromEnv(fallback types.RuntimeType) *RuntimeFactory {
	runtimeType := fallback
	if !runtimeType.Valid() {
		runtimeType = types.RuntimeTypeVenv
	}

	if envRuntime := os.Getenv(vars.EnvProvisioner.String()); envRuntime != "" {
		rt := types.RuntimeType(strings.ToLower(envRuntime))
		if rt.Valid() {
			runtimeType = rt
		} else {
			logger.Warningf("Invalid provisioner in %s: %s, using: %s\n",
				vars.EnvProvisioner, envRuntime, runtimeType)
		}
	}

	return NewRuntimeFactory(runtimeType)
}

// Create creates a provisioner based on the factory configuration.
func (f *RuntimeFactory) Create(exec executor.Executor, opts types.Options) (Provisioner, error) {
	return CreateProvisioner(f.runtimeType, exec, opts)
}

// GetRuntimeType returns the configured runtime type.
func (f *RuntimeFactory) GetRuntimeType() types.RuntimeType {
	return f.runtimeType
}

// CreateProvisioner creates a provisioner for the specified type.
func CreateProvisioner(runtimeType types.RuntimeType, exec executor.Executor, opts types.Options) (Provisioner, error) {
	switch runtimeType {
	case types.RuntimeTypeVenv:
		logger.Infof("Initializing venv provisioner\n", logger.VerbosityLevelDebug)

		return venv.NewProvisioner(exec, opts), nil
	case types.RuntimeTypePodman:
		logger.Infof("Initializing podman provisioner\n", logger.VerbosityLevelDebug)

		return podman.NewProvisioner(exec, opts), nil
	default:
		return nil, fmt.Errorf("unsupported provisioner type: %s", runtimeType)
	}
}
