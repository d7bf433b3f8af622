package types

import (
	"context"
	"errors"
)

// ErrRuntimeMissing is returned by CheckRuntime when the language runtime
// (or the container engine hosting it) is not installed.
var ErrRuntimeMissing = errors.New("runtime not found")

// RuntimeType identifies the sandbox back end used by the launcher.
type RuntimeType string

const (
	RuntimeTypeVenv   RuntimeType = "venv"
	RuntimeTypePodman RuntimeType = "podman"
)

// String returns the string representation of RuntimeType.
func (r RuntimeType) String() string {
	return string(r)
}

// Valid checks if the runtime type is valid.
func (r RuntimeType) Valid() bool {
	switch r {
	case RuntimeTypeVenv, RuntimeTypePodman:
		return true
	default:
		return false
	}
}

// Options configures a provisioner.
type Options struct {
	// Python is the interpreter used to create a venv; empty means probe.
	Python string
	// EnvDir is the sandbox directory for venv, relative to WorkDir.
	EnvDir string
	// Image is the container image for podman.
	Image string
	// WorkDir holds the manifest and the entry script.
	WorkDir string
	// KeepEnv leaves the sandbox in place after teardown.
	KeepEnv bool
}

// Environment is an active sandbox. Operations run inside it; the launcher's
// own process environment is left untouched.
type Environment interface {
	// Location describes where the sandbox lives (directory or container name).
	Location() string

	// UpgradeInstaller upgrades the package installer inside the sandbox.
	UpgradeInstaller(ctx context.Context) error

	// Install installs every dependency listed in the manifest.
	Install(ctx context.Context, manifest string) error

	// Run executes the entry script with args and returns its exit error, if any.
	Run(ctx context.Context, script string, args []string) error

	// Close deactivates and tears the sandbox down. It is safe to call more than once.
	Close() error
}
