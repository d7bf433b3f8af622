package constants

const (
	DefaultConfigFile   = "ambr.yaml"
	DefaultManifest     = "requirements.txt"
	DefaultEntryScript  = "AMBR.py"
	DefaultEnvDir       = "venv"
	DefaultPythonImage  = "docker.io/library/python:3.12-slim"
	ContainerWorkspace  = "/workspace"
	ContainerNamePrefix = "ambr-"
)

type ValidationLevel int

const (
	ValidationLevelWarning ValidationLevel = iota
	ValidationLevelError
)

// String returns a lower-case label for the level.
func (l ValidationLevel) String() string {
	if l == ValidationLevelError {
		return "error"
	}

	return "warning"
}

// Exit statuses used when no external tool status is available.
const (
	ExitSuccess = 0
	ExitFailure = 1
)
