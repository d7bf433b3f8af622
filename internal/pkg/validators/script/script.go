package script

import (
	"fmt"
	"os"

	"github.com/project-ambr/ambr/internal/pkg/constants"
	"github.com/project-ambr/ambr/internal/pkg/logger"
)

type ScriptRule struct {
	path string
}

func NewScriptRule(path string) *ScriptRule {
	return &ScriptRule{path: path}
}

func (r *ScriptRule) Name() string {
	return "script"
}

func (r *ScriptRule) Description() string {
	return "Validates that the entry-point script exists."
}

func (r *ScriptRule) Verify() error {
	logger.Infof("Looking for entry script %s\n", r.path, logger.VerbosityLevelDebug)

	info, err := os.Stat(r.path)
	if err != nil {
		return fmt.Errorf("entry script not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("entry script %s is a directory", r.path)
	}

	return nil
}

func (r *ScriptRule) Message() string {
	return "Entry script " + r.path + " found"
}

func (r *ScriptRule) Level() constants.ValidationLevel {
	return constants.ValidationLevelError
}

func (r *ScriptRule) Hint() string {
	return "Run ambr from the directory holding the entry script or point --script at it"
}
