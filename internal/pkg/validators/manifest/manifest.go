package manifest

import (
	"fmt"

	"github.com/project-ambr/ambr/internal/pkg/constants"
	"github.com/project-ambr/ambr/internal/pkg/logger"
	reqs "github.com/project-ambr/ambr/internal/pkg/manifest"
)

type ManifestRule struct {
	path  string
	count int
}

func NewManifestRule(path string) *ManifestRule {
	return &ManifestRule{path: path}
}

func (r *ManifestRule) Name() string {
	return "manifest"
}

func (r *ManifestRule) Description() string {
	return "Validates that the dependency manifest exists and can be read."
}

func (r *ManifestRule) Verify() error {
	logger.Infof("Reading dependency manifest %s\n", r.path, logger.VerbosityLevelDebug)

	m, err := reqs.Load(r.path)
	if err != nil {
		return err
	}
	r.count = len(m.Requirements)

	return nil
}

func (r *ManifestRule) Message() string {
	return fmt.Sprintf("Dependency manifest %s lists %d requirement(s)", r.path, r.count)
}

func (r *ManifestRule) Level() constants.ValidationLevel {
	return constants.ValidationLevelError
}

func (r *ManifestRule) Hint() string {
	return "Create the manifest next to the entry script or point --requirements at it"
}
