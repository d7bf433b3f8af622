package index

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/project-ambr/ambr/internal/pkg/constants"
	"github.com/project-ambr/ambr/internal/pkg/logger"
)

const probeTimeout = 5 * time.Second

// IndexRule warns when the package index cannot be reached; installs may
// still succeed from a local cache or a mirror set in the manifest.
type IndexRule struct {
	ctx    context.Context
	client *http.Client
	url    string
}

func NewIndexRule(ctx context.Context, client *http.Client, url string) *IndexRule {
	if client == nil {
		client = &http.Client{Timeout: probeTimeout}
	}

	return &IndexRule{ctx: ctx, client: client, url: url}
}

func (r *IndexRule) Name() string {
	return "index"
}

func (r *IndexRule) Description() string {
	return "Checks that the Python package index is reachable."
}

func (r *IndexRule) Verify() error {
	logger.Infof("Probing package index %s\n", r.url, logger.VerbosityLevelDebug)

	ctx, cancel := context.WithTimeout(r.ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.url, nil)
	if err != nil {
		return fmt.Errorf("invalid package index URL: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("package index %s is unreachable: %w", r.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("package index %s returned %s", r.url, resp.Status)
	}

	return nil
}

func (r *IndexRule) Message() string {
	return "Package index " + r.url + " is reachable"
}

func (r *IndexRule) Level() constants.ValidationLevel {
	return constants.ValidationLevelWarning
}

func (r *IndexRule) Hint() string {
	return "Check network access or configure a mirror with --index-url in the manifest"
}
