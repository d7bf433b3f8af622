package validators

import (
	"context"
	"net/http"
	"sync"

	"github.com/project-ambr/ambr/internal/pkg/constants"
	"github.com/project-ambr/ambr/internal/pkg/validators/index"
	"github.com/project-ambr/ambr/internal/pkg/validators/interpreter"
	"github.com/project-ambr/ambr/internal/pkg/validators/manifest"
	"github.com/project-ambr/ambr/internal/pkg/validators/script"
)

// Rule defines the interface for validation rules.
type Rule interface {
	Verify() error
	Message() string
	Name() string
	Level() constants.ValidationLevel
	Hint() string
	Description() string
}

// ValidationRegistry holds the list of checks.
type ValidationRegistry struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewValidationRegistry creates a new registry.
func NewValidationRegistry() *ValidationRegistry {
	return &ValidationRegistry{
		rules: make([]Rule, 0),
	}
}

// Register adds a new check to the list.
func (r *ValidationRegistry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
}

// Rules returns the list of registered checks.
func (r *ValidationRegistry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Rule(nil), r.rules...)
}

// Names returns the registered rule names in order.
func (r *ValidationRegistry) Names() []string {
	rules := r.Rules()
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, rule.Name())
	}

	return names
}

// LauncherOptions carries what the launcher prechecks need to know.
type LauncherOptions struct {
	Runtime      interpreter.RuntimeChecker
	Requirements string
	Script       string
	IndexURL     string
	HTTPClient   *http.Client
}

// NewLauncherRegistry builds the precheck rules of a launch. The interpreter
// rule comes first so a missing runtime stops validation before anything else.
func NewLauncherRegistry(ctx context.Context, opts LauncherOptions) *ValidationRegistry {
	r := NewValidationRegistry()
	r.Register(interpreter.NewInterpreterRule(ctx, opts.Runtime))
	r.Register(manifest.NewManifestRule(opts.Requirements))
	r.Register(script.NewScriptRule(opts.Script))
	if opts.IndexURL != "" {
		r.Register(index.NewIndexRule(ctx, opts.HTTPClient, opts.IndexURL))
	}

	return r
}
