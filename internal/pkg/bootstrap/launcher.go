package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/manifest"
	"github.com/project-ambr/ambr/internal/pkg/prompt"
	"github.com/project-ambr/ambr/internal/pkg/runtime"
	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
	"github.com/project-ambr/ambr/internal/pkg/validators"
)

const acknowledgeTitle = "Press Enter to exit"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#32BD27"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E03C31")).Bold(true)
)

// Options configures a launch. Requirements and Script are relative to
// WorkDir unless absolute.
type Options struct {
	WorkDir      string
	Requirements string
	Script       string
	ScriptArgs   []string
	// Skip names precheck rules to skip.
	Skip map[string]bool
	// IndexURL enables the package index precheck when set.
	IndexURL string
	// Pause waits for the user before Run returns.
	Pause bool
}

// Launcher implements Bootstrap.
type Launcher struct {
	provisioner runtime.Provisioner
	opts        Options

	// Acknowledge is called before Run returns when Options.Pause is set.
	Acknowledge func(title string)
}

func NewLauncher(p runtime.Provisioner, opts Options) *Launcher {
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}

	return &Launcher{
		provisioner: p,
		opts:        opts,
		Acknowledge: prompt.Acknowledge,
	}
}

func (l *Launcher) Type() types.RuntimeType {
	return l.provisioner.Type()
}

// Run performs the launch sequence. The sandbox is torn down on every path
// once it exists, and the user is asked to acknowledge before returning.
func (l *Launcher) Run(ctx context.Context) (err error) {
	if l.opts.Pause && l.Acknowledge != nil {
		defer l.Acknowledge(acknowledgeTitle)
	}
	defer func() {
		if err != nil {
			logger.Errorln(failureStyle.Render(err.Error()))
		}
	}()

	// 1. Runtime presence and prechecks
	registry := validators.NewLauncherRegistry(ctx, validators.LauncherOptions{
		Runtime:      l.provisioner,
		Requirements: l.path(l.opts.Requirements),
		Script:       l.path(l.opts.Script),
		IndexURL:     l.opts.IndexURL,
	})
	if err := Validate(ctx, registry.Rules(), l.opts.Skip); err != nil {
		return err
	}

	// 2. Create and activate the sandbox
	logger.Infof("Creating %s environment...\n", l.provisioner.Type())
	env, err := l.provisioner.Create(ctx)
	if err != nil {
		return newLaunchError(ctx, KindEnvironmentCreate, err)
	}
	defer func() {
		if closeErr := env.Close(); closeErr != nil {
			logger.Warningf("failed to tear down environment %s: %v\n", env.Location(), closeErr)

			return
		}
		logger.Infoln("Environment deactivated")
	}()
	logger.Infof("Environment ready at %s\n", env.Location())

	// 3. Dependencies
	if err := l.install(ctx, env); err != nil {
		return newLaunchError(ctx, KindDependencyInstall, err)
	}

	// 4. Entry point
	logger.Infof("Running %s...\n", l.opts.Script)
	if err := env.Run(ctx, l.opts.Script, l.opts.ScriptArgs); err != nil {
		return newLaunchError(ctx, KindEntryScript, err)
	}
	logger.Infoln(successStyle.Render(fmt.Sprintf("%s finished successfully", l.opts.Script)))

	return nil
}

func (l *Launcher) install(ctx context.Context, env runtime.Environment) error {
	logger.Infoln("Upgrading package installer...")
	if err := env.UpgradeInstaller(ctx); err != nil {
		return fmt.Errorf("installer upgrade failed: %w", err)
	}

	m, err := manifest.Load(l.path(l.opts.Requirements))
	if err != nil {
		return err
	}
	if m.Empty() {
		logger.Infof("%s declares no dependencies\n", l.opts.Requirements)

		return nil
	}

	logger.Infof("Installing dependencies from %s...\n", l.opts.Requirements)

	return env.Install(ctx, l.opts.Requirements)
}

func (l *Launcher) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(l.opts.WorkDir, p)
}
