package podman

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/project-ambr/ambr/internal/pkg/constants"
	"github.com/project-ambr/ambr/internal/pkg/executor"
	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
)

const (
	cmdName         = "podman"
	teardownTimeout = 30 * time.Second
)

// ErrClosed is returned by operations on a removed sandbox container.
var ErrClosed = errors.New("container sandbox is deactivated")

// Provisioner runs each sandbox as a disposable podman container with the
// working directory bind-mounted at /workspace.
type Provisioner struct {
	exec executor.Executor
	opts types.Options
	// NameFunc generates container names; defaults to a uuid-based name.
	NameFunc func() string
}

func NewProvisioner(exec executor.Executor, opts types.Options) *Provisioner {
	if opts.Image == "" {
		opts.Image = constants.DefaultPythonImage
	}

	return &Provisioner{
		exec: exec,
		opts: opts,
		NameFunc: func() string {
			return constants.ContainerNamePrefix + strings.Split(uuid.NewString(), "-")[0]
		},
	}
}

func (p *Provisioner) Type() types.RuntimeType {
	return types.RuntimeTypePodman
}

func (p *Provisioner) CheckRuntime(ctx context.Context) (string, error) {
	if _, err := p.exec.LookPath(cmdName); err != nil {
		return "", fmt.Errorf("%w: %s is not installed", types.ErrRuntimeMissing, cmdName)
	}

	out, err := p.exec.Output(ctx, executor.Command{
		Name: cmdName,
		Args: []string{"version", "--format", "{{.Client.Version}}"},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s version failed: %v", types.ErrRuntimeMissing, cmdName, err)
	}

	return strings.TrimSpace(string(out)), nil
}

func (p *Provisioner) Create(ctx context.Context) (types.Environment, error) {
	workDir, err := filepath.Abs(p.opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve work directory: %w", err)
	}

	name := p.NameFunc()
	args := []string{
		"run", "-d",
		"--name", name,
		"-v", fmt.Sprintf("%s:%s:Z", workDir, constants.ContainerWorkspace),
		"-w", constants.ContainerWorkspace,
		p.opts.Image,
		"sleep", "infinity",
	}

	if _, err := p.exec.Output(ctx, executor.Command{Name: cmdName, Args: args}); err != nil {
		// podman leaves a created container behind when the start fails
		p.remove(name)

		return nil, fmt.Errorf("failed to start sandbox container %s: %w", name, err)
	}
	logger.Infof("Started sandbox container %s from %s\n", name, p.opts.Image, logger.VerbosityLevelDebug)

	return &Container{exec: p.exec, name: name, workDir: workDir, keep: p.opts.KeepEnv}, nil
}

func (p *Provisioner) remove(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()

	if _, err := p.exec.Output(ctx, executor.Command{Name: cmdName, Args: []string{"rm", "-f", name}}); err != nil {
		logger.Warningf("failed to remove sandbox container %s: %v\n", name, err)
	}
}

// Container is a running sandbox container.
type Container struct {
	exec    executor.Executor
	name    string
	workDir string
	keep    bool

	mu     sync.Mutex
	closed bool
}

func (c *Container) Location() string {
	return c.name
}

func (c *Container) UpgradeInstaller(ctx context.Context) error {
	return c.execPython(ctx, false, "-m", "pip", "install", "--upgrade", "pip")
}

func (c *Container) Install(ctx context.Context, manifest string) error {
	p, err := c.containerPath(manifest)
	if err != nil {
		return err
	}

	return c.execPython(ctx, false, "-m", "pip", "install", "-r", p)
}

func (c *Container) Run(ctx context.Context, script string, args []string) error {
	p, err := c.containerPath(script)
	if err != nil {
		return err
	}

	return c.execPython(ctx, true, append([]string{p}, args...)...)
}

func (c *Container) execPython(ctx context.Context, interactive bool, args ...string) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	cmdArgs := []string{"exec"}
	if interactive {
		cmdArgs = append(cmdArgs, "-i")
	}
	cmdArgs = append(cmdArgs, c.name, "python")
	cmdArgs = append(cmdArgs, args...)

	return c.exec.Run(ctx, executor.Command{Name: cmdName, Args: cmdArgs})
}

// containerPath maps a host path inside the work directory to its location
// under the bind mount.
func (c *Container) containerPath(p string) (string, error) {
	rel := p
	if filepath.IsAbs(p) {
		var err error
		rel, err = filepath.Rel(c.workDir, p)
		if err != nil {
			return "", fmt.Errorf("failed to map %s into the sandbox: %w", p, err)
		}
	}

	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside the work directory %s", p, c.workDir)
	}

	return path.Join(constants.ContainerWorkspace, rel), nil
}

// Close removes the container, or stops it when the sandbox is kept.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	// teardown must still run after the launch context is cancelled
	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()

	args := []string{"rm", "-f", c.name}
	if c.keep {
		args = []string{"stop", c.name}
	}

	if _, err := c.exec.Output(ctx, executor.Command{Name: cmdName, Args: args}); err != nil {
		return fmt.Errorf("failed to tear down sandbox container %s: %w", c.name, err)
	}

	return nil
}
