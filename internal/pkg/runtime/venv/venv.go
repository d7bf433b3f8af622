// Package venv provisions sandboxes with the Python venv module and pip.
package venv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/project-ambr/ambr/internal/pkg/constants"
	"github.com/project-ambr/ambr/internal/pkg/executor"
	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
	"github.com/project-ambr/ambr/internal/pkg/vars"
)

var (
	// ErrClosed is returned by operations on a deactivated environment.
	ErrClosed = errors.New("environment is deactivated")
	// ErrUnsafeEnvDir is returned when the environment directory cannot be
	// replaced without losing files that do not belong to a venv.
	ErrUnsafeEnvDir = errors.New("unsafe environment directory")
)

// marker is written by the venv module into every environment root.
const marker = "pyvenv.cfg"

type Provisioner struct {
	exec   executor.Executor
	opts   types.Options
	python string
}

func NewProvisioner(exec executor.Executor, opts types.Options) *Provisioner {
	if opts.EnvDir == "" {
		opts.EnvDir = constants.DefaultEnvDir
	}

	return &Provisioner{exec: exec, opts: opts}
}

func (p *Provisioner) Type() types.RuntimeType {
	return types.RuntimeTypeVenv
}

// Interpreter returns the interpreter resolved by CheckRuntime.
func (p *Provisioner) Interpreter() string {
	return p.python
}

// CheckRuntime probes the configured interpreter, or each default candidate
// in turn, with --version.
func (p *Provisioner) CheckRuntime(ctx context.Context) (string, error) {
	candidates := vars.PythonCandidates
	if p.opts.Python != "" {
		candidates = []string{p.opts.Python}
	}

	for _, candidate := range candidates {
		path, err := p.exec.LookPath(candidate)
		if err != nil {
			logger.Infof("%s not found on PATH\n", candidate, logger.VerbosityLevelDebug)

			continue
		}

		out, err := p.exec.Output(ctx, executor.Command{Name: path, Args: []string{"--version"}})
		if err != nil {
			// the Windows store alias resolves on PATH but fails to run
			logger.Infof("%s --version failed: %v\n", path, err, logger.VerbosityLevelDebug)

			continue
		}

		p.python = path

		return parseVersion(out), nil
	}

	return "", fmt.Errorf("%w: tried %s", types.ErrRuntimeMissing, strings.Join(candidates, ", "))
}

// parseVersion extracts "3.12.1" from "Python 3.12.1".
func parseVersion(out []byte) string {
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return "unknown"
	}

	return fields[len(fields)-1]
}

// Create removes any sandbox left behind by an earlier run and builds a new one.
func (p *Provisioner) Create(ctx context.Context) (types.Environment, error) {
	if p.python == "" {
		if _, err := p.CheckRuntime(ctx); err != nil {
			return nil, err
		}
	}

	dir, err := p.envDir()
	if err != nil {
		return nil, err
	}
	if err := clearStale(dir); err != nil {
		return nil, err
	}

	err = p.exec.Run(ctx, executor.Command{
		Name: p.python,
		Args: []string{"-m", "venv", dir},
		Dir:  p.opts.WorkDir,
	})
	if err != nil {
		_ = os.RemoveAll(dir)

		return nil, fmt.Errorf("failed to create venv at %s: %w", dir, err)
	}

	return newEnvironment(p.exec, dir, p.opts.WorkDir, p.opts.KeepEnv), nil
}

// envDir resolves the environment directory and refuses one that is, or
// contains, the work directory.
func (p *Provisioner) envDir() (string, error) {
	workDir, err := filepath.Abs(p.opts.WorkDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve work directory: %w", err)
	}

	dir := p.opts.EnvDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workDir, dir)
	}
	// child commands run from WorkDir, so the interpreter path must not be relative
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve environment directory: %w", err)
	}

	if within(workDir, dir) {
		return "", fmt.Errorf("%w: %s contains the work directory %s", ErrUnsafeEnvDir, dir, workDir)
	}

	return dir, nil
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// clearStale removes a venv left behind by an earlier run. Anything at dir
// other than a venv or an empty directory is left alone and reported.
func clearStale(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect environment directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s exists and is not a directory", ErrUnsafeEnvDir, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to inspect environment directory %s: %w", dir, err)
	}
	if len(entries) > 0 {
		if _, err := os.Stat(filepath.Join(dir, marker)); err != nil {
			return fmt.Errorf("%w: %s is not empty and has no %s", ErrUnsafeEnvDir, dir, marker)
		}
	}

	logger.Infof("Removing stale environment %s\n", dir, logger.VerbosityLevelDebug)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove stale environment %s: %w", dir, err)
	}

	return nil
}

// Environment is an activated venv.
type Environment struct {
	exec    executor.Executor
	dir     string
	workDir string
	python  string
	keep    bool

	mu     sync.Mutex
	env    []string
	closed bool
}

func newEnvironment(exec executor.Executor, dir, workDir string, keep bool) *Environment {
	python := filepath.Join(BinDir(dir), "python")
	if runtime.GOOS == "windows" {
		python += ".exe"
	}

	return &Environment{
		exec:    exec,
		dir:     dir,
		workDir: workDir,
		python:  python,
		keep:    keep,
		env:     Activate(os.Environ(), dir),
	}
}

// BinDir returns the directory holding the venv's executables.
func BinDir(dir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(dir, "Scripts")
	}

	return filepath.Join(dir, "bin")
}

// Activate returns base with the variables the venv activate script would set:
// VIRTUAL_ENV points at dir, the bin directory leads PATH and PYTHONHOME is unset.
func Activate(base []string, dir string) []string {
	pathVal := ""
	env := make([]string, 0, len(base)+2)

	for _, kv := range base {
		key, val, _ := strings.Cut(kv, "=")
		switch {
		case strings.EqualFold(key, "PATH"):
			pathVal = val
		case strings.EqualFold(key, "PYTHONHOME"), strings.EqualFold(key, "VIRTUAL_ENV"):
		default:
			env = append(env, kv)
		}
	}

	newPath := BinDir(dir)
	if pathVal != "" {
		newPath += string(os.PathListSeparator) + pathVal
	}

	return append(env, "VIRTUAL_ENV="+dir, "PATH="+newPath)
}

func (e *Environment) Location() string {
	return e.dir
}

// Env returns the activated environment, or nil once deactivated.
func (e *Environment) Env() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}

	return append([]string(nil), e.env...)
}

func (e *Environment) UpgradeInstaller(ctx context.Context) error {
	return e.runPython(ctx, "-m", "pip", "install", "--upgrade", "pip")
}

func (e *Environment) Install(ctx context.Context, manifest string) error {
	return e.runPython(ctx, "-m", "pip", "install", "-r", manifest)
}

func (e *Environment) Run(ctx context.Context, script string, args []string) error {
	return e.runPython(ctx, append([]string{script}, args...)...)
}

func (e *Environment) runPython(ctx context.Context, args ...string) error {
	env := e.Env()
	if env == nil {
		return ErrClosed
	}

	return e.exec.Run(ctx, executor.Command{
		Name: e.python,
		Args: args,
		Dir:  e.workDir,
		Env:  env,
	})
}

// Close deactivates the venv and removes its directory unless it is kept.
func (e *Environment) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.env = nil

	if e.keep {
		logger.Infof("Environment deactivated, kept at %s\n", e.dir, logger.VerbosityLevelDebug)

		return nil
	}

	if err := os.RemoveAll(e.dir); err != nil {
		return fmt.Errorf("failed to remove environment %s: %w", e.dir, err)
	}
	logger.Infof("Environment %s removed\n", e.dir, logger.VerbosityLevelDebug)

	return nil
}
