// Package launch implements the default ambr command: prepare a sandbox,
// install dependencies and run the entry script.
package launch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/project-ambr/ambr/cmd/ambr/cmd/common"
	"github.com/project-ambr/ambr/internal/pkg/bootstrap"
	"github.com/project-ambr/ambr/internal/pkg/cli/flagvalidator"
	"github.com/project-ambr/ambr/internal/pkg/config"
	"github.com/project-ambr/ambr/internal/pkg/executor"
	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/runtime"
	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
	"github.com/project-ambr/ambr/internal/pkg/utils"
	"github.com/project-ambr/ambr/internal/pkg/vars"
)

const (
	flagProvisioner    = "provisioner"
	flagPython         = "python"
	flagEnvDir         = "env-dir"
	flagImage          = "image"
	flagWorkDir        = "work-dir"
	flagRequirements   = "requirements"
	flagScript         = "script"
	flagKeepEnv        = "keep-env"
	flagNoPause        = "no-pause"
	flagSkipValidation = "skip-validation"
)

func LaunchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch [-- script args...]",
		Short: "Runs the entry script in a fresh isolated environment",
		Long: `Launch checks that a Python runtime is installed, creates a fresh sandbox,
upgrades pip, installs the requirements and runs the entry script inside the
sandbox. The sandbox is removed on every exit path and the command exits with
the status of the step that failed.

Exit status:
  1    runtime missing, precheck failed or sandbox could not be created
  N    status of pip when installing dependencies failed
  N    status of the entry script
  130  interrupted`,
		Example: `  # Launch AMBR.py with the defaults
  ambr launch

  # Use a container sandbox instead of a venv
  ambr launch --provisioner podman --image docker.io/library/python:3.11-slim

  # Pass arguments to the script
  ambr launch -- --base-dir /data`,
		Args: cobra.ArbitraryArgs,
	}
	Bind(cmd)

	return cmd
}

// Bind registers the launch flags on cmd and makes it run a launch.
func Bind(cmd *cobra.Command) {
	AddFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		return run(cmd, args)
	}
}

// AddFlags registers the flags selecting and configuring the sandbox.
func AddFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.String(flagProvisioner, "", "sandbox provisioner: venv or podman (default venv)")
	fs.String(flagPython, "", "Python interpreter used to create the venv (venv only)")
	fs.String(flagEnvDir, "", "sandbox directory, relative to the work directory (venv only)")
	fs.String(flagImage, "", "Python container image (podman only)")
	fs.String(flagWorkDir, "", "directory holding the manifest and the entry script")
	fs.String(flagRequirements, "", "dependency manifest")
	fs.String(flagScript, "", "entry script")
	fs.Bool(flagKeepEnv, false, "keep the deactivated sandbox after the run")
	fs.Bool(flagNoPause, false, "exit without waiting for acknowledgment")
	fs.StringSlice(flagSkipValidation, nil,
		"prechecks to skip (comma-separated: manifest,script,index)")
}

// DashArgsOnly accepts positional args only after "--" so that unknown
// subcommands are still reported.
func DashArgsOnly(cmd *cobra.Command, args []string) error {
	n := cmd.ArgsLenAtDash()
	if n > 0 || (n < 0 && len(args) > 0) {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}

	return nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, p, err := Prepare(cmd)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Launcher.ScriptArgs = args
	}

	var b bootstrap.Bootstrap = bootstrap.NewLauncher(p, bootstrap.Options{
		WorkDir:      cfg.Launcher.WorkDir,
		Requirements: cfg.Launcher.Requirements,
		Script:       cfg.Launcher.Script,
		ScriptArgs:   cfg.Launcher.ScriptArgs,
		Skip:         utils.SetOf(cfg.Launcher.SkipValidation),
		IndexURL:     vars.PackageIndexURL,
		Pause:        cfg.Launcher.Pause,
	})

	logger.Infof("Launching %s with the %s provisioner\n", cfg.Launcher.Script, b.Type(), logger.VerbosityLevelDebug)

	return b.Run(cmd.Context())
}

// Prepare loads the configuration, applies the flags set on cmd and builds
// the selected provisioner.
func Prepare(cmd *cobra.Command) (*config.Config, runtime.Provisioner, error) {
	cfg, err := common.LoadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	applyFlags(cmd, cfg)

	factory, err := provisionerFactory(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := flagValidator(factory.GetRuntimeType()).Validate(cmd); err != nil {
		return nil, nil, err
	}

	p, err := factory.Create(executor.New(), provisionerOptions(cfg))
	if err != nil {
		return nil, nil, err
	}

	return cfg, p, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	common.Override(cmd, flagPython, &cfg.Launcher.Python)
	common.Override(cmd, flagEnvDir, &cfg.Launcher.EnvDir)
	common.Override(cmd, flagImage, &cfg.Launcher.Image)
	common.Override(cmd, flagWorkDir, &cfg.Launcher.WorkDir)
	common.Override(cmd, flagRequirements, &cfg.Launcher.Requirements)
	common.Override(cmd, flagScript, &cfg.Launcher.Script)

	fs := cmd.Flags()
	if fs.Changed(flagKeepEnv) {
		cfg.Launcher.KeepEnv, _ = fs.GetBool(flagKeepEnv)
	}
	if noPause, _ := fs.GetBool(flagNoPause); noPause {
		cfg.Launcher.Pause = false
	}
	if fs.Changed(flagSkipValidation) {
		skip, _ := fs.GetStringSlice(flagSkipValidation)
		cfg.Launcher.SkipValidation = append(cfg.Launcher.SkipValidation, skip...)
	}
}

// provisionerFactory picks the provisioner from --provisioner, then from the
// environment and config file.
func provisionerFactory(cmd *cobra.Command, cfg *config.Config) (*runtime.RuntimeFactory, error) {
	if cmd.Flags().Changed(flagProvisioner) {
		name, _ := cmd.Flags().GetString(flagProvisioner)
		rt := types.RuntimeType(strings.ToLower(name))
		if !rt.Valid() {
			return nil, fmt.Errorf("invalid provisioner %q: use %s or %s", name, types.RuntimeTypeVenv, types.RuntimeTypePodman)
		}

		return runtime.NewRuntimeFactory(rt), nil
	}

	return runtime.NewFactoryFromEnv(types.RuntimeType(strings.ToLower(cfg.Provisioner))), nil
}

func provisionerOptions(cfg *config.Config) types.Options {
	return types.Options{
		Python:  cfg.Launcher.Python,
		EnvDir:  cfg.Launcher.EnvDir,
		Image:   cfg.Launcher.Image,
		WorkDir: cfg.Launcher.WorkDir,
		KeepEnv: cfg.Launcher.KeepEnv,
	}
}

func flagValidator(rt types.RuntimeType) *flagvalidator.FlagValidator {
	return flagvalidator.NewFlagValidatorBuilder(rt).
		AddVenvFlag(flagPython, nil).
		AddVenvFlag(flagEnvDir, notBlank(flagEnvDir)).
		AddPodmanFlag(flagImage, notBlank(flagImage)).
		AddCommonFlag(flagRequirements, notBlank(flagRequirements)).
		AddCommonFlag(flagScript, notBlank(flagScript)).
		Build()
}

func notBlank(name string) flagvalidator.ValidateFunc {
	return func(cmd *cobra.Command) error {
		v, err := cmd.Flags().GetString(name)
		if err != nil {
			return err
		}
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("must not be empty")
		}

		return nil
	}
}

// InWorkDir resolves p against the configured work directory.
func InWorkDir(cfg *config.Config, p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(cfg.Launcher.WorkDir, p)
}
