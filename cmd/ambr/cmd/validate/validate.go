package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/project-ambr/ambr/cmd/ambr/cmd/launch"
	"github.com/project-ambr/ambr/internal/pkg/bootstrap"
	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/utils"
	"github.com/project-ambr/ambr/internal/pkg/validators"
	"github.com/project-ambr/ambr/internal/pkg/vars"
)

// ValidateCmd runs the launch prechecks without creating a sandbox.
func ValidateCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Runs the launch prechecks",
		Long: `Validate runs the same checks as a launch, without creating a sandbox:

  interpreter  - the Python runtime (or podman) is installed; cannot be skipped
  manifest     - the dependency manifest exists and can be read
  script       - the entry script exists
  index        - the package index is reachable (warning only)`,
		Example: `  # Run all checks
  ambr validate

  # Skip the package index check when offline
  ambr validate --skip-validation index

  # List the checks
  ambr validate --list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, p, err := launch.Prepare(cmd)
			if err != nil {
				return err
			}

			registry := validators.NewLauncherRegistry(cmd.Context(), validators.LauncherOptions{
				Runtime:      p,
				Requirements: launch.InWorkDir(cfg, cfg.Launcher.Requirements),
				Script:       launch.InWorkDir(cfg, cfg.Launcher.Script),
				IndexURL:     vars.PackageIndexURL,
			})

			if list {
				printRules(registry)

				return nil
			}

			logger.Infof("Running %s prechecks...\n", p.Type())
			if err := bootstrap.Validate(cmd.Context(), registry.Rules(), utils.SetOf(cfg.Launcher.SkipValidation)); err != nil {
				// keeps the launch exit status; Execute does not log launch errors
				logger.Errorln(fmt.Sprintf("validation failed: %v", err))

				return err
			}

			return nil
		},
	}

	launch.AddFlags(cmd)
	cmd.Flags().BoolVar(&list, "list", false, "list the checks instead of running them")

	return cmd
}

func printRules(registry *validators.ValidationRegistry) {
	p := utils.NewPrinter("CHECK", "LEVEL", "DESCRIPTION")
	for _, rule := range registry.Rules() {
		p.AppendRow(utils.CapitalizeAndFormat(rule.Name()), rule.Level().String(), rule.Description())
	}
	p.Flush()
}
