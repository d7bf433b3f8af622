package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/project-ambr/ambr/cmd/ambr/cmd/common"
	"github.com/project-ambr/ambr/cmd/ambr/cmd/launch"
	"github.com/project-ambr/ambr/cmd/ambr/cmd/report"
	"github.com/project-ambr/ambr/cmd/ambr/cmd/server"
	"github.com/project-ambr/ambr/cmd/ambr/cmd/validate"
	"github.com/project-ambr/ambr/cmd/ambr/cmd/version"
	"github.com/project-ambr/ambr/internal/pkg/bootstrap"
	"github.com/project-ambr/ambr/internal/pkg/logger"
)

// RootCmd launches the entry script when called without a subcommand.
var RootCmd = &cobra.Command{
	Use:   "ambr [-- script args...]",
	Short: "AMBR launcher and unshipped orders report",
	Long: `ambr prepares an isolated Python environment, installs the dependencies
declared in requirements.txt, runs AMBR.py inside it and tears the
environment down again.

Run without a subcommand to launch with the defaults. The report can also be
built natively with "ambr report" or served over HTTP with "ambr serve".`,
	Version:       version.GetVersion(),
	Args:          launch.DashArgsOnly,
	SilenceErrors: true,
}

// Execute runs the CLI and exits with the status of the launch.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		var launchErr *bootstrap.LaunchError
		// the launcher reports its own failures
		if !errors.As(err, &launchErr) {
			logger.Errorln(err.Error())
		}
	}
	logger.Flush()
	os.Exit(bootstrap.ExitCode(err))
}

func init() {
	logger.Init(RootCmd.PersistentFlags())
	RootCmd.PersistentFlags().String(common.ConfigFlag, "", "path to the config file (default ./ambr.yaml when present)")

	launch.Bind(RootCmd)

	RootCmd.AddCommand(launch.LaunchCmd())
	RootCmd.AddCommand(validate.ValidateCmd())
	RootCmd.AddCommand(report.ReportCmd())
	RootCmd.AddCommand(server.ServeCmd())
	RootCmd.AddCommand(version.VersionCmd)
}
