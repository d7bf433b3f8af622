package report

import (
	"github.com/spf13/cobra"

	"github.com/project-ambr/ambr/cmd/ambr/cmd/common"
	"github.com/project-ambr/ambr/internal/pkg/config"
	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/report"
	"github.com/project-ambr/ambr/internal/pkg/utils"
)

const (
	flagBaseDir    = "base-dir"
	flagWorkers    = "workers"
	flagWebhookURL = "discord-webhook-url"
)

// ReportCmd builds the unshipped orders report natively.
func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Builds the unshipped orders report",
		Long: `Report reads the master sheets and the latest orders export below the base
directory and writes the unshipped orders workbook:

  <base>/Upload/3rd-Party-Orders-Mastersheet.xlsx          new master sheet
  <base>/OLD_DATA/OLD_Label_and_NonLabel_Vendors_Updated.xlsx  old master sheet
  <base>/Upload/*.txt                                       orders export (first by name)
  <base>/Output/Optimized_Unshipped_Report.xlsx            report

A summary is posted to Discord when a webhook URL is configured.`,
		Example: `  # Build the report from the current directory
  ambr report

  # Build from another directory with 4 workers
  ambr report --base-dir /home/container --workers 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := Config(cmd)
			if err != nil {
				return err
			}

			summary, err := report.Generate(cmd.Context(), report.OptionsFromConfig(cfg))
			if err != nil {
				return err
			}

			logger.Infoln("")
			utils.PrintFields(report.SummaryTitle, "", summary.Fields())

			return nil
		},
	}

	AddFlags(cmd)

	return cmd
}

// AddFlags registers the report location flags.
func AddFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagBaseDir, "", "directory holding Upload, OLD_DATA and Output (default current directory)")
	cmd.Flags().Int(flagWorkers, 0, "vendors processed in parallel (default number of CPUs)")
	cmd.Flags().String(flagWebhookURL, "", "Discord webhook receiving the summary")
}

// Config loads the configuration and applies the report flags.
func Config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := common.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	common.Override(cmd, flagBaseDir, &cfg.Report.BaseDir)
	common.Override(cmd, flagWebhookURL, &cfg.Report.DiscordWebhookURL)
	if cmd.Flags().Changed(flagWorkers) {
		cfg.Report.Workers, _ = cmd.Flags().GetInt(flagWorkers)
	}

	return cfg, cfg.Validate()
}
