package server

import (
	"context"

	"github.com/spf13/cobra"

	reportcmd "github.com/project-ambr/ambr/cmd/ambr/cmd/report"
	"github.com/project-ambr/ambr/internal/pkg/report"
	"github.com/project-ambr/ambr/internal/pkg/server"
)

// ServeCmd serves the report pipeline over HTTP.
func ServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the report over HTTP",
		Long: `Serve keeps ambr running and builds the report on request:

  GET  /healthz                  liveness
  POST /api/v1/reports           build the report, returns the summary
  GET  /api/v1/reports/latest    download the last workbook

Requests to /api/v1 need an HS256 bearer token when a JWT secret is set
(server.jwtSecret or AMBR_SERVER_JWT_SECRET).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := reportcmd.Config(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			srv := server.New(server.Options{
				Generate: func(ctx context.Context) (report.Summary, error) {
					return report.Generate(ctx, report.OptionsFromConfig(cfg))
				},
				JWTSecret: cfg.Server.JWTSecret,
			})

			return srv.Run(cmd.Context(), ":"+cfg.Server.Port)
		},
	}

	reportcmd.AddFlags(cmd)
	cmd.Flags().StringVarP(&port, "port", "p", "8000", "port to run the service on")

	return cmd
}
