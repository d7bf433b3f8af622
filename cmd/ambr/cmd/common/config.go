// Package common holds helpers shared by the ambr subcommands.
package common

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/project-ambr/ambr/internal/pkg/config"
)

// ConfigFlag is the persistent flag naming the config file.
const ConfigFlag = "config"

// LoadConfig loads the configuration named by --config, or the default one.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(ConfigFlag)
	if err != nil {
		path = ""
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// Override assigns the value of a string flag to dst when the user set it.
func Override(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}
