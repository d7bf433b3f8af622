// Package config loads ambr settings. Values are layered: built-in defaults,
// then the YAML config file, then AMBR_* environment variables; command line
// flags are applied last by the cmd package.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/project-ambr/ambr/internal/pkg/constants"
	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/vars"
)

type Config struct {
	Provisioner string         `yaml:"provisioner,omitempty"`
	Launcher    LauncherConfig `yaml:"launcher"`
	Report      ReportConfig   `yaml:"report"`
	Server      ServerConfig   `yaml:"server"`
}

type LauncherConfig struct {
	WorkDir        string   `yaml:"workDir,omitempty"`
	Python         string   `yaml:"python,omitempty"`
	EnvDir         string   `yaml:"envDir,omitempty"`
	Requirements   string   `yaml:"requirements,omitempty"`
	Script         string   `yaml:"script,omitempty"`
	ScriptArgs     []string `yaml:"scriptArgs,omitempty"`
	Image          string   `yaml:"image,omitempty"`
	KeepEnv        bool     `yaml:"keepEnv,omitempty"`
	Pause          bool     `yaml:"pause"`
	SkipValidation []string `yaml:"skipValidation,omitempty"`
}

type ReportConfig struct {
	BaseDir           string `yaml:"baseDir,omitempty"`
	UploadDir         string `yaml:"uploadDir,omitempty"`
	OutputDir         string `yaml:"outputDir,omitempty"`
	OldDataDir        string `yaml:"oldDataDir,omitempty"`
	OldMasterSheet    string `yaml:"oldMasterSheet,omitempty"`
	NewMasterSheet    string `yaml:"newMasterSheet,omitempty"`
	OutputFile        string `yaml:"outputFile,omitempty"`
	DiscordWebhookURL string `yaml:"discordWebhookURL,omitempty"`
	Workers           int    `yaml:"workers,omitempty"`
}

type ServerConfig struct {
	Port      string `yaml:"port,omitempty"`
	JWTSecret string `yaml:"jwtSecret,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provisioner: "venv",
		Launcher: LauncherConfig{
			WorkDir:      ".",
			EnvDir:       constants.DefaultEnvDir,
			Requirements: constants.DefaultManifest,
			Script:       constants.DefaultEntryScript,
			Image:        constants.DefaultPythonImage,
			Pause:        true,
		},
		Report: ReportConfig{
			BaseDir:        ".",
			UploadDir:      "Upload",
			OutputDir:      "Output",
			OldDataDir:     "OLD_DATA",
			OldMasterSheet: "OLD_Label_and_NonLabel_Vendors_Updated.xlsx",
			NewMasterSheet: "3rd-Party-Orders-Mastersheet.xlsx",
			OutputFile:     "Optimized_Unshipped_Report.xlsx",
			Workers:        runtime.NumCPU(),
		},
		Server: ServerConfig{
			Port: "8000",
		},
	}
}

// Load builds the configuration. An empty path falls back to $AMBR_CONFIG and
// then to ambr.yaml in the working directory; only an explicitly named file
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(vars.EnvConfigFile.String())
		explicit = path != ""
	}
	if path == "" {
		path = constants.DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
		logger.Infof("Loaded configuration from %s\n", path, logger.VerbosityLevelDebug)
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func (c *Config) applyEnv() error {
	setString := func(key vars.EnvVar, dst *string) {
		if v, ok := os.LookupEnv(key.String()); ok && v != "" {
			*dst = v
		}
	}

	setString(vars.EnvProvisioner, &c.Provisioner)
	setString(vars.EnvPython, &c.Launcher.Python)
	setString(vars.EnvImage, &c.Launcher.Image)
	setString(vars.EnvBaseDir, &c.Report.BaseDir)
	setString(vars.EnvDiscordURL, &c.Report.DiscordWebhookURL)
	setString(vars.EnvServerSecret, &c.Server.JWTSecret)

	if v := os.Getenv(vars.EnvReportWorkers.String()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", vars.EnvReportWorkers, v, err)
		}
		c.Report.Workers = n
	}

	return nil
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if c.Report.Workers < 1 {
		return fmt.Errorf("report workers must be at least 1, got %d", c.Report.Workers)
	}
	if c.Launcher.Script == "" {
		return fmt.Errorf("launcher script must not be empty")
	}
	if c.Launcher.Requirements == "" {
		return fmt.Errorf("launcher requirements must not be empty")
	}

	return nil
}

// ReportPaths returns the resolved input and output locations of the report.
func (c *Config) ReportPaths() (upload, output, oldMaster, newMaster, outFile string) {
	join := func(dir string) string {
		if filepath.IsAbs(dir) {
			return dir
		}

		return filepath.Join(c.Report.BaseDir, dir)
	}

	upload = join(c.Report.UploadDir)
	output = join(c.Report.OutputDir)
	oldMaster = filepath.Join(join(c.Report.OldDataDir), c.Report.OldMasterSheet)
	newMaster = filepath.Join(upload, c.Report.NewMasterSheet)
	outFile = filepath.Join(output, c.Report.OutputFile)

	return upload, output, oldMaster, newMaster, outFile
}
