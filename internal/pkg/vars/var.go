package vars

import "runtime"

var (
	// PythonCandidates are probed in order when no interpreter is configured.
	PythonCandidates = defaultPythonCandidates()
	// PackageIndexURL is probed by the index precheck.
	PackageIndexURL = "https://pypi.org/simple/"
	// DiscordEmbedColor is the sidebar color of the report summary embed.
	DiscordEmbedColor = 0x00FF00
)

func defaultPythonCandidates() []string {
	if runtime.GOOS == "windows" {
		return []string{"python", "py"}
	}

	return []string{"python3", "python"}
}

type EnvVar string

// Environment variables overriding configuration values.
const (
	EnvConfigFile    EnvVar = "AMBR_CONFIG"
	EnvProvisioner   EnvVar = "AMBR_PROVISIONER"
	EnvPython        EnvVar = "AMBR_PYTHON"
	EnvImage         EnvVar = "AMBR_IMAGE"
	EnvBaseDir       EnvVar = "AMBR_BASE_DIR"
	EnvDiscordURL    EnvVar = "AMBR_DISCORD_WEBHOOK_URL"
	EnvServerSecret  EnvVar = "AMBR_SERVER_JWT_SECRET"
	EnvReportWorkers EnvVar = "AMBR_REPORT_WORKERS"
)

func (e EnvVar) String() string {
	return string(e)
}
