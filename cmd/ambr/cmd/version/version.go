package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/project-ambr/ambr/internal/pkg/logger"
	"github.com/project-ambr/ambr/internal/pkg/utils"
)

// Set at build time with -ldflags "-X ...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var short bool

func GetVersion() string {
	return Version
}

// Info returns the build metadata as key/value rows.
func Info() [][2]string {
	return [][2]string{
		{"ambr", Version},
		{"Git commit", GitCommit},
		{"Built", BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
}

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ambr launcher version and build details",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if short {
			logger.Infoln(Version)

			return
		}
		utils.PrintFields("Component", "Version", Info())
	},
}

func init() {
	VersionCmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
}
