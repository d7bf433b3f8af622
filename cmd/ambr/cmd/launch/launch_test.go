package launch_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/project-ambr/ambr/cmd/ambr/cmd/common"
	"github.com/project-ambr/ambr/cmd/ambr/cmd/launch"
	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
)

func newCommand(configPath string, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "launch"}
	cmd.Flags().String(common.ConfigFlag, "", "")
	launch.AddFlags(cmd)
	Expect(cmd.Flags().Parse(append([]string{"--" + common.ConfigFlag, configPath}, args...))).To(Succeed())

	return cmd
}

var _ = Describe("Prepare", func() {
	var configPath string

	BeforeEach(func() {
		GinkgoT().Setenv("AMBR_PROVISIONER", "")
		configPath = filepath.Join(GinkgoT().TempDir(), "ambr.yaml")
		Expect(os.WriteFile(configPath, []byte("launcher:\n  pause: false\n  requirements: deps.txt\n"), 0o644)).To(Succeed())
	})

	It("layers flags over the config file", func() {
		cfg, p, err := launch.Prepare(newCommand(configPath, "--script", "main.py", "--skip-validation", "index", "--keep-env"))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Type()).To(Equal(types.RuntimeTypeVenv))
		Expect(cfg.Launcher.Requirements).To(Equal("deps.txt"))
		Expect(cfg.Launcher.Script).To(Equal("main.py"))
		Expect(cfg.Launcher.SkipValidation).To(ConsistOf("index"))
		Expect(cfg.Launcher.KeepEnv).To(BeTrue())
		Expect(cfg.Launcher.Pause).To(BeFalse())
	})

	It("selects podman from the flag", func() {
		_, p, err := launch.Prepare(newCommand(configPath, "--provisioner", "Podman", "--image", "python:3.11"))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Type()).To(Equal(types.RuntimeTypePodman))
	})

	It("rejects venv flags for podman", func() {
		_, _, err := launch.Prepare(newCommand(configPath, "--provisioner", "podman", "--python", "python3.12"))
		Expect(err).To(MatchError(ContainSubstring("'--python' is only supported by the venv provisioner")))
	})

	It("rejects an unknown provisioner", func() {
		_, _, err := launch.Prepare(newCommand(configPath, "--provisioner", "conda"))
		Expect(err).To(MatchError(ContainSubstring(`invalid provisioner "conda"`)))
	})

	It("rejects an empty script name", func() {
		_, _, err := launch.Prepare(newCommand(configPath, "--script", " "))
		Expect(err).To(MatchError(ContainSubstring("flag --script: must not be empty")))
	})

	It("fails for a missing config file", func() {
		_, _, err := launch.Prepare(newCommand(filepath.Join(GinkgoT().TempDir(), "none.yaml")))
		Expect(err).To(MatchError(ContainSubstring("failed to load configuration")))
	})
})

var _ = Describe("DashArgsOnly", func() {
	run := func(args ...string) error {
		var gotErr error
		cmd := &cobra.Command{
			Use:  "ambr",
			Args: launch.DashArgsOnly,
			RunE: func(*cobra.Command, []string) error { return nil },
		}
		cmd.SetArgs(args)
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		gotErr = cmd.Execute()

		return gotErr
	}

	It("accepts no args", func() {
		Expect(run()).To(Succeed())
	})

	It("accepts args after the dash", func() {
		Expect(run("--", "--dry-run", "x")).To(Succeed())
	})

	It("rejects args before the dash", func() {
		Expect(run("lunch")).To(MatchError(ContainSubstring(`unknown command "lunch"`)))
	})
})
