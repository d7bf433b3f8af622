package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/project-ambr/ambr/internal/pkg/config"
	"github.com/project-ambr/ambr/internal/pkg/vars"
)

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		for _, key := range []vars.EnvVar{vars.EnvConfigFile, vars.EnvProvisioner, vars.EnvPython, vars.EnvReportWorkers, vars.EnvDiscordURL} {
			GinkgoT().Setenv(key.String(), "")
		}
	})

	writeConfig := func(content string) string {
		path := filepath.Join(dir, "ambr.yaml")
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

		return path
	}

	It("returns defaults when the default file is absent", func() {
		wd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(dir)).To(Succeed())
		DeferCleanup(os.Chdir, wd)

		cfg, err := config.Load("")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Provisioner).To(Equal("venv"))
		Expect(cfg.Launcher.Script).To(Equal("AMBR.py"))
		Expect(cfg.Launcher.Requirements).To(Equal("requirements.txt"))
		Expect(cfg.Launcher.Pause).To(BeTrue())
	})

	It("fails when an explicit file is missing", func() {
		_, err := config.Load(filepath.Join(dir, "nope.yaml"))
		Expect(err).To(MatchError(os.ErrNotExist))
	})

	It("overlays the file on the defaults", func() {
		cfg, err := config.Load(writeConfig(`
provisioner: podman
launcher:
  script: main.py
  pause: false
report:
  workers: 3
`))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Provisioner).To(Equal("podman"))
		Expect(cfg.Launcher.Script).To(Equal("main.py"))
		Expect(cfg.Launcher.Requirements).To(Equal("requirements.txt"))
		Expect(cfg.Launcher.Pause).To(BeFalse())
		Expect(cfg.Report.Workers).To(Equal(3))
	})

	It("rejects unknown keys", func() {
		_, err := config.Load(writeConfig("launcher:\n  scirpt: typo.py\n"))
		Expect(err).To(MatchError(ContainSubstring("invalid config file")))
	})

	It("lets environment variables win over the file", func() {
		path := writeConfig("launcher:\n  python: python3.11\n")
		GinkgoT().Setenv(vars.EnvPython.String(), "/opt/python/bin/python3")
		GinkgoT().Setenv(vars.EnvReportWorkers.String(), "2")

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Launcher.Python).To(Equal("/opt/python/bin/python3"))
		Expect(cfg.Report.Workers).To(Equal(2))
	})

	It("validates the worker count", func() {
		_, err := config.Load(writeConfig("report:\n  workers: 0\n"))
		Expect(err).To(MatchError(ContainSubstring("at least 1")))
	})

	It("resolves report paths against the base directory", func() {
		cfg := config.Default()
		cfg.Report.BaseDir = "/home/container"

		upload, output, oldMaster, newMaster, outFile := cfg.ReportPaths()
		Expect(upload).To(Equal("/home/container/Upload"))
		Expect(output).To(Equal("/home/container/Output"))
		Expect(oldMaster).To(Equal("/home/container/OLD_DATA/OLD_Label_and_NonLabel_Vendors_Updated.xlsx"))
		Expect(newMaster).To(Equal("/home/container/Upload/3rd-Party-Orders-Mastersheet.xlsx"))
		Expect(outFile).To(Equal("/home/container/Output/Optimized_Unshipped_Report.xlsx"))
	})
})
