package podman_test

import (
	"context"
	"errors"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/project-ambr/ambr/internal/pkg/executor/fake"
	"github.com/project-ambr/ambr/internal/pkg/runtime/podman"
	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
)

var _ = Describe("Provisioner", func() {
	var (
		ctx     context.Context
		exec    *fake.Executor
		workDir string
		p       *podman.Provisioner
	)

	BeforeEach(func() {
		ctx = context.Background()
		exec = fake.New()
		workDir = GinkgoT().TempDir()
		p = podman.NewProvisioner(exec, types.Options{WorkDir: workDir, Image: "python:3.12"})
		p.NameFunc = func() string { return "ambr-test" }
	})

	It("reports podman as missing when it is not on PATH", func() {
		_, err := p.CheckRuntime(ctx)
		Expect(errors.Is(err, types.ErrRuntimeMissing)).To(BeTrue())
	})

	It("returns the client version", func() {
		exec.Paths["podman"] = "/usr/bin/podman"
		exec.On("podman version", fake.Response{Output: []byte("5.6.2\n")})

		version, err := p.CheckRuntime(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal("5.6.2"))
	})

	It("runs the whole lifecycle through podman", func() {
		env, err := p.Create(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Location()).To(Equal("ambr-test"))

		Expect(env.UpgradeInstaller(ctx)).To(Succeed())
		Expect(env.Install(ctx, "requirements.txt")).To(Succeed())
		Expect(env.Run(ctx, filepath.Join(workDir, "AMBR.py"), []string{"-x"})).To(Succeed())
		Expect(env.Close()).To(Succeed())
		Expect(env.Close()).To(Succeed())

		Expect(exec.Lines()).To(Equal([]string{
			"podman run -d --name ambr-test -v " + workDir + ":/workspace:Z -w /workspace python:3.12 sleep infinity",
			"podman exec ambr-test python -m pip install --upgrade pip",
			"podman exec ambr-test python -m pip install -r /workspace/requirements.txt",
			"podman exec -i ambr-test python /workspace/AMBR.py -x",
			"podman rm -f ambr-test",
		}))
	})

	It("stops instead of removing a kept sandbox", func() {
		p = podman.NewProvisioner(exec, types.Options{WorkDir: workDir, KeepEnv: true})
		p.NameFunc = func() string { return "ambr-keep" }

		env, err := p.Create(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(env.Close()).To(Succeed())
		Expect(exec.Lines()).To(ContainElement("podman stop ambr-keep"))
		Expect(env.Run(ctx, "AMBR.py", nil)).To(MatchError(podman.ErrClosed))
	})

	It("rejects paths outside the work directory", func() {
		env, err := p.Create(ctx)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(env.Close)

		Expect(env.Install(ctx, "../elsewhere/requirements.txt")).To(MatchError(ContainSubstring("outside the work directory")))
	})

	It("wraps a failing container start", func() {
		exec.On("podman run", fake.Response{ExitCode: 125})
		_, err := p.Create(ctx)
		Expect(err).To(MatchError(ContainSubstring("failed to start sandbox container ambr-test")))
		Expect(exec.Lines()).To(Equal([]string{
			"podman run -d --name ambr-test -v " + workDir + ":/workspace:Z -w /workspace python:3.12 sleep infinity",
			"podman rm -f ambr-test",
		}))
	})

	It("reports the start failure even when removing the container fails", func() {
		exec.On("podman run", fake.Response{ExitCode: 127})
		exec.On("podman rm", fake.Response{ExitCode: 1})
		_, err := p.Create(ctx)
		Expect(err).To(MatchError(ContainSubstring("failed to start sandbox container ambr-test")))
		Expect(exec.Lines()).To(ContainElement("podman rm -f ambr-test"))
	})
})
