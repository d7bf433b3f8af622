package executor_test

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/project-ambr/ambr/internal/pkg/executor"
)

var _ = Describe("OSExecutor", func() {
	var e *executor.OSExecutor

	BeforeEach(func() {
		if runtime.GOOS == "windows" {
			Skip("requires a POSIX shell")
		}
		e = executor.New()
	})

	It("returns nil for a zero exit status", func() {
		var out bytes.Buffer
		err := e.Run(context.Background(), executor.Command{Name: "sh", Args: []string{"-c", "echo hello"}, Stdout: &out})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("hello\n"))
	})

	It("reports a non-zero exit status as an ExitError", func() {
		err := e.Run(context.Background(), executor.Command{Name: "sh", Args: []string{"-c", "exit 3"}})
		Expect(err).To(HaveOccurred())

		code, ok := executor.ExitCode(err)
		Expect(ok).To(BeTrue())
		Expect(code).To(Equal(3))
	})

	It("wraps a missing executable without an exit status", func() {
		err := e.Run(context.Background(), executor.Command{Name: "ambr-definitely-missing-tool"})
		Expect(err).To(HaveOccurred())
		Expect(errors.Is(err, exec.ErrNotFound)).To(BeTrue())

		_, ok := executor.ExitCode(err)
		Expect(ok).To(BeFalse())
	})

	It("captures combined output", func() {
		out, err := e.Output(context.Background(), executor.Command{Name: "sh", Args: []string{"-c", "echo out; echo err 1>&2"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(ContainSubstring("out"))
		Expect(string(out)).To(ContainSubstring("err"))
	})

	It("uses the provided environment", func() {
		out, err := e.Output(context.Background(), executor.Command{
			Name: "sh",
			Args: []string{"-c", "echo $AMBR_PROBE"},
			Env:  []string{"AMBR_PROBE=sandboxed"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(Equal("sandboxed\n"))
	})
})

var _ = Describe("Command", func() {
	It("renders the command line", func() {
		c := executor.Command{Name: "python", Args: []string{"-m", "pip", "install"}}
		Expect(c.String()).To(Equal("python -m pip install"))
	})
})
