package validators_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/project-ambr/ambr/internal/pkg/constants"
	"github.com/project-ambr/ambr/internal/pkg/runtime/types"
	"github.com/project-ambr/ambr/internal/pkg/validators"
	"github.com/project-ambr/ambr/internal/pkg/validators/index"
	"github.com/project-ambr/ambr/internal/pkg/validators/interpreter"
	"github.com/project-ambr/ambr/internal/pkg/validators/manifest"
	"github.com/project-ambr/ambr/internal/pkg/validators/script"
)

type stubChecker struct {
	version string
	err     error
	rt      types.RuntimeType
}

func (s stubChecker) CheckRuntime(context.Context) (string, error) { return s.version, s.err }
func (s stubChecker) Type() types.RuntimeType                      { return s.rt }

var _ = Describe("Registry", func() {
	It("orders the interpreter rule first", func() {
		r := validators.NewLauncherRegistry(context.Background(), validators.LauncherOptions{
			Runtime:      stubChecker{rt: types.RuntimeTypeVenv},
			Requirements: "requirements.txt",
			Script:       "AMBR.py",
			IndexURL:     "https://pypi.org/simple/",
		})
		Expect(r.Names()).To(Equal([]string{interpreter.Name, "manifest", "script", "index"}))
	})

	It("omits the index rule without a URL", func() {
		r := validators.NewLauncherRegistry(context.Background(), validators.LauncherOptions{
			Runtime: stubChecker{rt: types.RuntimeTypeVenv},
		})
		Expect(r.Names()).NotTo(ContainElement("index"))
	})
})

var _ = Describe("Rules", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	Describe("interpreter", func() {
		It("passes through the runtime error", func() {
			rule := interpreter.NewInterpreterRule(context.Background(), stubChecker{err: types.ErrRuntimeMissing, rt: types.RuntimeTypeVenv})
			Expect(errors.Is(rule.Verify(), types.ErrRuntimeMissing)).To(BeTrue())
			Expect(rule.Level()).To(Equal(constants.ValidationLevelError))
			Expect(rule.Hint()).To(ContainSubstring("python.org"))
		})

		It("reports the detected version", func() {
			rule := interpreter.NewInterpreterRule(context.Background(), stubChecker{version: "3.12.1", rt: types.RuntimeTypeVenv})
			Expect(rule.Verify()).To(Succeed())
			Expect(rule.Message()).To(Equal("Python 3.12.1 is installed"))
		})
	})

	Describe("manifest", func() {
		It("fails for a missing manifest", func() {
			rule := manifest.NewManifestRule(filepath.Join(dir, "requirements.txt"))
			Expect(rule.Verify()).To(MatchError(os.ErrNotExist))
		})

		It("counts requirements", func() {
			path := filepath.Join(dir, "requirements.txt")
			Expect(os.WriteFile(path, []byte("pandas\nopenpyxl\n"), 0o644)).To(Succeed())

			rule := manifest.NewManifestRule(path)
			Expect(rule.Verify()).To(Succeed())
			Expect(rule.Message()).To(ContainSubstring("2 requirement(s)"))
		})
	})

	Describe("script", func() {
		It("fails for a directory", func() {
			Expect(script.NewScriptRule(dir).Verify()).To(MatchError(ContainSubstring("is a directory")))
		})

		It("passes for a file", func() {
			path := filepath.Join(dir, "AMBR.py")
			Expect(os.WriteFile(path, []byte("print('ok')\n"), 0o644)).To(Succeed())
			Expect(script.NewScriptRule(path).Verify()).To(Succeed())
		})
	})

	Describe("index", func() {
		It("accepts a reachable index", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodHead))
				w.WriteHeader(http.StatusOK)
			}))
			DeferCleanup(srv.Close)

			rule := index.NewIndexRule(context.Background(), srv.Client(), srv.URL)
			Expect(rule.Verify()).To(Succeed())
			Expect(rule.Level()).To(Equal(constants.ValidationLevelWarning))
		})

		It("flags server errors", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			DeferCleanup(srv.Close)

			Expect(index.NewIndexRule(context.Background(), srv.Client(), srv.URL).Verify()).To(MatchError(ContainSubstring("502")))
		})
	})
})
