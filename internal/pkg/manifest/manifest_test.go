package manifest_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/project-ambr/ambr/internal/pkg/manifest"
)

func write(content string) string {
	path := filepath.Join(GinkgoT().TempDir(), "requirements.txt")
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

	return path
}

var _ = Describe("Load", func() {
	It("treats a file of comments and blanks as empty", func() {
		m, err := manifest.Load(write("# nothing yet\n\n   \n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Empty()).To(BeTrue())
	})

	It("collects requirements and options", func() {
		m, err := manifest.Load(write(`pandas>=2.0  # dataframes
--index-url https://example.invalid/simple
discord-webhook==1.3.1
xlsx\
writer
`))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Empty()).To(BeFalse())
		Expect(m.Requirements).To(Equal([]string{"pandas>=2.0", "discord-webhook==1.3.1", "xlsxwriter"}))
		Expect(m.Options).To(Equal([]string{"--index-url https://example.invalid/simple"}))
	})

	It("fails for a missing file", func() {
		_, err := manifest.Load(filepath.Join(GinkgoT().TempDir(), "missing.txt"))
		Expect(err).To(MatchError(os.ErrNotExist))
	})
})
