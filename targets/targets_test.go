// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package targets

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("targets", func() {

	var dir string

	BeforeEach(func() {
		dir = Successful(os.MkdirTemp("", "targets-"))
		DeferCleanup(func() { os.RemoveAll(dir) })
	})

	write := func(name, content string) string {
		GinkgoHelper()
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	It("has a sample batch", func() {
		Expect(Sample).To(HaveLen(6))
	})

	It("takes addresses from arguments", func() {
		Expect(FromArgs([]string{" A", "", "B ", "  ", "A"})).To(Equal([]string{"A", "B", "A"}))
		Expect(FromArgs(nil)).To(And(Not(BeNil()), BeEmpty()))
	})

	It("reads address lists", func() {
		addrs := Successful(FromReader(strings.NewReader(`
# public resolvers
8.8.8.8
  1.1.1.1   # cloudflare

192.0.2.1
8.8.8.8
`)))
		Expect(addrs).To(Equal([]string{"8.8.8.8", "1.1.1.1", "192.0.2.1", "8.8.8.8"}))
	})

	It("loads plain target files", func() {
		f := Successful(Load(write("hosts.txt", "A\nB\n"), nil))
		Expect(f.Targets).To(Equal([]string{"A", "B"}))
		Expect(f.Method).To(BeEmpty())
	})

	It("loads from stdin", func() {
		f := Successful(Load("-", strings.NewReader("A\n#B\nC")))
		Expect(f.Targets).To(Equal([]string{"A", "C"}))
	})

	It("loads YAML target files with defaults", func() {
		f := Successful(Load(write("targets.yaml", `
targets:
  - 8.8.8.8
  - " one.one.one.one "
method: tcp
port: 53
workers: 10
timeout: 500ms
`), nil))
		Expect(f.Targets).To(Equal([]string{"8.8.8.8", "one.one.one.one"}))
		Expect(f.Method).To(Equal("tcp"))
		Expect(f.Port).To(Equal(uint16(53)))
		Expect(f.Workers).To(Equal(10))
		Expect(f.Timeout).To(Equal(500 * time.Millisecond))
	})

	It("reports broken target files", func() {
		Expect(Load(filepath.Join(dir, "missing.txt"), nil)).Error().To(HaveOccurred())
		Expect(Load(write("broken.yml", "targets: [\n"), nil)).Error().To(
			MatchError(ContainSubstring("cannot parse target file")))
		Expect(Load(write("neg.yaml", "workers: -1\n"), nil)).Error().To(
			MatchError(ContainSubstring("workers must not be negative")))
		Expect(Load(write("negt.yaml", "timeout: -1s\n"), nil)).Error().To(
			MatchError(ContainSubstring("timeout must not be negative")))
	})

})
