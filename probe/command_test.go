// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("external command prober", func() {

	DescribeTable("builds platform-specific command lines",
		func(goos string, timeout time.Duration, expected []string) {
			Expect(PlatformArgs(goos, timeout, "192.0.2.1")).To(Equal(expected))
		},
		Entry("linux", "linux", time.Second, []string{"-c", "1", "-W", "1", "192.0.2.1"}),
		Entry("linux, rounding up", "linux", 1500*time.Millisecond, []string{"-c", "1", "-W", "2", "192.0.2.1"}),
		Entry("linux, at least one second", "linux", time.Millisecond, []string{"-c", "1", "-W", "1", "192.0.2.1"}),
		Entry("darwin", "darwin", 2*time.Second, []string{"-c", "1", "-t", "2", "192.0.2.1"}),
		Entry("freebsd", "freebsd", time.Second, []string{"-c", "1", "-t", "1", "192.0.2.1"}),
		Entry("windows", "windows", time.Second, []string{"-n", "1", "-w", "1000", "192.0.2.1"}),
		Entry("windows, expired", "windows", -time.Second, []string{"-n", "1", "-w", "1", "192.0.2.1"}),
	)

	It("defaults to the ping tool of this platform", func() {
		c := NewCommand()
		Expect(c.name).To(Equal(DefaultCommand))
		Expect(c.goos).NotTo(BeEmpty())
		Expect(NewCommand(ForPlatform("windows")).goos).To(Equal("windows"))
	})

	When("running fake diagnostic tools", func() {

		BeforeEach(func() {
			if _, err := exec.LookPath("sh"); err != nil {
				Skip("needs a POSIX shell")
			}
		})

		script := func(body string) string {
			GinkgoHelper()
			dir, err := os.MkdirTemp("", "fakeping-")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(func() { os.RemoveAll(dir) })
			name := filepath.Join(dir, "fakeping")
			Expect(os.WriteFile(name, []byte("#!/bin/sh\n"+body+"\n"), 0o755)).To(Succeed())
			return name
		}

		It("reports success", NodeTimeout(10*time.Second), func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			c := NewCommand(WithCommandName(script("exit 0")))
			Expect(c.Probe(ctx, "192.0.2.1")).To(Succeed())
		})

		It("reports failure", NodeTimeout(10*time.Second), func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			c := NewCommand(WithCommandName(script("exit 1")))
			Expect(c.Probe(ctx, "192.0.2.1")).To(MatchError(ContainSubstring("exit status 1")))
		})

		It("passes the platform arguments", NodeTimeout(10*time.Second), func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			c := NewCommand(
				WithCommandName(script(`[ "$1" = "-n" ] && [ "$5" = "192.0.2.1" ]`)),
				ForPlatform("windows"))
			Expect(c.Probe(ctx, "192.0.2.1")).To(Succeed())
		})

		It("kills a hanging tool when the deadline passes", NodeTimeout(10*time.Second), func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
			defer cancel()
			c := NewCommand(WithCommandName(script("exec sleep 10")))
			start := time.Now()
			Expect(c.Probe(ctx, "192.0.2.1")).To(MatchError(context.DeadlineExceeded))
			Expect(time.Since(start)).To(BeNumerically("<", 5*time.Second))
		})

	})

	It("fails closed when the tool is missing", NodeTimeout(10*time.Second), func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		c := NewCommand(WithCommandName("/nonexisting/ping-tool-of-doom"))
		Expect(c.Probe(ctx, "192.0.2.1")).To(HaveOccurred())
		Expect(c.Probe(ctx, "")).To(HaveOccurred())
	})

})
