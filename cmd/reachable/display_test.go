// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"errors"
	"time"

	"github.com/siemens/reachable/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

var _ = Describe("live display", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("spins", func() {
		s := newSpinner(10 * time.Millisecond)
		defer s.Stop()
		first := s.Spinner()
		Eventually(s.Spinner).Within(time.Second).ProbeEvery(5 * time.Millisecond).
			ShouldNot(Equal(first))
		s.Stop()
		Expect(s.Stop).NotTo(Panic())
	})

	It("renders verdicts in batch order", func() {
		results := []types.ProbeResult{
			types.NewProbeResult(0, "10.0.0.1").WithNewQuality(types.Reachable, nil),
			types.NewProbeResult(1, "10.0.0.22").WithNewQuality(types.Unreachable, errors.New("no reply")),
			types.NewProbeResult(2, "10.0.0.3").WithNewQuality(types.Probing, nil),
			types.NewProbeResult(3, "10.0.0.4"),
		}
		var buff bytes.Buffer
		r := newRenderer(&buff, time.Second)
		defer r.Stop()
		r.Render(results)
		lines := bytes.Split(bytes.TrimSuffix(buff.Bytes(), []byte("\n")), []byte("\n"))
		Expect(lines).To(HaveLen(5))
		Expect(string(lines[0])).To(MatchRegexp(`probing 4 addresses: .*1 reachable.*, .*1 unreachable.*, 2 pending`))
		Expect(string(lines[1])).To(ContainSubstring("✔ 10.0.0.1"))
		Expect(string(lines[2])).To(ContainSubstring("× 10.0.0.22"))
		Expect(string(lines[2])).To(ContainSubstring("no reply"))
		Expect(string(lines[3])).To(ContainSubstring("10.0.0.3"))
		Expect(string(lines[4])).To(ContainSubstring("? 10.0.0.4"))
	})

})
