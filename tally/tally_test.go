// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package tally

import (
	"context"
	"errors"
	"time"

	"github.com/siemens/reachable/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

var _ = Describe("tally board", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("starts with everything unprobed", func() {
		b := New([]string{"A", "B", "A"})
		Expect(b.Get()).To(HaveExactElements(
			And(HaveField("Index", 0), HaveField("Address", "A"), HaveField("Quality", types.Unprobed)),
			And(HaveField("Index", 1), HaveField("Address", "B"), HaveField("Quality", types.Unprobed)),
			And(HaveField("Index", 2), HaveField("Address", "A"), HaveField("Quality", types.Unprobed)),
		))
		Expect(b.Counts()).To(Equal(3))
	})

	It("only moves verdicts forward", func() {
		b := New([]string{"A", "B"})
		a := types.NewProbeResult(0, "A")
		b.Update(a.WithNewQuality(types.Probing, nil))
		Expect(b.Get()[0].Quality).To(Equal(types.Probing))
		b.Update(a.WithNewQuality(types.Unreachable, errors.New("nope")))
		Expect(b.Get()[0].Quality).To(Equal(types.Unreachable))
		Expect(b.Get()[0].Err()).To(MatchError("nope"))
		b.Update(a.WithNewQuality(types.Probing, nil))
		b.Update(a.WithNewQuality(types.Reachable, nil))
		Expect(b.Get()[0].Quality).To(Equal(types.Unreachable))

		pending, reachable, unreachable := b.Counts()
		Expect(pending).To(Equal(1))
		Expect(reachable).To(BeZero())
		Expect(unreachable).To(Equal(1))
	})

	It("ignores verdicts not belonging to the batch", func() {
		b := New([]string{"A"})
		b.Update(types.NewProbeResult(1, "A").WithNewQuality(types.Reachable, nil))
		b.Update(types.NewProbeResult(-1, "A").WithNewQuality(types.Reachable, nil))
		b.Update(types.NewProbeResult(0, "B").WithNewQuality(types.Reachable, nil))
		Expect(b.Get()).To(ConsistOf(HaveField("Quality", types.Unprobed)))
	})

	It("tracks a news stream", NodeTimeout(10*time.Second), func(ctx context.Context) {
		b := New([]string{"A", "B"})
		news := make(chan types.ProbeResult)
		done := make(chan error)
		go func() {
			done <- b.Track(ctx, news)
		}()
		news <- types.NewProbeResult(1, "B").WithNewQuality(types.Reachable, nil)
		news <- types.NewProbeResult(0, "A").WithNewQuality(types.Unreachable, nil)
		close(news)
		Eventually(done).Should(Receive(BeNil()))
		Expect(types.Filter(b.Get())).To(Equal([]string{"B"}))
	})

	It("stops tracking when the context is done", NodeTimeout(10*time.Second), func(ctx context.Context) {
		ctx, cancel := context.WithCancel(ctx)
		b := New(nil)
		done := make(chan error)
		go func() {
			done <- b.Track(ctx, make(chan types.ProbeResult))
		}()
		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})

})
