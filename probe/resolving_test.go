// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeResolver map[string][]string

func (r fakeResolver) Resolve(_ context.Context, name string) ([]string, error) {
	addrs, ok := r[name]
	if !ok {
		return nil, errors.New("NXDOMAIN")
	}
	return addrs, nil
}

var _ = Describe("resolving prober", func() {

	var probed []string
	var prober Prober

	BeforeEach(func() {
		probed = nil
		prober = NewResolving(
			fakeResolver{
				"foo.test":   {"192.0.2.1", "192.0.2.2"},
				"empty.test": {},
			},
			Func(func(_ context.Context, addr string) error {
				probed = append(probed, addr)
				if addr == "192.0.2.1" {
					return nil
				}
				return errors.New("no reply")
			}))
	})

	It("probes the first resolved address", func(ctx context.Context) {
		Expect(prober.Probe(ctx, "foo.test")).To(Succeed())
		Expect(probed).To(ConsistOf("192.0.2.1"))
	})

	It("fails names that don't resolve", func(ctx context.Context) {
		Expect(prober.Probe(ctx, "bar.test")).To(MatchError(ContainSubstring("NXDOMAIN")))
		Expect(prober.Probe(ctx, "empty.test")).To(MatchError(ContainSubstring("no addresses")))
		Expect(prober.Probe(ctx, "")).To(HaveOccurred())
		Expect(probed).To(BeEmpty())
	})

})
