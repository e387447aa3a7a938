// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"fmt"
)

// Resolver resolves a host name into its IP addresses, in textual form. A
// [github.com/siemens/reachable/dnsworker.DnsPool] is a Resolver.
type Resolver interface {
	Resolve(ctx context.Context, name string) ([]string, error)
}

// Resolving decorates a [Prober] so that host names get resolved by a
// specific [Resolver] first; the wrapped prober then gets to probe the first
// resolved address. Resolving the name counts against the probe's deadline.
type Resolving struct {
	resolver Resolver
	prober   Prober
}

var _ Prober = (*Resolving)(nil)

// NewResolving returns a new prober resolving names using the specified
// resolver before handing the first address over to the specified prober.
func NewResolving(resolver Resolver, prober Prober) *Resolving {
	return &Resolving{
		resolver: resolver,
		prober:   prober,
	}
}

// Probe resolves the specified address and then probes it.
func (r *Resolving) Probe(ctx context.Context, addr string) error {
	addrs, err := r.resolver.Resolve(ctx, addr)
	if err != nil {
		return fmt.Errorf("cannot resolve %s: %w", addr, err)
	}
	if len(addrs) == 0 {
		return fmt.Errorf("cannot resolve %s: no addresses", addr)
	}
	return r.prober.Probe(ctx, addrs[0])
}
