// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"net"

	"github.com/siemens/reachable/dnsworker"
	"github.com/siemens/reachable/ping"
	"github.com/siemens/reachable/probe"

	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
)

// maxResolverConns limits the number of DNS client connections to the
// resolver, independent of the number of probe workers.
const maxResolverConns = 16

// icmpPrivileges reports whether privileged ICMP echo requests can be sent;
// CLI unit tests swap it out.
var icmpPrivileges = ping.CheckPrivileges

// newProber returns the prober for the probe method given in the settings, as
// well as a function to release any resources the prober holds. When a
// resolver is configured, the prober first resolves host names using this
// resolver.
func newProber(ctx context.Context, s settings) (probe.Prober, func(), error) {
	var prober probe.Prober
	switch s.Method {
	case methodICMP:
		options := []ping.PingerOption{ping.InNetworkNamespace(s.NetNS)}
		if err := icmpPrivileges(); err != nil {
			log.Warnf("%s; falling back to unprivileged (UDP) pings", err.Error())
			options = append(options, ping.AsUnprivileged())
		}
		prober = ping.New(options...)
	case methodUDP:
		prober = ping.New(ping.AsUnprivileged(), ping.InNetworkNamespace(s.NetNS))
	case methodTCP:
		prober = probe.NewTCP(s.Port)
	case methodExec:
		prober = probe.NewCommand()
	default:
		return nil, nil, validMethod(s.Method)
	}
	if s.Resolver == "" {
		return prober, func() {}, nil
	}
	conns := s.Workers
	if conns > maxResolverConns {
		conns = maxResolverConns
	}
	pool, err := dnsworker.New(ctx, conns,
		&dns.Client{Timeout: s.Timeout},
		resolverAddress(s.Resolver),
		dnsworker.InNetworkNamespace(s.NetNS))
	if err != nil {
		return nil, nil, fmt.Errorf("cannot set up name resolution: %w", err)
	}
	return probe.NewResolving(pool, prober), pool.StopWait, nil
}

// resolverAddress returns the resolver address with the default DNS port
// added, if the address lacks a port.
func resolverAddress(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	return net.JoinHostPort(addr, "53")
}
