// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// DefaultTCPPort is the port a [TCP] prober connects to unless told otherwise.
const DefaultTCPPort = 443

// TCP probes addresses by opening (and immediately closing again) a TCP
// connection to a fixed port. It doesn't need any privileges, in contrast to
// ICMP echo requests.
//
// TCP checks hosts, not services: a host actively refusing the connection
// answered and thus is reachable, even if nothing listens on the port.
type TCP struct {
	port   uint16
	dialer func(ctx context.Context, network, address string) (net.Conn, error)
}

var _ Prober = (*TCP)(nil)

// NewTCP returns a new TCP connect prober for the specified port; a zero port
// selects [DefaultTCPPort].
func NewTCP(port uint16) *TCP {
	if port == 0 {
		port = DefaultTCPPort
	}
	return &TCP{
		port:   port,
		dialer: (&net.Dialer{}).DialContext,
	}
}

// Port returns the port this prober connects to.
func (p *TCP) Port() uint16 { return p.port }

// Probe the specified address by connecting to its port.
func (p *TCP) Probe(ctx context.Context, addr string) error {
	if addr == "" {
		return ErrEmptyAddress
	}
	target := net.JoinHostPort(addr, fmt.Sprint(p.port))
	conn, err := p.dialer(ctx, "tcp", target)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil
		}
		return fmt.Errorf("dial %s: %w", target, err)
	}
	return conn.Close()
}
