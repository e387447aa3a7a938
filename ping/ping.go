// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siemens/reachable/probe"

	"github.com/go-ping/ping"
	"golang.org/x/net/icmp"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// DefaultTimeout is the time a Pinger waits for an echo reply when the context
// passed to [Pinger.Probe] doesn't carry any deadline.
const DefaultTimeout = time.Second

// ErrNoReply signals that an address didn't answer (enough) echo requests.
var ErrNoReply = errors.New("no replies or too many losses")

// Pinger probes IP addresses by sending ICMP echo requests and waiting for
// their replies. A single Pinger can be used for any number of concurrent
// probes, as each probe uses its own ICMP socket.
type Pinger struct {
	count               int                // number of pings to send.
	interval            time.Duration      // distance between pings.
	thresholdPercentage uint               // percentage of successful pings for a reachable address.
	unprivileged        bool               // if true, uses UDP-based pings instead of privileged ICMPs.
	netns               relations.Relation // network namespace to ping from, or nil.
}

var _ probe.Prober = (*Pinger)(nil)

// PingerOption can be passed to New when creating new Pinger objects.
type PingerOption func(*Pinger)

// New returns a new [Pinger]. The new pinger defaults to sending a single ping
// that must be answered in order to consider the pinged address reachable.
//
// The pinger can be configured during creation using several option:
//   - [WithCount]
//   - [WithInterval]
//   - [WithThresholdPercentage]
//   - [AsUnprivileged]
//   - [InNetworkNamespace]
func New(options ...PingerOption) *Pinger {
	pinger := &Pinger{
		count:               1,
		interval:            time.Second,
		thresholdPercentage: 100,
	}
	for _, opt := range options {
		opt(pinger)
	}
	return pinger
}

// InNetworkNamespace optionally runs a [Pinger] inside the network namespace
// referenced by the specified filesystem path, such as "/proc/666/ns/net". An
// empty path is ignored.
func InNetworkNamespace(netnsref string) PingerOption {
	return func(p *Pinger) {
		if netnsref == "" {
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// WithCount sets the number of pings for testing reachability of an IP address.
// A zero count is taken as a single ping.
func WithCount(count uint) PingerOption {
	return func(p *Pinger) {
		if count == 0 {
			count = 1
		}
		p.count = int(count)
	}
}

// WithInterval sets the interval between consecutive pings.
func WithInterval(interval time.Duration) PingerOption {
	return func(p *Pinger) {
		p.interval = interval
	}
}

// AsUnprivileged tells the Pinger to carry out unprivileged pings using UDP
// instead of ICMP packet.
func AsUnprivileged() PingerOption {
	return func(p *Pinger) {
		p.unprivileged = true
	}
}

// WithThresholdPercentage takes a percentage between 0 and 100 that specifies
// the percentage of successful ping responses required in order to consider
// the pinged IP address reachable. At least one reply is always required.
func WithThresholdPercentage(threshold uint) PingerOption {
	if threshold > 100 {
		panic(fmt.Errorf("Pinger: threshold must be a percentage between 0 <= threshold <= 100, got: %d",
			threshold))
	}
	return func(p *Pinger) {
		p.thresholdPercentage = threshold
	}
}

// Unprivileged returns true if this Pinger sends its echo requests using
// unprivileged datagram sockets.
func (p *Pinger) Unprivileged() bool { return p.unprivileged }

// CheckPrivileges returns nil if the current process is allowed to send
// privileged ICMP echo requests, otherwise the reason why it is not. Without
// the necessary privileges (CAP_NET_RAW on Linux) all privileged pings fail,
// so callers should then switch to [AsUnprivileged].
func CheckPrivileges() error {
	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err != nil {
		return fmt.Errorf("cannot open ICMP socket: %w", err)
	}
	return conn.Close()
}

// Probe the specified address by pinging it, returning nil if enough echo
// replies have been received before the deadline of the context passed in, or
// [DefaultTimeout] if the context carries no deadline.
//
// Please note that you should use IP address literals instead of DNS names in
// case you want precise control over the specific IP address to validate. If
// you instead use DNS names and if the name resolves into multiple IP
// addresses, then you're effectively probing the DNS name, but not a
// particular IP address.
//
// The probe is automatically aborted when the specified context either meets
// its deadline or gets cancelled; the address is then unreachable.
func (p *Pinger) Probe(ctx context.Context, addr string) error {
	// An empty address would otherwise end up pinging the unspecified
	// address, which the host happily answers itself.
	if addr == "" {
		return probe.ErrEmptyAddress
	}
	ping := func() interface{} {
		// A quick and non-blocking check to see if the context has been
		// cancelled before we start our work...
		if err := ctx.Err(); err != nil {
			return err
		}
		pinger, err := ping.NewPinger(addr)
		if err != nil {
			return err
		}
		pinger.SetPrivileged(!p.unprivileged)
		pinger.Count = p.count
		pinger.Interval = p.interval
		// Always limit waiting for the last ping to get reflected (or not)!
		pinger.Timeout = DefaultTimeout
		if deadline, ok := ctx.Deadline(); ok {
			pinger.Timeout = time.Until(deadline)
		}
		// While the ping will be running, we need to monitor the context in
		// case it becomes "done" by either getting cancelled or reaching
		// its deadline. The done channel here works "the other way round"
		// in the sense that it terminated the concurrent context
		// monitoring.
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				pinger.Stop()
			case <-done:
			}
		}()
		if err = pinger.Run(); err != nil {
			return err
		}
		stats := pinger.Statistics()
		if !p.enough(stats.PacketsRecv) {
			// Was the context done? Then report that instead.
			if err := ctx.Err(); err != nil {
				return err
			}
			return ErrNoReply
		}
		return nil
	}
	// Run the ping in the requested network namespace, if necessary.
	var res interface{}
	if p.netns != nil {
		// lxkns' ops.Execute differentiates between a namespace switching
		// error and the under switched namespaces called function result.
		// We use this function result to return ping errors, so we now need
		// to use the ping-related error (unless there is an Execute-related
		// error).
		var err error
		res, err = ops.Execute(ping, p.netns)
		if err != nil {
			return fmt.Errorf("cannot ping from network namespace: %w", err)
		}
	} else {
		res = ping()
	}
	if err, ok := res.(error); ok && err != nil {
		return fmt.Errorf("ping %s: %w", addr, err)
	}
	return nil
}

// enough returns true if the number of received replies reaches the
// threshold. At least one reply is always required.
func (p *Pinger) enough(received int) bool {
	if received < 1 {
		return false
	}
	return received*100 >= p.count*int(p.thresholdPercentage)
}
