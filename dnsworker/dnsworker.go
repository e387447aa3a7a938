// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// DnsPool is a (size-limited) pool of DNS client connections talking with the
// same DNS resolver address.
type DnsPool struct {
	netns   relations.Relation // network namespace to resolve from, or nil.
	client  *dns.Client
	workers *workerpool.WorkerPool
	mu      sync.Mutex // protects the pool of DNS connections
	free    []*dns.Conn
}

// DnsPoolOption can be passed to New when creating new [DnsPool] objects.
type DnsPoolOption func(*DnsPool)

// New returns a pool of the specified size of DNS client connections, with each
// connection talking to the same DNS resolver address.
//
// The passed context is used for creating (dialing) the DNS client connections
// only. Resolution jobs get their own contexts passed to [DnsPool.Resolve] and
// [DnsPool.ResolveName].
//
// To operate a DnsPool in a network namespace different to that of the OS-level
// thread of the caller specify the [InNetworkNamespace] option and pass it a
// filesystem path that must reference a network namespace (such as
// "/proc/666/ns/net").
func New(ctx context.Context, size int, dnsclnt *dns.Client, addr string, options ...DnsPoolOption) (*DnsPool, error) {
	if size < 1 {
		return nil, fmt.Errorf("DnsPool: size must be at least 1, got: %d", size)
	}
	dnspool := &DnsPool{
		client:  dnsclnt,
		workers: workerpool.New(size),
	}
	for _, opt := range options {
		opt(dnspool)
	}
	free := make([]*dns.Conn, 0, size)
	dial := func() interface{} {
		for i := 0; i < size; i++ {
			conn, err := dnsclnt.DialContext(ctx, addr)
			if err != nil {
				// Immediately release all connections created so far.
				for _, conn := range free {
					conn.Close()
				}
				return err
			}
			free = append(free, conn)
		}
		return nil
	}
	var err error
	var dialerr interface{}
	if dnspool.netns != nil {
		dialerr, err = ops.Execute(dial, dnspool.netns)
	} else {
		dialerr = dial()
	}
	if err == nil && dialerr != nil {
		err = dialerr.(error)
	}
	if err != nil {
		dnspool.workers.Stop()
		return nil, fmt.Errorf("cannot dial DNS resolver %s: %w", addr, err)
	}
	dnspool.free = free
	return dnspool, nil
}

// InNetworkNamespace optionally runs a DnsPool inside the network namespace
// referenced by the specified filesystem path. An empty path is ignored.
func InNetworkNamespace(netnsref string) DnsPoolOption {
	return func(p *DnsPool) {
		if netnsref == "" {
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// Submit a task to the DNS client connection pool, where it gets enqueued to be
// executed on an available DNS client connection.
func (p *DnsPool) Submit(task func(conn *dns.Conn)) {
	p.workers.Submit(func() { p.task(task) })
}

// ResolveName submits A/AAAA queries for the specified name and passes the
// resolved IP addresses in textual format, or an error if resolution failed,
// to the specified callback function fn. IP address literals are passed back
// as-is without bothering the resolver.
//
// fn is called only once after completing both A and AAAA queries, so fn always
// gets to see all IP addresses from all IP families (if any).
//
// Please note that when the passed context is cancelled this will cancel all
// in-flight as well as scheduled name resolution jobs.
func (p *DnsPool) ResolveName(ctx context.Context, name string, fn func([]string, error)) {
	if ip := net.ParseIP(name); ip != nil {
		fn([]string{ip.String()}, nil)
		return
	}
	p.Submit(func(conn *dns.Conn) {
		var addrs []string
		var err error
		defer func() { fn(addrs, err) }() // ...ensure triggering the result callback on our way out

		fqdn := dns.Fqdn(name)
		for _, addrType := range []uint16{dns.TypeA, dns.TypeAAAA} {
			// don't try to resolve the name if the context has been cancelled;
			// trigger the callback immediately with the context error.
			if err = ctx.Err(); err != nil {
				return
			}
			if deadline, ok := ctx.Deadline(); ok {
				_ = conn.SetDeadline(deadline)
			} else {
				_ = conn.SetDeadline(time.Time{})
			}
			msg := dns.Msg{
				MsgHdr: dns.MsgHdr{Id: dns.Id()},
			}
			msg.SetQuestion(fqdn, addrType)
			var r *dns.Msg
			r, _, err = p.client.ExchangeWithConn(&msg, conn)
			if err != nil {
				return
			}
			for _, rr := range r.Answer {
				switch addrRR := rr.(type) {
				case *dns.A:
					addrs = append(addrs, addrRR.A.String())
				case *dns.AAAA:
					addrs = append(addrs, addrRR.AAAA.String())
				}
			}
		}
		// If we neither got A nor AAAA answers then we consider this to be an
		// error. This ensures to send an error to the callback together with
		// the nil list of resolved IP addresses.
		if len(addrs) == 0 {
			err = fmt.Errorf("ResolveName: query for %q yields no answers", name)
		}
	})
}

// Resolve is the blocking variant of [DnsPool.ResolveName], returning as soon
// as the name has been resolved or the context is done, whatever comes first.
func (p *DnsPool) Resolve(ctx context.Context, name string) ([]string, error) {
	type answer struct {
		addrs []string
		err   error
	}
	ch := make(chan answer, 1) // never block the worker.
	p.ResolveName(ctx, name, func(addrs []string, err error) {
		ch <- answer{addrs: addrs, err: err}
	})
	select {
	case a := <-ch:
		return a.addrs, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// task grabs the next free DNS client and passes it to the specified function.
// After the function returns, the connection is put back into the free list.
func (p *DnsPool) task(task func(conn *dns.Conn)) {
	// pop off a free DNS client connection,
	// https://ueokande.github.io/go-slice-tricks/,
	p.mu.Lock()
	if len(p.free) == 0 {
		p.mu.Unlock()
		panic("no free DNS client connection available")
	}
	last := len(p.free) - 1
	conn := p.free[last]
	p.free = p.free[:last]
	p.mu.Unlock()
	// ...and push the DNS client connection back into the free list, even if
	// the task panics.
	defer func() {
		p.mu.Lock()
		p.free = append(p.free, conn)
		p.mu.Unlock()
	}()
	task(conn)
}

// StopWait waits for all enqueued name resolution or generic DNS request tasks
// to finish, and then shuts down the pool.
func (p *DnsPool) StopWait() {
	p.workers.StopWait()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, conn := range p.free {
		conn.Close()
	}
	p.free = nil
}
