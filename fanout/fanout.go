// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package fanout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siemens/reachable/probe"
	"github.com/siemens/reachable/types"

	"github.com/gammazero/workerpool"
	"github.com/thediveo/lxkns/log"
)

// Defaults for the per-probe timeout and the additional slack granted to a
// prober for honoring its deadline.
const (
	DefaultTimeout = time.Second
	DefaultGrace   = 250 * time.Millisecond
)

// ErrInvalidConfig is wrapped by the errors New returns for unusable
// coordinator configurations.
var ErrInvalidConfig = errors.New("invalid coordinator configuration")

// Coordinator probes batches of addresses concurrently, with at most a fixed
// number of probes in flight at any time, and returns the verdicts in the
// order of the addresses submitted.
//
// A Coordinator keeps no state between batches, so it can be used for any
// number of (even concurrent) batches; the concurrency ceiling then applies to
// each batch individually.
type Coordinator struct {
	size    int           // concurrency ceiling per batch.
	prober  probe.Prober  // checks a single address.
	timeout time.Duration // deadline for a single probe.
	grace   time.Duration // slack for probers to honor their deadline.
	dedup   bool          // probe each distinct address only once.

	news chan<- types.ProbeResult // optional verdict stream, or nil.
}

// Option can be passed to New when creating new Coordinator objects.
type Option func(*Coordinator)

// New returns a new [Coordinator] using the specified prober with at most size
// probes in flight at any time. It returns an error wrapping
// [ErrInvalidConfig] if size isn't positive, the prober is nil, or an option
// sets a non-positive timeout.
//
// The coordinator can be configured during creation using several options:
//   - [WithTimeout]
//   - [WithGrace]
//   - [WithNews]
//   - [WithDeduplication]
func New(size int, prober probe.Prober, options ...Option) (*Coordinator, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: concurrency ceiling must be at least 1, got: %d",
			ErrInvalidConfig, size)
	}
	if prober == nil {
		return nil, fmt.Errorf("%w: missing prober", ErrInvalidConfig)
	}
	c := &Coordinator{
		size:    size,
		prober:  prober,
		timeout: DefaultTimeout,
		grace:   DefaultGrace,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.timeout <= 0 {
		return nil, fmt.Errorf("%w: probe timeout must be positive, got: %s",
			ErrInvalidConfig, c.timeout)
	}
	if c.grace < 0 {
		c.grace = 0
	}
	return c, nil
}

// WithTimeout sets the deadline for each individual probe.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = timeout
	}
}

// WithGrace sets the additional time a Coordinator waits for a prober to
// return after the probe's deadline has passed. After that the prober is
// abandoned and its address taken as unreachable.
func WithGrace(grace time.Duration) Option {
	return func(c *Coordinator) {
		c.grace = grace
	}
}

// WithNews streams verdicts to the specified channel while a batch is being
// probed: first a [types.Probing] notice when the probe for a batch position
// gets started, and later the final verdict. The channel is never closed by
// the Coordinator.
//
// Sending blocks the worker for the probe concerned, so the consumer should
// keep up; sending is abandoned when the batch context gets cancelled.
func WithNews(news chan<- types.ProbeResult) Option {
	return func(c *Coordinator) {
		c.news = news
	}
}

// WithDeduplication probes every distinct address of a batch only once and
// then hands its verdict to all batch positions with this same address.
func WithDeduplication() Option {
	return func(c *Coordinator) {
		c.dedup = true
	}
}

// Size returns the concurrency ceiling.
func (c *Coordinator) Size() int { return c.size }

// Reachable probes the specified addresses and returns only the reachable
// ones, in the order they were passed in. Duplicates are kept. Reachable
// blocks until all probes have finished.
//
// When the context gets cancelled, no further probes are started and
// Reachable returns the reachable addresses found so far together with the
// context's error.
func (c *Coordinator) Reachable(ctx context.Context, addrs []string) ([]string, error) {
	results, err := c.Probe(ctx, addrs)
	return types.Filter(results), err
}

// Probe probes the specified addresses and returns a verdict for each of them,
// in the order they were passed in. Probe blocks until all probes have
// finished. The verdicts are either [types.Reachable] or [types.Unreachable],
// except after cancellation for positions not probed anymore, which stay
// [types.Unprobed].
//
// Individual probes never fail a batch; Probe only returns an error if the
// context was done at the end of the batch.
func (c *Coordinator) Probe(ctx context.Context, addrs []string) ([]types.ProbeResult, error) {
	results := make([]types.ProbeResult, len(addrs))
	for idx, addr := range addrs {
		results[idx] = types.NewProbeResult(idx, addr)
	}
	if len(addrs) == 0 {
		return results, nil
	}
	jobs := newJobs(addrs, c.dedup)
	size := c.size
	if len(jobs) < size {
		size = len(jobs)
	}
	log.Debugf("probing %d addresses (%d distinct probes) with %d workers",
		len(addrs), len(jobs), size)
	workers := workerpool.New(size)
	for _, j := range jobs {
		j := j
		workers.Submit(func() {
			// Don't start any new probes after cancellation; the batch
			// positions concerned stay unprobed.
			if ctx.Err() != nil {
				return
			}
			for _, idx := range j.positions {
				c.tell(ctx, results[idx].WithNewQuality(types.Probing, nil))
			}
			err := c.probe(ctx, j.addr)
			quality := types.Reachable
			if err != nil {
				quality = types.Unreachable
				log.Debugf("address %q unreachable: %s", j.addr, err.Error())
			}
			// Each batch position belongs to exactly one job, so there are
			// never concurrent writes to the same result slot.
			for _, idx := range j.positions {
				results[idx] = results[idx].WithNewQuality(quality, err)
				c.tell(ctx, results[idx])
			}
		})
	}
	workers.StopWait()
	return results, ctx.Err()
}

// probe runs the prober for a single address, returning its verdict: nil if
// reachable, otherwise the reason why not. The prober is given a context with
// the coordinator's probe timeout as its deadline. If the prober hasn't
// returned by the deadline plus the grace period, the prober gets abandoned.
// Panicking probers are recovered and the address is then unreachable.
func (c *Coordinator) probe(ctx context.Context, addr string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	verdict := make(chan error, 1) // never block an abandoned prober.
	go func() {
		defer func() {
			if r := recover(); r != nil {
				verdict <- fmt.Errorf("prober panicked: %v", r)
			}
		}()
		verdict <- c.prober.Probe(ctx, addr)
	}()
	wecker := time.NewTimer(c.timeout + c.grace)
	defer wecker.Stop()
	select {
	case err := <-verdict:
		return err
	case <-wecker.C:
		return fmt.Errorf("prober abandoned after %s: %w",
			c.timeout+c.grace, context.DeadlineExceeded)
	}
}

// tell sends the specified verdict to the news channel, if any, unless the
// context is done.
func (c *Coordinator) tell(ctx context.Context, verdict types.ProbeResult) {
	if c.news == nil {
		return
	}
	select {
	case c.news <- verdict:
	case <-ctx.Done():
	}
}
