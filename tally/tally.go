// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package tally

import (
	"context"
	"sync"

	"github.com/siemens/reachable/types"
)

// Board keeps the most recent verdicts of all positions of a probe batch. A
// typical use case for a Board is to consume the news stream of a
// [github.com/siemens/reachable/fanout.Coordinator] while the batch is being
// probed, and to render the board's current state every now and then.
type Board struct {
	mu      sync.Mutex
	results []types.ProbeResult
}

// New returns a new Board for the specified batch of addresses, with all
// positions initially unprobed.
func New(addrs []string) *Board {
	results := make([]types.ProbeResult, len(addrs))
	for idx, addr := range addrs {
		results[idx] = types.NewProbeResult(idx, addr)
	}
	return &Board{results: results}
}

// Get returns a copy of all verdicts, in batch order.
func (b *Board) Get() []types.ProbeResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	results := make([]types.ProbeResult, len(b.results))
	copy(results, b.results)
	return results
}

// Counts returns the number of positions still pending, found reachable, and
// found unreachable.
func (b *Board) Counts() (pending, reachable, unreachable int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.results {
		switch {
		case r.Quality.IsPending():
			pending++
		case r.Reachable():
			reachable++
		default:
			unreachable++
		}
	}
	return
}

// Update the board with a verdict. Verdicts for positions outside the batch or
// not matching the address at their position are ignored. Known positions are
// updated only in case their quality is changing as follows:
//   - from unprobed to probing
//   - from unprobed or probing to either reachable or unreachable
func (b *Board) Update(verdict types.ProbeResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if verdict.Index < 0 || verdict.Index >= len(b.results) {
		return
	}
	current := b.results[verdict.Index]
	if current.Address != verdict.Address || !current.Quality.IsPending() {
		return
	}
	if verdict.Quality > current.Quality {
		b.results[verdict.Index] = verdict
	}
}

// Track verdict updates received from the specified news channel until the
// channel is closed or the context done. Track only returns after processing
// all updates or when the context is done.
func (b *Board) Track(ctx context.Context, news <-chan types.ProbeResult) error {
	for {
		select {
		case verdict, ok := <-news:
			if !ok {
				return nil
			}
			b.Update(verdict)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
