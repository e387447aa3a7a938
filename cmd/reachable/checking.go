// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/siemens/reachable/fanout"
	"github.com/siemens/reachable/metrics"
	"github.com/siemens/reachable/probe"
	"github.com/siemens/reachable/tally"
	"github.com/siemens/reachable/types"

	"github.com/gosuri/uilive"
	"github.com/thediveo/lxkns/log"
	"golang.org/x/sync/errgroup"
)

// settings controls how a batch of addresses gets checked, after merging
// command line flags with target file defaults.
type settings struct {
	Workers  int
	Timeout  time.Duration
	Method   string
	Port     uint16
	Resolver string
	NetNS    string // network namespace to probe from, if not the current one.
	Dedup    bool
	Live     bool
	Textfile string
	Spinner  time.Duration
}

// proberFactory returns the prober to use for the given settings; CLI unit
// tests swap it out.
var proberFactory = newProber

// CheckAndReport probes the specified addresses and then prints the reachable
// addresses in the order given to out. When live display is enabled, the
// probing progress is rendered to errout.
//
// If probing gets interrupted, the reachable addresses found so far are still
// printed before returning the interruption error.
func CheckAndReport(ctx context.Context, out, errout io.Writer, addrs []string, s settings) error {
	prober, release, err := proberFactory(ctx, s)
	if err != nil {
		return err
	}
	defer release()

	options := []fanout.Option{fanout.WithTimeout(s.Timeout)}
	if s.Dedup {
		options = append(options, fanout.WithDeduplication())
	}

	fmt.Fprintf(out, "Checking %d addresses...\n", len(addrs))
	var results []types.ProbeResult
	var probeErr error
	if s.Live {
		results, probeErr = probeLive(ctx, errout, addrs, s, prober, options)
	} else {
		var coord *fanout.Coordinator
		coord, err = fanout.New(s.Workers, prober, options...)
		if err != nil {
			return err
		}
		results, probeErr = coord.Probe(ctx, addrs)
	}
	if results == nil {
		return probeErr
	}

	warnDenied(results)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "--- Reachable addresses ---")
	for _, addr := range types.Filter(results) {
		fmt.Fprintln(out, addr)
	}

	if s.Textfile != "" {
		if err := metrics.WriteTextfile(s.Textfile, results); err != nil {
			return err
		}
	}
	if probeErr != nil {
		return fmt.Errorf("probing interrupted: %w", probeErr)
	}
	return nil
}

// probeLive probes the specified addresses while rendering the progress to w.
// A nil result means that probing couldn't even be started.
func probeLive(
	ctx context.Context,
	w io.Writer,
	addrs []string,
	s settings,
	prober probe.Prober,
	options []fanout.Option,
) ([]types.ProbeResult, error) {
	board := tally.New(addrs)
	news := make(chan types.ProbeResult, s.Workers)
	coord, err := fanout.New(s.Workers, prober, append(options, fanout.WithNews(news))...)
	if err != nil {
		return nil, err
	}

	// The rendering only stops after tracking has finished because the news
	// channel has been closed. It then renders a final update.
	trackingDone := make(chan struct{})
	var results []types.ProbeResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// uilive's background updating mode may trigger with the rendering
		// into the buffer not yet complete, so we flush explicitly after
		// each complete rendering instead.
		term := uilive.New()
		term.Out = w
		renderer := newRenderer(term, s.Spinner)
		defer renderer.Stop()
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			renderData(term, renderer, board)
			select {
			case <-ticker.C:
			case <-trackingDone:
				renderData(term, renderer, board)
				return nil
			}
		}
	})
	g.Go(func() error {
		defer close(trackingDone)
		return board.Track(gctx, news)
	})
	g.Go(func() error {
		defer close(news)
		var err error
		results, err = coord.Probe(ctx, addrs)
		return err
	})
	err = g.Wait()
	return results, err
}

// renderData gets the current verdicts from the board and then renders (and
// flushes) them to the terminal.
func renderData(term *uilive.Writer, r *renderer, board *tally.Board) {
	r.Render(board.Get())
	_ = term.Flush()
}

// warnDenied logs a single warning if probes failed because they weren't
// permitted, as then the addresses concerned might well be reachable.
func warnDenied(results []types.ProbeResult) {
	denied := 0
	var reason error
	for _, result := range results {
		if err := result.Err(); err != nil && errors.Is(err, os.ErrPermission) {
			if denied == 0 {
				reason = err
			}
			denied++
		}
	}
	if denied == 0 {
		return
	}
	log.Warnf("%d of %d probes were not permitted, such as: %s",
		denied, len(results), reason.Error())
}
