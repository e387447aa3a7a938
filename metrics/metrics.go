// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package metrics

import (
	"fmt"

	"github.com/siemens/reachable/types"

	"github.com/prometheus/client_golang/prometheus"
)

const prefix = "reachable_"

// Batch exposes the verdicts of a finished probe batch as Prometheus gauges.
type Batch struct {
	reg *prometheus.Registry

	total       prometheus.Gauge
	up          prometheus.Gauge
	down        prometheus.Gauge
	addressUp   *prometheus.GaugeVec
	lastChecked prometheus.Gauge
}

// NewBatch returns a new set of batch gauges, registered with their own
// registry.
func NewBatch() (*Batch, error) {
	b := &Batch{
		reg: prometheus.NewRegistry(),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "batch_addresses_total",
			Help: "Number of addresses in the probe batch",
		}),
		up: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "batch_addresses_up",
			Help: "Number of reachable addresses in the probe batch",
		}),
		down: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "batch_addresses_down",
			Help: "Number of unreachable addresses in the probe batch",
		}),
		addressUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: prefix + "address_up",
			Help: "Reachability of a specific address (1: reachable, 0: unreachable)",
		}, []string{"address"}),
		lastChecked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "batch_last_checked_timestamp_seconds",
			Help: "Unix time when the probe batch finished",
		}),
	}
	if err := register(b.reg, b.total, b.up, b.down, b.addressUp, b.lastChecked); err != nil {
		return nil, fmt.Errorf("cannot register batch metrics: %w", err)
	}
	return b, nil
}

// Registry returns the registry the batch gauges are registered with.
func (b *Batch) Registry() *prometheus.Registry { return b.reg }

// Publish sets the gauges from the verdicts of a batch. Positions that haven't
// been probed (because the batch got cancelled) are neither counted as up nor
// down. Duplicate addresses are counted per position, but share their
// per-address gauge.
func (b *Batch) Publish(results []types.ProbeResult) {
	var up, down int
	for _, r := range results {
		switch {
		case r.Quality.IsPending():
			continue
		case r.Reachable():
			up++
			b.addressUp.WithLabelValues(r.Address).Set(1)
		default:
			down++
			b.addressUp.WithLabelValues(r.Address).Set(0)
		}
	}
	b.total.Set(float64(len(results)))
	b.up.Set(float64(up))
	b.down.Set(float64(down))
	b.lastChecked.SetToCurrentTime()
}

// WriteTextfile publishes the verdicts of a batch and writes them in the
// Prometheus text format to the specified file, suitable for node_exporter's
// textfile collector. The file is replaced atomically.
func WriteTextfile(path string, results []types.ProbeResult) error {
	b, err := NewBatch()
	if err != nil {
		return err
	}
	b.Publish(results)
	if err := prometheus.WriteToTextfile(path, b.reg); err != nil {
		return fmt.Errorf("cannot write metrics textfile: %w", err)
	}
	return nil
}

func register(r *prometheus.Registry, cs ...prometheus.Collector) error {
	for i, c := range cs {
		if err := r.Register(c); err != nil {
			for _, c := range cs[:i] {
				r.Unregister(c)
			}
			return err
		}
	}
	return nil
}
