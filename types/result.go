// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

// ProbeResult is the verdict for a single position of a probe batch. Index is
// the position of Address in the batch as submitted, so that verdicts
// completing out of order can be put back into their input order.
//
// ProbeResult values are immutable once created; use WithNewQuality to derive
// an updated verdict.
type ProbeResult struct {
	Index   int     `json:"index"`   // position inside the batch.
	Address string  `json:"address"` // network address or host name as given.
	Quality Quality `json:"quality"` // reachability verdict.
	err     error   // optional detail why an address is unreachable.
}

// NewProbeResult returns a fresh, yet unprobed, result for the address at the
// specified batch position.
func NewProbeResult(index int, addr string) ProbeResult {
	return ProbeResult{
		Index:   index,
		Address: addr,
		Quality: Unprobed,
	}
}

// Err returns an optional error that occurred while probing the address. It is
// only ever set for Unreachable verdicts.
func (r ProbeResult) Err() error { return r.err }

// Reachable returns true if the address was found to be reachable.
func (r ProbeResult) Reachable() bool { return r.Quality.IsReachable() }

// WithNewQuality returns an updated copy of this result. The error detail is
// dropped for any quality other than Unreachable.
func (r ProbeResult) WithNewQuality(q Quality, err error) ProbeResult {
	if q != Unreachable {
		err = nil
	}
	return ProbeResult{
		Index:   r.Index,
		Address: r.Address,
		Quality: q,
		err:     err,
	}
}

// Filter returns the addresses of all reachable results, in the order of the
// passed results. The returned slice is never nil.
func Filter(results []ProbeResult) []string {
	addrs := make([]string, 0, len(results))
	for _, r := range results {
		if r.Reachable() {
			addrs = append(addrs, r.Address)
		}
	}
	return addrs
}
