// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Quality indicates the reachability verdict of a network address, such as
// unprobed, reachable, et cetera.
type Quality int

// The reachability qualities of a network address. The order matters: a
// verdict only ever moves towards the higher qualities.
const (
	Unprobed    Quality = iota // address not yet handed to a prober.
	Probing                    // address currently being probed.
	Unreachable                // probe failed, timed out or never got a reply.
	Reachable                  // probe succeeded within its timeout.
)

// String returns the clear-text representation of a Quality value.
func (q Quality) String() string {
	switch q {
	case Unprobed:
		return "unprobed"
	case Probing:
		return "probing"
	case Unreachable:
		return "unreachable"
	case Reachable:
		return "reachable"
	}
	return fmt.Sprintf("Quality(%d)", q)
}

// IsPending returns true as long as an address hasn't received its final
// verdict.
func (q Quality) IsPending() bool {
	switch q {
	case Unprobed, Probing:
		return true
	default:
		return false
	}
}

// IsReachable returns true only for the Reachable verdict.
func (q Quality) IsReachable() bool { return q == Reachable }
