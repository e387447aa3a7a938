// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
)

// Prober checks the reachability of a single network address. A nil error
// means that the address is reachable, any error that it isn't. The time a
// probe may take is bounded by the deadline of the passed context.
type Prober interface {
	Probe(ctx context.Context, addr string) error
}

// Func adapts an ordinary function to the [Prober] interface.
type Func func(ctx context.Context, addr string) error

var _ Prober = (Func)(nil)

// Probe calls f(ctx, addr).
func (f Func) Probe(ctx context.Context, addr string) error {
	return f(ctx, addr)
}

// ErrEmptyAddress is returned by probers whose underlying mechanism would
// otherwise silently take an empty address for the local host.
var ErrEmptyAddress = errors.New("empty address")
