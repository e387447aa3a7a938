// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

// DefaultCommand is the name of the system diagnostic tool run by [Command]
// probers.
const DefaultCommand = "ping"

// Command probes addresses by running the system's ping tool once per
// address, sending only a single echo request. An address is reachable when
// the tool exits with status 0; if the tool isn't available at all then all
// addresses are unreachable.
type Command struct {
	name string
	goos string
}

var _ Prober = (*Command)(nil)

// CommandOption can be passed to NewCommand when creating new Command probers.
type CommandOption func(*Command)

// WithCommandName sets the diagnostic tool to run instead of
// [DefaultCommand]; it is looked up in PATH unless it contains a path
// separator.
func WithCommandName(name string) CommandOption {
	return func(c *Command) {
		c.name = name
	}
}

// ForPlatform sets the operating system for which the tool's command line
// gets built, defaulting to [runtime.GOOS].
func ForPlatform(goos string) CommandOption {
	return func(c *Command) {
		c.goos = goos
	}
}

// NewCommand returns a new Command prober.
func NewCommand(options ...CommandOption) *Command {
	c := &Command{
		name: DefaultCommand,
		goos: runtime.GOOS,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Probe the specified address by running the diagnostic tool. The tool's
// timeout flag is derived from the context deadline, if any; the tool gets
// killed when the context is done.
func (c *Command) Probe(ctx context.Context, addr string) error {
	timeout := time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	cmd := exec.CommandContext(ctx, c.name, PlatformArgs(c.goos, timeout, addr)...)
	// stdout and stderr are left nil, so they are connected to the null
	// device.
	if err := cmd.Run(); err != nil {
		if ctxerr := ctx.Err(); ctxerr != nil {
			return ctxerr
		}
		return fmt.Errorf("%s %s: %w", c.name, addr, err)
	}
	return nil
}

// PlatformArgs returns the command line arguments for sending a single echo
// request with the given timeout to addr, using the ping tool flavor of the
// specified operating system (in [runtime.GOOS] notation). Timeouts are rounded
// up to the tools' granularity, that is, to whole seconds or milliseconds, and
// are never less than one unit.
func PlatformArgs(goos string, timeout time.Duration, addr string) []string {
	switch goos {
	case "windows":
		return []string{"-n", "1", "-w", strconv.FormatInt(ceilUnits(timeout, time.Millisecond), 10), addr}
	case "darwin", "freebsd", "netbsd", "openbsd", "dragonfly":
		return []string{"-c", "1", "-t", strconv.FormatInt(ceilUnits(timeout, time.Second), 10), addr}
	default:
		return []string{"-c", "1", "-W", strconv.FormatInt(ceilUnits(timeout, time.Second), 10), addr}
	}
}

// ceilUnits returns d in multiples of unit, rounded up, and at least 1.
func ceilUnits(d time.Duration, unit time.Duration) int64 {
	n := int64((d + unit - 1) / unit)
	if n < 1 {
		return 1
	}
	return n
}
