/*
Package probe defines the [Prober] capability for checking the reachability of
a single network address, together with a set of transport-specific
implementations that don't need any special privileges:

  - [TCP] connects to a fixed TCP port; a refused connection still means
    reachable.
  - [Command] runs the system's ping tool once, with the command line flags of
    the platform's ping flavor, see [PlatformArgs].

ICMP echo requests sent from inside the process are implemented in
[github.com/siemens/reachable/ping].

Probers are stateless with respect to the probed addresses, so a single prober
can be shared by any number of concurrent probes. They report reachability by
returning a nil error; they never panic for unreachable, empty or malformed
addresses. The time a probe is allowed to take is specified by the deadline of
the context passed to [Prober.Probe].

[Resolving] decorates any prober so that host names get resolved through a
specific DNS resolver first.
*/
package probe
