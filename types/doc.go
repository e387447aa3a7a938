/*
Package types defines reachable's information model. Which is rather simple and
revolves around the [ProbeResult] of a single batch position and its
reachability [Quality].

A batch of addresses is an ordered slice of strings; addresses are opaque, so
they can be IPv4 or IPv6 literals as well as host names. Addresses aren't
validated up front: malformed addresses simply end up as [Unreachable].

# Design Rationale

Probes complete in whatever order the network and the scheduler like. To put
the verdicts back into the order in which addresses were submitted, each
[ProbeResult] carries the Index of its batch position. [ProbeResult] is passed
around by value and only offers getters plus [ProbeResult.WithNewQuality], so
verdicts travelling through channels between goroutines never need locking.

The optional error detail of an unreachable address is deliberately kept
unexported: the reachability contract is binary, and the detail is a debugging
aid only, telling apart a timeout from a missing ping tool or a failed name
resolution.
*/
package types
