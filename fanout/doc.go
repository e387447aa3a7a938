/*
Package fanout implements the batch side of reachability checking: a
[Coordinator] takes a list of addresses, probes them concurrently using a
[probe.Prober] with a fixed maximum of probes in flight, and hands back the
reachable addresses in their original order.

	            +---+
	[]string -->| C +--> []string (reachable, in input order)
	            +-+-+
	              |  at most “size” concurrent probes
	            +-+-+
	            | P |  probe.Prober
	            +---+

The concurrency ceiling exists because each probe usually costs the host a
socket or even a whole process; probing hundreds of addresses without any limit
would otherwise exhaust file descriptors or process table entries.

Probes complete in no particular order, so the verdicts are collected into a
results buffer indexed by batch position. Each position is written only by the
single probe responsible for it; the batch's worker pool is then drained before
returning, so the buffer needs no further locking.

A single bad address never spoils a batch: failing, hanging and even panicking
probers all simply yield an unreachable address. Each probe gets the
coordinator's timeout as its context deadline; a prober not returning within
that timeout plus some grace period is abandoned. The reason why an address is
unreachable is kept in [types.ProbeResult.Err] for diagnosis, but never
surfaces as an error of the batch.

Interactive clients can watch a batch progressing using [WithNews].

# Acknowledgements

Under its hood, [Coordinator] leverages [gammazero/workerpool] as the limiting
goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package fanout
