/*
Package ping implements an ICMP(v4/v6)-based [probe.Prober] that considers an
address reachable when it answers echo requests.

	           +---+
	string --->| P +---> nil / error
	           +---+

A [Pinger] defaults to sending exactly one echo request and waiting for its
reply until the deadline of the context passed to [Pinger.Probe]. Privileged
ICMP sockets need either root or CAP_NET_RAW; [AsUnprivileged] switches to
“unprivileged” datagram ICMP sockets instead, which on Linux require the
net.ipv4.ping_group_range sysctl to include the caller's group.

Pingers can also ping from inside a different network namespace, such as the
network namespace of a container, see [InNetworkNamespace].

# Acknowledgements

Under its hood, [Pinger] leverages [go-ping/ping] for sending and receiving the
echo packets, and [lxkns] for switching network namespaces.

[go-ping/ping]: https://github.com/go-ping/ping
[lxkns]: https://github.com/thediveo/lxkns
*/
package ping
