/*
Package dnsworker implements a simple limiting DNS client-request execution
pool. reachable uses [DnsPool] with a pool of “DNS workers” for A/AAAA lookups
when probing host names against a specific resolver, instead of whatever the
host's stub resolver configuration happens to be. Please note that the A/AAAA
queries for a single name are not concurrent.

Usage

	dnsclnt := dns.Client{}
	workers, err := dnsworker.New(
	    context.Background(),
	    4,                    // number of parallel DNS connections and thus workers
	    &dnsclnt,             // DNS client
	    "127.0.0.1:53",       // address of server/resolver
	)
	addrs, err := workers.Resolve(ctx, "foobar.example.org")
	workers.Submit(func(conn *dns.Conn){
	    // do something with the DNS connection
	})

# Acknowledgements

Under its hood, [DnsPool] leverages [gammazero/workerpool] as
the limiting goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package dnsworker
