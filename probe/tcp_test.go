// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("TCP connect prober", func() {

	It("defaults to the HTTPS port", func() {
		Expect(NewTCP(0).Port()).To(Equal(uint16(DefaultTCPPort)))
		Expect(NewTCP(22).Port()).To(Equal(uint16(22)))
	})

	It("finds a listening port reachable", NodeTimeout(10*time.Second), func(ctx context.Context) {
		l := Successful(net.Listen("tcp", "127.0.0.1:0"))
		defer l.Close()
		go func() {
			for {
				conn, err := l.Accept()
				if err != nil {
					return
				}
				conn.Close()
			}
		}()
		port := l.Addr().(*net.TCPAddr).Port

		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		Expect(NewTCP(uint16(port)).Probe(ctx, "127.0.0.1")).To(Succeed())
	})

	It("finds a host refusing the connection reachable", NodeTimeout(10*time.Second), func(ctx context.Context) {
		l := Successful(net.Listen("tcp", "127.0.0.1:0"))
		addr := l.Addr().(*net.TCPAddr)
		l.Close()

		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		Expect(NewTCP(uint16(addr.Port)).Probe(ctx, "127.0.0.1")).To(Succeed())
	})

	DescribeTable("judges dial errors",
		func(errno syscall.Errno, reachable bool) {
			p := NewTCP(80)
			p.dialer = func(_ context.Context, network, address string) (net.Conn, error) {
				return nil, &net.OpError{
					Op:  "dial",
					Net: network,
					Err: os.NewSyscallError("connect", errno),
				}
			}
			err := p.Probe(context.Background(), "192.0.2.1")
			if reachable {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(ContainSubstring("dial 192.0.2.1:80")))
			Expect(errors.Is(err, errno)).To(BeTrue())
		},
		Entry("refused", syscall.ECONNREFUSED, true),
		Entry("host unreachable", syscall.EHOSTUNREACH, false),
		Entry("network unreachable", syscall.ENETUNREACH, false),
		Entry("timed out", syscall.ETIMEDOUT, false),
	)

	It("doesn't choke on empty or malformed addresses", NodeTimeout(10*time.Second), func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		p := NewTCP(0)
		Expect(p.Probe(ctx, "")).To(MatchError(ErrEmptyAddress))
		Expect(p.Probe(ctx, "not an address!")).NotTo(Succeed())
	})

})
