// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/siemens/reachable/probe"
	"github.com/siemens/reachable/targets"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

// Names of the supported probe methods.
const (
	methodICMP = "icmp"
	methodUDP  = "udp"
	methodTCP  = "tcp"
	methodExec = "exec"
)

var (
	workerNumber    *uint
	timeout         *time.Duration
	method          *string
	port            *uint16
	targetFile      *string
	resolver        *string
	container       *string
	dedup           *bool
	live            *bool
	textfile        *string
	spinnerInterval *time.Duration
	debug           *bool
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:   "reachable [flags] [address...]",
		Short: "reachable filters a list of network addresses down to the reachable ones",
		Long: `reachable probes the specified addresses concurrently and then prints
the reachable addresses, in the order they were given, one per line.

Addresses are taken from the command line arguments, from a target file, or
from the Docker networks attached to a container. Without any addresses, a
small built-in sample is checked.`,
		Version: "0.9",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if *workerNumber < 1 || *workerNumber > 1000 {
				return fmt.Errorf("--workers out of range [1..1000]")
			}
			if *timeout < 10*time.Millisecond {
				return fmt.Errorf("--timeout must be at least 10ms")
			}
			if *spinnerInterval < 10*time.Millisecond {
				return fmt.Errorf("--spinner must be at least 10ms")
			}
			if err := validMethod(*method); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags are fine at this point, so any error from here on is a
			// runtime error that doesn't warrant the usage text.
			cmd.SilenceUsage = true
			logrus.SetOutput(cmd.ErrOrStderr())
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			s, addrs, err := gatherSettings(ctx, cmd, args)
			if err != nil {
				return err
			}
			return CheckAndReport(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), addrs, s)
		},
	}
	// Sets up the flags.
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	workerNumber = rootCmd.PersistentFlags().Uint(
		"workers", 50, "maximum number of probes in flight")
	timeout = rootCmd.PersistentFlags().Duration(
		"timeout", time.Second, "timeout for each individual probe")
	method = rootCmd.PersistentFlags().String(
		"method", methodICMP, "probe method: icmp, udp (unprivileged ICMP), tcp, or exec (system ping tool)")
	port = rootCmd.PersistentFlags().Uint16(
		"port", probe.DefaultTCPPort, "port to connect to for the tcp method")
	targetFile = rootCmd.PersistentFlags().StringP(
		"file", "f", "", "read addresses from file (.yaml/.yml target file, or one address per line; \"-\" for stdin)")
	resolver = rootCmd.PersistentFlags().String(
		"resolver", "", "resolve host names using this DNS server (host[:port])")
	container = rootCmd.PersistentFlags().String(
		"container", "", "probe the containers on the Docker networks of this container, from inside it")
	dedup = rootCmd.PersistentFlags().Bool(
		"dedup", false, "probe duplicate addresses only once")
	live = rootCmd.PersistentFlags().Bool(
		"live", false, "show probing progress on stderr")
	textfile = rootCmd.PersistentFlags().String(
		"textfile", "", "write Prometheus metrics of the results to this node_exporter textfile")
	spinnerInterval = rootCmd.PersistentFlags().Duration(
		"spinner", 100*time.Millisecond, "spinner interval")
	return
}

// validMethod returns an error if the specified probe method is unknown.
func validMethod(m string) error {
	switch m {
	case methodICMP, methodUDP, methodTCP, methodExec:
		return nil
	}
	return fmt.Errorf("--method must be one of %s, %s, %s, or %s; got %q",
		methodICMP, methodUDP, methodTCP, methodExec, m)
}

// gatherSettings collects the addresses to probe as well as the probe settings
// from the command line flags and arguments, from a target file, and from a
// container's Docker networks. Flags set explicitly on the command line win
// over the settings in a target file.
func gatherSettings(ctx context.Context, cmd *cobra.Command, args []string) (settings, []string, error) {
	s := settings{
		Workers:  int(*workerNumber),
		Timeout:  *timeout,
		Method:   *method,
		Port:     *port,
		Resolver: *resolver,
		Dedup:    *dedup,
		Live:     *live,
		Textfile: *textfile,
		Spinner:  *spinnerInterval,
	}
	addrs := targets.FromArgs(args)
	if *targetFile != "" {
		f, err := targets.Load(*targetFile, cmd.InOrStdin())
		if err != nil {
			return s, nil, err
		}
		addrs = append(addrs, f.Targets...)
		flags := cmd.Flags()
		if f.Workers > 0 && !flags.Changed("workers") {
			s.Workers = f.Workers
		}
		if f.Timeout > 0 && !flags.Changed("timeout") {
			s.Timeout = f.Timeout
		}
		if f.Port > 0 && !flags.Changed("port") {
			s.Port = f.Port
		}
		if f.Method != "" && !flags.Changed("method") {
			if err := validMethod(f.Method); err != nil {
				return s, nil, fmt.Errorf("target file %s: %w", *targetFile, err)
			}
			s.Method = f.Method
		}
		if err := s.validate(); err != nil {
			return s, nil, fmt.Errorf("target file %s: %w", *targetFile, err)
		}
	}
	if *container != "" {
		if s.Method != methodICMP && s.Method != methodUDP {
			return s, nil, fmt.Errorf("--container requires method %s or %s, got %s",
				methodICMP, methodUDP, s.Method)
		}
		peers, netnsref, err := discoverPeers(ctx, *container)
		if err != nil {
			return s, nil, err
		}
		addrs = append(addrs, peers...)
		s.NetNS = netnsref
	}
	if len(addrs) == 0 && *targetFile == "" && *container == "" {
		addrs = append(addrs, targets.Sample...)
	}
	return s, addrs, nil
}

// validate the settings taken from a target file.
func (s settings) validate() error {
	if s.Workers < 1 || s.Workers > 1000 {
		return fmt.Errorf("workers out of range [1..1000]")
	}
	if s.Timeout < 10*time.Millisecond {
		return fmt.Errorf("timeout must be at least 10ms")
	}
	return nil
}
