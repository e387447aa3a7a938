// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/siemens/reachable/mobynet"

	"github.com/docker/docker/client"
)

// discoverPeers returns the addresses of all containers sharing Docker
// networks with the named container, as well as the network namespace of that
// container.
func discoverPeers(ctx context.Context, containerName string) ([]string, string, error) {
	cln, err := client.NewClientWithOpts(
		client.WithHost("unix:///var/run/docker.sock"),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("cannot connect to the Docker daemon: %w", err)
	}
	defer cln.Close()
	addrs, netnsref, err := mobynet.DiscoverPeerAddresses(ctx, cln, containerName)
	if err != nil {
		return nil, "", fmt.Errorf("cannot discover peers of container %s: %w", containerName, err)
	}
	return addrs, netnsref, nil
}
