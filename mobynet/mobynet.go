// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mobynet

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/thediveo/lxkns/log"
)

// Client is the part of the Docker API client needed for discovering peer
// addresses; [github.com/docker/docker/client.Client] satisfies it.
type Client interface {
	ContainerInspect(ctx context.Context, container string) (types.ContainerJSON, error)
	NetworkInspect(ctx context.Context, network string, options types.NetworkInspectOptions) (types.NetworkResource, error)
}

// DiscoverPeerAddresses takes on the position of the “center” container
// identified by centerID and then inspects the networks attached to this
// container. It returns the IP addresses of all other containers attached to
// these networks, as well as a reference to the network namespace of the
// center container, so that the peers can be probed from the center's
// perspective.
//
// The addresses are sorted by network name and then container name; IPv4
// addresses come before IPv6 addresses of the same container.
//
// This implementation even works correctly in situations with multiple Docker
// networks having the same name, yet different IDs, as networks are inspected
// by their IDs.
func DiscoverPeerAddresses(ctx context.Context, moby Client, centerID string) ([]string, string, error) {
	// Inspect the specified container in order to get information about the
	// networks the container currently is attached to.
	centerDetails, err := moby.ContainerInspect(ctx, centerID)
	if err != nil {
		return nil, "", err
	}
	if centerDetails.ContainerJSONBase == nil || centerDetails.State == nil ||
		centerDetails.State.Pid == 0 {
		return nil, "", fmt.Errorf("container '%s' is not running", centerID)
	}
	centerName := strings.TrimPrefix(centerDetails.Name, "/") // argh, Docker's "/name" legacy!
	netnsref := fmt.Sprintf("/proc/%d/ns/net", centerDetails.State.Pid)
	if centerDetails.NetworkSettings == nil {
		return []string{}, netnsref, nil
	}

	netnames := make([]string, 0, len(centerDetails.NetworkSettings.Networks))
	for netname := range centerDetails.NetworkSettings.Networks {
		netnames = append(netnames, netname)
	}
	sort.Strings(netnames)

	addrs := []string{}
	seen := map[string]struct{}{}
	for _, netname := range netnames {
		attachedNet := centerDetails.NetworkSettings.Networks[netname]
		if attachedNet == nil {
			continue
		}
		// Inspecting an attached network gives us all the (other) containers
		// directly attached to that attached network (including the center).
		attNetDetails, err := moby.NetworkInspect(ctx, attachedNet.NetworkID, types.NetworkInspectOptions{})
		if err != nil {
			return nil, "", err
		}
		endpoints := make([]types.EndpointResource, 0, len(attNetDetails.Containers))
		for _, ep := range attNetDetails.Containers {
			// Well, do not add our own container to the resulting list.
			if ep.Name == centerName {
				continue
			}
			endpoints = append(endpoints, ep)
		}
		sort.Slice(endpoints, func(a, b int) bool { return endpoints[a].Name < endpoints[b].Name })
		for _, ep := range endpoints {
			for _, cidr := range []string{ep.IPv4Address, ep.IPv6Address} {
				addr := hostAddress(cidr)
				if addr == "" {
					continue
				}
				if _, ok := seen[addr]; ok {
					continue
				}
				seen[addr] = struct{}{}
				log.Debugf("container %s on network %s has address %s", ep.Name, netname, addr)
				addrs = append(addrs, addr)
			}
		}
	}
	return addrs, netnsref, nil
}

// hostAddress returns the IP address part of an address in CIDR notation, as
// Docker's network inspection reports endpoint addresses with their network
// prefix lengths. It returns "" if there's no usable address.
func hostAddress(cidr string) string {
	if cidr == "" {
		return ""
	}
	if ip, _, err := net.ParseCIDR(cidr); err == nil {
		return ip.String()
	}
	if ip := net.ParseIP(cidr); ip != nil {
		return ip.String()
	}
	return ""
}
