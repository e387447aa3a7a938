// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package targets

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sample is the built-in batch checked when no addresses have been given:
// some public DNS resolvers, together with two addresses from the
// documentation ranges that never answer.
var Sample = []string{
	"8.8.8.8",
	"1.1.1.1",
	"192.0.2.1",
	"9.9.9.9",
	"198.51.100.1",
	"208.67.222.222",
}

// File is a list of addresses to probe, optionally together with default
// probe settings. Zero settings mean “not specified”.
type File struct {
	// Targets lists the addresses to probe, in order.
	Targets []string `yaml:"targets"`

	// Method names the probe method: icmp | udp | tcp | exec.
	Method string `yaml:"method"`

	// Workers is the maximum number of probes in flight.
	Workers int `yaml:"workers"`

	// Timeout limits each individual probe.
	Timeout time.Duration `yaml:"timeout"`

	// Port is the port to connect to for the tcp method.
	Port uint16 `yaml:"port"`
}

// FromArgs returns the non-blank addresses from the specified arguments with
// surrounding white space removed, keeping order and duplicates.
func FromArgs(args []string) []string {
	addrs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg = strings.TrimSpace(arg); arg != "" {
			addrs = append(addrs, arg)
		}
	}
	return addrs
}

// FromReader reads addresses, one per line. Blank lines as well as comments
// starting with “#” are skipped.
func FromReader(r io.Reader) ([]string, error) {
	addrs := []string{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if hash := strings.IndexByte(line, '#'); hash >= 0 {
			line = line[:hash]
		}
		if line = strings.TrimSpace(line); line != "" {
			addrs = append(addrs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read addresses: %w", err)
	}
	return addrs, nil
}

// Load reads a target file. Files ending in “.yaml” or “.yml” are decoded as
// YAML [File] documents, all other files are read as address lists, see
// [FromReader]. The path “-” reads an address list from stdin instead.
func Load(path string, stdin io.Reader) (*File, error) {
	if path == "-" {
		addrs, err := FromReader(stdin)
		if err != nil {
			return nil, err
		}
		return &File{Targets: addrs}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read target file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return Parse(data)
	}
	addrs, err := FromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot read target file %s: %w", path, err)
	}
	return &File{Targets: addrs}, nil
}

// Parse decodes a YAML target document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("cannot parse target file: %w", err)
	}
	f.Targets = FromArgs(f.Targets)
	if f.Workers < 0 {
		return nil, fmt.Errorf("target file: workers must not be negative, got: %d", f.Workers)
	}
	if f.Timeout < 0 {
		return nil, fmt.Errorf("target file: timeout must not be negative, got: %s", f.Timeout)
	}
	return &f, nil
}
