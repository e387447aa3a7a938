/*
Package targets gathers the addresses to probe: from command line arguments,
from plain address lists (one address per line, “#” comments), or from YAML
target files that additionally may carry default probe settings:

	targets:
	  - 8.8.8.8
	  - one.one.one.one
	method: tcp
	port: 53
	workers: 10
	timeout: 500ms

Addresses are taken as-is; they are neither validated nor deduplicated.
*/
package targets
