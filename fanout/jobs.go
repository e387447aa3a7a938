// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package fanout

// job is a single probe to carry out, together with the batch positions
// waiting for its verdict.
type job struct {
	addr      string
	positions []int
}

// newJobs returns the probe jobs for the specified batch of addresses, in the
// order of the addresses. Without deduplication, each batch position gets its
// own job. With deduplication, all positions of the same address share the job
// of the address' first occurrence, so that the address gets probed only once
// and the verdict then distributed to all positions at once.
func newJobs(addrs []string, dedup bool) []job {
	jobs := make([]job, 0, len(addrs))
	if !dedup {
		for idx, addr := range addrs {
			jobs = append(jobs, job{addr: addr, positions: []int{idx}})
		}
		return jobs
	}
	seen := map[string]int{} // address -> index into jobs
	for idx, addr := range addrs {
		if jobidx, ok := seen[addr]; ok {
			jobs[jobidx].positions = append(jobs[jobidx].positions, idx)
			continue
		}
		seen[addr] = len(jobs)
		jobs = append(jobs, job{addr: addr, positions: []int{idx}})
	}
	return jobs
}
