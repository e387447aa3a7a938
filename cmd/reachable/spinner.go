// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Yet another (braille) spinner.

package main

import (
	"sync"
	"time"
)

// spinner is yet another blindingly simple spinner; just enough to get the job
// done, no bells, no frills.
type spinner struct {
	phases []string
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex
	phase  int
}

// newSpinner returns a new spinner that immediately starts spinning in steps
// every specified interval; call the Stop method to stop it and release its
// background resources.
func newSpinner(interval time.Duration) *spinner {
	phases := []string{}
	for _, r := range "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏" {
		phases = append(phases, string(r)+" ")
	}
	s := &spinner{
		phases: phases,
		done:   make(chan struct{}),
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.step()
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Spinner returns the spinner string for the current phase.
func (s *spinner) Spinner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phases[s.phase]
}

// step advances to the next phase, wrapping around after the last phase.
func (s *spinner) step() {
	s.mu.Lock()
	s.phase = (s.phase + 1) % len(s.phases)
	s.mu.Unlock()
}

// Stop the spinner and release the background resources. Stopping an already
// stopped spinner is a no-op.
func (s *spinner) Stop() {
	s.once.Do(func() { close(s.done) })
}
