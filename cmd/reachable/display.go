// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/siemens/reachable/types"
)

// renderer renders the live terminal display of a probe batch, based on the
// verdicts passed to its Render method.
type renderer struct {
	Indentation int
	w           io.Writer
	spinner     *spinner
}

// newRenderer returns a renderer rendering to the specified io.Writer, with
// its spinner stepping at the specified interval.
func newRenderer(w io.Writer, interval time.Duration) *renderer {
	return &renderer{
		Indentation: 2,
		w:           w,
		spinner:     newSpinner(interval),
	}
}

// Stop the renderer's background ticker.
func (r *renderer) Stop() {
	r.spinner.Stop()
}

// Render the given verdicts, one address per line in batch order, below a
// summary line.
func (r *renderer) Render(results []types.ProbeResult) {
	var pending, up, down int
	// For neat display, determine the length of the longest address so that
	// the error details column doesn't zig-zag around.
	maxlen := 0
	for _, result := range results {
		switch {
		case result.Quality.IsPending():
			pending++
		case result.Reachable():
			up++
		default:
			down++
		}
		if l := len(result.Address); l > maxlen {
			maxlen = l
		}
	}
	fmt.Fprintf(r.w, "probing %d addresses: %s, %s, %d pending\n",
		len(results),
		reachableStyle.Styled(fmt.Sprintf("%d reachable", up)),
		unreachableStyle.Styled(fmt.Sprintf("%d unreachable", down)),
		pending)
	for _, result := range results {
		r.renderResult(maxlen, result)
	}
}

// renderResult renders a single verdict.
func (r *renderer) renderResult(width int, result types.ProbeResult) {
	fmt.Fprintf(r.w, "%-*s", r.Indentation, "")
	switch result.Quality {
	case types.Unprobed:
		fmt.Fprintf(r.w, " ? %s", result.Address)
	case types.Probing:
		fmt.Fprint(r.w, probingStyle.Styled(" "+r.spinner.Spinner()+result.Address+" "))
	case types.Reachable:
		fmt.Fprint(r.w, reachableStyle.Styled(" ✔ "+result.Address+" "))
	case types.Unreachable:
		fmt.Fprint(r.w, unreachableStyle.Styled(fmt.Sprintf(" × %-*s ", width, result.Address)))
		if err := result.Err(); err != nil {
			fmt.Fprint(r.w, " ", detailStyle.Styled(err.Error()))
		}
	}
	fmt.Fprintln(r.w)
}
