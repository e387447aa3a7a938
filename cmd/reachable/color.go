// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	probingStyle     = termenv.Style{}.Foreground(termenv.ANSIYellow)
	reachableStyle   = termenv.Style{}.Foreground(termenv.ANSIGreen)
	unreachableStyle = termenv.Style{}.Foreground(termenv.ANSIRed)
)

var detailStyle = termenv.Style{}.Faint()
