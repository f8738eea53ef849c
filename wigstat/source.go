// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wigstat compares two groups of signal tracks window by
// window.
//
// A comparison reads a synchronized stream of windows (see package
// wigsync) and is itself a wigiter.Iterator whose value over each
// window is the p-value of a two-sample test between the groups. It
// pulls from its source only when its own Next is called, and holds
// no more than one window at a time, so it can run over whole genomes
// and compose with any other stage.
//
// Windows over which the test is undefined, because a group has no
// data or neither group has any spread, are skipped: they produce no
// output window.
package wigstat

import (
	"fmt"

	"github.com/wigtools/wigstat/wigiter"
)

// A Source is a synchronized stream of windows over groups of tracks.
// *wigsync.Multiset is a Source.
//
// The slices returned by InPlay and Values describe the current
// window only and may be overwritten by Next and Seek.
type Source interface {
	wigiter.Cursor

	// Groups returns the number of groups.
	Groups() int

	// Tracks returns the number of tracks in group g.
	Tracks(g int) int

	// GroupInPlay reports whether any track of group g has data
	// over the current window.
	GroupInPlay(g int) bool

	// InPlay returns, for each track of group g, whether it has
	// data over the current window.
	InPlay(g int) []bool

	// Values returns the value of each track of group g over the
	// current window. Only values of tracks in play are
	// meaningful.
	Values(g int) []float64
}

// A ConfigError reports a Source that a test cannot be run on.
type ConfigError struct {
	Test string // name of the test
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Test, e.Msg)
}

// Counts tallies what a comparison did with its source windows.
type Counts struct {
	// Emitted is the number of windows produced.
	Emitted int

	// NoData is the number of source windows passed over because
	// a group had no track in play.
	NoData int

	// Degenerate is the number of windows skipped because the
	// statistic was undefined.
	Degenerate int
}

// bothInPlay reports whether both groups of src have data over the
// current window.
func bothInPlay(src Source) bool {
	return src.GroupInPlay(0) && src.GroupInPlay(1)
}
