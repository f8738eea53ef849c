// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wigsync aligns several signal tracks into a single stream
// of synchronized windows.
//
// Tracks are organized in groups, as for a comparison between a set
// of treatment tracks and a set of control tracks. Each window of a
// Multiset is a maximal interval over which every track either has
// one constant value or has no data at all.
package wigsync

import (
	"errors"

	"github.com/wigtools/wigstat/wigfmt"
	"github.com/wigtools/wigstat/wigiter"
)

// A Multiset is a wigiter.Cursor over the synchronized windows of
// groups of tracks.
//
// For the current window, InPlay(g)[i] reports whether track i of
// group g has data over the window, and Values(g)[i] is that data.
// Values of tracks that are not in play are zero. The returned slices
// are owned by the Multiset and overwritten by Next and Seek.
type Multiset struct {
	groups      [][]wigiter.Iterator
	inPlay      [][]bool
	values      [][]float64
	groupInPlay []bool

	region  wigfmt.Region
	started bool
	done    bool
	err     error
}

// New returns a Multiset over groups, positioned on its first window.
// It takes ownership of the iterators. A group may be empty.
func New(groups ...[]wigiter.Iterator) (*Multiset, error) {
	if len(groups) == 0 {
		return nil, errors.New("wigsync: no groups")
	}
	m := &Multiset{
		groups:      groups,
		inPlay:      make([][]bool, len(groups)),
		values:      make([][]float64, len(groups)),
		groupInPlay: make([]bool, len(groups)),
	}
	for g, its := range groups {
		m.inPlay[g] = make([]bool, len(its))
		m.values[g] = make([]float64, len(its))
	}
	m.align()
	return m, nil
}

// Groups returns the number of groups.
func (m *Multiset) Groups() int { return len(m.groups) }

// Tracks returns the number of tracks in group g.
func (m *Multiset) Tracks(g int) int { return len(m.groups[g]) }

// GroupInPlay reports whether any track of group g has data over the
// current window.
func (m *Multiset) GroupInPlay(g int) bool { return m.groupInPlay[g] }

// InPlay returns the per-track data flags of group g.
func (m *Multiset) InPlay(g int) []bool { return m.inPlay[g] }

// Values returns the per-track values of group g.
func (m *Multiset) Values(g int) []float64 { return m.values[g] }

func (m *Multiset) Region() wigfmt.Region { return m.region }

func (m *Multiset) Done() bool { return m.done }

func (m *Multiset) Err() error { return m.err }

func (m *Multiset) Next() {
	if m.done {
		return
	}
	// Advance every track whose window ends with the current
	// one. Tracks that extend past it stay where they are and
	// are clipped by align.
	for g, its := range m.groups {
		for i, it := range its {
			if m.inPlay[g][i] && it.Region().Finish == m.region.Finish {
				it.Next()
			}
		}
	}
	m.align()
}

func (m *Multiset) Seek(chrom string, start, finish int) {
	for _, its := range m.groups {
		for _, it := range its {
			it.Seek(chrom, start, finish)
		}
	}
	m.region = wigfmt.Region{}
	m.started, m.done, m.err = false, false, nil
	m.align()
}

// align computes the window starting at the lowest uncovered position
// of all tracks.
func (m *Multiset) align() {
	// Pick the lowest chromosome among live tracks.
	var chrom string
	live := false
	for _, its := range m.groups {
		for _, it := range its {
			if err := it.Err(); err != nil {
				m.err = err
				m.done = true
				return
			}
			if it.Done() {
				continue
			}
			if c := it.Region().Chrom; !live || wigfmt.CompareChrom(c, chrom) < 0 {
				chrom, live = c, true
			}
		}
	}
	if !live {
		m.done = true
		return
	}

	// Positions before floor have already been emitted.
	floor := -1
	if m.started && chrom == m.region.Chrom {
		floor = m.region.Finish
	}
	effStart := func(r wigfmt.Region) int {
		if r.Start < floor {
			return floor
		}
		return r.Start
	}

	start, finish := -1, -1
	for _, its := range m.groups {
		for _, it := range its {
			if it.Done() || it.Region().Chrom != chrom {
				continue
			}
			if s := effStart(it.Region()); start < 0 || s < start {
				start = s
			}
		}
	}
	// The window ends at the first boundary of any track after
	// start: the end of a track that is in play, or the start of
	// one that is not yet.
	for _, its := range m.groups {
		for _, it := range its {
			if it.Done() || it.Region().Chrom != chrom {
				continue
			}
			r := it.Region()
			end := r.Finish
			if s := effStart(r); s > start {
				end = s
			}
			if finish < 0 || end < finish {
				finish = end
			}
		}
	}

	m.region = wigfmt.Region{Chrom: chrom, Start: start, Finish: finish}
	m.started = true
	for g, its := range m.groups {
		m.groupInPlay[g] = false
		for i, it := range its {
			r := it.Region()
			in := !it.Done() && r.Chrom == chrom && effStart(r) <= start
			m.inPlay[g][i] = in
			if in {
				m.values[g][i] = it.Value()
				m.groupInPlay[g] = true
			} else {
				m.values[g][i] = 0
			}
		}
	}
}
