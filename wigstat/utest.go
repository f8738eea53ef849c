// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wigstat

import (
	"math"
	"sort"

	"github.com/wigtools/wigstat/wigfmt"
)

// MannWhitney is a comparison by the Mann-Whitney U test (also known
// as the Wilcoxon rank-sum test).
//
// Over each window where both groups have data, every track of each
// group contributes one observation: its value if it is in play and
// zero otherwise. The value of the window is the two-tailed p-value of
// the U statistic of group 0 under the normal approximation, with
// tied observations sharing credit equally between the groups. The
// variance of U is not corrected for ties. Windows with a NaN
// observation are skipped as degenerate.
type MannWhitney struct {
	src    Source
	n1, n2 int

	// table holds the pooled observations of the current window.
	// It is sized n1+n2 once and reused for every window.
	table []rankEntry

	// Normal approximation of U under the null hypothesis.
	muU, sigmaU float64

	region wigfmt.Region
	u      float64
	value  float64
	done   bool
	counts Counts
}

type rankEntry struct {
	value  float64
	group1 bool
}

// NewMannWhitney returns a Mann-Whitney U comparison over src,
// positioned on its first window. src must have exactly two groups,
// neither of them empty.
func NewMannWhitney(src Source) (*MannWhitney, error) {
	if src.Groups() != 2 {
		return nil, &ConfigError{"Mann-Whitney U test", "needs exactly two groups of tracks"}
	}
	n1, n2 := src.Tracks(0), src.Tracks(1)
	if n1 == 0 || n2 == 0 {
		return nil, &ConfigError{"Mann-Whitney U test", "needs two non-empty groups of tracks"}
	}
	m1, m2 := float64(n1), float64(n2)
	m := &MannWhitney{
		src:    src,
		n1:     n1,
		n2:     n2,
		table:  make([]rankEntry, n1+n2),
		muU:    m1 * m2 / 2,
		sigmaU: math.Sqrt(m1 * m2 * (m1 + m2 + 1) / 12),
	}
	m.Next()
	return m, nil
}

func (m *MannWhitney) Region() wigfmt.Region { return m.region }

func (m *MannWhitney) Value() float64 { return m.value }

func (m *MannWhitney) Done() bool { return m.done }

func (m *MannWhitney) Err() error { return m.src.Err() }

// U returns the U statistic of group 0 over the current window.
func (m *MannWhitney) U() float64 { return m.u }

// Counts returns the running tally of windows emitted and skipped.
func (m *MannWhitney) Counts() Counts { return m.counts }

func (m *MannWhitney) Next() {
	if m.done {
		return
	}
	for ; !m.src.Done(); m.src.Next() {
		if !bothInPlay(m.src) {
			m.counts.NoData++
			continue
		}
		if !m.fill() {
			m.counts.Degenerate++
			continue
		}
		m.u = m.rankSum()
		m.value = normalTwoTailed((m.u - m.muU) / m.sigmaU)
		m.region = m.src.Region()
		m.counts.Emitted++
		m.src.Next()
		return
	}
	m.done = true
}

func (m *MannWhitney) Seek(chrom string, start, finish int) {
	m.src.Seek(chrom, start, finish)
	m.done = false
	m.Next()
}

// fill loads the source's current window into the table and sorts it.
// It returns false, leaving the table unsorted, if an observation is
// NaN and so cannot be ranked.
func (m *MannWhitney) fill() bool {
	k := 0
	for g, n := range [2]int{m.n1, m.n2} {
		inPlay, values := m.src.InPlay(g), m.src.Values(g)
		for i := 0; i < n; i++ {
			v := 0.0
			if inPlay[i] {
				v = values[i]
				if math.IsNaN(v) {
					return false
				}
			}
			m.table[k] = rankEntry{v, g == 1}
			k++
		}
	}
	sort.Slice(m.table, func(i, j int) bool {
		return m.table[i].value < m.table[j].value
	})
	return true
}

// rankSum returns U for group 0 over the sorted table: the number of
// (x, y) pairs with x from group 0, y from group 1 and x > y, plus half
// the number of pairs with x == y.
func (m *MannWhitney) rankSum() float64 {
	var u float64
	below1 := 0 // group 1 entries in earlier runs
	seen0 := 0
	for i := 0; i < len(m.table) && seen0 < m.n1; {
		// Count the run of entries equal to table[i].
		j, a, b := i, 0, 0
		for ; j < len(m.table) && (j == i || m.table[j].value == m.table[i].value); j++ {
			if m.table[j].group1 {
				b++
			} else {
				a++
			}
		}
		u += float64(a*below1) + float64(a*b)/2
		below1 += b
		seen0 += a
		i = j
	}
	return u
}
