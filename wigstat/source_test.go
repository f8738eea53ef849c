// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wigstat

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wigtools/wigstat/wigfmt"
	"github.com/wigtools/wigstat/wigiter"
	"github.com/wigtools/wigstat/wigsync"
)

// out marks a track that is not in play in a fakeSource window.
var out = math.NaN()

type fakeWindow struct {
	region wigfmt.Region
	groups [][]float64
}

// fakeSource is a Source that replays a fixed list of windows.
type fakeSource struct {
	windows []fakeWindow
	tracks  []int

	// sel is the indexes of windows selected by the last Seek.
	sel []int
	pos int

	inPlay [][]bool
	values [][]float64
}

// newFakeSource returns a Source over windows. Each window gives the
// values of every track of every group, with out for tracks not in
// play.
func newFakeSource(windows ...fakeWindow) *fakeSource {
	s := &fakeSource{windows: windows}
	for _, v := range windows[0].groups {
		s.tracks = append(s.tracks, len(v))
		s.inPlay = append(s.inPlay, make([]bool, len(v)))
		s.values = append(s.values, make([]float64, len(v)))
	}
	for i := range windows {
		s.sel = append(s.sel, i)
	}
	s.load()
	return s
}

func win(chrom string, start, finish int, groups ...[]float64) fakeWindow {
	return fakeWindow{wigfmt.Region{Chrom: chrom, Start: start, Finish: finish}, groups}
}

func (s *fakeSource) load() {
	if s.Done() {
		return
	}
	w := s.windows[s.sel[s.pos]]
	for g, vals := range w.groups {
		for i, v := range vals {
			s.inPlay[g][i] = !math.IsNaN(v)
			s.values[g][i] = 0
			if s.inPlay[g][i] {
				s.values[g][i] = v
			}
		}
	}
}

func (s *fakeSource) Region() wigfmt.Region { return s.windows[s.sel[s.pos]].region }
func (s *fakeSource) Done() bool { return s.pos >= len(s.sel) }
func (s *fakeSource) Err() error { return nil }
func (s *fakeSource) Groups() int { return len(s.tracks) }
func (s *fakeSource) Tracks(g int) int { return s.tracks[g] }
func (s *fakeSource) InPlay(g int) []bool { return s.inPlay[g] }
func (s *fakeSource) Values(g int) []float64 { return s.values[g] }

func (s *fakeSource) GroupInPlay(g int) bool {
	for _, in := range s.inPlay[g] {
		if in {
			return true
		}
	}
	return false
}

func (s *fakeSource) Next() {
	if s.Done() {
		return
	}
	s.pos++
	s.load()
}

func (s *fakeSource) Seek(chrom string, start, finish int) {
	s.sel, s.pos = s.sel[:0], 0
	for i, w := range s.windows {
		if w.region.Chrom == chrom && w.region.Finish > start && w.region.Start < finish {
			s.sel = append(s.sel, i)
		}
	}
	s.load()
}

// inPlaySource returns a Multiset whose tracks have data over every
// one of windows, with the values given there. Unlike newFakeSource,
// NaN is an ordinary value.
func inPlaySource(t *testing.T, windows ...fakeWindow) *wigsync.Multiset {
	t.Helper()
	groups := make([][]wigiter.Iterator, len(windows[0].groups))
	for g, vals := range windows[0].groups {
		for i := range vals {
			var entries []wigiter.Entry
			for _, w := range windows {
				entries = append(entries, wigiter.Entry{Region: w.region, Value: w.groups[g][i]})
			}
			groups[g] = append(groups[g], wigiter.NewSlice(entries))
		}
	}
	m, err := wigsync.New(groups...)
	require.NoError(t, err)
	return m
}

// comparison is the common surface of TTest and MannWhitney.
type comparison interface {
	wigiter.Iterator
	Counts() Counts
}

type output struct {
	region wigfmt.Region
	p      float64
}

func collect(t *testing.T, c comparison) []output {
	t.Helper()
	var outs []output
	for ; !c.Done(); c.Next() {
		outs = append(outs, output{c.Region(), c.Value()})
	}
	require.NoError(t, c.Err())
	return outs
}

// randomMultiset returns a Multiset over n1 and n2 random tracks.
// Values are small integers so that ties are common.
func randomMultiset(t *testing.T, rng *rand.Rand, n1, n2 int) *wigsync.Multiset {
	t.Helper()
	randomTrack := func() wigiter.Iterator {
		var entries []wigiter.Entry
		for _, chrom := range []string{"chr1", "chr2"} {
			pos := rng.Intn(5)
			for pos < 200 {
				n := 1 + rng.Intn(20)
				if rng.Intn(4) > 0 {
					entries = append(entries, wigiter.Entry{
						Region: wigfmt.Region{Chrom: chrom, Start: pos, Finish: pos + n},
						Value:  float64(rng.Intn(6)),
					})
				}
				pos += n
			}
		}
		return wigiter.NewSlice(entries)
	}
	var g0, g1 []wigiter.Iterator
	for i := 0; i < n1; i++ {
		g0 = append(g0, randomTrack())
	}
	for i := 0; i < n2; i++ {
		g1 = append(g1, randomTrack())
	}
	m, err := wigsync.New(g0, g1)
	require.NoError(t, err)
	return m
}

// testMonotonic checks that outs are ordered and disjoint.
func testMonotonic(t *testing.T, outs []output) {
	t.Helper()
	for i := 1; i < len(outs); i++ {
		prev, cur := outs[i-1].region, outs[i].region
		require.True(t, prev.Less(cur), "%v then %v", prev, cur)
		if prev.Chrom == cur.Chrom {
			require.LessOrEqual(t, prev.Finish, cur.Start, "%v overlaps %v", prev, cur)
		}
	}
}

// testExhaustion drains c and checks that further calls to Next are
// no-ops.
func testExhaustion(t *testing.T, c comparison) {
	t.Helper()
	for !c.Done() {
		c.Next()
	}
	region, value, counts := c.Region(), c.Value(), c.Counts()
	for i := 0; i < 3; i++ {
		c.Next()
		require.True(t, c.Done())
		require.Equal(t, region, c.Region())
		require.Equal(t, counts, c.Counts())
		if !math.IsNaN(value) {
			require.Equal(t, value, c.Value())
		}
	}
}

// testReseek checks that seeking twice to the same region reproduces
// the same output.
func testReseek(t *testing.T, c comparison, chrom string, start, finish int) {
	t.Helper()
	c.Seek(chrom, start, finish)
	first := collect(t, c)
	require.NotEmpty(t, first)
	c.Seek(chrom, start, finish)
	second := collect(t, c)
	require.Equal(t, first, second)
	for _, o := range first {
		require.Equal(t, chrom, o.region.Chrom)
		require.GreaterOrEqual(t, o.region.Start, start)
		require.LessOrEqual(t, o.region.Finish, finish)
	}
}
