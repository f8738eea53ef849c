// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wigstat

import (
	"math"

	"github.com/wigtools/wigstat/wigfmt"
)

// TTest is a comparison by Welch's two-sample t-test.
//
// Over each window, the sample of group g is the values of its tracks
// that are in play. The value of the window is the two-tailed p-value
// of Welch's t-test between the samples, using population variances
// and Welch–Satterthwaite degrees of freedom. Windows where a group
// has no data are skipped. So are windows where neither sample has any
// spread or where a value is not finite; these count as degenerate.
type TTest struct {
	src       Source
	region    wigfmt.Region
	value     float64
	tstat, nu float64
	done      bool
	counts    Counts
}

// NewTTest returns a t-test comparison over src, positioned on its
// first window. src must have exactly two groups with at least three
// tracks between them.
func NewTTest(src Source) (*TTest, error) {
	if src.Groups() != 2 {
		return nil, &ConfigError{"t-test", "needs exactly two groups of tracks"}
	}
	if src.Tracks(0)+src.Tracks(1) < 3 {
		return nil, &ConfigError{"t-test", "needs at least three tracks to estimate variance"}
	}
	t := &TTest{src: src}
	t.Next()
	return t, nil
}

func (t *TTest) Region() wigfmt.Region { return t.region }

func (t *TTest) Value() float64 { return t.value }

func (t *TTest) Done() bool { return t.done }

func (t *TTest) Err() error { return t.src.Err() }

// T returns the absolute t statistic over the current window.
func (t *TTest) T() float64 { return t.tstat }

// DoF returns the degrees of freedom over the current window.
func (t *TTest) DoF() float64 { return t.nu }

// Counts returns the running tally of windows emitted and skipped.
func (t *TTest) Counts() Counts { return t.counts }

func (t *TTest) Next() {
	if t.done {
		return
	}
	for ; !t.src.Done(); t.src.Next() {
		if !bothInPlay(t.src) {
			t.counts.NoData++
			continue
		}
		tstat, nu, ok := t.test()
		if !ok {
			t.counts.Degenerate++
			continue
		}
		t.region = t.src.Region()
		t.tstat, t.nu = tstat, nu
		t.value = 2 * studentTQ(tstat, nu)
		t.counts.Emitted++
		t.src.Next()
		return
	}
	t.done = true
}

func (t *TTest) Seek(chrom string, start, finish int) {
	t.src.Seek(chrom, start, finish)
	t.done = false
	t.Next()
}

// test computes the t statistic and degrees of freedom over the
// source's current window. ok is false if they are undefined there.
func (t *TTest) test() (tstat, nu float64, ok bool) {
	var s [2]welford
	for g := range s {
		inPlay, values := t.src.InPlay(g), t.src.Values(g)
		for i, in := range inPlay {
			if in {
				s[g].add(values[i])
			}
		}
		if s[g].n == 0 {
			return 0, 0, false
		}
	}

	n1, n2 := float64(s[0].n), float64(s[1].n)
	se1, se2 := s[0].variance()/n1, s[1].variance()/n2
	se := se1 + se2
	// Also rejects non-finite input, which makes se NaN or +Inf.
	if !(se > 0) || math.IsInf(se, 1) {
		return 0, 0, false
	}
	tstat = math.Abs(s[0].mean-s[1].mean) / math.Sqrt(se)

	// Welch–Satterthwaite, with each group's share of se as its
	// weight so that the result does not underflow for tiny
	// variances. A group without spread contributes nothing,
	// which also covers a group of one track, where n-1 is zero.
	var denom float64
	if se1 > 0 {
		w := se1 / se
		denom += w * w / (n1 - 1)
	}
	if se2 > 0 {
		w := se2 / se
		denom += w * w / (n2 - 1)
	}
	nu = 1 / denom
	if math.IsNaN(tstat) || !(nu > 0) || math.IsInf(nu, 1) {
		return 0, 0, false
	}
	return tstat, nu, true
}
