// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wigiter defines lazy cursors over genomic signal and the
// basic cursors that read signal from memory and from bedGraph files.
//
// A cursor is always positioned on its current window; it is advanced
// with Next and repositioned with Seek. Pipeline stages compose by
// wrapping one another's cursors, so a stage only ever holds the
// window it is working on.
package wigiter

import (
	"fmt"

	"github.com/wigtools/wigstat/wigfmt"
)

// A Cursor is a lazy, forward-only stream of genomic windows.
//
// Windows are produced in non-decreasing (chromosome, start) order
// and never overlap. Region and any accessors an implementation adds
// are only meaningful while Done is false, and are overwritten by
// Next and Seek.
type Cursor interface {
	// Region returns the current window.
	Region() wigfmt.Region

	// Done reports whether the stream is exhausted. Once Done
	// returns true it keeps returning true until the next Seek.
	Done() bool

	// Next advances to the next window, or marks the stream
	// exhausted.
	Next()

	// Seek restricts the stream to [start, finish) on chrom and
	// positions it on the first window overlapping that
	// interval. Windows are clipped to the interval, and the
	// stream is exhausted after the last one. If no window
	// overlaps the interval, the stream is exhausted.
	Seek(chrom string, start, finish int)

	// Err returns the error, if any, that exhausted the stream
	// early.
	Err() error
}

// An Iterator is a Cursor that carries one value per window.
type Iterator interface {
	Cursor

	// Value returns the value over the current window.
	Value() float64
}

// Entry is a window and its value.
type Entry = wigfmt.Record

// Collect drains it and returns every window it produces.
func Collect(it Iterator) ([]Entry, error) {
	var out []Entry
	for ; !it.Done(); it.Next() {
		out = append(out, Entry{Region: it.Region(), Value: it.Value()})
	}
	return out, it.Err()
}

// An OrderError reports input that is not sorted, or that contains
// overlapping windows.
type OrderError struct {
	Prev, Cur wigfmt.Region
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("window %s does not follow %s: input must be sorted and non-overlapping", e.Cur, e.Prev)
}

// checkOrder returns an *OrderError if cur cannot follow prev in a
// stream.
func checkOrder(prev, cur wigfmt.Region) error {
	if prev.Chrom == "" {
		return nil
	}
	c := wigfmt.CompareChrom(prev.Chrom, cur.Chrom)
	if c > 0 || (c == 0 && cur.Start < prev.Finish) {
		return &OrderError{prev, cur}
	}
	return nil
}

// A bounds is the restriction set up by Seek.
type bounds struct {
	set bool
	wigfmt.Region
}

// position classifies a window relative to b.
type position int

const (
	before position = iota
	inside
	after
)

func (b *bounds) place(r wigfmt.Region) position {
	if !b.set {
		return inside
	}
	c := wigfmt.CompareChrom(r.Chrom, b.Chrom)
	switch {
	case c < 0 || (c == 0 && r.Finish <= b.Start):
		return before
	case c > 0 || r.Start >= b.Finish:
		return after
	}
	return inside
}

// clip returns r restricted to b. r must be inside b.
func (b *bounds) clip(r wigfmt.Region) wigfmt.Region {
	if !b.set {
		return r
	}
	if r.Start < b.Start {
		r.Start = b.Start
	}
	if r.Finish > b.Finish {
		r.Finish = b.Finish
	}
	return r
}
