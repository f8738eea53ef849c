// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wigfmt provides a streaming reader and writer for the
// bedGraph signal track format.
//
// The reader and writer are structured as streaming operations so
// that tracks spanning whole genomes can be processed one record at a
// time without being held in memory.
//
// Each data line of a bedGraph file has four whitespace-separated
// fields:
//
//	chrom start finish value
//
// where [start, finish) is a zero-based half-open interval and value
// is a finite number. Blank
// lines, comment lines starting with '#', and "track" and "browser"
// header lines are ignored.
package wigfmt

import (
	"fmt"
	"strconv"
	"strings"
)

// Region is a half-open interval [Start, Finish) on a chromosome.
type Region struct {
	Chrom         string
	Start, Finish int
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.Finish)
}

// Len returns the number of bases covered by r.
func (r Region) Len() int {
	return r.Finish - r.Start
}

// Less reports whether r sorts before r2 in genomic order: by
// chromosome name, then by start coordinate.
func (r Region) Less(r2 Region) bool {
	if c := CompareChrom(r.Chrom, r2.Chrom); c != 0 {
		return c < 0
	}
	return r.Start < r2.Start
}

// CompareChrom orders chromosome names. Names are compared
// lexically, which is the order produced by "sort -k1,1" and
// expected of sorted bedGraph input.
func CompareChrom(a, b string) int {
	return strings.Compare(a, b)
}

// ParseRegion parses a region of the form "chrom:start-finish". The
// form "chrom" alone denotes the whole chromosome.
func ParseRegion(s string) (Region, error) {
	colon := strings.LastIndexByte(s, ':')
	if colon < 0 {
		if s == "" {
			return Region{}, fmt.Errorf("empty region")
		}
		return Region{Chrom: s, Start: 0, Finish: maxCoord}, nil
	}
	chrom, span := s[:colon], s[colon+1:]
	dash := strings.IndexByte(span, '-')
	if chrom == "" || dash < 0 {
		return Region{}, fmt.Errorf("malformed region %q: want chrom:start-finish", s)
	}
	// Accept 1,000,000 style coordinates.
	start, err := strconv.Atoi(strings.ReplaceAll(span[:dash], ",", ""))
	if err != nil {
		return Region{}, fmt.Errorf("malformed region %q: %w", s, err)
	}
	finish, err := strconv.Atoi(strings.ReplaceAll(span[dash+1:], ",", ""))
	if err != nil {
		return Region{}, fmt.Errorf("malformed region %q: %w", s, err)
	}
	if start < 0 || finish <= start {
		return Region{}, fmt.Errorf("malformed region %q: empty interval", s)
	}
	return Region{chrom, start, finish}, nil
}

// maxCoord is the finish of a region covering a whole chromosome.
const maxCoord = int(^uint32(0) >> 1)

// Record is a single bedGraph data line: a region and the signal
// value over it.
type Record struct {
	Region
	Value float64
}
