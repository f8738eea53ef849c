// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wigiter

import (
	"sort"

	"github.com/wigtools/wigstat/wigfmt"
)

// Slice is an Iterator over windows held in memory.
type Slice struct {
	entries []Entry
	pos     int
	bounds  bounds
	cur     wigfmt.Region
	err     error
}

// NewSlice returns an Iterator over entries, which must be sorted and
// non-overlapping. The caller must not modify entries afterwards.
// If entries are out of order, the iterator is exhausted immediately
// and Err returns an *OrderError.
func NewSlice(entries []Entry) *Slice {
	s := &Slice{entries: entries}
	for i := 1; i < len(entries); i++ {
		if err := checkOrder(entries[i-1].Region, entries[i].Region); err != nil {
			s.err = err
			s.pos = len(entries)
			return s
		}
	}
	s.settle()
	return s
}

func (s *Slice) Region() wigfmt.Region { return s.cur }

func (s *Slice) Value() float64 { return s.entries[s.pos].Value }

func (s *Slice) Done() bool { return s.pos >= len(s.entries) }

func (s *Slice) Err() error { return s.err }

func (s *Slice) Next() {
	if s.Done() {
		return
	}
	s.pos++
	s.settle()
}

// settle positions s on the current entry if it is inside the bounds,
// and exhausts s otherwise.
func (s *Slice) settle() {
	if s.Done() {
		return
	}
	r := s.entries[s.pos].Region
	if s.bounds.place(r) != inside {
		s.pos = len(s.entries)
		return
	}
	s.cur = s.bounds.clip(r)
}

func (s *Slice) Seek(chrom string, start, finish int) {
	if s.err != nil {
		return
	}
	s.bounds = bounds{true, wigfmt.Region{Chrom: chrom, Start: start, Finish: finish}}
	// Find the first entry not entirely before the bounds.
	s.pos = sort.Search(len(s.entries), func(i int) bool {
		return s.bounds.place(s.entries[i].Region) != before
	})
	s.settle()
}
