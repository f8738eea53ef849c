// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wigiter

import (
	"github.com/wigtools/wigstat/wigfmt"
)

// File is an Iterator that streams a track from one or more bedGraph
// files. Records must be sorted and non-overlapping across the whole
// sequence of files.
//
// Nothing is read until the File is first used. Seek rewinds to the
// first file and scans forward, so it costs a read of everything
// before the target. A File that reads standard input can be seeked
// only before it is otherwise used.
type File struct {
	files   wigfmt.Files
	bounds  bounds
	prev    wigfmt.Region
	cur     wigfmt.Record
	started bool
	done    bool
	err     error
}

// NewFile returns an Iterator over the track stored in paths, read in
// order. The path "-" denotes standard input.
func NewFile(paths ...string) *File {
	return &File{files: wigfmt.Files{Paths: paths, AllowStdin: true}}
}

// start reads the first record if nothing has been read yet.
func (f *File) start() {
	if !f.started {
		f.started = true
		f.advance()
	}
}

func (f *File) Region() wigfmt.Region {
	f.start()
	return f.cur.Region
}

func (f *File) Value() float64 {
	f.start()
	return f.cur.Value
}

func (f *File) Done() bool {
	f.start()
	return f.done
}

func (f *File) Err() error {
	f.start()
	return f.err
}

func (f *File) Next() {
	f.start()
	if f.done {
		return
	}
	f.advance()
}

// advance reads records until one falls inside the bounds, the
// bounds are passed, or the input ends.
func (f *File) advance() {
	for f.files.Scan() {
		rec, err := f.files.Record()
		if err != nil {
			f.fail(err)
			return
		}
		if err := checkOrder(f.prev, rec.Region); err != nil {
			f.fail(err)
			return
		}
		f.prev = rec.Region
		switch f.bounds.place(rec.Region) {
		case before:
			continue
		case after:
			f.finish()
			return
		}
		f.cur = *rec
		f.cur.Region = f.bounds.clip(rec.Region)
		return
	}
	if err := f.files.Err(); err != nil {
		f.fail(err)
		return
	}
	f.finish()
}

func (f *File) fail(err error) {
	f.err = err
	f.finish()
}

func (f *File) finish() {
	f.done = true
	f.files.Close()
}

func (f *File) Seek(chrom string, start, finish int) {
	f.started = true
	if err := f.files.Rewind(); err != nil {
		f.fail(err)
		return
	}
	f.bounds = bounds{true, wigfmt.Region{Chrom: chrom, Start: start, Finish: finish}}
	f.prev = wigfmt.Region{}
	f.done, f.err = false, nil
	f.advance()
}

// Close releases any open file. It is only needed when a File is
// abandoned before it is exhausted.
func (f *File) Close() error {
	return f.files.Close()
}
