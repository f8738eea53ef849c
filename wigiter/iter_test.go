// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wigiter

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wigtools/wigstat/wigfmt"
)

func e(chrom string, start, finish int, value float64) Entry {
	return Entry{Region: wigfmt.Region{Chrom: chrom, Start: start, Finish: finish}, Value: value}
}

var track = []Entry{
	e("chr1", 0, 10, 1),
	e("chr1", 20, 30, 2),
	e("chr1", 30, 40, 3),
	e("chr2", 5, 15, 4),
	e("chr3", 0, 100, 5),
}

const trackText = `track type=bedGraph
chr1	0	10	1
chr1	20	30	2
chr1	30	40	3
chr2	5	15	4
chr3	0	100	5
`

func writeTrack(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.bedGraph")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o666))
	return path
}

// iterators returns every Iterator implementation over the same
// track.
func iterators(t *testing.T) map[string]func() Iterator {
	path := writeTrack(t, trackText)
	return map[string]func() Iterator{
		"slice": func() Iterator { return NewSlice(track) },
		"file":  func() Iterator { return NewFile(path) },
	}
}

func TestCollect(t *testing.T) {
	for name, mk := range iterators(t) {
		t.Run(name, func(t *testing.T) {
			got, err := Collect(mk())
			require.NoError(t, err)
			if diff := cmp.Diff(track, got); diff != "" {
				t.Errorf("Collect mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSeek(t *testing.T) {
	for _, test := range []struct {
		name          string
		chrom         string
		start, finish int
		want          []Entry
	}{
		{"clip both ends", "chr1", 5, 25, []Entry{e("chr1", 5, 10, 1), e("chr1", 20, 25, 2)}},
		{"exact", "chr1", 20, 40, []Entry{e("chr1", 20, 30, 2), e("chr1", 30, 40, 3)}},
		{"gap", "chr1", 10, 20, nil},
		{"later chrom", "chr2", 0, 1000, []Entry{e("chr2", 5, 15, 4)}},
		{"inside one", "chr3", 40, 60, []Entry{e("chr3", 40, 60, 5)}},
		{"missing chrom", "chr9", 0, 10, nil},
		{"before chrom", "chr0", 0, 10, nil},
	} {
		for name, mk := range iterators(t) {
			t.Run(test.name+"/"+name, func(t *testing.T) {
				it := mk()
				// Consume some, then seek.
				it.Next()
				it.Seek(test.chrom, test.start, test.finish)
				got, err := Collect(it)
				require.NoError(t, err)
				if diff := cmp.Diff(test.want, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}

				// Seeking again reproduces the same windows.
				it.Seek(test.chrom, test.start, test.finish)
				again, err := Collect(it)
				require.NoError(t, err)
				assert.Equal(t, got, again)
			})
		}
	}
}

func TestExhaustion(t *testing.T) {
	for name, mk := range iterators(t) {
		t.Run(name, func(t *testing.T) {
			it := mk()
			for !it.Done() {
				it.Next()
			}
			last := it.Region()
			for i := 0; i < 3; i++ {
				it.Next()
				assert.True(t, it.Done())
				assert.Equal(t, last, it.Region())
			}
		})
	}
}

func TestOrderErrors(t *testing.T) {
	for _, test := range []struct {
		name    string
		entries []Entry
	}{
		{"overlap", []Entry{e("chr1", 0, 10, 1), e("chr1", 5, 15, 2)}},
		{"backwards", []Entry{e("chr1", 20, 30, 1), e("chr1", 0, 10, 2)}},
		{"chrom order", []Entry{e("chr2", 0, 10, 1), e("chr1", 0, 10, 2)}},
	} {
		t.Run(test.name, func(t *testing.T) {
			var oerr *OrderError

			s := NewSlice(test.entries)
			assert.True(t, s.Done())
			assert.True(t, errors.As(s.Err(), &oerr), "slice: %v", s.Err())

			var text string
			for _, ent := range test.entries {
				text += ent.Chrom + " " + strconv.Itoa(ent.Start) + " " + strconv.Itoa(ent.Finish) + " 1\n"
			}
			f := NewFile(writeTrack(t, text))
			_, err := Collect(f)
			assert.True(t, errors.As(err, &oerr), "file: %v", err)
		})
	}
}

func TestFileSyntaxError(t *testing.T) {
	f := NewFile(writeTrack(t, "chr1 0 10 1\nchr1 10 x 2\nchr1 20 30 3\n"))
	got, err := Collect(f)
	var serr *wigfmt.SyntaxError
	require.True(t, errors.As(err, &serr), "got %v", err)
	assert.Equal(t, 2, serr.Line)
	assert.Equal(t, []Entry{e("chr1", 0, 10, 1)}, got)
}

func TestFileNonFinite(t *testing.T) {
	f := NewFile(writeTrack(t, "chr1 0 10 1\nchr1 10 20 nan\n"))
	got, err := Collect(f)
	var serr *wigfmt.SyntaxError
	require.True(t, errors.As(err, &serr), "got %v", err)
	assert.Equal(t, "non-finite value", serr.Msg)
	assert.Equal(t, []Entry{e("chr1", 0, 10, 1)}, got)
}

// withStdin runs fn with standard input reading text.
func withStdin(t *testing.T, text string, fn func()) {
	t.Helper()
	in, err := os.Open(writeTrack(t, text))
	require.NoError(t, err)
	defer in.Close()
	old := os.Stdin
	os.Stdin = in
	defer func() { os.Stdin = old }()
	fn()
}

func TestFileStdinSeek(t *testing.T) {
	withStdin(t, trackText, func() {
		f := NewFile("-")
		f.Seek("chr1", 5, 25)
		got, err := Collect(f)
		require.NoError(t, err)
		assert.Equal(t, []Entry{e("chr1", 5, 10, 1), e("chr1", 20, 25, 2)}, got)

		// Standard input is now consumed.
		f.Seek("chr1", 5, 25)
		assert.True(t, f.Done())
		assert.ErrorIs(t, f.Err(), wigfmt.ErrRewindStdin)
	})
}
