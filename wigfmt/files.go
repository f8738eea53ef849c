// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wigfmt

import (
	"errors"
	"os"
)

// Files reads bedGraph records from a sequence of input files, as if
// they were one file. This is the usual layout of a track that has
// been split by chromosome.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowStdin indicates that the path "-" should be treated as
	// stdin and if the file list is empty, it should be treated
	// as consisting of stdin.
	//
	// This is generally the desired behavior when the file list
	// comes from command-line flags.
	AllowStdin bool

	// pos is the position of the next file to read from in Paths
	// when the current file is exhausted.
	pos int

	reader  Reader
	path    string
	file    *os.File
	isStdin bool
	usedStd bool
	err     error
}

// ErrRewindStdin is returned by Rewind if the sequence has already
// consumed stdin, which cannot be read twice.
var ErrRewindStdin = errors.New("cannot rewind standard input")

// Scan advances the reader to the next record in the sequence of
// files and returns true if a record was read. The caller should use
// the Record method to get the record. If an I/O error occurs, or
// this reaches the end of the file sequence, it returns false and the
// caller should use the Err method to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}

	for {
		if f.file == nil {
			// Open the next file.
			var path string
			if f.AllowStdin && len(f.Paths) == 0 && f.pos == 0 {
				path = "-"
			} else if f.pos < len(f.Paths) {
				path = f.Paths[f.pos]
			} else {
				// We're out of files.
				return false
			}
			f.pos++
			f.path = path
			if f.AllowStdin && path == "-" {
				f.isStdin, f.file = true, os.Stdin
				f.usedStd = true
			} else {
				file, err := os.Open(path)
				if err != nil {
					f.err = err
					return false
				}
				f.isStdin, f.file = false, file
			}
			f.reader.Reset(f.file, path)
		}

		// Try to get the next record.
		if f.reader.Scan() {
			return true
		}
		err := f.reader.Err()
		if err != nil {
			f.err = err
			break
		}
		// Just an EOF. Close this file and open the next.
		if !f.isStdin {
			f.file.Close()
		}
		f.file = nil
	}
	// We're out of files.
	return false
}

// Record returns the last record read, or an error if the line was
// malformed.
//
// Parse errors are non-fatal, so the caller can continue to call
// Scan.
//
// The caller should not retain the Record, as it will be overwritten
// by the next call to Scan.
func (f *Files) Record() (*Record, error) {
	return f.reader.Record()
}

// Path returns the path of the file the last record was read from.
func (f *Files) Path() string {
	return f.path
}

// Err returns the first non-EOF I/O error that was encountered by the
// Files.
func (f *Files) Err() error {
	return f.err
}

// Rewind restarts the sequence at the first file.
func (f *Files) Rewind() error {
	f.Close()
	if f.usedStd {
		f.err = ErrRewindStdin
		return f.err
	}
	f.pos = 0
	f.path = ""
	f.err = nil
	return nil
}

// Close releases the file currently being read, if any.
func (f *Files) Close() error {
	if f.file == nil {
		return nil
	}
	var err error
	if !f.isStdin {
		err = f.file.Close()
	}
	f.file = nil
	return err
}
