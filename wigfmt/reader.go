// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wigfmt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// A Reader reads the bedGraph format.
//
// Its API is modeled on bufio.Scanner. To minimize allocation, a
// Reader retains ownership of the Record it returns; a caller should
// copy anything it needs to retain.
//
// The zero value of the Reader is a valid Reader, but the user must
// call Reset before using it.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	lineNum  int
	err      error // current I/O error

	record    Record
	recordErr error

	interns map[string]string
}

// SyntaxError represents a syntax error on a particular line of a
// bedGraph file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", s.FileName, s.Line, s.Msg)
}

var noRecord = errors.New("Reader.Scan has not been called")

// NewReader constructs a reader to parse the bedGraph format from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.lineNum = 0
	r.err = nil
	r.recordErr = noRecord
	if r.interns == nil {
		r.interns = make(map[string]string)
	}
	r.record = Record{}
}

var (
	trackPrefix   = []byte("track")
	browserPrefix = []byte("browser")
)

// Scan advances the reader to the next data line and returns true if
// one was read. The caller should use the Record method to get the
// record. If an I/O error occurs, or this reaches the end of the
// file, it returns false and the caller should use the Err method to
// check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	for r.s.Scan() {
		r.lineNum++
		line := r.s.Bytes()
		if isSkipLine(line) {
			continue
		}
		// At this point we commit to this being a data line.
		// If it's malformed, we treat that as an error.
		r.recordErr = r.parseDataLine(line)
		return true
	}

	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.lineNum, err)
		return false
	}
	r.err = nil
	return false
}

// isSkipLine reports whether line carries no data.
func isSkipLine(line []byte) bool {
	line = trimSpace(line)
	if len(line) == 0 || line[0] == '#' {
		return true
	}
	first, _ := splitField(line)
	return bytes.Equal(first, trackPrefix) || bytes.Equal(first, browserPrefix)
}

// trimSpace strips leading whitespace from x.
func trimSpace(x []byte) []byte {
	for len(x) > 0 && x[0] < 128 && (isSpace>>x[0])&1 != 0 {
		x = x[1:]
	}
	return x
}

// parseDataLine parses line as a bedGraph record and updates
// r.record.
func (r *Reader) parseDataLine(line []byte) error {
	var f []byte
	var err error

	line = trimSpace(line)

	f, line = splitField(line)
	r.record.Chrom = r.intern(f)

	f, line = splitField(line)
	if len(f) == 0 {
		return &SyntaxError{r.fileName, r.lineNum, "missing start coordinate"}
	}
	r.record.Start, err = atoi(f)
	if err != nil {
		return &SyntaxError{r.fileName, r.lineNum, "parsing start coordinate: " + numErr(err)}
	}

	f, line = splitField(line)
	if len(f) == 0 {
		return &SyntaxError{r.fileName, r.lineNum, "missing finish coordinate"}
	}
	r.record.Finish, err = atoi(f)
	if err != nil {
		return &SyntaxError{r.fileName, r.lineNum, "parsing finish coordinate: " + numErr(err)}
	}
	if r.record.Start < 0 || r.record.Finish <= r.record.Start {
		return &SyntaxError{r.fileName, r.lineNum, "empty or negative interval"}
	}

	f, line = splitField(line)
	if len(f) == 0 {
		return &SyntaxError{r.fileName, r.lineNum, "missing value"}
	}
	r.record.Value, err = atof(f)
	if err != nil {
		return &SyntaxError{r.fileName, r.lineNum, "parsing value: " + numErr(err)}
	}
	if math.IsNaN(r.record.Value) || math.IsInf(r.record.Value, 0) {
		return &SyntaxError{r.fileName, r.lineNum, "non-finite value"}
	}

	if f, _ = splitField(line); len(f) != 0 {
		return &SyntaxError{r.fileName, r.lineNum, "unexpected trailing field"}
	}
	return nil
}

func numErr(err error) string {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err.Error()
	}
	return err.Error()
}

func (r *Reader) intern(x []byte) string {
	const maxIntern = 1024
	if s, ok := r.interns[string(x)]; ok {
		return s
	}
	if len(r.interns) >= maxIntern {
		// Evict a random item from the interns table.
		for k := range r.interns {
			delete(r.interns, k)
			break
		}
	}
	s := string(x)
	r.interns[s] = s
	return s
}

// Record returns the last record read, or an error if the line was
// malformed.
//
// Parse errors are non-fatal, so the caller can continue to call
// Scan.
//
// The caller should not retain the Record, as it will be overwritten
// by the next call to Scan.
func (r *Reader) Record() (*Record, error) {
	if r.recordErr != nil {
		return nil, r.recordErr
	}
	return &r.record, nil
}

// Err returns the first non-EOF I/O error that was encountered by the
// Reader.
func (r *Reader) Err() error {
	return r.err
}

// Parsing helpers.
//
// Coordinates are always integers and most signal values are too, so
// both take an integer fast path before falling back to strconv.

// atoi parses a non-negative decimal coordinate.
func atoi(x []byte) (int, error) {
	const maxCoordDigits = 18
	if len(x) == 0 || len(x) > maxCoordDigits {
		return strconv.Atoi(string(x))
	}
	var val int
	for _, ch := range x {
		digit := ch - '0'
		if digit >= 10 {
			return strconv.Atoi(string(x))
		}
		val = val*10 + int(digit)
	}
	return val, nil
}

// atof is a wrapper for strconv.ParseFloat that optimizes for
// numbers that are usually integers.
func atof(x []byte) (float64, error) {
	// The largest int exactly representable in a float64.
	const largestInt = 1<<53 - 1

	// Try parsing as an integer.
	var val int64
	for _, ch := range x {
		digit := ch - '0'
		if digit >= 10 {
			goto fail
		}
		val = (val * 10) + int64(digit)
		if val > largestInt {
			goto fail
		}
	}
	return float64(val), nil

fail:
	// The fast path failed. Parse it as a float.
	return strconv.ParseFloat(string(x), 64)
}

const isSpace uint64 = 1<<'\t' | 1<<'\n' | 1<<'\v' | 1<<'\f' | 1<<'\r' | 1<<' '

// splitField consumes and returns non-whitespace in x as field,
// consumes whitespace following the field, and then returns the
// remaining bytes of x.
func splitField(x []byte) (field, rest []byte) {
	// Collect non-whitespace into field.
	var i int
	for i = 0; i < len(x); {
		if x[i] < 128 {
			// Fast path for ASCII
			if (isSpace>>x[i])&1 != 0 {
				rest = x[i+1:]
				break
			}
			i++
		} else {
			// Slow path for Unicode
			r, n := utf8.DecodeRune(x[i:])
			if unicode.IsSpace(r) {
				rest = x[i+n:]
				break
			}
			i += n
		}
	}
	field = x[:i]

	// Strip whitespace from rest.
	for len(rest) > 0 {
		if rest[0] < 128 {
			if (isSpace>>rest[0])&1 == 0 {
				break
			}
			rest = rest[1:]
		} else {
			r, n := utf8.DecodeRune(rest)
			if !unicode.IsSpace(r) {
				break
			}
			rest = rest[n:]
		}
	}
	return
}
