// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wigfmt

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// A Writer writes the bedGraph format.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer

	// Name, if non-empty, is written in a "track" header line
	// before the first record.
	Name string

	first bool
}

// NewWriter returns a writer that writes bedGraph records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, first: true}
}

// Write writes rec to w.
func (w *Writer) Write(rec *Record) error {
	w.header()

	w.buf.WriteString(rec.Chrom)
	w.buf.WriteByte('\t')
	w.buf.WriteString(strconv.Itoa(rec.Start))
	w.buf.WriteByte('\t')
	w.buf.WriteString(strconv.Itoa(rec.Finish))
	w.buf.WriteByte('\t')
	// Shortest representation that round-trips, so p-values keep
	// full precision.
	w.buf.WriteString(strconv.FormatFloat(rec.Value, 'g', -1, 64))
	w.buf.WriteByte('\n')

	// Flush the buffer out to the io.Writer. Write to the buffer
	// can't fail, so we only have to check if this fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

// Flush writes the track header if no record has been written yet.
// A named track with no records is then still a named track.
func (w *Writer) Flush() error {
	w.header()
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

func (w *Writer) header() {
	if w.first && w.Name != "" {
		fmt.Fprintf(&w.buf, "track type=bedGraph name=%q\n", w.Name)
	}
	w.first = false
}
