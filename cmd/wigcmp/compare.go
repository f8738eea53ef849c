// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/wigtools/wigstat/internal/config"
	"github.com/wigtools/wigstat/internal/metrics"
	"github.com/wigtools/wigstat/wigfmt"
	"github.com/wigtools/wigstat/wigiter"
	"github.com/wigtools/wigstat/wigstat"
	"github.com/wigtools/wigstat/wigsync"
)

// checkEvery is how many output windows pass between checks for
// cancellation.
const checkEvery = 4096

// A job is one comparison to compute.
type job struct {
	config.Comparison
}

// comparison is the surface shared by the wigstat reducers.
type comparison interface {
	wigiter.Iterator
	Counts() wigstat.Counts
}

// runJobs computes jobs concurrently, then writes their window
// counters to textfile if it is non-empty. Jobs with output "-" write
// to stdout.
func runJobs(ctx context.Context, stdout io.Writer, jobs []*job, textfile string) error {
	m := metrics.New()
	g, ctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			log := slog.With("comparison", j.Name, "test", j.Test)
			log.Debug("starting", "groups", j.Groups, "region", j.Region, "output", j.Output)
			counts, err := j.run(ctx, stdout)
			if err != nil {
				return fmt.Errorf("%s: %w", j.Name, err)
			}
			m.Record(j.Name, j.Test, counts)
			log.Info("done", "emitted", counts.Emitted, "no_data", counts.NoData, "degenerate", counts.Degenerate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if textfile != "" {
		if err := m.WriteTextfile(textfile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

// run computes j and writes its p-value track.
func (j *job) run(ctx context.Context, stdout io.Writer) (wigstat.Counts, error) {
	var files []*wigiter.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	bounds, restrict := j.Bounds()
	groups := make([][]wigiter.Iterator, len(j.Groups))
	for g, tracks := range j.Groups {
		for _, track := range tracks {
			f := wigiter.NewFile(config.TrackPaths(track)...)
			// Seeking before anything is read keeps standard
			// input usable.
			if restrict {
				f.Seek(bounds.Chrom, bounds.Start, bounds.Finish)
			}
			files = append(files, f)
			groups[g] = append(groups[g], f)
		}
	}
	src, err := wigsync.New(groups...)
	if err != nil {
		return wigstat.Counts{}, err
	}

	var c comparison
	switch j.Test {
	case config.TTest:
		c, err = wigstat.NewTTest(src)
	case config.MannWhitney:
		c, err = wigstat.NewMannWhitney(src)
	default:
		err = fmt.Errorf("unknown test %q", j.Test)
	}
	if err != nil {
		return wigstat.Counts{}, err
	}

	out := stdout
	var file *os.File
	if j.Output != "-" {
		file, err = os.Create(j.Output)
		if err != nil {
			return c.Counts(), err
		}
		defer file.Close()
		out = file
	}
	bw := bufio.NewWriter(out)
	w := wigfmt.NewWriter(bw)
	w.Name = j.Name

	n := 0
	for ; !c.Done(); c.Next() {
		if n++; n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return c.Counts(), err
			}
		}
		rec := wigfmt.Record{Region: c.Region(), Value: c.Value()}
		if err := w.Write(&rec); err != nil {
			return c.Counts(), fmt.Errorf("writing output: %w", err)
		}
	}
	if err := c.Err(); err != nil {
		return c.Counts(), err
	}
	if err := w.Flush(); err != nil {
		return c.Counts(), fmt.Errorf("writing output: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return c.Counts(), fmt.Errorf("writing output: %w", err)
	}
	if file != nil {
		if err := file.Close(); err != nil {
			return c.Counts(), fmt.Errorf("writing output: %w", err)
		}
	}
	return c.Counts(), nil
}
