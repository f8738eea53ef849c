// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/wigtools/wigstat/internal/config"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run run-file.yaml",
		Short: "Compute the comparisons listed in a YAML run file concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := config.Load(args[0])
			if err != nil {
				return err
			}
			jobs := make([]*job, len(run.Comparisons))
			stdout := 0
			for i, c := range run.Comparisons {
				jobs[i] = &job{c}
				if c.Output == "-" {
					stdout++
				}
			}
			if stdout > 1 {
				return errors.New(args[0] + ": at most one comparison may write to standard output")
			}
			return runJobs(cmd.Context(), cmd.OutOrStdout(), jobs, run.MetricsTextfile)
		},
	}
}
