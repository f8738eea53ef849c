// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command wigcmp compares two groups of genome signal tracks window by
// window and writes the p-value of each window as a bedGraph track.
//
// Usage:
//
//	wigcmp ttest --group0 a1.bg --group0 a2.bg --group1 b1.bg --group1 b2.bg
//	wigcmp mwu --group0 a.bg --group1 b.bg [--region chr1:0-1000000]
//	wigcmp run comparisons.yaml
//
// The ttest subcommand applies Welch's t-test to the tracks of each
// group that have a value in a window. The mwu subcommand applies the
// Mann-Whitney U test, counting tracks without a value as zero.
// Windows where the statistic is undefined are omitted from the
// output.
//
// A track stored in several files, for example one per chromosome, is
// given as its paths joined by commas. The path "-" reads standard
// input.
//
// The run subcommand computes every comparison in a YAML run file
// concurrently. See package internal/config for its format.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "wigcmp",
		Short:         "Compare two groups of bedGraph tracks window by window",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(h))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log `level` (debug, info, warn, error)")

	root.AddCommand(
		newCompareCmd("ttest", "Welch's t-test"),
		newCompareCmd("mwu", "Mann-Whitney U test"),
		newRunCmd(),
	)
	return root
}

// newCompareCmd returns the subcommand for a single comparison by
// test.
func newCompareCmd(test, title string) *cobra.Command {
	var (
		c        job
		groups   [2][]string
		textfile string
	)
	cmd := &cobra.Command{
		Use:   test + " --group0 track... --group1 track...",
		Short: "Compare two groups of tracks with the " + title,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Test = test
			c.Groups = [][]string{groups[0], groups[1]}
			if c.Name == "" {
				c.Name = test
			}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("%s: %w", test, err)
			}
			return runJobs(cmd.Context(), cmd.OutOrStdout(), []*job{&c}, textfile)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&groups[0], "group0", nil, "`track` of the first group (repeatable)")
	f.StringArrayVar(&groups[1], "group1", nil, "`track` of the second group (repeatable)")
	f.StringVar(&c.Region, "region", "", "restrict to `chrom[:start-finish]`")
	f.StringVarP(&c.Output, "output", "o", "-", "write p-values to `file`")
	f.StringVar(&c.Name, "name", "", "track `name` for the output header")
	f.StringVar(&textfile, "metrics-textfile", "", "write window counters to `file` in Prometheus text format")
	_ = cmd.MarkFlagRequired("group0")
	_ = cmd.MarkFlagRequired("group1")
	return cmd
}
