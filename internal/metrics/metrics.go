// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics tallies comparison windows as Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wigtools/wigstat/wigstat"
)

const namespace = "wigcmp"

// Outcome label values.
const (
	Emitted    = "emitted"
	NoData     = "no_data"
	Degenerate = "degenerate"
)

// Windows counts the windows seen by each comparison, by outcome.
// Each Windows has its own registry.
type Windows struct {
	reg   *prometheus.Registry
	total *prometheus.CounterVec
}

// New returns an empty set of window counters.
func New() *Windows {
	w := &Windows{
		reg: prometheus.NewRegistry(),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "windows_total",
				Help:      "Synchronized windows seen by a comparison, by outcome.",
			},
			[]string{"comparison", "test", "outcome"},
		),
	}
	w.reg.MustRegister(w.total)
	return w
}

// Record adds the counts of one finished comparison. It is safe to
// call concurrently.
func (w *Windows) Record(comparison, test string, c wigstat.Counts) {
	w.total.WithLabelValues(comparison, test, Emitted).Add(float64(c.Emitted))
	w.total.WithLabelValues(comparison, test, NoData).Add(float64(c.NoData))
	w.total.WithLabelValues(comparison, test, Degenerate).Add(float64(c.Degenerate))
}

// Registry returns the registry holding the counters.
func (w *Windows) Registry() *prometheus.Registry { return w.reg }

// WriteTextfile writes the counters to path in the Prometheus text
// format, for the node exporter's textfile collector.
func (w *Windows) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, w.reg)
}
