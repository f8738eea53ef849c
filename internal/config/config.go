// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads run files for wigcmp.
//
// A run file is YAML describing a set of comparisons to compute
// together:
//
//	metrics_textfile: wigcmp.prom
//	comparisons:
//	  - name: k4me3
//	    test: ttest
//	    groups:
//	      - [ctl1.bedGraph, ctl2.bedGraph]
//	      - [trt1.bedGraph, "trt2.chr1.bedGraph,trt2.chr2.bedGraph"]
//	    region: chr1:0-5,000,000
//	    output: k4me3.p.bedGraph
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wigtools/wigstat/wigfmt"
)

// Test names accepted in Comparison.Test.
const (
	TTest       = "ttest"
	MannWhitney = "mwu"
)

// Run is a parsed run file.
type Run struct {
	// MetricsTextfile, if set, is where window counters are written
	// in Prometheus text format after all comparisons finish.
	MetricsTextfile string `yaml:"metrics_textfile"`

	Comparisons []Comparison `yaml:"comparisons" validate:"required,min=1,unique=Name,dive"`
}

// Comparison is one two-group comparison.
type Comparison struct {
	Name string `yaml:"name" validate:"required"`
	Test string `yaml:"test" validate:"required,oneof=ttest mwu"`

	// Groups lists the tracks of each group. A track is a bedGraph
	// path, or several paths joined by commas for a track split
	// over several files.
	Groups [][]string `yaml:"groups" validate:"len=2,dive,min=1,dive,required"`

	// Region optionally restricts the comparison, as accepted by
	// wigfmt.ParseRegion.
	Region string `yaml:"region" validate:"omitempty,region"`

	Output string `yaml:"output" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
		_, err := wigfmt.ParseRegion(fl.Field().String())
		return err == nil
	})
	return v
}

// Load reads and validates the run file at path.
func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	run, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return run, nil
}

// Parse decodes and validates a run file. Unknown keys are errors.
func Parse(data []byte) (*Run, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var run Run
	if err := dec.Decode(&run); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}
	if err := validate.Struct(&run); err != nil {
		return nil, fmt.Errorf("invalid run file: %w", err)
	}
	return &run, nil
}

// Validate checks a comparison built outside of a run file.
func (c *Comparison) Validate() error {
	return validate.Struct(c)
}

// TrackPaths splits a track of Comparison.Groups into its files.
func TrackPaths(track string) []string {
	return strings.Split(track, ",")
}

// Bounds returns the parsed region of c, or ok == false if c covers
// every track in full.
func (c *Comparison) Bounds() (r wigfmt.Region, ok bool) {
	if c.Region == "" {
		return wigfmt.Region{}, false
	}
	r, err := wigfmt.ParseRegion(c.Region)
	return r, err == nil
}
