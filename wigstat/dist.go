// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wigstat

import (
	"math"

	"github.com/aclements/go-moremath/mathx"
)

// studentTQ returns the upper-tail probability P(T > t) of Student's
// t-distribution with nu degrees of freedom, for t >= 0.
//
// This evaluates the tail directly as I_x(nu/2, 1/2)/2 with
// x = nu/(nu+t²), instead of as 1-CDF(t), so that small p-values keep
// their relative precision.
func studentTQ(t, nu float64) float64 {
	if math.IsInf(t, 1) {
		return 0
	}
	return 0.5 * mathx.BetaInc(nu/(nu+t*t), nu/2, 0.5)
}

// normalTwoTailed returns the two-tailed probability P(|Z| > |z|) of
// the standard normal distribution.
func normalTwoTailed(z float64) float64 {
	return math.Erfc(math.Abs(z) / math.Sqrt2)
}

// welford accumulates the mean and sum of squared deviations of a
// sample in one pass.
type welford struct {
	n    int
	mean float64
	m2   float64
}

func (w *welford) add(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
}

// variance returns the population (biased) variance.
func (w *welford) variance() float64 {
	if w.n == 0 {
		return 0
	}
	return w.m2 / float64(w.n)
}
