// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bspline

import (
	"fmt"

	"github.com/gonum-community/cobs/mat"
)

// buildEps is the magnitude threshold below which a basis value is
// treated as an exact zero and omitted from sparse design-matrix
// triplets.
const buildEps = 1e-10

// Basis is an immutable clamped B-spline basis backed by a
// non-decreasing knot vector T of length N+order+1, where N is the
// number of basis functions (coefficients). The first and last knots
// are expected to repeat order+1 times (clamped boundary).
type Basis struct {
	knots []float64
	order int
}

// New constructs a Basis from a knot vector and order. It returns an
// error if the knots are not non-decreasing or are too short to
// support the requested order.
func New(knots []float64, order int) (*Basis, error) {
	if order < 1 {
		return nil, fmt.Errorf("bspline: order must be >= 1, got %d", order)
	}
	if len(knots) < 2*order {
		return nil, fmt.Errorf("bspline: knot vector length %d too short for order %d", len(knots), order)
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			return nil, fmt.Errorf("bspline: knots not non-decreasing at index %d", i)
		}
	}
	k := make([]float64, len(knots))
	copy(k, knots)
	return &Basis{knots: k, order: order}, nil
}

// Knots returns a copy of the basis's knot vector.
func (b *Basis) Knots() []float64 {
	k := make([]float64, len(b.knots))
	copy(k, b.knots)
	return k
}

// Order returns the spline order k (degree = k-1).
func (b *Basis) Order() int {
	return b.order
}

// NumCoefficients returns N = |T| - order - 1, the number of basis
// functions (and spline coefficients).
func (b *Basis) NumCoefficients() int {
	return len(b.knots) - b.order - 1
}

// findSpan returns the index s such that T[s] <= x < T[s+1], clamped
// so that x at or beyond the last active knot maps to N-1 and x at or
// before the first active knot maps to order. Ties at a knot resolve
// to the left span.
func (b *Basis) findSpan(x float64) int {
	n := b.NumCoefficients()
	t := b.knots
	if x >= t[n] {
		return n - 1
	}
	if x <= t[b.order] {
		return b.order
	}
	lo, hi := b.order, n
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x < t[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// basisFuns evaluates the order+1 non-zero basis functions active at
// span, following the Cox-de Boor triangular recurrence. The result
// N[r] corresponds to B_{span-order+r, order}(x).
func (b *Basis) basisFuns(span int, x float64) []float64 {
	p := b.order
	t := b.knots
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	n := make([]float64, p+1)
	n[0] = 1
	for j := 1; j <= p; j++ {
		left[j] = x - t[span+1-j]
		right[j] = t[span+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			denom := right[r+1] + left[j-r]
			var temp float64
			if denom != 0 {
				temp = n[r] / denom
			}
			n[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		n[j] = saved
	}
	return n
}

// dersBasisFuns computes the basis function values and their
// derivatives up to order d (d <= p) at x, active at span. Row 0 holds
// the values; row i holds the i-th derivative. This is the standard
// divided-difference cascade (Piegl & Tiller, Algorithm A2.3).
func (b *Basis) dersBasisFuns(span int, x float64, d int) [][]float64 {
	p := b.order
	t := b.knots

	ndu := make([][]float64, p+1)
	for i := range ndu {
		ndu[i] = make([]float64, p+1)
	}
	ndu[0][0] = 1
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	for j := 1; j <= p; j++ {
		left[j] = x - t[span+1-j]
		right[j] = t[span+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			temp := 0.0
			if ndu[j][r] != 0 {
				temp = ndu[r][j-1] / ndu[j][r]
			}
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}

	ders := make([][]float64, d+1)
	for i := range ders {
		ders[i] = make([]float64, p+1)
	}
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}

	a := [][]float64{make([]float64, p+1), make([]float64, p+1)}
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1
		for k := 1; k <= d; k++ {
			der := 0.0
			rk := r - k
			pk := p - k

			j1 := 1
			if -rk > j1 {
				j1 = -rk
			}
			j2 := k - 1
			if p-r < j2 {
				j2 = p - r
			}

			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				der = a[s2][0] * ndu[rk][pk]
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				der += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				der += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = der
			s1, s2 = s2, s1
		}
	}

	fact := p
	for k := 1; k <= d; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= float64(fact)
		}
		fact *= p - k
	}
	return ders
}

// scatter expands a dense row of order+1 active values at span into a
// full-length (NumCoefficients) vector.
func (b *Basis) scatter(span int, active []float64) []float64 {
	n := b.NumCoefficients()
	row := make([]float64, n)
	for r, v := range active {
		row[span-b.order+r] = v
	}
	return row
}

// Evaluate returns the basis row at x: a dense vector of length
// NumCoefficients with at most order+1 non-zero entries.
func (b *Basis) Evaluate(x float64) []float64 {
	span := b.findSpan(x)
	return b.scatter(span, b.basisFuns(span, x))
}

// EvaluateDerivative returns the first derivative of the basis row at
// x, dense over NumCoefficients entries.
func (b *Basis) EvaluateDerivative(x float64) []float64 {
	span := b.findSpan(x)
	ders := b.dersBasisFuns(span, x, 1)
	return b.scatter(span, ders[1])
}

// EvaluateSecondDerivative returns the second derivative of the basis
// row at x, dense over NumCoefficients entries.
func (b *Basis) EvaluateSecondDerivative(x float64) []float64 {
	span := b.findSpan(x)
	ders := b.dersBasisFuns(span, x, 2)
	return b.scatter(span, ders[2])
}

// CreateDesignMatrix builds the m x NumCoefficients design matrix whose
// i-th row is Evaluate(xs[i]), materialized from sparse triplets (only
// entries with |value| > buildEps are emitted).
func (b *Basis) CreateDesignMatrix(xs []float64) (*mat.Matrix, error) {
	n := b.NumCoefficients()
	var values []float64
	var rows, cols []int
	for i, x := range xs {
		span := b.findSpan(x)
		active := b.basisFuns(span, x)
		for r, v := range active {
			if v > buildEps || v < -buildEps {
				values = append(values, v)
				rows = append(rows, i)
				cols = append(cols, span-b.order+r)
			}
		}
	}
	return mat.Sparse(values, rows, cols, len(xs), n)
}

// CreateDerivativeMatrix builds a derivative design matrix at an
// augmented sample set: xs with a midpoint inserted between every
// consecutive pair, giving 2*len(xs)-1 rows. This interleaving is a
// preserved quirk of the source design (see DESIGN.md); the
// constraint builder samples its own grid
// instead of relying on this matrix.
func (b *Basis) CreateDerivativeMatrix(xs []float64, derivOrder int) (*mat.Matrix, error) {
	if derivOrder != 1 && derivOrder != 2 {
		return nil, fmt.Errorf("bspline: derivative order must be 1 or 2, got %d", derivOrder)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("bspline: empty sample set")
	}
	augmented := make([]float64, 0, 2*len(xs)-1)
	for i, x := range xs {
		augmented = append(augmented, x)
		if i+1 < len(xs) {
			augmented = append(augmented, (x+xs[i+1])/2)
		}
	}
	n := b.NumCoefficients()
	var values []float64
	var rows, cols []int
	for i, x := range augmented {
		span := b.findSpan(x)
		ders := b.dersBasisFuns(span, x, derivOrder)
		active := ders[derivOrder]
		for r, v := range active {
			if v > buildEps || v < -buildEps {
				values = append(values, v)
				rows = append(rows, i)
				cols = append(cols, span-b.order+r)
			}
		}
	}
	return mat.Sparse(values, rows, cols, len(augmented), n)
}
