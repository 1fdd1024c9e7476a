// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simplex

import (
	"math"

	"github.com/gonum-community/cobs/mat"
)

const (
	// tol is the numerical tolerance used throughout the simplex loop:
	// feasibility, reduced-cost, and ratio-test comparisons all use it.
	tol = 1e-12

	// unitTol bounds how close a column entry must be to {0, 1} to be
	// accepted as part of an initial unit-vector basic column.
	unitTol = 1e-9

	// maxIterations bounds the main loop; exceeding it is reported as
	// Outcome IterationLimit rather than looping forever on cycling or
	// degenerate pivoting sequences.
	maxIterations = 1000
)

// Outcome tags how Solve terminated.
type Outcome int

// Solve termination states.
const (
	// Optimal: x minimizes c^T x over the basic solutions reached, with
	// x >= 0 and A x = b (every row is tight, so A x <= b also holds).
	Optimal Outcome = iota
	// Infeasible: no feasible basis was found from the current basis sequence.
	Infeasible
	// Unbounded: the objective can be decreased without bound along the
	// entering direction.
	Unbounded
	// SingularBasis: the current basis matrix is not invertible.
	SingularBasis
	// IterationLimit: the iteration cap was reached before optimality.
	IterationLimit
)

// Solve runs the revised primal simplex method on the rows of A as
// given, minimizing c^T x with x >= 0. No slack columns are added, so
// each basic solution satisfies A*x = b, which implies A*x <= b; the
// result is not a minimizer over the wider set A*x <= b. A is p x n,
// b has length p, c has length n. If c is
// nil, a uniform all-ones objective is used, reducing the problem to
// minimum-sum feasibility.
//
// On any outcome other than Optimal, Solve returns the zero vector;
// callers are expected to treat that, together with a non-Optimal
// Outcome, as a signal to fall back to an unconstrained solve.
func Solve(A *mat.Matrix, b []float64, c []float64) ([]float64, Outcome) {
	p, n := A.Dims()
	if c == nil {
		c = make([]float64, n)
		for i := range c {
			c[i] = 1
		}
	}
	zero := make([]float64, n)

	basis, nonbasis := initialBasis(A, p, n)

	for iter := 0; iter < maxIterations; iter++ {
		bmat := extractColumns(A, basis)
		binv := bmat.Inverse()
		if binv == nil {
			return zero, SingularBasis
		}

		xB := binv.MulVec(b)
		for _, v := range xB {
			if v < -tol {
				return zero, Infeasible
			}
		}

		cB := selectVec(c, basis)
		y := binv.T().MulVec(cB)

		entering := -1
		bestReduced := -tol
		for _, j := range nonbasis {
			reduced := c[j] - dot(y, A.Col(j))
			if reduced < bestReduced {
				bestReduced = reduced
				entering = j
			}
		}
		if entering == -1 {
			x := make([]float64, n)
			for i, bi := range basis {
				v := xB[i]
				if v < 0 {
					v = 0
				}
				x[bi] = v
			}
			return x, Optimal
		}

		d := binv.MulVec(A.Col(entering))
		leaving := -1
		bestRatio := math.Inf(1)
		for i, di := range d {
			if di > tol {
				ratio := xB[i] / di
				if ratio < bestRatio {
					bestRatio = ratio
					leaving = i
				}
			}
		}
		if leaving == -1 {
			return zero, Unbounded
		}

		outgoing := basis[leaving]
		basis[leaving] = entering
		for k, j := range nonbasis {
			if j == entering {
				nonbasis[k] = outgoing
				break
			}
		}
	}
	return zero, IterationLimit
}

// initialBasis assigns each row a basic column: a genuine unit-vector
// column where one exists, otherwise the last remaining non-basic
// index borrowed as an artificial basic. This is a heuristic Phase-I
// substitute; it has no correctness guarantee against an arbitrary A.
// The constraint builder's rows are dense in the B-spline basis
// columns, so most rows fall through to the artificial-basic branch.
// When A has more rows than columns, the rows left over once the
// non-basic indices run out all reuse column n-1; the basis matrix is
// then singular and Solve returns SingularBasis on its first iteration.
func initialBasis(A *mat.Matrix, p, n int) (basis, nonbasis []int) {
	basis = make([]int, p)
	assigned := make([]bool, n)
	var missingRows []int

	for i := 0; i < p; i++ {
		col := findUnitColumn(A, i, p, n, assigned)
		if col >= 0 {
			basis[i] = col
			assigned[col] = true
		} else {
			missingRows = append(missingRows, i)
		}
	}

	for j := 0; j < n; j++ {
		if !assigned[j] {
			nonbasis = append(nonbasis, j)
		}
	}

	for _, i := range missingRows {
		if len(nonbasis) == 0 {
			basis[i] = n - 1
			continue
		}
		last := nonbasis[len(nonbasis)-1]
		nonbasis = nonbasis[:len(nonbasis)-1]
		basis[i] = last
		assigned[last] = true
	}
	return basis, nonbasis
}

// findUnitColumn returns the first unassigned column of A that is
// (within unitTol) the i-th standard basis vector over p rows, or -1.
func findUnitColumn(A *mat.Matrix, row, p, n int, assigned []bool) int {
	for j := 0; j < n; j++ {
		if assigned[j] {
			continue
		}
		isUnit := true
		for r := 0; r < p; r++ {
			v := A.At(r, j)
			want := 0.0
			if r == row {
				want = 1.0
			}
			if math.Abs(v-want) > unitTol {
				isUnit = false
				break
			}
		}
		if isUnit {
			return j
		}
	}
	return -1
}

func extractColumns(A *mat.Matrix, cols []int) *mat.Matrix {
	rows, _ := A.Dims()
	out := mat.Zeros(rows, len(cols))
	for k, c := range cols {
		col := A.Col(c)
		for r, v := range col {
			if v != 0 {
				out.Set(r, k, v)
			}
		}
	}
	return out
}

func selectVec(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
