// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/gonum-community/cobs/bspline"
	"github.com/gonum-community/cobs/mat"
)

// gridSize is the number of equally spaced samples used to discretize
// the monotone and convex/concave shape constraints. It is sufficient
// for the orders and knot spacings this package is exercised with; a
// denser grid is a reasonable extension for high order or very uneven
// knots.
const gridSize = 100

// Operator is a pointwise comparison operator.
type Operator int

// Supported pointwise operators.
const (
	Eq Operator = iota
	LE
	GE
)

// String implements fmt.Stringer.
func (o Operator) String() string {
	switch o {
	case Eq:
		return "="
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "unknown"
	}
}

// ErrUnsupportedOperator is returned when a Pointwise constraint names
// an operator outside {Eq, LE, GE}.
var ErrUnsupportedOperator = errors.New("constraint: unsupported pointwise operator")

// ErrUnsupportedConstraint is returned when a Spec names a kind this
// package does not implement.
var ErrUnsupportedConstraint = errors.New("constraint: unsupported constraint kind")

// Spec is one user-requested shape constraint. Only the fields
// relevant to Kind need be set; the zero value of the others is
// ignored.
type Spec struct {
	Kind Kind

	// Monotone
	Increasing bool

	// Convex: true selects convexity (s'' >= 0), false concavity.
	Convex bool

	// Pointwise
	X, Y     float64
	Operator Operator
}

// Kind names the shape constraint family.
type Kind int

// Supported constraint kinds.
const (
	Monotone Kind = iota
	ConvexConcave
	Periodic
	Pointwise
)

// Build assembles the vertical stack of every Spec's row block into a
// single (A, b) system over basis's coefficient space, sampling shape
// constraints over [xMin, xMax]. An empty specs slice yields a 0xN
// matrix. Column count always equals basis.NumCoefficients(); row
// indices of later blocks are offset by the running total.
func Build(basis *bspline.Basis, xMin, xMax float64, specs []Spec) (*mat.Matrix, []float64, error) {
	n := basis.NumCoefficients()
	if len(specs) == 0 {
		m, err := mat.Sparse(nil, nil, nil, 0, n)
		return m, nil, err
	}

	var values []float64
	var rowIdx, colIdx []int
	var b []float64
	row := 0

	appendRow := func(coeffs []float64, rhs float64) {
		for j, v := range coeffs {
			// Entries with |v| <= 1e-10 are treated as exact zeros.
			if v > 1e-10 || v < -1e-10 {
				values = append(values, v)
				rowIdx = append(rowIdx, row)
				colIdx = append(colIdx, j)
			}
		}
		b = append(b, rhs)
		row++
	}

	grid := make([]float64, gridSize)
	floats.Span(grid, xMin, xMax)

	for _, s := range specs {
		switch s.Kind {
		case Monotone:
			sign := -1.0
			if !s.Increasing {
				sign = 1.0
			}
			for _, xi := range grid {
				d := basis.EvaluateDerivative(xi)
				appendRow(scale(d, sign), 0)
			}

		case ConvexConcave:
			sign := -1.0
			if !s.Convex {
				sign = 1.0
			}
			for _, xi := range grid {
				d2 := basis.EvaluateSecondDerivative(xi)
				appendRow(scale(d2, sign), 0)
			}

		case Periodic:
			v0 := basis.Evaluate(xMin)
			v1 := basis.Evaluate(xMax)
			diff := sub(v0, v1)
			appendRow(diff, 0)
			appendRow(scale(diff, -1), 0)

			d0 := basis.EvaluateDerivative(xMin)
			d1 := basis.EvaluateDerivative(xMax)
			ddiff := sub(d0, d1)
			appendRow(ddiff, 0)
			appendRow(scale(ddiff, -1), 0)

		case Pointwise:
			coeffs := basis.Evaluate(s.X)
			switch s.Operator {
			case Eq:
				appendRow(coeffs, s.Y)
				appendRow(scale(coeffs, -1), -s.Y)
			case GE:
				appendRow(scale(coeffs, -1), -s.Y)
			case LE:
				appendRow(coeffs, s.Y)
			default:
				return nil, nil, fmt.Errorf("constraint: operator %v: %w", s.Operator, ErrUnsupportedOperator)
			}

		default:
			return nil, nil, fmt.Errorf("constraint: kind %v: %w", s.Kind, ErrUnsupportedConstraint)
		}
	}

	m, err := mat.Sparse(values, rowIdx, colIdx, row, n)
	if err != nil {
		return nil, nil, err
	}
	return m, b, nil
}

func scale(v []float64, s float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * s
	}
	return out
}

func sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
