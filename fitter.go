// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cobs

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/gonum-community/cobs/bspline"
	"github.com/gonum-community/cobs/constraint"
	"github.com/gonum-community/cobs/mat"
	"github.com/gonum-community/cobs/simplex"
)

// coefficientRounding is the scale factor used to round fitted
// coefficients to 12 decimal places before assembly:
// round(v*1e12)/1e12, reducing reporting jitter from the regularized
// solve.
const coefficientRounding = 1e12

// Fitter orchestrates a single constrained B-spline fit: it generates
// or validates a knot vector, assembles the design matrix, builds the
// constraint system, chooses between the LP and least-squares solve
// paths, and assembles a Result. A Fitter holds no state between Fit
// calls and may be reused serially or concurrently.
type Fitter struct{}

// NewFitter returns a ready-to-use Fitter.
func NewFitter() *Fitter {
	return &Fitter{}
}

// Fit fits a constrained B-spline to (x, y) under opts. See the
// package doc and SPEC_FULL.md for the full contract; in short: it
// validates inputs, resolves a knot vector and order, assembles the
// design matrix, and if any constraints are given attempts an LP
// solve before falling back to a regularized least-squares solve.
func (f *Fitter) Fit(x, y []float64, opts Options) (*Result, error) {
	if err := validateInput(x, y, opts); err != nil {
		return nil, err
	}

	order := opts.Order
	if order == 0 {
		order = defaultOrder
	}

	knots, err := resolveKnots(x, order, opts.Knots)
	if err != nil {
		return nil, err
	}

	basis, err := bspline.New(knots, order)
	if err != nil {
		// Only reachable if an internally generated knot vector is
		// malformed, which would be a bug in resolveKnots rather than
		// a user-facing condition.
		return nil, fmt.Errorf("cobs: internal knot generation produced an invalid basis: %w", err)
	}

	design, err := basis.CreateDesignMatrix(x)
	if err != nil {
		return nil, fmt.Errorf("cobs: %w", err)
	}

	coefficients, err := f.solveCoefficients(basis, design, x, y, opts)
	if err != nil {
		return nil, err
	}

	for i, c := range coefficients {
		coefficients[i] = math.Round(c*coefficientRounding) / coefficientRounding
	}

	fitted := design.MulVec(coefficients)
	residuals := make([]float64, len(y))
	for i := range y {
		residuals[i] = y[i] - fitted[i]
	}

	result := &Result{
		Coefficients: coefficients,
		Knots:        knots,
		Order:        order,
		Error:        floats.Dot(residuals, residuals),
		Fit: FitDetail{
			Fitted:       fitted,
			Residuals:    residuals,
			Coefficients: coefficients,
		},
		PP: newPP(basis, coefficients),
	}
	if opts.HasTau {
		result.Tau = opts.Tau
	}
	return result, nil
}

// Fit fits a constrained B-spline using the default Fitter.
func Fit(x, y []float64, opts Options) (*Result, error) {
	return NewFitter().Fit(x, y, opts)
}

func validateInput(x, y []float64, opts Options) error {
	if len(x) != len(y) {
		return fmt.Errorf("cobs: len(x)=%d != len(y)=%d: %w", len(x), len(y), ErrInvalidInput)
	}
	if len(x) < 2 {
		return fmt.Errorf("cobs: need at least 2 data points, got %d: %w", len(x), ErrInvalidInput)
	}
	order := opts.Order
	if order == 0 {
		order = defaultOrder
	}
	if order < 1 {
		return fmt.Errorf("cobs: order must be >= 1, got %d: %w", order, ErrInvalidInput)
	}
	return nil
}

// resolveKnots returns the user-supplied knot vector (validated) or a
// generated one. For x of length n and order k: prepend k+1 copies of
// x[0], insert n-k-1 interior knots equally spaced in (x[0], x[n-1])
// when n > k+1, and append k+1 copies of x[n-1] — giving N = n basis
// functions.
func resolveKnots(x []float64, order int, supplied []float64) ([]float64, error) {
	if supplied != nil {
		if len(supplied) < 2*order {
			return nil, fmt.Errorf("cobs: knot vector length %d < 2*order (%d): %w", len(supplied), 2*order, ErrInvalidKnots)
		}
		for i := 1; i < len(supplied); i++ {
			if supplied[i] < supplied[i-1] {
				return nil, fmt.Errorf("cobs: knots not non-decreasing at index %d: %w", i, ErrInvalidKnots)
			}
		}
		knots := make([]float64, len(supplied))
		copy(knots, supplied)
		return knots, nil
	}
	return generateKnots(x, order), nil
}

func generateKnots(x []float64, order int) []float64 {
	n := len(x)
	knots := make([]float64, 0, n+order+1)
	for i := 0; i <= order; i++ {
		knots = append(knots, x[0])
	}
	if n > order+1 {
		interior := n - order - 1
		step := (x[n-1] - x[0]) / float64(interior+1)
		for i := 1; i <= interior; i++ {
			knots = append(knots, x[0]+step*float64(i))
		}
	}
	for i := 0; i <= order; i++ {
		knots = append(knots, x[n-1])
	}
	return knots
}

// solveCoefficients implements the fit path described in SPEC_FULL.md
// §1 module E: build constraints, try the LP solve, and fall back to
// the regularized least-squares solve whenever constraints are absent
// or the LP solve does not produce a usable result.
func (f *Fitter) solveCoefficients(basis *bspline.Basis, design *mat.Matrix, x, y []float64, opts Options) ([]float64, error) {
	n := basis.NumCoefficients()

	if len(opts.Constraints) > 0 {
		specs, err := toConstraintSpecs(opts.Constraints)
		if err != nil {
			return nil, err
		}
		xMin, _ := floats.Min(x)
		xMax, _ := floats.Max(x)
		A, b, err := constraint.Build(basis, xMin, xMax, specs)
		if err != nil {
			return nil, translateConstraintError(err)
		}
		rows, _ := A.Dims()
		if rows > 0 {
			objective := make([]float64, n)
			for i := range objective {
				objective[i] = 1
			}
			c, outcome := simplex.Solve(A, b, objective)
			if outcome == simplex.Optimal && len(c) == n {
				return c, nil
			}
		}
	}

	c, err := design.Solve(y)
	if err != nil {
		if errors.Is(err, mat.ErrSingular) {
			return nil, fmt.Errorf("cobs: %w", ErrSingularMatrix)
		}
		return nil, fmt.Errorf("cobs: %w", err)
	}
	return c, nil
}

func toConstraintSpecs(cs []Constraint) ([]constraint.Spec, error) {
	specs := make([]constraint.Spec, 0, len(cs))
	for _, c := range cs {
		switch c.Type {
		case Monotone:
			specs = append(specs, constraint.Spec{Kind: constraint.Monotone, Increasing: c.Increasing})
		case Convex, Concave:
			specs = append(specs, constraint.Spec{Kind: constraint.ConvexConcave, Convex: c.isConvex()})
		case Periodic:
			specs = append(specs, constraint.Spec{Kind: constraint.Periodic})
		case Pointwise:
			op, err := translateOperator(c.Operator)
			if err != nil {
				return nil, err
			}
			specs = append(specs, constraint.Spec{Kind: constraint.Pointwise, X: c.X, Y: c.Y, Operator: op})
		default:
			return nil, fmt.Errorf("cobs: constraint type %q: %w", c.Type, ErrUnsupportedConstraint)
		}
	}
	return specs, nil
}

func translateOperator(op string) (constraint.Operator, error) {
	switch op {
	case "=":
		return constraint.Eq, nil
	case "<=":
		return constraint.LE, nil
	case ">=":
		return constraint.GE, nil
	default:
		return 0, fmt.Errorf("cobs: operator %q: %w", op, ErrUnsupportedOperator)
	}
}

func translateConstraintError(err error) error {
	if errors.Is(err, constraint.ErrUnsupportedOperator) {
		return fmt.Errorf("cobs: %w", ErrUnsupportedOperator)
	}
	if errors.Is(err, constraint.ErrUnsupportedConstraint) {
		return fmt.Errorf("cobs: %w", ErrUnsupportedConstraint)
	}
	return err
}
