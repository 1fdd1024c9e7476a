// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cobs

import "github.com/gonum-community/cobs/bspline"

// secondDerivativeStep is the central-difference step used by
// PP.EvaluateSecondDerivative. This matches the source library's
// documented policy: the second derivative is reported via central
// finite differences rather than the exact B-spline derivative basis
// already available in package bspline. See DESIGN.md for the
// rationale and the exact alternative left available on PP.
const secondDerivativeStep = 1e-6

// PP is a piecewise-polynomial evaluator: a pure function of a fixed
// (knots, order, coefficients) triple. It is safe to keep and call
// after the Result it came from is discarded.
type PP struct {
	basis        *bspline.Basis
	coefficients []float64
}

// newPP builds a PP over basis and a copy of coefficients.
func newPP(basis *bspline.Basis, coefficients []float64) *PP {
	c := make([]float64, len(coefficients))
	copy(c, coefficients)
	return &PP{basis: basis, coefficients: c}
}

// Evaluate returns ŝ(x) = Σ cⱼ B_{j,k}(x).
func (p *PP) Evaluate(x float64) float64 {
	return dotSlice(p.basis.Evaluate(x), p.coefficients)
}

// EvaluateDerivative returns the exact first derivative of ŝ at x via
// the B-spline derivative basis.
func (p *PP) EvaluateDerivative(x float64) float64 {
	return dotSlice(p.basis.EvaluateDerivative(x), p.coefficients)
}

// EvaluateSecondDerivative returns the second derivative of ŝ at x via
// central finite differences with step secondDerivativeStep:
// (f(x+h) - 2f(x) + f(x-h)) / h². Package bspline can compute this
// exactly (Basis.EvaluateSecondDerivative); the finite-difference form
// is preserved here for behavioral fidelity with the source library,
// see DESIGN.md.
func (p *PP) EvaluateSecondDerivative(x float64) float64 {
	h := secondDerivativeStep
	fPlus := p.Evaluate(x + h)
	f := p.Evaluate(x)
	fMinus := p.Evaluate(x - h)
	return (fPlus - 2*f + fMinus) / (h * h)
}

// EvaluateSecondDerivativeExact returns the second derivative computed
// directly from the B-spline derivative basis, for callers that prefer
// exact evaluation over the finite-difference policy used by
// EvaluateSecondDerivative.
func (p *PP) EvaluateSecondDerivativeExact(x float64) float64 {
	return dotSlice(p.basis.EvaluateSecondDerivative(x), p.coefficients)
}

func dotSlice(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// FitDetail carries the per-sample outcome of a fit.
type FitDetail struct {
	// Fitted holds D*c, the design matrix evaluated against the fit
	// coefficients.
	Fitted []float64
	// Residuals holds y - Fitted.
	Residuals []float64
	// Coefficients aliases Result.Coefficients.
	Coefficients []float64
}

// Result is the immutable outcome of a Fit call: the knot vector,
// order and coefficients that define the spline, the per-sample fit
// detail, and evaluators over the fitted spline.
type Result struct {
	Coefficients []float64
	Knots        []float64
	Order        int
	Error        float64
	Fit          FitDetail

	// Tau is echoed from Options when Options.HasTau is true; it does
	// not affect the fit (see Options.Tau).
	Tau float64

	// PP is a standalone evaluator over (Knots, Order, Coefficients).
	PP *PP
}

// Evaluate aliases Result.PP.Evaluate(x).
func (r *Result) Evaluate(x float64) float64 {
	return r.PP.Evaluate(x)
}

// EvaluateSecondDerivative aliases Result.PP.EvaluateSecondDerivative(x).
func (r *Result) EvaluateSecondDerivative(x float64) float64 {
	return r.PP.EvaluateSecondDerivative(x)
}
