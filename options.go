// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cobs

// ConstraintType names a supported shape constraint family.
type ConstraintType string

// Supported constraint types. Any other value passed to a Constraint's
// Type field fails Fit with ErrUnsupportedConstraint.
const (
	Monotone  ConstraintType = "monotone"
	Convex    ConstraintType = "convex"
	Concave   ConstraintType = "concave"
	Periodic  ConstraintType = "periodic"
	Pointwise ConstraintType = "pointwise"
)

// Constraint is one shape constraint applied to the fit. Only the
// fields relevant to Type need be set.
type Constraint struct {
	Type ConstraintType

	// Increasing applies to Type == Monotone: true requires a
	// non-decreasing fit, false a non-increasing one.
	Increasing bool

	// ConvexUp applies to Type == Convex: nil (the default) and true
	// both request convexity; an explicit false requests concavity,
	// matching the source's `{type: "convex", convex: false}` form.
	// Type == Concave is equivalent to ConvexUp == false regardless of
	// this field.
	ConvexUp *bool

	// X, Y and Operator apply to Type == Pointwise: the fit is
	// constrained so that s(X) Operator Y, where Operator is one of
	// "=", "<=", ">=".
	X, Y     float64
	Operator string
}

// isConvex resolves the effective convexity direction for Convex and
// Concave constraints.
func (c Constraint) isConvex() bool {
	if c.Type == Concave {
		return false
	}
	if c.ConvexUp != nil {
		return *c.ConvexUp
	}
	return true
}

// Options configures Fit. Unknown or inapplicable fields are ignored;
// the zero value selects the library's defaults (order 4, generated
// knots, no constraints).
type Options struct {
	// Order is the spline order k (degree = k-1); must be >= 1 if set.
	// Zero selects the default order, 4 (cubic).
	Order int

	// Knots, if non-nil, supplies an explicit non-decreasing knot
	// vector of length >= 2*Order. If nil, a knot vector is generated
	// from x (see generateKnots).
	Knots []float64

	// Constraints lists the shape constraints to enforce.
	Constraints []Constraint

	// Tau is echoed in the Result but does not alter the fit's loss:
	// the core always minimizes squared error / LP feasibility, never
	// a quantile (asymmetric absolute deviation) loss. Tau is copied to
	// Result.Tau only when HasTau is true; otherwise Result.Tau stays
	// zero whatever Tau holds.
	Tau    float64
	HasTau bool

	// The following are accepted for interface parity with the public
	// fit façade and are not used by the core: it does not implement
	// weighted loss, automatic smoothing-parameter selection, or
	// maxiter/tolerance-bounded iterative refinement.
	Weights   []float64
	Lambda    float64
	IC        string
	NumKnots  int
	MaxIter   int
	Tolerance float64
	Degree    int
}

const defaultOrder = 4
