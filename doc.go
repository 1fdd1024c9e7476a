// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cobs fits constrained regression B-splines to scattered
// one-dimensional data: given (x, y) samples it produces a
// piecewise-polynomial function of a chosen order that minimizes a
// squared-error loss while satisfying qualitative shape constraints —
// monotonicity, convexity/concavity, periodicity, and pointwise
// equalities or inequalities.
//
// The numerical kernel lives in the bspline, constraint, simplex and
// mat subpackages; this package orchestrates them: it generates a
// knot vector, assembles the design matrix, builds the constraint
// system, chooses between an unconstrained least-squares solve and a
// linear-programming feasibility solve, and returns a Result carrying
// the fitted coefficients and two evaluators.
package cobs
