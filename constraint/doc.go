// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package constraint builds the linear inequality system {A, b} in
// coefficient space that realizes shape constraints — monotonicity,
// convexity/concavity, periodicity and pointwise (in)equalities — over
// a B-spline basis. Every row is generated so that the system reads
// A*c <= b in the LP formulation consumed by package simplex.
package constraint
