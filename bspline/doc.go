// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bspline implements a clamped B-spline basis over a knot
// vector: Cox-de Boor evaluation of basis function values and their
// first and second derivatives, and assembly of the dense design and
// derivative matrices used by the fitting pipeline.
package bspline
