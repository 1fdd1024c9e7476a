// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mat provides the dense real matrix type used by the rest of
// cobs: sparse-triplet construction, multiplication, transpose,
// Gauss-Jordan inversion and a regularized least-squares solve. It is
// a thin domain wrapper around gonum.org/v1/gonum/mat that adds the
// nil-on-singular and always-succeeds failure semantics the fitting
// pipeline relies on, rather than gonum/mat's own panic/Condition-error
// conventions.
package mat
