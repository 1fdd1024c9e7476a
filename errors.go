// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cobs

import "errors"

// Sentinel errors for Fit. Every failure Fit can return wraps exactly
// one of these; callers should branch on them with errors.Is rather
// than string-matching the message.
var (
	// ErrInvalidInput is returned when len(x) != len(y), fewer than 2
	// data points are supplied, or order < 1.
	ErrInvalidInput = errors.New("cobs: invalid input")

	// ErrInvalidKnots is returned when user-supplied knots are shorter
	// than 2*order or are not non-decreasing.
	ErrInvalidKnots = errors.New("cobs: invalid knots")

	// ErrUnsupportedConstraint is returned when a Constraint names a
	// Type outside the supported set.
	ErrUnsupportedConstraint = errors.New("cobs: unsupported constraint")

	// ErrUnsupportedOperator is returned when a Pointwise constraint
	// names an Operator outside {"=", "<=", ">="}.
	ErrUnsupportedOperator = errors.New("cobs: unsupported operator")

	// ErrSingularMatrix is returned when the regularized normal
	// equations used for the least-squares fallback are still singular
	// after ridge regularization.
	ErrSingularMatrix = errors.New("cobs: singular matrix")
)
