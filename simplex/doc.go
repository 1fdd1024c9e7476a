// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simplex implements a revised primal simplex solver over
// dense matrices, used to find a feasible or objective-minimizing
// coefficient vector under the shape-constraint system produced by
// package constraint. It never panics on infeasibility, unboundedness,
// a singular basis, or iteration-limit exhaustion — those conditions
// are reported through the Outcome return value, and the vector result
// is the zero vector in every non-Optimal case, matching the source
// library's documented failure sentinel.
package simplex
