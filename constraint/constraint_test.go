// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"errors"
	"testing"

	"github.com/gonum-community/cobs/bspline"
)

func testBasis(t *testing.T, lo, hi float64, n, order int) *bspline.Basis {
	t.Helper()
	knots := make([]float64, 0, n+order+1)
	for i := 0; i <= order; i++ {
		knots = append(knots, lo)
	}
	interior := n - order - 1
	if interior > 0 {
		step := (hi - lo) / float64(interior+1)
		for i := 1; i <= interior; i++ {
			knots = append(knots, lo+step*float64(i))
		}
	}
	for i := 0; i <= order; i++ {
		knots = append(knots, hi)
	}
	b, err := bspline.New(knots, order)
	if err != nil {
		t.Fatalf("bspline.New: %v", err)
	}
	return b
}

func TestBuildEmptyYieldsZeroRows(t *testing.T) {
	b := testBasis(t, 0, 10, 5, 4)
	A, bb, err := Build(b, 0, 10, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rows, cols := A.Dims()
	if rows != 0 || cols != b.NumCoefficients() {
		t.Fatalf("Dims = (%d,%d), want (0,%d)", rows, cols, b.NumCoefficients())
	}
	if len(bb) != 0 {
		t.Fatalf("len(b) = %d, want 0", len(bb))
	}
}

func TestBuildMonotoneRowCount(t *testing.T) {
	b := testBasis(t, 0, 10, 5, 4)
	A, bb, err := Build(b, 0, 10, []Spec{{Kind: Monotone, Increasing: true}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rows, _ := A.Dims()
	if rows != gridSize {
		t.Fatalf("rows = %d, want %d", rows, gridSize)
	}
	for _, v := range bb {
		if v != 0 {
			t.Fatalf("monotone rhs = %v, want 0", v)
		}
	}
}

func TestBuildPeriodicRowCount(t *testing.T) {
	b := testBasis(t, 0, 6, 7, 4)
	A, _, err := Build(b, 0, 6, []Spec{{Kind: Periodic}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rows, _ := A.Dims()
	if rows != 4 {
		t.Fatalf("rows = %d, want 4", rows)
	}
}

func TestBuildPointwiseEqualityTwoRows(t *testing.T) {
	b := testBasis(t, 1, 5, 5, 4)
	A, bb, err := Build(b, 1, 5, []Spec{{Kind: Pointwise, X: 3, Y: 9, Operator: Eq}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rows, _ := A.Dims()
	if rows != 2 {
		t.Fatalf("rows = %d, want 2", rows)
	}
	if bb[0] != 9 || bb[1] != -9 {
		t.Fatalf("b = %v, want [9 -9]", bb)
	}
}

func TestBuildPointwiseUnsupportedOperator(t *testing.T) {
	b := testBasis(t, 1, 5, 5, 4)
	_, _, err := Build(b, 1, 5, []Spec{{Kind: Pointwise, X: 3, Y: 9, Operator: Operator(99)}})
	if !errors.Is(err, ErrUnsupportedOperator) {
		t.Fatalf("err = %v, want ErrUnsupportedOperator", err)
	}
}

func TestBuildUnsupportedKind(t *testing.T) {
	b := testBasis(t, 1, 5, 5, 4)
	_, _, err := Build(b, 1, 5, []Spec{{Kind: Kind(99)}})
	if !errors.Is(err, ErrUnsupportedConstraint) {
		t.Fatalf("err = %v, want ErrUnsupportedConstraint", err)
	}
}
