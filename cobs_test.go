// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cobs

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFitValidatesInput(t *testing.T) {
	_, err := Fit([]float64{1}, []float64{1}, Options{})
	if err == nil {
		t.Fatal("Fit: expected error for single data point")
	}
	_, err = Fit([]float64{1, 2}, []float64{1}, Options{})
	if err == nil {
		t.Fatal("Fit: expected error for mismatched lengths")
	}
	_, err = Fit([]float64{1, 2}, []float64{1, 2}, Options{Order: 0})
	if err != nil {
		t.Fatalf("Fit: unexpected error for default order: %v", err)
	}
	_, err = Fit([]float64{1, 2}, []float64{1, 2}, Options{Order: -1})
	if err == nil {
		t.Fatal("Fit: expected error for negative order")
	}
}

func TestFitInvalidKnots(t *testing.T) {
	_, err := Fit([]float64{1, 2, 3}, []float64{1, 2, 3}, Options{Order: 4, Knots: []float64{1, 2, 3}})
	if err == nil {
		t.Fatal("Fit: expected error for too-short knot vector")
	}
}

// S1: unconstrained quadratic data interpolates to near-zero residuals.
func TestFitUnconstrainedInterpolates(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 4, 9, 16, 25}
	res, err := Fit(x, y, Options{})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if len(res.Coefficients) != 5 {
		t.Fatalf("len(Coefficients) = %d, want 5", len(res.Coefficients))
	}
	if res.Error > 1e-5 {
		t.Errorf("Error = %v, want < 1e-5", res.Error)
	}
}

// S2: monotone increasing constraint keeps the fit non-decreasing at
// interior test points.
func TestFitMonotoneIncreasing(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 2, 4, 7, 11}
	res, err := Fit(x, y, Options{Constraints: []Constraint{{Type: Monotone, Increasing: true}}})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	pts := []float64{1.5, 2.5, 3.5, 4.5}
	prev := math.Inf(-1)
	for _, p := range pts {
		v := res.Evaluate(p)
		if v < prev-1e-6 {
			t.Errorf("Evaluate(%v) = %v, want >= previous %v", p, v, prev)
		}
		prev = v
	}
}

// S4: pointwise equality pins the fit at the requested abscissa.
func TestFitPointwiseEquality(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 4, 9, 16, 25}
	res, err := Fit(x, y, Options{Constraints: []Constraint{{Type: Pointwise, X: 3, Y: 9, Operator: "="}}})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got := res.Evaluate(3); math.Abs(got-9) > 1e-3 {
		t.Errorf("Evaluate(3) = %v, want ~9", got)
	}
}

// S5: convex constraint keeps the second derivative non-negative.
func TestFitConvex(t *testing.T) {
	x := []float64{1, 2, 3, 5, 6, 9, 12}
	y := []float64{7, 16, 25, 40, 49, 70, 96}
	res, err := Fit(x, y, Options{Constraints: []Constraint{{Type: Convex}}})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for xi := 1.5; xi < 12; xi += 0.5 {
		if v := res.EvaluateSecondDerivative(xi); v < -1e-3 {
			t.Errorf("EvaluateSecondDerivative(%v) = %v, want >= ~0", xi, v)
		}
	}
}

// S6: conflicting monotone + pointwise constraints must not panic and
// must still return a usable result.
func TestFitConflictingConstraintsDoesNotPanic(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 2, 3, 4, 5}
	res, err := Fit(x, y, Options{Constraints: []Constraint{
		{Type: Monotone, Increasing: true},
		{Type: Pointwise, X: 3, Y: 0, Operator: "="},
	}})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if math.IsNaN(res.Evaluate(3)) {
		t.Fatal("Evaluate(3) = NaN")
	}
}

func TestFitEchoesTau(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{1, 2, 3}
	res, err := Fit(x, y, Options{Order: 2, Tau: 0.5, HasTau: true})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if res.Tau != 0.5 {
		t.Errorf("Tau = %v, want 0.5", res.Tau)
	}
}

func TestFitUnsupportedConstraintType(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{1, 2, 3}
	_, err := Fit(x, y, Options{Constraints: []Constraint{{Type: "bogus"}}})
	if err == nil {
		t.Fatal("Fit: expected error for unsupported constraint type")
	}
}

func TestGenerateKnotsBookkeeping(t *testing.T) {
	x := []float64{1, 2, 3, 5, 6, 9, 12}
	order := 4
	knots := generateKnots(x, order)
	n := len(x)
	if len(knots) != n+order+1 {
		t.Fatalf("len(knots) = %d, want %d", len(knots), n+order+1)
	}
	for i := 0; i <= order; i++ {
		if knots[i] != x[0] {
			t.Errorf("knots[%d] = %v, want %v", i, knots[i], x[0])
		}
		if knots[len(knots)-1-i] != x[n-1] {
			t.Errorf("knots[%d] = %v, want %v", len(knots)-1-i, knots[len(knots)-1-i], x[n-1])
		}
	}
	for i := order + 1; i < len(knots)-order-1; i++ {
		if knots[i] <= x[0] || knots[i] >= x[n-1] {
			t.Errorf("interior knot[%d] = %v, want strictly inside (%v, %v)", i, knots[i], x[0], x[n-1])
		}
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			t.Errorf("knots not non-decreasing at %d", i)
		}
	}
}

func TestGenerateKnotsMatchesExpected(t *testing.T) {
	x := []float64{0, 2, 4, 6, 8, 10, 12}
	want := []float64{0, 0, 0, 0, 0, 4, 8, 12, 12, 12, 12, 12}
	got := generateKnots(x, 4)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("generateKnots mismatch (-want +got):\n%s", diff)
	}
}

func TestFitResultCoefficientsMatchFitDetail(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 4, 9, 16, 25}
	res, err := Fit(x, y, Options{})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if diff := cmp.Diff(res.Coefficients, res.Fit.Coefficients); diff != "" {
		t.Errorf("Result.Coefficients and Fit.Coefficients diverge (-result +detail):\n%s", diff)
	}
}

func TestFitUnsupportedOperator(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{1, 2, 3}
	_, err := Fit(x, y, Options{Constraints: []Constraint{{Type: Pointwise, X: 2, Y: 2, Operator: "!="}}})
	if err == nil {
		t.Fatal("Fit: expected error for unsupported operator")
	}
}
