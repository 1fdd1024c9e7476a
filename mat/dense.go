// Copyright ©2024 The CoBS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mat

import (
	"errors"
	"fmt"
	"math"

	gmat "gonum.org/v1/gonum/mat"
)

// ErrSingular is returned by Solve when the regularized normal
// equations are still singular after the ridge term is added.
var ErrSingular = errors.New("mat: singular matrix")

const (
	// pivotTol is the minimum acceptable pivot magnitude during
	// Gauss-Jordan elimination; a smaller pivot is treated as
	// numerically singular.
	pivotTol = 1e-10

	// ridge is the Tikhonov regularization added to the diagonal of
	// AᵀA before solving the normal equations.
	ridge = 1e-10
)

// Matrix is a dense, row-major real matrix. The zero value is not
// usable; construct one with New, Sparse, Zeros or Identity.
//
// gonum/mat.Dense cannot represent a matrix with zero rows or columns,
// but the constraint builder legitimately produces a 0xN system when
// no constraint contributes a row; degenerateRows/degenerateCols carry
// that shape when raw is nil.
type Matrix struct {
	raw                            *gmat.Dense
	degenerateRows, degenerateCols int
}

// New builds a Matrix from a 2-D array. It returns an error if the
// input is empty or ragged (rows of differing length).
func New(data [][]float64) (*Matrix, error) {
	rows := len(data)
	if rows == 0 {
		return nil, fmt.Errorf("mat: empty matrix")
	}
	cols := len(data[0])
	if cols == 0 {
		return nil, fmt.Errorf("mat: empty matrix")
	}
	flat := make([]float64, 0, rows*cols)
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("mat: ragged row %d: got %d columns, want %d", i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return &Matrix{raw: gmat.NewDense(rows, cols, flat)}, nil
}

// Sparse builds a Matrix of shape (rows, cols) from parallel triplet
// arrays (values, rowIndices, colIndices); all unlisted entries are
// zero. Entries with |value| <= eps are dropped by callers before
// reaching this constructor (see builders in bspline and constraint).
func Sparse(values []float64, rowIndices, colIndices []int, rows, cols int) (*Matrix, error) {
	if len(values) != len(rowIndices) || len(values) != len(colIndices) {
		return nil, fmt.Errorf("mat: triplet arrays have mismatched lengths")
	}
	m := Zeros(rows, cols)
	for k, v := range values {
		r, c := rowIndices[k], colIndices[k]
		if r < 0 || r >= rows || c < 0 || c >= cols {
			return nil, fmt.Errorf("mat: triplet index (%d,%d) out of bounds for %dx%d matrix", r, c, rows, cols)
		}
		m.raw.Set(r, c, m.raw.At(r, c)+v)
	}
	return m, nil
}

// Zeros returns a new (rows, cols) matrix of all zeros.
func Zeros(rows, cols int) *Matrix {
	if rows == 0 || cols == 0 {
		return &Matrix{degenerateRows: rows, degenerateCols: cols}
	}
	return &Matrix{raw: gmat.NewDense(rows, cols, nil)}
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Matrix {
	m := gmat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return &Matrix{raw: m}
}

// Dims returns the row and column count.
func (m *Matrix) Dims() (rows, cols int) {
	if m.raw == nil {
		return m.degenerateRows, m.degenerateCols
	}
	return m.raw.Dims()
}

// At returns the element at (i, j). It panics if the index is out of
// bounds.
func (m *Matrix) At(i, j int) float64 {
	return m.raw.At(i, j)
}

// Set sets the element at (i, j). It panics if the index is out of
// bounds.
func (m *Matrix) Set(i, j int, v float64) {
	m.raw.Set(i, j, v)
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	_, cols := m.raw.Dims()
	row := make([]float64, cols)
	gmat.Row(row, i, m.raw)
	return row
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) []float64 {
	rows, _ := m.raw.Dims()
	col := make([]float64, rows)
	gmat.Col(col, j, m.raw)
	return col
}

// Scale returns a new matrix equal to m scaled by s.
func (m *Matrix) Scale(s float64) *Matrix {
	rows, cols := m.raw.Dims()
	out := gmat.NewDense(rows, cols, nil)
	out.Scale(s, m.raw)
	return &Matrix{raw: out}
}

// Mul returns the matrix product m * b.
func (m *Matrix) Mul(b *Matrix) *Matrix {
	rows, _ := m.raw.Dims()
	_, cols := b.raw.Dims()
	out := gmat.NewDense(rows, cols, nil)
	out.Mul(m.raw, b.raw)
	return &Matrix{raw: out}
}

// MulVec returns the matrix-vector product m * v.
func (m *Matrix) MulVec(v []float64) []float64 {
	rows, cols := m.raw.Dims()
	if len(v) != cols {
		panic(fmt.Sprintf("mat: vector length %d does not match %d columns", len(v), cols))
	}
	out := make([]float64, rows)
	vv := gmat.NewVecDense(cols, v)
	ov := gmat.NewVecDense(rows, nil)
	ov.MulVec(m.raw, vv)
	for i := range out {
		out[i] = ov.AtVec(i)
	}
	return out
}

// T returns the transpose of m as a new matrix.
func (m *Matrix) T() *Matrix {
	rows, cols := m.raw.Dims()
	out := gmat.NewDense(cols, rows, nil)
	out.Copy(m.raw.T())
	return &Matrix{raw: out}
}

// MaxAbs returns the largest absolute value among m's elements.
func (m *Matrix) MaxAbs() float64 {
	rows, cols := m.raw.Dims()
	var max float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := math.Abs(m.raw.At(i, j)); v > max {
				max = v
			}
		}
	}
	return max
}

// dense copies m into a plain [][]float64, for in-place elimination.
func (m *Matrix) dense() [][]float64 {
	rows, _ := m.raw.Dims()
	out := make([][]float64, rows)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// Inverse computes the inverse of m by Gauss-Jordan elimination with
// partial pivoting on the augmented matrix (m | I). It returns nil,
// rather than an error, if at any column the best available pivot
// magnitude falls below 1e-10 — this mirrors the fitting pipeline's
// convention of treating near-singularity as a recoverable condition,
// not a fatal one.
func (m *Matrix) Inverse() *Matrix {
	rows, cols := m.raw.Dims()
	if rows != cols {
		return nil
	}
	n := rows
	a := m.dense()
	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
		inv[i][i] = 1
	}

	for col := 0; col < n; col++ {
		pivotRow := col
		best := math.Abs(a[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(a[r][col]); v > best {
				best = v
				pivotRow = r
			}
		}
		if best < pivotTol {
			return nil
		}
		if pivotRow != col {
			a[col], a[pivotRow] = a[pivotRow], a[col]
			inv[col], inv[pivotRow] = inv[pivotRow], inv[col]
		}

		pivot := a[col][col]
		for j := 0; j < n; j++ {
			a[col][j] /= pivot
			inv[col][j] /= pivot
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := a[r][col]
			if factor == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				a[r][j] -= factor * a[col][j]
				inv[r][j] -= factor * inv[col][j]
			}
		}
	}

	out := gmat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, inv[i][j])
		}
	}
	return &Matrix{raw: out}
}

// Solve computes a regularized least-squares solution of m*x ≈ b via
// the normal equations: form M = mᵀm + ridge*I, then return M⁻¹·mᵀb.
// The ridge term keeps M invertible for rank-deficient or
// near-collinear designs. Solve returns an error if len(b) does not
// match the row count, and ErrSingular if M remains singular even
// after regularization. A matrix with zero rows or columns is not
// supported: Solve panics on it.
func (m *Matrix) Solve(b []float64) ([]float64, error) {
	rows, cols := m.raw.Dims()
	if len(b) != rows {
		return nil, fmt.Errorf("mat: rhs length %d does not match %d rows", len(b), rows)
	}
	mt := m.T()
	mtm := mt.Mul(m)
	for i := 0; i < cols; i++ {
		mtm.Set(i, i, mtm.At(i, i)+ridge)
	}
	inv := mtm.Inverse()
	if inv == nil {
		return nil, ErrSingular
	}
	mtb := mt.MulVec(b)
	return inv.MulVec(mtb), nil
}
