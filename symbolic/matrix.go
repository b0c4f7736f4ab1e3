package symbolic

import (
	"fmt"
	"strings"
)

// ============================================================
// Matrix: symbolic matrix
// ============================================================

type Matrix struct {
	rows, cols int
	data       [][]Expr
}

func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("symbolic: negative matrix size %dx%d", rows, cols))
	}
	data := make([][]Expr, rows)
	for i := range data {
		data[i] = make([]Expr, cols)
		for j := range data[i] {
			data[i][j] = N(0)
		}
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

func MatrixFromSlice(rows, cols int, entries []Expr) *Matrix {
	if len(entries) != rows*cols {
		panic(fmt.Sprintf("symbolic: MatrixFromSlice needs %d entries, got %d", rows*cols, len(entries)))
	}
	m := NewMatrix(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.data[i][j] = entries[i*cols+j]
		}
	}
	return m
}

// MatrixFromRows builds a matrix from row slices. Ragged input is an error
// rather than a panic because rows usually come from user-supplied files.
func MatrixFromRows(rows [][]Expr) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("symbolic: row %d has %d entries, want %d", i, len(row), cols)
		}
		for j, e := range row {
			if e == nil {
				return nil, fmt.Errorf("symbolic: entry [%d,%d]: %w", i, j, ErrUnsupported)
			}
			m.data[i][j] = e
		}
	}
	return m, nil
}

// Diagonal returns the square matrix with the given diagonal.
func Diagonal(entries ...Expr) *Matrix {
	m := NewMatrix(len(entries), len(entries))
	for i, e := range entries {
		m.data[i][i] = e
	}
	return m
}

func (m *Matrix) checkBounds(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("symbolic: matrix index out of range [%d,%d] for %dx%d", row, col, m.rows, m.cols))
	}
}

func (m *Matrix) Get(row, col int) Expr {
	m.checkBounds(row, col)
	return m.data[row][col]
}
func (m *Matrix) Set(row, col int, val Expr) {
	m.checkBounds(row, col)
	m.data[row][col] = val
}
func (m *Matrix) Rows() int      { return m.rows }
func (m *Matrix) Cols() int      { return m.cols }
func (m *Matrix) IsSquare() bool { return m.rows == m.cols }

// Clone returns a copy that shares no row storage with m. Entries are
// immutable and therefore shared.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, data: make([][]Expr, m.rows)}
	for i := range m.data {
		out.data[i] = append([]Expr(nil), m.data[i]...)
	}
	return out
}

func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(m.data[i][j].String())
		}
		sb.WriteString("]")
	}
	sb.WriteString("]")
	return sb.String()
}

func (m *Matrix) LaTeX() string {
	var sb strings.Builder
	sb.WriteString("\\begin{pmatrix}")
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(" \\\\ ")
		}
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(" & ")
			}
			sb.WriteString(m.data[i][j].LaTeX())
		}
	}
	sb.WriteString("\\end{pmatrix}")
	return sb.String()
}

func (m *Matrix) MatMul(other *Matrix) *Matrix {
	if m.cols != other.rows {
		panic("symbolic: matrix dimension mismatch in MatMul")
	}
	result := NewMatrix(m.rows, other.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < other.cols; j++ {
			terms := make([]Expr, m.cols)
			for k := 0; k < m.cols; k++ {
				terms[k] = MulOf(m.data[i][k], other.data[k][j])
			}
			result.data[i][j] = AddOf(terms...)
		}
	}
	return result
}

func (m *Matrix) Transpose() *Matrix {
	result := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			result.data[j][i] = m.data[i][j]
		}
	}
	return result
}

// IsSymmetric reports whether m equals its transpose up to the normal form.
func (m *Matrix) IsSymmetric() (bool, error) {
	if !m.IsSquare() {
		return false, nil
	}
	for i := 0; i < m.rows; i++ {
		for j := i + 1; j < m.cols; j++ {
			zero, err := ZeroEquivalent(SubOf(m.data[i][j], m.data[j][i]))
			if err != nil {
				return false, err
			}
			if !zero {
				return false, nil
			}
		}
	}
	return true, nil
}

// Inverse computes the exact inverse by Gauss–Jordan elimination over
// rational functions. Every pivot is decided through the normal form, so a
// matrix whose determinant vanishes identically reports ErrSingular instead
// of producing entries with a zero denominator.
func (m *Matrix) Inverse() (*Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, m.rows, m.cols)
	}
	n := m.rows
	nz := newNormalizer()

	a := make([][]rat, n)
	inv := make([][]rat, n)
	for i := 0; i < n; i++ {
		a[i] = make([]rat, n)
		inv[i] = make([]rat, n)
		for j := 0; j < n; j++ {
			r, err := nz.toRat(m.data[i][j])
			if err != nil {
				return nil, fmt.Errorf("symbolic: inverse: entry [%d,%d]: %w", i, j, err)
			}
			a[i][j] = r
			if i == j {
				inv[i][j] = ratInt(1)
			} else {
				inv[i][j] = ratInt(0)
			}
		}
	}

	for col := 0; col < n; col++ {
		pivot := -1
		for row := col; row < n; row++ {
			if !a[row][col].isZero() {
				pivot = row
				break
			}
		}
		if pivot < 0 {
			return nil, ErrSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		scale, err := nz.inv(a[col][col])
		if err != nil {
			return nil, err
		}
		for j := 0; j < n; j++ {
			a[col][j] = nz.mul(a[col][j], scale)
			inv[col][j] = nz.mul(inv[col][j], scale)
		}
		for row := 0; row < n; row++ {
			if row == col || a[row][col].isZero() {
				continue
			}
			factor := a[row][col].neg()
			for j := 0; j < n; j++ {
				a[row][j] = nz.add(a[row][j], nz.mul(factor, a[col][j]))
				inv[row][j] = nz.add(inv[row][j], nz.mul(factor, inv[col][j]))
			}
		}
	}

	result := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			result.data[i][j] = nz.expr(inv[i][j])
		}
	}
	return result, nil
}

// ApplyDiff differentiates every entry with respect to varName.
func (m *Matrix) ApplyDiff(varName string) (*Matrix, error) {
	result := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			d, err := Diff(m.data[i][j], varName)
			if err != nil {
				return nil, fmt.Errorf("symbolic: entry [%d,%d]: %w", i, j, err)
			}
			result.data[i][j] = d
		}
	}
	return result, nil
}

func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.data[i][i] = N(1)
	}
	return m
}
