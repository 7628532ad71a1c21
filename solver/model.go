package solver

import "math"

// Row is one sparse linear constraint: Lower ≤ Σ Vals[k]·x[Cols[k]] ≤ Upper.
// Use math.Inf(-1) / math.Inf(1) for a missing side.
type Row struct {
	Cols  []int
	Vals  []float64
	Lower float64
	Upper float64
}

// Model is an incremental linear/integer optimization model.
// The zero value is not usable; construct with NewModel.
type Model struct {
	maximize bool

	obj      []float64
	colLower []float64
	colUpper []float64
	integer  []bool

	rows []Row
}

// NewModel returns an empty model. The optimization direction is fixed
// at construction; everything else is mutable.
func NewModel(maximize bool) *Model {
	return &Model{maximize: maximize}
}

// Maximize reports the optimization direction.
func (m *Model) Maximize() bool { return m.maximize }

// NumCols returns the number of columns (decision variables).
func (m *Model) NumCols() int { return len(m.obj) }

// NumRows returns the number of rows (constraints).
func (m *Model) NumRows() int { return len(m.rows) }

// AddColumn appends a decision variable with the given objective
// coefficient, bounds and integrality mark, and returns its index.
// The column starts with no row coefficients; wire it into rows with
// SetCoeff (or reference it from later AddRow calls).
func (m *Model) AddColumn(obj, lower, upper float64, integer bool) (int, error) {
	if lower > upper {
		return 0, ErrBadBounds
	}
	m.obj = append(m.obj, obj)
	m.colLower = append(m.colLower, lower)
	m.colUpper = append(m.colUpper, upper)
	m.integer = append(m.integer, integer)

	return len(m.obj) - 1, nil
}

// AddRow appends a sparse constraint lower ≤ Σ vals·x[cols] ≤ upper and
// returns its index. cols and vals may be empty: coefficients can be
// wired in later with SetCoeff, which is how append-only column sets
// (column generation) grow existing rows.
func (m *Model) AddRow(lower float64, cols []int, vals []float64, upper float64) (int, error) {
	if lower > upper {
		return 0, ErrBadBounds
	}
	if len(cols) != len(vals) {
		return 0, ErrDimensionMismatch
	}
	for _, j := range cols {
		if j < 0 || j >= len(m.obj) {
			return 0, ErrDimensionMismatch
		}
	}
	r := Row{
		Cols:  append([]int(nil), cols...),
		Vals:  append([]float64(nil), vals...),
		Lower: lower,
		Upper: upper,
	}
	m.rows = append(m.rows, r)

	return len(m.rows) - 1, nil
}

// AddDenseRow appends a constraint from a dense coefficient vector,
// dropping zero entries.
func (m *Model) AddDenseRow(lower float64, coeffs []float64, upper float64) (int, error) {
	if len(coeffs) > len(m.obj) {
		return 0, ErrDimensionMismatch
	}
	var cols []int
	var vals []float64
	for j, v := range coeffs {
		if v != 0 {
			cols = append(cols, j)
			vals = append(vals, v)
		}
	}

	return m.AddRow(lower, cols, vals, upper)
}

// SetCoeff sets the coefficient of column col in row row, replacing an
// existing entry or appending a new one.
func (m *Model) SetCoeff(row, col int, val float64) error {
	if row < 0 || row >= len(m.rows) || col < 0 || col >= len(m.obj) {
		return ErrDimensionMismatch
	}
	r := &m.rows[row]
	for k, j := range r.Cols {
		if j == col {
			r.Vals[k] = val
			return nil
		}
	}
	r.Cols = append(r.Cols, col)
	r.Vals = append(r.Vals, val)

	return nil
}

// SetObjCoeff rewrites the objective coefficient of one column.
// Pricing subproblems use this to install a fresh dual vector as the
// objective before each solve.
func (m *Model) SetObjCoeff(col int, val float64) error {
	if col < 0 || col >= len(m.obj) {
		return ErrDimensionMismatch
	}
	m.obj[col] = val

	return nil
}

// ColBounds returns the bounds of column col.
func (m *Model) ColBounds(col int) (lower, upper float64, err error) {
	if col < 0 || col >= len(m.obj) {
		return 0, 0, ErrDimensionMismatch
	}

	return m.colLower[col], m.colUpper[col], nil
}

// SetColBounds rewrites the bounds of column col. Crossed bounds are
// rejected; use branch-and-bound splits for deliberately empty domains.
func (m *Model) SetColBounds(col int, lower, upper float64) error {
	if col < 0 || col >= len(m.obj) {
		return ErrDimensionMismatch
	}
	if lower > upper {
		return ErrBadBounds
	}
	m.colLower[col] = lower
	m.colUpper[col] = upper

	return nil
}

// RowBounds returns the bounds of row row.
func (m *Model) RowBounds(row int) (lower, upper float64, err error) {
	if row < 0 || row >= len(m.rows) {
		return 0, 0, ErrDimensionMismatch
	}

	return m.rows[row].Lower, m.rows[row].Upper, nil
}

// TruncateRows drops every row with index ≥ n. This is the retraction
// primitive: scoped restrictions are appended after a watermark and
// truncated back to it on every exit path.
func (m *Model) TruncateRows(n int) error {
	if n < 0 || n > len(m.rows) {
		return ErrDimensionMismatch
	}
	m.rows = m.rows[:n]

	return nil
}

// Inf returns positive infinity, for readability at call sites.
func Inf() float64 { return math.Inf(1) }

// NegInf returns negative infinity, for readability at call sites.
func NegInf() float64 { return math.Inf(-1) }
