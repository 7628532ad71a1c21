package solver

import "math"

// The simplex core wants min cᵀx, Ax = b, x ≥ 0. This file lowers a
// Model into that shape in two steps: first a canonical form — every
// column non-negative after shifting/mirroring/splitting, every
// constraint single-sided with a non-negative right-hand side — then a
// dense equality system with one slack per remaining inequality.
// The canonical form is kept around because the dual program is
// formulated over exactly these rows.

type rowSense int8

const (
	senseLE rowSense = iota
	senseGE
	senseEQ
)

// canonRow is one single-sided constraint over the standard columns.
type canonRow struct {
	cols    []int
	vals    []float64
	rhs     float64
	sense   rowSense
	orig    int  // model row index, -1 for internal bound rows
	flipped bool // row was negated so that rhs ≥ 0
}

const (
	colShifted  int8 = iota // x = shift + x'
	colMirrored             // x = shift − x'
	colSplit                // x = x⁺ − x⁻
)

// colMap records how one model column maps onto standard columns.
type colMap struct {
	kind  int8
	pos   int
	neg   int
	shift float64
}

// canonical is the lowered model: non-negative standard columns, a
// min-form objective, and single-sided rows with rhs ≥ 0.
type canonical struct {
	nStd int
	obj  []float64
	rows []canonRow
	cols []colMap
}

func (cn *canonical) addStd(obj float64) int {
	cn.obj = append(cn.obj, obj)
	cn.nStd++

	return cn.nStd - 1
}

// lower canonicalizes the model under the given column bounds (the
// bounds are parameters so branch-and-bound nodes can override them
// without touching the model). Crossed bounds are an infeasible model.
func lower(m *Model, colLower, colUpper []float64) (*canonical, error) {
	cn := &canonical{cols: make([]colMap, len(m.obj))}

	for j := range m.obj {
		lo, hi := colLower[j], colUpper[j]
		if lo > hi {
			return nil, ErrInfeasible
		}
		cj := m.obj[j]
		if m.maximize {
			cj = -cj
		}
		switch {
		case !math.IsInf(lo, -1):
			p := cn.addStd(cj)
			cn.cols[j] = colMap{kind: colShifted, pos: p, neg: -1, shift: lo}
			if !math.IsInf(hi, 1) && hi > lo {
				cn.rows = append(cn.rows, canonRow{
					cols: []int{p}, vals: []float64{1},
					rhs: hi - lo, sense: senseLE, orig: -1,
				})
			} else if hi == lo {
				cn.rows = append(cn.rows, canonRow{
					cols: []int{p}, vals: []float64{1},
					rhs: 0, sense: senseEQ, orig: -1,
				})
			}
		case !math.IsInf(hi, 1):
			p := cn.addStd(-cj)
			cn.cols[j] = colMap{kind: colMirrored, pos: p, neg: -1, shift: hi}
		default:
			p := cn.addStd(cj)
			n := cn.addStd(-cj)
			cn.cols[j] = colMap{kind: colSplit, pos: p, neg: n}
		}
	}

	for i := range m.rows {
		if err := cn.translateRow(&m.rows[i], i); err != nil {
			return nil, err
		}
	}

	// Normalize so every rhs is non-negative; the phase-1 start and the
	// dual formulation both assume this orientation.
	for k := range cn.rows {
		r := &cn.rows[k]
		if r.rhs >= 0 {
			continue
		}
		for idx := range r.vals {
			r.vals[idx] = -r.vals[idx]
		}
		r.rhs = -r.rhs
		switch r.sense {
		case senseLE:
			r.sense = senseGE
		case senseGE:
			r.sense = senseLE
		}
		r.flipped = true
	}

	return cn, nil
}

// translateRow rewrites one model row over the standard columns and
// splits double-sided bounds into up to two single-sided canon rows.
func (cn *canonical) translateRow(r *Row, orig int) error {
	// Accumulate per standard column; model rows may carry duplicate
	// column references after repeated SetCoeff/AddRow interplay.
	acc := make(map[int]float64, 2*len(r.Cols))
	var adj float64
	for k, j := range r.Cols {
		a := r.Vals[k]
		if a == 0 {
			continue
		}
		cm := cn.cols[j]
		switch cm.kind {
		case colShifted:
			acc[cm.pos] += a
			adj += a * cm.shift
		case colMirrored:
			acc[cm.pos] -= a
			adj += a * cm.shift
		case colSplit:
			acc[cm.pos] += a
			acc[cm.neg] -= a
		}
	}

	cols := make([]int, 0, len(acc))
	vals := make([]float64, 0, len(acc))
	for p, v := range acc {
		if v != 0 {
			cols = append(cols, p)
			vals = append(vals, v)
		}
	}

	lo, hi := r.Lower, r.Upper
	hasLo := !math.IsInf(lo, -1)
	hasHi := !math.IsInf(hi, 1)

	if len(cols) == 0 {
		// Constant row: either trivially satisfied or infeasible.
		const eps = 1e-12
		if hasLo && adj < lo-eps {
			return ErrInfeasible
		}
		if hasHi && adj > hi+eps {
			return ErrInfeasible
		}

		return nil
	}

	add := func(rhs float64, sense rowSense) {
		cn.rows = append(cn.rows, canonRow{
			cols: cols, vals: vals, rhs: rhs, sense: sense, orig: orig,
		})
	}
	switch {
	case hasLo && hasHi && lo == hi:
		add(lo-adj, senseEQ)
	case hasLo && hasHi:
		// Range row: two single-sided rows sharing the original index;
		// their duals are summed when reported.
		add(lo-adj, senseGE)
		cols2 := append([]int(nil), cols...)
		vals2 := append([]float64(nil), vals...)
		cn.rows = append(cn.rows, canonRow{
			cols: cols2, vals: vals2, rhs: hi - adj, sense: senseLE, orig: orig,
		})
	case hasLo:
		add(lo-adj, senseGE)
	case hasHi:
		add(hi-adj, senseLE)
	}

	return nil
}

// userPoint maps a standard-column point back to model coordinates.
func (cn *canonical) userPoint(xStd []float64) []float64 {
	x := make([]float64, len(cn.cols))
	for j, cm := range cn.cols {
		switch cm.kind {
		case colShifted:
			x[j] = cm.shift + xStd[cm.pos]
		case colMirrored:
			x[j] = cm.shift - xStd[cm.pos]
		case colSplit:
			x[j] = xStd[cm.pos] - xStd[cm.neg]
		}
	}

	return x
}
