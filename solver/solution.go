package solver

import "math"

// Solution is the outcome of a successful solve.
type Solution struct {
	// Objective is the optimal objective value in the model's own
	// optimization sense.
	Objective float64

	// X holds one value per model column.
	X []float64

	// RowDuals holds one dual value per model row, in the model's own
	// optimization sense. Nil for MIP solves, where duals are not
	// defined.
	RowDuals []float64
}

// IsIntegral reports whether every entry of X marked integral in the
// model is within tol of an integer.
func (s *Solution) IsIntegral(m *Model, tol float64) bool {
	for j, isInt := range m.integer {
		if !isInt {
			continue
		}
		if frac := fractionality(s.X[j]); frac > tol {
			return false
		}
	}

	return true
}

// fractionality is the distance from v to the nearest integer.
func fractionality(v float64) float64 {
	return math.Abs(v - math.Round(v))
}
