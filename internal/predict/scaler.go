package predict

import (
	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers features to zero mean and unit variance, column by
// column. It must be fit on the training partition only and then applied to
// everything else, so evaluation rows never leak into the fitted parameters.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// Fit computes per-column mean and population standard deviation. Columns
// with zero variance get scale 1 so constant features pass through unchanged.
func (s *StandardScaler) Fit(rows [][]float64) {
	if len(rows) == 0 {
		s.Mean, s.Scale = nil, nil
		return
	}

	cols := len(rows[0])
	s.Mean = make([]float64, cols)
	s.Scale = make([]float64, cols)

	column := make([]float64, len(rows))
	for c := 0; c < cols; c++ {
		for r, row := range rows {
			column[r] = row[c]
		}
		s.Mean[c] = stat.Mean(column, nil)
		sd := stat.PopStdDev(column, nil)
		if sd == 0 {
			sd = 1
		}
		s.Scale[c] = sd
	}
}

// Transform returns scaled copies of the rows; the input is left untouched.
func (s *StandardScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.TransformRow(row)
	}
	return out
}

// TransformRow scales a single feature row.
func (s *StandardScaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for c, v := range row {
		out[c] = (v - s.Mean[c]) / s.Scale[c]
	}
	return out
}
