// Package hologram reduces the complex detector wave to the observable
// hologram and summarizes it.
package hologram

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Extract returns |detector| elementwise. No flat-field correction or other
// normalization is applied.
func Extract(detector mat.CMatrix) *mat.Dense {
	rows, cols := detector.Dims()
	data := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data[i*cols+j] = cmplx.Abs(detector.At(i, j))
		}
	}
	return mat.NewDense(rows, cols, data)
}

// Stats summarizes a hologram.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64

	// Contrast is the Michelson contrast (max-min)/(max+min)
	Contrast float64
}

// Summarize computes the hologram statistics.
func Summarize(h *mat.Dense) Stats {
	values := values(h)
	if len(values) == 0 {
		return Stats{}
	}

	s := Stats{
		Min: floats.Min(values),
		Max: floats.Max(values),
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	if s.Max+s.Min > 0 {
		s.Contrast = (s.Max - s.Min) / (s.Max + s.Min)
	}
	return s
}

// Profile returns a copy of row of the hologram, the line profile through
// the detector at that row.
func Profile(h *mat.Dense, row int) ([]float64, error) {
	rows, _ := h.Dims()
	if row < 0 || row >= rows {
		return nil, fmt.Errorf("row %d outside hologram with %d rows", row, rows)
	}
	return mat.Row(nil, row, h), nil
}

func values(h *mat.Dense) []float64 {
	raw := h.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data[:raw.Rows*raw.Cols]
	}
	out := make([]float64, 0, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		out = append(out, raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols]...)
	}
	return out
}
