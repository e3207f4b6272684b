// Package illumination builds the complex probe field that illuminates the object.
package illumination

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"holosim/internal/models"
)

// Synthesize builds probe = a0 * amplitude * exp(i * phi0 * phase) on the grid.
//
// Amplitude and phase are independent real-valued arrays so that a measured
// or modelled beam profile can replace the plane wave without touching the
// rest of the pipeline. Both must match the grid.
func Synthesize(grid models.Grid, a0 float64, amplitude mat.Matrix, phi0 float64, phase mat.Matrix) (*mat.CDense, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if err := checkDims("illumination amplitude", amplitude, grid); err != nil {
		return nil, err
	}
	if err := checkDims("illumination phase", phase, grid); err != nil {
		return nil, err
	}

	data := make([]complex128, grid.Size())
	for i := 0; i < grid.Rows; i++ {
		row := data[i*grid.Cols : (i+1)*grid.Cols]
		for j := range row {
			a := a0 * amplitude.At(i, j)
			row[j] = complex(a, 0) * cmplx.Exp(complex(0, phi0*phase.At(i, j)))
		}
	}
	return mat.NewCDense(grid.Rows, grid.Cols, data), nil
}

// Uniform returns the unit-amplitude, zero-phase plane wave.
func Uniform(grid models.Grid) (*mat.CDense, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	ones := Ones(grid)
	return Synthesize(grid, 1.0, ones, 0.0, ones)
}

// Ones returns an all-ones real array on the grid.
func Ones(grid models.Grid) *mat.Dense {
	data := make([]float64, grid.Size())
	for i := range data {
		data[i] = 1
	}
	return mat.NewDense(grid.Rows, grid.Cols, data)
}

// Gaussian returns a real amplitude profile exp(-r^2 / (2 sigma^2)) centered
// on the grid, with sigma in pixels. It is a drop-in replacement for Ones
// when a finite beam footprint is wanted.
func Gaussian(grid models.Grid, sigma float64) (*mat.Dense, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if !(sigma > 0) {
		return nil, models.NewParameterError("illumination sigma", sigma, models.ErrInvalidGeometry)
	}
	cr := float64(grid.Rows-1) / 2
	cc := float64(grid.Cols-1) / 2
	m := mat.NewDense(grid.Rows, grid.Cols, nil)
	m.Apply(func(i, j int, _ float64) float64 {
		dr := float64(i) - cr
		dc := float64(j) - cc
		return math.Exp(-(dr*dr + dc*dc) / (2 * sigma * sigma))
	}, m)
	return m, nil
}

func checkDims(name string, m mat.Matrix, grid models.Grid) error {
	if m == nil {
		return models.NewParameterError(name, "nil", models.ErrDimensionMismatch)
	}
	r, c := m.Dims()
	if r != grid.Rows || c != grid.Cols {
		return models.NewParameterError(name, models.Grid{Rows: r, Cols: c}, models.ErrDimensionMismatch)
	}
	return nil
}
