// Package propagation advances a wavefield from the object exit plane to the
// detector plane.
//
// The propagator is a single-distance paraxial (Fresnel) propagator applied
// as a convolution in the frequency domain. The cone-beam geometry is folded
// into the Fresnel number via the Fresnel scaling theorem, so the incident
// wave is treated as a plane wave. Boundaries are periodic, as implied by the
// DFT, and no padding is applied.
package propagation

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"holosim/internal/models"
)

// FFTFreq returns the sample frequencies of an n-point DFT with unit sample
// spacing in standard ordering: 0, 1/n, ..., then the negative frequencies.
func FFTFreq(n int) []float64 {
	freq := make([]float64, n)
	for k := 0; k < n; k++ {
		if k <= (n-1)/2 {
			freq[k] = float64(k) / float64(n)
		} else {
			freq[k] = float64(k-n) / float64(n)
		}
	}
	return freq
}

// Kernel builds the Fresnel transfer function exp(-i*pi/Fr * (xi^2 + eta^2))
// on a rows x cols frequency grid. An infinite Fresnel number yields the
// identity kernel.
func Kernel(rows, cols int, fresnel float64) (*mat.CDense, error) {
	if err := validateFresnel(fresnel); err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 {
		return nil, models.NewParameterError("kernel", models.Grid{Rows: rows, Cols: cols}, models.ErrDimensionMismatch)
	}

	xi := FFTFreq(rows)
	eta := FFTFreq(cols)
	scale := -math.Pi / fresnel

	data := make([]complex128, rows*cols)
	for i, x := range xi {
		for j, e := range eta {
			data[i*cols+j] = cmplx.Exp(complex(0, scale*(x*x+e*e)))
		}
	}
	return mat.NewCDense(rows, cols, data), nil
}

// Propagator advances fields by a fixed Fresnel number.
type Propagator struct {
	fresnel float64
}

// NewPropagator creates a propagator for fresnel. The Fresnel number must be
// positive; +Inf is accepted and propagates over zero distance.
func NewPropagator(fresnel float64) (*Propagator, error) {
	if err := validateFresnel(fresnel); err != nil {
		return nil, err
	}
	return &Propagator{fresnel: fresnel}, nil
}

// FresnelNumber returns the Fresnel number the propagator was built for.
func (p *Propagator) FresnelNumber() float64 {
	return p.fresnel
}

// Propagate returns IFFT2(FFT2(field) .* kernel).
func (p *Propagator) Propagate(field mat.CMatrix) *mat.CDense {
	rows, cols := field.Dims()
	spectrum := FFT2(field)

	// The Fresnel number was validated at construction, so Kernel cannot fail.
	kernel, err := Kernel(rows, cols, p.fresnel)
	if err != nil {
		panic(err)
	}

	s := spectrum.RawCMatrix()
	k := kernel.RawCMatrix()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			s.Data[i*s.Stride+j] *= k.Data[i*k.Stride+j]
		}
	}
	return IFFT2(spectrum)
}

func validateFresnel(fresnel float64) error {
	if math.IsNaN(fresnel) || fresnel <= 0 {
		return models.NewParameterError("fresnelNumber", fresnel, models.ErrInvalidGeometry)
	}
	return nil
}
