// Package object renders the imaged test object: its footprint on the
// detector grid and the complex transmission function it imposes on the wave.
package object

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"holosim/internal/models"
)

// Object is the output of the object synthesizer.
type Object struct {
	// Mask is the spatial footprint, possibly perturbed by noise
	Mask *mat.Dense

	// Transmission is the complex transmission function exp(i*O)
	Transmission *mat.CDense

	// Optics are the material figures the transmission was built from
	Optics MaterialOptics
}

// Synthesizer builds objects on a fixed grid with a fixed shape layout.
type Synthesizer struct {
	grid     models.Grid
	geometry ShapeGeometry
}

// NewSynthesizer creates a synthesizer for grid using geometry.
func NewSynthesizer(grid models.Grid, geometry ShapeGeometry) *Synthesizer {
	return &Synthesizer{grid: grid, geometry: geometry}
}

// NewDefaultSynthesizer uses the reference shape layout scaled to grid.
func NewDefaultSynthesizer(grid models.Grid) *Synthesizer {
	return NewSynthesizer(grid, DefaultShapeGeometry(grid))
}

// Validate runs every check Synthesize would run, without allocating fields.
func (s *Synthesizer) Validate(params models.SimulationParameters, wavelength float64) (MaterialOptics, error) {
	if err := s.grid.Validate(); err != nil {
		return MaterialOptics{}, err
	}
	if !params.Shape.Valid() {
		return MaterialOptics{}, models.NewParameterError("shape", params.Shape, models.ErrUnsupportedShape)
	}
	if err := s.geometry.Validate(params.Shape); err != nil {
		return MaterialOptics{}, err
	}
	if params.AddNoise {
		scale := params.NoiseScale
		if math.IsNaN(scale) || scale < 0 || scale > models.MaxNoiseScale {
			return MaterialOptics{}, models.NewParameterError("noiseScale", scale, models.ErrInvalidMaterial)
		}
	}
	return Optics(MaterialFrom(params), wavelength, params.ObjectThickness, params.AbsorptionBasis)
}

// Synthesize rasterizes the selected shape, optionally perturbs it with
// seeded noise, and assembles the transmission function.
func (s *Synthesizer) Synthesize(params models.SimulationParameters, wavelength float64) (*Object, error) {
	mo, err := s.Validate(params, wavelength)
	if err != nil {
		return nil, err
	}

	mask, err := Rasterize(params.Shape, s.grid, s.geometry)
	if err != nil {
		return nil, err
	}
	if params.AddNoise {
		mask = AddNoise(mask, params.NoiseSeed, params.EffectiveNoiseScale())
	}

	transmission := Transmission(mask, mo)
	for _, v := range transmission.RawCMatrix().Data {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			// strong absorption times a negative noisy mask overflows exp
			return nil, models.NewParameterError("transmission", v, models.ErrInvalidMaterial)
		}
	}

	return &Object{
		Mask:         mask,
		Transmission: transmission,
		Optics:       mo,
	}, nil
}
