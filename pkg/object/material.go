package object

import (
	"math"

	"holosim/internal/models"
	"holosim/pkg/optics"
)

// Material holds the X-ray optical constants of the object at the beam energy.
type Material struct {
	// Beta is the imaginary part of the refractive index decrement
	Beta float64

	// Delta is the real part of the refractive index decrement
	Delta float64

	// Density in g/cm^3; zero when only length-based attenuation is wanted
	Density float64
}

// MaterialOptics are the per-object absorption and phase figures.
type MaterialOptics struct {
	// LinearAttenuation alpha = 4*pi*beta/lambda in 1/m
	LinearAttenuation float64

	// MassAttenuation alpha/rho in m^2/kg, zero without a density
	MassAttenuation float64

	// Transmission T = exp(-alpha * thickness)
	Transmission float64

	// Attenuation is 1 - T
	Attenuation float64

	// Absorption is the coefficient mu applied to the mask
	Absorption float64

	// PhaseShift is -(delta/beta) * mu
	PhaseShift float64

	// HalfValueLayer ln2/alpha in meters
	HalfValueLayer float64
}

// Validate checks the constants without a wavelength.
func (m Material) Validate() error {
	switch {
	case !finite(m.Beta) || m.Beta < 0:
		return models.NewParameterError("beta", m.Beta, models.ErrInvalidMaterial)
	case m.Beta == 0:
		// delta/beta is undefined
		return models.NewParameterError("beta", m.Beta, models.ErrInvalidMaterial)
	case !finite(m.Delta) || m.Delta < 0:
		return models.NewParameterError("delta", m.Delta, models.ErrInvalidMaterial)
	case !finite(m.Density) || m.Density < 0:
		return models.NewParameterError("density", m.Density, models.ErrInvalidMaterial)
	}
	return nil
}

// Optics converts the material constants into absorption and phase-shift
// coefficients for an object of thicknessMm millimeters at wavelength meters.
func Optics(m Material, wavelength, thicknessMm float64, basis models.AbsorptionBasis) (MaterialOptics, error) {
	if err := m.Validate(); err != nil {
		return MaterialOptics{}, err
	}
	if !finite(wavelength) || wavelength <= 0 {
		return MaterialOptics{}, models.NewParameterError("wavelength", wavelength, models.ErrInvalidMaterial)
	}
	if !finite(thicknessMm) || thicknessMm < 0 {
		return MaterialOptics{}, models.NewParameterError("objectThickness", thicknessMm, models.ErrInvalidMaterial)
	}

	alpha := 4 * math.Pi * m.Beta / wavelength
	transmission := math.Exp(-alpha * thicknessMm * optics.MillimeterToMeter)
	attenuation := 1 - transmission

	var mu float64
	switch basis {
	case models.FromTransmission:
		mu = -math.Log(transmission)
	case models.FromAttenuation:
		mu = -math.Log(attenuation)
	default:
		return MaterialOptics{}, models.NewParameterError("absorptionBasis", basis, models.ErrInvalidMaterial)
	}
	if !finite(mu) {
		// fully opaque object, or zero attenuation on the attenuation basis
		return MaterialOptics{}, models.NewParameterError("absorption", mu, models.ErrInvalidMaterial)
	}

	mo := MaterialOptics{
		LinearAttenuation: alpha,
		Transmission:      transmission,
		Attenuation:       attenuation,
		Absorption:        mu,
		PhaseShift:        -(m.Delta / m.Beta) * mu,
		HalfValueLayer:    math.Ln2 / alpha,
	}
	if m.Density > 0 {
		mo.MassAttenuation = alpha / (m.Density * 1e3)
	}
	return mo, nil
}

// MaterialFrom extracts the material constants of a parameter set.
func MaterialFrom(p models.SimulationParameters) Material {
	return Material{Beta: p.Beta, Delta: p.Delta, Density: p.Density}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
