// Package optics derives the optical regime of an inline holography setup
// from its physical inputs: wavelength, cone-beam magnification, effective
// propagation distance and Fresnel number.
package optics

import (
	"math"

	"holosim/internal/models"
)

// Physical constants in SI units.
const (
	// PlanckConstant in J*s (exact, SI 2019)
	PlanckConstant = 6.62607015e-34

	// SpeedOfLight in m/s (exact)
	SpeedOfLight = 299792458.0

	// ElectronVolt is the energy of one eV in joules, rounded to four
	// significant digits.
	ElectronVolt = 1.602e-19
)

// Unit conversions applied to SimulationParameters fields.
const (
	NanometerToMeter  = 1e-9
	MillimeterToMeter = 1e-3
	KiloElectronVolt  = 1e3
)

// Regime is the derived, immutable description of the propagation setup.
type Regime struct {
	// Wavelength of the beam in meters
	Wavelength float64

	// Magnification is SDD / SOD
	Magnification float64

	// PropagationDistance is SDD - SOD in meters
	PropagationDistance float64

	// PixelSize is the detector pixel pitch in meters
	PixelSize float64

	// FresnelNumber is the dimensionless pixel Fresnel number of the setup
	FresnelNumber float64
}

// Wavelength returns lambda = h*c / E for a photon energy in keV.
func Wavelength(energyKeV float64) (float64, error) {
	if !finite(energyKeV) || energyKeV <= 0 {
		return 0, models.NewParameterError("beamEnergy", energyKeV, models.ErrInvalidMaterial)
	}
	return PlanckConstant * SpeedOfLight / (energyKeV * KiloElectronVolt * ElectronVolt), nil
}

// Resolve derives the optical regime.
//
// Parameters:
//   - sod: source-to-object distance in meters
//   - sdd: source-to-detector distance in meters
//   - pixelSizeNm: detector pixel pitch in nanometers
//   - energyKeV: beam energy in keV
//
// The detector must lie behind the object (sdd > sod > 0); anything else
// would divide by zero or produce a negative propagation distance and is
// rejected with ErrInvalidGeometry.
func Resolve(sod, sdd, pixelSizeNm, energyKeV float64) (Regime, error) {
	if err := ValidateGeometry(sod, sdd, pixelSizeNm); err != nil {
		return Regime{}, err
	}
	wavelength, err := Wavelength(energyKeV)
	if err != nil {
		return Regime{}, err
	}

	magnification := sdd / sod
	distance := sdd - sod
	pixel := pixelSizeNm * NanometerToMeter

	return Regime{
		Wavelength:          wavelength,
		Magnification:       magnification,
		PropagationDistance: distance,
		PixelSize:           pixel,
		FresnelNumber:       pixel * pixel / (wavelength * distance * magnification),
	}, nil
}

// ResolveParameters is Resolve applied to a parameter set.
func ResolveParameters(p models.SimulationParameters) (Regime, error) {
	return Resolve(p.SOD, p.SDD, p.DetectorPixelSize, p.BeamEnergy)
}

// ValidateGeometry checks the distances without computing anything.
func ValidateGeometry(sod, sdd, pixelSizeNm float64) error {
	switch {
	case !finite(sod) || sod <= 0:
		return models.NewParameterError("sod", sod, models.ErrInvalidGeometry)
	case !finite(sdd) || sdd <= 0:
		return models.NewParameterError("sdd", sdd, models.ErrInvalidGeometry)
	case sdd == sod:
		return models.NewParameterError("sdd", "sod", models.ErrInvalidGeometry)
	case sdd < sod:
		return models.NewParameterError("sdd-sod", sdd-sod, models.ErrInvalidGeometry)
	case !finite(pixelSizeNm) || pixelSizeNm <= 0:
		return models.NewParameterError("detectorPixelSize", pixelSizeNm, models.ErrInvalidGeometry)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
