package simulation

import (
	"fmt"
	"strings"

	"holosim/pkg/hologram"
	"holosim/pkg/object"
	"holosim/pkg/optics"
)

// OpticsReport holds the derived quantities of a run as typed values.
type OpticsReport struct {
	// Wavelength in meters
	Wavelength float64

	// Magnification SDD/SOD
	Magnification float64

	// PropagationDistance SDD-SOD in meters
	PropagationDistance float64

	// FresnelNumber of the setup
	FresnelNumber float64

	// Attenuation 1 - Transmission
	Attenuation float64

	// Transmission of the object material
	Transmission float64

	// LinearAttenuation alpha in 1/m
	LinearAttenuation float64

	// MassAttenuation in m^2/kg, zero without a density
	MassAttenuation float64

	// HalfValueLayer in meters
	HalfValueLayer float64

	// Absorption mu and PhaseShift applied inside the object
	Absorption float64
	PhaseShift float64

	// Hologram statistics
	Hologram hologram.Stats
}

func newReport(regime optics.Regime, mo object.MaterialOptics, stats hologram.Stats) OpticsReport {
	return OpticsReport{
		Wavelength:          regime.Wavelength,
		Magnification:       regime.Magnification,
		PropagationDistance: regime.PropagationDistance,
		FresnelNumber:       regime.FresnelNumber,
		Attenuation:         mo.Attenuation,
		Transmission:        mo.Transmission,
		LinearAttenuation:   mo.LinearAttenuation,
		MassAttenuation:     mo.MassAttenuation,
		HalfValueLayer:      mo.HalfValueLayer,
		Absorption:          mo.Absorption,
		PhaseShift:          mo.PhaseShift,
		Hologram:            stats,
	}
}

// String formats the report as the classic parameter block.
func (r OpticsReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fresnel Number: %.4f\n", r.FresnelNumber)
	fmt.Fprintf(&b, "Magnification: %g\n", r.Magnification)
	fmt.Fprintf(&b, "Wavelength: %.2e m\n", r.Wavelength)
	fmt.Fprintf(&b, "Attenuation: %.4f\n", r.Attenuation)
	fmt.Fprintf(&b, "Transmission: %.4f\n", r.Transmission)
	fmt.Fprintf(&b, "Linear attenuation coefficient: %.2f 1/mm\n", r.LinearAttenuation*optics.MillimeterToMeter)
	fmt.Fprintf(&b, "HVL %.2f mm\n", r.HalfValueLayer/optics.MillimeterToMeter)
	return b.String()
}

// Fields flattens the report for structured logging.
func (r OpticsReport) Fields() map[string]any {
	return map[string]any{
		"fresnel":           r.FresnelNumber,
		"magnification":     r.Magnification,
		"wavelength":        r.Wavelength,
		"attenuation":       r.Attenuation,
		"transmission":      r.Transmission,
		"linearAttenuation": r.LinearAttenuation,
		"massAttenuation":   r.MassAttenuation,
		"hvl":               r.HalfValueLayer,
		"hologramMin":       r.Hologram.Min,
		"hologramMax":       r.Hologram.Max,
		"hologramContrast":  r.Hologram.Contrast,
	}
}
