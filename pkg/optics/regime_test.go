package optics

import (
	"errors"
	"math"
	"testing"

	"holosim/internal/models"
)

func approxEqual(a, b, relTol float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}

// TestResolveReferenceSetup checks the magnesium @ 11 keV geometry against
// the closed-form expressions
func TestResolveReferenceSetup(t *testing.T) {
	regime, err := Resolve(0.2, 1.0, 6500, 11)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if !approxEqual(regime.Magnification, 5.0, 1e-12) {
		t.Errorf("Expected magnification 5.0, got %v", regime.Magnification)
	}

	if !approxEqual(regime.PropagationDistance, 0.8, 1e-12) {
		t.Errorf("Expected propagation distance 0.8 m, got %v", regime.PropagationDistance)
	}

	wantWavelength := 6.62607015e-34 * 299792458.0 / (11 * 1e3 * 1.602e-19)
	if !approxEqual(regime.Wavelength, wantWavelength, 1e-12) {
		t.Errorf("Expected wavelength %e, got %e", wantWavelength, regime.Wavelength)
	}

	// 11 keV is roughly 1.127 Angstrom
	if regime.Wavelength < 1.12e-10 || regime.Wavelength > 1.13e-10 {
		t.Errorf("Wavelength %e outside the expected hard X-ray range", regime.Wavelength)
	}

	pixel := 6500 * 1e-9
	wantFresnel := pixel * pixel / (wantWavelength * 0.8 * 5.0)
	if !approxEqual(regime.FresnelNumber, wantFresnel, 1e-12) {
		t.Errorf("Expected Fresnel number %v, got %v", wantFresnel, regime.FresnelNumber)
	}

	if !approxEqual(regime.PixelSize, pixel, 1e-15) {
		t.Errorf("Expected pixel size %e m, got %e m", pixel, regime.PixelSize)
	}
}

// TestResolveRejectsDegenerateGeometry verifies that division-by-zero and
// non-physical distances never reach the arithmetic
func TestResolveRejectsDegenerateGeometry(t *testing.T) {
	cases := []struct {
		name          string
		sod, sdd, pix float64
	}{
		{"equal distances", 0.5, 0.5, 6500},
		{"zero sod", 0, 1, 6500},
		{"negative sod", -0.2, 1, 6500},
		{"zero sdd", 0.2, 0, 6500},
		{"detector before object", 1.0, 0.2, 6500},
		{"zero pixel", 0.2, 1, 0},
		{"nan sod", math.NaN(), 1, 6500},
		{"infinite sdd", 0.2, math.Inf(1), 6500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.sod, tc.sdd, tc.pix, 11)
			if !errors.Is(err, models.ErrInvalidGeometry) {
				t.Errorf("Expected ErrInvalidGeometry, got %v", err)
			}

			var perr *models.ParameterError
			if !errors.As(err, &perr) {
				t.Errorf("Expected a *ParameterError, got %T", err)
			}
		})
	}
}

// TestWavelengthRejectsNonPositiveEnergy verifies beam energy validation
func TestWavelengthRejectsNonPositiveEnergy(t *testing.T) {
	for _, energy := range []float64{0, -11, math.NaN()} {
		if _, err := Wavelength(energy); !errors.Is(err, models.ErrInvalidMaterial) {
			t.Errorf("Energy %v: expected ErrInvalidMaterial, got %v", energy, err)
		}
	}

	if _, err := Resolve(0.2, 1, 6500, 0); !errors.Is(err, models.ErrInvalidMaterial) {
		t.Errorf("Expected Resolve to reject zero energy, got %v", err)
	}
}

// TestWavelengthScalesInverselyWithEnergy checks lambda * E is constant
func TestWavelengthScalesInverselyWithEnergy(t *testing.T) {
	l11, _ := Wavelength(11)
	l22, _ := Wavelength(22)
	if !approxEqual(l11, 2*l22, 1e-12) {
		t.Errorf("Expected wavelength at 11 keV to be twice that at 22 keV: %e vs %e", l11, l22)
	}
}

func TestResolveParameters(t *testing.T) {
	params := models.DefaultParameters()
	regime, err := ResolveParameters(params)
	if err != nil {
		t.Fatalf("ResolveParameters failed: %v", err)
	}
	direct, _ := Resolve(params.SOD, params.SDD, params.DetectorPixelSize, params.BeamEnergy)
	if regime != direct {
		t.Errorf("Expected %+v, got %+v", direct, regime)
	}
}
