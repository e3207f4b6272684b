package models

import (
	"fmt"
	"strings"
)

// Grid is the detector-resolution sampling grid shared by every field in a run.
type Grid struct {
	// Rows is the number of detector pixels along the first (row) axis
	Rows int `yaml:"rows" json:"rows" toml:"rows"`

	// Cols is the number of detector pixels along the second (column) axis
	Cols int `yaml:"cols" json:"cols" toml:"cols"`
}

// DefaultGrid is a 2000x2000 pixel detector.
var DefaultGrid = Grid{Rows: 2000, Cols: 2000}

// Size returns the number of samples on the grid.
func (g Grid) Size() int {
	return g.Rows * g.Cols
}

// Validate rejects empty grids.
func (g Grid) Validate() error {
	if g.Rows <= 0 || g.Cols <= 0 {
		return &ParameterError{Field: "grid", Value: fmt.Sprintf("%dx%d", g.Rows, g.Cols), Err: ErrDimensionMismatch}
	}
	return nil
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Rows, g.Cols)
}

// Shape selects the geometric footprint of the simulated object.
type Shape uint8

const (
	Disk Shape = iota
	Rectangle
	Triangle
)

var shapeNames = [...]string{
	Disk:      "disk",
	Rectangle: "rectangle",
	Triangle:  "triangle",
}

// ParseShape maps a shape name onto its selector.
func ParseShape(text string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "disk", "circle":
		return Disk, nil
	case "rectangle", "rect":
		return Rectangle, nil
	case "triangle":
		return Triangle, nil
	default:
		return 0, &ParameterError{Field: "shape", Value: fmt.Sprintf("%q", text), Err: ErrUnsupportedShape}
	}
}

// Valid reports whether s is one of the supported shapes.
func (s Shape) Valid() bool {
	return int(s) < len(shapeNames)
}

func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
	return shapeNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &ParameterError{Field: "shape", Value: s.String(), Err: ErrUnsupportedShape}
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	parsed, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AbsorptionBasis selects which quantity the absorption coefficient mu is
// derived from. The two choices are not numerically equivalent.
type AbsorptionBasis uint8

const (
	// FromTransmission computes mu = -ln(T), so |exp(i*O)| = T inside the object.
	FromTransmission AbsorptionBasis = iota

	// FromAttenuation computes mu = -ln(1 - T).
	FromAttenuation
)

// ParseAbsorptionBasis maps a basis name onto its selector.
func ParseAbsorptionBasis(text string) (AbsorptionBasis, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "transmission":
		return FromTransmission, nil
	case "attenuation":
		return FromAttenuation, nil
	default:
		return 0, &ParameterError{Field: "absorptionBasis", Value: fmt.Sprintf("%q", text), Err: ErrInvalidMaterial}
	}
}

func (b AbsorptionBasis) String() string {
	switch b {
	case FromTransmission:
		return "transmission"
	case FromAttenuation:
		return "attenuation"
	default:
		return fmt.Sprintf("basis(%d)", uint8(b))
	}
}

// SimulationParameters holds the physical inputs of one simulation run.
//
// Units are fixed per field and converted only where the physics needs SI:
//   - SOD, SDD: meters
//   - DetectorPixelSize: nanometers
//   - BeamEnergy: keV
//   - ObjectThickness: millimeters
//   - Density: g/cm^3 (zero when unknown)
type SimulationParameters struct {
	// SOD is the source-to-object distance
	SOD float64

	// SDD is the source-to-detector distance
	SDD float64

	// DetectorPixelSize is the detector pixel pitch
	DetectorPixelSize float64

	// BeamEnergy is the photon energy of the incident beam
	BeamEnergy float64

	// Beta is the absorption index of the object material
	Beta float64

	// Delta is the refractive index decrement of the object material
	Delta float64

	// Density is the mass density of the object material
	Density float64

	// ObjectThickness is the projected thickness of the object
	ObjectThickness float64

	// AddNoise perturbs the object mask with seeded Gaussian noise
	AddNoise bool

	// NoiseSeed seeds the noise generator when AddNoise is set
	NoiseSeed uint64

	// NoiseScale multiplies the unit-variance noise; zero means DefaultNoiseScale
	NoiseScale float64

	// Shape selects the object footprint
	Shape Shape

	// AbsorptionBasis selects how mu is derived from the material transmission
	AbsorptionBasis AbsorptionBasis
}

// DefaultNoiseScale is the amplitude of the additive mask noise.
const DefaultNoiseScale = 0.01

// MaxNoiseScale bounds the noise amplitude; beyond it the perturbation
// outweighs the unit mask it is added to.
const MaxNoiseScale = 1.0

// DefaultParameters returns magnesium imaged at 11 keV in a 0.2 m / 1 m
// cone-beam geometry with a 6.5 um detector pixel.
func DefaultParameters() SimulationParameters {
	return SimulationParameters{
		SOD:               0.2,
		SDD:               1.0,
		DetectorPixelSize: 6500,
		BeamEnergy:        11,
		Beta:              2.3862e-08,
		Delta:             2.9720e-06,
		Density:           1.74,
		ObjectThickness:   0.05,
		NoiseScale:        DefaultNoiseScale,
		Shape:             Disk,
		AbsorptionBasis:   FromTransmission,
	}
}

// EffectiveNoiseScale returns NoiseScale or the default when unset.
func (p SimulationParameters) EffectiveNoiseScale() float64 {
	if p.NoiseScale == 0 {
		return DefaultNoiseScale
	}
	return p.NoiseScale
}
