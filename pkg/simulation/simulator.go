// Package simulation runs the forward inline-holography pipeline:
// optics resolver, illumination and object synthesis, exit-wave composition,
// Fresnel propagation and hologram extraction.
package simulation

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"holosim/internal/models"
	"holosim/pkg/hologram"
	"holosim/pkg/illumination"
	"holosim/pkg/object"
	"holosim/pkg/optics"
	"holosim/pkg/propagation"
)

// Result holds everything a simulation run produces.
type Result struct {
	// Hologram is |detector wave|, the simulated detector image
	Hologram *mat.Dense

	// ObjectTransmission is the complex transmission function of the object
	ObjectTransmission *mat.CDense

	// Report holds the derived scalar figures of the run
	Report OpticsReport

	// Mask is the object footprint the transmission was built from
	Mask *mat.Dense

	// Probe is the illumination field
	Probe *mat.CDense

	// ExitWave is the field immediately behind the object
	ExitWave *mat.CDense

	// DetectorWave is the complex field at the detector plane
	DetectorWave *mat.CDense
}

// Illumination is a user-supplied beam profile, see illumination.Synthesize.
type Illumination struct {
	A0        float64
	Amplitude mat.Matrix
	Phi0      float64
	Phase     mat.Matrix
}

// Option customizes a Simulator.
type Option func(*Simulator)

// WithGrid sets the detector grid. The default is models.DefaultGrid.
func WithGrid(grid models.Grid) Option {
	return func(s *Simulator) {
		s.grid = grid
	}
}

// WithGeometry overrides the shape layout. Without it the reference layout
// is scaled to the grid.
func WithGeometry(geometry object.ShapeGeometry) Option {
	return func(s *Simulator) {
		g := geometry
		s.geometry = &g
	}
}

// WithIllumination replaces the unit plane wave with a custom beam.
func WithIllumination(ill Illumination) Option {
	return func(s *Simulator) {
		s.illumination = &ill
	}
}

// WithLogger routes stage diagnostics to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Simulator) {
		s.log = logger
	}
}

// Simulator runs the pipeline for one parameter set.
//
// The simulation process consists of:
// 1. Validating every input and deriving the optical regime
// 2. Synthesizing the illumination
// 3. Synthesizing the object transmission function
// 4. Composing the exit wave
// 5. Propagating to the detector
// 6. Extracting the hologram and building the report
type Simulator struct {
	// params are the physical inputs of the run
	params models.SimulationParameters

	grid         models.Grid
	geometry     *object.ShapeGeometry
	illumination *Illumination
	log          logrus.FieldLogger

	// result is set once Process succeeds
	result *Result
}

// NewSimulator creates a simulator for params.
func NewSimulator(params models.SimulationParameters, opts ...Option) *Simulator {
	s := &Simulator{
		params: params,
		grid:   models.DefaultGrid,
		log:    discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate runs the complete pipeline and returns the hologram, the object
// transmission function and the report.
func Simulate(params models.SimulationParameters, opts ...Option) (*Result, error) {
	s := NewSimulator(params, opts...)
	if err := s.Process(); err != nil {
		return nil, err
	}
	return s.Result(), nil
}

// plan is the validated, allocation-free part of a run.
type plan struct {
	regime     optics.Regime
	optics     object.MaterialOptics
	synth      *object.Synthesizer
	propagator *propagation.Propagator
}

// Validate performs every input check without computing any field.
func (s *Simulator) Validate() error {
	_, err := s.plan()
	return err
}

func (s *Simulator) plan() (*plan, error) {
	if err := s.grid.Validate(); err != nil {
		return nil, err
	}

	regime, err := optics.ResolveParameters(s.params)
	if err != nil {
		return nil, err
	}

	geometry := object.DefaultShapeGeometry(s.grid)
	if s.geometry != nil {
		geometry = *s.geometry
	}
	synth := object.NewSynthesizer(s.grid, geometry)
	mo, err := synth.Validate(s.params, regime.Wavelength)
	if err != nil {
		return nil, err
	}

	if ill := s.illumination; ill != nil {
		if err := checkDims("illumination amplitude", ill.Amplitude, s.grid); err != nil {
			return nil, err
		}
		if err := checkDims("illumination phase", ill.Phase, s.grid); err != nil {
			return nil, err
		}
	}

	propagator, err := propagation.NewPropagator(regime.FresnelNumber)
	if err != nil {
		return nil, err
	}

	return &plan{regime: regime, optics: mo, synth: synth, propagator: propagator}, nil
}

// Process runs the complete simulation pipeline.
func (s *Simulator) Process() error {
	start := time.Now()
	log := s.log.WithFields(logrus.Fields{
		"grid":  s.grid.String(),
		"shape": s.params.Shape.String(),
		"noise": s.params.AddNoise,
	})

	// Step 1: validate and resolve the optical regime
	p, err := s.plan()
	if err != nil {
		return fmt.Errorf("invalid simulation parameters: %w", err)
	}
	log.WithFields(logrus.Fields{
		"wavelength":    p.regime.Wavelength,
		"magnification": p.regime.Magnification,
		"fresnel":       p.regime.FresnelNumber,
	}).Debug("Optical regime resolved")

	// Step 2: illumination
	stepStart := time.Now()
	probe, err := s.synthesizeProbe()
	if err != nil {
		return fmt.Errorf("failed to synthesize illumination: %w", err)
	}
	log.WithField("time", time.Since(stepStart)).Debug("Illumination synthesized")

	// Step 3: object
	stepStart = time.Now()
	obj, err := p.synth.Synthesize(s.params, p.regime.Wavelength)
	if err != nil {
		return fmt.Errorf("failed to synthesize object: %w", err)
	}
	log.WithFields(logrus.Fields{
		"time":         time.Since(stepStart),
		"transmission": obj.Optics.Transmission,
		"phaseShift":   obj.Optics.PhaseShift,
	}).Debug("Object synthesized")

	// Step 4: exit wave
	exit, err := propagation.Compose(obj.Transmission, probe)
	if err != nil {
		return fmt.Errorf("failed to compose exit wave: %w", err)
	}

	// Step 5: Fresnel propagation
	stepStart = time.Now()
	detector := p.propagator.Propagate(exit)
	log.WithFields(logrus.Fields{
		"time":    time.Since(stepStart),
		"fresnel": p.propagator.FresnelNumber(),
	}).Debug("Wavefield propagated to detector")

	// Step 6: hologram and report
	holo := hologram.Extract(detector)
	report := newReport(p.regime, obj.Optics, hologram.Summarize(holo))

	s.result = &Result{
		Hologram:           holo,
		ObjectTransmission: obj.Transmission,
		Report:             report,
		Mask:               obj.Mask,
		Probe:              probe,
		ExitWave:           exit,
		DetectorWave:       detector,
	}
	log.WithField("time", time.Since(start)).Debug("Simulation finished")
	return nil
}

func (s *Simulator) synthesizeProbe() (*mat.CDense, error) {
	if s.illumination == nil {
		return illumination.Uniform(s.grid)
	}
	ill := s.illumination
	return illumination.Synthesize(s.grid, ill.A0, ill.Amplitude, ill.Phi0, ill.Phase)
}

// Result returns the outcome of the last successful Process call, or nil.
func (s *Simulator) Result() *Result {
	return s.result
}

// GetReport returns the report of the last successful Process call.
func (s *Simulator) GetReport() OpticsReport {
	if s.result == nil {
		return OpticsReport{}
	}
	return s.result.Report
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

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
