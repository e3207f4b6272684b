// Package config provides configuration loading and management for holosim.
// It handles loading configuration from YAML, JSON5 or TOML files and
// provides default values.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	json5 "github.com/KevinWang15/go-json5"
	"gopkg.in/yaml.v3"

	"holosim/internal/models"
	"holosim/pkg/object"
)

// Config represents the application configuration loaded from a file
type Config struct {
	// Setup describes the beam geometry and detector
	Setup struct {
		// SOD is the source-to-object distance in m
		SOD float64 `yaml:"sod" json:"sod" toml:"sod"`

		// SDD is the source-to-detector distance in m
		SDD float64 `yaml:"sdd" json:"sdd" toml:"sdd"`

		// DetectorPixelSize is the detector pixel pitch in nm
		DetectorPixelSize float64 `yaml:"detectorPixelSize" json:"detectorPixelSize" toml:"detectorPixelSize"`

		// BeamEnergy is the photon energy in keV
		BeamEnergy float64 `yaml:"beamEnergy" json:"beamEnergy" toml:"beamEnergy"`
	} `yaml:"setup" json:"setup" toml:"setup"`

	// Object describes the imaged test object
	Object struct {
		// Shape is one of disk, rectangle, triangle
		Shape string `yaml:"shape" json:"shape" toml:"shape"`

		// Thickness in mm
		Thickness float64 `yaml:"thickness" json:"thickness" toml:"thickness"`

		// Beta and Delta are the optical constants at the beam energy
		Beta  float64 `yaml:"beta" json:"beta" toml:"beta"`
		Delta float64 `yaml:"delta" json:"delta" toml:"delta"`

		// Density in g/cm^3, 0 when unknown
		Density float64 `yaml:"density" json:"density" toml:"density"`

		// AbsorptionBasis is transmission (default) or attenuation
		AbsorptionBasis string `yaml:"absorptionBasis" json:"absorptionBasis" toml:"absorptionBasis"`

		// Geometry overrides the reference shape layout unless left zero
		Geometry object.ShapeGeometry `yaml:"geometry,omitempty" json:"geometry" toml:"geometry,omitempty"`
	} `yaml:"object" json:"object" toml:"object"`

	// Noise controls the additive mask perturbation
	Noise struct {
		Enabled bool    `yaml:"enabled" json:"enabled" toml:"enabled"`
		Seed    uint64  `yaml:"seed" json:"seed" toml:"seed"`
		Scale   float64 `yaml:"scale" json:"scale" toml:"scale"`
	} `yaml:"noise" json:"noise" toml:"noise"`

	// Grid is the detector resolution in pixels
	Grid models.Grid `yaml:"grid" json:"grid" toml:"grid"`

	// Output parameters
	Output struct {
		// Directory receives images and plots
		Directory string `yaml:"directory" json:"directory" toml:"directory"`

		// SaveIntermediaryResults also writes mask, probe and exit-wave images
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults" json:"saveIntermediaryResults" toml:"saveIntermediaryResults"`

		// PlotProfile writes a plot of the central hologram row
		PlotProfile bool `yaml:"plotProfile" json:"plotProfile" toml:"plotProfile"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose" json:"verbose" toml:"verbose"`
	} `yaml:"output" json:"output" toml:"output"`
}

// DefaultConfig returns a configuration with default values: a 50 um
// magnesium disk at 11 keV on a 2000x2000 detector
func DefaultConfig() *Config {
	cfg := &Config{}
	p := models.DefaultParameters()

	// Set default setup parameters
	cfg.Setup.SOD = p.SOD
	cfg.Setup.SDD = p.SDD
	cfg.Setup.DetectorPixelSize = p.DetectorPixelSize
	cfg.Setup.BeamEnergy = p.BeamEnergy

	// Set default object parameters
	cfg.Object.Shape = p.Shape.String()
	cfg.Object.Thickness = p.ObjectThickness
	cfg.Object.Beta = p.Beta
	cfg.Object.Delta = p.Delta
	cfg.Object.Density = p.Density
	cfg.Object.AbsorptionBasis = p.AbsorptionBasis.String()

	// Set default noise parameters
	cfg.Noise.Enabled = p.AddNoise
	cfg.Noise.Seed = p.NoiseSeed
	cfg.Noise.Scale = p.NoiseScale

	cfg.Grid = models.DefaultGrid

	// Set default output parameters
	cfg.Output.Directory = "holosim_output"
	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.PlotProfile = true
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML, JSON5 or TOML file.
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	switch format(configPath) {
	case formatJSON:
		err = json5.Unmarshal(data, cfg)
	case formatTOML:
		_, err = toml.Decode(string(data), cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration as YAML, JSON or TOML, chosen by
// extension. JSON output is plain JSON, which every JSON5 reader accepts.
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch format(configPath) {
	case formatJSON:
		data, err = json.MarshalIndent(cfg, "", "  ")
	case formatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(cfg)
		data = buf.Bytes()
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Validate checks the selectors and the grid. Physical validation of the
// numbers happens in the simulation itself.
func (c *Config) Validate() error {
	if _, err := models.ParseShape(c.Object.Shape); err != nil {
		return err
	}
	if _, err := models.ParseAbsorptionBasis(c.Object.AbsorptionBasis); err != nil {
		return err
	}
	return c.Grid.Validate()
}

// Parameters converts the configuration into simulation parameters.
func (c *Config) Parameters() (models.SimulationParameters, error) {
	shape, err := models.ParseShape(c.Object.Shape)
	if err != nil {
		return models.SimulationParameters{}, err
	}
	basis, err := models.ParseAbsorptionBasis(c.Object.AbsorptionBasis)
	if err != nil {
		return models.SimulationParameters{}, err
	}

	return models.SimulationParameters{
		SOD:               c.Setup.SOD,
		SDD:               c.Setup.SDD,
		DetectorPixelSize: c.Setup.DetectorPixelSize,
		BeamEnergy:        c.Setup.BeamEnergy,
		Beta:              c.Object.Beta,
		Delta:             c.Object.Delta,
		Density:           c.Object.Density,
		ObjectThickness:   c.Object.Thickness,
		AddNoise:          c.Noise.Enabled,
		NoiseSeed:         c.Noise.Seed,
		NoiseScale:        c.Noise.Scale,
		Shape:             shape,
		AbsorptionBasis:   basis,
	}, nil
}

// Geometry returns the configured shape layout, or the reference layout
// scaled to the grid when none is configured.
func (c *Config) Geometry() object.ShapeGeometry {
	if !c.Object.Geometry.IsZero() {
		return c.Object.Geometry
	}
	return object.DefaultShapeGeometry(c.Grid)
}

type fileFormat int

const (
	formatYAML fileFormat = iota
	formatJSON
	formatTOML
)

// format picks the file format from the extension; anything unknown is YAML.
func format(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".json5":
		return formatJSON
	case ".toml":
		return formatTOML
	}
	return formatYAML
}
