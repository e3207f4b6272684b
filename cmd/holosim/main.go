package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"holosim/internal/models"
	"holosim/pkg/config"
	"holosim/pkg/simulation"
	"holosim/pkg/visualization"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "holosim.yaml", "Configuration file (.yaml, .json, .json5 or .toml)")
	outputDir := flag.String("output-dir", "", "Directory to save images (overrides config)")
	shape := flag.String("shape", "", "Object shape: disk, rectangle or triangle (overrides config)")
	noise := flag.Bool("noise", false, "Perturb the object mask with seeded Gaussian noise")
	seed := flag.Uint64("seed", 0, "Noise seed")
	gridSize := flag.String("grid", "", "Detector grid as N or ROWSxCOLS (overrides config)")
	saveConfig := flag.String("save-config", "", "Write the default configuration to this file and exit")
	plotProfile := flag.Bool("plot", true, "Plot the central hologram row")
	saveIntermediary := flag.Bool("save-intermediary", false, "Also save mask, probe and exit-wave images")
	verbose := flag.Bool("verbose", false, "Log every pipeline stage")
	flag.Parse()

	if *saveConfig != "" {
		if err := config.CreateDefaultConfigFile(*saveConfig); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *saveConfig)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags given explicitly take precedence over the file
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if *outputDir != "" {
		cfg.Output.Directory = *outputDir
	}
	if *shape != "" {
		cfg.Object.Shape = *shape
	}
	if set["noise"] {
		cfg.Noise.Enabled = *noise
	}
	if set["seed"] {
		cfg.Noise.Seed = *seed
	}
	if *gridSize != "" {
		grid, err := parseGrid(*gridSize)
		if err != nil {
			log.Fatalf("Invalid grid: %v", err)
		}
		cfg.Grid = grid
	}
	if set["plot"] {
		cfg.Output.PlotProfile = *plotProfile
	}
	if set["save-intermediary"] {
		cfg.Output.SaveIntermediaryResults = *saveIntermediary
	}
	if set["verbose"] {
		cfg.Output.Verbose = *verbose
	}

	params, err := cfg.Parameters()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cfg.Output.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	fmt.Println("================================")
	fmt.Println("X-RAY INLINE HOLOGRAPHY FORWARD SIMULATION")
	fmt.Println("Fresnel propagation of a homogeneous test object")
	fmt.Println("================================")
	fmt.Printf("Shape: %s, grid: %s, noise: %v\n", params.Shape, cfg.Grid, params.AddNoise)
	// mask and hologram are real, probe, transmission, exit and detector waves complex
	footprint := uint64(cfg.Grid.Size()) * (2*8 + 4*16)
	fmt.Printf("Field memory: ~%s\n", humanize.Bytes(footprint))

	// Run the simulation pipeline
	startTime := time.Now()
	result, err := simulation.Simulate(params,
		simulation.WithGrid(cfg.Grid),
		simulation.WithGeometry(cfg.Geometry()),
		simulation.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}
	processingTime := time.Since(startTime)

	fmt.Printf("\nSimulation completed in %.2f seconds\n\n", processingTime.Seconds())
	fmt.Println(result.Report.String())
	logger.WithFields(logrus.Fields(result.Report.Fields())).Debug("Simulation report")

	if err := saveResults(result, cfg, params.DetectorPixelSize*1e-9); err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}
	fmt.Printf("\nImages saved to: %s\n", cfg.Output.Directory)
}

type outputImage struct {
	name   string
	viewer *visualization.Viewer
}

// saveResults writes the hologram, the object amplitude and phase and, when
// configured, the profile plot and the intermediary fields.
func saveResults(result *simulation.Result, cfg *config.Config, pixelSize float64) error {
	dir := cfg.Output.Directory

	images := []outputImage{
		{"hologram.png", visualization.NewViewer(result.Hologram, pixelSize)},
		{"object_amplitude.png", visualization.NewViewer(visualization.Amplitude(result.ObjectTransmission), pixelSize)},
		{"object_phase.png", visualization.NewViewer(visualization.Phase(result.ObjectTransmission), pixelSize)},
	}
	if cfg.Output.SaveIntermediaryResults {
		images = append(images,
			outputImage{"mask.png", visualization.NewViewer(result.Mask, pixelSize)},
			outputImage{"probe_amplitude.png", visualization.NewViewer(visualization.Amplitude(result.Probe), pixelSize)},
			outputImage{"exit_wave_phase.png", visualization.NewViewer(visualization.Phase(result.ExitWave), pixelSize)},
		)
	}

	for _, img := range images {
		if err := img.viewer.SaveImage(filepath.Join(dir, img.name)); err != nil {
			return fmt.Errorf("failed to save %s: %w", img.name, err)
		}
	}

	if cfg.Output.PlotProfile {
		rows, _ := result.Hologram.Dims()
		viewer := visualization.NewViewer(result.Hologram, pixelSize)
		path := filepath.Join(dir, "profile.png")
		if err := viewer.SaveProfilePlot("x", rows/2, visualization.DefaultProfilePlot(), path); err != nil {
			log.Printf("Warning: Failed to save profile plot: %v", err)
		}
		chart := filepath.Join(dir, "profile.html")
		if err := viewer.SaveProfileChart("x", rows/2, visualization.DefaultProfilePlot(), chart); err != nil {
			log.Printf("Warning: Failed to save profile chart: %v", err)
		}
	}
	return nil
}

// parseGrid accepts "N" for a square grid or "ROWSxCOLS".
func parseGrid(text string) (models.Grid, error) {
	parts := strings.Split(strings.ToLower(text), "x")
	if len(parts) > 2 {
		return models.Grid{}, fmt.Errorf("expected N or ROWSxCOLS, got %q", text)
	}

	dims := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return models.Grid{}, fmt.Errorf("expected N or ROWSxCOLS, got %q", text)
		}
		dims[i] = n
	}

	grid := models.Grid{Rows: dims[0], Cols: dims[0]}
	if len(dims) == 2 {
		grid.Cols = dims[1]
	}
	return grid, grid.Validate()
}
