package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"holosim/internal/models"
	"holosim/pkg/object"
)

func TestDefaultConfigMatchesDefaultParameters(t *testing.T) {
	cfg := DefaultConfig()

	params, err := cfg.Parameters()
	if err != nil {
		t.Fatalf("Parameters failed: %v", err)
	}
	if params != models.DefaultParameters() {
		t.Errorf("Expected default parameters %+v, got %+v", models.DefaultParameters(), params)
	}
	if cfg.Grid != models.DefaultGrid {
		t.Errorf("Expected default grid %v, got %v", models.DefaultGrid, cfg.Grid)
	}
	if cfg.Geometry() != object.DefaultShapeGeometry(models.DefaultGrid) {
		t.Errorf("Expected reference geometry when none is configured")
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Object.Shape != "disk" {
		t.Errorf("Expected default shape disk, got %q", cfg.Object.Shape)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
setup:
  sod: 0.5
  sdd: 2.0
object:
  shape: triangle
  absorptionBasis: attenuation
noise:
  enabled: true
  seed: 7
grid:
  rows: 128
  cols: 256
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	params, err := cfg.Parameters()
	if err != nil {
		t.Fatalf("Parameters failed: %v", err)
	}

	if params.SOD != 0.5 || params.SDD != 2.0 {
		t.Errorf("Expected geometry 0.5/2.0, got %v/%v", params.SOD, params.SDD)
	}
	if params.Shape != models.Triangle || params.AbsorptionBasis != models.FromAttenuation {
		t.Errorf("Unexpected selectors: %v, %v", params.Shape, params.AbsorptionBasis)
	}
	if !params.AddNoise || params.NoiseSeed != 7 {
		t.Errorf("Expected seeded noise, got %v/%d", params.AddNoise, params.NoiseSeed)
	}
	// Fields absent from the file keep their defaults
	if params.BeamEnergy != 11 {
		t.Errorf("Expected default energy 11 keV, got %v", params.BeamEnergy)
	}
	if cfg.Grid != (models.Grid{Rows: 128, Cols: 256}) {
		t.Errorf("Unexpected grid %v", cfg.Grid)
	}
}

func TestLoadConfigJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	data := `{
  // rectangle at 20 keV
  "object": {
    "shape": "rectangle",
    "geometry": {
      "diskCenter": {"row": 0, "col": 0},
      "diskRadius": 0,
      "rectangleOrigin": {"row": 4, "col": 4},
      "rectangleExtent": {"row": 8, "col": 8}
    }
  },
  "setup": {"beamEnergy": 20}
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Setup.BeamEnergy != 20 || cfg.Object.Shape != "rectangle" {
		t.Errorf("Unexpected values: energy %v, shape %q", cfg.Setup.BeamEnergy, cfg.Object.Shape)
	}
	if g := cfg.Geometry(); g.RectangleExtent != (object.Point{Row: 8, Col: 8}) {
		t.Errorf("Expected configured rectangle extent, got %+v", g.RectangleExtent)
	}
}

func TestLoadConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[setup]
sdd = 1.5

[object]
shape = "triangle"

[grid]
rows = 100
cols = 100
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Setup.SDD != 1.5 || cfg.Setup.SOD != 0.2 {
		t.Errorf("Expected sdd 1.5 and default sod 0.2, got %v/%v", cfg.Setup.SDD, cfg.Setup.SOD)
	}
	if cfg.Object.Shape != "triangle" || cfg.Grid.Rows != 100 {
		t.Errorf("Unexpected values: shape %q, grid %v", cfg.Object.Shape, cfg.Grid)
	}
}

func TestLoadConfigRejectsUnknownShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("object:\n  shape: hexagon\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, models.ErrUnsupportedShape) {
		t.Errorf("Expected ErrUnsupportedShape, got %v", err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	for _, name := range []string{"out/config.yaml", "out/config.json", "out/config.toml"} {
		t.Run(filepath.Ext(name), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := DefaultConfig()
			cfg.Object.Shape = "rectangle"
			cfg.Noise.Seed = 99
			cfg.Grid = models.Grid{Rows: 32, Cols: 48}
			cfg.Object.Geometry = object.ShapeGeometry{
				DiskCenter:       object.Point{Row: 16, Col: 24},
				DiskRadius:       5,
				RectangleOrigin:  object.Point{Row: 2, Col: 3},
				RectangleExtent:  object.Point{Row: 10, Col: 12},
				TriangleVertices: [3]object.Point{{Row: 16, Col: 20}, {Row: 10, Col: 30}, {Row: 22, Col: 30}},
			}
			if err := SaveConfig(cfg, path); err != nil {
				t.Fatalf("SaveConfig failed: %v", err)
			}

			loaded, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			if loaded.Object.Shape != "rectangle" || loaded.Noise.Seed != 99 || loaded.Grid != cfg.Grid {
				t.Errorf("Saved config did not load back: %+v", loaded)
			}
			if loaded.Geometry() != cfg.Object.Geometry {
				t.Errorf("Expected custom geometry %+v, got %+v", cfg.Object.Geometry, loaded.Geometry())
			}
		})
	}
}

// TestSaveConfigWithoutGeometryKeepsDefaultLayout checks that an unset
// layout stays unset after a save and load in every format
func TestSaveConfigWithoutGeometryKeepsDefaultLayout(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.json", "config.toml"} {
		path := filepath.Join(t.TempDir(), name)
		cfg := DefaultConfig()
		cfg.Grid = models.Grid{Rows: 40, Cols: 40}
		if err := SaveConfig(cfg, path); err != nil {
			t.Fatalf("%s: SaveConfig failed: %v", name, err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("%s: LoadConfig failed: %v", name, err)
		}
		if !loaded.Object.Geometry.IsZero() {
			t.Errorf("%s: expected no geometry override, got %+v", name, loaded.Object.Geometry)
		}
		if loaded.Geometry() != object.DefaultShapeGeometry(loaded.Grid) {
			t.Errorf("%s: expected the default layout scaled to the grid", name)
		}
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holosim.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("Expected a non-empty config file, err=%v", err)
	}
}
