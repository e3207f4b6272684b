package visualization

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"holosim/pkg/hologram"
)

// createTestField builds a rows x cols ramp: value = row + col
func createTestField(rows, cols int) *mat.Dense {
	field := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			field.Set(i, j, float64(i+j))
		}
	}
	return field
}

// TestNewViewer verifies that a new viewer is created with the correct parameters
func TestNewViewer(t *testing.T) {
	field := createTestField(6, 9)
	viewer := NewViewer(field, 6.5e-6)

	if viewer.rows != 6 {
		t.Errorf("Expected rows 6, got %d", viewer.rows)
	}

	if viewer.cols != 9 {
		t.Errorf("Expected cols 9, got %d", viewer.cols)
	}

	if viewer.pixelSize != 6.5e-6 {
		t.Errorf("Expected pixel size 6.5e-6, got %v", viewer.pixelSize)
	}
}

// TestImageScaling verifies the gray-level mapping and clamping
func TestImageScaling(t *testing.T) {
	field := mat.NewDense(1, 4, []float64{0, 0.5, 1, math.NaN()})
	viewer := NewViewer(field, 1)

	img := viewer.Image(0, 1)
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 1 {
		t.Fatalf("Expected 4x1 image, got %v", b)
	}

	want := []uint16{0, 32768, 65535, 0}
	for x, w := range want {
		if got := img.Gray16At(x, 0).Y; got != w {
			t.Errorf("Pixel %d: expected %d, got %d", x, w, got)
		}
	}

	lo, hi := viewer.Range()
	if lo != 0 || hi != 1 {
		t.Errorf("Expected range [0, 1] ignoring NaN, got [%v, %v]", lo, hi)
	}

	// A flat field has no span and renders black
	flat := NewViewer(mat.NewDense(2, 2, []float64{3, 3, 3, 3}), 1).AutoImage()
	if flat.Gray16At(1, 1).Y != 0 {
		t.Errorf("Expected flat field to render black")
	}
}

// TestExtractProfile verifies that profiles are correctly extracted from the field
func TestExtractProfile(t *testing.T) {
	viewer := NewViewer(createTestField(4, 5), 1)

	row, err := viewer.ExtractProfile("x", 2)
	if err != nil {
		t.Fatalf("Failed to extract x profile: %v", err)
	}
	if len(row) != 5 || row[0] != 2 || row[4] != 6 {
		t.Errorf("Unexpected x profile: %v", row)
	}

	// Row profiles are hologram line profiles
	want, _ := hologram.Profile(viewer.field, 2)
	if !floats.Equal(row, want) {
		t.Errorf("Expected x profile %v to match the hologram profile %v", row, want)
	}

	col, err := viewer.ExtractProfile("y", 3)
	if err != nil {
		t.Fatalf("Failed to extract y profile: %v", err)
	}
	if len(col) != 4 || col[0] != 3 || col[3] != 6 {
		t.Errorf("Unexpected y profile: %v", col)
	}

	if _, err := viewer.ExtractProfile("z", 0); err == nil {
		t.Errorf("Expected error for invalid axis")
	}
	if _, err := viewer.ExtractProfile("x", 4); err == nil {
		t.Errorf("Expected error for out-of-range position")
	}
	if _, err := viewer.ExtractProfile("y", -1); err == nil {
		t.Errorf("Expected error for negative position")
	}
}

// TestExtractRegion verifies that regions are correctly extracted from the field
func TestExtractRegion(t *testing.T) {
	viewer := NewViewer(createTestField(6, 6), 1)

	region, err := viewer.ExtractRegion(1, 2, 3, 2)
	if err != nil {
		t.Fatalf("Failed to extract region: %v", err)
	}
	if r, c := region.Dims(); r != 3 || c != 2 {
		t.Fatalf("Expected 3x2 region, got %dx%d", r, c)
	}
	if region.At(0, 0) != 3 || region.At(2, 1) != 6 {
		t.Errorf("Unexpected region values: %v", mat.Formatted(region))
	}

	// The region is a copy
	region.Set(0, 0, -1)
	if viewer.field.At(1, 2) != 3 {
		t.Errorf("Expected ExtractRegion to copy the data")
	}

	if _, err := viewer.ExtractRegion(5, 5, 2, 2); err == nil {
		t.Errorf("Expected error for region beyond boundaries")
	}
	if _, err := viewer.ExtractRegion(0, 0, 0, 2); err == nil {
		t.Errorf("Expected error for empty region")
	}
}

// TestAmplitudeAndPhase checks the complex-to-real conversions
func TestAmplitudeAndPhase(t *testing.T) {
	c := mat.NewCDense(1, 2, []complex128{3 + 4i, -1})

	amp := Amplitude(c)
	if amp.At(0, 0) != 5 || amp.At(0, 1) != 1 {
		t.Errorf("Unexpected amplitude: %v", mat.Formatted(amp))
	}

	phase := Phase(c)
	if math.Abs(phase.At(0, 1)-math.Pi) > 1e-15 {
		t.Errorf("Expected phase pi, got %v", phase.At(0, 1))
	}
}

// TestSaveImageAndPlot writes a PNG and a profile plot to a temporary directory
func TestSaveImageAndPlot(t *testing.T) {
	tmpDir := t.TempDir()
	viewer := NewViewer(createTestField(16, 16), 6.5e-6)

	imagePath := filepath.Join(tmpDir, "images", "field.png")
	if err := viewer.SaveImage(imagePath); err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}

	file, err := os.Open(imagePath)
	if err != nil {
		t.Fatalf("Failed to open saved image: %v", err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Failed to decode saved image: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("Expected 16x16 image, got %v", b)
	}

	plotPath := filepath.Join(tmpDir, "profile.png")
	if err := viewer.SaveProfilePlot("x", 8, DefaultProfilePlot(), plotPath); err != nil {
		t.Fatalf("Failed to save profile plot: %v", err)
	}
	if info, err := os.Stat(plotPath); err != nil || info.Size() == 0 {
		t.Errorf("Expected a non-empty profile plot, err=%v", err)
	}

	chartPath := filepath.Join(tmpDir, "profile.html")
	if err := viewer.SaveProfileChart("y", 3, DefaultProfilePlot(), chartPath); err != nil {
		t.Fatalf("Failed to save profile chart: %v", err)
	}
	html, err := os.ReadFile(chartPath)
	if err != nil || !strings.Contains(string(html), "echarts") {
		t.Errorf("Expected an echarts HTML page, err=%v", err)
	}

	if err := viewer.SaveProfilePlot("q", 0, DefaultProfilePlot(), plotPath); err == nil {
		t.Errorf("Expected error for invalid axis")
	}
}

func TestProfileXYIsCentered(t *testing.T) {
	pts := ProfileXY([]float64{1, 2, 3}, 2e-6)
	if math.Abs(pts[0].X+2) > 1e-9 || math.Abs(pts[1].X) > 1e-9 || math.Abs(pts[2].X-2) > 1e-9 {
		t.Errorf("Expected x coordinates -2, 0, 2 um, got %v", pts)
	}
	if pts[2].Y != 3 {
		t.Errorf("Expected y to carry the profile, got %v", pts[2].Y)
	}
}
