package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"holosim/pkg/hologram"
)

// Viewer renders a real-valued detector-plane field (hologram, mask,
// amplitude or phase map) as images and line profiles.
type Viewer struct {
	// field holds the data to display
	field *mat.Dense

	// dimensions of the field
	rows int
	cols int

	// pixelSize is the physical detector pixel pitch in meters, used to
	// label profile axes
	pixelSize float64
}

// NewViewer creates a viewer for field with the given pixel pitch in meters.
func NewViewer(field *mat.Dense, pixelSize float64) *Viewer {
	rows, cols := field.Dims()
	return &Viewer{
		field:     field,
		rows:      rows,
		cols:      cols,
		pixelSize: pixelSize,
	}
}

// Amplitude returns |c| elementwise.
func Amplitude(c mat.CMatrix) *mat.Dense {
	return mapComplex(c, cmplx.Abs)
}

// Phase returns arg(c) elementwise, in radians.
func Phase(c mat.CMatrix) *mat.Dense {
	return mapComplex(c, cmplx.Phase)
}

func mapComplex(c mat.CMatrix, fn func(complex128) float64) *mat.Dense {
	rows, cols := c.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(i, j int, _ float64) float64 {
		return fn(c.At(i, j))
	}, out)
	return out
}

// Range returns the minimum and maximum finite value of the field.
func (v *Viewer) Range() (lo, hi float64) {
	finite := make([]float64, 0, v.rows*v.cols)
	for i := 0; i < v.rows; i++ {
		for j := 0; j < v.cols; j++ {
			if x := v.field.At(i, j); !math.IsNaN(x) && !math.IsInf(x, 0) {
				finite = append(finite, x)
			}
		}
	}
	if len(finite) == 0 {
		return 0, 0
	}
	return floats.Min(finite), floats.Max(finite)
}

// Image maps the field linearly onto 16-bit gray levels, lo to black and hi
// to white. Values outside [lo, hi] are clamped; NaN and Inf become black.
func (v *Viewer) Image(lo, hi float64) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, v.cols, v.rows))
	span := hi - lo
	for y := 0; y < v.rows; y++ {
		for x := 0; x < v.cols; x++ {
			val := v.field.At(y, x)
			if math.IsNaN(val) || math.IsInf(val, 0) || span <= 0 {
				img.SetGray16(x, y, color.Gray16{Y: 0})
				continue
			}
			level := math.Round((val - lo) / span * 65535)
			level = math.Max(0, math.Min(65535, level))
			img.SetGray16(x, y, color.Gray16{Y: uint16(level)})
		}
	}
	return img
}

// AutoImage is Image over the field's own value range.
func (v *Viewer) AutoImage() *image.Gray16 {
	lo, hi := v.Range()
	return v.Image(lo, hi)
}

// ExtractProfile extracts a line profile along the specified axis:
// "x" returns row position, "y" returns column position.
func (v *Viewer) ExtractProfile(axis string, position int) ([]float64, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	switch axis {
	case "x", "X":
		return hologram.Profile(v.field, position)

	case "y", "Y":
		if position >= v.cols {
			return nil, fmt.Errorf("position %d exceeds width %d", position, v.cols)
		}
		return mat.Col(nil, position, v.field), nil

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x or y)", axis)
	}
}

// ExtractRegion extracts a rectangular region of interest from the field.
func (v *Viewer) ExtractRegion(startRow, startCol, height, width int) (*mat.Dense, error) {
	if startRow < 0 || startCol < 0 {
		return nil, fmt.Errorf("start coordinates must be non-negative")
	}

	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("region dimensions must be positive")
	}

	if startRow+height > v.rows || startCol+width > v.cols {
		return nil, fmt.Errorf("region extends beyond field boundaries")
	}

	return mat.DenseCopyOf(v.field.Slice(startRow, startRow+height, startCol, startCol+width)), nil
}

// SaveImage writes the auto-scaled field as a 16-bit grayscale PNG.
func (v *Viewer) SaveImage(filename string) error {
	return SavePNG(v.AutoImage(), filename)
}

// SavePNG encodes img to filename, creating parent directories.
func SavePNG(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
