package object

import (
	"image"
	"math"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/mat"

	"holosim/internal/models"
)

// referenceSize is the detector edge length the default geometry is laid out on.
const referenceSize = 2000.0

// Point is a position on the grid in (row, column) pixel coordinates.
type Point struct {
	Row float64 `yaml:"row" json:"row" toml:"row"`
	Col float64 `yaml:"col" json:"col" toml:"col"`
}

// ShapeGeometry holds the pixel-space layout of every supported shape.
type ShapeGeometry struct {
	// DiskCenter and DiskRadius describe the filled disk
	DiskCenter Point   `yaml:"diskCenter" json:"diskCenter" toml:"diskCenter"`
	DiskRadius float64 `yaml:"diskRadius" json:"diskRadius" toml:"diskRadius"`

	// RectangleOrigin is the top-left pixel, RectangleExtent the height and width
	RectangleOrigin Point `yaml:"rectangleOrigin" json:"rectangleOrigin" toml:"rectangleOrigin"`
	RectangleExtent Point `yaml:"rectangleExtent" json:"rectangleExtent" toml:"rectangleExtent"`

	// TriangleVertices are filled as a polygon
	TriangleVertices [3]Point `yaml:"triangleVertices" json:"triangleVertices" toml:"triangleVertices"`
}

// IsZero reports whether no layout was given at all.
func (g ShapeGeometry) IsZero() bool {
	return g == ShapeGeometry{}
}

// DefaultShapeGeometry lays out the reference shapes on grid. On a 2000x2000
// detector this is a disk of radius 200 at (1000, 1000), a 500x500 rectangle
// at (700, 900) and the triangle (1000, 950), (900, 1200), (1100, 1200).
// Other grid sizes get the same layout scaled per axis.
func DefaultShapeGeometry(grid models.Grid) ShapeGeometry {
	sr := float64(grid.Rows) / referenceSize
	sc := float64(grid.Cols) / referenceSize
	scale := func(row, col float64) Point {
		return Point{Row: row * sr, Col: col * sc}
	}

	return ShapeGeometry{
		DiskCenter:      scale(1000, 1000),
		DiskRadius:      200 * math.Min(sr, sc),
		RectangleOrigin: scale(700, 900),
		RectangleExtent: scale(500, 500),
		TriangleVertices: [3]Point{
			scale(1000, 950),
			scale(900, 1200),
			scale(1100, 1200),
		},
	}
}

// Validate rejects geometry that cannot be rasterized.
func (g ShapeGeometry) Validate(shape models.Shape) error {
	switch shape {
	case models.Disk:
		if !finitePoint(g.DiskCenter) {
			return models.NewParameterError("diskCenter", g.DiskCenter, models.ErrInvalidGeometry)
		}
		if math.IsNaN(g.DiskRadius) || math.IsInf(g.DiskRadius, 0) || g.DiskRadius < 0 {
			return models.NewParameterError("diskRadius", g.DiskRadius, models.ErrInvalidGeometry)
		}
	case models.Rectangle:
		if !finitePoint(g.RectangleOrigin) {
			return models.NewParameterError("rectangleOrigin", g.RectangleOrigin, models.ErrInvalidGeometry)
		}
		if !finitePoint(g.RectangleExtent) || g.RectangleExtent.Row < 0 || g.RectangleExtent.Col < 0 {
			return models.NewParameterError("rectangleExtent", g.RectangleExtent, models.ErrInvalidGeometry)
		}
	case models.Triangle:
		for _, v := range g.TriangleVertices {
			if !finitePoint(v) {
				return models.NewParameterError("triangleVertices", g.TriangleVertices, models.ErrInvalidGeometry)
			}
		}
	default:
		return models.NewParameterError("shape", shape, models.ErrUnsupportedShape)
	}
	return nil
}

// Rasterize renders the shape footprint: 1 inside, 0 outside.
//
// Boundary rules:
//   - disk: pixel (r, c) is inside when (r-cr)^2 + (c-cc)^2 < radius^2
//   - rectangle: rows [r0, r0+h) and columns [c0, c0+w), origin and extent
//     rounded to whole pixels and clipped to the grid
//   - triangle: polygon fill with the vertices sampled at pixel centers; a
//     pixel is inside when at least half of it is covered
func Rasterize(shape models.Shape, grid models.Grid, geometry ShapeGeometry) (*mat.Dense, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if err := geometry.Validate(shape); err != nil {
		return nil, err
	}

	mask := mat.NewDense(grid.Rows, grid.Cols, nil)
	switch shape {
	case models.Disk:
		fillDisk(mask, geometry.DiskCenter, geometry.DiskRadius)
	case models.Rectangle:
		fillRectangle(mask, geometry.RectangleOrigin, geometry.RectangleExtent)
	case models.Triangle:
		fillPolygon(mask, geometry.TriangleVertices[:])
	}
	return mask, nil
}

func fillDisk(mask *mat.Dense, center Point, radius float64) {
	rows, cols := mask.Dims()
	r2 := radius * radius
	lo := clampInt(int(math.Floor(center.Row-radius)), 0, rows)
	hi := clampInt(int(math.Ceil(center.Row+radius))+1, 0, rows)
	for i := lo; i < hi; i++ {
		dr := float64(i) - center.Row
		for j := 0; j < cols; j++ {
			dc := float64(j) - center.Col
			if dr*dr+dc*dc < r2 {
				mask.Set(i, j, 1)
			}
		}
	}
}

func fillRectangle(mask *mat.Dense, origin, extent Point) {
	rows, cols := mask.Dims()
	r0 := int(math.Round(origin.Row))
	c0 := int(math.Round(origin.Col))
	r1 := clampInt(r0+int(math.Round(extent.Row)), 0, rows)
	c1 := clampInt(c0+int(math.Round(extent.Col)), 0, cols)
	r0 = clampInt(r0, 0, rows)
	c0 = clampInt(c0, 0, cols)
	for i := r0; i < r1; i++ {
		for j := c0; j < c1; j++ {
			mask.Set(i, j, 1)
		}
	}
}

// fillPolygon scan-converts a closed polygon with the vector rasterizer. The
// half-pixel shift moves vertex (r, c) onto the center of pixel (r, c).
func fillPolygon(mask *mat.Dense, vertices []Point) {
	rows, cols := mask.Dims()
	if len(vertices) < 3 {
		return
	}

	z := vector.NewRasterizer(cols, rows)
	z.MoveTo(float32(vertices[0].Col+0.5), float32(vertices[0].Row+0.5))
	for _, v := range vertices[1:] {
		z.LineTo(float32(v.Col+0.5), float32(v.Row+0.5))
	}
	z.ClosePath()

	coverage := image.NewAlpha(image.Rect(0, 0, cols, rows))
	z.Draw(coverage, coverage.Bounds(), image.Opaque, image.Point{})

	for i := 0; i < rows; i++ {
		line := coverage.Pix[i*coverage.Stride : i*coverage.Stride+cols]
		for j, a := range line {
			if a >= 128 {
				mask.Set(i, j, 1)
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finitePoint(p Point) bool {
	return !math.IsNaN(p.Row) && !math.IsInf(p.Row, 0) && !math.IsNaN(p.Col) && !math.IsInf(p.Col, 0)
}
