package propagation

import (
	"gonum.org/v1/gonum/mat"

	"holosim/internal/models"
)

// Compose returns the exit wave object .* probe, the field immediately
// behind the object before free-space propagation.
func Compose(object, probe mat.CMatrix) (*mat.CDense, error) {
	or, oc := object.Dims()
	pr, pc := probe.Dims()
	if or != pr || oc != pc {
		return nil, models.NewParameterError("probe",
			models.Grid{Rows: pr, Cols: pc}.String()+" vs object "+models.Grid{Rows: or, Cols: oc}.String(),
			models.ErrDimensionMismatch)
	}

	data := make([]complex128, or*oc)
	for i := 0; i < or; i++ {
		for j := 0; j < oc; j++ {
			data[i*oc+j] = object.At(i, j) * probe.At(i, j)
		}
	}
	return mat.NewCDense(or, oc, data), nil
}
