package object

import (
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// AddNoise returns mask + scale * N(0, 1), drawn from a PCG stream seeded
// with seed. The input mask is left untouched.
func AddNoise(mask *mat.Dense, seed uint64, scale float64) *mat.Dense {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, seed)}

	noisy := mat.DenseCopyOf(mask)
	noisy.Apply(func(_, _ int, v float64) float64 {
		return v + scale*normal.Rand()
	}, noisy)
	return noisy
}

// Transmission builds exp(i * (phaseShift + i*mu) * mask).
//
// The magnitude is exp(-mu*mask) and the phase phaseShift*mask, so every
// pixel outside the footprint transmits the wave unchanged.
func Transmission(mask mat.Matrix, mo MaterialOptics) *mat.CDense {
	rows, cols := mask.Dims()
	data := make([]complex128, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m := mask.At(i, j)
			if m == 0 {
				data[i*cols+j] = 1
				continue
			}
			data[i*cols+j] = cmplx.Exp(complex(-mo.Absorption*m, mo.PhaseShift*m))
		}
	}
	return mat.NewCDense(rows, cols, data)
}
