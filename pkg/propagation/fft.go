package propagation

import (
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// FFT2 returns the unnormalized 2D discrete Fourier transform of field.
// This is the forward half of the frequency-domain convolution: rows are
// transformed first, then columns.
//
// Parameters:
//   - field: complex input sampled on the detector grid
//
// Returns:
//   - A new matrix holding the spectrum in standard FFT ordering
func FFT2(field mat.CMatrix) *mat.CDense {
	out := denseCopy(field)
	fft2InPlace(out, true)
	return out
}

// IFFT2 returns the inverse 2D discrete Fourier transform of spectrum,
// normalized by 1/(rows*cols) so that IFFT2(FFT2(x)) == x.
func IFFT2(spectrum mat.CMatrix) *mat.CDense {
	out := denseCopy(spectrum)
	fft2InPlace(out, false)

	raw := out.RawCMatrix()
	scale := complex(1/float64(raw.Rows*raw.Cols), 0)
	for i := 0; i < raw.Rows; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
		for j := range row {
			row[j] *= scale
		}
	}
	return out
}

// fft2InPlace transforms rows then columns with gonum's complex FFT.
// Gonum transforms are unnormalized in both directions.
func fft2InPlace(m *mat.CDense, forward bool) {
	raw := m.RawCMatrix()
	h, w := raw.Rows, raw.Cols
	if h == 0 || w == 0 {
		return
	}

	rowFFT := fourier.NewCmplxFFT(w)
	colFFT := fourier.NewCmplxFFT(h)

	// rows
	for y := 0; y < h; y++ {
		row := raw.Data[y*raw.Stride : y*raw.Stride+w]
		if forward {
			rowFFT.Coefficients(row, row)
		} else {
			rowFFT.Sequence(row, row)
		}
	}

	// cols
	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = raw.Data[y*raw.Stride+x]
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for y := 0; y < h; y++ {
			raw.Data[y*raw.Stride+x] = col[y]
		}
	}
}

func denseCopy(m mat.CMatrix) *mat.CDense {
	r, c := m.Dims()
	data := make([]complex128, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = m.At(i, j)
		}
	}
	return mat.NewCDense(r, c, data)
}
