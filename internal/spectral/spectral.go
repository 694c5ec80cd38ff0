// Package spectral splits a 2D intensity field into its Fourier amplitude and
// phase and reassembles a field from them.
package spectral

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrShape is returned when a field does not hold h·w values.
var ErrShape = errors.New("spectral: field shape mismatch")

// AmpPhase returns |F| and arg F of the 2D discrete Fourier transform of the
// row-major h×w field.
func AmpPhase(field []float64, h, w int) (amp, phase []float64, err error) {
	if err := checkShape(len(field), h, w); err != nil {
		return nil, nil, err
	}
	coef := make([]complex128, len(field))
	for i, v := range field {
		coef[i] = complex(v, 0)
	}
	fft2(coef, h, w, false)

	amp = make([]float64, len(coef))
	phase = make([]float64, len(coef))
	for i, c := range coef {
		amp[i] = cmplx.Abs(c)
		phase[i] = cmplx.Phase(c)
	}
	return amp, phase, nil
}

// Reconstruct returns the real part of the inverse 2D transform of
// amp·e^{i·phase}.
func Reconstruct(amp, phase []float64, h, w int) ([]float64, error) {
	if err := checkShape(len(amp), h, w); err != nil {
		return nil, err
	}
	if len(phase) != len(amp) {
		return nil, fmt.Errorf("%w: %d amplitudes, %d phases", ErrShape, len(amp), len(phase))
	}
	coef := make([]complex128, len(amp))
	for i := range amp {
		coef[i] = cmplx.Rect(amp[i], phase[i])
	}
	fft2(coef, h, w, true)

	out := make([]float64, len(coef))
	scale := 1 / float64(h*w)
	for i, c := range coef {
		out[i] = real(c) * scale
	}
	return out, nil
}

func checkShape(n, h, w int) error {
	if h <= 0 || w <= 0 || n != h*w {
		return fmt.Errorf("%w: %d values for %dx%d", ErrShape, n, h, w)
	}
	return nil
}

// fft2 transforms the row-major h×w data in place, rows first then columns.
// The inverse is left unnormalised.
func fft2(data []complex128, h, w int, inverse bool) {
	apply := func(f *fourier.CmplxFFT, seq []complex128) {
		if inverse {
			f.Sequence(seq, seq)
		} else {
			f.Coefficients(seq, seq)
		}
	}

	rowFFT := fourier.NewCmplxFFT(w)
	for y := 0; y < h; y++ {
		apply(rowFFT, data[y*w:(y+1)*w])
	}

	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = data[y*w+x]
		}
		apply(colFFT, col)
		for y := 0; y < h; y++ {
			data[y*w+x] = col[y]
		}
	}
}
