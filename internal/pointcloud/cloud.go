package pointcloud

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShape is returned when a buffer does not match the declared image shape.
	ErrShape = errors.New("pointcloud: shape mismatch")
	// ErrEmptyImage is returned for images with a zero dimension.
	ErrEmptyImage = errors.New("pointcloud: empty image")
)

const scale = 255.0

// Flatten returns the (H·W, C) point cloud of img with values scaled into [0, 1].
func Flatten(img *Image) *mat.Dense {
	data := make([]float64, len(img.Pix))
	for i, v := range img.Pix {
		data[i] = float64(v) / scale
	}
	return mat.NewDense(img.Pixels(), img.Channels, data)
}

// SampleIndices draws n indices uniformly from [0, size) with replacement.
// Sampling with replacement means n may exceed size.
func SampleIndices(n, size int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(size)
	}
	return idx
}

// Subsample returns the rows of cloud listed in idx, in order.
func Subsample(cloud mat.Matrix, idx []int) *mat.Dense {
	_, c := cloud.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for i, row := range idx {
		for j := 0; j < c; j++ {
			out.Set(i, j, cloud.At(row, j))
		}
	}
	return out
}

// Quantise clips cloud to [0, 1], rescales to [0, 255], rounds to the nearest
// integer (ties to even) and reshapes the result into an h×w×c image.
func Quantise(cloud mat.Matrix, h, w, c int) (*Image, error) {
	r, cc := cloud.Dims()
	if r != h*w || cc != c {
		return nil, fmt.Errorf("%w: cloud is %dx%d, want %dx%d", ErrShape, r, cc, h*w, c)
	}
	img := NewImage(h, w, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			img.Pix[i*c+j] = toByte(cloud.At(i, j) * scale)
		}
	}
	return img, nil
}

// Saturate rounds v half-to-even and clamps it into [0, 255].
// NaN maps to 0.
func Saturate(v float64) uint8 { return toByte(v) }

func toByte(v float64) uint8 {
	v = math.RoundToEven(v)
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= scale:
		return 255
	}
	return uint8(v)
}
