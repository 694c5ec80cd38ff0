package ot

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// sqEuclidean returns the n×m matrix of squared Euclidean distances between
// the rows of a and b.
func sqEuclidean(a, b mat.Matrix) *mat.Dense {
	n, d := a.Dims()
	m, _ := b.Dims()
	out := mat.NewDense(n, m, nil)
	rb := rows(b)
	ra := make([]float64, d)
	for i := 0; i < n; i++ {
		mat.Row(ra, i, a)
		for j, r := range rb {
			out.Set(i, j, sqDist(ra, r))
		}
	}
	return out
}

// rows copies every row of a into its own slice.
func rows(a mat.Matrix) [][]float64 {
	n, _ := a.Dims()
	out := make([][]float64, n)
	for i := range out {
		out[i] = mat.Row(nil, i, a)
	}
	return out
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for k, v := range a {
		d := v - b[k]
		sum += d * d
	}
	return sum
}

// uniform returns n weights of 1/n.
func uniform(n int) []float64 {
	w := make([]float64, n)
	floats.AddConst(1/float64(n), w)
	return w
}

// frobenius returns the sum of the element-wise product of a and b.
func frobenius(a, b *mat.Dense) float64 {
	var p mat.Dense
	p.MulElem(a, b)
	return mat.Sum(&p)
}
