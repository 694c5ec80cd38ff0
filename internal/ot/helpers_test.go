package ot

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// randomCloud returns n points in the unit cube.
func randomCloud(n, d int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	data := make([]float64, n*d)
	for i := range data {
		data[i] = rng.Float64()
	}
	return mat.NewDense(n, d, data)
}

// marginals returns the row and column sums of g.
func marginals(g mat.Matrix) (row, col []float64) {
	n, m := g.Dims()
	row = make([]float64, n)
	col = make([]float64, m)
	r := make([]float64, m)
	for i := 0; i < n; i++ {
		mat.Row(r, i, g)
		row[i] = floats.Sum(r)
		floats.Add(col, r)
	}
	return row, col
}

func requireMarginals(t *testing.T, g mat.Matrix, tol float64) {
	t.Helper()
	n, m := g.Dims()
	row, col := marginals(g)
	require.True(t, floats.EqualApprox(row, uniform(n), tol), "row marginals %v", row)
	require.True(t, floats.EqualApprox(col, uniform(m), tol), "column marginals %v", col)
	require.GreaterOrEqual(t, mat.Min(g), -tol)
}
