package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestBarycentric(t *testing.T) {
	g := mat.NewDense(3, 2, []float64{
		0.25, 0.25,
		0, 0.5,
		0, 0,
	})
	xt := mat.NewDense(2, 2, []float64{
		0, 0,
		1, 2,
	})
	want := mat.NewDense(3, 2, []float64{
		0.5, 1,
		1, 2,
		0, 0,
	})
	assert.True(t, mat.EqualApprox(barycentric(g, xt), want, 1e-15))
}

func TestNearest(t *testing.T) {
	pts := [][]float64{{0, 0}, {1, 0}, {0, 1}, {5, 5}, {0.4, 0.4}}
	nn := newNearest(pts)
	cases := []struct {
		q    []float64
		want int
	}{
		{[]float64{0.1, -0.1}, 0},
		{[]float64{0.9, 0.2}, 1},
		{[]float64{4, 6}, 3},
		{[]float64{0.45, 0.35}, 4},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, nn.row(c.q), "query %v", c.q)
	}
}
