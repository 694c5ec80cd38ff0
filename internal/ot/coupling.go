package ot

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CouplingMapping maps colours through a fitted transport plan.
//
// The fitted source samples are sent to their barycentric images. Any other
// point follows the displacement of its nearest fitted sample.
type CouplingMapping struct {
	xs   *mat.Dense
	g    *mat.Dense
	bary *mat.Dense
	nn   *nearest
}

func newCouplingMapping(xs, xt, g *mat.Dense) *CouplingMapping {
	m := &CouplingMapping{xs: xs, g: g, bary: barycentric(g, xt)}
	m.nn = newNearest(rows(xs))
	return m
}

// Coupling returns the fitted transport plan. The caller must not modify it.
func (m *CouplingMapping) Coupling() mat.Matrix { return m.g }

// Transform maps x into target space.
func (m *CouplingMapping) Transform(x *mat.Dense) (*mat.Dense, error) {
	_, d := m.xs.Dims()
	if err := checkQuery(x, d); err != nil {
		return nil, err
	}
	if mat.Equal(x, m.xs) {
		return mat.DenseCopyOf(m.bary), nil
	}
	n, _ := x.Dims()
	out := mat.NewDense(n, d, nil)
	q := make([]float64, d)
	for i := 0; i < n; i++ {
		mat.Row(q, i, x)
		j := m.nn.row(q)
		for k := 0; k < d; k++ {
			out.Set(i, k, m.bary.At(j, k)+q[k]-m.xs.At(j, k))
		}
	}
	return out, nil
}

// barycentric returns diag(1/G·1)·G·xt. Rows of G with no mass map to the
// origin.
func barycentric(g, xt *mat.Dense) *mat.Dense {
	n, _ := g.Dims()
	_, d := xt.Dims()
	var out mat.Dense
	out.Mul(g, xt)
	for i := 0; i < n; i++ {
		mass := floats.Sum(g.RawRowView(i))
		row := out.RawRowView(i)
		if mass == 0 {
			for k := 0; k < d; k++ {
				row[k] = 0
			}
			continue
		}
		floats.Scale(1/mass, row)
	}
	return &out
}
