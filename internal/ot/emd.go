package ot

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// simplexTol is the reduced-cost tolerance passed to lp.Simplex.
const simplexTol = 1e-10

// EMDTransport fits an exact (unregularised) optimal transport plan.
type EMDTransport struct{}

// Fit computes the exact coupling between xs and xt and returns the
// corresponding barycentric mapping.
func (EMDTransport) Fit(xs, xt *mat.Dense) (*CouplingMapping, error) {
	if err := checkClouds(xs, xt); err != nil {
		return nil, err
	}
	ns, _ := xs.Dims()
	nt, _ := xt.Dims()

	g, err := emd(uniform(ns), uniform(nt), sqEuclidean(xs, xt))
	if err != nil {
		return nil, err
	}
	return newCouplingMapping(xs, xt, g), nil
}

// emd solves min <G, M> subject to G·1 = a, Gᵀ·1 = b, G >= 0.
//
// Uniform, equally sized marginals reduce to an assignment problem. Degenerate
// one-sided problems have a single feasible plan. Everything else is solved
// as a dense transportation LP, which is only practical for small clouds.
func emd(a, b []float64, cost *mat.Dense) (*mat.Dense, error) {
	n, m := len(a), len(b)
	g := mat.NewDense(n, m, nil)

	switch {
	case n == 1:
		g.SetRow(0, b)
		return g, nil
	case m == 1:
		g.SetCol(0, a)
		return g, nil
	case n == m && isUniform(a) && isUniform(b):
		for i, j := range assign(cost) {
			g.Set(i, j, a[i])
		}
		return g, nil
	}

	c, A, rhs := transportationLP(a, b, cost)
	_, x, err := lp.Simplex(c, A, rhs, simplexTol, nil)
	if err != nil {
		return nil, fmt.Errorf("emd simplex on %dx%d plan: %w", n, m, err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			g.Set(i, j, x[i*m+j])
		}
	}
	return g, nil
}

// transportationLP writes the transport problem in lp standard form. The
// variables are the row-major entries of G. The marginal constraints have
// rank n+m-1, so the last column constraint is dropped to give A full row
// rank.
func transportationLP(a, b []float64, cost *mat.Dense) (c []float64, A *mat.Dense, rhs []float64) {
	n, m := len(a), len(b)
	c = make([]float64, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			c[i*m+j] = cost.At(i, j)
		}
	}

	A = mat.NewDense(n+m-1, n*m, nil)
	rhs = make([]float64, 0, n+m-1)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			A.Set(i, i*m+j, 1)
		}
		rhs = append(rhs, a[i])
	}
	for j := 0; j < m-1; j++ {
		for i := 0; i < n; i++ {
			A.Set(n+j, i*m+j, 1)
		}
		rhs = append(rhs, b[j])
	}
	return c, A, rhs
}

func isUniform(w []float64) bool {
	for _, v := range w[1:] {
		if v != w[0] {
			return false
		}
	}
	return true
}
