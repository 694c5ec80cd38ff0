package ot

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SinkhornTransport fits an entropy-regularised transport plan with
// Sinkhorn-Knopp matrix scaling.
type SinkhornTransport struct {
	Reg     float64
	MaxIter int
	Tol     float64
}

// Fit computes the regularised coupling between xs and xt.
func (t SinkhornTransport) Fit(xs, xt *mat.Dense) (*CouplingMapping, error) {
	if err := checkClouds(xs, xt); err != nil {
		return nil, err
	}
	ns, _ := xs.Dims()
	nt, _ := xt.Dims()

	g, err := sinkhorn(uniform(ns), uniform(nt), sqEuclidean(xs, xt), t.Reg, t.MaxIter, t.Tol)
	if err != nil {
		return nil, err
	}
	return newCouplingMapping(xs, xt, g), nil
}

// sinkhorn returns diag(u)·K·diag(v) with K = exp(-M/reg), scaled so the plan
// has marginals a and b. Convergence is checked every ten sweeps against the
// column marginal.
func sinkhorn(a, b []float64, cost *mat.Dense, reg float64, maxIter int, tol float64) (*mat.Dense, error) {
	if reg <= 0 {
		return nil, fmt.Errorf("sinkhorn: regularisation must be positive, got %g", reg)
	}
	n, m := len(a), len(b)

	k := mat.NewDense(n, m, nil)
	k.Apply(func(_, _ int, v float64) float64 { return math.Exp(-v / reg) }, cost)

	u := mat.NewVecDense(n, nil)
	v := mat.NewVecDense(m, nil)
	for i := 0; i < n; i++ {
		u.SetVec(i, 1/float64(n))
	}
	for j := 0; j < m; j++ {
		v.SetVec(j, 1/float64(m))
	}

	var ktu, kv mat.VecDense
	for it := 0; it < maxIter; it++ {
		ktu.MulVec(k.T(), u)
		for j := 0; j < m; j++ {
			v.SetVec(j, b[j]/ktu.AtVec(j))
		}
		kv.MulVec(k, v)
		for i := 0; i < n; i++ {
			u.SetVec(i, a[i]/kv.AtVec(i))
		}
		if !finite(ktu.RawVector().Data) || !finite(u.RawVector().Data) || !finite(v.RawVector().Data) {
			return nil, fmt.Errorf("%w: sinkhorn scaling diverged at iteration %d", ErrNumerical, it)
		}
		if it%10 == 0 {
			ktu.MulVec(k.T(), u)
			ktu.MulElemVec(&ktu, v)
			resid := 0.0
			for j := 0; j < m; j++ {
				d := ktu.AtVec(j) - b[j]
				resid += d * d
			}
			if math.Sqrt(resid) < tol {
				break
			}
		}
	}

	g := mat.NewDense(n, m, nil)
	g.Apply(func(i, j int, kij float64) float64 { return u.AtVec(i) * kij * v.AtVec(j) }, k)
	return g, nil
}

// finite reports whether s is free of zeros, NaN and Inf.
func finite(s []float64) bool {
	if floats.HasNaN(s) {
		return false
	}
	for _, x := range s {
		if x == 0 || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
