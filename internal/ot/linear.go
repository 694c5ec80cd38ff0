package ot

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LinearTransport fits the closed-form affine map between the Gaussian
// approximations of two clouds.
type LinearTransport struct {
	// Reg is added to the diagonal of both covariances.
	Reg float64
	// Bias centres both clouds before estimating covariances.
	Bias bool
}

// LinearMapping is the fitted affine map x·A + b.
type LinearMapping struct {
	A *mat.Dense
	B []float64
}

// Fit estimates the Monge map between N(ms, Cs) and N(mt, Ct).
func (t LinearTransport) Fit(xs, xt *mat.Dense) (*LinearMapping, error) {
	if err := checkClouds(xs, xt); err != nil {
		return nil, err
	}
	_, d := xs.Dims()

	ms, cs := moments(xs, t.Bias, t.Reg)
	mt, ct := moments(xt, t.Bias, t.Reg)

	cs12, err := symPow(cs, 0.5)
	if err != nil {
		return nil, err
	}
	cs12inv, err := symPow(cs, -0.5)
	if err != nil {
		return nil, err
	}

	var inner mat.Dense
	inner.Product(cs12, ct, cs12)
	innerSym, err := symmetric(&inner)
	if err != nil {
		return nil, err
	}
	inner12, err := symPow(innerSym, 0.5)
	if err != nil {
		return nil, err
	}

	a := mat.NewDense(d, d, nil)
	a.Product(cs12inv, inner12, cs12inv)

	b := make([]float64, d)
	if t.Bias {
		for k := 0; k < d; k++ {
			b[k] = mt[k] - mat.Dot(mat.NewVecDense(d, ms), a.ColView(k))
		}
	}
	return &LinearMapping{A: a, B: b}, nil
}

// Transform maps x into target space.
func (m *LinearMapping) Transform(x *mat.Dense) (*mat.Dense, error) {
	d, _ := m.A.Dims()
	if err := checkQuery(x, d); err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Mul(x, m.A)
	out.Apply(func(_, k int, v float64) float64 { return v + m.B[k] }, &out)
	return &out, nil
}

// moments returns the column means and the biased covariance of x with reg
// on the diagonal. Without centring the mean is zero.
func moments(x *mat.Dense, centre bool, reg float64) ([]float64, *mat.SymDense) {
	n, d := x.Dims()
	mean := make([]float64, d)
	if centre {
		col := make([]float64, n)
		for k := 0; k < d; k++ {
			mat.Col(col, k, x)
			mean[k] = stat.Mean(col, nil)
		}
	}
	var xc mat.Dense
	xc.Apply(func(_, k int, v float64) float64 { return v - mean[k] }, x)
	cov := mat.NewSymDense(d, nil)
	cov.SymOuterK(1/float64(n), xc.T())
	for k := 0; k < d; k++ {
		cov.SetSym(k, k, cov.At(k, k)+reg)
	}
	return mean, cov
}

// symPow raises a symmetric positive semi-definite matrix to power p through
// its eigendecomposition. Eigenvalues below zero from rounding are clamped.
func symPow(s mat.Symmetric, p float64) (*mat.Dense, error) {
	var eig mat.EigenSym
	if !eig.Factorize(s, true) {
		return nil, ErrFactorisation
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	d := len(vals)
	diag := make([]float64, d)
	for i, v := range vals {
		if v < 0 {
			v = 0
		}
		if v == 0 && p < 0 {
			return nil, fmt.Errorf("%w: singular covariance", ErrFactorisation)
		}
		diag[i] = math.Pow(v, p)
	}
	out := mat.NewDense(d, d, nil)
	out.Product(&vecs, mat.NewDiagDense(d, diag), vecs.T())
	return out, nil
}

// symmetric averages m with its transpose.
func symmetric(m *mat.Dense) (*mat.SymDense, error) {
	r, c := m.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: %dx%d is not square", ErrFactorisation, r, c)
	}
	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			s.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}
	return s, nil
}
