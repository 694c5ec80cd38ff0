package ot

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MappingTransport jointly estimates a transport plan and a kernel ridge
// regression mapping source samples onto their transported images.
type MappingTransport struct {
	// Mu weighs the transport cost against the regression fit.
	Mu float64
	// Eta is the ridge penalty on the mapping.
	Eta float64
	// Sigma is the Gaussian kernel bandwidth.
	Sigma float64
	// Bias adds a constant term to the mapping.
	Bias bool

	MaxIter      int
	Tol          float64
	MaxInnerIter int
	InnerTol     float64
}

// KernelMapping is a fitted kernel ridge mapping together with the plan it
// was estimated alongside.
type KernelMapping struct {
	xs    *mat.Dense
	g     *mat.Dense
	l     *mat.Dense
	bary  *mat.Dense
	sigma float64
	bias  bool
}

// Coupling returns the fitted transport plan. The caller must not modify it.
func (m *KernelMapping) Coupling() mat.Matrix { return m.g }

// Transform maps x into target space. The fitted source samples follow the
// barycentric projection; other points go through the kernel regression.
func (m *KernelMapping) Transform(x *mat.Dense) (*mat.Dense, error) {
	_, d := m.xs.Dims()
	if err := checkQuery(x, d); err != nil {
		return nil, err
	}
	if mat.Equal(x, m.xs) {
		return mat.DenseCopyOf(m.bary), nil
	}

	n, _ := x.Dims()
	ns, _ := m.xs.Dims()
	width := ns
	if m.bias {
		width++
	}
	src := rows(m.xs)
	out := mat.NewDense(n, d, nil)
	k := mat.NewVecDense(width, nil)
	q := make([]float64, d)
	var y mat.VecDense
	for i := 0; i < n; i++ {
		mat.Row(q, i, x)
		for j, s := range src {
			k.SetVec(j, gaussian(sqDist(q, s), m.sigma))
		}
		if m.bias {
			k.SetVec(ns, 1)
		}
		y.MulVec(m.l.T(), k)
		out.SetRow(i, y.RawVector().Data)
	}
	return out, nil
}

func gaussian(d2, sigma float64) float64 {
	return math.Exp(-d2 / (2 * sigma * sigma))
}

// kernelMatrix returns the Gaussian Gram matrix of xs with itself.
func kernelMatrix(xs *mat.Dense, sigma float64) *mat.Dense {
	k := sqEuclidean(xs, xs)
	k.Apply(func(_, _ int, v float64) float64 { return gaussian(v, sigma) }, k)
	return k
}

// jointProblem holds the fixed matrices of one fit.
type jointProblem struct {
	ns   float64
	xt   *mat.Dense
	cost *mat.Dense
	// k1 is the design matrix, K or [K 1] with bias.
	k1 *mat.Dense
	// k0 is the left-hand side of the ridge normal equations.
	k0 *mat.Dense
	// kreg is the ridge penalty metric.
	kreg *mat.Dense
	bias bool
	eta  float64
	mu   float64
}

func newJointProblem(t MappingTransport, xs, xt *mat.Dense) *jointProblem {
	ns, _ := xs.Dims()
	k := kernelMatrix(xs, t.Sigma)
	// Cost is in the same ns units as target.
	cost := sqEuclidean(xs, xt)
	cost.Scale(float64(ns), cost)
	p := &jointProblem{
		ns:   float64(ns),
		xt:   xt,
		cost: cost,
		bias: t.Bias,
		eta:  t.Eta,
		mu:   t.Mu,
	}
	if !t.Bias {
		p.k1 = k
		p.kreg = k
		p.k0 = mat.NewDense(ns, ns, nil)
		p.k0.Apply(func(i, j int, v float64) float64 {
			if i == j {
				return v + t.Eta
			}
			return v
		}, k)
		return p
	}

	p.k1 = mat.NewDense(ns, ns+1, nil)
	p.k1.Slice(0, ns, 0, ns).(*mat.Dense).Copy(k)
	for i := 0; i < ns; i++ {
		p.k1.Set(i, ns, 1)
	}
	p.kreg = mat.NewDense(ns+1, ns+1, nil)
	p.kreg.Slice(0, ns, 0, ns).(*mat.Dense).Copy(k)
	p.k0 = mat.NewDense(ns+1, ns+1, nil)
	p.k0.Mul(p.k1.T(), p.k1)
	var pen mat.Dense
	pen.Scale(t.Eta, p.kreg)
	p.k0.Add(p.k0, &pen)
	return p
}

// target returns ns·G·xt, the transported source positions scaled to the
// sample count.
func (p *jointProblem) target(g *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(g, p.xt)
	out.Scale(p.ns, &out)
	return &out
}

// solveL returns the ridge regression coefficients for plan g.
func (p *jointProblem) solveL(g *mat.Dense) (*mat.Dense, error) {
	rhs := p.target(g)
	if p.bias {
		var proj mat.Dense
		proj.Mul(p.k1.T(), rhs)
		rhs = &proj
	}
	// A Condition error still carries a usable solution.
	var l mat.Dense
	var cond mat.Condition
	if err := l.Solve(p.k0, rhs); err != nil && !errors.As(err, &cond) {
		return nil, fmt.Errorf("kernel ridge solve: %w", err)
	}
	return &l, nil
}

// fit returns the squared residual between the mapped samples xsi and the
// transported positions under g.
func (p *jointProblem) fit(xsi, g *mat.Dense) float64 {
	var r mat.Dense
	r.Sub(xsi, p.target(g))
	return frobenius(&r, &r)
}

// loss evaluates the joint objective.
func (p *jointProblem) loss(l, g *mat.Dense) float64 {
	var xsi, kl mat.Dense
	xsi.Mul(p.k1, l)
	kl.Mul(p.kreg, l)
	return p.fit(&xsi, g) + p.mu*frobenius(g, p.cost) + p.eta*frobenius(l, &kl)
}

// solveG improves g for fixed l by conditional gradient.
func (p *jointProblem) solveG(l, g0 *mat.Dense, maxIter int, tol float64) (*mat.Dense, error) {
	var xsi mat.Dense
	xsi.Mul(p.k1, l)
	obj := objective{
		f: func(g *mat.Dense) float64 { return p.fit(&xsi, g) },
		df: func(g *mat.Dense) *mat.Dense {
			var r, out mat.Dense
			r.Sub(&xsi, p.target(g))
			out.Mul(&r, p.xt.T())
			out.Scale(-2*p.ns, &out)
			return &out
		},
	}
	n, m := g0.Dims()
	return conditionalGradient(uniform(n), uniform(m), p.cost, 1/p.mu, obj, g0, maxIter, tol)
}

// Fit starts from the exact plan for the scaled cost, then alternates plan
// and mapping updates until the relative change in the joint objective drops
// below Tol or MaxIter rounds have run.
func (t MappingTransport) Fit(xs, xt *mat.Dense) (*KernelMapping, error) {
	if err := checkClouds(xs, xt); err != nil {
		return nil, err
	}
	if t.Sigma <= 0 || t.Mu <= 0 {
		return nil, fmt.Errorf("kernel mapping: sigma and mu must be positive, got %g and %g", t.Sigma, t.Mu)
	}
	ns, _ := xs.Dims()
	nt, _ := xt.Dims()
	p := newJointProblem(t, xs, xt)

	g, err := emd(uniform(ns), uniform(nt), p.cost)
	if err != nil {
		return nil, err
	}
	l, err := p.solveL(g)
	if err != nil {
		return nil, err
	}
	prev := p.loss(l, g)
	for it := 0; it < t.MaxIter; it++ {
		g, err = p.solveG(l, g, t.MaxInnerIter, t.InnerTol)
		if err != nil {
			return nil, err
		}
		l, err = p.solveL(g)
		if err != nil {
			return nil, err
		}
		cur := p.loss(l, g)
		if math.IsNaN(cur) {
			return nil, fmt.Errorf("%w: kernel mapping loss is NaN at iteration %d", ErrNumerical, it)
		}
		if prev == 0 || math.Abs(cur-prev)/math.Abs(prev) < t.Tol {
			break
		}
		prev = cur
	}

	return &KernelMapping{
		xs:    xs,
		g:     g,
		l:     l,
		bary:  barycentric(g, xt),
		sigma: t.Sigma,
		bias:  t.Bias,
	}, nil
}
