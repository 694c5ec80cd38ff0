package ot

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	armijoStart  = 0.99
	armijoC1     = 1e-4
	armijoMaxCut = 30
)

// objective is a smooth regulariser f on transport plans with gradient df.
type objective struct {
	f  func(g *mat.Dense) float64
	df func(g *mat.Dense) *mat.Dense
}

// conditionalGradient minimises <M, G> + reg·f(G) over plans with marginals
// a and b. Each step linearises the objective, solves the resulting exact
// transport problem, and moves towards it with a backtracking Armijo step.
func conditionalGradient(a, b []float64, cost *mat.Dense, reg float64, obj objective, g0 *mat.Dense, maxIter int, tol float64) (*mat.Dense, error) {
	value := func(g *mat.Dense) float64 { return frobenius(cost, g) + reg*obj.f(g) }

	g := mat.DenseCopyOf(g0)
	fval := value(g)
	for it := 0; it < maxIter; it++ {
		old := fval

		var grad mat.Dense
		grad.Scale(reg, obj.df(g))
		grad.Add(&grad, cost)

		lin := mat.DenseCopyOf(&grad)
		shift := mat.Min(lin)
		lin.Apply(func(_, _ int, v float64) float64 { return v - shift }, lin)

		gc, err := emd(a, b, lin)
		if err != nil {
			return nil, err
		}
		var dir mat.Dense
		dir.Sub(gc, g)

		alpha, next := armijo(value, g, &dir, frobenius(&grad, &dir), fval)
		if alpha == 0 {
			break
		}
		g.Add(g, scaled(alpha, &dir))
		fval = next

		delta := math.Abs(fval - old)
		if delta < tol || (fval != 0 && delta/math.Abs(fval) < tol) {
			break
		}
	}
	return g, nil
}

// armijo backtracks from armijoStart until the sufficient decrease condition
// holds along dir. It returns a zero step when dir is not a descent direction
// or no step is accepted.
func armijo(value func(*mat.Dense) float64, g, dir *mat.Dense, slope, f0 float64) (alpha, f float64) {
	if slope >= 0 {
		return 0, f0
	}
	var trial mat.Dense
	alpha = armijoStart
	for i := 0; i < armijoMaxCut; i++ {
		trial.Add(g, scaled(alpha, dir))
		f = value(&trial)
		if f <= f0+armijoC1*alpha*slope {
			return alpha, f
		}
		alpha /= 2
	}
	return 0, f0
}

func scaled(alpha float64, m *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Scale(alpha, m)
	return &out
}
