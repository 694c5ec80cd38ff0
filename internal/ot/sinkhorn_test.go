package ot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSinkhorn_Marginals(t *testing.T) {
	xs := randomCloud(30, 3, 5)
	xt := randomCloud(20, 3, 6)

	m, err := SinkhornTransport{Reg: 0.1, MaxIter: 1000, Tol: 1e-8}.Fit(xs, xt)
	require.NoError(t, err)
	requireMarginals(t, m.Coupling(), 1e-6)
}

func TestSinkhorn_ApproachesExactAsRegShrinks(t *testing.T) {
	xs := randomCloud(10, 3, 7)
	xt := randomCloud(10, 3, 8)
	cost := sqEuclidean(xs, xt)

	exact, err := emd(uniform(10), uniform(10), cost)
	require.NoError(t, err)
	loose, err := sinkhorn(uniform(10), uniform(10), cost, 1, 1000, 1e-9)
	require.NoError(t, err)
	tight, err := sinkhorn(uniform(10), uniform(10), cost, 0.05, 5000, 1e-9)
	require.NoError(t, err)

	e := frobenius(exact, cost)
	assert.LessOrEqual(t, e, frobenius(tight, cost)+1e-9)
	assert.Less(t, frobenius(tight, cost)-e, frobenius(loose, cost)-e)
}

func TestSinkhorn_Underflow(t *testing.T) {
	cost := mat.NewDense(2, 2, []float64{0, 1e6, 1e6, 1e6})
	_, err := sinkhorn(uniform(2), uniform(2), cost, 1e-3, 100, 1e-9)
	assert.ErrorIs(t, err, ErrNumerical)
}

func TestSinkhorn_InvalidReg(t *testing.T) {
	_, err := sinkhorn(uniform(2), uniform(2), mat.NewDense(2, 2, nil), 0, 10, 1e-9)
	assert.Error(t, err)
}

func TestFinite(t *testing.T) {
	assert.True(t, finite([]float64{1, 2}))
	assert.False(t, finite([]float64{1, 0}))
	assert.False(t, finite([]float64{math.NaN()}))
	assert.False(t, finite([]float64{math.Inf(1)}))
}
