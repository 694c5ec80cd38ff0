package ot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDefaultSolver(t *testing.T) {
	s := DefaultSolver()
	assert.Equal(t, LinearTransport{Reg: 1e-8, Bias: true}, s.Linear)
	assert.Equal(t, SinkhornTransport{Reg: 0.1, MaxIter: 1000, Tol: 1e-8}, s.Sinkhorn)
	assert.Equal(t, 1.0, s.Gaussian.Mu)
	assert.Equal(t, 0.01, s.Gaussian.Eta)
	assert.Equal(t, 1.0, s.Gaussian.Sigma)
	assert.False(t, s.Gaussian.Bias)
	assert.Equal(t, 10, s.Gaussian.MaxIter)
}

func TestSolver_AllMethodsPreserveShape(t *testing.T) {
	s := DefaultSolver()
	xs := randomCloud(8, 3, 19)
	xt := randomCloud(8, 3, 20)
	full := randomCloud(40, 3, 21)

	fits := map[string]func(xs, xt *mat.Dense) (Mapping, error){
		"linear":   s.FitLinear,
		"gaussian": s.FitGaussian,
		"sinkhorn": s.FitSinkhorn,
		"emd":      s.FitEMD,
	}
	for name, fit := range fits {
		t.Run(name, func(t *testing.T) {
			m, err := fit(xs, xt)
			require.NoError(t, err)
			got, err := m.Transform(full)
			require.NoError(t, err)
			r, c := got.Dims()
			assert.Equal(t, 40, r)
			assert.Equal(t, 3, c)
		})
	}
}

func TestSolver_ErrorReturnsNilInterface(t *testing.T) {
	s := DefaultSolver()
	m, err := s.FitEMD(mat.NewDense(2, 3, nil), mat.NewDense(2, 1, nil))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Nil(t, m)
	assert.True(t, m == nil)
}
