package ot

import (
	"gonum.org/v1/gonum/mat"
)

// Mapping is a fitted transport map from source to target colour space.
type Mapping interface {
	Transform(x *mat.Dense) (*mat.Dense, error)
}

var (
	_ Mapping = (*LinearMapping)(nil)
	_ Mapping = (*CouplingMapping)(nil)
	_ Mapping = (*KernelMapping)(nil)
)

// Solver bundles one configured estimator per adaptation method.
type Solver struct {
	Linear   LinearTransport
	Gaussian MappingTransport
	Sinkhorn SinkhornTransport
	EMD      EMDTransport
}

// DefaultSolver returns the estimators with their standard settings.
func DefaultSolver() *Solver {
	return &Solver{
		Linear: LinearTransport{Reg: 1e-8, Bias: true},
		Gaussian: MappingTransport{
			Mu:           1,
			Eta:          0.01,
			Sigma:        1,
			MaxIter:      10,
			Tol:          1e-5,
			MaxInnerIter: 10,
			InnerTol:     1e-6,
		},
		Sinkhorn: SinkhornTransport{Reg: 0.1, MaxIter: 1000, Tol: 1e-8},
	}
}

// FitLinear fits s.Linear. On error the Mapping is a nil interface, not a typed nil.
func (s *Solver) FitLinear(xs, xt *mat.Dense) (Mapping, error) {
	m, err := s.Linear.Fit(xs, xt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// FitGaussian fits s.Gaussian.
func (s *Solver) FitGaussian(xs, xt *mat.Dense) (Mapping, error) {
	m, err := s.Gaussian.Fit(xs, xt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// FitSinkhorn fits s.Sinkhorn.
func (s *Solver) FitSinkhorn(xs, xt *mat.Dense) (Mapping, error) {
	m, err := s.Sinkhorn.Fit(xs, xt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// FitEMD fits s.EMD.
func (s *Solver) FitEMD(xs, xt *mat.Dense) (Mapping, error) {
	m, err := s.EMD.Fit(xs, xt)
	if err != nil {
		return nil, err
	}
	return m, nil
}
