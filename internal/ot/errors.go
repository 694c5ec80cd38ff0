package ot

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmptyCloud is returned when either cloud has no rows.
	ErrEmptyCloud = errors.New("ot: empty point cloud")
	// ErrDimensionMismatch is returned when clouds live in different spaces.
	ErrDimensionMismatch = errors.New("ot: dimension mismatch")
	// ErrNumerical is returned when an iterative solver produces zeros, NaN or Inf.
	ErrNumerical = errors.New("ot: numerical breakdown")
	// ErrFactorisation is returned when a covariance cannot be decomposed.
	ErrFactorisation = errors.New("ot: matrix factorisation failed")
)

// checkClouds validates a source/target pair before fitting.
func checkClouds(xs, xt *mat.Dense) error {
	if xs == nil || xt == nil {
		return ErrEmptyCloud
	}
	ns, ds := xs.Dims()
	nt, dt := xt.Dims()
	if ns == 0 || nt == 0 {
		return fmt.Errorf("%w: %d source and %d target samples", ErrEmptyCloud, ns, nt)
	}
	if ds != dt {
		return fmt.Errorf("%w: source has %d columns, target has %d", ErrDimensionMismatch, ds, dt)
	}
	return nil
}

// checkQuery validates points handed to Transform.
func checkQuery(x *mat.Dense, dims int) error {
	if x == nil {
		return ErrEmptyCloud
	}
	if _, d := x.Dims(); d != dims {
		return fmt.Errorf("%w: query has %d columns, mapping was fitted on %d", ErrDimensionMismatch, d, dims)
	}
	return nil
}
