// Package adapt recolours a source image so that its colour distribution
// matches a target image, using optimal transport in RGB space.
package adapt

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/colour.transfer/internal/monitoring"
	"github.com/banshee-data/colour.transfer/internal/ot"
	"github.com/banshee-data/colour.transfer/internal/pointcloud"
	"github.com/banshee-data/colour.transfer/internal/spectral"
)

// DefaultSamples is the number of pixels drawn from each image by the
// subsampled methods.
const DefaultSamples = 1000

// ErrInvalidSamples is returned when a subsampled method is asked for fewer
// than one sample.
var ErrInvalidSamples = errors.New("adapt: nsamples must be positive")

// Solver fits transport mappings between two colour clouds.
type Solver interface {
	FitLinear(xs, xt *mat.Dense) (ot.Mapping, error)
	FitGaussian(xs, xt *mat.Dense) (ot.Mapping, error)
	FitSinkhorn(xs, xt *mat.Dense) (ot.Mapping, error)
	FitEMD(xs, xt *mat.Dense) (ot.Mapping, error)
}

var _ Solver = (*ot.Solver)(nil)

// Adapter runs colour adaptations. An Adapter is not safe for concurrent use
// because it owns its random source.
type Adapter struct {
	solver   Solver
	nsamples int
	rng      *rand.Rand
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithSolver replaces the default solver.
func WithSolver(s Solver) Option {
	return func(a *Adapter) { a.solver = s }
}

// WithSamples sets the number of pixels drawn per image by subsampled methods.
func WithSamples(n int) Option {
	return func(a *Adapter) { a.nsamples = n }
}

// WithRand sets the random source used for subsampling.
func WithRand(rng *rand.Rand) Option {
	return func(a *Adapter) { a.rng = rng }
}

// New returns an Adapter using the default solver, DefaultSamples and a
// randomly seeded source unless overridden.
func New(opts ...Option) *Adapter {
	a := &Adapter{nsamples: DefaultSamples}
	for _, o := range opts {
		o(a)
	}
	if a.solver == nil {
		a.solver = ot.DefaultSolver()
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return a
}

// Adapt runs a one-off adaptation with a fresh default Adapter.
func Adapt(src, tgt *pointcloud.Image, method string, nsamples int) (*pointcloud.Image, error) {
	return New(WithSamples(nsamples)).AdaptNamed(src, tgt, method)
}

// AdaptNamed parses method and runs Adapt. Unknown names fail before any
// numerical work.
func (a *Adapter) AdaptNamed(src, tgt *pointcloud.Image, method string) (*pointcloud.Image, error) {
	m, err := ParseMethod(method)
	if err != nil {
		return nil, err
	}
	return a.Adapt(src, tgt, m)
}

// Adapt returns a copy of src recoloured towards the colour distribution of
// tgt. The result always has the shape of src.
func (a *Adapter) Adapt(src, tgt *pointcloud.Image, m Method) (*pointcloud.Image, error) {
	switch m {
	case Linear, LinearFourier, Gaussian, Sinkhorn, EMD:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, m.String())
	}
	if m.Subsampled() && a.nsamples < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSamples, a.nsamples)
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("source image: %w", err)
	}
	if err := tgt.Validate(); err != nil {
		return nil, fmt.Errorf("target image: %w", err)
	}

	switch m {
	case Linear:
		return a.adaptCloud(src, tgt, m, a.solver.FitLinear)
	case LinearFourier:
		return a.adaptSpectrum(src, tgt)
	case Gaussian:
		return a.adaptCloud(src, tgt, m, a.solver.FitGaussian)
	case Sinkhorn:
		return a.adaptCloud(src, tgt, m, a.solver.FitSinkhorn)
	default:
		return a.adaptCloud(src, tgt, m, a.solver.FitEMD)
	}
}

type fitFunc func(xs, xt *mat.Dense) (ot.Mapping, error)

// adaptCloud fits in normalised RGB space and maps every source pixel.
func (a *Adapter) adaptCloud(src, tgt *pointcloud.Image, m Method, fit fitFunc) (*pointcloud.Image, error) {
	xs := pointcloud.Flatten(src)
	xt := pointcloud.Flatten(tgt)
	fs, ft := xs, xt
	if m.Subsampled() {
		fs = pointcloud.Subsample(xs, pointcloud.SampleIndices(a.nsamples, src.Pixels(), a.rng))
		ft = pointcloud.Subsample(xt, pointcloud.SampleIndices(a.nsamples, tgt.Pixels(), a.rng))
	}

	mapped, err := a.fitTransform(m, fit, fs, ft, xs)
	if err != nil {
		return nil, err
	}
	return pointcloud.Quantise(mapped, src.Height, src.Width, src.Channels)
}

// adaptSpectrum matches Fourier amplitude distributions channel by channel
// and rebuilds each channel with the source phase.
func (a *Adapter) adaptSpectrum(src, tgt *pointcloud.Image) (*pointcloud.Image, error) {
	if src.Channels != tgt.Channels {
		return nil, fmt.Errorf("%w: source has %d channels, target has %d",
			ot.ErrDimensionMismatch, src.Channels, tgt.Channels)
	}
	out := pointcloud.NewImage(src.Height, src.Width, src.Channels)
	for k := 0; k < src.Channels; k++ {
		ampS, phaseS, err := spectral.AmpPhase(pointcloud.Channel(src, k), src.Height, src.Width)
		if err != nil {
			return nil, err
		}
		ampT, _, err := spectral.AmpPhase(pointcloud.Channel(tgt, k), tgt.Height, tgt.Width)
		if err != nil {
			return nil, err
		}

		xs := mat.NewDense(len(ampS), 1, ampS)
		xt := mat.NewDense(len(ampT), 1, ampT)
		mapped, err := a.fitTransform(LinearFourier, a.solver.FitLinear, xs, xt, xs)
		if err != nil {
			return nil, err
		}

		field, err := spectral.Reconstruct(mat.Col(nil, 0, mapped), phaseS, src.Height, src.Width)
		if err != nil {
			return nil, err
		}
		pix := make([]uint8, len(field))
		for i, v := range field {
			pix[i] = pointcloud.Saturate(v)
		}
		if err := pointcloud.SetChannel(out, k, pix); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// fitTransform fits on (xs, xt) and applies the mapping to x. Solver errors
// are returned as they are.
func (a *Adapter) fitTransform(m Method, fit fitFunc, xs, xt, x *mat.Dense) (*mat.Dense, error) {
	start := time.Now()
	mapping, err := fit(xs, xt)
	if err != nil {
		return nil, err
	}
	ns, _ := xs.Dims()
	nt, _ := xt.Dims()
	monitoring.Elapsed(start, "adapt: fitted %s on %d source and %d target samples", m, ns, nt)
	return mapping.Transform(x)
}
