package adapt

import (
	"errors"
	"fmt"
)

// ErrInvalidMethod is returned for method names that are not recognised.
var ErrInvalidMethod = errors.New("adapt: optimal transport method not recognised")

// Method selects how the source colour distribution is mapped onto the
// target's.
type Method int

const (
	// Linear fits an affine map between the Gaussian approximations of the
	// full colour clouds.
	Linear Method = iota
	// LinearFourier applies the linear map per channel to Fourier amplitudes
	// and keeps the source phase.
	LinearFourier
	// Gaussian jointly fits a transport plan and a Gaussian kernel mapping
	// on subsampled clouds.
	Gaussian
	// Sinkhorn fits an entropic-regularised plan on subsampled clouds.
	Sinkhorn
	// EMD fits the exact transport plan on subsampled clouds.
	EMD
)

var methodNames = [...]string{
	Linear:        "linear",
	LinearFourier: "linear_fourier",
	Gaussian:      "gaussian",
	Sinkhorn:      "sinkhorn",
	EMD:           "emd",
}

// Methods lists every supported method in declaration order.
func Methods() []Method {
	return []Method{Linear, LinearFourier, Gaussian, Sinkhorn, EMD}
}

// ParseMethod maps a method name onto its Method.
func ParseMethod(name string) (Method, error) {
	for m, n := range methodNames {
		if n == name {
			return Method(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMethod, name)
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// Subsampled reports whether the method fits on a random subset of pixels.
func (m Method) Subsampled() bool {
	return m == Gaussian || m == Sinkhorn || m == EMD
}
