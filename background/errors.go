package background

import "errors"

var (
	// ErrTooFewBins is returned when Parameters.Bins is below 2.
	ErrTooFewBins = errors.New("background: at least 2 output bins required")
	// ErrBadDensity is returned for negative or non-finite density
	// fractions.
	ErrBadDensity = errors.New("background: invalid density fraction")
	// ErrNonFinite is returned when the sampling pass produced NaN or Inf
	// values. A successful solve never returns non-finite quantities.
	ErrNonFinite = errors.New("background: solve produced non-finite values")
	// ErrNonMonotone is returned when the comoving distance is not
	// strictly increasing over the sampled bins, which makes the z(chi)
	// inverse ill-defined.
	ErrNonMonotone = errors.New("background: comoving distance not strictly increasing")
)
