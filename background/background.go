/*Package background computes the homogeneous expansion history and linear
growth history of an FLRW universe and exposes them as continuous
interpolants of redshift.

A solve tabulates the dark-energy equation of state and two auxiliary
integrals of it on a dense internal grid, integrates the linear growth
equation per output bin, evaluates the comoving-distance integral and the
relativistic correction terms, and wraps every quantity in a spline,
including the inverse mapping from comoving distance back to redshift.

The returned Background is immutable and safe for concurrent readers.
There is nothing to release: all state is garbage collected.
*/
package background

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/lcdm-tools/flrw/math/interpolate"
)

// Background is the solved expansion and growth history. Each field is an
// interpolant over z in [0, OutputZMax], except ZOfChi, which maps
// comoving distance back to redshift over [0, chi(OutputZMax)]. All
// quantities use units of H0 (distances in units of 1/H0).
type Background struct {
	// A is the scale factor a(z).
	A *interpolate.Interp
	// H is the Hubble rate H(z)/H0.
	H *interpolate.Interp
	// ConformalH is the conformal Hubble rate a*H and ConformalHPrime its
	// conformal-time derivative.
	ConformalH, ConformalHPrime *interpolate.Interp
	// D1 is the linear growth factor, F the growth rate
	// f = dln(D1)/dln(a), and G the growth function (1+z)*D1.
	D1, F, G *interpolate.Interp
	// G1 and G2 are the relativistic correction terms of the two source
	// populations. Both are exactly zero at the origin.
	G1, G2 *interpolate.Interp
	// ComovingDistance is chi(z); ZOfChi its inverse.
	ComovingDistance *interpolate.Interp
	// ZOfChi maps comoving distance to redshift.
	ZOfChi *interpolate.Interp

	warnings error
}

// Warnings returns the joined quadrature-tolerance warnings collected
// during the solve, or nil if every integral met its tolerance. A non-nil
// value means some quantities carry degraded precision; the values
// themselves are still the best estimates reached.
func (bg *Background) Warnings() error { return bg.warnings }

// Solve computes the full background model for the given parameters.
// It either returns a complete model or an error; there is no
// partial-success state. A successful solve never returns non-finite
// quantities.
func Solve(p *Parameters) (*Background, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	logger := slog.Default().With("component", "background")
	logger.Debug("initializing background", "bins", p.Bins, "method", p.Method.String())
	start := time.Now()

	ip, warnings, err := buildIntegrationParams(p)
	if err != nil {
		return nil, err
	}

	t := newScratchTable(p.Bins)
	if err := sampleAll(p, ip, t); err != nil {
		return nil, err
	}
	if err := t.checkFinite(); err != nil {
		return nil, err
	}
	for i := 0; i < p.Bins-1; i++ {
		if t.chi[i+1] <= t.chi[i] {
			return nil, fmt.Errorf("%w: chi(%g) = %g, chi(%g) = %g",
				ErrNonMonotone, t.z[i], t.chi[i], t.z[i+1], t.chi[i+1])
		}
	}

	bg := &Background{}
	for _, s := range []struct {
		dst **interpolate.Interp
		xs  []float64
		ys  []float64
	}{
		{&bg.A, t.z, t.a},
		{&bg.H, t.z, t.hz},
		{&bg.ConformalH, t.z, t.confH},
		{&bg.ConformalHPrime, t.z, t.confHPrime},
		{&bg.D1, t.z, t.d1},
		{&bg.F, t.z, t.f},
		{&bg.G, t.z, t.g},
		{&bg.G1, t.z, t.g1},
		{&bg.G2, t.z, t.g2},
		{&bg.ComovingDistance, t.z, t.chi},
		// The inverse spline swaps the roles of chi and z; valid because
		// chi is strictly increasing over the bins.
		{&bg.ZOfChi, t.chi, t.z},
	} {
		in, err := interpolate.New(p.Method, s.xs, s.ys)
		if err != nil {
			return nil, err
		}
		*s.dst = in
	}

	for _, w := range t.warnings {
		if w != nil {
			warnings = append(warnings, w)
		}
	}
	bg.warnings = errors.Join(warnings...)

	logger.Debug("background initialized",
		"bins", p.Bins, "elapsed", time.Since(start))
	return bg, nil
}

// checkFinite scans every sampled column for NaN or Inf before splines
// are built from them.
func (t *scratchTable) checkFinite() error {
	cols := []struct {
		name string
		vals []float64
	}{
		{"a", t.a}, {"H", t.hz}, {"conformal H", t.confH},
		{"conformal H'", t.confHPrime}, {"D1", t.d1}, {"f", t.f},
		{"g", t.g}, {"G1", t.g1}, {"G2", t.g2}, {"chi", t.chi},
	}
	for _, c := range cols {
		for i, v := range c.vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s at z = %g is %g",
					ErrNonFinite, c.name, t.z[i], v)
			}
		}
	}
	return nil
}
