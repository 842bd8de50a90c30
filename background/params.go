package background

import (
	"fmt"
	"math"
	"runtime"

	"github.com/lcdm-tools/flrw/math/interpolate"
)

// Precision and domain constants of the solve. These reproduce the
// reference tabulation; changing them trades accuracy for speed but does
// not change the public contract.
const (
	// DenseZMax is the upper redshift of the internal tabulation grid for
	// the equation of state and its auxiliary integrals.
	DenseZMax = 100.0
	// DenseGridSize is the number of points on the internal grid.
	DenseGridSize = 1<<14 + 1
	// OutputZMax is the upper redshift of the output splines.
	OutputZMax = 15.0
	// QuadRelTol is the relative tolerance of every adaptive quadrature in
	// the solve (the absolute tolerance is zero).
	QuadRelTol = 1e-5
	// QuadMaxIntervals bounds each quadrature's subdivision workspace.
	QuadMaxIntervals = 10000

	// Growth ODE initial condition: deep in matter domination the growth
	// factor tracks the scale factor, so D1 = a with unit slope.
	growthAInit       = 0.05
	growthD1Init      = 0.05
	growthD1PrimeInit = 1.0
	growthInitialStep = 1e-6
	growthRelTol      = 1e-6

	// originEps is the redshift below which the relativistic terms G1 and
	// G2 are defined as exactly zero, sidestepping the 1/chi singularity
	// at the origin.
	originEps = 1e-10
)

// EOSModel is a dark-energy equation of state w(z). Implementations must
// be valid over z in [0, DenseZMax].
type EOSModel interface {
	W(z float64) (float64, error)
}

// ConstantW is a redshift-independent equation of state. ConstantW(-1) is
// a cosmological constant.
type ConstantW float64

func (w ConstantW) W(z float64) (float64, error) { return float64(w), nil }

// CPL is the Chevallier-Polarski-Linder parametrization
// w(z) = w0 + wa*z/(1+z).
type CPL struct {
	W0, Wa float64
}

func (p CPL) W(z float64) (float64, error) { return p.W0 + p.Wa*z/(1+z), nil }

// TabulatedEOS adapts an interpolant into an EOSModel.
type TabulatedEOS struct {
	Interp *interpolate.Interp
}

func (t TabulatedEOS) W(z float64) (float64, error) { return t.Interp.Eval(z) }

// BiasFunc is a redshift-dependent bias function supplied by the caller.
// *interpolate.Interp satisfies it.
type BiasFunc interface {
	Eval(z float64) (float64, error)
}

// ConstantBias is a redshift-independent bias.
type ConstantBias float64

func (b ConstantBias) Eval(z float64) (float64, error) { return float64(b), nil }

// SourceBias bundles the bias functions of one correlated source
// population. MatterBias rides along for the downstream correlation
// formulas; the background solve itself reads only MagnificationBias and
// EvolutionBias. Nil fields default to zero bias.
type SourceBias struct {
	MatterBias        BiasFunc
	MagnificationBias BiasFunc
	EvolutionBias     BiasFunc
}

func (s SourceBias) magnification() BiasFunc {
	if s.MagnificationBias == nil {
		return ConstantBias(0)
	}
	return s.MagnificationBias
}

func (s SourceBias) evolution() BiasFunc {
	if s.EvolutionBias == nil {
		return ConstantBias(0)
	}
	return s.EvolutionBias
}

// Parameters are the immutable inputs of a background solve. The solve
// only reads them; the caller retains ownership.
type Parameters struct {
	// Present-day density fractions in units of the critical density.
	OmegaCDM, OmegaBaryon, OmegaGamma, OmegaDE float64

	// EOS is the dark-energy equation of state. Nil defaults to w = -1.
	EOS EOSModel

	// Source1 and Source2 are the two correlated source populations.
	Source1, Source2 SourceBias

	// Bins is the number of output redshift bins on [0, OutputZMax].
	// Must be at least 2.
	Bins int

	// Method selects the interpolation method of the output splines.
	Method interpolate.Method

	// Workers bounds the number of concurrent per-bin computations.
	// Zero or negative means GOMAXPROCS.
	Workers int
}

// OmegaM is the total matter fraction, cold dark matter plus baryons.
func (p *Parameters) OmegaM() float64 { return p.OmegaCDM + p.OmegaBaryon }

// Validate checks the parameter set for a solvable configuration.
func (p *Parameters) Validate() error {
	if p.Bins < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewBins, p.Bins)
	}
	for _, om := range []float64{p.OmegaCDM, p.OmegaBaryon, p.OmegaGamma, p.OmegaDE} {
		if om < 0 || math.IsNaN(om) || math.IsInf(om, 0) {
			return fmt.Errorf("%w: got %g", ErrBadDensity, om)
		}
	}
	if p.OmegaM()+p.OmegaGamma+p.OmegaDE == 0 {
		return fmt.Errorf("%w: all density fractions are zero", ErrBadDensity)
	}
	return nil
}

func (p *Parameters) eos() EOSModel {
	if p.EOS == nil {
		return ConstantW(-1)
	}
	return p.EOS
}

func (p *Parameters) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}
