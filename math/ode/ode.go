/*Package ode integrates ordinary differential equations with an embedded
adaptive Runge-Kutta stepper.

A System bundles the right-hand side with an optional analytic Jacobian
and explicit time-derivative term, mirroring the shape expected by stiff
steppers; the Dormand-Prince pair implemented here controls local error
without it.
*/
package ode

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Func evaluates the right-hand side dy/dt = f(t, y) into dydt. A non-nil
// error aborts the integration.
type Func func(t float64, y, dydt []float64) error

// Jacobian evaluates df/dy into dfdy and the explicit time derivative
// df/dt into dfdt.
type Jacobian func(t float64, y []float64, dfdy *mat.Dense, dfdt []float64) error

// System is an ODE system of dimension Dim.
type System struct {
	Fn Func
	// Jac is optional. The embedded Runge-Kutta stepper does not consult
	// it, but carrying it keeps the system self-describing for stiff
	// steppers and lets callers cross-check their analytic derivatives.
	Jac Jacobian
	Dim int
}

// Config controls an Evolve call. The zero value requests the defaults.
type Config struct {
	// InitialStep is the first step size tried. Defaults to 1e-6.
	InitialStep float64
	// MinStep aborts the integration if the controller shrinks the step
	// below it. Defaults to 1e-14 times the integration span.
	MinStep float64
	// AbsTol and RelTol form the per-component error scale
	// AbsTol + RelTol*|y|. If both are zero, RelTol defaults to 1e-6.
	AbsTol, RelTol float64
	// MaxSteps bounds the number of accepted plus rejected steps.
	// Defaults to 1000000.
	MaxSteps int
}

// Stats reports work done by an Evolve call.
type Stats struct {
	Steps, Rejected, Evals int
	LastStep               float64
}

var (
	// ErrStepUnderflow means the controller could not meet the tolerance
	// with any representable step size.
	ErrStepUnderflow = errors.New("ode: step size underflow")
	// ErrMaxSteps means the step budget ran out before reaching t1.
	ErrMaxSteps = errors.New("ode: maximum step count exceeded")
	// ErrUnstable means the solution left the space of finite values.
	ErrUnstable = errors.New("ode: non-finite state (solution diverged)")
	// ErrDimension means a slice length does not match System.Dim.
	ErrDimension = errors.New("ode: dimension mismatch")
	// ErrBackward means t1 < t0; only forward integration is supported.
	ErrBackward = errors.New("ode: backward integration not supported")
)

// Dormand-Prince 5(4) tableau.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	// Fifth-order solution weights (identical to the last tableau row:
	// first-same-as-last).
	dpB = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	// Difference between the fifth- and embedded fourth-order weights,
	// used for the local error estimate.
	dpE = [7]float64{
		71.0 / 57600, 0, -71.0 / 16695, 71.0 / 1920,
		-17253.0 / 339200, 22.0 / 525, -1.0 / 40,
	}
)

// Stepper integrates systems of a fixed dimension. It owns its stage
// buffers, so one Stepper must not be shared between concurrent solves.
type Stepper struct {
	dim  int
	k    [7][]float64
	ynew []float64
	yerr []float64
	// Error scale for the current Evolve call.
	absTol, relTol float64
}

// NewStepper allocates a Stepper for systems of the given dimension.
func NewStepper(dim int) *Stepper {
	s := &Stepper{dim: dim}
	for i := range s.k {
		s.k[i] = make([]float64, dim)
	}
	s.ynew = make([]float64, dim)
	s.yerr = make([]float64, dim)
	return s
}

// Evolve advances y from t0 to t1 with adaptive step-size control, writing
// the solution at t1 back into y. On error, y holds the state at the last
// accepted step.
func (s *Stepper) Evolve(sys System, t0, t1 float64, y []float64, cfg Config) (Stats, error) {
	var stats Stats
	if sys.Dim != s.dim || len(y) != s.dim {
		return stats, fmt.Errorf("%w: stepper dim %d, system dim %d, len(y) %d",
			ErrDimension, s.dim, sys.Dim, len(y))
	}
	if t1 < t0 {
		return stats, fmt.Errorf("%w: t0 = %g, t1 = %g", ErrBackward, t0, t1)
	}
	if t1 == t0 {
		return stats, nil
	}

	if cfg.InitialStep <= 0 {
		cfg.InitialStep = 1e-6
	}
	if cfg.MinStep <= 0 {
		cfg.MinStep = 1e-14 * (t1 - t0)
	}
	if cfg.AbsTol == 0 && cfg.RelTol == 0 {
		cfg.RelTol = 1e-6
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 1000000
	}

	s.absTol, s.relTol = cfg.AbsTol, cfg.RelTol
	t := t0
	h := math.Min(cfg.InitialStep, t1-t0)

	if err := sys.Fn(t, y, s.k[0]); err != nil {
		return stats, err
	}
	stats.Evals++

	for {
		if stats.Steps+stats.Rejected >= cfg.MaxSteps {
			return stats, fmt.Errorf("%w: %d steps before t = %g", ErrMaxSteps, cfg.MaxSteps, t)
		}
		lastStep := t+h >= t1
		if lastStep {
			h = t1 - t
		}

		errNorm, err := s.step(sys, t, h, y)
		if err != nil {
			return stats, err
		}
		stats.Evals += 6

		if errNorm <= 1 {
			t += h
			copy(y, s.ynew)
			// First-same-as-last: stage 7 is the derivative at the new
			// point.
			copy(s.k[0], s.k[6])
			stats.Steps++
			stats.LastStep = h
			if lastStep {
				return stats, nil
			}
		} else {
			stats.Rejected++
		}

		factor := 5.0
		if errNorm > 0 {
			factor = 0.9 * math.Pow(errNorm, -0.2)
			factor = math.Min(5.0, math.Max(0.2, factor))
		}
		h *= factor
		if h < cfg.MinStep || t+h == t {
			return stats, fmt.Errorf("%w: h = %g at t = %g", ErrStepUnderflow, h, t)
		}
	}
}

// step takes one trial Dormand-Prince step of size h from (t, y), leaving
// the candidate state in s.ynew and returning the scaled error norm.
// s.k[0] must hold the derivative at (t, y).
func (s *Stepper) step(sys System, t, h float64, y []float64) (float64, error) {
	for stage := 1; stage < 7; stage++ {
		a := &dpA[stage]
		for i := 0; i < s.dim; i++ {
			sum := 0.0
			for j := 0; j < stage; j++ {
				sum += a[j] * s.k[j][i]
			}
			s.ynew[i] = y[i] + h*sum
		}
		if err := sys.Fn(t+dpC[stage]*h, s.ynew, s.k[stage]); err != nil {
			return 0, err
		}
	}

	for i := 0; i < s.dim; i++ {
		sumB, sumE := 0.0, 0.0
		for j := 0; j < 7; j++ {
			sumB += dpB[j] * s.k[j][i]
			sumE += dpE[j] * s.k[j][i]
		}
		s.ynew[i] = y[i] + h*sumB
		s.yerr[i] = h * sumE
	}

	errNorm := 0.0
	for i := 0; i < s.dim; i++ {
		if math.IsNaN(s.ynew[i]) || math.IsInf(s.ynew[i], 0) {
			return 0, fmt.Errorf("%w: y[%d] at t = %g", ErrUnstable, i, t)
		}
		scale := s.absTol + s.relTol*math.Max(math.Abs(y[i]), math.Abs(s.ynew[i]))
		if scale == 0 {
			if s.yerr[i] != 0 {
				return math.Inf(1), nil
			}
			continue
		}
		r := s.yerr[i] / scale
		errNorm += r * r
	}
	return math.Sqrt(errNorm / float64(s.dim)), nil
}
