/*Package interpolate provides 1D interpolation over tables of strictly
increasing sample points.

An Interp owns a copy of its sample arrays and evaluates with a stateless
search (a uniform-spacing guess followed by binary search), so a built
Interp may be shared freely between goroutines.
*/
package interpolate

import (
	"errors"
	"fmt"
)

// Method selects how an Interp reconstructs values between samples.
type Method int

const (
	// Linear connects neighboring samples with straight segments.
	Linear Method = iota
	// Cubic fits a natural cubic spline through the samples.
	Cubic
)

func (m Method) String() string {
	switch m {
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// minPoints is the smallest table each method can be built from.
func (m Method) minPoints() int {
	if m == Cubic {
		return 3
	}
	return 2
}

var (
	// ErrLengthMismatch is returned when len(xs) != len(ys).
	ErrLengthMismatch = errors.New("interpolate: sample slices have unequal lengths")
	// ErrTooFewPoints is returned when the table is shorter than the
	// chosen method requires.
	ErrTooFewPoints = errors.New("interpolate: too few sample points")
	// ErrNotIncreasing is returned when xs is not strictly increasing.
	ErrNotIncreasing = errors.New("interpolate: sample points not strictly increasing")
	// ErrUnknownMethod is returned for a Method this package does not
	// implement.
	ErrUnknownMethod = errors.New("interpolate: unknown method")
)

// OutOfDomainError reports a query outside the sampled domain. The Interp
// never extrapolates.
type OutOfDomainError struct {
	X, Lo, Hi float64
}

func (e *OutOfDomainError) Error() string {
	return fmt.Sprintf("interpolate: %g outside domain [%g, %g]", e.X, e.Lo, e.Hi)
}

type coeff struct {
	a, b, c, d float64
}

// Interp is a continuous, differentiable function reconstructed from a
// table of (x, y) samples.
type Interp struct {
	method Method
	xs, ys []float64
	// Cubic segment coefficients, nil for Linear.
	coeffs []coeff
	// Mean point spacing, used to seed the segment search.
	dx float64
}

// New builds an Interp from samples. xs must be strictly increasing and at
// least as long as the method requires. The samples are copied; the caller
// may reuse its slices.
func New(method Method, xs, ys []float64) (*Interp, error) {
	if method != Linear && method != Cubic {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, method)
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: len(xs) = %d, len(ys) = %d",
			ErrLengthMismatch, len(xs), len(ys))
	}
	if len(xs) < method.minPoints() {
		return nil, fmt.Errorf("%w: %v needs %d points, got %d",
			ErrTooFewPoints, method, method.minPoints(), len(xs))
	}
	for i := 0; i < len(xs)-1; i++ {
		if xs[i+1] <= xs[i] {
			return nil, fmt.Errorf("%w: xs[%d] = %g, xs[%d] = %g",
				ErrNotIncreasing, i, xs[i], i+1, xs[i+1])
		}
	}

	in := &Interp{
		method: method,
		xs:     append([]float64(nil), xs...),
		ys:     append([]float64(nil), ys...),
	}
	in.dx = (in.xs[len(xs)-1] - in.xs[0]) / float64(len(xs)-1)
	if method == Cubic {
		in.calcCoeffs()
	}
	return in, nil
}

// Domain returns the closed interval over which the Interp is defined.
func (in *Interp) Domain() (lo, hi float64) {
	return in.xs[0], in.xs[len(in.xs)-1]
}

// Len returns the number of sample points.
func (in *Interp) Len() int { return len(in.xs) }

// Method returns the interpolation method the Interp was built with.
func (in *Interp) Method() Method { return in.method }

// Eval returns the interpolated value at x. It returns *OutOfDomainError
// if x lies outside the sampled domain.
func (in *Interp) Eval(x float64) (float64, error) {
	i, err := in.search(x)
	if err != nil {
		return 0, err
	}
	dx := x - in.xs[i]
	if in.method == Linear {
		x1, x2 := in.xs[i], in.xs[i+1]
		y1, y2 := in.ys[i], in.ys[i+1]
		return (y2-y1)/(x2-x1)*dx + y1, nil
	}
	c := &in.coeffs[i]
	return c.a*dx*dx*dx + c.b*dx*dx + c.c*dx + c.d, nil
}

// Deriv returns the first derivative dy/dx at x. It returns
// *OutOfDomainError if x lies outside the sampled domain.
func (in *Interp) Deriv(x float64) (float64, error) {
	i, err := in.search(x)
	if err != nil {
		return 0, err
	}
	if in.method == Linear {
		return (in.ys[i+1] - in.ys[i]) / (in.xs[i+1] - in.xs[i]), nil
	}
	c := &in.coeffs[i]
	dx := x - in.xs[i]
	return 3*c.a*dx*dx + 2*c.b*dx + c.c, nil
}

// EvalAll evaluates the Interp at every x in xs. If an output slice is
// given, the results are written to it and it is returned as a
// convenience.
func (in *Interp) EvalAll(xs []float64, out ...[]float64) ([]float64, error) {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}
	for i, x := range xs {
		y, err := in.Eval(x)
		if err != nil {
			return nil, err
		}
		out[0][i] = y
	}
	return out[0], nil
}

// search returns the index of the segment containing x, seeding a binary
// search with a guess that assumes uniform spacing.
func (in *Interp) search(x float64) (int, error) {
	xs := in.xs
	n := len(xs)
	if x < xs[0] || x > xs[n-1] {
		return 0, &OutOfDomainError{X: x, Lo: xs[0], Hi: xs[n-1]}
	}
	if x == xs[n-1] {
		return n - 2, nil
	}

	guess := int((x - xs[0]) / in.dx)
	if guess >= 0 && guess < n-1 && xs[guess] <= x && x < xs[guess+1] {
		return guess, nil
	}

	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x >= xs[mid] {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// calcCoeffs computes natural cubic spline coefficients: second
// derivatives from a tridiagonal solve, then per-segment polynomials.
func (in *Interp) calcCoeffs() {
	n := len(in.xs)
	xs, ys := in.xs, in.ys

	y2s := make([]float64, n)
	as, bs := make([]float64, n-2), make([]float64, n-2)
	cs, rs := make([]float64, n-2), make([]float64, n-2)
	// Natural boundary conditions: y2s[0] and y2s[n-1] stay zero.
	for i := range rs {
		j := i + 1
		as[i] = (xs[j] - xs[j-1]) / 6
		bs[i] = (xs[j+1] - xs[j-1]) / 3
		cs[i] = (xs[j+1] - xs[j]) / 6
		rs[i] = (ys[j+1]-ys[j])/(xs[j+1]-xs[j]) -
			(ys[j]-ys[j-1])/(xs[j]-xs[j-1])
	}
	triDiag(as, bs, cs, rs, y2s[1:n-1])

	in.coeffs = make([]coeff, n-1)
	for i := range in.coeffs {
		dx := xs[i+1] - xs[i]
		in.coeffs[i].a = (y2s[i+1] - y2s[i]) / (6 * dx)
		in.coeffs[i].b = y2s[i] / 2
		in.coeffs[i].c = (ys[i+1]-ys[i])/dx + dx*(-y2s[i]/3-y2s[i+1]/6)
		in.coeffs[i].d = ys[i]
	}
}

// triDiag solves the tridiagonal system with diagonals (as, bs, cs) and
// right-hand side rs, writing the solution into out. The system is assumed
// diagonally dominant, which holds for spline construction over strictly
// increasing xs.
func triDiag(as, bs, cs, rs, out []float64) {
	if len(out) == 0 {
		return
	}
	tmp := make([]float64, len(as))

	beta := bs[0]
	out[0] = rs[0] / beta
	for i := 1; i < len(out); i++ {
		tmp[i] = cs[i-1] / beta
		beta = bs[i] - as[i]*tmp[i]
		out[i] = (rs[i] - as[i]*out[i-1]) / beta
	}
	for i := len(out) - 2; i >= 0; i-- {
		out[i] -= tmp[i+1] * out[i+1]
	}
}
