/*Package calc provides basic calculus routines over sampled data.
*/
package calc

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned when the input slices have different
	// lengths.
	ErrLengthMismatch = errors.New("calc: input slices have unequal lengths")
	// ErrTooFewPoints is returned when the table is too short for the
	// requested stencil.
	ErrTooFewPoints = errors.New("calc: too few points for stencil")
	// ErrBadOrder is returned for unsupported derivative orders.
	ErrBadOrder = errors.New("calc: unsupported order")
)

// Deriv computes the numerical derivative dy/dx of a sequence of (x, y)
// samples. Points do not need to be uniformly spaced for order 2; the
// order-4 stencil assumes near-uniform spacing.
//
// The only supported orders are 2 and 4.
func Deriv(xs, ys []float64, order int) ([]float64, error) {
	n := len(xs)
	if len(ys) != n {
		return nil, fmt.Errorf("%w: len(xs) = %d, len(ys) = %d",
			ErrLengthMismatch, n, len(ys))
	}

	out := make([]float64, n)
	switch order {
	case 2:
		if n < 3 {
			return nil, fmt.Errorf("%w: order 2 needs 3 points, got %d",
				ErrTooFewPoints, n)
		}
		for i := 1; i < n-1; i++ {
			out[i] = (ys[i+1] - ys[i-1]) / (xs[i+1] - xs[i-1])
		}
		out[0] = (-3*ys[0] + 4*ys[1] - ys[2]) / (xs[2] - xs[0])
		out[n-1] = (3*ys[n-1] - 4*ys[n-2] + ys[n-3]) / (xs[n-1] - xs[n-3])
	case 4:
		if n < 5 {
			return nil, fmt.Errorf("%w: order 4 needs 5 points, got %d",
				ErrTooFewPoints, n)
		}
		for i := 2; i < n-2; i++ {
			h3 := xs[i+2] - xs[i-2]
			out[i] = (-ys[i+2] + 8*ys[i+1] - 8*ys[i-1] + ys[i-2]) / (3 * h3)
		}
		h := (xs[4] - xs[0]) / 4
		out[0] = (-25*ys[0] + 48*ys[1] - 36*ys[2] + 16*ys[3] - 3*ys[4]) / (12 * h)
		out[1] = (-3*ys[0] - 10*ys[1] + 18*ys[2] - 6*ys[3] + ys[4]) / (12 * h)
		h = (xs[n-1] - xs[n-5]) / 4
		out[n-2] = (3*ys[n-1] + 10*ys[n-2] - 18*ys[n-3] + 6*ys[n-4] - ys[n-5]) / (12 * h)
		out[n-1] = (25*ys[n-1] - 48*ys[n-2] + 36*ys[n-3] - 16*ys[n-4] + 3*ys[n-5]) / (12 * h)
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadOrder, order)
	}
	return out, nil
}
