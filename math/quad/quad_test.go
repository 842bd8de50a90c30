package quad

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate"
)

func noErr(f func(float64) float64) Func {
	return func(x float64) (float64, error) { return f(x), nil }
}

func TestPolynomialExact(t *testing.T) {
	// QK15 integrates low-order polynomials exactly in one pass.
	res, err := Adaptive(noErr(func(x float64) float64 { return x * x }), 0, 1, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, res.Value, 1e-14)
	assert.Equal(t, 15, res.Evals)
	assert.Equal(t, 1, res.Intervals)
}

func TestSine(t *testing.T) {
	res, err := Adaptive(noErr(math.Sin), 0, math.Pi, Options{RelTol: 1e-10})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.Value, 1e-10)
}

func TestZeroWidthInterval(t *testing.T) {
	res, err := Adaptive(noErr(math.Exp), 3, 3, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Value)
}

func TestReversedLimits(t *testing.T) {
	fwd, err := Adaptive(noErr(math.Exp), 0, 1, Options{RelTol: 1e-10})
	require.NoError(t, err)
	rev, err := Adaptive(noErr(math.Exp), 1, 0, Options{RelTol: 1e-10})
	require.NoError(t, err)
	assert.InDelta(t, -fwd.Value, rev.Value, 1e-12)
}

func TestAdaptiveRefinesPeak(t *testing.T) {
	// A narrow peak forces subdivision; exact value of
	// int_{-1}^{1} 1/(x^2 + 1e-4) dx = 2*atan(100)/0.01.
	f := noErr(func(x float64) float64 { return 1 / (x*x + 1e-4) })
	res, err := Adaptive(f, -1, 1, Options{RelTol: 1e-8, MaxIntervals: 10000})
	require.NoError(t, err)
	exact := 2 * math.Atan(100) / 0.01
	assert.InEpsilon(t, exact, res.Value, 1e-8)
	assert.Greater(t, res.Intervals, 1)
}

func TestToleranceError(t *testing.T) {
	f := noErr(func(x float64) float64 { return 1 / (x*x + 1e-4) })
	res, err := Adaptive(f, -1, 1, Options{RelTol: 1e-12, MaxIntervals: 2})

	var tolErr *ToleranceError
	require.ErrorAs(t, err, &tolErr)
	// The best-effort estimate still rides along.
	assert.Equal(t, res.Value, tolErr.Best.Value)
	exact := 2 * math.Atan(100) / 0.01
	assert.InEpsilon(t, exact, res.Value, 0.5)
}

func TestIntegrandErrorPropagates(t *testing.T) {
	boom := errors.New("integrand failed")
	f := func(x float64) (float64, error) {
		if x > 0.5 {
			return 0, boom
		}
		return x, nil
	}
	_, err := Adaptive(f, 0, 1, Options{})
	assert.ErrorIs(t, err, boom)
}

func TestAgainstSimpson(t *testing.T) {
	f := func(x float64) float64 { return math.Exp(-x * x) }

	n := 100001
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = 2 * float64(i) / float64(n-1)
		ys[i] = f(xs[i])
	}
	want := integrate.Simpsons(xs, ys)

	res, err := Adaptive(noErr(f), 0, 2, Options{RelTol: 1e-10})
	require.NoError(t, err)
	assert.InEpsilon(t, want, res.Value, 1e-8)
}
