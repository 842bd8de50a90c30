package interpolate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

func TestNewRejectsBadTables(t *testing.T) {
	_, err := New(Linear, []float64{0, 1, 2}, []float64{0, 1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = New(Linear, []float64{0}, []float64{0})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = New(Cubic, []float64{0, 1}, []float64{0, 1})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = New(Linear, []float64{0, 2, 1}, []float64{0, 1, 2})
	assert.ErrorIs(t, err, ErrNotIncreasing)

	_, err = New(Linear, []float64{0, 1, 1}, []float64{0, 1, 2})
	assert.ErrorIs(t, err, ErrNotIncreasing)

	_, err = New(Method(17), []float64{0, 1}, []float64{0, 1})
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestOutOfDomain(t *testing.T) {
	in, err := New(Linear, []float64{0, 1, 2}, []float64{0, 1, 4})
	require.NoError(t, err)

	for _, x := range []float64{-0.1, 2.1, math.Inf(1)} {
		_, err = in.Eval(x)
		var dom *OutOfDomainError
		assert.ErrorAs(t, err, &dom, "Eval(%g)", x)
		_, err = in.Deriv(x)
		assert.ErrorAs(t, err, &dom, "Deriv(%g)", x)
	}

	// The closed endpoints are in domain.
	y, err := in.Eval(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, y)
	y, err = in.Eval(2)
	require.NoError(t, err)
	assert.Equal(t, 4.0, y)
}

func TestLinearExactOnLines(t *testing.T) {
	xs := []float64{0, 0.5, 1.5, 2, 4}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3*x - 2
	}
	in, err := New(Linear, xs, ys)
	require.NoError(t, err)

	for _, x := range linspace(0, 4, 41) {
		y, err := in.Eval(x)
		require.NoError(t, err)
		assert.InDelta(t, 3*x-2, y, 1e-14)
		dy, err := in.Deriv(x)
		require.NoError(t, err)
		assert.InDelta(t, 3.0, dy, 1e-14)
	}
}

func TestCubicReproducesSmoothFunction(t *testing.T) {
	xs := linspace(0, math.Pi, 101)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = math.Sin(x)
	}
	in, err := New(Cubic, xs, ys)
	require.NoError(t, err)

	for _, x := range linspace(0.1, math.Pi-0.1, 57) {
		y, err := in.Eval(x)
		require.NoError(t, err)
		assert.InDelta(t, math.Sin(x), y, 1e-6)
		dy, err := in.Deriv(x)
		require.NoError(t, err)
		assert.InDelta(t, math.Cos(x), dy, 1e-4)
	}
}

func TestCubicInterpolatesNodesExactly(t *testing.T) {
	xs := []float64{0, 1, 2.5, 3, 5}
	ys := []float64{1, -1, 4, 0, 2}
	in, err := New(Cubic, xs, ys)
	require.NoError(t, err)

	for i := range xs {
		y, err := in.Eval(xs[i])
		require.NoError(t, err)
		assert.InDelta(t, ys[i], y, 1e-12, "node %d", i)
	}
}

func TestInterpOwnsItsSamples(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 1, 0}
	in, err := New(Linear, xs, ys)
	require.NoError(t, err)

	ys[1] = 100
	y, err := in.Eval(1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, y)
}

func TestEvalAll(t *testing.T) {
	in, err := New(Linear, []float64{0, 1, 2}, []float64{0, 2, 4})
	require.NoError(t, err)

	out, err := in.EvalAll([]float64{0, 0.5, 1.5, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 3, 4}, out)

	_, err = in.EvalAll([]float64{0, 3})
	var dom *OutOfDomainError
	assert.ErrorAs(t, err, &dom)
}

func TestDomain(t *testing.T) {
	in, err := New(Linear, []float64{-2, 0, 7}, []float64{0, 0, 0})
	require.NoError(t, err)
	lo, hi := in.Domain()
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 7.0, hi)
	assert.Equal(t, 3, in.Len())
	assert.Equal(t, Linear, in.Method())
}
