package background

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/lcdm-tools/flrw/math/interpolate"
)

// denseGrid returns the internal tabulation grid, z in [0, DenseZMax].
func denseGrid() []float64 {
	return floats.Span(make([]float64, DenseGridSize), 0, DenseZMax)
}

// sampleEOS tabulates the equation of state on the dense grid and wraps
// it in an interpolant. Every other component of the solve reads w(z)
// through this interpolant, so the caller's model is evaluated exactly
// DenseGridSize times per solve.
func sampleEOS(model EOSModel) (*interpolate.Interp, error) {
	zs := denseGrid()
	ws := make([]float64, len(zs))
	for i, z := range zs {
		w, err := model.W(z)
		if err != nil {
			return nil, fmt.Errorf("background: equation of state at z = %g: %w", z, err)
		}
		ws[i] = w
	}
	// The internal interpolants are linear, matching the reference
	// tabulation; the caller-chosen method applies to output splines only.
	return interpolate.New(interpolate.Linear, zs, ws)
}
