package background

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lcdm-tools/flrw/math/ode"
)

// growthCoeffs returns the two coefficients of the growth equation at
// redshift z: W = w/(1+x) and X = x/(1+x). Without dark energy x is
// formally infinite, so W -> 0 and X -> 1.
func (ip *integrationParams) growthCoeffs(z float64) (W, X float64, err error) {
	if ip.matterOnly {
		return 0, 1, nil
	}
	w, err := ip.w.Eval(z)
	if err != nil {
		return 0, 0, err
	}
	x, err := ip.xint.Eval(z)
	if err != nil {
		return 0, 0, err
	}
	return w / (1 + x), x / (1 + x), nil
}

// growthCoeffDerivs returns dW/dz and dX/dz.
func (ip *integrationParams) growthCoeffDerivs(z float64) (dW, dX float64, err error) {
	if ip.matterOnly {
		return 0, 0, nil
	}
	w, err := ip.w.Eval(z)
	if err != nil {
		return 0, 0, err
	}
	wp, err := ip.w.Deriv(z)
	if err != nil {
		return 0, 0, err
	}
	x, err := ip.xint.Eval(z)
	if err != nil {
		return 0, 0, err
	}
	xp, err := ip.xint.Deriv(z)
	if err != nil {
		return 0, 0, err
	}
	onePlusX := 1 + x
	dW = wp/onePlusX - w*xp/(onePlusX*onePlusX)
	dX = xp / (onePlusX * onePlusX)
	return dW, dX, nil
}

// growthSystem is the linear growth equation as a first-order system in
// the scale factor a, with state y = (D1, dD1/da):
//
//	dy0/da = y1
//	dy1/da = -(3/2)(1 - W) y1/a + (3/2) X y0/a^2
func (ip *integrationParams) growthSystem() ode.System {
	fn := func(a float64, y, dydt []float64) error {
		W, X, err := ip.growthCoeffs(1/a - 1)
		if err != nil {
			return err
		}
		dydt[0] = y[1]
		dydt[1] = -1.5*(1-W)*y[1]/a + 1.5*X*y[0]/(a*a)
		return nil
	}

	jac := func(a float64, y []float64, dfdy *mat.Dense, dfdt []float64) error {
		z := 1/a - 1
		W, X, err := ip.growthCoeffs(z)
		if err != nil {
			return err
		}
		dW, dX, err := ip.growthCoeffDerivs(z)
		if err != nil {
			return err
		}

		dfdy.Set(0, 0, 0)
		dfdy.Set(0, 1, 1)
		dfdy.Set(1, 0, 1.5*X/(a*a))
		dfdy.Set(1, 1, -1.5*(1-W)/a)

		// Explicit a-dependence; the coefficients are functions of
		// z = 1/a - 1, so dz/da = -1/a^2.
		Wa := -dW / (a * a)
		Xa := -dX / (a * a)
		dfdt[0] = 0
		dfdt[1] = 1.5*y[1]*(Wa/a+(1-W)/(a*a)) +
			1.5*y[0]*(Xa/(a*a)-2*X/(a*a*a))
		return nil
	}

	return ode.System{Fn: fn, Jac: jac, Dim: 2}
}

// solveGrowth integrates the growth equation from the fixed early-time
// condition up to scale factor a and returns D1(a) and dD1/da. Every bin
// restarts from the same initial condition, which is what makes the
// per-bin solves independent.
func solveGrowth(ip *integrationParams, st *ode.Stepper, a float64) (d1, d1Prime float64, err error) {
	y := []float64{growthD1Init, growthD1PrimeInit}
	_, err = st.Evolve(ip.growthSystem(), growthAInit, a, y, ode.Config{
		InitialStep: growthInitialStep,
		RelTol:      growthRelTol,
	})
	if err != nil {
		return 0, 0, err
	}
	return y[0], y[1], nil
}
