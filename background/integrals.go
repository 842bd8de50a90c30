package background

import (
	"errors"
	"fmt"
	"math"

	"github.com/lcdm-tools/flrw/math/interpolate"
	"github.com/lcdm-tools/flrw/math/quad"
)

// integrationParams bundles the equation-of-state interpolant and the two
// auxiliary interpolants that enter the growth equation and the Hubble
// rate. Lifetime is one solve; all interpolants are read-only once built.
type integrationParams struct {
	omegaCDM, omegaBaryon, omegaGamma, omegaDE float64

	// matterOnly marks parameter sets without a dark-energy component
	// (OmegaM >= 1). The xint prefactor OmegaM/(1-OmegaM) diverges there,
	// so the growth equation uses its x -> infinity limit instead of an
	// xint interpolant (which is nil in that case).
	matterOnly bool

	w    *interpolate.Interp
	wint *interpolate.Interp
	xint *interpolate.Interp
}

func (ip *integrationParams) omegaM() float64 { return ip.omegaCDM + ip.omegaBaryon }

var quadOpts = quad.Options{
	AbsTol:       0,
	RelTol:       QuadRelTol,
	MaxIntervals: QuadMaxIntervals,
}

// integrate runs one adaptive quadrature. Tolerance exhaustion is split
// off as a warning: the best-effort value is kept and the caller decides
// whether the degraded precision is acceptable.
func integrate(f quad.Func, a, b float64) (value float64, warning, err error) {
	res, err := quad.Adaptive(f, a, b, quadOpts)
	var tolErr *quad.ToleranceError
	if errors.As(err, &tolErr) {
		return res.Value, err, nil
	}
	if err != nil {
		return 0, nil, err
	}
	return res.Value, nil, nil
}

// buildIntegrationParams tabulates w, wint and xint on the dense grid.
// Returned warnings carry any quadrature-tolerance shortfalls.
func buildIntegrationParams(p *Parameters) (*integrationParams, []error, error) {
	ip := &integrationParams{
		omegaCDM:    p.OmegaCDM,
		omegaBaryon: p.OmegaBaryon,
		omegaGamma:  p.OmegaGamma,
		omegaDE:     p.OmegaDE,
		matterOnly:  1-p.OmegaM() <= 0,
	}

	w, err := sampleEOS(p.eos())
	if err != nil {
		return nil, nil, err
	}
	ip.w = w

	var warnings []error
	zs := denseGrid()

	// wint(z) = exp(3 int_0^z (1+w)/(1+z') dz'), the dark-energy density
	// evolution factor relative to today.
	wintIntegrand := func(z float64) (float64, error) {
		wz, err := ip.w.Eval(z)
		if err != nil {
			return 0, err
		}
		return (1 + wz) / (1 + z), nil
	}
	wints := make([]float64, len(zs))
	for i, z := range zs {
		v, warn, err := integrate(wintIntegrand, 0, z)
		if err != nil {
			return nil, nil, fmt.Errorf("background: wint at z = %g: %w", z, err)
		}
		if warn != nil {
			warnings = append(warnings, fmt.Errorf("background: wint at z = %g: %w", z, warn))
		}
		wints[i] = math.Exp(3 * v)
	}
	ip.wint, err = interpolate.New(interpolate.Linear, zs, wints)
	if err != nil {
		return nil, nil, err
	}

	if ip.matterOnly {
		return ip, warnings, nil
	}

	// xint(z) = OmegaM/(1-OmegaM) * exp(-3 int_{1/(1+z)}^1 w(a)/a da),
	// the matter to dark-energy density ratio entering the growth
	// equation. The z = 0 value is the prefactor itself; evaluating the
	// integral there would divide 0 by 0 at the lower limit.
	ratio := ip.omegaM() / (1 - ip.omegaM())
	xintIntegrand := func(a float64) (float64, error) {
		wz, err := ip.w.Eval(1/a - 1)
		if err != nil {
			return 0, err
		}
		return wz / a, nil
	}
	xints := make([]float64, len(zs))
	xints[0] = ratio
	for i, z := range zs {
		if i == 0 {
			continue
		}
		v, warn, err := integrate(xintIntegrand, 1/(1+z), 1)
		if err != nil {
			return nil, nil, fmt.Errorf("background: xint at z = %g: %w", z, err)
		}
		if warn != nil {
			warnings = append(warnings, fmt.Errorf("background: xint at z = %g: %w", z, warn))
		}
		xints[i] = ratio * math.Exp(-3*v)
	}
	ip.xint, err = interpolate.New(interpolate.Linear, zs, xints)
	if err != nil {
		return nil, nil, err
	}

	return ip, warnings, nil
}
