package background

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/lcdm-tools/flrw/math/ode"
)

// scratchTable holds the per-bin arrays filled during the sampling pass.
// All columns share one backing allocation; the table is consumed by
// spline assembly and then dropped.
type scratchTable struct {
	z, a, hz, confH, confHPrime []float64
	d1, f, g, g1, g2, chi       []float64

	// One slot per bin; joined after the sampling barrier.
	warnings []error
}

func newScratchTable(bins int) *scratchTable {
	buf := make([]float64, 11*bins)
	col := func(i int) []float64 { return buf[i*bins : (i+1)*bins : (i+1)*bins] }
	return &scratchTable{
		z: col(0), a: col(1), hz: col(2), confH: col(3), confHPrime: col(4),
		d1: col(5), f: col(6), g: col(7), g1: col(8), g2: col(9), chi: col(10),
		warnings: make([]error, bins),
	}
}

// hubble is H(z) in units of H0 for the given wint value.
func (ip *integrationParams) hubble(z, wint float64) float64 {
	return math.Sqrt(ip.omegaM()*math.Pow(1+z, 3) +
		ip.omegaGamma*math.Pow(1+z, 4) +
		ip.omegaDE*wint)
}

// relativisticTerm evaluates the correction term of one source population,
//
//	G = H'/H^2 + (2 - 5s)/(chi*H) + 5s - fevo
//
// with H the conformal Hubble rate, s the magnification bias and fevo the
// evolution bias.
func relativisticTerm(src SourceBias, z, chi, confH, confHPrime float64) (float64, error) {
	s, err := src.magnification().Eval(z)
	if err != nil {
		return 0, fmt.Errorf("magnification bias: %w", err)
	}
	fevo, err := src.evolution().Eval(z)
	if err != nil {
		return 0, fmt.Errorf("evolution bias: %w", err)
	}
	return confHPrime/(confH*confH) + (2-5*s)/(chi*confH) + 5*s - fevo, nil
}

// sampleBin fills row i of the scratch table. Rows are independent: each
// reads only the shared read-only interpolants and restarts the growth
// solve from the fixed early-time condition.
func sampleBin(p *Parameters, ip *integrationParams, t *scratchTable, i int) error {
	z := OutputZMax * float64(i) / float64(p.Bins-1)

	w, err := ip.w.Eval(z)
	if err != nil {
		return err
	}
	wint, err := ip.wint.Eval(z)
	if err != nil {
		return err
	}

	a := 1 / (1 + z)
	hz := ip.hubble(z, wint)
	confH := a * hz
	// Conformal-time derivative of the conformal Hubble rate, closed
	// form, in units of H0^2.
	confHPrime := -(math.Pow(1+z, 3)*(2*(1+z)*ip.omegaGamma+ip.omegaM()) +
		(1+3*w)*ip.omegaDE*wint) / (2 * (1 + z) * (1 + z))

	d1, d1Prime, err := solveGrowth(ip, ode.NewStepper(2), a)
	if err != nil {
		return fmt.Errorf("growth equation: %w", err)
	}
	f := d1Prime * a / d1

	chiIntegrand := func(zp float64) (float64, error) {
		wintp, err := ip.wint.Eval(zp)
		if err != nil {
			return 0, err
		}
		return 1 / ip.hubble(zp, wintp), nil
	}
	chi, warn, err := integrate(chiIntegrand, 0, z)
	if err != nil {
		return fmt.Errorf("comoving distance: %w", err)
	}
	if warn != nil {
		t.warnings[i] = fmt.Errorf("comoving distance: %w", warn)
	}

	var g1, g2 float64
	if z > originEps {
		g1, err = relativisticTerm(p.Source1, z, chi, confH, confHPrime)
		if err != nil {
			return err
		}
		g2, err = relativisticTerm(p.Source2, z, chi, confH, confHPrime)
		if err != nil {
			return err
		}
	}
	// At the origin both terms are pinned to zero: the 1/chi factor is
	// singular there and the reference defines the value away.

	t.z[i] = z
	t.a[i] = a
	t.hz[i] = hz
	t.confH[i] = confH
	t.confHPrime[i] = confHPrime
	t.d1[i] = d1
	t.f[i] = f
	t.g[i] = (1 + z) * d1
	t.g1[i] = g1
	t.g2[i] = g2
	t.chi[i] = chi
	return nil
}

// sampleAll runs the per-bin sampling, fanned out over p.workers()
// goroutines. Wait doubles as the barrier before spline assembly.
func sampleAll(p *Parameters, ip *integrationParams, t *scratchTable) error {
	var g errgroup.Group
	g.SetLimit(p.workers())
	for i := 0; i < p.Bins; i++ {
		i := i
		g.Go(func() error {
			if err := sampleBin(p, ip, t, i); err != nil {
				return fmt.Errorf("background: bin %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}
