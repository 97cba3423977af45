// Package cosmo implements Cosmology (spec.md section 4.7 as expanded):
// a linear power spectrum table with log-log interpolation, and the
// Carroll-Press-Turner growth factor / velocity factor fits original
// source configures LPTCascade and Emission with. The interpolator's
// binary-search-then-interpolate shape is grounded on
// phil-mansfield-gotetra/math/interpolate/linear_interpolators.go's
// Linear/searcher pair; the table load itself uses table.ReadTable, the
// same column reader phil-mansfield-gotetra/render/halo/io.go uses for
// Rockstar catalogs.
package cosmo

import (
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/gotetra-ic/internal/ferr"
)

// LinearPowerSpectrum is a tabulated P_lin(k), loaded from a two-column
// ASCII file and interpolated log-log-linearly between samples.
type LinearPowerSpectrum struct {
	logK []float64
	logP []float64
}

// LoadLinearPowerSpectrum reads a two-column (k, P(k)) ASCII table via
// table.ReadTable. Rows must have strictly increasing k and
// non-negative P(k); either is a ConfigError.
func LoadLinearPowerSpectrum(path string) (*LinearPowerSpectrum, error) {
	cols, err := table.ReadTable(path, []int{0, 1}, nil)
	if err != nil {
		return nil, ferr.Wrap(ferr.IO, err, "read power spectrum table %q", path)
	}
	ks, ps := cols[0], cols[1]
	if len(ks) < 2 {
		return nil, ferr.New(ferr.Config, "power spectrum table %q: need at least 2 rows, got %d", path, len(ks))
	}
	for i, p := range ps {
		if p < 0 {
			return nil, ferr.New(ferr.Config, "power spectrum table %q row %d: P(k) must be non-negative, got %g", path, i, p)
		}
		if i > 0 && ks[i] <= ks[i-1] {
			return nil, ferr.New(ferr.Config, "power spectrum table %q row %d: k must be strictly increasing", path, i)
		}
	}

	return newFromTable(ks, ps), nil
}

func newFromTable(ks, ps []float64) *LinearPowerSpectrum {
	logK := make([]float64, len(ks))
	logP := make([]float64, len(ps))
	for i := range ks {
		logK[i] = math.Log(ks[i])
		logP[i] = logPFloor(ps[i])
	}
	return &LinearPowerSpectrum{logK: logK, logP: logP}
}

// logPFloor maps P(k)==0 onto a very negative log rather than -Inf, so
// interpolation between a zero sample and a positive one stays finite.
func logPFloor(p float64) float64 {
	if p <= 0 {
		return -745 // math.Log(math.SmallestNonzeroFloat64) is about -744.4
	}
	return math.Log(p)
}

// eval returns P_lin(k), 0 outside the tabulated range (no
// extrapolation), via binary search plus a log-log linear blend between
// the bracketing samples.
func (lps *LinearPowerSpectrum) eval(k float64) float64 {
	if k <= 0 {
		return 0
	}
	lk := math.Log(k)
	n := len(lps.logK)
	if lk < lps.logK[0] || lk > lps.logK[n-1] {
		return 0
	}

	i := sort.Search(n, func(i int) bool { return lps.logK[i] >= lk })
	if i == 0 {
		return math.Exp(lps.logP[0])
	}
	if lps.logK[i] == lk {
		return math.Exp(lps.logP[i])
	}

	x1, x2 := lps.logK[i-1], lps.logK[i]
	y1, y2 := lps.logP[i-1], lps.logP[i]
	ly := y1 + (y2-y1)*(lk-x1)/(x2-x1)
	return math.Exp(ly)
}

// Amplitude returns sqrt(P_lin(k)), the callback LPTCascade's 1LPT step
// calls P-hat(k).
func (lps *LinearPowerSpectrum) Amplitude(k float64) float64 {
	return math.Sqrt(lps.eval(k))
}

// Samples returns the tabulated (k, P(k)) pairs, for writing the
// input_powerspec.txt echo artifact.
func (lps *LinearPowerSpectrum) Samples() (k, p []float64) {
	k = make([]float64, len(lps.logK))
	p = make([]float64, len(lps.logP))
	for i := range lps.logK {
		k[i] = math.Exp(lps.logK[i])
		p[i] = math.Exp(lps.logP[i])
	}
	return k, p
}

// omegaOfA returns (Omega_m(a), Omega_lambda(a)) given the z=0 values,
// via the general Friedmann E(a)^2 = Om0*a^-3 + Ok0*a^-2 + OL0.
func omegaOfA(a, omegaM, omegaL float64) (om, ol, e2 float64) {
	omegaK := 1 - omegaM - omegaL
	e2 = omegaM/(a*a*a) + omegaK/(a*a) + omegaL
	om = omegaM / (a * a * a) / e2
	ol = omegaL / e2
	return om, ol, e2
}

// growthG is the Carroll, Press & Turner (1992) fitting function for the
// linear growth factor divided by the scale factor.
func growthG(omegaM, omegaL float64) float64 {
	return 2.5 * omegaM / (math.Pow(omegaM, 4.0/7.0) - omegaL +
		(1+omegaM/2)*(1+omegaL/70))
}

// GrowthFactor returns D+(a), normalized so GrowthFactor(1, omegaM,
// omegaL) == 1, via the Carroll-Press-Turner fit.
func GrowthFactor(a, omegaM, omegaL float64) float64 {
	omA, olA, _ := omegaOfA(a, omegaM, omegaL)
	om1, ol1, _ := omegaOfA(1, omegaM, omegaL)
	return a * growthG(omA, olA) / growthG(om1, ol1)
}

// growthRate is the Lahav et al. (1991) fit for f = dlnD/dlna, the same
// fitting family Carroll-Press-Turner's growth factor review cites.
func growthRate(omegaM, omegaL float64) float64 {
	return math.Pow(omegaM, 0.6) + omegaL/70*(1+omegaM/2)
}

// VelocityFactor returns v_f(a) = a^2 * H(a) * f(Omega(a)) / H0, the
// standard LPT velocity normalization.
func VelocityFactor(a, omegaM, omegaL float64) float64 {
	omA, olA, e2 := omegaOfA(a, omegaM, omegaL)
	return a * a * math.Sqrt(e2) * growthRate(omA, olA)
}

// String is used only for error messages and debugging dumps.
func (lps *LinearPowerSpectrum) String() string {
	return fmt.Sprintf("LinearPowerSpectrum(%d samples, k in [%g, %g])",
		len(lps.logK), math.Exp(lps.logK[0]), math.Exp(lps.logK[len(lps.logK)-1]))
}
