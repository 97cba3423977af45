// Package lpt implements LPTCascade (spec.md section 4.4): it drives
// internal/convolve and internal/spectral to build phi(1) through
// phi(3b) and the transverse vector A from a white-noise field and a
// power-spectrum amplitude callback, then applies per-field growth
// scaling.
package lpt

import (
	"math"

	"github.com/phil-mansfield/gotetra-ic/internal/convolve"
	"github.com/phil-mansfield/gotetra-ic/internal/ferr"
	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/topology"
)

// Amplitude is the P_lin-derived callback spec.md section 4.4 calls
// P-hat(k) = sqrt(P_lin(k)). internal/cosmo.LinearPowerSpectrum.Amplitude
// has this signature.
type Amplitude func(k float64) float64

// Growth bundles the five growth-factor scalings spec.md section 4.4's
// "Scaling" step applies after assembly.
type Growth struct {
	G1  float64
	G2  float64
	G3A float64
	G3B float64
	G3C float64
}

// Params configures one cascade run.
type Params struct {
	Order      int
	Symplectic bool
	DoFixing   bool
	VelocityF  float64 // V_f = (L/N/(2*pi))^(3/2)
	Growth     Growth
}

// ClampOrder enforces order in {1, 2, 3}, per spec.md section 4.4's
// "order not in {1,2,3} (clamped on input)" error condition.
func ClampOrder(order int) int {
	switch {
	case order < 1:
		return 1
	case order > 3:
		return 3
	default:
		return order
	}
}

// Result holds every field LPTCascade produces, each already scaled by
// its growth coefficient. Fields a cascade did not need for the
// requested order are left nil.
type Result struct {
	Phi   *grid.DistGrid
	Phi2  *grid.DistGrid
	Phi3a *grid.DistGrid
	Phi3b *grid.DistGrid
	A     [3]*grid.DistGrid
}

// Cascade owns the scratch grids and Convolver a run reuses across every
// field it builds, per spec.md section 9's "avoid temporary DistGrid
// creation in hot loops" note.
type Cascade struct {
	n   int
	l   float64
	amp Amplitude
	c   *convolve.Convolver
}

// NewCascade allocates a Convolver sized for an n-cubed, l-sided box.
func NewCascade(n int, l float64, amp Amplitude, topo topology.Topology) *Cascade {
	return &Cascade{n: n, l: l, amp: amp, c: convolve.New(n, l, topo)}
}

// Run executes the cascade: noise (real-space white noise, consumed and
// left in k-space as phi) drives phi(1), then phi(2), phi(3a)/phi(3b)/A
// as the clamped order and symplectic flag require.
func (cas *Cascade) Run(noise *grid.DistGrid, topo topology.Topology, p Params) *Result {
	order := ClampOrder(p.Order)
	if p.Symplectic && order != 2 {
		order = 2
	}

	phi := Phi1(noise, cas.amp, p.VelocityF, p.DoFixing)

	res := &Result{Phi: phi}
	if order < 2 && !p.Symplectic {
		phi.ElemwiseScale(complex(p.Growth.G1, 0))
		return res
	}

	phi2 := grid.New(cas.n, cas.l, topo)
	Phi2(phi2, phi, cas.c)
	res.Phi2 = phi2

	if p.Symplectic {
		for d := 0; d < 3; d++ {
			a := grid.New(cas.n, cas.l, topo)
			SymplecticA(a, phi, phi2, cas.c, d)
			a.ElemwiseScale(complex(p.Growth.G3C, 0))
			res.A[d] = a
		}
		phi.ElemwiseScale(complex(p.Growth.G1, 0))
		phi2.ElemwiseScale(complex(p.Growth.G2, 0))
		return res
	}

	if order >= 3 {
		phi3a := grid.New(cas.n, cas.l, topo)
		Phi3a(phi3a, phi, cas.c)
		phi3a.ElemwiseScale(complex(p.Growth.G3A, 0))
		res.Phi3a = phi3a

		phi3b := grid.New(cas.n, cas.l, topo)
		Phi3b(phi3b, phi, phi2, cas.c)
		phi3b.ElemwiseScale(complex(p.Growth.G3B, 0))
		res.Phi3b = phi3b

		for d := 0; d < 3; d++ {
			a := grid.New(cas.n, cas.l, topo)
			TransverseA(a, phi, phi2, cas.c, d)
			a.ElemwiseScale(complex(p.Growth.G3C, 0))
			res.A[d] = a
		}
	}

	phi.ElemwiseScale(complex(p.Growth.G1, 0))
	phi2.ElemwiseScale(complex(p.Growth.G2, 0))
	return res
}

// cyclic returns the (d', d'') companions of axis d under the
// rotation spec.md section 4.4's A[d] formula cycles through.
func cyclic(d int) (dp, dpp int) {
	return (d + 1) % 3, (d + 2) % 3
}

// checkFinite is the "non-finite amplitude from the cosmology callback"
// error condition spec.md section 4.4 requires: phi1.go calls this on
// every mode it computes.
func checkFinite(v complex128, what string) {
	if math.IsInf(real(v), 0) || math.IsNaN(real(v)) || math.IsInf(imag(v), 0) || math.IsNaN(imag(v)) {
		ferr.Fatal(ferr.Numeric, "%s produced a non-finite value", what)
	}
}
