// Package semiclassical implements SemiclassicalPath (spec.md section
// 4.5): the Madelung-transform alternative to Lagrangian displacement
// emission, selected when the output collaborator asks for Eulerian
// field output. It is grounded on MariosKokmo-go-gpe/simulation.go's
// wavefunction evolution: build a complex phase field, apply a single
// kinetic drift in k-space, then read density and velocity back out of
// the wavefunction.
package semiclassical

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/gotetra-ic/internal/ferr"
	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/spectral"
	"github.com/phil-mansfield/gotetra-ic/internal/topology"
)

// Result holds the Eulerian fields SemiclassicalPath produces: a density
// contrast grid and three velocity-component grids, all in real
// (position) state.
type Result struct {
	Density  *grid.DistGrid
	Velocity [3]*grid.DistGrid
}

// Hbar computes the effective Planck constant hbar = (2*pi/N) *
// (2*sigma(phi)/D+), where sigma is the standard deviation of phi over
// the whole grid (every rank's slab), reduced across the topology via
// the sum/sum-of-squares parallel variance identity so that it is exact
// regardless of NumRanks. phi must already be in real (position) state.
func Hbar(phi *grid.DistGrid, growthD float64) float64 {
	if phi.State() != grid.Real {
		ferr.Fatal(ferr.State, "Hbar requires phi in real state, got %s", phi.State())
	}

	x := phi.RealSnapshot()
	localSum := floats.Sum(x)
	localSumSq := floats.Dot(x, x)
	localCount := float64(len(x))

	topo := phi.Topology()
	totalSum := topo.AllReduceSum(localSum)
	totalSumSq := topo.AllReduceSum(localSumSq)
	totalCount := topo.AllReduceSum(localCount)

	mean := totalSum / totalCount
	variance := totalSumSq/totalCount - mean*mean
	if variance < 0 {
		variance = 0
	}
	sigma := math.Sqrt(variance)

	n := float64(phi.N())
	return (2 * math.Pi / n) * (2 * sigma / growthD)
}

// Run executes the full SemiclassicalPath pipeline. phiK and phi2K are
// the k-space phi(1)/phi(2) fields LPTCascade produced (phi2K may be nil
// when order==1); neither is mutated. growthD is D+ at the requested
// scale factor, and order is the clamped LPT order driving whether phi2
// participates in the phase and the second re-phasing step.
func Run(phiK, phi2K *grid.DistGrid, topo topology.Topology, growthD float64, order int) *Result {
	n := phiK.N()
	l := phiK.BoxLength()

	phiReal := grid.New(n, l, topo)
	phiReal.CopyFrom(phiK)
	phiReal.FFTBackward()

	var phi2Real *grid.DistGrid
	if order >= 2 && phi2K != nil {
		phi2Real = grid.New(n, l, topo)
		phi2Real.CopyFrom(phi2K)
		phi2Real.FFTBackward()
	}

	hbar := Hbar(phiReal, growthD)

	psi := grid.New(n, l, topo)
	buildPsi(psi, phiReal, phi2Real, growthD, hbar, order)

	psi.FFTForward()
	kineticDrift(psi, growthD, hbar)
	psi.FFTBackward()

	if order >= 2 && phi2Real != nil {
		rephase(psi, phi2Real, growthD, hbar)
	}

	rho := grid.New(n, l, topo)
	buildDensity(rho, psi)

	psiK := grid.New(n, l, topo)
	psiK.CopyFrom(psi)
	psiK.FFTForward()

	var vel [3]*grid.DistGrid
	for axis := 0; axis < 3; axis++ {
		gradK := grid.New(n, l, topo)
		gradK.CopyFrom(psiK)
		gradK.ApplyK(func(idx grid.Index, kv [3]float64, v complex128) complex128 {
			return spectral.GradientMultiplier(kv, axis) * v
		})
		gradK.FFTBackward()

		v := grid.New(n, l, topo)
		buildVelocityComponent(v, psi, gradK, rho, hbar)
		vel[axis] = v
	}

	return &Result{Density: rho, Velocity: vel}
}

// buildPsi writes psi(x) = exp(i*(phi+phi2)/(D+*hbar)) into psi's local
// slab (phi2 omitted when order==1).
func buildPsi(psi, phiReal, phi2Real *grid.DistGrid, growthD, hbar float64, order int) {
	n := psi.N()
	offset, count := psi.LocalOffset(), psi.LocalCount()
	for iLocal := 0; iLocal < count; iLocal++ {
		i := offset + iLocal
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				val := real(phiReal.Get(i, j, k))
				if order >= 2 && phi2Real != nil {
					val += real(phi2Real.Get(i, j, k))
				}
				phase := val / (growthD * hbar)
				psi.Set(i, j, k, cmplx.Exp(complex(0, phase)))
			}
		}
	}
}

// kineticDrift applies psi_k <- psi_k * exp(-i*0.5*hbar*|k|^2*D+) to a
// k-space psi.
func kineticDrift(psi *grid.DistGrid, growthD, hbar float64) {
	psi.ApplyK(func(idx grid.Index, kv [3]float64, v complex128) complex128 {
		k2 := kv[0]*kv[0] + kv[1]*kv[1] + kv[2]*kv[2]
		phase := -0.5 * hbar * k2 * growthD
		return v * cmplx.Exp(complex(0, phase))
	})
}

// rephase multiplies a real-space psi by exp(i*phi2/(D+*hbar)) again,
// spec.md section 4.5 step 4's second-order correction.
func rephase(psi, phi2Real *grid.DistGrid, growthD, hbar float64) {
	n := psi.N()
	offset, count := psi.LocalOffset(), psi.LocalCount()
	for iLocal := 0; iLocal < count; iLocal++ {
		i := offset + iLocal
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				phase := real(phi2Real.Get(i, j, k)) / (growthD * hbar)
				psi.Set(i, j, k, psi.Get(i, j, k)*cmplx.Exp(complex(0, phase)))
			}
		}
	}
}

// buildDensity writes rho(x) = |psi(x)|^2 - 1 into dst.
func buildDensity(dst, psi *grid.DistGrid) {
	n := dst.N()
	offset, count := dst.LocalOffset(), dst.LocalCount()
	for iLocal := 0; iLocal < count; iLocal++ {
		i := offset + iLocal
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				v := psi.Get(i, j, k)
				mag2 := real(v)*real(v) + imag(v)*imag(v)
				dst.Set(i, j, k, complex(mag2-1, 0))
			}
		}
	}
}

// buildVelocityComponent writes v_d(x) = Im(conj(psi)*grad_d psi) /
// (hbar*(1+rho)) into dst.
func buildVelocityComponent(dst, psi, grad, rho *grid.DistGrid, hbar float64) {
	n := dst.N()
	offset, count := dst.LocalOffset(), dst.LocalCount()
	for iLocal := 0; iLocal < count; iLocal++ {
		i := offset + iLocal
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				p := psi.Get(i, j, k)
				g := grad.Get(i, j, k)
				r := real(rho.Get(i, j, k))
				val := imag(cmplx.Conj(p)*g) / (hbar * (1 + r))
				dst.Set(i, j, k, complex(val, 0))
			}
		}
	}
}
