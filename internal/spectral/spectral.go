// Package spectral implements the free functions spec.md section 4.2
// calls SpectralOps: per-mode multipliers applied to a k-space DistGrid.
// Every operation here is purely local once the k-vector at a mode is
// known, so none of it needs communication — it is built directly on
// DistGrid.ApplyK, the same "fuse the operator into the sweep" strategy
// spec.md section 9 asks for.
package spectral

import (
	"github.com/phil-mansfield/gotetra-ic/internal/grid"
)

// InverseLaplacian divides every non-DC mode by -|k|^2 and zeroes the DC
// mode, i.e. solves nabla^2 phi = source for phi in Fourier space.
func InverseLaplacian(g *grid.DistGrid) {
	g.ApplyK(func(idx grid.Index, k [3]float64, v complex128) complex128 {
		k2 := k[0]*k[0] + k[1]*k[1] + k[2]*k[2]
		if k2 == 0 {
			return 0
		}
		return complex(-1/k2, 0) * v
	})
}

// NegativeLaplacian multiplies every mode by |k|^2, i.e. applies
// -nabla^2. Away from k=0, InverseLaplacian undoes it only up to sign:
// applying one after the other negates the field.
func NegativeLaplacian(g *grid.DistGrid) {
	g.ApplyK(func(idx grid.Index, k [3]float64, v complex128) complex128 {
		k2 := k[0]*k[0] + k[1]*k[1] + k[2]*k[2]
		return complex(k2, 0) * v
	})
}

// HessianMultiplier returns the Fourier multiplier -k_a*k_b for the
// (a,b) second-derivative component at k, the building block
// convolve.DealiasedConvolver's primitives compose.
func HessianMultiplier(k [3]float64, a, b int) complex128 {
	return complex(-k[a]*k[b], 0)
}

// GradientMultiplier returns the Fourier multiplier i*k_a for the a-th
// partial derivative at k.
func GradientMultiplier(k [3]float64, a int) complex128 {
	return complex(0, k[a])
}

// HessianComponent writes phi_{,ab} = -k_a*k_b*G into dst in k-space,
// leaving g untouched. dst must already exist with the same
// shape/state as g (typically a scratch grid reused across calls, per
// spec.md section 9's "avoid temporary DistGrid creation in hot loops").
func HessianComponent(dst, g *grid.DistGrid, a, b int) {
	dst.CopyFrom(g)
	dst.ApplyK(func(idx grid.Index, k [3]float64, v complex128) complex128 {
		return HessianMultiplier(k, a, b) * v
	})
}

// GradientComponent writes phi_{,a} = i*k_a*G into dst.
func GradientComponent(dst, g *grid.DistGrid, a int) {
	dst.CopyFrom(g)
	dst.ApplyK(func(idx grid.Index, k [3]float64, v complex128) complex128 {
		return GradientMultiplier(k, a) * v
	})
}
