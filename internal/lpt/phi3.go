package lpt

import (
	"github.com/phil-mansfield/gotetra-ic/internal/convolve"
	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/spectral"
)

// Phi3a assembles the longitudinal third-order term from five
// Hessian-triple products, per spec.md section 4.4:
//
//	phi3a := phi_00*phi_11*phi_22 + 2*phi_01*phi_02*phi_12
//	       - phi_12^2*phi_00 - phi_02^2*phi_11 - phi_01^2*phi_22
//
// Unlike phi(2) and phi(3b), this term is used as-is with no inverse
// Laplacian step.
func Phi3a(dst, phi *grid.DistGrid, c *convolve.Convolver) {
	dst.MarkState(grid.KSpace)

	c.HessianTriple(dst, phi, convolve.Pair{0, 0}, convolve.Pair{1, 1}, convolve.Pair{2, 2}, convolve.Assign)
	c.HessianTriple(dst, phi, convolve.Pair{0, 1}, convolve.Pair{0, 2}, convolve.Pair{1, 2}, convolve.AddTwice)
	c.HessianTriple(dst, phi, convolve.Pair{1, 2}, convolve.Pair{1, 2}, convolve.Pair{0, 0}, convolve.Subtract)
	c.HessianTriple(dst, phi, convolve.Pair{0, 2}, convolve.Pair{0, 2}, convolve.Pair{1, 1}, convolve.Subtract)
	c.HessianTriple(dst, phi, convolve.Pair{0, 1}, convolve.Pair{0, 1}, convolve.Pair{2, 2}, convolve.Subtract)
}

// Phi3b assembles the mixed phi-phi2 third-order term from six convolver
// calls, then solves the Poisson equation and scales by one half, per
// spec.md section 4.4:
//
//	raw := phi_00*(phi2_11+phi2_22) + phi_11*(phi2_22+phi2_00)
//	     + phi_22*(phi2_00+phi2_11)
//	     - 2*(phi_01*phi2_01 + phi_02*phi2_02 + phi_12*phi2_12)
//	phi3b := (1/2) * inverse_laplacian(raw)
func Phi3b(dst, phi, phi2 *grid.DistGrid, c *convolve.Convolver) {
	dst.MarkState(grid.KSpace)

	c.SumOfHessians(dst, phi, convolve.Pair{0, 0}, phi2, convolve.Pair{1, 1}, convolve.Pair{2, 2}, convolve.Assign)
	c.SumOfHessians(dst, phi, convolve.Pair{1, 1}, phi2, convolve.Pair{2, 2}, convolve.Pair{0, 0}, convolve.Add)
	c.SumOfHessians(dst, phi, convolve.Pair{2, 2}, phi2, convolve.Pair{0, 0}, convolve.Pair{1, 1}, convolve.Add)
	c.Hessians(dst, phi, convolve.Pair{0, 1}, phi2, convolve.Pair{0, 1}, convolve.SubtractTwice)
	c.Hessians(dst, phi, convolve.Pair{0, 2}, phi2, convolve.Pair{0, 2}, convolve.SubtractTwice)
	c.Hessians(dst, phi, convolve.Pair{1, 2}, phi2, convolve.Pair{1, 2}, convolve.SubtractTwice)

	spectral.InverseLaplacian(dst)
	dst.ElemwiseScale(complex(0.5, 0))
}
