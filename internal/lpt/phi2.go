package lpt

import (
	"github.com/phil-mansfield/gotetra-ic/internal/convolve"
	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/spectral"
)

// Phi2 assembles phi(2) into dst from phi's Hessian components via five
// convolver calls, then solves the Poisson equation with an inverse
// Laplacian, per spec.md section 4.4:
//
//	phi2 := (phi_00)*(phi_11+phi_22)
//	     += (phi_11)*(phi_22)
//	     -= (phi_01)^2
//	     -= (phi_02)^2
//	     -= (phi_12)^2
func Phi2(dst, phi *grid.DistGrid, c *convolve.Convolver) {
	dst.MarkState(grid.KSpace)

	c.SumOfHessians(dst, phi, convolve.Pair{0, 0}, phi, convolve.Pair{1, 1}, convolve.Pair{2, 2}, convolve.Assign)
	c.Hessians(dst, phi, convolve.Pair{1, 1}, phi, convolve.Pair{2, 2}, convolve.Add)
	c.Hessians(dst, phi, convolve.Pair{0, 1}, phi, convolve.Pair{0, 1}, convolve.Subtract)
	c.Hessians(dst, phi, convolve.Pair{0, 2}, phi, convolve.Pair{0, 2}, convolve.Subtract)
	c.Hessians(dst, phi, convolve.Pair{1, 2}, phi, convolve.Pair{1, 2}, convolve.Subtract)

	spectral.InverseLaplacian(dst)
}
