package lpt

import (
	"github.com/phil-mansfield/gotetra-ic/internal/convolve"
	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/spectral"
)

// TransverseA assembles the d-th component of the third-order transverse
// vector A from four convolver calls over the cyclic companions (d',
// d'') of d, then solves the Poisson equation, per spec.md section 4.4:
//
//	A[d] := phi2_{d,d'}*phi_{d,d''} - phi2_{d,d''}*phi_{d,d'}
//	      + ( phi_{d',d''}*(phi2_{d',d'}-phi2_{d'',d''})
//	        - phi2_{d',d''}*(phi_{d',d'}-phi_{d'',d''}) )
//	A[d] <- inverse_laplacian(A[d])
func TransverseA(dst, phi, phi2 *grid.DistGrid, c *convolve.Convolver, d int) {
	dp, dpp := cyclic(d)
	dst.MarkState(grid.KSpace)

	c.Hessians(dst, phi2, convolve.Pair{d, dp}, phi, convolve.Pair{d, dpp}, convolve.Assign)
	c.Hessians(dst, phi2, convolve.Pair{d, dpp}, phi, convolve.Pair{d, dp}, convolve.Subtract)
	c.DifferenceOfHessians(dst, phi, convolve.Pair{dp, dpp}, phi2, convolve.Pair{dp, dp}, convolve.Pair{dpp, dpp}, convolve.Add)
	c.DifferenceOfHessians(dst, phi2, convolve.Pair{dp, dpp}, phi, convolve.Pair{dp, dp}, convolve.Pair{dpp, dpp}, convolve.Subtract)

	spectral.InverseLaplacian(dst)
}

// SymplecticA assembles the d-th component of the symplectic third-order
// velocity correction, per spec.md section 4.4's symplectic variant:
//
//	A[d] := sum_e phi_{,e} * phi2_{,d,e}
//
// No inverse Laplacian is applied; the three gradient-Hessian products
// over e=0,1,2 are the entire definition.
func SymplecticA(dst, phi, phi2 *grid.DistGrid, c *convolve.Convolver, d int) {
	dst.MarkState(grid.KSpace)

	c.GradientAndHessian(dst, phi, 0, phi2, convolve.Pair{d, 0}, convolve.Assign)
	c.GradientAndHessian(dst, phi, 1, phi2, convolve.Pair{d, 1}, convolve.Add)
	c.GradientAndHessian(dst, phi, 2, phi2, convolve.Pair{d, 2}, convolve.Add)
}
