package emit

import "github.com/phil-mansfield/gotetra-ic/internal/grid"

// Displacement writes Psi_d(k) into dst, spec.md section 4.6's per-axis
// displacement formula:
//
//	Psi_d(k) = i*(k_d*(phi+phi2+phi3a+phi3b) + k_d'*A[d''] - k_d''*A[d']) / L
//
// phi2, phi3a, phi3b, and any component of A may be nil (lower LPT
// orders leave them unpopulated); a nil field contributes zero.
func Displacement(dst, phi, phi2, phi3a, phi3b *grid.DistGrid, A [3]*grid.DistGrid, l float64, d int) {
	dp, dpp := cyclic(d)
	dst.MarkState(grid.KSpace)
	dst.ApplyK(func(idx grid.Index, kv [3]float64, _ complex128) complex128 {
		i, j, k := idx.I, idx.J, idx.K
		sum := phi.Get(i, j, k)
		if phi2 != nil {
			sum += phi2.Get(i, j, k)
		}
		if phi3a != nil {
			sum += phi3a.Get(i, j, k)
		}
		if phi3b != nil {
			sum += phi3b.Get(i, j, k)
		}

		val := complex(kv[d], 0) * sum
		if A[dpp] != nil {
			val += complex(kv[dp], 0) * A[dpp].Get(i, j, k)
		}
		if A[dp] != nil {
			val -= complex(kv[dpp], 0) * A[dp].Get(i, j, k)
		}
		return complex(0, 1) * val / complex(l, 0)
	})
}

// Velocity writes V_d(k) into dst, spec.md section 4.6's per-axis
// velocity formula:
//
//	V_d(k) = i*(k_d*(vf1*phi + vf2*phi2 + vf3*(phi3a+phi3b))
//	          + vf3*(k_d'*A[d''] - k_d''*A[d'])) / L
//
// or, in symplectic mode (order forced to 2, phi3a/phi3b absent):
//
//	V_d(k) = i*k_d*(vf1*phi+vf2*phi2)/L + vf1*A[d](k)
func Velocity(dst, phi, phi2, phi3a, phi3b *grid.DistGrid, A [3]*grid.DistGrid, f Factors, l float64, d int, symplectic bool) {
	dp, dpp := cyclic(d)
	dst.MarkState(grid.KSpace)
	dst.ApplyK(func(idx grid.Index, kv [3]float64, _ complex128) complex128 {
		i, j, k := idx.I, idx.J, idx.K

		sum := complex(f.Vf1, 0) * phi.Get(i, j, k)
		if phi2 != nil {
			sum += complex(f.Vf2, 0) * phi2.Get(i, j, k)
		}

		if symplectic {
			val := complex(0, 1) * complex(kv[d], 0) * sum / complex(l, 0)
			if A[d] != nil {
				val += complex(f.Vf1, 0) * A[d].Get(i, j, k)
			}
			return val
		}

		var higher complex128
		if phi3a != nil {
			higher += phi3a.Get(i, j, k)
		}
		if phi3b != nil {
			higher += phi3b.Get(i, j, k)
		}
		sum += complex(f.Vf3, 0) * higher

		val := complex(kv[d], 0) * sum
		if A[dpp] != nil {
			val += complex(f.Vf3, 0) * complex(kv[dp], 0) * A[dpp].Get(i, j, k)
		}
		if A[dp] != nil {
			val -= complex(f.Vf3, 0) * complex(kv[dpp], 0) * A[dp].Get(i, j, k)
		}
		return complex(0, 1) * val / complex(l, 0)
	})
}
