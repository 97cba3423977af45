package lpt

import (
	"math"
	"math/cmplx"

	"github.com/phil-mansfield/gotetra-ic/internal/grid"
)

// VelocityNormalization returns V_f = (L/N/(2*pi))^(3/2), the
// normalization spec.md section 4.4's phi(1) formula divides by.
func VelocityNormalization(n int, l float64) float64 {
	return math.Pow(l/float64(n)/(2*math.Pi), 1.5)
}

// Phi1 transforms noise (a real-space white-noise field) into phi(1) in
// place and returns it. For each mode x_k it computes c-hat = x_k *
// amp(|k|) -- optionally phase-fixing x_k to unit magnitude first -- and
// sets phi_k = -c-hat / (|k|^2 * vf), then zeroes the DC mode.
func Phi1(noise *grid.DistGrid, amp Amplitude, vf float64, doFixing bool) *grid.DistGrid {
	noise.FFTForward()
	noise.ApplyK(func(idx grid.Index, kv [3]float64, v complex128) complex128 {
		k2 := kv[0]*kv[0] + kv[1]*kv[1] + kv[2]*kv[2]
		if k2 == 0 {
			return 0
		}

		x := v
		if doFixing {
			mag := cmplx.Abs(x)
			if mag > 0 {
				x = x / complex(mag, 0)
			}
		}

		a := amp(math.Sqrt(k2))
		checkFinite(complex(a, 0), "phi(1) amplitude callback")

		c := x * complex(a, 0)
		result := -c / complex(k2*vf, 0)
		checkFinite(result, "phi(1)")
		return result
	})
	noise.ZeroDC()
	return noise
}
