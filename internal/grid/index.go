package grid

import (
	"math"
	"runtime"
)

// Index is a global (i, j, k) grid coordinate.
type Index struct {
	I, J, K int
}

// fold maps a raw axis index in [0, n) onto the Nyquist-folded integer
// range [-n/2, n/2), matching the wavevector convention in spec.md
// section 3.
func fold(i, n int) int {
	if i < (n+1)/2 {
		return i
	}
	return i - n
}

// Wavevector returns the k-vector (2*pi*n/L per axis) at global index idx
// for an N-cubed box of length l, using the Nyquist-folded integer index
// on each axis.
func Wavevector(idx Index, n int, l float64) [3]float64 {
	scale := 2 * math.Pi / l
	return [3]float64{
		scale * float64(fold(idx.I, n)),
		scale * float64(fold(idx.J, n)),
		scale * float64(fold(idx.K, n)),
	}
}

// FoldedIndex returns the Nyquist-folded (nx, ny, nz) integer triple at
// idx, used by Stagger's half-cell phase.
func FoldedIndex(idx Index, n int) [3]int {
	return [3]int{fold(idx.I, n), fold(idx.J, n), fold(idx.K, n)}
}

// Position returns the cell-centered physical position r = (i+1/2)*L/N
// for each axis.
func Position(idx Index, n int, l float64) [3]float64 {
	d := l / float64(n)
	return [3]float64{
		(float64(idx.I) + 0.5) * d,
		(float64(idx.J) + 0.5) * d,
		(float64(idx.K) + 0.5) * d,
	}
}

// UnitPosition returns the position normalized into [0, 1), spec.md
// section 3's get_unit_r.
func UnitPosition(idx Index, n int) [3]float64 {
	d := 1 / float64(n)
	return [3]float64{
		(float64(idx.I) + 0.5) * d,
		(float64(idx.J) + 0.5) * d,
		(float64(idx.K) + 0.5) * d,
	}
}

// UnitStaggeredPosition returns the second-sublattice position of a BCC
// lattice in unit ([0,1)) coordinates: UnitPosition shifted by half a
// cell along the body diagonal, the same shift Stagger()'s k-space phase
// realizes for the field values sampled at that lattice.
func UnitStaggeredPosition(idx Index, n int) [3]float64 {
	d := 0.5 / float64(n)
	p := UnitPosition(idx, n)
	return [3]float64{p[0] + d, p[1] + d, p[2] + d}
}

// parallelFor splits the half-open range [0, n) into chunks, one per
// worker, and runs fn(lo, hi) on each chunk from its own goroutine. It
// blocks until every chunk has finished. This is the same worker-pool
// idiom phil-mansfield-gotetra/gotetra.go uses for chanInterpolate: a
// buffered channel used purely as a completion barrier, not for
// streaming data between goroutines.
func parallelFor(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	out := make(chan int, workers)
	running := 0
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		running++
		go func(lo, hi int) {
			fn(lo, hi)
			out <- 1
		}(lo, hi)
	}
	for i := 0; i < running; i++ {
		<-out
	}
}
