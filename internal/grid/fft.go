package grid

import (
	"github.com/mjibson/go-dsp/fft"

	"github.com/phil-mansfield/gotetra-ic/internal/ferr"
)

// FFTForward transforms the grid from real to k-space in place. Requires
// real state. Distributing the axis-0 transform across ranks needs an
// all-to-all transpose that this module does not implement (FFT/MPI
// bootstrap is an external collaborator per spec.md section 1), so this
// only runs correctly for a single-rank Topology; multi-rank callers get
// an MPIError.
//
// The transform is done axis-by-axis with 1D complex FFTs, the same
// sequence MariosKokmo-go-gpe/simulation.go's kineticStep uses: Z, then Y,
// then X. go-dsp/fft has no native 3D transform, so this is the idiomatic
// way to drive it.
func (g *DistGrid) FFTForward() {
	g.requireState(Real, "FFTForward")
	g.requireSingleRank("FFTForward")
	g.transformAxes(fft.FFT)
	g.state = KSpace
}

// FFTBackward transforms the grid from k-space to real space in place.
// go-dsp/fft.IFFT already normalizes by 1/n per axis (the standard
// forward-unnormalized/backward-normalized DFT pair, the same convention
// MariosKokmo-go-gpe/simulation.go documents at its own IFFT call site),
// so three axis passes give the full 1/N^3 normalization for free with
// no further rescaling needed.
func (g *DistGrid) FFTBackward() {
	g.requireState(KSpace, "FFTBackward")
	g.requireSingleRank("FFTBackward")
	g.transformAxes(fft.IFFT)
	g.state = Real
}

func (g *DistGrid) requireSingleRank(op string) {
	if g.topo.NumRanks() != 1 {
		ferr.Fatal(ferr.MPI, "%s: distributed axis-0 transpose is not implemented (NumRanks=%d)", op, g.topo.NumRanks())
	}
}

// transformAxes applies the 1D transform step along K, then J, then I, in
// place. Because requireSingleRank has already run, count == n and
// offset == 0: the local slab is the whole cube.
func (g *DistGrid) transformAxes(step func([]complex128) []complex128) {
	n := g.n

	// Axis K (fastest-varying): one line per (i, j).
	parallelFor(n, func(lo, hi int) {
		buf := make([]complex128, n)
		for i := lo; i < hi; i++ {
			for j := 0; j < n; j++ {
				base := g.flat(i, j, 0)
				copy(buf, g.data[base:base+n])
				res := step(buf)
				copy(g.data[base:base+n], res)
			}
		}
	})

	// Axis J.
	parallelFor(n, func(lo, hi int) {
		buf := make([]complex128, n)
		for i := lo; i < hi; i++ {
			for k := 0; k < n; k++ {
				for j := 0; j < n; j++ {
					buf[j] = g.data[g.flat(i, j, k)]
				}
				res := step(buf)
				for j := 0; j < n; j++ {
					g.data[g.flat(i, j, k)] = res[j]
				}
			}
		}
	})

	// Axis I (slowest-varying).
	parallelFor(n, func(lo, hi int) {
		buf := make([]complex128, n)
		for j := lo; j < hi; j++ {
			for k := 0; k < n; k++ {
				for i := 0; i < n; i++ {
					buf[i] = g.data[g.flat(i, j, k)]
				}
				res := step(buf)
				for i := 0; i < n; i++ {
					g.data[g.flat(i, j, k)] = res[i]
				}
			}
		}
	})
}
