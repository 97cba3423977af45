// Package convolve implements DealiasedConvolver: Orszag's 3/2-rule
// dealiased evaluation of products of derivative fields, per spec.md
// section 4.3. A Convolver owns three N'-cubed scratch DistGrids (two
// operand buffers, one accumulator) sized to N'=nextPow2(ceil(3N/2)), and
// every primitive below drives the same six-step pipeline: embed each
// operand's k-cube into a padded buffer with its derivative multiplier
// applied, backward-FFT to real space, multiply pointwise, forward-FFT
// the product, and stream the truncated central N-cube into the caller's
// destination through a writer combinator.
//
// The writer combinators are plain function values rather than an
// interface, per spec.md section 4's preference for monomorphized
// dispatch in the hot path.
package convolve

import (
	"github.com/phil-mansfield/gotetra-ic/internal/ferr"
	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/spectral"
	"github.com/phil-mansfield/gotetra-ic/internal/topology"
)

// truncationScale is the (N'/N)^3 correction applied once per pointwise
// product of padded fields. Every other k-space field in this module is
// a forward-unnormalized transform of an N-grid, whose backward transform
// divides by N^3. An operand embedded unchanged into the padded grid
// comes back from its backward transform divided by N'^3 instead, so
// each real-space factor is (N/N')^3 too small. A product of two such
// factors is (N/N')^6 too small, and the forward transform's sum over
// N'^3 samples rather than N^3 gains back only (N'/N)^3, leaving the raw
// coefficients (N/N')^3 too small. This is the concrete rendering of
// "scaled by the FFT normalization inherited from step iv" in spec.md
// section 4.3: the normalization convention that has to be restored is
// the module-wide one, not a bare 1/N'^3.
func (c *Convolver) truncationScale() complex128 {
	ratio := float64(c.nPad) / float64(c.n)
	return complex(ratio*ratio*ratio, 0)
}

// Writer combines a value already sitting at a destination cell with a
// freshly computed one, returning the new cell value. Assign, Add,
// AddTwice, Subtract and SubtractTwice are the five shapes spec.md
// section 4.3 names.
type Writer func(current, delta complex128) complex128

func Assign(current, delta complex128) complex128        { return delta }
func Add(current, delta complex128) complex128            { return current + delta }
func AddTwice(current, delta complex128) complex128       { return current + 2*delta }
func Subtract(current, delta complex128) complex128       { return current - delta }
func SubtractTwice(current, delta complex128) complex128  { return current - 2*delta }

// Pair is an (a, b) index pair into a Hessian component, with a, b in
// {0, 1, 2}.
type Pair [2]int

// Convolver drives the padded-grid pipeline for a fixed (n, l) shape.
// One instance is meant to be built once per LPTCascade run and reused
// across every primitive call, per spec.md section 9's "avoid temporary
// DistGrid creation in hot loops" note.
type Convolver struct {
	n, nPad int
	l       float64

	opA, opB, acc *grid.DistGrid
}

// New allocates the three padded scratch grids for an n-cubed, l-sided
// box.
func New(n int, l float64, topo topology.Topology) *Convolver {
	nPad := paddedSize(n)
	return &Convolver{
		n:    n,
		nPad: nPad,
		l:    l,
		opA:  grid.New(nPad, l, topo),
		opB:  grid.New(nPad, l, topo),
		acc:  grid.New(nPad, l, topo),
	}
}

// paddedSize returns the smallest power of two at least ceil(3n/2), the
// "convenient FFT size" spec.md section 4.3 asks Orszag's rule to round
// up to; go-dsp/fft has no non-power-of-two fast path.
func paddedSize(n int) int {
	want := (3*n + 1) / 2
	p := 1
	for p < want {
		p <<= 1
	}
	return p
}

// NPad reports the padded grid resolution in use.
func (c *Convolver) NPad() int { return c.nPad }

type combineMode int

const (
	embedSet combineMode = iota
	embedAdd
	embedSub
)

func requireKSpace(g *grid.DistGrid, op string) {
	if g.State() != grid.KSpace {
		ferr.Fatal(ferr.State, "%s requires operand in k-space state, got %s", op, g.State())
	}
}

// padAxis maps a Nyquist-folded integer coordinate from the small grid
// onto the padded grid's global index with the same folded value.
func padAxis(nval, nPad int) int {
	if nval >= 0 {
		return nval
	}
	return nval + nPad
}

func (c *Convolver) padIndex(idx grid.Index) (int, int, int) {
	f := grid.FoldedIndex(idx, c.n)
	return padAxis(f[0], c.nPad), padAxis(f[1], c.nPad), padAxis(f[2], c.nPad)
}

// embedHessian writes Hess_{ab}(src) into dstPad's low-frequency octants,
// zeroing (embedSet), adding to (embedAdd), or subtracting from
// (embedSub) whatever is already there.
func (c *Convolver) embedHessian(dstPad, src *grid.DistGrid, ab Pair, mode combineMode) {
	requireKSpace(src, "convolve embed")
	c.embed(dstPad, mode, func(kv [3]float64) complex128 {
		return spectral.HessianMultiplier(kv, ab[0], ab[1])
	}, src)
}

// embedGradient writes the a-th partial derivative of src into dstPad.
func (c *Convolver) embedGradient(dstPad, src *grid.DistGrid, a int, mode combineMode) {
	requireKSpace(src, "convolve embed")
	c.embed(dstPad, mode, func(kv [3]float64) complex128 {
		return spectral.GradientMultiplier(kv, a)
	}, src)
}

func (c *Convolver) embed(dstPad *grid.DistGrid, mode combineMode, multiplier func(kv [3]float64) complex128, src *grid.DistGrid) {
	if mode == embedSet {
		dstPad.Zero()
		dstPad.MarkState(grid.KSpace)
	}
	n := c.n
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				idx := grid.Index{I: i, J: j, K: k}
				kv := grid.Wavevector(idx, n, c.l)
				delta := multiplier(kv) * src.Get(i, j, k)
				pi, pj, pk := c.padIndex(idx)
				switch mode {
				case embedAdd:
					dstPad.Set(pi, pj, pk, dstPad.Get(pi, pj, pk)+delta)
				case embedSub:
					dstPad.Set(pi, pj, pk, dstPad.Get(pi, pj, pk)-delta)
				default:
					dstPad.Set(pi, pj, pk, delta)
				}
			}
		}
	}
}

// truncateInto reads the central N-cube out of a padded, k-space result
// buffer and folds each value into dst via writer. dst must already be
// marked k-space by the caller (LPTCascade typically does this once per
// destination field before its first writer call).
func (c *Convolver) truncateInto(dst, padded *grid.DistGrid, writer Writer) {
	n := c.n
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				idx := grid.Index{I: i, J: j, K: k}
				pi, pj, pk := c.padIndex(idx)
				val := padded.Get(pi, pj, pk)
				dst.Set(i, j, k, writer(dst.Get(i, j, k), val))
			}
		}
	}
}

// pairwise runs the shared tail of every two-operand primitive: backward
// transform both operand buffers, multiply into acc, forward transform,
// truncate into dst.
func (c *Convolver) pairwise(dst *grid.DistGrid, writer Writer) {
	c.opA.FFTBackward()
	c.opB.FFTBackward()
	grid.Multiply(c.acc, c.opA, c.opB)
	c.acc.FFTForward()
	c.acc.ElemwiseScale(c.truncationScale())
	c.truncateInto(dst, c.acc, writer)
}

// Hessians implements convolve_Hessians: (Hess_ab A)(x) * (Hess_cd B)(x).
func (c *Convolver) Hessians(dst, A *grid.DistGrid, ab Pair, B *grid.DistGrid, cd Pair, writer Writer) {
	c.embedHessian(c.opA, A, ab, embedSet)
	c.embedHessian(c.opB, B, cd, embedSet)
	c.pairwise(dst, writer)
}

// SumOfHessians implements convolve_SumOfHessians: A multiplied by the
// sum of two Hessians of B.
func (c *Convolver) SumOfHessians(dst, A *grid.DistGrid, ab Pair, B *grid.DistGrid, cd, ef Pair, writer Writer) {
	c.embedHessian(c.opA, A, ab, embedSet)
	c.embedHessian(c.opB, B, cd, embedSet)
	c.embedHessian(c.opB, B, ef, embedAdd)
	c.pairwise(dst, writer)
}

// DifferenceOfHessians implements convolve_DifferenceOfHessians: A
// multiplied by (Hess_cd - Hess_ef) of B.
func (c *Convolver) DifferenceOfHessians(dst, A *grid.DistGrid, ab Pair, B *grid.DistGrid, cd, ef Pair, writer Writer) {
	c.embedHessian(c.opA, A, ab, embedSet)
	c.embedHessian(c.opB, B, cd, embedSet)
	c.embedHessian(c.opB, B, ef, embedSub)
	c.pairwise(dst, writer)
}

// GradientAndHessian implements convolve_Gradient_and_Hessian: the a-th
// partial derivative of A against Hess_bc of B.
func (c *Convolver) GradientAndHessian(dst, A *grid.DistGrid, a int, B *grid.DistGrid, bc Pair, writer Writer) {
	c.embedGradient(c.opA, A, a, embedSet)
	c.embedHessian(c.opB, B, bc, embedSet)
	c.pairwise(dst, writer)
}

// HessianTriple implements the three-factor variant used for phi(3a):
// the product of three Hessian components of the same field A. It
// reuses the same three scratch buffers by folding the first two
// factors into acc before bringing in the third. A three-factor product
// needs the truncationScale correction twice, once per multiply.
func (c *Convolver) HessianTriple(dst, A *grid.DistGrid, ab, cd, ef Pair, writer Writer) {
	c.embedHessian(c.opA, A, ab, embedSet)
	c.embedHessian(c.opB, A, cd, embedSet)
	c.opA.FFTBackward()
	c.opB.FFTBackward()
	grid.Multiply(c.acc, c.opA, c.opB)
	c.acc.ElemwiseScale(c.truncationScale())

	c.embedHessian(c.opA, A, ef, embedSet)
	c.opA.FFTBackward()
	grid.Multiply(c.opB, c.acc, c.opA)

	c.opB.FFTForward()
	c.opB.ElemwiseScale(c.truncationScale())
	c.truncateInto(dst, c.opB, writer)
}
