package grid

// Multiply sets dst = a .* b elementwise in real space. a and b must be in
// real state and share dst's shape; dst ends up in real state regardless
// of its previous state. This is the pointwise-multiply step
// convolve.Convolver drives between its padded backward and forward
// transforms.
func Multiply(dst, a, b *DistGrid) {
	dst.requireSameShape(a, "Multiply")
	dst.requireSameShape(b, "Multiply")
	a.requireState(Real, "Multiply")
	b.requireState(Real, "Multiply")

	parallelFor(dst.count, func(lo, hi int) {
		for iLocal := lo; iLocal < hi; iLocal++ {
			base := iLocal * dst.n * dst.n
			for off := base; off < base+dst.n*dst.n; off++ {
				dst.data[off] = a.data[off] * b.data[off]
			}
		}
	})
	dst.state = Real
}

// MarkState forcibly sets g's state flag without touching its data or
// running a transform. internal/convolve uses this when it writes raw
// spectral coefficients directly into a padded scratch grid rather than
// arriving at k-space through FFTForward.
func (g *DistGrid) MarkState(s State) { g.state = s }
