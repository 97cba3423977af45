package spectral

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/topology"
)

// TestInverseLaplacianNegatesNegativeLaplacian checks that, on a field
// with zero DC mode, multiplying by |k|^2 and then by -1/|k|^2 returns
// the negated input.
func TestInverseLaplacianNegatesNegativeLaplacian(t *testing.T) {
	n, l := 16, 20.0
	g := grid.New(n, l, topology.Local{})
	r := rand.New(rand.NewSource(7))
	g.FillReal(func(i, j, k int) float64 { return r.NormFloat64() })
	g.FFTForward()
	g.ZeroDC()

	before := g.Snapshot()

	NegativeLaplacian(g)
	InverseLaplacian(g)

	after := g.Snapshot()

	for i := range before {
		if cmplx.Abs(-before[i]-after[i]) > 1e-8*(1+cmplx.Abs(before[i])) {
			t.Fatalf("negative-Laplacian/inverse-Laplacian round trip failed at %d: %v, want %v", i, after[i], -before[i])
		}
	}
}

func TestInverseLaplacianZerosDC(t *testing.T) {
	n, l := 8, 10.0
	g := grid.New(n, l, topology.Local{})
	g.FillReal(func(i, j, k int) float64 { return 1 })
	g.FFTForward()
	InverseLaplacian(g)

	if g.Get(0, 0, 0) != 0 {
		t.Fatalf("expected DC mode to remain zero, got %v", g.Get(0, 0, 0))
	}
}
