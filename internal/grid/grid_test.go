package grid

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/gotetra-ic/internal/topology"
)

func randomGrid(t *testing.T, n int, l float64, seed int64) *DistGrid {
	t.Helper()
	g := New(n, l, topology.Local{})
	r := rand.New(rand.NewSource(seed))
	g.FillReal(func(i, j, k int) float64 { return r.NormFloat64() })
	return g
}

func TestFFTRoundtrip(t *testing.T) {
	n := 32
	g := randomGrid(t, n, 100, 1)
	before := g.Snapshot()

	g.FFTForward()
	assert.Equal(t, KSpace, g.State())
	g.FFTBackward()
	assert.Equal(t, Real, g.State())

	after := g.Snapshot()

	var num, den float64
	for i := range before {
		d := before[i] - after[i]
		num += real(d)*real(d) + imag(d)*imag(d)
		den += real(before[i])*real(before[i]) + imag(before[i])*imag(before[i])
	}
	rel := math.Sqrt(num / den)
	if rel > 1e-10 {
		t.Fatalf("roundtrip relative L2 error too large: %g", rel)
	}
}

func TestHermitianSymmetry(t *testing.T) {
	n := 16
	g := randomGrid(t, n, 50, 2)
	g.FFTForward()

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				ni, nj, nk := (n-i)%n, (n-j)%n, (n-k)%n
				v := g.Get(i, j, k)
				nv := g.Get(ni, nj, nk)
				if cmplx.Abs(v-cmplx.Conj(nv)) > 1e-8*(1+cmplx.Abs(v)) {
					t.Fatalf("Hermitian symmetry broken at (%d,%d,%d)", i, j, k)
				}
			}
		}
	}
}

func TestZeroDC(t *testing.T) {
	n := 8
	g := randomGrid(t, n, 10, 3)
	g.FFTForward()
	g.ZeroDC()

	assert.Equal(t, complex(0, 0), g.Get(0, 0, 0))
}

func TestLinearityOfNoiseScaling(t *testing.T) {
	n := 8
	l := 10.0
	seed := int64(4)

	g1 := New(n, l, topology.Local{})
	r := rand.New(rand.NewSource(seed))
	g1.FillReal(func(i, j, k int) float64 { return r.NormFloat64() })

	g2 := New(n, l, topology.Local{})
	r2 := rand.New(rand.NewSource(seed))
	g2.FillReal(func(i, j, k int) float64 { return 2 * r2.NormFloat64() })

	g1.FFTForward()
	g2.FFTForward()

	for iLocal := 0; iLocal < g1.count; iLocal++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				v1 := g1.data[g1.flat(iLocal, j, k)]
				v2 := g2.data[g2.flat(iLocal, j, k)]
				if cmplx.Abs(v2-2*v1) > 1e-9*(1+cmplx.Abs(v1)) {
					t.Fatalf("doubling the noise did not double its transform at (%d,%d,%d)", iLocal, j, k)
				}
			}
		}
	}
}

func TestOwnsBoundaries(t *testing.T) {
	g := New(8, 1, topology.Local{})
	assert.True(t, g.Owns(0))
	assert.True(t, g.Owns(7))
	assert.False(t, g.Owns(8))
	assert.False(t, g.Owns(-1))
}

func TestNonOwnedAccessPanics(t *testing.T) {
	g := New(8, 1, topology.Local{})
	assert.Panics(t, func() { g.Get(100, 0, 0) })
}

func TestStateMismatchPanics(t *testing.T) {
	g := New(8, 1, topology.Local{})
	assert.Panics(t, func() {
		g.ApplyK(func(idx Index, kv [3]float64, v complex128) complex128 { return v })
	})
}
