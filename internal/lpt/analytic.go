package lpt

import (
	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/topology"
)

// AnalyticPhi1 builds a closed-form phi(1) field holding a single
// conjugate-symmetric mode pair along axis 0, bypassing the
// noise-and-power-spectrum pipeline entirely. This exists strictly as a
// test fixture for exercising phi(2)/phi(3a)/phi(3b)/A against a
// hand-checkable input; nothing in cmd/gotetra-ic or internal/config
// calls it.
func AnalyticPhi1(n int, l float64, topo topology.Topology, kIndex int, amplitude float64) *grid.DistGrid {
	return AnalyticPhi1Vector(n, l, topo, [3]int{kIndex, 0, 0}, amplitude)
}

// AnalyticPhi1Vector generalizes AnalyticPhi1 to an arbitrary mode index
// on all three axes, so tests can construct multi-axis plane waves (e.g.
// two waves sharing an axis but not parallel) that a single-axis mode
// cannot represent.
func AnalyticPhi1Vector(n int, l float64, topo topology.Topology, k [3]int, amplitude float64) *grid.DistGrid {
	g := grid.New(n, l, topo)
	g.MarkState(grid.KSpace)
	fold := func(v int) int { return ((v % n) + n) % n }
	i, j, kk := fold(k[0]), fold(k[1]), fold(k[2])
	ci, cj, ck := fold(-k[0]), fold(-k[1]), fold(-k[2])
	g.Set(i, j, kk, complex(amplitude/2, 0))
	g.Set(ci, cj, ck, complex(amplitude/2, 0))
	return g
}
