// Package noise implements NoiseSource (spec.md section 4.1/4.4's
// "noise_source" collaborator, expanded as C8): the pluggable real
// white-noise field generator LPTCascade's phi(1) step starts from. The
// per-cell rand.New(rand.NewSource(seed))/NormFloat64 idiom is grounded
// on lukaszgryglicki-photons4d/old/different_samplers.go's own per-draw
// seeded generator.
package noise

import (
	"math/rand"

	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/topology"
)

// Source is the interface LPTCascade's noise-fill step drives.
type Source interface {
	Fill(g *grid.DistGrid, topo topology.Topology, seed int64)
}

// Gaussian draws i.i.d. N(0,1) samples into every locally-owned
// real-space cell.
type Gaussian struct{}

// Fill seeds one rand.Rand per cell from seed and the cell's flattened
// global index, so that increasing NumRanks changes only the
// decomposition, not the realization: every global cell (i,j,k) gets a
// stream seeded from the same (seed, i, j, k) regardless of which rank
// owns it, and takes the first draw of that stream.
func (Gaussian) Fill(g *grid.DistGrid, topo topology.Topology, seed int64) {
	n := g.N()
	g.FillReal(func(i, j, k int) float64 {
		rng := rand.New(rand.NewSource(cellSeed(seed, i, j, k, n)))
		return rng.NormFloat64()
	})
}

// cellSeed combines the run seed with a cell's flattened global index so
// that the draw at (i,j,k) is independent of rank count.
func cellSeed(seed int64, i, j, k, n int) int64 {
	flat := int64(i)*int64(n)*int64(n) + int64(j)*int64(n) + int64(k)
	// A large odd multiplier spreads adjacent flat indices across the
	// seed space so neighboring cells don't draw from correlated
	// rand.NewSource streams.
	return seed*1000003 + flat*2654435761
}
