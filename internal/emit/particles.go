package emit

import (
	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/output"
	"github.com/phil-mansfield/gotetra-ic/internal/topology"
)

// emitParticles backward-transforms dispK/velK, packs the primary
// sublattice (and, for BCC, a staggered second sublattice) into
// output.Particle records, and hands the combined buffer to sink.
func emitParticles(dispK, velK [3]*grid.DistGrid, topo topology.Topology, l float64, cfg Config, sink output.Sink) error {
	n := dispK[0].N()

	var dispR, velR [3]*grid.DistGrid
	for d := 0; d < 3; d++ {
		dR := grid.New(n, l, topo)
		dR.CopyFrom(dispK[d])
		dR.FFTBackward()
		dispR[d] = dR

		vR := grid.New(n, l, topo)
		vR.CopyFrom(velK[d])
		vR.FFTBackward()
		velR[d] = vR
	}

	offset, count := dispR[0].LocalOffset(), dispR[0].LocalCount()
	bccFactor := uint64(1)
	if cfg.BCC {
		bccFactor = 2
	}
	idBase := bccFactor * uint64(offset) * uint64(n) * uint64(n)

	posUnit, velUnit := sink.PositionUnit(), sink.VelocityUnit()
	buf := packSublattice(dispR, velR, n, offset, count, idBase, posUnit, velUnit, grid.UnitPosition)

	if cfg.BCC {
		for d := 0; d < 3; d++ {
			sK := grid.New(n, l, topo)
			sK.CopyFrom(dispK[d])
			sK.Stagger()
			sK.FFTBackward()
			dispR[d] = sK

			svK := grid.New(n, l, topo)
			svK.CopyFrom(velK[d])
			svK.Stagger()
			svK.FFTBackward()
			velR[d] = svK
		}
		secondBase := idBase + uint64(count)*uint64(n)*uint64(n)
		buf = append(buf, packSublattice(dispR, velR, n, offset, count, secondBase, posUnit, velUnit, grid.UnitStaggeredPosition)...)
	}

	return sink.WriteParticleData(buf, cfg.Species)
}

// packSublattice builds one output.Particle per locally-owned cell,
// placing it at lattice position + displacement and storing the matching
// velocity, scaled by the sink's reported affine units. lattice resolves
// the unit-normalized ([0,1)) unstaggered or staggered lattice point,
// matching whichever of dispR/velR (unstaggered or Stagger()'d) was
// passed in; Displacement() (see displacement.go) already divides by L,
// so its output is a dimensionless box fraction that only combines
// correctly with a unit-range position, per
// _examples/original_source/src/ic_generator.cc's get_unit_r/lunit
// pairing (spec.md section 3's apply_r/get_unit_r distinction).
func packSublattice(dispR, velR [3]*grid.DistGrid, n int, offset, count int, idBase uint64, posUnit, velUnit float64, lattice func(grid.Index, int) [3]float64) []output.Particle {
	buf := make([]output.Particle, 0, count*n*n)
	for iLocal := 0; iLocal < count; iLocal++ {
		i := offset + iLocal
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				r := lattice(grid.Index{I: i, J: j, K: k}, n)
				var p output.Particle
				p.ID = idBase + uint64(iLocal)*uint64(n)*uint64(n) + uint64(j)*uint64(n) + uint64(k)
				for d := 0; d < 3; d++ {
					pos := r[d] + real(dispR[d].Get(i, j, k))
					vel := real(velR[d].Get(i, j, k))
					p.Position[d] = float32(pos * posUnit)
					p.Velocity[d] = float32(vel * velUnit)
				}
				buf = append(buf, p)
			}
		}
	}
	return buf
}
