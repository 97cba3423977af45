// Package emit implements Emission (spec.md section 4.6): it assembles
// the final displacement/velocity fields from an lpt.Result, back-
// transforms them, and dispatches either particles or named grids to an
// internal/output.Sink, including the BCC second-sublattice handling.
package emit

import (
	"github.com/phil-mansfield/gotetra-ic/internal/ferr"
	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/lpt"
	"github.com/phil-mansfield/gotetra-ic/internal/output"
	"github.com/phil-mansfield/gotetra-ic/internal/topology"
)

// Factors bundles the three velocity-formula multipliers spec.md section
// 3 names v_f1, v_f2, v_f3 (distinct from lpt.Params.VelocityF, which
// only enters phi(1)'s own definition).
type Factors struct {
	Vf1, Vf2, Vf3 float64
}

// Config controls how Run packs and ships a cascade's result.
type Config struct {
	BCC        bool
	Symplectic bool
	Species    string // output.species config value: particles, field_lagrangian, field_eulerian
	Factors    Factors
}

func cyclic(d int) (dp, dpp int) { return (d + 1) % 3, (d + 2) % 3 }

// Run drives the full Emission pipeline for a Lagrangian-path result:
// build Psi_d/V_d in k-space for every axis, back-transform, and hand
// the result to sink as either a particle buffer or named grids
// depending on Config.Species.
func Run(res *lpt.Result, topo topology.Topology, l float64, cfg Config, sink output.Sink) error {
	kind, err := sink.WriteSpeciesAs(cfg.Species)
	if err != nil {
		return err
	}

	n := res.Phi.N()
	var dispK, velK [3]*grid.DistGrid
	for d := 0; d < 3; d++ {
		dK := grid.New(n, l, topo)
		Displacement(dK, res.Phi, res.Phi2, res.Phi3a, res.Phi3b, res.A, l, d)
		dispK[d] = dK

		vK := grid.New(n, l, topo)
		Velocity(vK, res.Phi, res.Phi2, res.Phi3a, res.Phi3b, res.A, cfg.Factors, l, d, cfg.Symplectic)
		velK[d] = vK
	}

	switch kind {
	case output.SpeciesParticles:
		return emitParticles(dispK, velK, topo, l, cfg, sink)
	case output.SpeciesFieldLagrangian:
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
		return emitFields(dispR, velR, cfg.Species, sink)
	default:
		ferr.Fatal(ferr.PluginSelection, "emit.Run: species kind %v not valid for a Lagrangian-path result", kind)
	}
	return nil
}

func emitFields(dispR, velR [3]*grid.DistGrid, species string, sink output.Sink) error {
	axisName := [3]string{"x", "y", "z"}
	for d := 0; d < 3; d++ {
		if err := sink.WriteGridData("displacement", species, axisName[d], dispR[d].RealSnapshot()); err != nil {
			return err
		}
		if err := sink.WriteGridData("velocity", species, axisName[d], velR[d].RealSnapshot()); err != nil {
			return err
		}
	}
	return nil
}
