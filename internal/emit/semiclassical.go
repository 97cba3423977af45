package emit

import (
	"github.com/phil-mansfield/gotetra-ic/internal/ferr"
	"github.com/phil-mansfield/gotetra-ic/internal/output"
	"github.com/phil-mansfield/gotetra-ic/internal/semiclassical"
)

// RunSemiclassical ships a SemiclassicalPath result to sink as named
// field_eulerian grids (density plus the three velocity components),
// spec.md section 4.5's "Emit rho and (v_x,v_y,v_z) via the output
// collaborator."
func RunSemiclassical(res *semiclassical.Result, species string, sink output.Sink) error {
	kind, err := sink.WriteSpeciesAs(species)
	if err != nil {
		return err
	}
	if kind != output.SpeciesFieldEulerian {
		ferr.Fatal(ferr.PluginSelection, "emit.RunSemiclassical: species kind %v is not field_eulerian", kind)
	}

	if err := sink.WriteGridData("density", species, "", res.Density.RealSnapshot()); err != nil {
		return err
	}
	axisName := [3]string{"x", "y", "z"}
	for d := 0; d < 3; d++ {
		if err := sink.WriteGridData("velocity", species, axisName[d], res.Velocity[d].RealSnapshot()); err != nil {
			return err
		}
	}
	return nil
}
