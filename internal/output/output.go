// Package output implements the pluggable output backends spec.md
// section 4.6/6 calls Output plugins (C10): the contract internal/emit
// drives to decide how a species is written, plus two concrete sinks.
// The binary layout is grounded on
// phil-mansfield-gotetra/catalog/catalog.go's own header+payload
// encoding/binary convention; it stands in for the out-of-scope HDF5
// backend (see DESIGN.md).
package output

import "github.com/phil-mansfield/gotetra-ic/internal/ferr"

// SpeciesKind classifies how a configured species should be emitted,
// the result of the plugin contract's write_species_as(species) query.
type SpeciesKind int

const (
	SpeciesParticles SpeciesKind = iota
	SpeciesFieldLagrangian
	SpeciesFieldEulerian
)

func (k SpeciesKind) String() string {
	switch k {
	case SpeciesParticles:
		return "particles"
	case SpeciesFieldLagrangian:
		return "field_lagrangian"
	case SpeciesFieldEulerian:
		return "field_eulerian"
	default:
		return "unknown"
	}
}

// ParseSpeciesKind maps the output.species config string onto a
// SpeciesKind, returning a PluginSelectionError for anything else.
func ParseSpeciesKind(species string) (SpeciesKind, error) {
	switch species {
	case "particles":
		return SpeciesParticles, nil
	case "field_lagrangian":
		return SpeciesFieldLagrangian, nil
	case "field_eulerian":
		return SpeciesFieldEulerian, nil
	default:
		return 0, ferr.New(ferr.PluginSelection, "unknown species %q (want particles, field_lagrangian, or field_eulerian)", species)
	}
}

// Particle is one emitted particle record: a global ID plus single
// precision position and velocity, matching catalog.go's on-disk
// particle layout.
type Particle struct {
	ID       uint64
	Position [3]float32
	Velocity [3]float32
}

// Sink is the output-plugin contract spec.md section 4.6 names:
// write_species_as, position_unit, velocity_unit, write_grid_data, and
// write_particle_data.
type Sink interface {
	WriteSpeciesAs(species string) (SpeciesKind, error)
	PositionUnit() float64
	VelocityUnit() float64
	WriteGridData(field, species, component string, data []float64) error
	WriteParticleData(buffer []Particle, species string) error
	Close() error
}

// DiagnosticsSink is the separate diagnostics contract for
// power_spectrum_write style ASCII dumps, kept apart from Sink because
// it runs regardless of which species sink is selected.
type DiagnosticsSink interface {
	WritePowerSpectrum(tag string, k, p []float64) error
}
