// Package config implements Config (spec.md section 6 as expanded in
// section 4.9): gcfg INI loading, defaulting, and validation, in the
// Default*Wrapper/Valid*/Example*File idiom of
// phil-mansfield-gotetra/render/io/config.go and
// phil-mansfield-gotetra/io/config.go.
package config

import (
	"log"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gotetra-ic/internal/ferr"
)

// ExampleFile is the annotated template -example-config dumps.
const ExampleFile = `[setup]

#######################
# Required Parameters #
#######################

# Grid resolution, N. The output box holds N^3 (or 2*N^3 for BCC) particles.
GridRes = 128

# Box length, L, in the same units as the power spectrum table's k^-1.
BoxLength = 100.0

# Starting redshift.
zstart = 49.0

# Power spectrum table: two columns (k, P(k)), strictly increasing k.
PowerSpectrumFile = path/to/input_powerspec.txt

# Cosmological parameters needed to evaluate the growth factor and
# velocity factor at zstart.
OmegaM = 0.3089
OmegaL = 0.6911
H100 = 0.6774

#######################
# Optional Parameters #
#######################

# LPT order: 1, 2, or 3.
# LPTorder = 3

# BCC lattice doubles the particle count with a staggered sublattice.
# BCClattice = false

# Symplectic-PT mode forces LPTorder to 2.
# SymplecticPT = false

# Fix mode normalizes the magnitude of every phi(1) mode before scaling.
# DoFixing = false

# White-noise seed.
# Seed = 1

# Compute both dark-matter and baryon initial conditions (each its own
# noise realization run through the same total-matter transfer
# function; see DESIGN.md for why they don't get separate transfer
# functions). Species output files get a ".dm"/".baryon" suffix.
# WithBaryons = false

[output]

# Binary .gtic output file.
fname_hdf5 = path/to/output.gtic

# Prefix for diagnostic power-spectrum ASCII dumps.
fbase_analysis = path/to/run

# One of: particles, field_lagrangian, field_eulerian.
species = particles
`

// Setup holds every [setup] key spec.md section 6 / 4.9 lists.
type Setup struct {
	GridRes           int
	BoxLength         float64
	Zstart            float64
	LPTorder          int
	BCClattice        bool
	SymplecticPT      bool
	DoFixing          bool
	OmegaM            float64
	OmegaL            float64
	H100              float64
	Seed              int64
	PowerSpectrumFile string
	WithBaryons       bool
}

// Species returns the physical species this run computes ICs for. A
// plain run computes just "dm"; WithBaryons additionally computes
// "baryon" with its own noise realization, mirroring the
// species_list={dm,baryon} loop the distilled particles/field_* pipeline
// left out.
func (s *Setup) Species() []string {
	if s.WithBaryons {
		return []string{"dm", "baryon"}
	}
	return []string{"dm"}
}

// Output holds every [output] key.
type Output struct {
	FnameHDF5     string
	FbaseAnalysis string
	Species       string
}

// Wrapper is the gcfg.ReadFileInto target: field names must match the
// INI section names, compared case-insensitively per gcfg's convention.
type Wrapper struct {
	Setup  Setup
	Output Output
}

// DefaultWrapper returns a Wrapper with every optional key defaulted,
// ready to be overwritten by gcfg.ReadFileInto.
func DefaultWrapper() *Wrapper {
	w := &Wrapper{}
	w.Setup.LPTorder = 3
	w.Setup.Seed = 1
	return w
}

func (s *Setup) ValidGridRes() bool           { return s.GridRes > 0 }
func (s *Setup) ValidBoxLength() bool         { return s.BoxLength > 0 }
func (s *Setup) ValidPowerSpectrumFile() bool { return s.PowerSpectrumFile != "" }
func (s *Setup) ValidOmegaM() bool            { return s.OmegaM >= 0 }
func (s *Setup) ValidOmegaL() bool            { return s.OmegaL >= 0 }
func (s *Setup) ValidH100() bool              { return s.H100 > 0 }

func (o *Output) ValidFnameHDF5() bool     { return o.FnameHDF5 != "" }
func (o *Output) ValidFbaseAnalysis() bool { return o.FbaseAnalysis != "" }
func (o *Output) ValidSpecies() bool {
	switch o.Species {
	case "particles", "field_lagrangian", "field_eulerian":
		return true
	}
	return false
}

// ClampLPTorder clamps order to {1,2,3}.
func ClampLPTorder(order int) int {
	if order < 1 {
		return 1
	}
	if order > 3 {
		return 3
	}
	return order
}

// Load reads path into a defaulted Wrapper, validates every required
// key, clamps LPTorder, and forces LPTorder to 2 (with a log warning)
// when SymplecticPT is set and LPTorder isn't already 2, spec.md section
// 6's explicit override rule.
func Load(path string) (*Wrapper, error) {
	w := DefaultWrapper()
	if err := gcfg.ReadFileInto(w, path); err != nil {
		return nil, ferr.Wrap(ferr.Config, err, "read config %q", path)
	}

	if err := w.validate(); err != nil {
		return nil, err
	}

	w.Setup.LPTorder = ClampLPTorder(w.Setup.LPTorder)
	if w.Setup.SymplecticPT && w.Setup.LPTorder != 2 {
		log.Printf("config: SymplecticPT requires LPTorder==2, overriding LPTorder=%d", w.Setup.LPTorder)
		w.Setup.LPTorder = 2
	}

	return w, nil
}

func (w *Wrapper) validate() error {
	if !w.Setup.ValidGridRes() {
		return ferr.New(ferr.Config, "setup.GridRes must be positive, got %d", w.Setup.GridRes)
	}
	if !w.Setup.ValidBoxLength() {
		return ferr.New(ferr.Config, "setup.BoxLength must be positive, got %g", w.Setup.BoxLength)
	}
	if !w.Setup.ValidPowerSpectrumFile() {
		return ferr.New(ferr.Config, "setup.PowerSpectrumFile is required")
	}
	if !w.Setup.ValidOmegaM() {
		return ferr.New(ferr.Config, "setup.OmegaM must be non-negative, got %g", w.Setup.OmegaM)
	}
	if !w.Setup.ValidOmegaL() {
		return ferr.New(ferr.Config, "setup.OmegaL must be non-negative, got %g", w.Setup.OmegaL)
	}
	if !w.Setup.ValidH100() {
		return ferr.New(ferr.Config, "setup.H100 must be positive, got %g", w.Setup.H100)
	}
	if !w.Output.ValidFnameHDF5() {
		return ferr.New(ferr.Config, "output.fname_hdf5 is required")
	}
	if !w.Output.ValidFbaseAnalysis() {
		return ferr.New(ferr.Config, "output.fbase_analysis is required")
	}
	if !w.Output.ValidSpecies() {
		return ferr.New(ferr.Config, "output.species must be one of particles, field_lagrangian, field_eulerian, got %q", w.Output.Species)
	}
	return nil
}
