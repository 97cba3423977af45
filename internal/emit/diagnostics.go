package emit

import (
	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/output"
)

// RunDiagnostics bins g's power spectrum and writes it under tag through
// diag, the collective operation spec.md section 4.1's
// power_spectrum_write names, routed through the output.DiagnosticsSink
// contract so that the fbase_analysis naming convention lives in one
// place.
func RunDiagnostics(g *grid.DistGrid, tag string, diag output.DiagnosticsSink) error {
	k, p := g.PowerSpectrum()
	return diag.WritePowerSpectrum(tag, k, p)
}
