package output

import (
	"bufio"
	"fmt"
	"os"

	"github.com/phil-mansfield/gotetra-ic/internal/ferr"
)

// ASCII is the diagnostics sink: two-column k/P(k) dumps named
// "<fbase_analysis>_powerspec_<tag>.txt", one file per call.
type ASCII struct {
	fbase string
}

// NewASCII constructs an ASCII diagnostics sink writing files under the
// output.fbase_analysis prefix.
func NewASCII(fbase string) *ASCII { return &ASCII{fbase: fbase} }

// WritePowerSpectrum writes a two-column ASCII power spectrum file. k and
// p must have equal length.
func (a *ASCII) WritePowerSpectrum(tag string, k, p []float64) error {
	if len(k) != len(p) {
		return ferr.New(ferr.Shape, "power spectrum k/p length mismatch: %d vs %d", len(k), len(p))
	}

	path := fmt.Sprintf("%s_powerspec_%s.txt", a.fbase, tag)
	f, err := os.Create(path)
	if err != nil {
		return ferr.Wrap(ferr.IO, err, "create %q", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := range k {
		if _, err := fmt.Fprintf(w, "%.8e %.8e\n", k[i], p[i]); err != nil {
			return ferr.Wrap(ferr.IO, err, "write %q", path)
		}
	}
	return w.Flush()
}
