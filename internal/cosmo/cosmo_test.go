package cosmo

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeTable(t *testing.T, rows [][2]float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pk.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	for _, r := range rows {
		if _, err := fmt.Fprintf(f, "%g %g\n", r[0], r[1]); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return path
}

func TestLoadLinearPowerSpectrumRejectsNonIncreasingK(t *testing.T) {
	path := writeTable(t, [][2]float64{{0.1, 1}, {0.05, 2}})
	if _, err := LoadLinearPowerSpectrum(path); err == nil {
		t.Fatal("expected an error for non-increasing k")
	}
}

func TestLoadLinearPowerSpectrumRejectsNegativeP(t *testing.T) {
	path := writeTable(t, [][2]float64{{0.1, 1}, {0.2, -1}})
	if _, err := LoadLinearPowerSpectrum(path); err == nil {
		t.Fatal("expected an error for negative P(k)")
	}
}

func TestAmplitudeMatchesSqrtAtSamples(t *testing.T) {
	path := writeTable(t, [][2]float64{{0.01, 100}, {0.1, 10}, {1.0, 1}})
	lps, err := LoadLinearPowerSpectrum(path)
	if err != nil {
		t.Fatalf("LoadLinearPowerSpectrum: %v", err)
	}

	for _, row := range [][2]float64{{0.01, 100}, {0.1, 10}, {1.0, 1}} {
		got := lps.Amplitude(row[0])
		want := math.Sqrt(row[1])
		if math.Abs(got-want) > 1e-6*(1+want) {
			t.Fatalf("Amplitude(%g) = %v, want %v", row[0], got, want)
		}
	}
}

func TestAmplitudeZeroOutsideRange(t *testing.T) {
	path := writeTable(t, [][2]float64{{0.1, 1}, {1.0, 1}})
	lps, err := LoadLinearPowerSpectrum(path)
	if err != nil {
		t.Fatalf("LoadLinearPowerSpectrum: %v", err)
	}
	if got := lps.Amplitude(0.001); got != 0 {
		t.Fatalf("Amplitude below range = %v, want 0", got)
	}
	if got := lps.Amplitude(100); got != 0 {
		t.Fatalf("Amplitude above range = %v, want 0", got)
	}
}

func TestAmplitudeInterpolatesLogLog(t *testing.T) {
	// A pure power law P(k) = k^-2 is exactly log-log linear, so the
	// midpoint sample should match the analytic value closely.
	path := writeTable(t, [][2]float64{
		{0.01, math.Pow(0.01, -2)},
		{0.1, math.Pow(0.1, -2)},
		{1.0, math.Pow(1.0, -2)},
	})
	lps, err := LoadLinearPowerSpectrum(path)
	if err != nil {
		t.Fatalf("LoadLinearPowerSpectrum: %v", err)
	}

	k := 0.03
	want := math.Sqrt(math.Pow(k, -2))
	got := lps.Amplitude(k)
	if math.Abs(got-want) > 1e-3*want {
		t.Fatalf("Amplitude(%g) = %v, want %v (power-law interpolation)", k, got, want)
	}
}

func TestSamplesRoundTripsLoadedTable(t *testing.T) {
	path := writeTable(t, [][2]float64{{0.01, 100}, {0.1, 10}, {1.0, 1}})
	lps, err := LoadLinearPowerSpectrum(path)
	if err != nil {
		t.Fatalf("LoadLinearPowerSpectrum: %v", err)
	}
	k, p := lps.Samples()
	if len(k) != 3 || len(p) != 3 {
		t.Fatalf("Samples lengths = %d/%d, want 3/3", len(k), len(p))
	}
	if math.Abs(k[1]-0.1) > 1e-6 || math.Abs(p[1]-10) > 1e-6 {
		t.Fatalf("Samples()[1] = (%g, %g), want (0.1, 10)", k[1], p[1])
	}
}

func TestGrowthFactorNormalizedToOneToday(t *testing.T) {
	d := GrowthFactor(1.0, 0.3, 0.7)
	if math.Abs(d-1) > 1e-10 {
		t.Fatalf("GrowthFactor(1, ...) = %v, want 1", d)
	}
}

func TestGrowthFactorIncreasesWithScaleFactor(t *testing.T) {
	d1 := GrowthFactor(0.5, 0.3, 0.7)
	d2 := GrowthFactor(1.0, 0.3, 0.7)
	if !(d1 < d2) {
		t.Fatalf("expected growth factor to increase with a: D(0.5)=%v, D(1)=%v", d1, d2)
	}
}

func TestVelocityFactorPositive(t *testing.T) {
	vf := VelocityFactor(0.5, 0.3, 0.7)
	if vf <= 0 {
		t.Fatalf("VelocityFactor = %v, want positive", vf)
	}
}

func TestVelocityFactorEinsteinDeSitter(t *testing.T) {
	// Omega_m=1, Omega_L=0 (EdS): f=1 exactly, H(a)=H0*a^-1.5, so
	// v_f(a) = a^2 * a^-1.5 * 1 = a^0.5.
	a := 0.4
	got := VelocityFactor(a, 1.0, 0.0)
	want := math.Sqrt(a)
	if math.Abs(got-want) > 1e-8 {
		t.Fatalf("VelocityFactor(EdS) = %v, want %v", got, want)
	}
}
