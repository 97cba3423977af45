package output

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestParseSpeciesKindRejectsUnknown(t *testing.T) {
	if _, err := ParseSpeciesKind("ghosts"); err == nil {
		t.Fatal("expected an error for an unknown species string")
	}
	kind, err := ParseSpeciesKind("field_eulerian")
	if err != nil || kind != SpeciesFieldEulerian {
		t.Fatalf("got (%v, %v), want (SpeciesFieldEulerian, nil)", kind, err)
	}
}

func TestBinaryWriteParticleDataRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gtic")
	b := NewBinary(path, 1.0, 2.0, CosmoParams{OmegaM: 0.3, OmegaL: 0.7, H100: 0.7}, true)

	buf := []Particle{
		{ID: 0, Position: [3]float32{1, 2, 3}, Velocity: [3]float32{4, 5, 6}},
		{ID: 1, Position: [3]float32{7, 8, 9}, Velocity: [3]float32{10, 11, 12}},
	}
	if err := b.WriteParticleData(buf, "particles"); err != nil {
		t.Fatalf("WriteParticleData: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var h particleHeader
	if err := binary.Read(f, binary.LittleEndian, &h); err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.CountWidth != 2 || h.TotalWidth != 2 {
		t.Fatalf("header counts = %d/%d, want 2/2", h.CountWidth, h.TotalWidth)
	}
	if h.BCC != 1 {
		t.Fatalf("header BCC = %d, want 1", h.BCC)
	}
	if h.Species != int32(SpeciesParticles) {
		t.Fatalf("header species = %d, want %d", h.Species, SpeciesParticles)
	}

	got := make([]Particle, 2)
	if err := binary.Read(f, binary.LittleEndian, &got); err != nil {
		t.Fatalf("read particles: %v", err)
	}
	for i := range buf {
		if got[i] != buf[i] {
			t.Fatalf("particle %d = %+v, want %+v", i, got[i], buf[i])
		}
	}
}

func TestBinaryWriteGridDataDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.gtic")
	b := NewBinary(path, 1.0, 1.0, CosmoParams{}, false)

	if err := b.WriteGridData("density", "field_eulerian", "", []float64{1, 2, 3}); err != nil {
		t.Fatalf("WriteGridData density: %v", err)
	}
	if err := b.WriteGridData("velocity", "field_eulerian", "x", []float64{4, 5}); err != nil {
		t.Fatalf("WriteGridData velocity: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var count int64
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
		t.Fatalf("read directory count: %v", err)
	}
	if count != 2 {
		t.Fatalf("directory count = %d, want 2", count)
	}
}

func TestASCIIWritePowerSpectrumRejectsLengthMismatch(t *testing.T) {
	a := NewASCII(filepath.Join(t.TempDir(), "run"))
	if err := a.WritePowerSpectrum("matter", []float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected a shape error for mismatched k/p lengths")
	}
}

func TestASCIIWritePowerSpectrumWritesTwoColumns(t *testing.T) {
	dir := t.TempDir()
	a := NewASCII(filepath.Join(dir, "run"))
	k := []float64{0.1, 0.2, 0.3}
	p := []float64{10, 20, 30}
	if err := a.WritePowerSpectrum("matter", k, p); err != nil {
		t.Fatalf("WritePowerSpectrum: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "run_powerspec_matter.txt"))
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty power spectrum file")
	}
}
