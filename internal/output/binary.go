package output

import (
	"bufio"
	"encoding/binary"
	"os"
	"sync"

	"github.com/phil-mansfield/gotetra-ic/internal/ferr"
)

// CosmoParams is the small cosmology header block stamped into every
// .gtic file, mirroring catalog.go's CosmologyHeader.
type CosmoParams struct {
	OmegaM, OmegaL, H100 float64
}

type particleHeader struct {
	CountWidth int64
	TotalWidth int64
	OmegaM     float64
	OmegaL     float64
	H100       float64
	BCC        int32
	Species    int32
}

type datasetEntry struct {
	Offset int64
	Length int64
}

// Binary is the .gtic file Sink: particle species write a header
// followed by a flat Particle dump, field species write a small
// directory of named flat float64 payloads. This stands in for the
// out-of-scope HDF5 backend (see DESIGN.md); a real HDF5 Sink would
// satisfy the same interface.
type Binary struct {
	path             string
	posUnit, velUnit float64
	cosmo            CosmoParams
	bcc              bool

	mu      sync.Mutex
	fields  map[string][]float64
	order   []string
	written bool
}

// NewBinary constructs a Binary sink writing to path.
func NewBinary(path string, posUnit, velUnit float64, cosmo CosmoParams, bcc bool) *Binary {
	return &Binary{
		path:    path,
		posUnit: posUnit,
		velUnit: velUnit,
		cosmo:   cosmo,
		bcc:     bcc,
		fields:  make(map[string][]float64),
	}
}

func (b *Binary) WriteSpeciesAs(species string) (SpeciesKind, error) { return ParseSpeciesKind(species) }
func (b *Binary) PositionUnit() float64                              { return b.posUnit }
func (b *Binary) VelocityUnit() float64                              { return b.velUnit }

// WriteGridData buffers a named dataset; the directory and payloads are
// written together when Close is called, since the directory's offsets
// cannot be known until every dataset has arrived.
func (b *Binary) WriteGridData(field, species, component string, data []float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	name := field
	if component != "" {
		name = field + "_" + component
	}
	if _, exists := b.fields[name]; !exists {
		b.order = append(b.order, name)
	}
	b.fields[name] = data
	return nil
}

// WriteParticleData writes the header and flat particle buffer
// immediately; unlike WriteGridData, no directory is needed because the
// particle buffer is the entire file payload.
func (b *Binary) WriteParticleData(buf []Particle, species string) error {
	kind, err := ParseSpeciesKind(species)
	if err != nil {
		return err
	}

	f, err := os.Create(b.path)
	if err != nil {
		return ferr.Wrap(ferr.IO, err, "create %q", b.path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	h := particleHeader{
		CountWidth: int64(len(buf)),
		TotalWidth: int64(len(buf)), // single-rank Topology; see DESIGN.md
		OmegaM:     b.cosmo.OmegaM,
		OmegaL:     b.cosmo.OmegaL,
		H100:       b.cosmo.H100,
		BCC:        boolToInt32(b.bcc),
		Species:    int32(kind),
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return ferr.Wrap(ferr.IO, err, "write header %q", b.path)
	}
	if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
		return ferr.Wrap(ferr.IO, err, "write particles %q", b.path)
	}
	if err := w.Flush(); err != nil {
		return ferr.Wrap(ferr.IO, err, "flush %q", b.path)
	}

	b.mu.Lock()
	b.written = true
	b.mu.Unlock()
	return nil
}

// Close flushes any buffered field datasets as a directory + payload
// file. It is a no-op for a sink that already wrote particle data.
func (b *Binary) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.written || len(b.fields) == 0 {
		return nil
	}

	f, err := os.Create(b.path)
	if err != nil {
		return ferr.Wrap(ferr.IO, err, "create %q", b.path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	entries := make([]datasetEntry, len(b.order))
	var offset int64
	for i, name := range b.order {
		entries[i] = datasetEntry{Offset: offset, Length: int64(len(b.fields[name]))}
		offset += int64(len(b.fields[name])) * 8
	}

	if err := binary.Write(w, binary.LittleEndian, int64(len(b.order))); err != nil {
		return ferr.Wrap(ferr.IO, err, "write directory count %q", b.path)
	}
	for i, name := range b.order {
		var nameBuf [64]byte
		copy(nameBuf[:], name)
		if err := binary.Write(w, binary.LittleEndian, nameBuf); err != nil {
			return ferr.Wrap(ferr.IO, err, "write directory name %q", b.path)
		}
		if err := binary.Write(w, binary.LittleEndian, entries[i]); err != nil {
			return ferr.Wrap(ferr.IO, err, "write directory entry %q", b.path)
		}
	}
	for _, name := range b.order {
		if err := binary.Write(w, binary.LittleEndian, b.fields[name]); err != nil {
			return ferr.Wrap(ferr.IO, err, "write dataset %q", name)
		}
	}

	b.written = true
	return w.Flush()
}

func boolToInt32(v bool) int32 {
	if v {
		return 1
	}
	return 0
}
