package noise

import (
	"math"
	"testing"

	"github.com/phil-mansfield/gotetra-ic/internal/grid"
	"github.com/phil-mansfield/gotetra-ic/internal/topology"
)

func TestFillIsDeterministicForFixedSeed(t *testing.T) {
	n, l := 8, 10.0
	g1 := grid.New(n, l, topology.Local{})
	g2 := grid.New(n, l, topology.Local{})

	src := Gaussian{}
	src.Fill(g1, topology.Local{}, 7)
	src.Fill(g2, topology.Local{}, 7)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				if g1.Get(i, j, k) != g2.Get(i, j, k) {
					t.Fatalf("non-deterministic draw at (%d,%d,%d)", i, j, k)
				}
			}
		}
	}
}

func TestFillDiffersAcrossSeeds(t *testing.T) {
	n, l := 8, 10.0
	g1 := grid.New(n, l, topology.Local{})
	g2 := grid.New(n, l, topology.Local{})

	src := Gaussian{}
	src.Fill(g1, topology.Local{}, 1)
	src.Fill(g2, topology.Local{}, 2)

	differs := false
	for i := 0; i < n && !differs; i++ {
		for j := 0; j < n && !differs; j++ {
			for k := 0; k < n; k++ {
				if g1.Get(i, j, k) != g2.Get(i, j, k) {
					differs = true
					break
				}
			}
		}
	}
	if !differs {
		t.Fatal("expected different seeds to produce different fields")
	}
}

func TestFillProducesPlausibleStandardNormalStatistics(t *testing.T) {
	n, l := 24, 10.0
	g := grid.New(n, l, topology.Local{})
	Gaussian{}.Fill(g, topology.Local{}, 42)

	var sum, sumSq float64
	count := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				v := real(g.Get(i, j, k))
				sum += v
				sumSq += v * v
				count++
			}
		}
	}
	mean := sum / count
	variance := sumSq/count - mean*mean

	if math.Abs(mean) > 0.1 {
		t.Fatalf("sample mean = %v, want close to 0", mean)
	}
	if math.Abs(variance-1) > 0.2 {
		t.Fatalf("sample variance = %v, want close to 1", variance)
	}
}
