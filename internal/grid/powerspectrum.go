package grid

import (
	"math"
	"sort"
)

// PowerSpectrum bins |F(k)|^2/volume into spherical k-shells of width
// deltaK = 2*pi/L, reducing across the topology, per spec.md section 4.1.
// It does not write to disk; RunDiagnostics (internal/emit) routes the
// result through the output.DiagnosticsSink contract instead.
func (g *DistGrid) PowerSpectrum() (kCenters, power []float64) {
	g.requireState(KSpace, "PowerSpectrum")

	deltaK := 2 * math.Pi / g.l
	nyquist := math.Pi * float64(g.n) / g.l
	nBins := int(nyquist/deltaK) + 2

	sums := make([]float64, nBins)
	counts := make([]float64, nBins)

	for iLocal := 0; iLocal < g.count; iLocal++ {
		i := g.offset + iLocal
		for j := 0; j < g.n; j++ {
			for k := 0; k < g.n; k++ {
				kv := Wavevector(Index{i, j, k}, g.n, g.l)
				kmag := math.Sqrt(kv[0]*kv[0] + kv[1]*kv[1] + kv[2]*kv[2])
				bin := int(kmag / deltaK)
				if bin >= nBins {
					continue
				}
				v := g.data[g.flat(iLocal, j, k)]
				sums[bin] += real(v)*real(v) + imag(v)*imag(v)
				counts[bin]++
			}
		}
	}

	volume := g.l * g.l * g.l

	kCenters = make([]float64, 0, nBins)
	power = make([]float64, 0, nBins)
	for b := 0; b < nBins; b++ {
		total := g.topo.AllReduceSum(sums[b])
		n := g.topo.AllReduceSum(counts[b])
		if n == 0 {
			continue
		}
		kCenters = append(kCenters, (float64(b)+0.5)*deltaK)
		power = append(power, total/n/volume)
	}

	sort.Sort(bySortedK{kCenters, power})
	return kCenters, power
}

type bySortedK struct{ k, p []float64 }

func (s bySortedK) Len() int           { return len(s.k) }
func (s bySortedK) Less(i, j int) bool { return s.k[i] < s.k[j] }
func (s bySortedK) Swap(i, j int) {
	s.k[i], s.k[j] = s.k[j], s.k[i]
	s.p[i], s.p[j] = s.p[j], s.p[i]
}
