package dsp

import (
	"math"
	"sort"
)

// Spectral contrast sub-bands are octave-spaced starting at 200 Hz,
// yielding numContrastBands values per frame (the first band covers
// 0..contrastFMin).
const (
	contrastFMin     = 200.0
	numContrastBands = 7
	contrastQuantile = 0.02
)

// contrastFrames measures, per frame and per sub-band, the gap in dB
// between the band's spectral peaks and valleys. Harmonic content shows
// large contrast; noise-like content shows little.
func contrastFrames(s spectrogram) [][]float64 {
	edges := contrastBandEdges(s.freqs)
	out := make([][]float64, s.frames())
	for t, frame := range s.mag {
		row := make([]float64, numContrastBands)
		for b := 0; b < numContrastBands; b++ {
			lo, hi := edges[b], edges[b+1]
			if hi <= lo {
				continue
			}
			band := append([]float64(nil), frame[lo:hi]...)
			sort.Float64s(band)
			q := int(contrastQuantile * float64(len(band)))
			if q < 1 {
				q = 1
			}
			var valley, peak float64
			for i := 0; i < q; i++ {
				valley += band[i]
				peak += band[len(band)-1-i]
			}
			valley /= float64(q)
			peak /= float64(q)
			row[b] = 20 * math.Log10((peak+eps)/(valley+eps))
		}
		out[t] = row
	}
	return out
}

// contrastBandEdges returns numContrastBands+1 bin indices bounding the
// octave sub-bands.
func contrastBandEdges(freqs []float64) []int {
	bins := len(freqs)
	edges := make([]int, numContrastBands+1)
	edges[0] = 0
	cutoff := contrastFMin
	for b := 1; b < numContrastBands; b++ {
		idx := sort.SearchFloat64s(freqs, cutoff)
		if idx > bins {
			idx = bins
		}
		if idx < edges[b-1] {
			idx = edges[b-1]
		}
		edges[b] = idx
		cutoff *= 2
	}
	edges[numContrastBands] = bins
	return edges
}
