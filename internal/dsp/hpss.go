package dsp

import "sort"

// hpssKernel is the median-filter length used for the
// harmonic/percussive split.
const hpssKernel = 17

// harmonicRatio splits the magnitude spectrogram into harmonic and
// percussive components by median filtering along time and frequency
// respectively, then returns the harmonic share of the total masked
// energy. The epsilon keeps silent input at exactly 0.
func harmonicRatio(s spectrogram) float64 {
	nFrames, nBins := s.frames(), s.bins()
	if nFrames == 0 || nBins == 0 {
		return 0
	}

	// Harmonic enhancement: median across time at each frequency bin.
	harm := make([][]float64, nFrames)
	for t := range harm {
		harm[t] = make([]float64, nBins)
	}
	column := make([]float64, nFrames)
	for k := 0; k < nBins; k++ {
		for t := 0; t < nFrames; t++ {
			column[t] = s.mag[t][k]
		}
		filtered := medianFilter(column, hpssKernel)
		for t := 0; t < nFrames; t++ {
			harm[t][k] = filtered[t]
		}
	}

	// Percussive enhancement: median across frequency in each frame.
	var sumHarm, sumPerc float64
	for t := 0; t < nFrames; t++ {
		perc := medianFilter(s.mag[t], hpssKernel)
		for k := 0; k < nBins; k++ {
			// Hard masks partition each cell's magnitude.
			if harm[t][k] >= perc[k] {
				sumHarm += s.mag[t][k]
			} else {
				sumPerc += s.mag[t][k]
			}
		}
	}

	return sumHarm / (sumHarm + sumPerc + eps)
}

// medianFilter applies a running median of the given odd kernel length,
// clamping the window at the edges.
func medianFilter(x []float64, kernel int) []float64 {
	n := len(x)
	out := make([]float64, n)
	half := kernel / 2
	window := make([]float64, 0, kernel)
	for i := 0; i < n; i++ {
		lo, hi := i-half, i+half+1
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		window = append(window[:0], x[lo:hi]...)
		sort.Float64s(window)
		mid := len(window) / 2
		if len(window)%2 == 1 {
			out[i] = window[mid]
		} else {
			out[i] = 0.5 * (window[mid-1] + window[mid])
		}
	}
	return out
}
