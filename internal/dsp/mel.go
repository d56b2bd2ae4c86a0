package dsp

import "math"

const (
	numMelBands = 40
	numMFCC     = 13
)

// hzToMel converts Hz to mels (HTK formula).
func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

// melToHz converts mels back to Hz.
func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// melFilterbank builds nBands triangular filters spanning 0..sr/2,
// equally spaced on the mel scale. Rows are filters, columns FFT bins.
func melFilterbank(nBands, nfft, sampleRate int) [][]float64 {
	bins := nfft/2 + 1
	maxMel := hzToMel(float64(sampleRate) / 2)

	// Band edge frequencies: nBands+2 points from 0 to Nyquist.
	edges := make([]float64, nBands+2)
	for i := range edges {
		edges[i] = melToHz(maxMel * float64(i) / float64(nBands+1))
	}

	binFreq := func(k int) float64 {
		return float64(k) * float64(sampleRate) / float64(nfft)
	}

	fb := make([][]float64, nBands)
	for b := 0; b < nBands; b++ {
		row := make([]float64, bins)
		lo, mid, hi := edges[b], edges[b+1], edges[b+2]
		for k := 0; k < bins; k++ {
			f := binFreq(k)
			switch {
			case f <= lo || f >= hi:
				// outside the triangle
			case f <= mid:
				if mid > lo {
					row[k] = (f - lo) / (mid - lo)
				}
			default:
				if hi > mid {
					row[k] = (hi - f) / (hi - mid)
				}
			}
		}
		fb[b] = row
	}
	return fb
}

// mfccFrames computes numMFCC cepstral coefficients per frame: mel
// filterbank energies of the power spectrum, log-compressed, then an
// orthonormal DCT-II.
func mfccFrames(power [][]float64, p Params) [][]float64 {
	fb := melFilterbank(numMelBands, p.NFFT, p.SampleRate)
	out := make([][]float64, len(power))
	melEnergy := make([]float64, numMelBands)
	for t, frame := range power {
		for b, filter := range fb {
			var sum float64
			for k, w := range filter {
				if w > 0 && k < len(frame) {
					sum += w * frame[k]
				}
			}
			melEnergy[b] = math.Log(sum + eps)
		}
		out[t] = dctII(melEnergy, numMFCC)
	}
	return out
}

// dctII computes the first nCoeff coefficients of the orthonormal
// type-II discrete cosine transform.
func dctII(x []float64, nCoeff int) []float64 {
	n := len(x)
	out := make([]float64, nCoeff)
	scale0 := math.Sqrt(1 / float64(n))
	scale := math.Sqrt(2 / float64(n))
	for c := 0; c < nCoeff; c++ {
		var sum float64
		for i, v := range x {
			sum += v * math.Cos(math.Pi*float64(c)*(float64(i)+0.5)/float64(n))
		}
		if c == 0 {
			out[c] = sum * scale0
		} else {
			out[c] = sum * scale
		}
	}
	return out
}
