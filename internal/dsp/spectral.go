package dsp

import "math"

// frameCentroids returns the magnitude-weighted mean frequency of each
// frame. Silent frames yield 0.
func frameCentroids(s spectrogram) []float64 {
	out := make([]float64, s.frames())
	for t, frame := range s.mag {
		var num, den float64
		for k, m := range frame {
			num += s.freqs[k] * m
			den += m
		}
		if den > eps {
			out[t] = num / den
		}
	}
	return out
}

// frameRolloffs returns, per frame, the frequency below which the given
// fraction of the spectral energy lies.
func frameRolloffs(s spectrogram, fraction float64) []float64 {
	out := make([]float64, s.frames())
	for t, frame := range s.mag {
		var total float64
		for _, m := range frame {
			total += m * m
		}
		if total <= eps {
			continue
		}
		target := fraction * total
		var cum float64
		for k, m := range frame {
			cum += m * m
			if cum >= target {
				out[t] = s.freqs[k]
				break
			}
		}
	}
	return out
}

// frameBandwidths returns the magnitude-weighted spread around each
// frame's centroid.
func frameBandwidths(s spectrogram, centroids []float64) []float64 {
	out := make([]float64, s.frames())
	for t, frame := range s.mag {
		var num, den float64
		for k, m := range frame {
			d := s.freqs[k] - centroids[t]
			num += m * d * d
			den += m
		}
		if den > eps {
			out[t] = math.Sqrt(num / den)
		}
	}
	return out
}

// zcrFrames returns the per-frame zero-crossing rate of the raw
// waveform: sign changes divided by frame length.
func zcrFrames(samples []float64, frameLen, hop int) []float64 {
	frames := frameSignal(samples, frameLen, hop)
	out := make([]float64, len(frames))
	for t, frame := range frames {
		if len(frame) == 0 {
			continue
		}
		crossings := 0
		for i := 1; i < len(frame); i++ {
			if (frame[i-1] >= 0) != (frame[i] >= 0) {
				crossings++
			}
		}
		out[t] = float64(crossings) / float64(len(frame))
	}
	return out
}

// rmsFrames returns the per-frame root-mean-square energy of the raw
// waveform.
func rmsFrames(samples []float64, frameLen, hop int) []float64 {
	frames := frameSignal(samples, frameLen, hop)
	out := make([]float64, len(frames))
	for t, frame := range frames {
		if len(frame) == 0 {
			continue
		}
		var sum float64
		for _, x := range frame {
			sum += x * x
		}
		out[t] = math.Sqrt(sum / float64(len(frame)))
	}
	return out
}
