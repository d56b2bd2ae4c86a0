package dsp

import "math"

// Pitch search range in Hz. Wide enough for speech and most singing.
const (
	pitchFMin = 50.0
	pitchFMax = 2000.0

	// voicingThreshold is the minimum normalized autocorrelation peak
	// for a frame to count as voiced.
	voicingThreshold = 0.5
)

// pitchMean estimates the fundamental frequency of each frame by
// normalized autocorrelation and returns the mean over voiced frames,
// or 0 when no frame is voiced.
func pitchMean(samples []float64, p Params) float64 {
	frames := frameSignal(samples, p.NFFT, p.HopLength)

	minLag := int(float64(p.SampleRate) / pitchFMax)
	if minLag < 2 {
		minLag = 2
	}
	maxLag := int(float64(p.SampleRate) / pitchFMin)

	var sum float64
	voiced := 0
	for _, frame := range frames {
		if f0 := framePitch(frame, p.SampleRate, minLag, maxLag); f0 > 0 {
			sum += f0
			voiced++
		}
	}
	if voiced == 0 {
		return 0
	}
	return sum / float64(voiced)
}

func framePitch(frame []float64, sampleRate, minLag, maxLag int) float64 {
	if maxLag >= len(frame) {
		maxLag = len(frame) - 1
	}
	if maxLag < minLag {
		return 0
	}

	var r0 float64
	for _, x := range frame {
		r0 += x * x
	}
	if r0 < eps {
		return 0
	}

	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var r float64
		for i := 0; i+lag < len(frame); i++ {
			r += frame[i] * frame[i+lag]
		}
		if norm := r / r0; norm > bestCorr {
			bestCorr = norm
			bestLag = lag
		}
	}
	if bestLag == 0 || bestCorr < voicingThreshold {
		return 0
	}
	return math.Min(float64(sampleRate)/float64(bestLag), pitchFMax)
}
