package dsp

import "gonum.org/v1/gonum/stat"

// Tempo search range in beats per minute.
const (
	tempoBPMMin = 30.0
	tempoBPMMax = 300.0
)

// estimateTempo tracks rhythm through the onset-strength envelope
// (half-wave rectified spectral flux) and picks the autocorrelation peak
// in the plausible beat range. It returns 0 when rhythm tracking is
// inapplicable: too few frames, or a flat envelope (steady speech,
// silence).
func estimateTempo(s spectrogram, p Params) float64 {
	nFrames := s.frames()
	if nFrames < 4 {
		return 0
	}

	env := make([]float64, nFrames-1)
	for t := 1; t < nFrames; t++ {
		var flux float64
		for k := range s.mag[t] {
			if d := s.mag[t][k] - s.mag[t-1][k]; d > 0 {
				flux += d
			}
		}
		env[t-1] = flux
	}

	mean := stat.Mean(env, nil)
	if stat.PopStdDev(env, nil) < eps {
		return 0
	}
	for i := range env {
		env[i] -= mean
	}

	framesPerSecond := float64(p.SampleRate) / float64(p.HopLength)
	minLag := int(60 * framesPerSecond / tempoBPMMax)
	if minLag < 1 {
		minLag = 1
	}
	maxLag := int(60 * framesPerSecond / tempoBPMMin)
	if maxLag >= len(env) {
		maxLag = len(env) - 1
	}
	if maxLag < minLag {
		return 0
	}

	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var r float64
		for i := 0; i+lag < len(env); i++ {
			r += env[i] * env[i+lag]
		}
		if r > bestCorr {
			bestCorr = r
			bestLag = lag
		}
	}
	if bestLag == 0 || bestCorr <= 0 {
		return 0
	}
	return 60 * framesPerSecond / float64(bestLag)
}
