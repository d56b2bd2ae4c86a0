package dsp

import "math"

const numPitchClasses = 12

// chromaFrames folds the power spectrogram onto the twelve pitch
// classes. Each frame is normalized by its own maximum so a frame's
// chroma values lie in [0,1]; silent frames stay zero.
func chromaFrames(power [][]float64, freqs []float64) [][]float64 {
	// Precompute each bin's pitch class. Bins below the audible band
	// map to -1 and are skipped.
	classes := make([]int, len(freqs))
	for k, f := range freqs {
		if f < 20 {
			classes[k] = -1
			continue
		}
		midi := 69 + 12*math.Log2(f/440)
		pc := int(math.Round(midi)) % numPitchClasses
		if pc < 0 {
			pc += numPitchClasses
		}
		classes[k] = pc
	}

	out := make([][]float64, len(power))
	for t, frame := range power {
		row := make([]float64, numPitchClasses)
		for k, pw := range frame {
			if k < len(classes) && classes[k] >= 0 {
				row[classes[k]] += pw
			}
		}
		maxVal := 0.0
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}
		if maxVal > eps {
			for i := range row {
				row[i] /= maxVal
			}
		}
		out[t] = row
	}
	return out
}
