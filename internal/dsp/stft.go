package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// spectrogram holds per-frame magnitude spectra. mag is frames x bins
// with bins = NFFT/2+1; freqs holds the bin center frequencies in Hz.
type spectrogram struct {
	mag   [][]float64
	freqs []float64
}

func (s spectrogram) frames() int { return len(s.mag) }

func (s spectrogram) bins() int {
	if len(s.mag) == 0 {
		return 0
	}
	return len(s.mag[0])
}

// power returns the elementwise squared magnitudes.
func (s spectrogram) power() [][]float64 {
	pow := make([][]float64, len(s.mag))
	for i, frame := range s.mag {
		row := make([]float64, len(frame))
		for j, m := range frame {
			row[j] = m * m
		}
		pow[i] = row
	}
	return pow
}

// computeSTFT windows the signal into half-overlapping Hann frames
// centered on hop boundaries and returns the magnitude spectrogram.
// The signal is reflect-padded by NFFT/2 on each side so that frame t
// is centered on sample t*hop, and at least one frame is always
// produced.
func computeSTFT(samples []float64, p Params) spectrogram {
	padded := reflectPad(samples, p.NFFT/2)

	nFrames := 1
	if len(padded) > p.NFFT {
		nFrames = 1 + (len(padded)-p.NFFT)/p.HopLength
	}

	window := hannWindow(p.NFFT)
	fft := fourier.NewFFT(p.NFFT)
	bins := p.NFFT/2 + 1

	mag := make([][]float64, nFrames)
	frame := make([]float64, p.NFFT)
	for t := 0; t < nFrames; t++ {
		start := t * p.HopLength
		for i := 0; i < p.NFFT; i++ {
			if start+i < len(padded) {
				frame[i] = padded[start+i] * window[i]
			} else {
				frame[i] = 0
			}
		}
		coeffs := fft.Coefficients(nil, frame)
		row := make([]float64, bins)
		for k, c := range coeffs {
			row[k] = cmplxAbs(c)
		}
		mag[t] = row
	}

	freqs := make([]float64, bins)
	for k := range freqs {
		freqs[k] = float64(k) * float64(p.SampleRate) / float64(p.NFFT)
	}

	return spectrogram{mag: mag, freqs: freqs}
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// hannWindow returns the periodic Hann window of length n.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// reflectPad mirrors the signal edges outward by pad samples. Signals
// too short to mirror are zero-padded instead.
func reflectPad(samples []float64, pad int) []float64 {
	out := make([]float64, 0, len(samples)+2*pad)
	n := len(samples)
	for i := pad; i > 0; i-- {
		if i < n {
			out = append(out, samples[i])
		} else {
			out = append(out, 0)
		}
	}
	out = append(out, samples...)
	for i := 1; i <= pad; i++ {
		if n-1-i >= 0 {
			out = append(out, samples[n-1-i])
		} else {
			out = append(out, 0)
		}
	}
	return out
}

// frameSignal slices the raw waveform into non-centered frames of
// frameLen samples every hop samples. A signal shorter than frameLen
// yields a single short frame.
func frameSignal(samples []float64, frameLen, hop int) [][]float64 {
	if len(samples) == 0 {
		return nil
	}
	if len(samples) <= frameLen {
		return [][]float64{samples}
	}
	var frames [][]float64
	for start := 0; start+frameLen <= len(samples); start += hop {
		frames = append(frames, samples[start:start+frameLen])
	}
	return frames
}
