// Package dsp implements the short-time spectral analysis behind the
// voice detector: STFT, mel-cepstral, chroma, spectral-contrast, pitch
// and rhythm estimation over a mono waveform.
package dsp

// Params fixes the analysis geometry. One Params value is shared
// read-only across concurrent extractions.
type Params struct {
	SampleRate int
	NFFT       int
	HopLength  int
}

// DefaultParams matches the detector's shipped configuration.
func DefaultParams() Params {
	return Params{
		SampleRate: 22050,
		NFFT:       2048,
		HopLength:  512,
	}
}

const eps = 1e-10
