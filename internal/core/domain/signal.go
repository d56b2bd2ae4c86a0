package domain

// AudioSignal is a decoded waveform: mono floating-point samples at a
// known sample rate. It lives for the duration of one analysis and is
// discarded after feature extraction.
type AudioSignal struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the signal length in seconds.
func (s AudioSignal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}
