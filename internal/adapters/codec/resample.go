package codec

// resampleLinear converts samples from srcRate to dstRate by linear
// interpolation. Good enough for analysis features; the detector does
// not resynthesize audio.
func resampleLinear(samples []float64, srcRate, dstRate int) []float64 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(srcRate) / float64(dstRate)
	outLen := int(float64(len(samples)) / ratio)
	if outLen < 1 {
		outLen = 1
	}
	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return out
}
