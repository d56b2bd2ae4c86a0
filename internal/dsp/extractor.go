package dsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
)

// rolloffFraction is the cumulative-energy fraction defining the
// spectral rolloff frequency.
const rolloffFraction = 0.85

// Extractor computes the feature vector for a signal. It holds only the
// analysis geometry and is safe for concurrent use.
type Extractor struct {
	params Params
}

// NewExtractor returns an Extractor with the given geometry. Zero or
// negative fields fall back to the defaults.
func NewExtractor(p Params) *Extractor {
	def := DefaultParams()
	if p.SampleRate <= 0 {
		p.SampleRate = def.SampleRate
	}
	if p.NFFT <= 1 {
		p.NFFT = def.NFFT
	}
	if p.HopLength <= 0 {
		p.HopLength = def.HopLength
	}
	return &Extractor{params: p}
}

// Extract computes every feature of the vector. Optional sub-features
// (tempo, pitch) degrade to 0 on their own; only an unusable signal
// fails extraction outright.
func (e *Extractor) Extract(sig domain.AudioSignal) (domain.FeatureVector, error) {
	if len(sig.Samples) == 0 {
		return domain.FeatureVector{}, fmt.Errorf("dsp: empty signal: %w", domain.ErrFeatureExtraction)
	}
	if sig.SampleRate <= 0 {
		return domain.FeatureVector{}, fmt.Errorf("dsp: invalid sample rate %d: %w", sig.SampleRate, domain.ErrFeatureExtraction)
	}

	p := e.params
	p.SampleRate = sig.SampleRate

	spec := computeSTFT(sig.Samples, p)
	if spec.frames() == 0 {
		return domain.FeatureVector{}, fmt.Errorf("dsp: no analysis frames: %w", domain.ErrFeatureExtraction)
	}
	power := spec.power()

	centroids := frameCentroids(spec)
	rolloffs := frameRolloffs(spec, rolloffFraction)
	bandwidths := frameBandwidths(spec, centroids)
	zcr := zcrFrames(sig.Samples, p.NFFT, p.HopLength)
	rms := rmsFrames(sig.Samples, p.NFFT, p.HopLength)

	mfcc := mfccFrames(power, p)
	chroma := chromaFrames(power, spec.freqs)
	contrast := contrastFrames(spec)

	energyMean, energyStd := flatMeanStd(power)

	fv := domain.FeatureVector{
		Duration:   sig.Duration(),
		SampleRate: sig.SampleRate,

		SpectralCentroidMean:  finite(stat.Mean(centroids, nil)),
		SpectralCentroidStd:   finite(stat.PopStdDev(centroids, nil)),
		SpectralRolloffMean:   finite(stat.Mean(rolloffs, nil)),
		SpectralBandwidthMean: finite(stat.Mean(bandwidths, nil)),

		ZCRMean: finite(stat.Mean(zcr, nil)),
		ZCRStd:  finite(stat.PopStdDev(zcr, nil)),

		MFCCMean: columnMeans(mfcc, numMFCC),
		MFCCStd:  columnStds(mfcc, numMFCC),

		ChromaMean:           columnMeans(chroma, numPitchClasses),
		SpectralContrastMean: columnMeans(contrast, numContrastBands),

		AudioEnergy:    finite(energyMean),
		AudioEnergyStd: finite(energyStd),

		RMSMean: finite(stat.Mean(rms, nil)),
		RMSStd:  finite(stat.PopStdDev(rms, nil)),

		Tempo:         finite(estimateTempo(spec, p)),
		HarmonicRatio: finite(harmonicRatio(spec)),
		PitchMean:     finite(pitchMean(sig.Samples, p)),
	}
	return fv, nil
}

// columnMeans averages each column of a frames x width matrix.
func columnMeans(rows [][]float64, width int) []float64 {
	out := make([]float64, width)
	if len(rows) == 0 {
		return out
	}
	for _, row := range rows {
		for j := 0; j < width && j < len(row); j++ {
			out[j] += row[j]
		}
	}
	for j := range out {
		out[j] = finite(out[j] / float64(len(rows)))
	}
	return out
}

// columnStds computes the population standard deviation of each column.
func columnStds(rows [][]float64, width int) []float64 {
	out := make([]float64, width)
	if len(rows) == 0 {
		return out
	}
	means := columnMeans(rows, width)
	for _, row := range rows {
		for j := 0; j < width && j < len(row); j++ {
			d := row[j] - means[j]
			out[j] += d * d
		}
	}
	for j := range out {
		out[j] = finite(math.Sqrt(out[j] / float64(len(rows))))
	}
	return out
}

// flatMeanStd computes mean and population std over every cell of a
// matrix without materializing a flattened copy.
func flatMeanStd(rows [][]float64) (mean, std float64) {
	var sum, sumSq, n float64
	for _, row := range rows {
		for _, v := range row {
			sum += v
			sumSq += v * v
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// finite degrades NaN and infinities to 0 so a partially failed
// sub-feature never poisons the vector.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
