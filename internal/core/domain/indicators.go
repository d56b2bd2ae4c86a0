package domain

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// IndicatorWeights is the fixed linear combination producing the
// composite score. The defaults sum to 1.0.
type IndicatorWeights struct {
	SpectralRegularity float64
	TemporalRegularity float64
	Naturalness        float64
	HarmonicStability  float64
	FormantConsistency float64
	ProsodyAnalysis    float64
}

// IndicatorConfig holds the dispersion thresholds for the six regularity
// rules. The working hypothesis is that synthesized speech varies less
// than natural speech, so each rule maps a dispersion statistic below its
// ceiling to a score in (0,1]; at or above the ceiling the score is 0.
//
// The thresholds are hand-picked heuristics with no labeled-data
// validation behind them. Treat them as tunable configuration, not
// ground truth.
type IndicatorConfig struct {
	// CentroidStdCeiling bounds the spectral centroid std in Hz.
	CentroidStdCeiling float64
	// ZCRStdCeiling bounds the zero-crossing-rate std.
	ZCRStdCeiling float64
	// MFCCStdCeiling bounds the mean of the per-coefficient MFCC stds.
	MFCCStdCeiling float64
	// ContrastVarCeiling bounds the variance of the spectral-contrast
	// band means.
	ContrastVarCeiling float64
	// CentroidCVCeiling bounds the centroid coefficient of variation.
	CentroidCVCeiling float64
	// EnergyCVCeiling bounds the energy coefficient of variation.
	EnergyCVCeiling float64

	Weights IndicatorWeights
}

// DefaultIndicatorConfig returns the calibration the detector ships with.
func DefaultIndicatorConfig() IndicatorConfig {
	return IndicatorConfig{
		CentroidStdCeiling: 500,
		ZCRStdCeiling:      0.01,
		MFCCStdCeiling:     2.0,
		ContrastVarCeiling: 10,
		CentroidCVCeiling:  0.1,
		EnergyCVCeiling:    0.3,
		Weights: IndicatorWeights{
			SpectralRegularity: 0.25,
			TemporalRegularity: 0.20,
			Naturalness:        0.20,
			HarmonicStability:  0.15,
			FormantConsistency: 0.10,
			ProsodyAnalysis:    0.10,
		},
	}
}

// ScoreIndicators maps a feature vector to the six sub-scores and their
// weighted composite. It never fails: a malformed statistic zeroes its
// own sub-score and the composite is still produced.
func ScoreIndicators(fv FeatureVector, cfg IndicatorConfig) IndicatorScores {
	s := IndicatorScores{
		SpectralRegularity: spectralRegularity(fv, cfg),
		TemporalRegularity: temporalRegularity(fv, cfg),
		Naturalness:        naturalness(fv, cfg),
		HarmonicStability:  harmonicStability(fv, cfg),
		FormantConsistency: formantConsistency(fv, cfg),
		ProsodyAnalysis:    prosodyAnalysis(fv, cfg),
	}
	w := cfg.Weights
	s.OverallAIScore = clamp01(
		s.SpectralRegularity*w.SpectralRegularity +
			s.TemporalRegularity*w.TemporalRegularity +
			s.Naturalness*w.Naturalness +
			s.HarmonicStability*w.HarmonicStability +
			s.FormantConsistency*w.FormantConsistency +
			s.ProsodyAnalysis*w.ProsodyAnalysis)
	return s
}

// spectralRegularity scores low frame-to-frame variation of the spectral
// centroid.
func spectralRegularity(fv FeatureVector, cfg IndicatorConfig) float64 {
	return ceilingScore(fv.SpectralCentroidStd, cfg.CentroidStdCeiling)
}

// temporalRegularity scores low variation of the zero-crossing rate.
func temporalRegularity(fv FeatureVector, cfg IndicatorConfig) float64 {
	return ceilingScore(fv.ZCRStd, cfg.ZCRStdCeiling)
}

// naturalness scores low average variation of the MFCC coefficients.
// Human timbre drifts; a flat cepstral profile is suspicious.
func naturalness(fv FeatureVector, cfg IndicatorConfig) float64 {
	if len(fv.MFCCStd) == 0 {
		return 0
	}
	return ceilingScore(stat.Mean(fv.MFCCStd, nil), cfg.MFCCStdCeiling)
}

// harmonicStability scores low variance across the spectral-contrast
// band means.
func harmonicStability(fv FeatureVector, cfg IndicatorConfig) float64 {
	if len(fv.SpectralContrastMean) == 0 {
		return 0
	}
	variance := stat.PopVariance(fv.SpectralContrastMean, nil)
	return ceilingScore(variance, cfg.ContrastVarCeiling)
}

// formantConsistency scores a low coefficient of variation of the
// spectral centroid, a scale-free stand-in for formant movement.
func formantConsistency(fv FeatureVector, cfg IndicatorConfig) float64 {
	if !(fv.SpectralCentroidMean > 0) {
		return 0
	}
	cv := fv.SpectralCentroidStd / fv.SpectralCentroidMean
	return ceilingScore(cv, cfg.CentroidCVCeiling)
}

// prosodyAnalysis scores a low coefficient of variation of the spectral
// power, a stand-in for the energy swings of natural prosody.
func prosodyAnalysis(fv FeatureVector, cfg IndicatorConfig) float64 {
	if !(fv.AudioEnergy > 0) {
		return 0
	}
	cv := fv.AudioEnergyStd / fv.AudioEnergy
	return ceilingScore(cv, cfg.EnergyCVCeiling)
}

// ceilingScore maps a dispersion statistic below its ceiling to
// (ceiling-value)/ceiling, clamped to [0,1]. At or above the ceiling,
// or for non-finite input, the score is 0.
func ceilingScore(value, ceiling float64) float64 {
	if ceiling <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	if value >= ceiling {
		return 0
	}
	return clamp01((ceiling - value) / ceiling)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
