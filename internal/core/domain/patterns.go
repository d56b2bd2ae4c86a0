package domain

import "math"

// PatternConfig holds the thresholds for the rule-based scam checks.
// Both rules use strict inequalities: a recording exactly at a boundary
// does not fire the rule.
type PatternConfig struct {
	// HighEnergyThreshold is the mean spectral power above which the
	// high_energy pattern fires.
	HighEnergyThreshold float64
	// HighEnergyGain scales mean power into the pattern confidence.
	HighEnergyGain float64
	// ShortDurationMax is the duration in seconds below which (and
	// above zero) the short_duration pattern fires.
	ShortDurationMax float64
	// ShortDurationConfidence is the fixed confidence of that pattern.
	ShortDurationConfidence float64
}

// DefaultPatternConfig returns the shipped calibration.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		HighEnergyThreshold:     0.1,
		HighEnergyGain:          10,
		ShortDurationMax:        30,
		ShortDurationConfidence: 0.3,
	}
}

// DetectPatterns evaluates each rule independently over the feature
// vector. Rules are not mutually exclusive; the returned order is the
// evaluation order. True scam detection needs a transcript and language
// analysis, which live outside this engine; these checks are a coarse
// acoustic screen only.
func DetectPatterns(fv FeatureVector, cfg PatternConfig) []ScamPattern {
	patterns := []ScamPattern{}
	if p, ok := highEnergyPattern(fv, cfg); ok {
		patterns = append(patterns, p)
	}
	if p, ok := shortDurationPattern(fv, cfg); ok {
		patterns = append(patterns, p)
	}
	return patterns
}

// highEnergyPattern flags unusually loud recordings, a crude proxy for
// urgency tactics.
func highEnergyPattern(fv FeatureVector, cfg PatternConfig) (ScamPattern, bool) {
	energy := fv.AudioEnergy
	if math.IsNaN(energy) || math.IsInf(energy, 0) || energy <= cfg.HighEnergyThreshold {
		return ScamPattern{}, false
	}
	return ScamPattern{
		Type:        PatternHighEnergy,
		Description: "High audio energy detected (possible urgency tactics)",
		Confidence:  math.Min(1.0, energy*cfg.HighEnergyGain),
	}, true
}

// shortDurationPattern flags very short calls.
func shortDurationPattern(fv FeatureVector, cfg PatternConfig) (ScamPattern, bool) {
	if !(fv.Duration > 0) || fv.Duration >= cfg.ShortDurationMax {
		return ScamPattern{}, false
	}
	return ScamPattern{
		Type:        PatternShortDuration,
		Description: "Very short call duration",
		Confidence:  cfg.ShortDurationConfidence,
	}, true
}
