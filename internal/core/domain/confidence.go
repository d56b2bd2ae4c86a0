package domain

import "math"

// DetectionConfig combines the composite score and pattern findings into
// the final judgment.
type DetectionConfig struct {
	// Threshold is the confidence above which a recording is classified
	// as AI-generated.
	Threshold float64
	// PatternBonus is added to the confidence once per detected pattern.
	PatternBonus float64
}

// DefaultDetectionConfig returns the shipped calibration.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		Threshold:    0.6,
		PatternBonus: 0.1,
	}
}

// AggregateConfidence folds the composite indicator score and the pattern
// count into one bounded confidence value.
func AggregateConfidence(scores IndicatorScores, patterns []ScamPattern, cfg DetectionConfig) float64 {
	bonus := float64(len(patterns)) * cfg.PatternBonus
	return math.Min(1.0, scores.OverallAIScore+bonus)
}

// Classify applies the detection threshold to an aggregated confidence.
func Classify(confidence float64, cfg DetectionConfig) bool {
	return confidence > cfg.Threshold
}
