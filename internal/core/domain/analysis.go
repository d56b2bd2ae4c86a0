package domain

// IndicatorScores holds the six regularity sub-scores and their weighted
// composite. All values are in [0,1].
type IndicatorScores struct {
	SpectralRegularity float64 `json:"spectral_regularity"`
	TemporalRegularity float64 `json:"temporal_regularity"`
	Naturalness        float64 `json:"naturalness"`
	HarmonicStability  float64 `json:"harmonic_stability"`
	FormantConsistency float64 `json:"formant_consistency"`
	ProsodyAnalysis    float64 `json:"prosody_analysis"`
	OverallAIScore     float64 `json:"overall_ai_score"`
}

// Scam pattern categories.
const (
	PatternHighEnergy    = "high_energy"
	PatternShortDuration = "short_duration"
)

// ScamPattern is one tagged rule finding. Patterns are reported in
// detection order, not in order of significance.
type ScamPattern struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// AnalysisDetails carries the indicator breakdown and signal metadata
// alongside a result. On the fallback path only Error is set.
type AnalysisDetails struct {
	SpectralFeatures *IndicatorScores `json:"spectral_features,omitempty"`
	AudioDuration    float64          `json:"audio_duration,omitempty"`
	SampleRate       int              `json:"sample_rate,omitempty"`
	Error            string           `json:"error,omitempty"`
}

// AnalysisResult is the final judgment for one recording. It is immutable
// once produced; callers own it for persistence.
type AnalysisResult struct {
	IsAIGenerated bool            `json:"is_ai_generated"`
	Confidence    float64         `json:"confidence"`
	ScamPatterns  []ScamPattern   `json:"scam_patterns"`
	Details       AnalysisDetails `json:"details"`
}

// FallbackConfidence is the neutral confidence reported when decoding or
// extraction fails and no judgment can be made.
const FallbackConfidence = 0.5

// FallbackResult is the degraded default returned when the input cannot
// be analyzed. The analysis pipeline always answers; a bad file must not
// block the surrounding workflow.
func FallbackResult(reason string) AnalysisResult {
	return AnalysisResult{
		IsAIGenerated: false,
		Confidence:    FallbackConfidence,
		ScamPatterns:  []ScamPattern{},
		Details:       AnalysisDetails{Error: reason},
	}
}
