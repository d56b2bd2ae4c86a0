package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/ports"
)

// DetectorConfig bundles the heuristic calibration for one Detector.
type DetectorConfig struct {
	Indicators domain.IndicatorConfig
	Patterns   domain.PatternConfig
	Detection  domain.DetectionConfig
}

// DefaultDetectorConfig returns the shipped calibration.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Indicators: domain.DefaultIndicatorConfig(),
		Patterns:   domain.DefaultPatternConfig(),
		Detection:  domain.DefaultDetectionConfig(),
	}
}

// Detector sequences one analysis: decode, extract features, score the
// AI indicators, run the scam-pattern rules, aggregate confidence. It
// holds no per-request state and is safe for concurrent use.
type Detector struct {
	decoder   ports.SignalDecoder
	extractor ports.FeatureExtractor
	cfg       DetectorConfig
	log       zerolog.Logger
}

// NewDetector constructs a Detector.
func NewDetector(decoder ports.SignalDecoder, extractor ports.FeatureExtractor, cfg DetectorConfig, log zerolog.Logger) *Detector {
	return &Detector{
		decoder:   decoder,
		extractor: extractor,
		cfg:       cfg,
		log:       log,
	}
}

// Analyze judges the recording at path. It never returns an error: when
// decoding or extraction fails the caller gets the neutral fallback
// result carrying the failure description, so a bad file cannot stall
// the surrounding workflow.
func (d *Detector) Analyze(ctx context.Context, path string) domain.AnalysisResult {
	sig, err := d.decoder.Decode(ctx, path)
	if err != nil {
		d.log.Warn().Err(err).Str("path", path).Msg("decode failed, returning fallback result")
		return domain.FallbackResult(err.Error())
	}

	fv, err := d.extractor.Extract(sig)
	if err != nil {
		d.log.Warn().Err(err).Str("path", path).Msg("feature extraction failed, returning fallback result")
		return domain.FallbackResult(err.Error())
	}

	return d.Judge(fv)
}

// Judge applies the scoring model to an already-extracted feature
// vector. Pure apart from its inputs; exposed for re-scoring stored
// vectors under new calibrations.
func (d *Detector) Judge(fv domain.FeatureVector) domain.AnalysisResult {
	scores := domain.ScoreIndicators(fv, d.cfg.Indicators)
	patterns := domain.DetectPatterns(fv, d.cfg.Patterns)
	confidence := domain.AggregateConfidence(scores, patterns, d.cfg.Detection)

	return domain.AnalysisResult{
		IsAIGenerated: domain.Classify(confidence, d.cfg.Detection),
		Confidence:    confidence,
		ScamPatterns:  patterns,
		Details: domain.AnalysisDetails{
			SpectralFeatures: &scores,
			AudioDuration:    fv.Duration,
			SampleRate:       fv.SampleRate,
		},
	}
}
