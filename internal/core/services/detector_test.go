package services

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/ports"
)

// --- Mocks ---

type mockDecoder struct {
	sig domain.AudioSignal
	err error

	calledPath string
}

func (m *mockDecoder) Decode(ctx context.Context, path string) (domain.AudioSignal, error) {
	m.calledPath = path
	if m.err != nil {
		return domain.AudioSignal{}, m.err
	}
	return m.sig, nil
}

type mockExtractor struct {
	fv  domain.FeatureVector
	err error
}

func (m *mockExtractor) Extract(sig domain.AudioSignal) (domain.FeatureVector, error) {
	if m.err != nil {
		return domain.FeatureVector{}, m.err
	}
	return m.fv, nil
}

func newTestDetector(dec ports.SignalDecoder, ext ports.FeatureExtractor) *Detector {
	return NewDetector(dec, ext, DefaultDetectorConfig(), zerolog.Nop())
}

// --- Tests ---

func TestDetector_Analyze_FallbackOnDecodeFailure(t *testing.T) {
	dec := &mockDecoder{err: ports.DecodeFailedError{Path: "bad.mp3", Reason: "unsupported container"}}
	d := newTestDetector(dec, &mockExtractor{})

	res := d.Analyze(context.Background(), "bad.mp3")

	if res.IsAIGenerated {
		t.Error("fallback result classified as AI-generated")
	}
	if res.Confidence != domain.FallbackConfidence {
		t.Errorf("confidence = %v, want %v", res.Confidence, domain.FallbackConfidence)
	}
	if len(res.ScamPatterns) != 0 || res.ScamPatterns == nil {
		t.Errorf("patterns = %v, want empty slice", res.ScamPatterns)
	}
	if res.Details.Error == "" {
		t.Error("details must describe the decode failure")
	}
}

func TestDetector_Analyze_FallbackOnExtractionFailure(t *testing.T) {
	dec := &mockDecoder{sig: domain.AudioSignal{Samples: []float64{0.1, 0.2}, SampleRate: 22050}}
	ext := &mockExtractor{err: domain.ErrFeatureExtraction}
	d := newTestDetector(dec, ext)

	res := d.Analyze(context.Background(), "speech.wav")

	if res.Confidence != domain.FallbackConfidence || res.IsAIGenerated {
		t.Errorf("got confidence=%v is_ai=%v, want the neutral fallback", res.Confidence, res.IsAIGenerated)
	}
	if dec.calledPath != "speech.wav" {
		t.Errorf("decoder called with %q", dec.calledPath)
	}
}

func TestDetector_Analyze_FullPipeline(t *testing.T) {
	// A vector with maximal regularity everywhere plus both scam
	// patterns: composite 1.0, confidence capped at 1.0.
	fv := domain.FeatureVector{
		Duration:             10,
		SampleRate:           22050,
		SpectralCentroidMean: 1000,
		SpectralCentroidStd:  0,
		MFCCStd:              []float64{0, 0, 0},
		SpectralContrastMean: []float64{5, 5, 5},
		AudioEnergy:          0.5,
		AudioEnergyStd:       0,
	}
	dec := &mockDecoder{sig: domain.AudioSignal{Samples: []float64{0.1}, SampleRate: 22050}}
	d := newTestDetector(dec, &mockExtractor{fv: fv})

	res := d.Analyze(context.Background(), "synthetic.wav")

	if !res.IsAIGenerated {
		t.Error("expected AI classification for maximal regularity")
	}
	if res.Confidence != 1.0 {
		t.Errorf("confidence = %v, want capped 1.0", res.Confidence)
	}
	if len(res.ScamPatterns) != 2 {
		t.Errorf("patterns = %v, want high_energy and short_duration", res.ScamPatterns)
	}
	if res.Details.SpectralFeatures == nil {
		t.Fatal("details missing indicator scores")
	}
	if res.Details.AudioDuration != 10 || res.Details.SampleRate != 22050 {
		t.Errorf("details metadata = %v/%v, want 10/22050",
			res.Details.AudioDuration, res.Details.SampleRate)
	}
}

func TestDetector_Judge_ThresholdDecidesClassification(t *testing.T) {
	tests := []struct {
		name        string
		centroidStd float64
		duration    float64
		wantAI      bool
	}{
		{"low composite stays below threshold", 400, 60, false},
		{"short duration bonus alone is not enough", 400, 10, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Every rule except spectral and temporal regularity is
			// pushed to or past its ceiling.
			fv := domain.FeatureVector{
				Duration:             tc.duration,
				SpectralCentroidStd:  tc.centroidStd,
				ZCRStd:               0.02,
				MFCCStd:              []float64{3},
				SpectralContrastMean: []float64{0, 10, 20},
				AudioEnergy:          0.05,
				AudioEnergyStd:       0.05,
			}
			d := newTestDetector(&mockDecoder{}, &mockExtractor{})
			res := d.Judge(fv)
			if res.IsAIGenerated != tc.wantAI {
				t.Fatalf("is_ai_generated = %v (confidence %v), want %v",
					res.IsAIGenerated, res.Confidence, tc.wantAI)
			}
			if res.Confidence < 0 || res.Confidence > 1 {
				t.Fatalf("confidence %v out of [0,1]", res.Confidence)
			}
		})
	}
}

func TestDetector_Judge_ExactArithmetic(t *testing.T) {
	// Spectral regularity scores 0.5, every other rule is at or past
	// its ceiling: composite 0.125. Short duration adds the 0.1 bonus;
	// the energy is below the high-energy floor.
	fv := domain.FeatureVector{
		Duration:             5,
		SpectralCentroidMean: 1000,
		SpectralCentroidStd:  250,
		ZCRStd:               0.02,
		MFCCStd:              []float64{3},
		SpectralContrastMean: []float64{0, 10, 20},
		AudioEnergy:          0.05,
		AudioEnergyStd:       0.03,
	}
	d := newTestDetector(&mockDecoder{}, &mockExtractor{})
	res := d.Judge(fv)

	want := 0.5*0.25 + 0.1
	if math.Abs(res.Confidence-want) > 1e-12 {
		t.Fatalf("confidence = %v, want %v", res.Confidence, want)
	}
	if res.IsAIGenerated {
		t.Error("0.225 must stay below the 0.6 threshold")
	}
}
