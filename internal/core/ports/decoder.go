package ports

import (
	"context"
	"fmt"

	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
)

// DecodeFailedError carries the offending path and reason for a failed
// audio decode. It matches domain.ErrDecode under errors.Is.
type DecodeFailedError struct {
	Path   string
	Reason string
}

func (e DecodeFailedError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode failed: %s", e.Reason)
	}
	return fmt.Sprintf("decode failed for %q: %s", e.Path, e.Reason)
}

func (e DecodeFailedError) Is(target error) bool {
	return target == domain.ErrDecode
}

// SignalDecoder turns an audio resource into a mono waveform resampled
// to the decoder's configured target rate. Decoding either fully
// succeeds or fails with an error wrapping domain.ErrNotFound or
// domain.ErrDecode; there are no partial results.
type SignalDecoder interface {
	Decode(ctx context.Context, path string) (domain.AudioSignal, error)
}

// FeatureExtractor computes the fixed feature vector for a signal.
// A total signal-processing failure wraps domain.ErrFeatureExtraction.
type FeatureExtractor interface {
	Extract(sig domain.AudioSignal) (domain.FeatureVector, error)
}
