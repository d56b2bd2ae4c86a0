// Package codec implements the signal-loading adapter: it decodes an
// audio file into a mono waveform resampled to the configured analysis
// rate.
package codec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/ports"
)

// Decoder loads audio files for analysis. It is stateless apart from
// the target rate and safe for concurrent use.
type Decoder struct {
	targetRate int
}

// NewDecoder returns a Decoder resampling everything to targetRate.
func NewDecoder(targetRate int) *Decoder {
	if targetRate <= 0 {
		targetRate = 22050
	}
	return &Decoder{targetRate: targetRate}
}

// Decode reads the file at path and returns a mono signal at the target
// rate. A missing file wraps domain.ErrNotFound; anything unparseable
// wraps domain.ErrDecode. Decoding has no partial results.
func (d *Decoder) Decode(ctx context.Context, path string) (domain.AudioSignal, error) {
	if err := ctx.Err(); err != nil {
		return domain.AudioSignal{}, fmt.Errorf("codec: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.AudioSignal{}, fmt.Errorf("codec: audio file %q: %w", path, domain.ErrNotFound)
		}
		return domain.AudioSignal{}, fmt.Errorf("codec: open %q: %w", path, err)
	}
	defer f.Close()

	sig, err := d.decodeStream(f)
	if err != nil {
		return domain.AudioSignal{}, ports.DecodeFailedError{Path: path, Reason: err.Error()}
	}
	return sig, nil
}

// DecodeBytes decodes an in-memory audio payload.
func (d *Decoder) DecodeBytes(data []byte) (domain.AudioSignal, error) {
	sig, err := d.decodeStream(bytes.NewReader(data))
	if err != nil {
		return domain.AudioSignal{}, ports.DecodeFailedError{Reason: err.Error()}
	}
	return sig, nil
}

// decodeStream sniffs the container by magic bytes and dispatches to
// the matching decoder.
func (d *Decoder) decodeStream(r io.ReadSeeker) (domain.AudioSignal, error) {
	header := make([]byte, 4)
	if _, err := io.ReadFull(r, header); err != nil {
		return domain.AudioSignal{}, fmt.Errorf("read header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return domain.AudioSignal{}, fmt.Errorf("rewind: %w", err)
	}

	var (
		samples []float64
		rate    int
		err     error
	)
	switch {
	case bytes.Equal(header, []byte("RIFF")):
		samples, rate, err = decodeWAV(r)
	case bytes.HasPrefix(header, []byte("ID3")), isMP3FrameSync(header):
		samples, rate, err = decodeMP3(r)
	default:
		return domain.AudioSignal{}, fmt.Errorf("unsupported container (magic %x)", header)
	}
	if err != nil {
		return domain.AudioSignal{}, err
	}
	if len(samples) == 0 {
		return domain.AudioSignal{}, fmt.Errorf("no audio samples")
	}

	if rate != d.targetRate {
		samples = resampleLinear(samples, rate, d.targetRate)
	}
	return domain.AudioSignal{Samples: samples, SampleRate: d.targetRate}, nil
}

// isMP3FrameSync reports whether the header starts with an MPEG audio
// frame sync (11 set bits).
func isMP3FrameSync(header []byte) bool {
	return len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0
}
