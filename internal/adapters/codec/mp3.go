package codec

import (
	"fmt"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// decodeMP3 decodes an MPEG audio stream to mono float64 samples.
// go-mp3 always emits interleaved 16-bit little-endian stereo at the
// stream's native rate.
func decodeMP3(r io.Reader) ([]float64, int, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3: %w", err)
	}

	var samples []float64
	buf := make([]byte, 8192)
	for {
		n, err := decoder.Read(buf)
		for i := 0; i+3 < n; i += 4 {
			left := int16(buf[i]) | int16(buf[i+1])<<8
			right := int16(buf[i+2]) | int16(buf[i+3])<<8
			samples = append(samples, (float64(left)+float64(right))/2/32768)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, fmt.Errorf("mp3: read: %w", err)
		}
	}
	return samples, decoder.SampleRate(), nil
}
