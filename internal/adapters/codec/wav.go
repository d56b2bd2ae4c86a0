package codec

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// WAV format codes from the fmt chunk.
const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE
)

// decodeWAV parses a canonical RIFF/WAVE stream (integer PCM at 8, 16,
// 24 or 32 bits, or 32-bit float) and returns mono samples in [-1,1]
// with the file's sample rate. Multi-channel audio is averaged down.
func decodeWAV(r io.Reader) ([]float64, int, error) {
	var riff struct {
		ChunkID [4]byte
		Size    uint32
		Format  [4]byte
	}
	if err := binary.Read(r, binary.LittleEndian, &riff); err != nil {
		return nil, 0, fmt.Errorf("wav: riff header: %w", err)
	}
	if string(riff.ChunkID[:]) != "RIFF" || string(riff.Format[:]) != "WAVE" {
		return nil, 0, fmt.Errorf("wav: not a RIFF/WAVE stream")
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bitDepth   int
		haveFmt    bool
	)

	for {
		var chunk struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, 0, fmt.Errorf("wav: no data chunk")
			}
			return nil, 0, fmt.Errorf("wav: chunk header: %w", err)
		}

		switch string(chunk.ID[:]) {
		case "fmt ":
			body := make([]byte, chunk.Size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, 0, fmt.Errorf("wav: fmt chunk: %w", err)
			}
			if len(body) < 16 {
				return nil, 0, fmt.Errorf("wav: fmt chunk too short")
			}
			format = binary.LittleEndian.Uint16(body[0:2])
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitDepth = int(binary.LittleEndian.Uint16(body[14:16]))
			if format == wavFormatExtensible && len(body) >= 26 {
				// Sub-format GUID starts with the effective format code.
				format = binary.LittleEndian.Uint16(body[24:26])
			}
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, 0, fmt.Errorf("wav: data chunk before fmt")
			}
			if channels < 1 || sampleRate <= 0 {
				return nil, 0, fmt.Errorf("wav: invalid fmt (channels=%d rate=%d)", channels, sampleRate)
			}
			data := make([]byte, chunk.Size)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, 0, fmt.Errorf("wav: data chunk: %w", err)
			}
			samples, err := decodePCM(data, format, channels, bitDepth)
			if err != nil {
				return nil, 0, err
			}
			return samples, sampleRate, nil

		default:
			// Skip unknown chunks (LIST, fact, cue ...). Chunk bodies
			// are word-aligned.
			skip := int64(chunk.Size)
			if skip%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, 0, fmt.Errorf("wav: skip chunk %q: %w", chunk.ID, err)
			}
		}
	}
}

// decodePCM converts interleaved PCM frames to mono float64.
func decodePCM(data []byte, format uint16, channels, bitDepth int) ([]float64, error) {
	bytesPerSample := bitDepth / 8
	if bytesPerSample == 0 {
		return nil, fmt.Errorf("wav: invalid bit depth %d", bitDepth)
	}
	frameSize := bytesPerSample * channels
	nFrames := len(data) / frameSize
	out := make([]float64, nFrames)

	readSample := func(off int) (float64, error) {
		switch {
		case format == wavFormatIEEEFloat && bitDepth == 32:
			bits := binary.LittleEndian.Uint32(data[off:])
			return float64(math.Float32frombits(bits)), nil
		case format == wavFormatPCM && bitDepth == 8:
			// 8-bit WAV is unsigned.
			return (float64(data[off]) - 128) / 128, nil
		case format == wavFormatPCM && bitDepth == 16:
			v := int16(binary.LittleEndian.Uint16(data[off:]))
			return float64(v) / 32768, nil
		case format == wavFormatPCM && bitDepth == 24:
			v := int32(data[off]) | int32(data[off+1])<<8 | int32(data[off+2])<<16
			if v&0x800000 != 0 {
				v |= ^0xFFFFFF // sign-extend
			}
			return float64(v) / 8388608, nil
		case format == wavFormatPCM && bitDepth == 32:
			v := int32(binary.LittleEndian.Uint32(data[off:]))
			return float64(v) / 2147483648, nil
		default:
			return 0, fmt.Errorf("wav: unsupported format %d / %d-bit", format, bitDepth)
		}
	}

	for i := 0; i < nFrames; i++ {
		base := i * frameSize
		var sum float64
		for c := 0; c < channels; c++ {
			v, err := readSample(base + c*bytesPerSample)
			if err != nil {
				return nil, err
			}
			sum += v
		}
		out[i] = sum / float64(channels)
	}
	return out, nil
}
