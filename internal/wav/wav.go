// Package wav wraps raw linear PCM audio in a RIFF/WAVE container.
//
// Speech-synthesis collaborators return headerless 16-bit little-endian PCM.
// Browsers and desktop players need the canonical 44-byte header in front of
// it, which Encode produces without touching the samples.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// HeaderSize is the size of the canonical PCM WAV header.
const HeaderSize = 44

const (
	fmtChunkSize = 16
	formatPCM    = 1
)

// ErrInvalidParameters is returned when the sample rate, channel count or bit
// depth passed to Encode is zero, or when they do not fit the header fields.
var ErrInvalidParameters = errors.New("invalid parameters")

// Container is an encoded WAV file. It is never modified after Encode.
type Container struct {
	data   []byte
	format Format
}

// Encode builds a WAV container around pcm.
//
// The PCM payload is copied verbatim after the header; no resampling or
// transcoding happens. An empty payload yields a valid 44-byte file.
func Encode(pcm []byte, sampleRateHz uint32, numChannels, bitsPerSample uint16) (*Container, error) {
	format := Format{
		SampleRate:    sampleRateHz,
		Channels:      numChannels,
		BitsPerSample: bitsPerSample,
	}
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if uint64(len(pcm)) > math.MaxUint32-36 {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds the RIFF size limit", ErrInvalidParameters, len(pcm))
	}

	dataLen := uint32(len(pcm))
	byteRate := format.ByteRate()
	blockAlign := format.BlockAlign()

	buf := &bytes.Buffer{}
	buf.Grow(HeaderSize + len(pcm))

	// RIFF header
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, 36+dataLen) // file size minus the first 8 bytes
	buf.WriteString("WAVE")

	// fmt subchunk
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(fmtChunkSize))
	_ = binary.Write(buf, binary.LittleEndian, uint16(formatPCM))
	_ = binary.Write(buf, binary.LittleEndian, numChannels)
	_ = binary.Write(buf, binary.LittleEndian, sampleRateHz)
	_ = binary.Write(buf, binary.LittleEndian, byteRate)
	_ = binary.Write(buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(buf, binary.LittleEndian, bitsPerSample)

	// data subchunk
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataLen)
	buf.Write(pcm)

	return &Container{data: buf.Bytes(), format: format}, nil
}

// EncodeFormat is Encode with the parameters taken from f.
func EncodeFormat(pcm []byte, f Format) (*Container, error) {
	return Encode(pcm, f.SampleRate, f.Channels, f.BitsPerSample)
}

// Bytes returns the encoded file. Callers must not modify the slice.
func (c *Container) Bytes() []byte { return c.data }

// Len returns the total size in bytes, header included.
func (c *Container) Len() int { return len(c.data) }

// DataLen returns the size of the PCM payload.
func (c *Container) DataLen() int { return len(c.data) - HeaderSize }

// Format returns the audio parameters written into the header.
func (c *Container) Format() Format { return c.format }

// Duration returns the playing time of the payload.
func (c *Container) Duration() time.Duration {
	br := c.format.ByteRate()
	if br == 0 {
		return 0
	}
	return time.Duration(int64(c.DataLen()) * int64(time.Second) / int64(br))
}
