package wav

import (
	"encoding/base64"
	"fmt"
	"math"
	"mime"
	"strconv"
	"strings"
)

// Format describes linear PCM sample layout.
type Format struct {
	SampleRate    uint32 `json:"sample_rate"`
	Channels      uint16 `json:"channels"`
	BitsPerSample uint16 `json:"bits_per_sample"`
}

// DefaultFormat is the layout assumed when the synthesis service does not
// report one: 24 kHz mono 16-bit.
var DefaultFormat = Format{SampleRate: 24000, Channels: 1, BitsPerSample: 16}

// Validate reports ErrInvalidParameters when a field is zero or when the
// derived byte rate or block alignment does not fit its header field.
func (f Format) Validate() error {
	if f.SampleRate == 0 || f.Channels == 0 || f.BitsPerSample == 0 {
		return fmt.Errorf("%w: sample_rate=%d channels=%d bits_per_sample=%d",
			ErrInvalidParameters, f.SampleRate, f.Channels, f.BitsPerSample)
	}
	blockAlign := uint64(f.Channels) * uint64(f.BitsPerSample) / 8
	if blockAlign == 0 || blockAlign > math.MaxUint16 {
		return fmt.Errorf("%w: block align %d out of range for channels=%d bits_per_sample=%d",
			ErrInvalidParameters, blockAlign, f.Channels, f.BitsPerSample)
	}
	if byteRate := uint64(f.SampleRate) * blockAlign; byteRate > math.MaxUint32 {
		return fmt.Errorf("%w: byte rate %d out of range", ErrInvalidParameters, byteRate)
	}
	return nil
}

// BlockAlign returns the size in bytes of one frame (one sample per channel).
// Only meaningful for a format that passes Validate.
func (f Format) BlockAlign() uint16 {
	return uint16(uint64(f.Channels) * uint64(f.BitsPerSample) / 8)
}

// ByteRate returns the number of payload bytes per second of audio. Only
// meaningful for a format that passes Validate.
func (f Format) ByteRate() uint32 {
	return uint32(uint64(f.SampleRate) * uint64(f.BlockAlign()))
}

// CheckPayload reports an error when n bytes do not hold a whole number of
// frames.
func (f Format) CheckPayload(n int) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if align := int(f.BlockAlign()); n%align != 0 {
		return fmt.Errorf("payload length %d is not a multiple of the %d-byte frame size", n, align)
	}
	return nil
}

// FormatFromMIME extracts the PCM layout from a MIME type such as
// "audio/L16;codec=pcm;rate=24000". Missing or unparsable parameters keep
// their fallback values.
func FormatFromMIME(mimeType string, fallback Format) Format {
	f := fallback
	if mimeType == "" {
		return f
	}
	mediaType, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return f
	}
	if rate, err := strconv.ParseUint(params["rate"], 10, 32); err == nil && rate > 0 {
		f.SampleRate = uint32(rate)
	}
	if ch, err := strconv.ParseUint(params["channels"], 10, 16); err == nil && ch > 0 {
		f.Channels = uint16(ch)
	}
	// audio/L8, audio/L16, audio/L24 carry the sample width in the subtype.
	if sub, ok := strings.CutPrefix(mediaType, "audio/l"); ok {
		if bits, err := strconv.ParseUint(sub, 10, 16); err == nil && bits > 0 {
			f.BitsPerSample = uint16(bits)
		}
	}
	return f
}

// DecodeBase64PCM decodes a base64 PCM payload as returned by the synthesis
// collaborator. Frame alignment is checked separately with CheckPayload.
func DecodeBase64PCM(s string) ([]byte, error) {
	pcm, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decoding base64 pcm: %w", err)
	}
	return pcm, nil
}
