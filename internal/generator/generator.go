// Package generator defines the contracts for the external collaborators that
// produce dialogue content: a text generator that writes the transcript and a
// speech synthesizer that voices it.
//
// Implementations perform at most one upstream attempt per call. Retrying is
// left to the user re-triggering the action.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/nadzzz/listening2go/internal/cefr"
	"github.com/nadzzz/listening2go/internal/dialogue"
	"github.com/nadzzz/listening2go/internal/wav"
)

// ErrMissingCredential is returned before any upstream call when no API key
// is configured.
var ErrMissingCredential = errors.New("API key is missing")

// ErrUpstream is matched by every *UpstreamError.
var ErrUpstream = errors.New("upstream failure")

// UpstreamError reports a transport or service failure, including a response
// that carried no usable payload.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrUpstream.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// DialogueRequest carries the user's parameters for one transcript.
type DialogueRequest struct {
	Topic string
	Level cefr.Level

	// Grammar and Vocabulary are optional targets the dialogue must include.
	Grammar    string
	Vocabulary string
}

// Audio is the synthesized rendering of a whole transcript.
type Audio struct {
	// PCM is headerless linear PCM in the layout described by Format.
	PCM    []byte
	Format wav.Format

	// MIMEType is the type reported by the service, e.g.
	// "audio/L16;codec=pcm;rate=24000".
	MIMEType string
}

// TextGenerator writes dialogue transcripts.
type TextGenerator interface {
	// GenerateDialogue returns the decoded transcript. Decoding failures are
	// reported as dialogue.ErrMalformedResponse or dialogue.ErrSchemaViolation.
	GenerateDialogue(ctx context.Context, req DialogueRequest) (dialogue.Transcript, error)
}

// SpeechSynthesizer voices a transcript with one voice per speaker.
type SpeechSynthesizer interface {
	// SynthesizeDialogue renders the whole script as a single PCM buffer.
	// Voice names are forwarded as-is; the service rejects unknown ones.
	SynthesizeDialogue(ctx context.Context, t dialogue.Transcript, voiceA, voiceB string) (*Audio, error)
}

// Backend bundles both collaborators behind one credential.
type Backend interface {
	TextGenerator
	SpeechSynthesizer

	// Name returns the backend identifier (e.g., "gemini").
	Name() string

	// Close releases any resources held by the backend.
	Close() error
}
