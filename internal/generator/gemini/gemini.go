// Package gemini implements the generator collaborators using the Gemini API.
//
// Dialogue text is requested from a text model with a response schema that
// forces a JSON array of {speaker, text} objects. Audio is requested from a
// speech model with a two-speaker voice configuration; the model answers with
// raw 16-bit PCM whose sample rate is carried in the part's MIME type.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/nadzzz/listening2go/internal/config"
	"github.com/nadzzz/listening2go/internal/dialogue"
	"github.com/nadzzz/listening2go/internal/generator"
	"github.com/nadzzz/listening2go/internal/wav"
)

var _ generator.Backend = (*Backend)(nil)

// dialogueSchema constrains the text model to the shape dialogue.Decode accepts.
var dialogueSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"speaker": {
				Type:        genai.TypeString,
				Enum:        speakerNames(),
				Description: "The speaker identifier.",
			},
			"text": {
				Type:        genai.TypeString,
				Description: "The spoken line of text.",
			},
		},
		Required:         []string{"speaker", "text"},
		PropertyOrdering: []string{"speaker", "text"},
	},
}

// Backend talks to the Gemini API for both text and speech.
type Backend struct {
	client        *genai.Client // nil when no API key is configured
	textModel     string
	speechModel   string
	temperature   float32
	timeout       time.Duration
	defaultFormat wav.Format
}

// New creates a Gemini backend from config. A missing API key is not an
// error here: every call reports generator.ErrMissingCredential instead, so
// the daemon can still serve the UI.
func New(ctx context.Context, cfg config.GeminiConfig, audio config.AudioConfig) (*Backend, error) {
	b := &Backend{
		textModel:   cfg.TextModel,
		speechModel: cfg.SpeechModel,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		defaultFormat: wav.Format{
			SampleRate:    audio.SampleRate,
			Channels:      audio.Channels,
			BitsPerSample: audio.BitsPerSample,
		},
	}
	if cfg.APIKey == "" {
		slog.Warn("gemini api key not configured, generation requests will fail")
		return b, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	b.client = client
	return b, nil
}

// Name returns the backend identifier.
func (b *Backend) Name() string { return "gemini" }

// Close is a no-op, the SDK client holds no long-lived connections of its own.
func (b *Backend) Close() error { return nil }

// GenerateDialogue asks the text model for a transcript and decodes it.
func (b *Backend) GenerateDialogue(ctx context.Context, req generator.DialogueRequest) (dialogue.Transcript, error) {
	if b.client == nil {
		return nil, generator.ErrMissingCredential
	}
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	prompt := generator.BuildDialoguePrompt(req)
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   dialogueSchema,
		Temperature:      genai.Ptr(b.temperature),
	}

	start := time.Now()
	resp, err := b.client.Models.GenerateContent(ctx, b.textModel, userContent(prompt), cfg)
	if err != nil {
		return nil, &generator.UpstreamError{Op: "generate dialogue", Err: err}
	}

	text := responseText(resp)
	if text == "" {
		return nil, &generator.UpstreamError{Op: "generate dialogue", Err: errors.New("no content generated")}
	}

	lines, err := dialogue.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("decoding dialogue: %w", err)
	}

	slog.Debug("dialogue generated",
		"model", b.textModel,
		"lines", len(lines),
		"duration", time.Since(start))
	return lines, nil
}

// SynthesizeDialogue voices the transcript script with one voice per speaker.
func (b *Backend) SynthesizeDialogue(ctx context.Context, t dialogue.Transcript, voiceA, voiceB string) (*generator.Audio, error) {
	if b.client == nil {
		return nil, generator.ErrMissingCredential
	}
	if t.Empty() {
		return nil, errors.New("empty transcript for synthesis")
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("transcript for synthesis: %w", err)
	}
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			MultiSpeakerVoiceConfig: &genai.MultiSpeakerVoiceConfig{
				SpeakerVoiceConfigs: []*genai.SpeakerVoiceConfig{
					speakerVoice(dialogue.SpeakerA, voiceA),
					speakerVoice(dialogue.SpeakerB, voiceB),
				},
			},
		},
	}

	start := time.Now()
	resp, err := b.client.Models.GenerateContent(ctx, b.speechModel, userContent(t.Script()), cfg)
	if err != nil {
		return nil, &generator.UpstreamError{Op: "synthesize dialogue", Err: err}
	}

	pcm, mimeType := responseAudio(resp)
	if len(pcm) == 0 {
		return nil, &generator.UpstreamError{Op: "synthesize dialogue", Err: errors.New("no audio data returned")}
	}

	format := wav.FormatFromMIME(mimeType, b.defaultFormat)
	slog.Debug("dialogue synthesized",
		"model", b.speechModel,
		"pcm_bytes", len(pcm),
		"mime_type", mimeType,
		"sample_rate", format.SampleRate,
		"duration", time.Since(start))

	return &generator.Audio{PCM: pcm, Format: format, MIMEType: mimeType}, nil
}

func (b *Backend) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}

// --- Internal helpers ---

func speakerNames() []string {
	names := make([]string, len(dialogue.Speakers))
	for i, s := range dialogue.Speakers {
		names[i] = string(s)
	}
	return names
}

func userContent(text string) []*genai.Content {
	return []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: text}},
	}}
}

func speakerVoice(s dialogue.Speaker, voiceName string) *genai.SpeakerVoiceConfig {
	return &genai.SpeakerVoiceConfig{
		Speaker: string(s),
		VoiceConfig: &genai.VoiceConfig{
			PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voiceName},
		},
	}
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// responseAudio concatenates the inline audio parts of the first candidate
// and returns the MIME type of the first one.
func responseAudio(resp *genai.GenerateContentResponse) ([]byte, string) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ""
	}
	var (
		pcm      []byte
		mimeType string
	)
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
			continue
		}
		if mimeType == "" {
			mimeType = p.InlineData.MIMEType
		}
		pcm = append(pcm, p.InlineData.Data...)
	}
	return pcm, mimeType
}
