// Package message defines the request and response bodies of the
// listening2go API.
package message

import (
	"github.com/nadzzz/listening2go/internal/app"
	"github.com/nadzzz/listening2go/internal/cefr"
	"github.com/nadzzz/listening2go/internal/player"
	"github.com/nadzzz/listening2go/internal/voice"
)

// NewSessionRequest opens a session.
type NewSessionRequest struct {
	// DarkMode is the client's initial theme preference
	// (e.g. from prefers-color-scheme).
	DarkMode bool `json:"dark_mode"`
}

// FormRequest replaces the generation settings of a session.
type FormRequest struct {
	Topic string `json:"topic" example:"Checking in at the airport"`

	// Level accepts the full label ("B1 - Intermediate") or the bare code ("B1").
	Level string `json:"level" example:"B1"`

	Grammar    string `json:"grammar,omitempty" example:"present perfect"`
	Vocabulary string `json:"vocabulary,omitempty" example:"boarding pass, gate, delay"`
	VoiceA     string `json:"voice_a" example:"Kore"`
	VoiceB     string `json:"voice_b" example:"Fenrir"`
}

// PlayerEventRequest drives the audio transport.
type PlayerEventRequest struct {
	// Event is one of: load, metadata, play, pause, seek, speed, volume,
	// mute, tick, ended.
	Event string `json:"event" example:"seek"`

	// Value is the event argument: seconds for metadata/seek/tick, the rate
	// for speed, the level in [0, 1] for volume.
	Value float64 `json:"value,omitempty" example:"12.5"`
}

// ThemeRequest stores the dark-mode preference.
type ThemeRequest struct {
	DarkMode bool `json:"dark_mode"`
}

// EncodeWAVRequest wraps headerless PCM into a WAV container.
// The PCM layout is taken from the rate, channels and bits query parameters.
type EncodeWAVRequest struct {
	// PCM is base64-encoded 16-bit little-endian samples.
	PCM string `json:"pcm"`
}

// SessionResponse is a session snapshot plus values derived for display.
type SessionResponse struct {
	ID    string    `json:"id"`
	State app.State `json:"state"`

	CanGenerateText  bool `json:"can_generate_text"`
	CanGenerateAudio bool `json:"can_generate_audio"`

	// AudioURL is set once audio has been rendered.
	AudioURL string `json:"audio_url,omitempty"`

	// Elapsed and Total render the playhead as m:ss.
	Elapsed string `json:"elapsed"`
	Total   string `json:"total"`

	// EffectiveVolume is the output level, 0 while muted.
	EffectiveVolume float64 `json:"effective_volume"`
}

// NewSessionResponse builds the response for a snapshot.
func NewSessionResponse(id string, st app.State) *SessionResponse {
	resp := &SessionResponse{
		ID:               id,
		State:            st,
		CanGenerateText:  st.CanGenerateText(),
		CanGenerateAudio: st.CanGenerateAudio(),
		Elapsed:          player.FormatTime(st.Player.Position),
		Total:            player.FormatTime(st.Player.Duration),
		EffectiveVolume:  st.Player.EffectiveVolume(),
	}
	if st.AudioHandle != "" {
		resp.AudioURL = "/api/audio/" + st.AudioHandle
	}
	return resp
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`

	// Reason is a stable machine-readable classification
	// (e.g. "missing_credential", "schema_violation", "busy").
	Reason string `json:"reason,omitempty"`

	// Session carries the snapshot after a failed generation step.
	Session *SessionResponse `json:"session,omitempty"`
}

// Level describes one CEFR level for the form.
type Level struct {
	Code              string `json:"code" example:"B1"`
	Label             string `json:"label" example:"B1 - Intermediate"`
	LengthInstruction string `json:"length_instruction"`
	GrammarHint       string `json:"grammar_hint"`
	VocabularyHint    string `json:"vocabulary_hint"`
	Default           bool   `json:"default"`
}

// Levels lists all CEFR levels with their hints.
func Levels() []Level {
	out := make([]Level, 0, len(cefr.Levels))
	for _, l := range cefr.Levels {
		g := cefr.Hints(l)
		out = append(out, Level{
			Code:              l.Code(),
			Label:             string(l),
			LengthInstruction: l.LengthInstruction(),
			GrammarHint:       g.Grammar,
			VocabularyHint:    g.Vocabulary,
			Default:           l == cefr.Default,
		})
	}
	return out
}

// Voice describes one selectable voice.
type Voice struct {
	Name     string `json:"name" example:"Kore"`
	Label    string `json:"label"`
	DefaultA bool   `json:"default_a"`
	DefaultB bool   `json:"default_b"`
}

// Voices lists the voice presets.
func Voices() []Voice {
	out := make([]Voice, 0, len(voice.Presets))
	for _, p := range voice.Presets {
		out = append(out, Voice{
			Name:     p.Name,
			Label:    p.Label,
			DefaultA: p.Name == voice.DefaultA,
			DefaultB: p.Name == voice.DefaultB,
		})
	}
	return out
}
