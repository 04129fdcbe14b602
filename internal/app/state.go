// Package app holds the per-session application state as an immutable
// snapshot and the reducer that derives the next snapshot from an action.
package app

import (
	"strings"

	"github.com/nadzzz/listening2go/internal/cefr"
	"github.com/nadzzz/listening2go/internal/dialogue"
	"github.com/nadzzz/listening2go/internal/player"
	"github.com/nadzzz/listening2go/internal/voice"
)

// Fallback messages when a failure carries no text of its own.
const (
	textErrorFallback  = "Error al generar el diálogo. Por favor intenta de nuevo."
	audioErrorFallback = "Error al generar el audio. Por favor intenta de nuevo."
)

// Form is the user's generation settings.
type Form struct {
	Topic      string     `json:"topic"`
	Level      cefr.Level `json:"level"`
	Grammar    string     `json:"grammar"`
	Vocabulary string     `json:"vocabulary"`
	VoiceA     string     `json:"voice_a"`
	VoiceB     string     `json:"voice_b"`
}

// DefaultForm is the form of a fresh session.
func DefaultForm() Form {
	return Form{
		Level:  cefr.Default,
		VoiceA: voice.DefaultA,
		VoiceB: voice.DefaultB,
	}
}

// State is one snapshot of a session. Values are never modified in place;
// Reduce returns a new State.
type State struct {
	Form       Form                `json:"form"`
	Transcript dialogue.Transcript `json:"transcript"`

	// AudioHandle names the playable resource for the current transcript,
	// empty when none has been rendered.
	AudioHandle string `json:"audio_handle,omitempty"`

	GeneratingText  bool         `json:"generating_text"`
	GeneratingAudio bool         `json:"generating_audio"`
	Error           string       `json:"error,omitempty"`
	DarkMode        bool         `json:"dark_mode"`
	Player          player.State `json:"player"`
}

// Initial returns the state of a new session.
func Initial(darkMode bool) State {
	return State{
		Form:     DefaultForm(),
		DarkMode: darkMode,
		Player:   player.New(),
	}
}

// CanGenerateText reports whether a text request may start.
func (s State) CanGenerateText() bool {
	return strings.TrimSpace(s.Form.Topic) != "" && !s.GeneratingText
}

// CanGenerateAudio reports whether an audio request may start.
func (s State) CanGenerateAudio() bool {
	return !s.Transcript.Empty() && !s.GeneratingAudio
}

// Busy reports whether any generation is outstanding.
func (s State) Busy() bool {
	return s.GeneratingText || s.GeneratingAudio
}
