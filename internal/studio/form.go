package studio

import (
	"unicode/utf8"

	"github.com/nadzzz/listening2go/internal/app"
	"github.com/nadzzz/listening2go/internal/voice"
)

const maxFieldRunes = 2000

// ValidateForm checks the level and voices against their closed sets.
// A blank topic is accepted here and rejected when text is requested.
func ValidateForm(f app.Form) error {
	if !f.Level.Valid() {
		return &FormError{Field: "level", Reason: "unknown CEFR level " + string(f.Level)}
	}
	if !voice.Known(f.VoiceA) {
		return &FormError{Field: "voice_a", Reason: "unknown voice " + f.VoiceA}
	}
	if !voice.Known(f.VoiceB) {
		return &FormError{Field: "voice_b", Reason: "unknown voice " + f.VoiceB}
	}
	for field, v := range map[string]string{"topic": f.Topic, "grammar": f.Grammar, "vocabulary": f.Vocabulary} {
		if utf8.RuneCountInString(v) > maxFieldRunes {
			return &FormError{Field: field, Reason: "too long"}
		}
	}
	return nil
}
