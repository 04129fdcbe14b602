package app

import (
	"github.com/nadzzz/listening2go/internal/dialogue"
	"github.com/nadzzz/listening2go/internal/player"
)

// Action is an input to Reduce.
type Action interface {
	action()
}

type (
	// SetForm replaces the generation settings.
	SetForm struct{ Form Form }

	// TextRequested starts a new generation cycle. The previous transcript
	// and audio are dropped.
	TextRequested   struct{}
	TextSucceeded   struct{ Transcript dialogue.Transcript }
	TextFailed      struct{ Err error }
	AudioRequested  struct{}
	AudioSucceeded  struct{ Handle string }
	AudioFailed     struct{ Err error }
	ToggleDarkMode  struct{}
	SetDarkMode     struct{ Enabled bool }
	PlayerEvent     struct{ Event player.Event }
)

func (SetForm) action()        {}
func (TextRequested) action()  {}
func (TextSucceeded) action()  {}
func (TextFailed) action()     {}
func (AudioRequested) action() {}
func (AudioSucceeded) action() {}
func (AudioFailed) action()    {}
func (ToggleDarkMode) action() {}
func (SetDarkMode) action()    {}
func (PlayerEvent) action()    {}

// Reduce returns the state after a. Actions that do not apply to s, such as
// an audio request without a transcript, return s unchanged.
func Reduce(s State, a Action) State {
	// s is a copy; only the transcript slice needs detaching.
	s.Transcript = s.Transcript.Clone()

	switch a := a.(type) {
	case SetForm:
		s.Form = a.Form

	case TextRequested:
		if !s.CanGenerateText() {
			return s
		}
		s.GeneratingText = true
		s.Error = ""
		s.Transcript = nil
		s.AudioHandle = ""
		s.Player = idlePlayer(s.Player)

	case TextSucceeded:
		s.GeneratingText = false
		s.Transcript = a.Transcript.Clone()

	case TextFailed:
		s.GeneratingText = false
		s.Error = errorMessage(a.Err, textErrorFallback)

	case AudioRequested:
		if !s.CanGenerateAudio() {
			return s
		}
		s.GeneratingAudio = true
		s.Error = ""

	case AudioSucceeded:
		s.GeneratingAudio = false
		s.AudioHandle = a.Handle
		s.Player, _ = player.Apply(s.Player, player.Load{})

	case AudioFailed:
		s.GeneratingAudio = false
		s.Error = errorMessage(a.Err, audioErrorFallback)

	case ToggleDarkMode:
		s.DarkMode = !s.DarkMode

	case SetDarkMode:
		s.DarkMode = a.Enabled

	case PlayerEvent:
		if s.AudioHandle == "" {
			return s
		}
		if next, err := player.Apply(s.Player, a.Event); err == nil {
			s.Player = next
		}
	}
	return s
}

// idlePlayer resets the transport and keeps the listener's volume settings.
func idlePlayer(p player.State) player.State {
	next := player.New()
	next.Volume = p.Volume
	next.Muted = p.Muted
	return next
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
