// Package player models the audio transport of a rendered dialogue as an
// explicit state machine. Apply never mutates its input and returns the
// unchanged state together with an error for events that do not fit the
// current status.
package player

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidTransition is returned for an event the current status does not accept.
	ErrInvalidTransition = errors.New("invalid player transition")

	// ErrInvalidValue is returned for an event carrying an unusable value.
	ErrInvalidValue = errors.New("invalid player value")
)

// Status is the transport status.
type Status int

const (
	Idle Status = iota
	Loading
	Playing
	Paused
	Ended
)

var statusNames = [...]string{"idle", "loading", "playing", "paused", "ended"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(b []byte) error {
	for i, n := range statusNames {
		if n == string(b) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown player status %q", b)
}

// Speeds are the accepted playback rates.
var Speeds = []float64{0.75, 1, 1.25, 1.5}

// unmuteVolume is restored when unmuting at volume 0.
const unmuteVolume = 0.5

// volumeSteps is the number of positions of the volume control (0.05 steps).
const volumeSteps = 20

// State is a snapshot of the transport. Times are in seconds.
type State struct {
	Status   Status  `json:"status"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
	Rate     float64 `json:"rate"`
	Volume   float64 `json:"volume"`
	Muted    bool    `json:"muted"`
}

// New returns an idle transport at full volume and normal speed.
func New() State {
	return State{Status: Idle, Rate: 1, Volume: 1}
}

// EffectiveVolume is the level actually sent to the output.
func (s State) EffectiveVolume() float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}

// Event is an input to the state machine.
type Event interface {
	Name() string
}

type (
	// Load starts loading a new resource.
	Load struct{}
	// MetadataReady reports the loaded resource's duration; playback starts.
	MetadataReady struct{ Duration float64 }
	Play          struct{}
	Pause         struct{}
	// Seek moves the playhead; the target is clamped into [0, duration].
	Seek        struct{ Position float64 }
	SpeedChange struct{ Rate float64 }
	// VolumeChange sets the volume; the value is clamped into [0, 1] and
	// snapped to 0.05 steps.
	VolumeChange struct{ Volume float64 }
	ToggleMute   struct{}
	// Tick reports the playhead position while playing.
	Tick struct{ Position float64 }
	// EndedEvent reports that playback reached the end of the resource.
	EndedEvent struct{}
)

func (Load) Name() string          { return "load" }
func (MetadataReady) Name() string { return "metadata" }
func (Play) Name() string          { return "play" }
func (Pause) Name() string         { return "pause" }
func (Seek) Name() string          { return "seek" }
func (SpeedChange) Name() string   { return "speed" }
func (VolumeChange) Name() string  { return "volume" }
func (ToggleMute) Name() string    { return "mute" }
func (Tick) Name() string          { return "tick" }
func (EndedEvent) Name() string    { return "ended" }

// ParseEvent builds an event from its name and numeric argument. Events
// without an argument ignore value.
func ParseEvent(name string, value float64) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "load":
		return Load{}, nil
	case "metadata":
		return MetadataReady{Duration: value}, nil
	case "play":
		return Play{}, nil
	case "pause":
		return Pause{}, nil
	case "seek":
		return Seek{Position: value}, nil
	case "speed":
		return SpeedChange{Rate: value}, nil
	case "volume":
		return VolumeChange{Volume: value}, nil
	case "mute":
		return ToggleMute{}, nil
	case "tick":
		return Tick{Position: value}, nil
	case "ended":
		return EndedEvent{}, nil
	default:
		return nil, fmt.Errorf("unknown player event %q", name)
	}
}

// Apply returns the state after e. On error the returned state equals s.
func Apply(s State, e Event) (State, error) {
	switch e := e.(type) {
	case Load:
		return State{Status: Loading, Rate: 1, Volume: s.Volume, Muted: s.Muted}, nil

	case MetadataReady:
		if s.Status != Loading {
			return s, transitionErr(s, e)
		}
		if !finite(e.Duration) || e.Duration < 0 {
			return s, fmt.Errorf("%w: duration %v", ErrInvalidValue, e.Duration)
		}
		s.Status = Playing
		s.Duration = e.Duration
		s.Position = 0
		return s, nil

	case Play:
		switch s.Status {
		case Paused:
		case Ended:
			s.Position = 0
		default:
			return s, transitionErr(s, e)
		}
		s.Status = Playing
		return s, nil

	case Pause:
		if s.Status != Playing {
			return s, transitionErr(s, e)
		}
		s.Status = Paused
		return s, nil

	case Seek:
		if s.Status != Playing && s.Status != Paused && s.Status != Ended {
			return s, transitionErr(s, e)
		}
		if !finite(e.Position) {
			return s, fmt.Errorf("%w: position %v", ErrInvalidValue, e.Position)
		}
		s.Position = clamp(e.Position, 0, s.Duration)
		if s.Status == Ended && s.Position < s.Duration {
			s.Status = Paused
		}
		return s, nil

	case SpeedChange:
		if !validSpeed(e.Rate) {
			return s, fmt.Errorf("%w: rate %v", ErrInvalidValue, e.Rate)
		}
		s.Rate = e.Rate
		return s, nil

	case VolumeChange:
		if !finite(e.Volume) {
			return s, fmt.Errorf("%w: volume %v", ErrInvalidValue, e.Volume)
		}
		s.Volume = math.Round(clamp(e.Volume, 0, 1)*volumeSteps) / volumeSteps
		s.Muted = s.Volume == 0
		return s, nil

	case ToggleMute:
		if s.Muted {
			if s.Volume == 0 {
				s.Volume = unmuteVolume
			}
			s.Muted = false
		} else {
			s.Muted = true
		}
		return s, nil

	case Tick:
		if s.Status != Playing {
			return s, transitionErr(s, e)
		}
		if !finite(e.Position) {
			return s, fmt.Errorf("%w: position %v", ErrInvalidValue, e.Position)
		}
		s.Position = clamp(e.Position, 0, s.Duration)
		return s, nil

	case EndedEvent:
		if s.Status != Playing {
			return s, transitionErr(s, e)
		}
		s.Status = Ended
		s.Position = s.Duration
		return s, nil

	case nil:
		return s, fmt.Errorf("%w: nil event", ErrInvalidTransition)

	default:
		return s, fmt.Errorf("%w: unsupported event %s", ErrInvalidTransition, e.Name())
	}
}

// FormatTime renders seconds as m:ss. Negative or non-finite input renders
// as 0:00.
func FormatTime(seconds float64) string {
	if !finite(seconds) || seconds < 0 {
		return "0:00"
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func transitionErr(s State, e Event) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, e.Name(), s.Status)
}

func validSpeed(r float64) bool {
	for _, v := range Speeds {
		if r == v {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
