package player

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func playing(t *testing.T, duration float64) State {
	t.Helper()
	s, err := Apply(New(), Load{})
	if err != nil {
		t.Fatal(err)
	}
	s, err = Apply(s, MetadataReady{Duration: duration})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestLoadThenMetadataAutoPlays(t *testing.T) {
	s := playing(t, 30)
	if s.Status != Playing || s.Duration != 30 || s.Position != 0 {
		t.Fatalf("unexpected state: %+v", s)
	}
}

func TestLoadResetsPositionAndRateKeepsVolume(t *testing.T) {
	s := playing(t, 30)
	s, _ = Apply(s, Tick{Position: 12})
	s, _ = Apply(s, SpeedChange{Rate: 1.5})
	s, _ = Apply(s, VolumeChange{Volume: 0.3})

	s, err := Apply(s, Load{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != Loading || s.Position != 0 || s.Duration != 0 || s.Rate != 1 {
		t.Fatalf("unexpected state after load: %+v", s)
	}
	if s.Volume != 0.3 {
		t.Fatalf("expected volume kept, got %v", s.Volume)
	}
}

func TestPauseAndResume(t *testing.T) {
	s := playing(t, 30)
	s, err := Apply(s, Pause{})
	if err != nil || s.Status != Paused {
		t.Fatalf("pause: %v %+v", err, s)
	}
	s, err = Apply(s, Play{})
	if err != nil || s.Status != Playing {
		t.Fatalf("play: %v %+v", err, s)
	}
}

func TestEndedAndReplay(t *testing.T) {
	s := playing(t, 30)
	s, err := Apply(s, EndedEvent{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != Ended || s.Position != 30 {
		t.Fatalf("unexpected ended state: %+v", s)
	}
	s, err = Apply(s, Play{})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != Playing || s.Position != 0 {
		t.Fatalf("expected replay from start, got %+v", s)
	}
}

func TestSeek(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		want   float64
	}{
		{"inside", 12.5, 12.5},
		{"below zero", -3, 0},
		{"past end", 99, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Apply(playing(t, 30), Seek{Position: tt.target})
			if err != nil {
				t.Fatal(err)
			}
			if s.Position != tt.want || s.Status != Playing {
				t.Fatalf("expected position %v while playing, got %+v", tt.want, s)
			}
		})
	}
}

func TestSeekWhilePausedStaysPaused(t *testing.T) {
	s, _ := Apply(playing(t, 30), Pause{})
	s, err := Apply(s, Seek{Position: 10})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != Paused || s.Position != 10 {
		t.Fatalf("unexpected state: %+v", s)
	}
}

func TestSeekFromEndedPauses(t *testing.T) {
	s, _ := Apply(playing(t, 30), EndedEvent{})
	s, err := Apply(s, Seek{Position: 5})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != Paused || s.Position != 5 {
		t.Fatalf("unexpected state: %+v", s)
	}
}

func TestSpeedChange(t *testing.T) {
	for _, r := range Speeds {
		s, err := Apply(playing(t, 10), SpeedChange{Rate: r})
		if err != nil || s.Rate != r {
			t.Fatalf("rate %v: %v %+v", r, err, s)
		}
	}
	s := playing(t, 10)
	got, err := Apply(s, SpeedChange{Rate: 2})
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if got != s {
		t.Fatal("state changed on rejected event")
	}
}

func TestVolumeAndMute(t *testing.T) {
	s := playing(t, 10)

	s, _ = Apply(s, VolumeChange{Volume: 1.7})
	if s.Volume != 1 || s.Muted {
		t.Fatalf("expected clamp to 1, got %+v", s)
	}
	s, _ = Apply(s, VolumeChange{Volume: 0.4})
	s, _ = Apply(s, ToggleMute{})
	if !s.Muted || s.Volume != 0.4 || s.EffectiveVolume() != 0 {
		t.Fatalf("expected muted with volume kept, got %+v", s)
	}
	s, _ = Apply(s, ToggleMute{})
	if s.Muted || s.Volume != 0.4 {
		t.Fatalf("expected unmuted at previous volume, got %+v", s)
	}

	s, _ = Apply(s, VolumeChange{Volume: 0.62})
	if s.Volume != 0.6 {
		t.Fatalf("expected volume snapped to 0.6, got %v", s.Volume)
	}
	s, _ = Apply(s, VolumeChange{Volume: 0.01})
	if s.Volume != 0 || !s.Muted {
		t.Fatalf("expected tiny volume to snap to muted zero, got %+v", s)
	}
	s, _ = Apply(s, ToggleMute{})
	s, _ = Apply(s, VolumeChange{Volume: -1})
	if s.Volume != 0 || !s.Muted {
		t.Fatalf("expected zero volume to mute, got %+v", s)
	}
	s, _ = Apply(s, ToggleMute{})
	if s.Muted || s.Volume != 0.5 {
		t.Fatalf("expected unmute to restore 0.5, got %+v", s)
	}
}

func TestInvalidTransitions(t *testing.T) {
	idle := New()
	paused, _ := Apply(playing(t, 10), Pause{})
	tests := []struct {
		name  string
		state State
		event Event
	}{
		{"play while idle", idle, Play{}},
		{"pause while idle", idle, Pause{}},
		{"seek while idle", idle, Seek{Position: 1}},
		{"metadata while idle", idle, MetadataReady{Duration: 3}},
		{"ended while paused", paused, EndedEvent{}},
		{"tick while paused", paused, Tick{Position: 2}},
		{"pause while paused", paused, Pause{}},
		{"nil event", idle, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.state, tt.event)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if got != tt.state {
				t.Fatalf("state changed: %+v -> %+v", tt.state, got)
			}
		})
	}
}

func TestNonFiniteValuesRejected(t *testing.T) {
	s := playing(t, 10)
	for _, e := range []Event{Seek{Position: math.NaN()}, Tick{Position: math.Inf(1)}, VolumeChange{Volume: math.NaN()}} {
		if _, err := Apply(s, e); !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("%s: expected ErrInvalidValue, got %v", e.Name(), err)
		}
	}
}

func TestParseEvent(t *testing.T) {
	e, err := ParseEvent(" Seek ", 4)
	if err != nil {
		t.Fatal(err)
	}
	if e != (Seek{Position: 4}) {
		t.Fatalf("unexpected event %#v", e)
	}
	if _, err := ParseEvent("rewind", 0); err == nil {
		t.Fatal("expected error for unknown event")
	}
}

func TestStatusJSON(t *testing.T) {
	b, err := json.Marshal(New())
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "idle" {
		t.Fatalf("expected status name, got %v", got["status"])
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{65, "1:05"},
		{600, "10:00"},
		{-1, "0:00"},
		{math.NaN(), "0:00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
