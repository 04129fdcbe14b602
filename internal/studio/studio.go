// Package studio runs dialogue generation cycles for user sessions.
//
// Each session owns one app.State snapshot. A cycle is two separate steps:
// the transcript is requested from the text collaborator, then, on demand,
// the transcript is voiced by the speech collaborator and wrapped into a WAV
// container. At most one step is outstanding per session.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/nadzzz/listening2go/internal/app"
	"github.com/nadzzz/listening2go/internal/audiostore"
	"github.com/nadzzz/listening2go/internal/config"
	"github.com/nadzzz/listening2go/internal/dialogue"
	"github.com/nadzzz/listening2go/internal/generator"
	"github.com/nadzzz/listening2go/internal/player"
	"github.com/nadzzz/listening2go/internal/telemetry"
	"github.com/nadzzz/listening2go/internal/wav"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")

	// ErrBusy is returned while another generation step of the same session
	// is outstanding.
	ErrBusy = errors.New("a generation is already in progress")

	ErrTopicRequired = errors.New("topic is required")
	ErrNoTranscript  = errors.New("no transcript to synthesize")
	ErrNoAudio       = errors.New("no audio loaded")
)

// FormError reports an invalid form field.
type FormError struct {
	Field  string
	Reason string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Studio is safe for concurrent use.
type Studio struct {
	backend generator.Backend
	store   *audiostore.Store
	metrics *telemetry.Metrics
	limiter *rate.Limiter // nil when unlimited

	maxSessions int
	idleTTL     time.Duration // 0 keeps sessions until closed
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu    sync.Mutex
	id    string
	state app.State

	lastSeen atomic.Int64 // unix nanoseconds of the last lookup
}

// New creates a studio. metrics may be nil.
func New(backend generator.Backend, store *audiostore.Store, metrics *telemetry.Metrics, limits config.LimitsConfig) *Studio {
	s := &Studio{
		backend:     backend,
		store:       store,
		metrics:     metrics,
		maxSessions: limits.MaxSessions,
		idleTTL:     limits.SessionIdleTTL,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
	if limits.UpstreamPerMinute > 0 {
		burst := limits.UpstreamBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(limits.UpstreamPerMinute/60), burst)
	}
	return s
}

// NewSession opens a session with the default form.
func (s *Studio) NewSession(ctx context.Context, darkMode bool) (string, app.State, error) {
	s.mu.Lock()
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		return "", app.State{}, ErrTooManySessions
	}
	sess := &session{
		id:    uuid.New().String(),
		state: app.Initial(darkMode),
	}
	sess.lastSeen.Store(s.now().UnixNano())
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionOpened(ctx)
	}
	slog.Info("session opened", "session_id", sess.id)
	return sess.id, sess.state, nil
}

// Session returns the current snapshot.
func (s *Studio) Session(id string) (app.State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return app.State{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state, nil
}

// CloseSession removes a session and releases its audio.
func (s *Studio) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.store.Release(id)
	if s.metrics != nil {
		s.metrics.SessionClosed(ctx)
	}
	slog.Info("session closed", "session_id", id)
	return nil
}

// UpdateForm validates and stores the generation settings.
func (s *Studio) UpdateForm(id string, form app.Form) (app.State, error) {
	if err := ValidateForm(form); err != nil {
		return app.State{}, err
	}
	return s.apply(id, app.SetForm{Form: form})
}

// SetDarkMode stores the theme preference.
func (s *Studio) SetDarkMode(id string, enabled bool) (app.State, error) {
	return s.apply(id, app.SetDarkMode{Enabled: enabled})
}

// ToggleDarkMode flips the theme preference.
func (s *Studio) ToggleDarkMode(id string) (app.State, error) {
	return s.apply(id, app.ToggleDarkMode{})
}

// PlayerEvent drives the session's audio transport.
func (s *Studio) PlayerEvent(id string, e player.Event) (app.State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return app.State{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state.AudioHandle == "" {
		return sess.state, ErrNoAudio
	}
	if _, err := player.Apply(sess.state.Player, e); err != nil {
		return sess.state, err
	}
	sess.state = app.Reduce(sess.state, app.PlayerEvent{Event: e})
	return sess.state, nil
}

// GenerateDialogue requests a new transcript. The previous transcript and
// audio are dropped when the request starts. On failure the returned state
// carries the user-facing message and err carries the cause.
func (s *Studio) GenerateDialogue(ctx context.Context, id string) (app.State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return app.State{}, err
	}
	logger := slog.With("session_id", id)

	sess.mu.Lock()
	if sess.state.Busy() {
		st := sess.state
		sess.mu.Unlock()
		return st, ErrBusy
	}
	if !sess.state.CanGenerateText() {
		st := sess.state
		sess.mu.Unlock()
		return st, ErrTopicRequired
	}
	sess.state = app.Reduce(sess.state, app.TextRequested{})
	form := sess.state.Form
	sess.mu.Unlock()

	s.store.Release(id)
	logger.Info("dialogue generation started", "level", form.Level, "backend", s.backend.Name())

	start := time.Now()
	lines, err := s.generateText(ctx, form)
	s.record(ctx, "dialogue", start, err)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err != nil {
		logger.Error("dialogue generation failed", "error", err)
		sess.state = app.Reduce(sess.state, app.TextFailed{Err: err})
		return sess.state, err
	}
	sess.state = app.Reduce(sess.state, app.TextSucceeded{Transcript: lines})
	logger.Info("dialogue generation complete", "lines", lines.Len(), "duration", time.Since(start))
	return sess.state, nil
}

// GenerateAudio voices the current transcript and registers the resulting
// WAV container as the session's playable resource.
func (s *Studio) GenerateAudio(ctx context.Context, id string) (app.State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return app.State{}, err
	}
	logger := slog.With("session_id", id)

	sess.mu.Lock()
	if sess.state.Busy() {
		st := sess.state
		sess.mu.Unlock()
		return st, ErrBusy
	}
	if !sess.state.CanGenerateAudio() {
		st := sess.state
		sess.mu.Unlock()
		return st, ErrNoTranscript
	}
	sess.state = app.Reduce(sess.state, app.AudioRequested{})
	transcript := sess.state.Transcript.Clone()
	voiceA, voiceB := sess.state.Form.VoiceA, sess.state.Form.VoiceB
	sess.mu.Unlock()

	logger.Info("audio generation started", "lines", transcript.Len(), "voice_a", voiceA, "voice_b", voiceB)

	start := time.Now()
	c, err := s.synthesize(ctx, transcript, voiceA, voiceB)
	s.record(ctx, "audio", start, err)

	var handle string
	if err == nil {
		handle = s.store.Replace(id, c)
		if s.metrics != nil {
			s.metrics.AddAudioBytes(ctx, c.Len())
		}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err != nil {
		logger.Error("audio generation failed", "error", err)
		sess.state = app.Reduce(sess.state, app.AudioFailed{Err: err})
		return sess.state, err
	}
	if _, err := s.lookup(id); err != nil {
		// Closed while synthesizing.
		s.store.Release(id)
		return sess.state, err
	}
	sess.state = app.Reduce(sess.state, app.AudioSucceeded{Handle: handle})
	logger.Info("audio generation complete",
		"handle", handle,
		"wav_bytes", c.Len(),
		"audio_duration", c.Duration(),
		"duration", time.Since(start))
	return sess.state, nil
}

// Audio resolves a playable resource handle.
func (s *Studio) Audio(handle string) (*audiostore.Entry, error) {
	return s.store.Get(handle)
}

// SessionCount returns the number of open sessions.
func (s *Studio) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ExpireIdle closes every session that has not been used for the configured
// idle TTL, releasing its audio. Sessions with a generation step in flight
// are kept. It returns the number of sessions closed.
func (s *Studio) ExpireIdle(ctx context.Context) int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTTL).UnixNano()

	s.mu.RLock()
	var idle []*session
	for _, sess := range s.sessions {
		if sess.lastSeen.Load() < cutoff {
			idle = append(idle, sess)
		}
	}
	s.mu.RUnlock()

	closed := 0
	for _, sess := range idle {
		sess.mu.Lock()
		busy := sess.state.Busy()
		sess.mu.Unlock()
		if busy || sess.lastSeen.Load() >= cutoff {
			continue
		}
		if err := s.CloseSession(ctx, sess.id); err == nil {
			closed++
		}
	}
	if closed > 0 {
		slog.Info("idle sessions expired",
			"closed", closed,
			"open", s.SessionCount(),
			"audio_entries", s.store.Len())
	}
	return closed
}

// RunExpiry calls ExpireIdle every interval until ctx is cancelled.
func (s *Studio) RunExpiry(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ExpireIdle(ctx)
		}
	}
}

// --- Internal helpers ---

func (s *Studio) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen.Store(s.now().UnixNano())
	return sess, nil
}

func (s *Studio) apply(id string, a app.Action) (app.State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return app.State{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state = app.Reduce(sess.state, a)
	return sess.state, nil
}

func (s *Studio) generateText(ctx context.Context, form app.Form) (dialogue.Transcript, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.backend.GenerateDialogue(ctx, generator.DialogueRequest{
		Topic:      form.Topic,
		Level:      form.Level,
		Grammar:    form.Grammar,
		Vocabulary: form.Vocabulary,
	})
}

func (s *Studio) synthesize(ctx context.Context, t dialogue.Transcript, voiceA, voiceB string) (*wav.Container, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	audio, err := s.backend.SynthesizeDialogue(ctx, t, voiceA, voiceB)
	if err != nil {
		return nil, err
	}
	c, err := wav.EncodeFormat(audio.PCM, audio.Format)
	if err != nil {
		return nil, fmt.Errorf("encoding wav: %w", err)
	}
	return c, nil
}

func (s *Studio) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("waiting for upstream quota: %w", ctxErr)
		}
		// The limiter refuses up front when the next token lies past the deadline.
		if _, ok := ctx.Deadline(); ok {
			return fmt.Errorf("waiting for upstream quota: %w: %v", context.DeadlineExceeded, err)
		}
		return fmt.Errorf("waiting for upstream quota: %w", err)
	}
	return nil
}

func (s *Studio) record(ctx context.Context, kind string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordGeneration(ctx, kind, time.Since(start), Reason(err))
}

// Reason classifies err for metrics and API responses. It returns "" for nil.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, generator.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, dialogue.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, dialogue.ErrSchemaViolation):
		return "schema_violation"
	case errors.Is(err, wav.ErrInvalidParameters):
		return "invalid_parameters"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, generator.ErrUpstream):
		return "upstream"
	default:
		return "internal"
	}
}
