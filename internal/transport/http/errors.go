package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/nadzzz/listening2go/internal/audiostore"
	"github.com/nadzzz/listening2go/internal/dialogue"
	"github.com/nadzzz/listening2go/internal/generator"
	"github.com/nadzzz/listening2go/internal/player"
	"github.com/nadzzz/listening2go/internal/studio"
	"github.com/nadzzz/listening2go/internal/wav"
)

// classify maps an error to an HTTP status and a stable reason string.
func classify(err error) (int, string) {
	var formErr *studio.FormError
	switch {
	case errors.Is(err, studio.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, audiostore.ErrNotFound):
		return http.StatusNotFound, "audio_not_found"
	case errors.Is(err, studio.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, studio.ErrTooManySessions):
		return http.StatusTooManyRequests, "too_many_sessions"
	case errors.As(err, &formErr):
		return http.StatusBadRequest, "invalid_form"
	case errors.Is(err, studio.ErrTopicRequired):
		return http.StatusBadRequest, "topic_required"
	case errors.Is(err, studio.ErrNoTranscript):
		return http.StatusConflict, "no_transcript"
	case errors.Is(err, studio.ErrNoAudio):
		return http.StatusConflict, "no_audio"
	case errors.Is(err, player.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, player.ErrInvalidValue):
		return http.StatusBadRequest, "invalid_value"
	case errors.Is(err, wav.ErrInvalidParameters):
		return http.StatusBadRequest, "invalid_parameters"
	case errors.Is(err, generator.ErrMissingCredential):
		return http.StatusServiceUnavailable, "missing_credential"
	case errors.Is(err, dialogue.ErrMalformedResponse):
		return http.StatusBadGateway, "malformed_response"
	case errors.Is(err, dialogue.ErrSchemaViolation):
		return http.StatusBadGateway, "schema_violation"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "canceled"
	case errors.Is(err, generator.ErrUpstream):
		return http.StatusBadGateway, "upstream"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
