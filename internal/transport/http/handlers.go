package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nadzzz/listening2go/internal/app"
	"github.com/nadzzz/listening2go/internal/cefr"
	"github.com/nadzzz/listening2go/internal/message"
	"github.com/nadzzz/listening2go/internal/player"
	"github.com/nadzzz/listening2go/internal/studio"
	"github.com/nadzzz/listening2go/internal/transport"
	"github.com/nadzzz/listening2go/internal/wav"
)

// downloadName is the attachment file name of rendered audio.
const downloadName = "dialogue.wav"

type api struct {
	svc           transport.Service
	defaultFormat wav.Format
}

func (a *api) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(webFS, "web/index.html")
	if err != nil {
		http.Error(w, "ui unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// handleLevels lists the CEFR levels.
//
// @Summary     List CEFR levels
// @Description Returns every level with its conversation length instruction and grammar/vocabulary suggestions.
// @Tags        catalog
// @Produce     json
// @Success     200  {array}  message.Level
// @Router      /api/levels [get]
func (a *api) handleLevels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, message.Levels())
}

// handleVoices lists the voice presets.
//
// @Summary     List voices
// @Tags        catalog
// @Produce     json
// @Success     200  {array}  message.Voice
// @Router      /api/voices [get]
func (a *api) handleVoices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, message.Voices())
}

// handleNewSession opens a session.
//
// @Summary     Open a session
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Param       request  body      message.NewSessionRequest  false  "Initial preferences"
// @Success     201      {object}  message.SessionResponse
// @Failure     429      {object}  message.ErrorResponse  "Session limit reached"
// @Router      /api/sessions [post]
func (a *api) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req message.NewSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeBadRequest(w, err)
			return
		}
	}
	id, st, err := a.svc.NewSession(r.Context(), req.DarkMode)
	if err != nil {
		writeError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusCreated, message.NewSessionResponse(id, st))
}

// handleGetSession returns a session snapshot.
//
// @Summary     Get a session
// @Tags        sessions
// @Produce     json
// @Param       id   path      string  true  "Session ID"
// @Success     200  {object}  message.SessionResponse
// @Failure     404  {object}  message.ErrorResponse
// @Router      /api/sessions/{id} [get]
func (a *api) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, err := a.svc.Session(id)
	if err != nil {
		writeError(w, err, id, nil)
		return
	}
	writeJSON(w, http.StatusOK, message.NewSessionResponse(id, st))
}

// handleCloseSession removes a session and its audio.
//
// @Summary     Close a session
// @Tags        sessions
// @Param       id   path  string  true  "Session ID"
// @Success     204
// @Failure     404  {object}  message.ErrorResponse
// @Router      /api/sessions/{id} [delete]
func (a *api) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := a.svc.CloseSession(r.Context(), id); err != nil {
		writeError(w, err, id, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateForm replaces the generation settings.
//
// @Summary     Update the form
// @Description Level accepts a full label or a bare code. Voices must be one of the presets.
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Param       id       path      string               true  "Session ID"
// @Param       request  body      message.FormRequest  true  "Generation settings"
// @Success     200      {object}  message.SessionResponse
// @Failure     400      {object}  message.ErrorResponse
// @Failure     404      {object}  message.ErrorResponse
// @Router      /api/sessions/{id}/form [put]
func (a *api) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req message.FormRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	level, err := cefr.Parse(req.Level)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	st, err := a.svc.UpdateForm(id, app.Form{
		Topic:      req.Topic,
		Level:      level,
		Grammar:    req.Grammar,
		Vocabulary: req.Vocabulary,
		VoiceA:     req.VoiceA,
		VoiceB:     req.VoiceB,
	})
	if err != nil {
		writeError(w, err, id, nil)
		return
	}
	writeJSON(w, http.StatusOK, message.NewSessionResponse(id, st))
}

// handleGenerateDialogue generates a new transcript.
//
// @Summary     Generate the dialogue transcript
// @Description Drops the previous transcript and audio, then asks the text model for a new two-speaker dialogue.
// @Tags        generation
// @Produce     json
// @Param       id   path      string  true  "Session ID"
// @Success     200  {object}  message.SessionResponse
// @Failure     400  {object}  message.ErrorResponse  "Topic missing"
// @Failure     409  {object}  message.ErrorResponse  "Generation in progress"
// @Failure     502  {object}  message.ErrorResponse  "Upstream failure or unusable response"
// @Failure     503  {object}  message.ErrorResponse  "API key missing"
// @Router      /api/sessions/{id}/dialogue [post]
func (a *api) handleGenerateDialogue(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, err := a.svc.GenerateDialogue(r.Context(), id)
	if err != nil {
		writeError(w, err, id, &st)
		return
	}
	writeJSON(w, http.StatusOK, message.NewSessionResponse(id, st))
}

// handleGenerateAudio renders the transcript to audio.
//
// @Summary     Generate the dialogue audio
// @Description Voices the current transcript with the selected voices and registers a WAV file for playback.
// @Tags        generation
// @Produce     json
// @Param       id   path      string  true  "Session ID"
// @Success     200  {object}  message.SessionResponse
// @Failure     409  {object}  message.ErrorResponse  "No transcript or generation in progress"
// @Failure     502  {object}  message.ErrorResponse  "Upstream failure or no audio returned"
// @Failure     503  {object}  message.ErrorResponse  "API key missing"
// @Router      /api/sessions/{id}/audio [post]
func (a *api) handleGenerateAudio(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, err := a.svc.GenerateAudio(r.Context(), id)
	if err != nil {
		writeError(w, err, id, &st)
		return
	}
	writeJSON(w, http.StatusOK, message.NewSessionResponse(id, st))
}

// handlePlayerEvent applies a transport event.
//
// @Summary     Drive the audio player
// @Tags        player
// @Accept      json
// @Produce     json
// @Param       id       path      string                      true  "Session ID"
// @Param       request  body      message.PlayerEventRequest  true  "Player event"
// @Success     200      {object}  message.SessionResponse
// @Failure     400      {object}  message.ErrorResponse  "Unknown event or invalid value"
// @Failure     409      {object}  message.ErrorResponse  "Event not valid in the current status"
// @Router      /api/sessions/{id}/player [post]
func (a *api) handlePlayerEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req message.PlayerEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	e, err := player.ParseEvent(req.Event, req.Value)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	st, err := a.svc.PlayerEvent(id, e)
	if err != nil {
		writeError(w, err, id, nil)
		return
	}
	writeJSON(w, http.StatusOK, message.NewSessionResponse(id, st))
}

// handleTheme stores the dark-mode preference.
//
// @Summary     Set the theme
// @Tags        sessions
// @Accept      json
// @Produce     json
// @Param       id       path      string                true  "Session ID"
// @Param       request  body      message.ThemeRequest  true  "Theme"
// @Success     200      {object}  message.SessionResponse
// @Router      /api/sessions/{id}/theme [put]
func (a *api) handleTheme(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req message.ThemeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	st, err := a.svc.SetDarkMode(id, req.DarkMode)
	if err != nil {
		writeError(w, err, id, nil)
		return
	}
	writeJSON(w, http.StatusOK, message.NewSessionResponse(id, st))
}

// handleToggleTheme flips the dark-mode preference.
//
// @Summary     Toggle the theme
// @Tags        sessions
// @Produce     json
// @Param       id   path      string  true  "Session ID"
// @Success     200  {object}  message.SessionResponse
// @Failure     404  {object}  message.ErrorResponse
// @Router      /api/sessions/{id}/theme/toggle [post]
func (a *api) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, err := a.svc.ToggleDarkMode(id)
	if err != nil {
		writeError(w, err, id, nil)
		return
	}
	writeJSON(w, http.StatusOK, message.NewSessionResponse(id, st))
}

// handleAudio serves a rendered WAV file. Range requests are supported so
// players can seek.
//
// @Summary     Fetch rendered audio
// @Tags        audio
// @Produce     audio/wav
// @Param       handle    path   string  true   "Audio handle"
// @Param       download  query  bool    false  "Serve as attachment dialogue.wav"
// @Success     200  {file}    binary
// @Failure     404  {object}  message.ErrorResponse
// @Router      /api/audio/{handle} [get]
func (a *api) handleAudio(w http.ResponseWriter, r *http.Request) {
	entry, err := a.svc.Audio(r.PathValue("handle"))
	if err != nil {
		writeError(w, err, "", nil)
		return
	}
	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	}
	w.Header().Set("Content-Type", "audio/wav")
	http.ServeContent(w, r, downloadName, entry.CreatedAt, bytes.NewReader(entry.Container.Bytes()))
}

// handleEncodeWAV wraps base64 PCM into a WAV container.
//
// @Summary     Wrap PCM into WAV
// @Description Prepends a canonical 44-byte RIFF/WAVE header to the decoded PCM payload.
// @Tags        audio
// @Accept      json
// @Produce     audio/wav
// @Param       request   body   message.EncodeWAVRequest  true   "Base64 PCM"
// @Param       rate      query  int                       false  "Sample rate in Hz (default 24000)"
// @Param       channels  query  int                       false  "Channel count (default 1)"
// @Param       bits      query  int                       false  "Bits per sample (default 16)"
// @Success     200  {file}    binary
// @Failure     400  {object}  message.ErrorResponse
// @Router      /api/wav [post]
func (a *api) handleEncodeWAV(w http.ResponseWriter, r *http.Request) {
	format, err := formatFromQuery(r, a.defaultFormat)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req message.EncodeWAVRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	pcm, err := wav.DecodeBase64PCM(req.PCM)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := format.CheckPayload(len(pcm)); err != nil {
		if errors.Is(err, wav.ErrInvalidParameters) {
			writeError(w, err, "", nil)
		} else {
			writeBadRequest(w, err)
		}
		return
	}
	c, err := wav.EncodeFormat(pcm, format)
	if err != nil {
		writeError(w, err, "", nil)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(c.Len()))
	_, _ = w.Write(c.Bytes())
}

// --- Helpers ---

func formatFromQuery(r *http.Request, f wav.Format) (wav.Format, error) {
	q := r.URL.Query()
	if v := q.Get("rate"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return f, fmt.Errorf("invalid rate %q", v)
		}
		f.SampleRate = uint32(n)
	}
	if v := q.Get("channels"); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return f, fmt.Errorf("invalid channels %q", v)
		}
		f.Channels = uint16(n)
	}
	if v := q.Get("bits"); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return f, fmt.Errorf("invalid bits %q", v)
		}
		f.BitsPerSample = uint16(n)
	}
	return f, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing response failed", "error", err)
	}
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, message.ErrorResponse{Error: err.Error(), Reason: "bad_request"})
}

// writeError maps err to a status. When st is non-nil the snapshot after the
// failed step is included.
func writeError(w http.ResponseWriter, err error, id string, st *app.State) {
	status, reason := classify(err)
	resp := message.ErrorResponse{Error: err.Error(), Reason: reason}
	if st != nil && id != "" && !errors.Is(err, studio.ErrSessionNotFound) {
		resp.Session = message.NewSessionResponse(id, *st)
	}
	if status >= http.StatusInternalServerError {
		slog.Warn("request failed", "status", status, "reason", reason, "error", err)
	}
	writeJSON(w, status, resp)
}
