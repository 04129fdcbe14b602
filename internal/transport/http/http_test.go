package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nadzzz/listening2go/internal/audiostore"
	"github.com/nadzzz/listening2go/internal/config"
	"github.com/nadzzz/listening2go/internal/dialogue"
	"github.com/nadzzz/listening2go/internal/generator"
	"github.com/nadzzz/listening2go/internal/message"
	"github.com/nadzzz/listening2go/internal/studio"
	"github.com/nadzzz/listening2go/internal/wav"
)

type fakeBackend struct {
	transcript dialogue.Transcript
	textErr    error
	audio      *generator.Audio
	audioErr   error
}

func (f *fakeBackend) Name() string { return "fake" }
func (f *fakeBackend) Close() error { return nil }

func (f *fakeBackend) GenerateDialogue(context.Context, generator.DialogueRequest) (dialogue.Transcript, error) {
	return f.transcript, f.textErr
}

func (f *fakeBackend) SynthesizeDialogue(context.Context, dialogue.Transcript, string, string) (*generator.Audio, error) {
	return f.audio, f.audioErr
}

func newServer(t *testing.T, backend generator.Backend) *httptest.Server {
	t.Helper()
	svc := studio.New(backend, audiostore.New(), nil, config.LimitsConfig{MaxSessions: 10})
	srv := httptest.NewServer(New(0, wav.DefaultFormat, nil).Handler(svc))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, body)
	}
}

func openSession(t *testing.T, srv *httptest.Server, topic string) string {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/api/sessions", message.NewSessionRequest{DarkMode: true})
	expectStatus(t, resp, http.StatusCreated)
	s := decode[message.SessionResponse](t, resp)
	if !s.State.DarkMode {
		t.Fatal("expected dark mode from request")
	}

	resp = do(t, srv, http.MethodPut, "/api/sessions/"+s.ID+"/form", message.FormRequest{
		Topic:  topic,
		Level:  "c1",
		VoiceA: "Puck",
		VoiceB: "Zephyr",
	})
	expectStatus(t, resp, http.StatusOK)
	s = decode[message.SessionResponse](t, resp)
	if s.State.Form.Level != "C1 - Advanced" {
		t.Fatalf("expected level label, got %q", s.State.Form.Level)
	}
	return s.ID
}

var sample = dialogue.Transcript{
	{Speaker: dialogue.SpeakerA, Text: "Good morning."},
	{Speaker: dialogue.SpeakerB, Text: "Morning! Coffee?"},
}

func TestCatalog(t *testing.T) {
	srv := newServer(t, &fakeBackend{})

	resp := do(t, srv, http.MethodGet, "/api/levels", nil)
	expectStatus(t, resp, http.StatusOK)
	levels := decode[[]message.Level](t, resp)
	if len(levels) != 5 {
		t.Fatalf("expected 5 levels, got %d", len(levels))
	}
	if levels[0].Code != "A2" || !strings.Contains(levels[0].LengthInstruction, "4 to 6") {
		t.Fatalf("unexpected first level: %+v", levels[0])
	}
	if !levels[1].Default {
		t.Fatal("expected B1 to be the default level")
	}

	resp = do(t, srv, http.MethodGet, "/api/voices", nil)
	expectStatus(t, resp, http.StatusOK)
	if voices := decode[[]message.Voice](t, resp); len(voices) != 5 {
		t.Fatalf("expected 5 voices, got %d", len(voices))
	}
}

func TestIndex(t *testing.T) {
	srv := newServer(t, &fakeBackend{})
	resp := do(t, srv, http.MethodGet, "/", nil)
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestGenerationCycle(t *testing.T) {
	srv := newServer(t, &fakeBackend{
		transcript: sample,
		audio:      &generator.Audio{PCM: make([]byte, 1000), Format: wav.DefaultFormat},
	})
	id := openSession(t, srv, "Breakfast")

	resp := do(t, srv, http.MethodPost, "/api/sessions/"+id+"/dialogue", nil)
	expectStatus(t, resp, http.StatusOK)
	s := decode[message.SessionResponse](t, resp)
	if s.State.Transcript.Len() != 2 || !s.CanGenerateAudio {
		t.Fatalf("unexpected snapshot: %+v", s)
	}

	resp = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/audio", nil)
	expectStatus(t, resp, http.StatusOK)
	s = decode[message.SessionResponse](t, resp)
	if s.AudioURL == "" {
		t.Fatal("expected audio url")
	}

	resp = do(t, srv, http.MethodGet, s.AudioURL, nil)
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "audio/wav" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 1044 || string(body[:4]) != "RIFF" {
		t.Fatalf("unexpected wav body: %d bytes", len(body))
	}

	resp = do(t, srv, http.MethodGet, s.AudioURL+"?download=1", nil)
	expectStatus(t, resp, http.StatusOK)
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "dialogue.wav") {
		t.Fatalf("expected attachment name, got %q", cd)
	}

	resp = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/player", message.PlayerEventRequest{Event: "metadata", Value: 65})
	expectStatus(t, resp, http.StatusOK)
	s = decode[message.SessionResponse](t, resp)
	if s.State.Player.Duration != 65 || s.Total != "1:05" {
		t.Fatalf("unexpected player snapshot: %+v", s)
	}

	resp = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/player", message.PlayerEventRequest{Event: "speed", Value: 3})
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		status  int
		reason  string
	}{
		{"missing credential", &fakeBackend{textErr: generator.ErrMissingCredential}, http.StatusServiceUnavailable, "missing_credential"},
		{"schema violation", &fakeBackend{textErr: &dialogue.SchemaViolationError{Index: 0, Field: "speaker", Reason: "unrecognized"}}, http.StatusBadGateway, "schema_violation"},
		{"upstream", &fakeBackend{textErr: &generator.UpstreamError{Op: "generate dialogue", Err: io.ErrUnexpectedEOF}}, http.StatusBadGateway, "upstream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.backend)
			id := openSession(t, srv, "Weather")

			resp := do(t, srv, http.MethodPost, "/api/sessions/"+id+"/dialogue", nil)
			expectStatus(t, resp, tt.status)
			e := decode[message.ErrorResponse](t, resp)
			if e.Reason != tt.reason {
				t.Fatalf("expected reason %q, got %q", tt.reason, e.Reason)
			}
			if e.Session == nil || e.Session.State.Error == "" || e.Session.State.GeneratingText {
				t.Fatalf("expected failed snapshot, got %+v", e.Session)
			}
		})
	}
}

func TestPreconditionErrors(t *testing.T) {
	srv := newServer(t, &fakeBackend{transcript: sample})

	resp := do(t, srv, http.MethodGet, "/api/sessions/unknown", nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = do(t, srv, http.MethodGet, "/api/audio/unknown", nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = do(t, srv, http.MethodPost, "/api/sessions", nil)
	expectStatus(t, resp, http.StatusCreated)
	id := decode[message.SessionResponse](t, resp).ID

	resp = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/dialogue", nil)
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/audio", nil)
	expectStatus(t, resp, http.StatusConflict)

	resp = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/player", message.PlayerEventRequest{Event: "play"})
	expectStatus(t, resp, http.StatusConflict)

	resp = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/player", message.PlayerEventRequest{Event: "rewind"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, srv, http.MethodPut, "/api/sessions/"+id+"/form", message.FormRequest{Level: "Z9", VoiceA: "Kore", VoiceB: "Fenrir"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, srv, http.MethodPut, "/api/sessions/"+id+"/form", message.FormRequest{Level: "B2", VoiceA: "Nova", VoiceB: "Fenrir"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, srv, http.MethodDelete, "/api/sessions/"+id, nil)
	expectStatus(t, resp, http.StatusNoContent)
	resp = do(t, srv, http.MethodGet, "/api/sessions/"+id, nil)
	expectStatus(t, resp, http.StatusNotFound)
}

func TestTheme(t *testing.T) {
	srv := newServer(t, &fakeBackend{})
	resp := do(t, srv, http.MethodPost, "/api/sessions", nil)
	id := decode[message.SessionResponse](t, resp).ID

	resp = do(t, srv, http.MethodPut, "/api/sessions/"+id+"/theme", message.ThemeRequest{DarkMode: true})
	expectStatus(t, resp, http.StatusOK)
	if !decode[message.SessionResponse](t, resp).State.DarkMode {
		t.Fatal("expected dark mode")
	}

	resp = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/theme/toggle", nil)
	expectStatus(t, resp, http.StatusOK)
	if decode[message.SessionResponse](t, resp).State.DarkMode {
		t.Fatal("expected toggle back to light mode")
	}

	resp = do(t, srv, http.MethodPost, "/api/sessions/missing/theme/toggle", nil)
	expectStatus(t, resp, http.StatusNotFound)
}

func TestEncodeWAV(t *testing.T) {
	srv := newServer(t, &fakeBackend{})
	pcm := base64.StdEncoding.EncodeToString(make([]byte, 1000))

	resp := do(t, srv, http.MethodPost, "/api/wav", message.EncodeWAVRequest{PCM: pcm})
	expectStatus(t, resp, http.StatusOK)
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 1044 {
		t.Fatalf("expected 1044 bytes, got %d", len(body))
	}
	if rate := binary.LittleEndian.Uint32(body[24:28]); rate != 24000 {
		t.Fatalf("expected default rate 24000, got %d", rate)
	}

	resp = do(t, srv, http.MethodPost, "/api/wav?rate=44100&channels=2", message.EncodeWAVRequest{PCM: pcm})
	expectStatus(t, resp, http.StatusOK)
	body, _ = io.ReadAll(resp.Body)
	if rate := binary.LittleEndian.Uint32(body[24:28]); rate != 44100 {
		t.Fatalf("expected rate 44100, got %d", rate)
	}

	for _, q := range []string{"?rate=0", "?rate=-1", "?bits=abc", "?channels=65535", "?channels=3"} {
		resp = do(t, srv, http.MethodPost, "/api/wav"+q, message.EncodeWAVRequest{PCM: pcm})
		expectStatus(t, resp, http.StatusBadRequest)
	}

	// 8-bit audio accepts an odd sample count.
	odd := base64.StdEncoding.EncodeToString(make([]byte, 1001))
	resp = do(t, srv, http.MethodPost, "/api/wav?bits=8", message.EncodeWAVRequest{PCM: odd})
	expectStatus(t, resp, http.StatusOK)
	body, _ = io.ReadAll(resp.Body)
	if len(body) != 1045 {
		t.Fatalf("expected 1045 bytes, got %d", len(body))
	}

	resp = do(t, srv, http.MethodPost, "/api/wav", message.EncodeWAVRequest{PCM: odd})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, srv, http.MethodPost, "/api/wav", message.EncodeWAVRequest{PCM: "%%%"})
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "listening2go_generations_total 1\n")
	})
	svc := studio.New(&fakeBackend{}, audiostore.New(), nil, config.LimitsConfig{})
	srv := httptest.NewServer(New(0, wav.DefaultFormat, metrics).Handler(svc))
	defer srv.Close()

	resp := do(t, srv, http.MethodGet, "/metrics", nil)
	expectStatus(t, resp, http.StatusOK)
}
