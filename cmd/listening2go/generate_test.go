package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/nadzzz/listening2go/internal/cefr"
	"github.com/nadzzz/listening2go/internal/config"
	"github.com/nadzzz/listening2go/internal/dialogue"
	"github.com/nadzzz/listening2go/internal/generator"
	"github.com/nadzzz/listening2go/internal/wav"
)

type fakeBackend struct {
	transcript dialogue.Transcript
	textErr    error
	audio      *generator.Audio

	cfg         *config.Config
	lastRequest generator.DialogueRequest
	lastVoices  [2]string
	synthesized bool
	closed      bool
}

func (f *fakeBackend) Name() string { return "fake" }
func (f *fakeBackend) Close() error { f.closed = true; return nil }

func (f *fakeBackend) GenerateDialogue(_ context.Context, req generator.DialogueRequest) (dialogue.Transcript, error) {
	f.lastRequest = req
	return f.transcript, f.textErr
}

func (f *fakeBackend) SynthesizeDialogue(_ context.Context, _ dialogue.Transcript, voiceA, voiceB string) (*generator.Audio, error) {
	f.synthesized = true
	f.lastVoices = [2]string{voiceA, voiceB}
	return f.audio, nil
}

var sample = dialogue.Transcript{
	{Speaker: dialogue.SpeakerA, Text: "Where is gate twelve?"},
	{Speaker: dialogue.SpeakerB, Text: "Just past security."},
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		transcript: sample,
		audio:      &generator.Audio{PCM: make([]byte, 480), Format: wav.DefaultFormat},
	}
}

// runCLI executes the root command in a fresh working directory with the
// generator backend replaced by fake.
func runCLI(t *testing.T, fake *fakeBackend, args ...string) (string, error) {
	t.Helper()

	orig := newBackend
	newBackend = func(_ context.Context, cfg *config.Config) (generator.Backend, error) {
		fake.cfg = cfg
		return fake, nil
	}
	t.Cleanup(func() { newBackend = orig })

	t.Setenv("LISTENING2GO_TELEMETRY_METRICS_ENABLED", "false")
	t.Setenv("LISTENING2GO_LOGGING_LEVEL", "error")

	// Flag values persist on the package-level command between runs.
	generateCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateWritesTranscriptAndWAV(t *testing.T) {
	t.Chdir(t.TempDir())
	const key = "LISTENING2GO_GENERATOR_GEMINI_TEXT_MODEL"
	if err := os.WriteFile(".env", []byte(key+"=model-from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	fake := newFakeBackend()
	out, err := runCLI(t, fake, "generate",
		"--topic", "At the airport",
		"--level", "B2",
		"--grammar", "present perfect",
		"--voice-a", "Puck",
		"--out", "airport.wav")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !strings.Contains(out, "Speaker A: Where is gate twelve?\nSpeaker B: Just past security.") {
		t.Fatalf("unexpected transcript output:\n%s", out)
	}
	if fake.cfg.Generator.Gemini.TextModel != "model-from-dotenv" {
		t.Fatalf("expected .env to configure the text model, got %q", fake.cfg.Generator.Gemini.TextModel)
	}
	if fake.lastRequest.Level != cefr.B2 || fake.lastRequest.Grammar != "present perfect" {
		t.Fatalf("unexpected request: %+v", fake.lastRequest)
	}
	if fake.lastVoices != [2]string{"Puck", "Fenrir"} {
		t.Fatalf("unexpected voices: %v", fake.lastVoices)
	}
	if !fake.closed {
		t.Fatal("expected backend to be closed")
	}

	data, err := os.ReadFile("airport.wav")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != wav.HeaderSize+480 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatalf("unexpected wav file: %d bytes, header %q", len(data), data[:12])
	}
}

func TestGenerateTextOnlyJSON(t *testing.T) {
	t.Chdir(t.TempDir())

	fake := newFakeBackend()
	out, err := runCLI(t, fake, "generate", "--topic", "Ordering coffee", "--text-only", "--json", "--out", "coffee.wav")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var got dialogue.Transcript
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("expected JSON transcript, got %q: %v", out, err)
	}
	if got.Len() != 2 || got[1].Speaker != dialogue.SpeakerB {
		t.Fatalf("unexpected transcript: %+v", got)
	}
	if fake.synthesized {
		t.Fatal("text-only run must not synthesize audio")
	}
	if _, err := os.Stat("coffee.wav"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no wav file, stat returned %v", err)
	}
}

func TestGenerateRejectsUnknownLevel(t *testing.T) {
	t.Chdir(t.TempDir())

	fake := newFakeBackend()
	if _, err := runCLI(t, fake, "generate", "--topic", "Weather", "--level", "Z9"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if fake.cfg != nil {
		t.Fatal("backend must not be built for invalid flags")
	}
}

func TestGenerateRequiresTopic(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := runCLI(t, newFakeBackend(), "generate"); err == nil {
		t.Fatal("expected error without --topic")
	}
}

func TestGenerateReportsUpstreamFailure(t *testing.T) {
	t.Chdir(t.TempDir())

	fake := newFakeBackend()
	fake.textErr = &generator.UpstreamError{Op: "generate dialogue", Err: errors.New("service unavailable")}
	_, err := runCLI(t, fake, "generate", "--topic", "Weather", "--out", "weather.wav")
	if !errors.Is(err, generator.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !strings.Contains(err.Error(), "generating dialogue") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if _, statErr := os.Stat("weather.wav"); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("no file should be written after a failure")
	}
}
