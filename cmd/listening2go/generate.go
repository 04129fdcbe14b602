package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nadzzz/listening2go/internal/app"
	"github.com/nadzzz/listening2go/internal/cefr"
	"github.com/nadzzz/listening2go/internal/player"
	"github.com/nadzzz/listening2go/internal/voice"
)

var generateFlags struct {
	topic      string
	level      string
	grammar    string
	vocabulary string
	voiceA     string
	voiceB     string
	out        string
	textOnly   bool
	jsonOut    bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one dialogue and its audio from the command line",
	Long: `Generate one dialogue and its audio from the command line.

The transcript is printed to stdout, one "<speaker>: <text>" line per
utterance (or as JSON with --json). Unless --text-only is set, the dialogue
is then voiced and written as a WAV file.

Example:
  listening2go generate --topic "Booking a hotel room" --level B2 \
    --grammar "second conditional" --voice-a Puck --voice-b Kore --out hotel.wav`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateFlags.topic, "topic", "", "conversation topic (required)")
	f.StringVar(&generateFlags.level, "level", cefr.Default.Code(), "CEFR level: A2, B1, B2, C1 or C2")
	f.StringVar(&generateFlags.grammar, "grammar", "", "target grammar structures the dialogue must include")
	f.StringVar(&generateFlags.vocabulary, "vocabulary", "", "target vocabulary the dialogue must include")
	f.StringVar(&generateFlags.voiceA, "voice-a", voice.DefaultA, "voice for Speaker A")
	f.StringVar(&generateFlags.voiceB, "voice-b", voice.DefaultB, "voice for Speaker B")
	f.StringVarP(&generateFlags.out, "out", "o", "dialogue.wav", "output WAV file")
	f.BoolVar(&generateFlags.textOnly, "text-only", false, "skip audio synthesis")
	f.BoolVar(&generateFlags.jsonOut, "json", false, "print the transcript as JSON")
	_ = generateCmd.MarkFlagRequired("topic")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	level, err := cefr.Parse(generateFlags.level)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = rt.Close(closeCtx)
	}()

	id, _, err := rt.studio.NewSession(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = rt.studio.CloseSession(context.Background(), id) }()

	if _, err := rt.studio.UpdateForm(id, app.Form{
		Topic:      generateFlags.topic,
		Level:      level,
		Grammar:    generateFlags.grammar,
		Vocabulary: generateFlags.vocabulary,
		VoiceA:     generateFlags.voiceA,
		VoiceB:     generateFlags.voiceB,
	}); err != nil {
		return err
	}

	st, err := rt.studio.GenerateDialogue(ctx, id)
	if err != nil {
		return fmt.Errorf("generating dialogue: %w", err)
	}

	out := cmd.OutOrStdout()
	if generateFlags.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st.Transcript); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, st.Transcript.Script())
	}

	if generateFlags.textOnly {
		return nil
	}

	st, err = rt.studio.GenerateAudio(ctx, id)
	if err != nil {
		return fmt.Errorf("generating audio: %w", err)
	}
	entry, err := rt.studio.Audio(st.AudioHandle)
	if err != nil {
		return err
	}
	if err := os.WriteFile(generateFlags.out, entry.Container.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", generateFlags.out, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes, %s)\n",
		generateFlags.out,
		entry.Container.Len(),
		player.FormatTime(entry.Container.Duration().Seconds()))
	return nil
}
