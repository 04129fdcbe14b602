package generator

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nadzzz/listening2go/internal/cefr"
)

func TestBuildDialoguePrompt(t *testing.T) {
	p := BuildDialoguePrompt(DialogueRequest{
		Topic:      "  Two colleagues planning a product launch ",
		Level:      cefr.A2,
		Grammar:    "Going to",
		Vocabulary: "deadline, budget",
	})

	for _, want := range []string{
		"Context/Topic: Two colleagues planning a product launch\n",
		"English CEFR Level: A2 - Elementary",
		"Target Grammar Structures (MUST INCLUDE): Going to",
		"Target Vocabulary (MUST INCLUDE): deadline, budget",
		"Between 4 to 6 exchanges total.",
		"(A2 - Elementary)",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildDialoguePromptOmitsBlankTargets(t *testing.T) {
	p := BuildDialoguePrompt(DialogueRequest{Topic: "Ordering coffee", Level: cefr.C1, Grammar: "   "})
	if strings.Contains(p, "Target Grammar") || strings.Contains(p, "Target Vocabulary") {
		t.Fatalf("blank targets should be omitted:\n%s", p)
	}
	if !strings.Contains(p, "12 to 16") {
		t.Fatalf("expected C1 length instruction:\n%s", p)
	}
}

func TestBuildDialoguePromptUnknownLevel(t *testing.T) {
	p := BuildDialoguePrompt(DialogueRequest{Topic: "x", Level: cefr.Level("Native")})
	if !strings.Contains(p, "Between 6 to 10 exchanges.") {
		t.Fatalf("expected fallback length instruction:\n%s", p)
	}
}

func TestUpstreamErrorMatching(t *testing.T) {
	base := errors.New("connection reset")
	err := fmt.Errorf("generating: %w", &UpstreamError{Op: "generate dialogue", Err: base})
	if !errors.Is(err, ErrUpstream) {
		t.Fatal("expected errors.Is(ErrUpstream)")
	}
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("unexpected message %q", err)
	}
}
