package generator

import (
	"fmt"
	"strings"
)

// BuildDialoguePrompt renders the instruction sent to the text-generation
// collaborator. Optional targets are omitted entirely when blank.
func BuildDialoguePrompt(req DialogueRequest) string {
	level := string(req.Level)

	var sb strings.Builder
	sb.WriteString("Create a realistic conversation dialogue in English between two people (Speaker A and Speaker B).\n\n")
	fmt.Fprintf(&sb, "Context/Topic: %s\n", strings.TrimSpace(req.Topic))
	fmt.Fprintf(&sb, "English CEFR Level: %s\n", level)
	if g := strings.TrimSpace(req.Grammar); g != "" {
		fmt.Fprintf(&sb, "Target Grammar Structures (MUST INCLUDE): %s\n", g)
	}
	if v := strings.TrimSpace(req.Vocabulary); v != "" {
		fmt.Fprintf(&sb, "Target Vocabulary (MUST INCLUDE): %s\n", v)
	}

	sb.WriteString("\nInstructions:\n")
	fmt.Fprintf(&sb, "1. %s\n", req.Level.LengthInstruction())
	fmt.Fprintf(&sb, "2. Ensure the vocabulary and grammar strictly match the requested CEFR level (%s).\n", level)
	sb.WriteString("3. If target grammar or vocabulary was provided, try to incorporate it naturally into the conversation.\n")
	sb.WriteString("4. Make it natural and educational for students.\n")
	sb.WriteString("\nReturn only a JSON array of objects with the fields \"speaker\" (\"Speaker A\" or \"Speaker B\") and \"text\".\n")

	return sb.String()
}
