// Package dialogue defines the transcript model exchanged with the
// text-generation and speech-synthesis collaborators.
//
// A transcript is an ordered list of lines, each attributed to one of two
// speakers. The order of lines is the speaking order of the conversation and
// is preserved verbatim by every function in this package.
package dialogue

import (
	"fmt"
	"strings"
)

// Speaker identifies one of the two participants of a dialogue.
type Speaker string

const (
	// SpeakerA is the first participant. The literal is shared with the
	// collaborator's response schema and the speech script.
	SpeakerA Speaker = "Speaker A"

	// SpeakerB is the second participant.
	SpeakerB Speaker = "Speaker B"
)

// Speakers lists the recognized speaker identities in canonical order.
var Speakers = []Speaker{SpeakerA, SpeakerB}

// Valid reports whether s is one of the two recognized identities.
func (s Speaker) Valid() bool {
	return s == SpeakerA || s == SpeakerB
}

// Line is a single utterance.
type Line struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Transcript is an ordered sequence of lines. An empty transcript is valid
// and means "no content yet".
type Transcript []Line

// Len returns the number of lines.
func (t Transcript) Len() int { return len(t) }

// Empty reports whether the transcript has no lines.
func (t Transcript) Empty() bool { return len(t) == 0 }

// Clone returns a copy that shares no backing array with t.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// Validate checks the line invariants for transcripts built in code rather
// than decoded from a collaborator payload.
func (t Transcript) Validate() error {
	for i, l := range t {
		if !l.Speaker.Valid() {
			return &SchemaViolationError{Index: i, Field: "speaker", Reason: fmt.Sprintf("unrecognized speaker %q", l.Speaker)}
		}
		if l.Text == "" {
			return &SchemaViolationError{Index: i, Field: "text", Reason: "must not be empty"}
		}
	}
	return nil
}

// Script renders the transcript as the speech-synthesis input: one
// "<speaker>: <text>" line per utterance, newline separated.
func (t Transcript) Script() string {
	var sb strings.Builder
	for i, l := range t {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(l.Speaker))
		sb.WriteString(": ")
		sb.WriteString(l.Text)
	}
	return sb.String()
}
