// Package cefr holds the CEFR proficiency levels a dialogue can target and
// the per-level configuration tables: the length instruction sent to the
// text-generation collaborator and the grammar/vocabulary suggestions shown
// in the form.
package cefr

import (
	"fmt"
	"strings"
)

// Level is a CEFR proficiency tier. The string value is the label shown in
// the UI and embedded in prompts.
type Level string

const (
	A2 Level = "A2 - Elementary"
	B1 Level = "B1 - Intermediate"
	B2 Level = "B2 - Upper Intermediate"
	C1 Level = "C1 - Advanced"
	C2 Level = "C2 - Proficiency"
)

// Default is the level preselected for a new session.
const Default = B1

// Levels lists all levels from elementary to proficiency.
var Levels = []Level{A2, B1, B2, C1, C2}

// Code returns the bare tier code, e.g. "B2".
func (l Level) Code() string {
	code, _, _ := strings.Cut(string(l), " - ")
	return code
}

// Valid reports whether l is one of the five recognized levels.
func (l Level) Valid() bool {
	for _, v := range Levels {
		if l == v {
			return true
		}
	}
	return false
}

// Parse accepts either the full label ("C1 - Advanced") or the bare code
// ("c1"). Surrounding whitespace and case are ignored.
func Parse(s string) (Level, error) {
	s = strings.TrimSpace(s)
	for _, l := range Levels {
		if strings.EqualFold(s, string(l)) || strings.EqualFold(s, l.Code()) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown CEFR level %q", s)
}

const (
	lengthShort    = "Keep it short and simple. Between 4 to 6 exchanges total."
	lengthModerate = "Moderate length. Between 8 to 12 exchanges total."
	lengthLong     = "In-depth discussion. Between 12 to 16 exchanges total."
	lengthFallback = "Between 6 to 10 exchanges."
)

// LengthInstruction selects the conversation length instruction for a level
// label. Matching is by tier code so both "B1" and "B1 - Intermediate" map
// to the same bucket; anything unrecognized gets the 6 to 10 fallback.
func LengthInstruction(level string) string {
	switch {
	case strings.Contains(level, "A2"):
		return lengthShort
	case strings.Contains(level, "B1"), strings.Contains(level, "B2"):
		return lengthModerate
	case strings.Contains(level, "C1"), strings.Contains(level, "C2"):
		return lengthLong
	default:
		return lengthFallback
	}
}

// LengthInstruction returns the instruction for l.
func (l Level) LengthInstruction() string { return LengthInstruction(string(l)) }
