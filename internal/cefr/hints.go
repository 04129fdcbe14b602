package cefr

// Guide is a pair of UI suggestions for a level. It is never validated
// against user input.
type Guide struct {
	Grammar    string `json:"grammar"`
	Vocabulary string `json:"vocabulary"`
}

var guides = map[Level]Guide{
	A2: {
		Grammar:    "Past Simple, Present Continuous (future), Comparatives, 'Going to', Adverbs of frequency",
		Vocabulary: "Daily routines, family, shopping, weather, transport, hobbies",
	},
	B1: {
		Grammar:    "Present Perfect, First/Second Conditional, Passive Voice (simple), Used to, Relative clauses",
		Vocabulary: "Travel, health, feelings, education, work, entertainment",
	},
	B2: {
		Grammar:    "Third Conditional, Future Continuous, Reported Speech, Modals of Deduction, Passive with modals",
		Vocabulary: "Environment, technology, social issues, media, personality traits, crime",
	},
	C1: {
		Grammar:    "Inversion, Mixed Conditionals, Cleft Sentences, Participle Clauses, Wishes/Regrets",
		Vocabulary: "Idioms, phrasal verbs, abstract nouns, academic vocabulary, nuance",
	},
	C2: {
		Grammar:    "Subjunctive, Stylistic Inversion, Discourse Markers, Hedging, Fronting",
		Vocabulary: "Nuanced collocations, register-specific lexis, sophisticated idioms, archaic forms",
	},
}

// Hints returns the suggestions for l. Unknown levels get a zero Guide.
func Hints(l Level) Guide {
	return guides[l]
}
