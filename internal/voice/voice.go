// Package voice lists the prebuilt voices offered for the two speakers.
package voice

// Preset is a prebuilt synthesis voice.
type Preset struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Presets is the closed set of voices shown in the voice pickers.
var Presets = []Preset{
	{Name: "Puck", Label: "Puck (Masculino - Suave)"},
	{Name: "Charon", Label: "Charon (Masculino - Profundo)"},
	{Name: "Kore", Label: "Kore (Femenino - Calma)"},
	{Name: "Fenrir", Label: "Fenrir (Masculino - Intenso)"},
	{Name: "Zephyr", Label: "Zephyr (Femenino - Brillante)"},
}

// Default voices for Speaker A and Speaker B.
const (
	DefaultA = "Kore"
	DefaultB = "Fenrir"
)

// Known reports whether name is one of the presets.
func Known(name string) bool {
	for _, p := range Presets {
		if p.Name == name {
			return true
		}
	}
	return false
}
