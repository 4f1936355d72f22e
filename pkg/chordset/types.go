// Package chordset builds and encodes chord-set documents for the Maschine
// chord pad bank
package chordset

const (
	// TypeID identifies the document to the importing instrument
	TypeID = "native-instruments-chord-set"
	// Version is the document schema version
	Version = "1.0.0"
	// MaxChords is the number of chord pads in one set
	MaxChords = 12
	// FilePrefix names exported documents: FilePrefix + "01" + ".json"
	FilePrefix = "user_chord_set_"
)

// Chord is one pad entry
type Chord struct {
	Name  string `json:"name"`
	Notes []int  `json:"notes"`
}

// Document is an exported chord set
type Document struct {
	Chords  []Chord `json:"chords"`
	Name    string  `json:"name"`
	TypeID  string  `json:"typeId"`
	UUID    string  `json:"uuid"`
	Version string  `json:"version"`
}

// Input is what a user enters for one chord set
type Input struct {
	Name        string   `json:"name"`
	Key         string   `json:"key"`
	Chords      []string `json:"chords"`
	NumeralMode bool     `json:"numeralMode"`
}
