// Package chord turns typed chord symbols into pad voicings
package chord

// PitchClass is a note name reduced modulo an octave (C=0 ... B=11)
type PitchClass int

// Intervals are ascending semitone offsets from a chord root, starting at 0
type Intervals []int

// Voicing is an ascending, duplicate-free list of device note values.
// A device value is the MIDI note number minus 60.
type Voicing []int

// Parsed is the structured form of a chord symbol
type Parsed struct {
	Symbol   string     // working symbol after slash-extension rewriting
	Root     PitchClass // root pitch class
	RootName string     // normalized root spelling, e.g. "Bb"
	Quality  string     // canonical quality token
	Bass     *PitchClass
	BassName string // bass spelling as written, e.g. "Bb" in "C/Bb"

	// Override holds a curated voicing when the symbol matched the override table.
	Override Voicing
}

// HasOverride reports whether the symbol resolved to a curated voicing
func (p Parsed) HasOverride() bool {
	return p.Override != nil
}

// Device register constants
const (
	// RootRegister is the MIDI note of C in the octave where roots are placed (C3).
	RootRegister = 48
	// DeviceOffset is subtracted from a MIDI note to get a device value.
	DeviceOffset = 60
)

// ToDevice converts a MIDI note number to a device value
func ToDevice(midiNote int) int {
	return midiNote - DeviceOffset
}

// ToMIDI converts a device value back to a MIDI note number
func ToMIDI(value int) int {
	return value + DeviceOffset
}
