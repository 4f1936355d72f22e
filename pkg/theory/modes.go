// Package theory labels chords against a key: scales, diatonic chords,
// Roman numerals and modal origin
package theory

import (
	"fmt"
	"strings"
)

// Mode is one of the seven rotations of the major scale
type Mode int

const (
	Ionian Mode = iota
	Dorian
	Phrygian
	Lydian
	Mixolydian
	Aeolian
	Locrian
)

var modeNames = [...]string{"ionian", "dorian", "phrygian", "lydian", "mixolydian", "aeolian", "locrian"}

// Modes returns all modes in their fixed enumeration order
func Modes() []Mode {
	return []Mode{Ionian, Dorian, Phrygian, Lydian, Mixolydian, Aeolian, Locrian}
}

func (m Mode) String() string {
	if m < Ionian || m > Locrian {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Title returns the capitalized mode name, e.g. "Dorian"
func (m Mode) Title() string {
	s := m.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseMode accepts a mode name, plus "major" and "minor"
func ParseMode(name string) (Mode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "major":
		return Ionian, nil
	case "minor":
		return Aeolian, nil
	}
	for i, mn := range modeNames {
		if mn == n {
			return Mode(i), nil
		}
	}
	return Ionian, fmt.Errorf("unknown mode %q", name)
}

// Triad is the basic quality of a chord built on a scale degree
type Triad int

const (
	Major Triad = iota
	Minor
	Diminished
	Augmented
)

func (t Triad) String() string {
	switch t {
	case Minor:
		return "min"
	case Diminished:
		return "dim"
	case Augmented:
		return "aug"
	default:
		return "maj"
	}
}

// suffix is the chord-symbol suffix used for diatonic chord names
func (t Triad) suffix() string {
	switch t {
	case Minor:
		return "m"
	case Diminished:
		return "dim"
	case Augmented:
		return "aug"
	default:
		return ""
	}
}

// majorScale is the Ionian interval pattern
var majorScale = [7]int{0, 2, 4, 5, 7, 9, 11}

// fingerprints give the triad built on each degree of each mode
var fingerprints = [7][7]Triad{
	Ionian:     {Major, Minor, Minor, Major, Major, Minor, Diminished},
	Dorian:     {Minor, Minor, Major, Major, Minor, Diminished, Major},
	Phrygian:   {Minor, Major, Major, Minor, Diminished, Major, Minor},
	Lydian:     {Major, Major, Minor, Diminished, Major, Minor, Minor},
	Mixolydian: {Major, Minor, Diminished, Major, Minor, Minor, Major},
	Aeolian:    {Minor, Diminished, Major, Minor, Minor, Major, Major},
	Locrian:    {Diminished, Major, Minor, Minor, Major, Major, Minor},
}

// Fingerprint returns the per-degree triads of a mode
func (m Mode) Fingerprint() [7]Triad {
	return fingerprints[m]
}

// Intervals returns the mode's semitone pattern from its tonic
func (m Mode) Intervals() [7]int {
	var out [7]int
	for i := range out {
		out[i] = (majorScale[(i+int(m))%7] - majorScale[m] + 12) % 12
	}
	return out
}
