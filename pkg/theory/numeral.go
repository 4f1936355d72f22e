package theory

import (
	"strings"

	"github.com/james-see/chords2maschine/pkg/chord"
)

// UnknownNumeral is returned for chord roots outside the key's seven degrees.
// Chromatic roots do not get accidental-prefixed numerals such as "#IV".
const UnknownNumeral = "unknown"

// numeralsByDistance maps semitones above the tonic to major-key numerals
var numeralsByDistance = map[int]string{
	0:  "I",
	2:  "ii",
	4:  "iii",
	5:  "IV",
	7:  "V",
	9:  "vi",
	11: "vii°",
}

var extensions = []string{"7", "9", "11", "13"}

// RomanNumeral labels a chord by its distance from the key root.
//
// The numeral is lower-cased for minor qualities ("m" not followed by "a"),
// gets "°" for diminished and "+" for augmented qualities, and ends with the
// first extension (7, 9, 11 or 13) found in the quality.
func RomanNumeral(root chord.PitchClass, quality string, key chord.PitchClass) string {
	distance := int(chord.NewPitchClass(int(root) - int(key)))
	numeral, ok := numeralsByDistance[distance]
	if !ok {
		return UnknownNumeral
	}

	if isMinorFlavor(quality) {
		numeral = strings.ToLower(numeral)
	}
	if strings.Contains(quality, "dim") || strings.Contains(quality, "°") {
		if !strings.HasSuffix(numeral, "°") {
			numeral += "°"
		}
	}
	if strings.Contains(quality, "aug") || strings.Contains(quality, "+") {
		numeral += "+"
	}
	if ext := firstExtension(quality); ext != "" {
		numeral += ext
	}
	return numeral
}

// Label returns the Roman numeral for a chord symbol in a key.
// ok is false when the symbol does not parse or the numeral is unknown.
func Label(symbol string, key Key) (numeral string, ok bool) {
	p, err := chord.Parse(symbol)
	if err != nil || p.RootName == "" {
		return "", false
	}
	numeral = RomanNumeral(p.Root, p.Quality, key.PitchClass())
	if numeral == UnknownNumeral {
		return "", false
	}
	return numeral, true
}

// isMinorFlavor matches an "m" that does not start "maj"
func isMinorFlavor(quality string) bool {
	for i := 0; i < len(quality); i++ {
		if quality[i] != 'm' {
			continue
		}
		if i+1 == len(quality) || quality[i+1] != 'a' {
			return true
		}
	}
	return false
}

// firstExtension returns the leftmost 7, 9, 11 or 13 in quality
func firstExtension(quality string) string {
	for i := 0; i < len(quality); i++ {
		for _, ext := range extensions {
			if strings.HasPrefix(quality[i:], ext) {
				return ext
			}
		}
	}
	return ""
}

// degreeNumeral spells a scale degree (0-based) for a triad quality
func degreeNumeral(degree int, t Triad) string {
	numerals := [7]string{"I", "II", "III", "IV", "V", "VI", "VII"}
	n := numerals[degree%7]
	switch t {
	case Minor:
		n = strings.ToLower(n)
	case Diminished:
		n = strings.ToLower(n) + "°"
	case Augmented:
		n += "+"
	}
	return n
}
