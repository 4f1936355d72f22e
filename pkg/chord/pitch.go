package chord

import (
	"fmt"
	"strings"
)

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NewPitchClass reduces any semitone count to a pitch class
func NewPitchClass(semitones int) PitchClass {
	return PitchClass(((semitones % 12) + 12) % 12)
}

// String returns the sharp spelling of the pitch class
func (p PitchClass) String() string {
	return sharpNames[NewPitchClass(int(p))]
}

// ParsePitchClass resolves a note name such as "C", "Db" or "f#"
func ParsePitchClass(name string) (PitchClass, error) {
	name = strings.TrimSpace(name)
	_, pc, rest, ok := splitRoot(name)
	if !ok || rest != "" {
		return 0, fmt.Errorf("invalid note name %q", name)
	}
	return pc, nil
}

// NormalizeNoteName returns the canonical spelling of a note name
// ("bb" -> "Bb", "f#" -> "F#")
func NormalizeNoteName(name string) (string, error) {
	spelled, _, rest, ok := splitRoot(strings.TrimSpace(name))
	if !ok || rest != "" {
		return "", fmt.Errorf("invalid note name %q", name)
	}
	return spelled, nil
}

// splitRoot extracts a leading note name: one letter A-G in either case and
// an optional '#' or 'b' accidental. The letter is upper-cased and the
// accidental lower-cased.
func splitRoot(s string) (spelled string, pc PitchClass, rest string, ok bool) {
	if s == "" {
		return "", 0, s, false
	}
	letter := s[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	base, found := letterPitch[letter]
	if !found {
		return "", 0, s, false
	}

	spelled = string(letter)
	semitones := int(base)
	n := 1
	if len(s) > 1 {
		switch s[1] {
		case '#':
			spelled += "#"
			semitones++
			n = 2
		case 'b', 'B':
			spelled += "b"
			semitones--
			n = 2
		}
	}
	return spelled, NewPitchClass(semitones), s[n:], true
}

// isNoteToken reports whether tok is exactly one note name
func isNoteToken(tok string) bool {
	_, _, rest, ok := splitRoot(tok)
	return ok && rest == ""
}

// isExtensionToken reports whether tok is an optionally altered 9, 11 or 13
func isExtensionToken(tok string) bool {
	if strings.HasPrefix(tok, "b") || strings.HasPrefix(tok, "#") {
		tok = tok[1:]
	}
	switch tok {
	case "9", "11", "13":
		return true
	}
	return false
}
