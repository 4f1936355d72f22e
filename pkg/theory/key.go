package theory

import (
	"fmt"

	"github.com/james-see/chords2maschine/pkg/chord"
)

var (
	sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	flatNames  = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
)

// flatKeys are spelled with flats; every other key root uses sharps
var flatKeys = map[string]bool{
	"F": true, "Bb": true, "Eb": true, "Ab": true, "Db": true, "Gb": true, "Cb": true,
}

// KeyRoots are the twelve key roots offered for selection
var KeyRoots = []string{"C", "Db", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// Key is a tonic plus a mode
type Key struct {
	Root string // normalized spelling, e.g. "Bb"
	Mode Mode
}

// NewKey validates and normalizes a key root
func NewKey(root string, mode Mode) (Key, error) {
	name, err := chord.NormalizeNoteName(root)
	if err != nil {
		return Key{}, fmt.Errorf("unsupported key: %w", err)
	}
	if mode < Ionian || mode > Locrian {
		return Key{}, fmt.Errorf("unsupported key: invalid mode %d", int(mode))
	}
	return Key{Root: name, Mode: mode}, nil
}

// ParseKey builds a key from a root name and a mode name
func ParseKey(root, mode string) (Key, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Key{}, err
	}
	return NewKey(root, m)
}

// PitchClass returns the tonic's pitch class
func (k Key) PitchClass() chord.PitchClass {
	pc, _ := chord.ParsePitchClass(k.Root)
	return pc
}

// UsesFlats reports whether notes in this key are spelled with flats
func (k Key) UsesFlats() bool {
	return flatKeys[k.Root]
}

func (k Key) String() string {
	if k.Mode == Ionian {
		return k.Root + " Major"
	}
	return k.Root + " " + k.Mode.Title()
}

// noteNames picks the spelling table for a key
func (k Key) noteNames() [12]string {
	if k.UsesFlats() {
		return flatNames
	}
	return sharpNames
}

// ScaleRoots returns the seven note names of the key's scale
func ScaleRoots(k Key) []string {
	names := k.noteNames()
	tonic := int(k.PitchClass())
	out := make([]string, 0, 7)
	for _, iv := range k.Mode.Intervals() {
		out = append(out, names[(tonic+iv)%12])
	}
	return out
}

// DiatonicChords returns the triad chord symbols built on each scale degree,
// e.g. C Ionian -> C Dm Em F G Am Bdim
func DiatonicChords(k Key) []string {
	roots := ScaleRoots(k)
	fp := k.Mode.Fingerprint()
	out := make([]string, len(roots))
	for i, r := range roots {
		out[i] = r + fp[i].suffix()
	}
	return out
}
