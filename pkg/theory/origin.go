package theory

import (
	"fmt"
	"strings"

	"github.com/james-see/chords2maschine/pkg/chord"
)

// OriginKind classifies where a chord comes from relative to a key
type OriginKind int

const (
	NonDiatonic OriginKind = iota
	Diatonic
	Borrowed
	Unrecognized
)

func (k OriginKind) String() string {
	switch k {
	case Diatonic:
		return "diatonic"
	case Borrowed:
		return "borrowed"
	case Unrecognized:
		return "unrecognized"
	default:
		return "non-diatonic"
	}
}

// Origin is the result of modal-origin detection
type Origin struct {
	Kind    OriginKind `json:"kind"`
	Key     string     `json:"key"`
	Mode    Mode       `json:"-"`
	Degree  int        `json:"degree,omitempty"` // 1-based scale degree
	Numeral string     `json:"numeral,omitempty"`
}

func (o Origin) String() string {
	switch o.Kind {
	case Diatonic:
		return fmt.Sprintf("Diatonic (degree %d - %s in %s Major)", o.Degree, o.Numeral, o.Key)
	case Borrowed:
		return fmt.Sprintf("Borrowed from parallel %s (%s in %s %s)", o.Mode.Title(), o.Numeral, o.Key, o.Mode.Title())
	case Unrecognized:
		return "Unrecognized chord"
	default:
		return "Non-diatonic (no common modal origin)"
	}
}

// BasicTriad reduces a quality token to its underlying triad
func BasicTriad(quality string) Triad {
	switch {
	case strings.Contains(quality, "dim"), strings.Contains(quality, "°"), strings.Contains(quality, "m7b5"):
		return Diminished
	case strings.Contains(quality, "aug"), strings.Contains(quality, "+"), strings.HasSuffix(quality, "#5") && !isMinorFlavor(quality):
		return Augmented
	case strings.HasPrefix(quality, "maj"):
		return Major
	case strings.HasPrefix(quality, "m"):
		return Minor
	default:
		return Major
	}
}

// DetectOrigin reports whether a chord is diatonic to the major key on keyRoot,
// borrowed from one of its parallel modes, or neither.
//
// The chord is reduced to root plus basic triad. Ionian is tried first, then
// the remaining modes in enumeration order; the first match wins.
func DetectOrigin(symbol, keyRoot string) (Origin, error) {
	key, err := NewKey(keyRoot, Ionian)
	if err != nil {
		return Origin{}, err
	}

	p, err := chord.Parse(symbol)
	if err != nil || p.RootName == "" {
		return Origin{Kind: Unrecognized, Key: key.Root}, nil
	}
	triad := BasicTriad(p.Quality)

	for _, mode := range Modes() {
		if degree, ok := matchDegree(key.PitchClass(), mode, p.Root, triad); ok {
			o := Origin{
				Kind:    Borrowed,
				Key:     key.Root,
				Mode:    mode,
				Degree:  degree + 1,
				Numeral: degreeNumeral(degree, triad),
			}
			if mode == Ionian {
				o.Kind = Diatonic
			}
			return o, nil
		}
	}
	return Origin{Kind: NonDiatonic, Key: key.Root}, nil
}

// matchDegree finds the scale degree of mode on tonic whose root and triad match
func matchDegree(tonic chord.PitchClass, mode Mode, root chord.PitchClass, triad Triad) (int, bool) {
	fp := mode.Fingerprint()
	for i, iv := range mode.Intervals() {
		if chord.NewPitchClass(int(tonic)+iv) == root && fp[i] == triad {
			return i, true
		}
	}
	return 0, false
}
