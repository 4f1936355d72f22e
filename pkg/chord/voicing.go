package chord

import (
	"sort"
	"strings"
)

// alteredTokens suppress the octave root on dominant qualities
var alteredTokens = []string{"b5", "#5", "b9", "#9", "b11", "#11", "b13", "#13", "alt"}

// BuildVoicing lays a parsed chord out on the pad register.
//
// The bass (explicit or the root an octave down) comes first, then the root
// at C3 and every interval above it. The root is doubled an octave up unless
// the chord is an altered dominant. Parsed chords carrying an override return
// the override unchanged.
func BuildVoicing(p Parsed, intervals Intervals) Voicing {
	if p.HasOverride() {
		return append(Voicing(nil), p.Override...)
	}

	root := RootRegister + int(p.Root)
	notes := make(Voicing, 0, len(intervals)+3)

	if p.Bass != nil {
		notes = append(notes, ToDevice(RootRegister+int(*p.Bass)-12))
	} else {
		notes = append(notes, ToDevice(root-12))
	}

	notes = append(notes, ToDevice(root))
	for _, iv := range intervals {
		if iv == 0 {
			continue
		}
		notes = append(notes, ToDevice(root+iv))
	}

	if !SuppressesDoubling(p.Quality) {
		notes = append(notes, ToDevice(root+12))
	}

	return finalize(notes)
}

// SuppressesDoubling reports whether quality is a tension-heavy dominant
// that should not get the octave root
func SuppressesDoubling(quality string) bool {
	if !strings.HasPrefix(quality, "7") {
		return false
	}
	for _, tok := range alteredTokens {
		if strings.Contains(quality, tok) {
			return true
		}
	}
	return false
}

// Voice runs the full pipeline for a single symbol
func Voice(raw string) (Voicing, Parsed, error) {
	p, err := Parse(raw)
	if err != nil {
		return nil, Parsed{}, err
	}
	if p.HasOverride() {
		return BuildVoicing(p, nil), p, nil
	}
	return BuildVoicing(p, ResolveIntervals(p.Quality)), p, nil
}

func finalize(notes Voicing) Voicing {
	sort.Ints(notes)
	out := make(Voicing, 0, len(notes))
	for _, n := range notes {
		if len(out) > 0 && out[len(out)-1] == n {
			continue
		}
		out = append(out, n)
	}
	return out
}
