package chord

import (
	"sort"
	"strings"
)

var majorTriad = Intervals{0, 4, 7}

// ResolveIntervals maps a canonical quality token to its interval set.
//
// Resolution order:
//  1. exact table entry
//  2. dominant tokens ("7...") are built from their alterations
//  3. the longest table key contained in the token
//  4. the major triad
//
// It never fails and always returns a 0-led ascending set.
func ResolveIntervals(quality string) Intervals {
	if iv, ok := LookupIntervals(quality); ok {
		return iv
	}
	if strings.HasPrefix(quality, "7") {
		return BuildDominant(quality)
	}
	if iv, ok := longestMatch(quality); ok {
		return iv
	}
	return append(Intervals(nil), majorTriad...)
}

// longestMatch returns the entry whose key is the longest substring of quality.
// Ties go to the entry declared first.
func longestMatch(quality string) (Intervals, bool) {
	var best *qualityEntry
	for i := range qualityTable {
		e := &qualityTable[i]
		if e.quality == "" || !strings.Contains(quality, e.quality) {
			continue
		}
		if best == nil || len(e.quality) > len(best.quality) {
			best = e
		}
	}
	if best == nil {
		return nil, false
	}
	return append(Intervals(nil), best.intervals...), true
}

// BuildDominant composes a dominant seventh chord from the alterations
// named in quality, e.g. "7b9#5" -> [0 4 8 10 13].
func BuildDominant(quality string) Intervals {
	third, fifth := 4, 7

	switch {
	case strings.Contains(quality, "sus2"):
		third = 2
	case strings.Contains(quality, "sus"):
		third = 5
	}

	switch {
	case strings.Contains(quality, "b5"):
		fifth = 6
	case strings.Contains(quality, "#5"):
		fifth = 8
	}

	iv := Intervals{0, third, fifth, 10}
	if strings.Contains(quality, "add11") {
		iv = append(iv, 17)
	}

	tensions := []struct {
		token    string
		interval int
	}{
		{"b9", 13},
		{"#9", 15},
		{"#11", 18},
		{"b13", 20},
	}
	for _, t := range tensions {
		if strings.Contains(quality, t.token) {
			iv = append(iv, t.interval)
		}
	}

	return normalize(iv)
}

// normalize sorts ascending and drops duplicates
func normalize(iv Intervals) Intervals {
	sort.Ints(iv)
	out := make(Intervals, 0, len(iv))
	for _, v := range iv {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}
