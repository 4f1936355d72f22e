package chord

// qualityEntry pairs a canonical quality token with its interval set.
// Declaration order matters: it breaks ties in longest-match resolution.
type qualityEntry struct {
	quality   string
	intervals Intervals
}

var qualityTable = []qualityEntry{
	// Triads
	{"", Intervals{0, 4, 7}},
	{"maj", Intervals{0, 4, 7}},
	{"m", Intervals{0, 3, 7}},
	{"min", Intervals{0, 3, 7}},
	{"dim", Intervals{0, 3, 6}},
	{"aug", Intervals{0, 4, 8}},

	// Sevenths
	{"7", Intervals{0, 4, 7, 10}},
	{"maj7", Intervals{0, 4, 7, 11}},
	{"m7", Intervals{0, 3, 7, 10}},
	{"min7", Intervals{0, 3, 7, 10}},
	{"dim7", Intervals{0, 3, 6, 9}},
	{"m7b5", Intervals{0, 3, 6, 10}},

	// Sixths
	{"6", Intervals{0, 4, 7, 9}},
	{"m6", Intervals{0, 3, 7, 9}},

	// Six-nine
	{"6/9", Intervals{0, 4, 7, 9, 14}},
	{"m6/9", Intervals{0, 3, 7, 9, 14}},
	{"mi6/9", Intervals{0, 3, 7, 9, 14}},
	{"min6/9", Intervals{0, 3, 7, 9, 14}},
	{"maj6/9", Intervals{0, 4, 7, 9, 14}},

	// Extended
	{"9", Intervals{0, 4, 7, 10, 14}},
	{"maj9", Intervals{0, 4, 7, 11, 14}},
	{"m9", Intervals{0, 3, 7, 10, 14}},
	{"min9", Intervals{0, 3, 7, 10, 14}},
	{"11", Intervals{0, 4, 7, 10, 14, 17}},
	{"maj11", Intervals{0, 4, 7, 11, 14, 17}},
	{"m11", Intervals{0, 3, 7, 10, 14, 17}},
	{"min11", Intervals{0, 3, 7, 10, 14, 17}},
	{"13", Intervals{0, 4, 7, 10, 14, 17, 21}},
	{"maj13", Intervals{0, 4, 7, 11, 14, 17, 21}},
	{"m13", Intervals{0, 3, 7, 10, 14, 17, 21}},
	{"min13", Intervals{0, 3, 7, 10, 14, 17, 21}},

	// Suspended
	{"sus2", Intervals{0, 2, 7}},
	{"sus4", Intervals{0, 5, 7}},
	{"sus", Intervals{0, 5, 7}},

	// Added tones
	{"add9", Intervals{0, 4, 7, 14}},
	{"add11", Intervals{0, 4, 7, 17}},
	{"add13", Intervals{0, 4, 7, 21}},
	{"madd9", Intervals{0, 3, 7, 14}},
	{"madd11", Intervals{0, 3, 7, 17}},

	// Altered fifths
	{"#5", Intervals{0, 4, 8}},
	{"b5", Intervals{0, 4, 6}},
	{"m#5", Intervals{0, 3, 8}},
	{"mi#5", Intervals{0, 3, 8}},
	{"min#5", Intervals{0, 3, 8}},
	{"maj#5", Intervals{0, 4, 8}},

	// Altered dominants
	{"7b5", Intervals{0, 4, 6, 10}},
	{"7#5", Intervals{0, 4, 8, 10}},
	{"7b9", Intervals{0, 4, 7, 10, 13}},
	{"7#9", Intervals{0, 4, 7, 10, 15}},
	{"7#11", Intervals{0, 4, 7, 10, 18}},
	{"7b13", Intervals{0, 4, 7, 10, 20}},
	{"7sus4", Intervals{0, 5, 7, 10}},
	{"7alt", Intervals{0, 4, 8, 10, 13, 15}},
}

// aliases map alternate spellings to canonical quality tokens.
// Lookups are single-level: every target is either absent from this
// map or maps to itself.
var aliases = map[string]string{
	// Major/minor abbreviations
	"ma":    "maj",
	"major": "maj",
	"mi":    "m",
	"minor": "m",

	// Sevenths and extensions
	"ma7":     "maj7",
	"major7":  "maj7",
	"mi7":     "m7",
	"min7":    "m7",
	"minor7":  "m7",
	"ma9":     "maj9",
	"major9":  "maj9",
	"mi9":     "min9",
	"min9":    "min9",
	"minor9":  "min9",
	"ma11":    "maj11",
	"major11": "maj11",
	"mi11":    "min11",
	"min11":   "min11",
	"minor11": "min11",
	"ma13":    "maj13",
	"major13": "maj13",
	"mi13":    "min13",
	"min13":   "min13",
	"minor13": "min13",

	// Sixths and six-nines
	"ma6":      "6",
	"major6":   "6",
	"mi6":      "m6",
	"min6":     "m6",
	"minor6":   "m6",
	"ma6/9":    "maj6/9",
	"major6/9": "maj6/9",
	"mi6/9":    "m6/9",
	"min6/9":   "m6/9",
	"minor6/9": "m6/9",
	"maj6/9":   "maj6/9",
	"m6/9":     "m6/9",

	// Added tones
	"minadd9":  "madd9",
	"minadd11": "madd11",
	"miadd9":   "madd9",
	"miadd11":  "madd11",

	// Diminished/augmented. These shadow the "b5"/"#5" interval entries.
	"diminished": "dim",
	"augmented":  "aug",
	"b5":         "dim",
	"#5":         "aug",

	// Suspended
	"sus":  "sus4",
	"sus2": "sus2",
	"sus4": "sus4",

	// Half-diminished
	"min7b5":          "m7b5",
	"mi7b5":           "m7b5",
	"half-diminished": "m7b5",
	"ø":               "m7b5",
	"ø7":              "m7b5",

	// Misc
	"mi#5":    "m#5",
	"min#5":   "m#5",
	"minor#5": "m#5",
	"maj#5":   "maj#5",
	"ma#5":    "maj#5",
}

// overrides are curated voicings for symbols the algorithm voices poorly.
// Keys are matched exactly against the normalized symbol.
var overrides = map[string]Voicing{
	"Dbma7_F": {-19, -11, -7, -4, 0, 12},
	"Db_Ab":   {-16, -11, -7, -4},
	"Cmi6_9":  {-12, -9, -5, -3, 9},
	"Cmi_#5":  {-12, -9, -5},
	"Ami6_9":  {-3, 0, 4, 6, 18},
	"G7_B":    {-13, -5, -1, 2, 5, 17},
	"Db_C":    {-24, -11, -7, -4},
	"Db_F":    {-19, -7, -4, 1},
	"Dmi_Ab":  {-16, -10, -7, -3},
	"Fmi_Ab":  {-16, 0, 5, 8},
	"Fmi_G":   {-17, 0, 5, 8},
	"Ami_C":   {-12, 0, 4, 9},
	"Dbma7/F": {-19, -11, -7, -4, 0, 12},
	"Db/Ab":   {-16, -11, -7, -4},
	"Cmi6/9":  {-12, -9, -5, -3, 9},
	"Cmi/#5":  {-12, -9, -5},
	"Ami6/9":  {-3, 0, 4, 6, 18},
	"G7/B":    {-13, -5, -1, 2, 5, 17},
	"Db/C":    {-24, -11, -7, -4},
	"Db/F":    {-19, -7, -4, 1},
	"Dmi/Ab":  {-16, -10, -7, -3},
	"Fmi/Ab":  {-16, 0, 5, 8},
	"Fmi/G":   {-17, 0, 5, 8},
	"Ami/C":   {-12, 0, 4, 9},
}

// letterPitch maps natural note letters to pitch classes
var letterPitch = map[byte]PitchClass{
	'C': 0,
	'D': 2,
	'E': 4,
	'F': 5,
	'G': 7,
	'A': 9,
	'B': 11,
}

var qualityIndex = make(map[string]Intervals, len(qualityTable))

func init() {
	for _, e := range qualityTable {
		if _, dup := qualityIndex[e.quality]; dup {
			panic("chord: duplicate quality table entry " + e.quality)
		}
		qualityIndex[e.quality] = e.intervals
	}
}

// LookupIntervals returns a copy of the table entry for an exact quality token
func LookupIntervals(quality string) (Intervals, bool) {
	iv, ok := qualityIndex[quality]
	if !ok {
		return nil, false
	}
	return append(Intervals(nil), iv...), true
}

// ResolveAlias maps a quality token to its canonical form.
// Unknown tokens pass through unchanged.
func ResolveAlias(quality string) string {
	if canonical, ok := aliases[quality]; ok {
		return canonical
	}
	return quality
}

// LookupOverride returns a copy of the curated voicing for a symbol
func LookupOverride(symbol string) (Voicing, bool) {
	v, ok := overrides[symbol]
	if !ok {
		return nil, false
	}
	return append(Voicing(nil), v...), true
}

// Qualities lists the canonical quality tokens in table order
func Qualities() []string {
	out := make([]string, 0, len(qualityTable))
	for _, e := range qualityTable {
		out = append(out, e.quality)
	}
	return out
}

// Aliases returns a copy of the alias table
func Aliases() map[string]string {
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}
