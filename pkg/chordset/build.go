package chordset

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/james-see/chords2maschine/pkg/chord"
	"github.com/james-see/chords2maschine/pkg/theory"
)

// DefaultKey is used when an input names no key
const DefaultKey = "C"

var newUUID = func() string {
	return uuid.New().String()
}

// Build runs every entered chord through the voicing pipeline and assembles
// a document named "<key>_<set name>".
//
// Blank entries are skipped. With NumeralMode set, pad names become Roman
// numerals relative to the key; chords without a numeral keep their symbol.
// The first chord that fails to parse aborts the build.
func Build(in Input) (*Document, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("please enter a chord set name")
	}

	symbols := Symbols(in.Chords)
	if len(symbols) == 0 {
		return nil, validationError("please enter at least one chord")
	}
	if len(symbols) > MaxChords {
		return nil, validationError(fmt.Sprintf("too many chords: %d (max %d)", len(symbols), MaxChords))
	}

	key, err := resolveKey(in.Key)
	if err != nil {
		return nil, err
	}

	chords := make([]Chord, 0, len(symbols))
	for _, sym := range symbols {
		v, _, err := chord.Voice(sym)
		if err != nil {
			return nil, &Error{Kind: KindInvalidChord, Chord: sym, Err: err}
		}

		padName := sym
		if in.NumeralMode {
			if numeral, ok := theory.Label(sym, key); ok {
				padName = numeral
			}
		}
		chords = append(chords, Chord{Name: padName, Notes: []int(v)})
	}

	return &Document{
		Chords:  chords,
		Name:    key.Root + "_" + name,
		TypeID:  TypeID,
		UUID:    newUUID(),
		Version: Version,
	}, nil
}

// Symbols trims entries and drops blanks
func Symbols(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// KeyRoot returns the input's normalized key root, DefaultKey when none is set
func (in Input) KeyRoot() string {
	key, err := resolveKey(in.Key)
	if err != nil {
		return strings.TrimSpace(in.Key)
	}
	return key.Root
}

func resolveKey(root string) (theory.Key, error) {
	if strings.TrimSpace(root) == "" {
		root = DefaultKey
	}
	key, err := theory.NewKey(root, theory.Ionian)
	if err != nil {
		return theory.Key{}, &Error{Kind: KindValidation, Message: "invalid key", Err: err}
	}
	return key, nil
}
