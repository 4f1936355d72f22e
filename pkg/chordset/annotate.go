package chordset

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/james-see/chords2maschine/pkg/theory"
)

const defaultSetName = "Chord Set"

var whitespace = regexp.MustCompile(`\s+`)

// Annotate renders a tab-separated report with the modal origin of every pad
func Annotate(in Input) (string, error) {
	setName := strings.TrimSpace(in.Name)
	if setName == "" {
		setName = defaultSetName
	}
	symbols := Symbols(in.Chords)
	if len(symbols) == 0 {
		return "", validationError("no chords to annotate")
	}
	key, err := resolveKey(in.Key)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Chord Set: %s\nKey: %s Major\n\n", setName, key.Root)
	b.WriteString("Pad\tChord\tAnalysis\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for i, sym := range symbols {
		origin, err := theory.DetectOrigin(sym, key.Root)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%d\t%s\t%s\n", i+1, sym, origin)
	}
	return b.String(), nil
}

// AnnotatedFileName returns the report file name for a set name
func AnnotatedFileName(setName string) string {
	setName = strings.TrimSpace(setName)
	if setName == "" {
		setName = defaultSetName
	}
	return "annotated_" + whitespace.ReplaceAllString(setName, "_") + ".txt"
}
