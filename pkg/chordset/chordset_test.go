package chordset

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/james-see/chords2maschine/pkg/chord"
)

func TestBuild(t *testing.T) {
	doc, err := Build(Input{
		Name:   "Pop",
		Key:    "C",
		Chords: []string{"C", "", "G", " Am "},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if doc.Name != "C_Pop" {
		t.Errorf("Name = %q, want %q", doc.Name, "C_Pop")
	}
	if doc.TypeID != TypeID || doc.Version != Version {
		t.Errorf("TypeID/Version = %q/%q", doc.TypeID, doc.Version)
	}

	id, err := uuid.Parse(doc.UUID)
	if err != nil {
		t.Fatalf("UUID %q does not parse: %v", doc.UUID, err)
	}
	if id.Version() != 4 {
		t.Errorf("UUID version = %d, want 4", id.Version())
	}

	expected := []Chord{
		{Name: "C", Notes: []int{-24, -12, -8, -5, 0}},
		{Name: "G", Notes: []int{-17, -5, -1, 2, 7}},
		{Name: "Am", Notes: []int{-15, -3, 0, 4, 9}},
	}
	if !reflect.DeepEqual(doc.Chords, expected) {
		t.Errorf("Chords = %v, want %v", doc.Chords, expected)
	}
}

func TestBuildNumeralMode(t *testing.T) {
	doc, err := Build(Input{
		Name:        "Numerals",
		Key:         "C",
		Chords:      []string{"C", "G7", "F#", "Dm9"},
		NumeralMode: true,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var names []string
	for _, c := range doc.Chords {
		names = append(names, c.Name)
	}
	expected := []string{"I", "V7", "F#", "ii9"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("pad names = %v, want %v", names, expected)
	}
}

func TestBuildDefaultKey(t *testing.T) {
	doc, err := Build(Input{Name: "Set", Chords: []string{"C"}})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if doc.Name != "C_Set" {
		t.Errorf("Name = %q, want %q", doc.Name, "C_Set")
	}
}

func TestBuildValidation(t *testing.T) {
	thirteen := make([]string, MaxChords+1)
	for i := range thirteen {
		thirteen[i] = "C"
	}

	tests := []struct {
		name  string
		input Input
	}{
		{"missing name", Input{Name: "  ", Chords: []string{"C"}}},
		{"no chords", Input{Name: "Set", Chords: []string{"", " "}}},
		{"nil chords", Input{Name: "Set"}},
		{"too many chords", Input{Name: "Set", Chords: thirteen}},
		{"bad key", Input{Name: "Set", Key: "H", Chords: []string{"C"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Build(tt.input)
			if err == nil {
				t.Fatalf("Build() = %v, want error", doc)
			}
			if KindOf(err) != KindValidation {
				t.Errorf("KindOf(%v) = %v, want %v", err, KindOf(err), KindValidation)
			}
		})
	}
}

func TestBuildCountsOnlyEnteredChords(t *testing.T) {
	chords := make([]string, MaxChords+4)
	chords[0] = "C"
	chords[7] = "G"

	doc, err := Build(Input{Name: "Set", Key: "C", Chords: chords})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(doc.Chords) != 2 {
		t.Errorf("len(Chords) = %d, want 2", len(doc.Chords))
	}

	_, err = Build(Input{Name: "Set", Chords: make([]string, MaxChords+1)})
	if err == nil || !strings.Contains(err.Error(), "at least one chord") {
		t.Errorf("Build() error = %v, want no-chords error", err)
	}
}

func TestBuildInvalidChord(t *testing.T) {
	_, err := Build(Input{Name: "Set", Chords: []string{"C", "H7", "G"}})
	if err == nil {
		t.Fatal("Build() should fail on H7")
	}

	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("error %T is not *Error", err)
	}
	if cerr.Kind != KindInvalidChord || cerr.Chord != "H7" {
		t.Errorf("got kind %v chord %q", cerr.Kind, cerr.Chord)
	}
	if !errors.Is(err, chord.ErrUnrecognizedRoot) {
		t.Error("error should wrap chord.ErrUnrecognizedRoot")
	}
	if err.Error() != "invalid chord format: H7" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err      *Error
		expected string
	}{
		{&Error{Kind: KindExportPrecondition, Missing: []int{3, 16}}, "bundle incomplete, missing slots: 3, 16"},
		{&Error{Kind: KindDuplicateName, Message: `duplicate chord set name "C_MySet"`, Slot: 1}, `duplicate chord set name "C_MySet" (already saved in slot 1)`},
		{&Error{Kind: KindPersistence, Message: "failed to save bundle", Err: errors.New("disk full")}, "failed to save bundle: disk full"},
		{&Error{Kind: KindValidation, Message: "please enter a chord set name"}, "please enter a chord set name"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("save slot 2: %w", &Error{Kind: KindDuplicateName})
	if got := KindOf(wrapped); got != KindDuplicateName {
		t.Errorf("KindOf(wrapped) = %v, want %v", got, KindDuplicateName)
	}
	if got := KindOf(errors.New("plain")); got != 0 {
		t.Errorf("KindOf(plain) = %v, want 0", got)
	}
}

func TestEncodeDecode(t *testing.T) {
	doc := &Document{
		Chords:  []Chord{{Name: "vii°", Notes: []int{-13, -1, 2, 5, 11}}},
		Name:    "C_Test",
		TypeID:  TypeID,
		UUID:    "0b6c4a5e-2f9d-4c1a-9e3b-7a8d6f5e4c3b",
		Version: Version,
	}

	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "{\n  \"chords\": [\n") {
		t.Errorf("Encode() should be indented with two spaces, got %q", data[:20])
	}
	if !strings.Contains(string(data), `"name": "vii°"`) {
		t.Errorf("Encode() mangled pad name: %s", data)
	}
	if bytes.HasSuffix(data, []byte("\n")) {
		t.Error("Encode() should not end with a newline")
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("Decode(Encode()) = %+v, want %+v", got, doc)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "chords"},
		{"wrong type", `{"chords":[],"name":"x","typeId":"something-else"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); err == nil {
				t.Error("Decode() should fail")
			}
		})
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		n        int
		expected string
	}{
		{1, "user_chord_set_01.json"},
		{7, "user_chord_set_07.json"},
		{16, "user_chord_set_16.json"},
	}

	for _, tt := range tests {
		if got := FileName(tt.n); got != tt.expected {
			t.Errorf("FileName(%d) = %q, want %q", tt.n, got, tt.expected)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"set.json", FormatJSON},
		{"SET.JSON", FormatJSON},
		{"bundle.zip", FormatZip},
		{"annotated_x.txt", FormatText},
		{"preview.mid", FormatMIDI},
		{"preview.midi", FormatMIDI},
		{"set", FormatUnknown},
		{"set.syx", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectFormat(tt.filename); got != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"JSON document", []byte("\n  {\"chords\": []}"), FormatJSON},
		{"zip archive", []byte("PK\x03\x04\x14\x00"), FormatZip},
		{"MIDI file", []byte("MThd\x00\x00\x00\x06"), FormatMIDI},
		{"short data", []byte{0x00, 0x01}, FormatUnknown},
		{"text report", []byte("Chord Set: x"), FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormatFromContent(tt.data); got != tt.expected {
				t.Errorf("DetectFormatFromContent() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFile(filepath.Join(dir, "set.json"), FormatJSON, []byte("{}")); err != nil {
		t.Errorf("WriteFile(.json) error = %v", err)
	}
	if err := WriteFile(filepath.Join(dir, "set.zip"), FormatJSON, []byte("{}")); err == nil {
		t.Error("WriteFile should refuse a .zip path for JSON data")
	}
	if err := WriteFile(filepath.Join(dir, "set"), FormatJSON, []byte("{}")); err == nil {
		t.Error("WriteFile should refuse a path without extension")
	}
}

func TestAnnotate(t *testing.T) {
	got, err := Annotate(Input{Name: "My Set", Key: "C", Chords: []string{"Dm", "", "Bb", "E"}})
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}

	expected := "Chord Set: My Set\nKey: C Major\n\n" +
		"Pad\tChord\tAnalysis\n" +
		"----------------------------------------\n" +
		"1\tDm\tDiatonic (degree 2 - ii in C Major)\n" +
		"2\tBb\tBorrowed from parallel Dorian (VII in C Dorian)\n" +
		"3\tE\tNon-diatonic (no common modal origin)\n"
	if got != expected {
		t.Errorf("Annotate() =\n%s\nwant\n%s", got, expected)
	}
}

func TestAnnotateDefaults(t *testing.T) {
	got, err := Annotate(Input{Chords: []string{"G"}})
	if err != nil {
		t.Fatalf("Annotate() error = %v", err)
	}
	if !strings.HasPrefix(got, "Chord Set: Chord Set\nKey: C Major\n") {
		t.Errorf("Annotate() header = %q", got)
	}

	if _, err := Annotate(Input{Name: "Empty"}); KindOf(err) != KindValidation {
		t.Errorf("Annotate() with no chords error = %v, want validation", err)
	}
}

func TestAnnotatedFileName(t *testing.T) {
	tests := []struct {
		setName  string
		expected string
	}{
		{"My  Big Set", "annotated_My_Big_Set.txt"},
		{"Solo", "annotated_Solo.txt"},
		{"", "annotated_Chord_Set.txt"},
	}

	for _, tt := range tests {
		if got := AnnotatedFileName(tt.setName); got != tt.expected {
			t.Errorf("AnnotatedFileName(%q) = %q, want %q", tt.setName, got, tt.expected)
		}
	}
}

func TestArchive(t *testing.T) {
	docs := []*Document{
		{Name: "C_One", TypeID: TypeID, Version: Version, Chords: []Chord{{Name: "C", Notes: []int{0}}}},
		{Name: "C_Two", TypeID: TypeID, Version: Version, Chords: []Chord{{Name: "G", Notes: []int{7}}}},
	}

	data, err := Archive(docs, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if DetectFormatFromContent(data) != FormatZip {
		t.Fatal("Archive() output is not a zip")
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("archive has %d files, want 2", len(zr.File))
	}

	for i, f := range zr.File {
		if f.Name != FileName(i+1) {
			t.Errorf("file %d name = %q, want %q", i, f.Name, FileName(i+1))
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Open(%s) error = %v", f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("ReadAll(%s) error = %v", f.Name, err)
		}
		doc, err := Decode(raw)
		if err != nil {
			t.Fatalf("Decode(%s) error = %v", f.Name, err)
		}
		if doc.Name != docs[i].Name {
			t.Errorf("%s name = %q, want %q", f.Name, doc.Name, docs[i].Name)
		}
	}
}

func TestArchiveNilDocument(t *testing.T) {
	if _, err := Archive([]*Document{{TypeID: TypeID}, nil}, time.Now()); err == nil {
		t.Error("Archive() should refuse a nil document")
	}
}
