package preview

import (
	"math"
	"reflect"
	"testing"

	"github.com/james-see/chords2maschine/pkg/chord"
	"github.com/james-see/chords2maschine/pkg/chordset"
)

func TestDurationTicks(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		input    string
		expected uint32
	}{
		{"", 960},
		{"1n", 1920},
		{"2n", 960},
		{"4n", 480},
		{"8n", 240},
		{"16n", 120},
		{"32n", 60},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := r.DurationTicks(tt.input)
			if err != nil {
				t.Fatalf("DurationTicks(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("DurationTicks(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}

	for _, bad := range []string{"3n", "4", "n", "4m", "-2n"} {
		if _, err := r.DurationTicks(bad); err == nil {
			t.Errorf("DurationTicks(%q) should fail", bad)
		}
	}
}

func TestRender(t *testing.T) {
	r := NewRenderer()
	v := chord.Voicing{-24, -12, -8, -5, 0}

	data, err := r.Render(v, "2n")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(data[:4]) != "MThd" {
		t.Errorf("Render() output does not start with MThd")
	}
	if chordset.DetectFormatFromContent(data) != chordset.FormatMIDI {
		t.Errorf("Render() output not detected as MIDI")
	}

	chords, tempo, err := Read(data)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if tempo != 120 {
		t.Errorf("tempo = %v, want 120", tempo)
	}
	if len(chords) != 1 {
		t.Fatalf("got %d chords, want 1", len(chords))
	}
	if !reflect.DeepEqual(chords[0].Notes, v) {
		t.Errorf("notes = %v, want %v", chords[0].Notes, v)
	}
}

func TestRenderSet(t *testing.T) {
	doc := &chordset.Document{
		Chords: []chordset.Chord{
			{Name: "C", Notes: []int{-24, -12, -8, -5, 0}},
			{Name: "Db/F", Notes: []int{-19, -7, -4, 1}},
		},
	}

	r := NewRenderer()
	if err := r.SetTempo(90); err != nil {
		t.Fatalf("SetTempo() error = %v", err)
	}
	data, err := r.RenderSet(doc, "4n")
	if err != nil {
		t.Fatalf("RenderSet() error = %v", err)
	}

	chords, tempo, err := Read(data)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if math.Abs(tempo-90) > 0.01 {
		t.Errorf("tempo = %v, want 90", tempo)
	}
	if len(chords) != 2 {
		t.Fatalf("got %d chords, want 2", len(chords))
	}
	if chords[0].Tick != 0 || chords[1].Tick != 480 {
		t.Errorf("ticks = %d, %d, want 0, 480", chords[0].Tick, chords[1].Tick)
	}
	if !reflect.DeepEqual(chords[1].Notes, chord.Voicing{-19, -7, -4, 1}) {
		t.Errorf("second chord = %v", chords[1].Notes)
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		voicings []chord.Voicing
		duration string
	}{
		{"no chords", nil, "2n"},
		{"empty voicing", []chord.Voicing{{}}, "2n"},
		{"too high", []chord.Voicing{{0, 70}}, "2n"},
		{"too low", []chord.Voicing{{-61}}, "2n"},
		{"bad duration", []chord.Voicing{{0}}, "3n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.RenderSequence(tt.voicings, tt.duration); err == nil {
				t.Error("RenderSequence() should fail")
			}
		})
	}

	if _, err := r.RenderSet(nil, "2n"); err == nil {
		t.Error("RenderSet(nil) should fail")
	}
	if err := r.SetTempo(0); err == nil {
		t.Error("SetTempo(0) should fail")
	}
}

func TestReadInvalid(t *testing.T) {
	if _, _, err := Read([]byte("not midi")); err == nil {
		t.Error("Read() should fail on garbage")
	}
}
