// Package preview renders voicings as Standard MIDI Files for auditioning
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/chords2maschine/pkg/chord"
	"github.com/james-see/chords2maschine/pkg/chordset"
)

// DefaultDuration is a half note
const DefaultDuration = "2n"

// Renderer turns voicings into MIDI data
type Renderer struct {
	ticksPerQuarter uint16
	tempo           float64
	velocity        uint8
	channel         uint8
}

// NewRenderer creates a renderer at 120 BPM
func NewRenderer() *Renderer {
	return &Renderer{
		ticksPerQuarter: 480,
		tempo:           120.0,
		velocity:        100,
	}
}

// SetTempo changes the tempo in beats per minute
func (r *Renderer) SetTempo(bpm float64) error {
	if bpm <= 0 {
		return fmt.Errorf("invalid tempo %v", bpm)
	}
	r.tempo = bpm
	return nil
}

// DurationTicks converts note-value notation ("1n", "2n", "4n", "8n", "16n",
// "32n") to ticks
func (r *Renderer) DurationTicks(d string) (uint32, error) {
	if d == "" {
		d = DefaultDuration
	}
	n, err := strconv.Atoi(strings.TrimSuffix(d, "n"))
	if err != nil || !strings.HasSuffix(d, "n") {
		return 0, fmt.Errorf("invalid duration %q", d)
	}
	switch n {
	case 1, 2, 4, 8, 16, 32:
	default:
		return 0, fmt.Errorf("invalid duration %q", d)
	}
	return uint32(r.ticksPerQuarter) * 4 / uint32(n), nil
}

// Render creates a one-chord MIDI file holding v for duration d
func (r *Renderer) Render(v chord.Voicing, d string) ([]byte, error) {
	return r.RenderSequence([]chord.Voicing{v}, d)
}

// RenderSet plays every pad of a document in order
func (r *Renderer) RenderSet(doc *chordset.Document, d string) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil chord set")
	}
	voicings := make([]chord.Voicing, len(doc.Chords))
	for i, c := range doc.Chords {
		voicings[i] = chord.Voicing(c.Notes)
	}
	return r.RenderSequence(voicings, d)
}

// RenderSequence plays voicings back to back, each for duration d
func (r *Renderer) RenderSequence(voicings []chord.Voicing, d string) ([]byte, error) {
	if len(voicings) == 0 {
		return nil, errors.New("nothing to render")
	}
	length, err := r.DurationTicks(d)
	if err != nil {
		return nil, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(r.ticksPerQuarter)

	var track smf.Track

	// Tempo meta event
	microsecondsPerBeat := uint32(60000000.0 / r.tempo)
	track.Add(0, smf.Message([]byte{
		0xFF, 0x51, 0x03,
		byte(microsecondsPerBeat >> 16),
		byte(microsecondsPerBeat >> 8),
		byte(microsecondsPerBeat),
	}))
	// Time signature (4/4)
	track.Add(0, smf.Message([]byte{0xFF, 0x58, 0x04, 0x04, 0x02, 0x18, 0x08}))

	for i, v := range voicings {
		notes, err := midiNotes(v)
		if err != nil {
			return nil, fmt.Errorf("chord %d: %w", i+1, err)
		}
		for _, n := range notes {
			track.Add(0, midi.NoteOn(r.channel, n, r.velocity))
		}
		for j, n := range notes {
			delta := uint32(0)
			if j == 0 {
				delta = length
			}
			track.Add(delta, midi.NoteOff(r.channel, n))
		}
	}

	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// midiNotes shifts device values into MIDI note numbers
func midiNotes(v chord.Voicing) ([]uint8, error) {
	if len(v) == 0 {
		return nil, errors.New("empty voicing")
	}
	out := make([]uint8, len(v))
	for i, value := range v {
		n := chord.ToMIDI(value)
		if n < 0 || n > 127 {
			return nil, fmt.Errorf("note value %d is outside the MIDI range", value)
		}
		out[i] = uint8(n)
	}
	return out, nil
}

// Chord is a group of notes struck on the same tick
type Chord struct {
	Tick  int64
	Notes chord.Voicing
}

// Read extracts the chords of a MIDI file as device values, plus its tempo
func Read(data []byte) ([]Chord, float64, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	tempo := 120.0
	byTick := make(map[int64]chord.Voicing)

	for _, track := range s.Tracks {
		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)
			msg := ev.Message

			if len(msg) >= 6 && msg[0] == 0xFF && msg[1] == 0x51 && msg[2] == 0x03 {
				microsecondsPerBeat := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
				if microsecondsPerBeat > 0 {
					tempo = 60000000.0 / float64(microsecondsPerBeat)
				}
			}

			// Note On (0x90-0x9F) with non-zero velocity
			if len(msg) >= 3 && msg[0] >= 0x90 && msg[0] <= 0x9F && msg[2] > 0 {
				byTick[tick] = append(byTick[tick], chord.ToDevice(int(msg[1])))
			}
		}
	}

	chords := make([]Chord, 0, len(byTick))
	for tick, notes := range byTick {
		sort.Ints(notes)
		chords = append(chords, Chord{Tick: tick, Notes: notes})
	}
	sort.Slice(chords, func(i, j int) bool { return chords[i].Tick < chords[j].Tick })
	return chords, tempo, nil
}
