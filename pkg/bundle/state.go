// Package bundle manages the 16 chord-set slots that make up one Maschine
// bundle export
package bundle

import (
	"time"

	"github.com/james-see/chords2maschine/pkg/chordset"
)

// SlotCount is the fixed number of slots in a bundle
const SlotCount = 16

// Status is the lifecycle state of a slot
type Status string

const (
	StatusEmpty Status = "empty"
	StatusSaved Status = "saved"
	StatusError Status = "error"
)

// Meta describes how a saved slot was produced
type Meta struct {
	Key         string    `json:"key"`
	NumeralMode bool      `json:"numeralMode"`
	ChordCount  int       `json:"chordCount"`
	SavedAt     time.Time `json:"savedAt"`
}

// Slot is one bundle position
type Slot struct {
	Index    int                `json:"index"` // 0-based
	Status   Status             `json:"status"`
	Document *chordset.Document `json:"document,omitempty"`
	Meta     *Meta              `json:"meta,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Number is the 1-based slot number shown to users and used in file names
func (s Slot) Number() int {
	return s.Index + 1
}

// State is the whole bundle
type State struct {
	Slots      [SlotCount]Slot `json:"slots"`
	Current    int             `json:"current"`
	BundleMode bool            `json:"bundleMode"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// NewState returns a state with every slot empty
func NewState() State {
	var s State
	for i := range s.Slots {
		s.Slots[i] = Slot{Index: i, Status: StatusEmpty}
	}
	return s
}

// SavedCount returns how many slots are saved
func (s State) SavedCount() int {
	n := 0
	for _, slot := range s.Slots {
		if slot.Status == StatusSaved {
			n++
		}
	}
	return n
}

// Missing returns the 1-based numbers of slots that are not saved
func (s State) Missing() []int {
	var missing []int
	for _, slot := range s.Slots {
		if slot.Status != StatusSaved {
			missing = append(missing, slot.Number())
		}
	}
	return missing
}
