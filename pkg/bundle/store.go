package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/james-see/chords2maschine/pkg/chordset"
)

// StateKey is the key the bundle state is stored under
const StateKey = "bundle_state"

// Store is a durable key-value store
type Store interface {
	// Get returns found=false when key has never been written
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// storedState is the persisted form. Documents stay raw so one corrupt slot
// does not spoil the rest.
type storedState struct {
	Slots      []storedSlot `json:"slots"`
	Current    int          `json:"current"`
	BundleMode bool         `json:"bundleMode"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

type storedSlot struct {
	Status   Status          `json:"status"`
	Document json.RawMessage `json:"document,omitempty"`
	Meta     *Meta           `json:"meta,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func encodeState(s State) ([]byte, error) {
	out := storedState{
		Slots:      make([]storedSlot, SlotCount),
		Current:    s.Current,
		BundleMode: s.BundleMode,
		UpdatedAt:  s.UpdatedAt,
	}
	for i, slot := range s.Slots {
		ss := storedSlot{Status: slot.Status, Meta: slot.Meta, Error: slot.Error}
		if slot.Document != nil {
			raw, err := json.Marshal(slot.Document)
			if err != nil {
				return nil, fmt.Errorf("failed to encode slot %d: %w", slot.Number(), err)
			}
			ss.Document = raw
		}
		out.Slots[i] = ss
	}
	return json.Marshal(out)
}

// decodeState rebuilds a State. A slot whose document cannot be decoded is
// returned in error status; only an unreadable envelope is an error.
func decodeState(data []byte) (State, error) {
	var in storedState
	if err := json.Unmarshal(data, &in); err != nil {
		return NewState(), fmt.Errorf("failed to decode bundle state: %w", err)
	}

	s := NewState()
	s.BundleMode = in.BundleMode
	s.UpdatedAt = in.UpdatedAt
	if in.Current >= 0 && in.Current < SlotCount {
		s.Current = in.Current
	}

	for i, ss := range in.Slots {
		if i >= SlotCount {
			break
		}
		slot := Slot{Index: i, Status: ss.Status, Meta: ss.Meta, Error: ss.Error}
		switch ss.Status {
		case StatusSaved:
			doc, err := chordset.Decode(ss.Document)
			if err != nil {
				slot = Slot{Index: i, Status: StatusError, Error: "stored chord set is corrupted: " + err.Error()}
			} else {
				slot.Document = doc
			}
		case StatusError:
		default:
			slot = Slot{Index: i, Status: StatusEmpty}
		}
		s.Slots[i] = slot
	}
	return s, nil
}
