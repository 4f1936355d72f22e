package bundle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/james-see/chords2maschine/pkg/chordset"
)

// Manager owns the bundle state. Every mutation is written through to the
// store; the in-memory change is kept even when the write fails.
type Manager struct {
	mu     sync.Mutex
	state  State
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used for persistence failures
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager rehydrates the bundle from store. An unreadable or corrupt
// stored state is logged and replaced by an empty bundle.
func NewManager(ctx context.Context, store Store, opts ...Option) *Manager {
	m := &Manager{
		state:  NewState(),
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	data, found, err := store.Get(ctx, StateKey)
	switch {
	case err != nil:
		m.logger.Error("failed to load bundle state", "error", err)
	case found:
		s, err := decodeState(data)
		if err != nil {
			m.logger.Error("discarding unreadable bundle state", "error", err)
		}
		m.state = s
		for _, slot := range s.Slots {
			if slot.Status == StatusError {
				m.logger.Warn("bundle slot restored in error state", "slot", slot.Number(), "reason", slot.Error)
			}
		}
	}
	return m
}

// State returns a snapshot of the bundle
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Slot returns one slot by 0-based index
func (m *Manager) Slot(index int) (Slot, error) {
	if err := checkIndex(index); err != nil {
		return Slot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Slots[index], nil
}

// Save builds a chord set from in and stores it in the slot at index.
//
// A failed build marks the slot as error and returns the build error. In
// bundle mode a document name already held by another saved slot is rejected
// the same way.
func (m *Manager) Save(ctx context.Context, index int, in chordset.Input) (Slot, error) {
	if err := checkIndex(index); err != nil {
		return Slot{}, err
	}
	doc, buildErr := chordset.Build(in)

	m.mu.Lock()
	defer m.mu.Unlock()

	if buildErr == nil && m.state.BundleMode {
		for _, other := range m.state.Slots {
			if other.Index == index || other.Status != StatusSaved || other.Document == nil {
				continue
			}
			if other.Document.Name == doc.Name {
				buildErr = &chordset.Error{
					Kind:    chordset.KindDuplicateName,
					Message: fmt.Sprintf("duplicate chord set name %q", doc.Name),
					Slot:    other.Number(),
				}
				break
			}
		}
	}

	if buildErr != nil {
		slot := Slot{Index: index, Status: StatusError, Error: buildErr.Error()}
		m.state.Slots[index] = slot
		if err := m.persist(ctx); err != nil {
			m.logger.Warn("slot error not persisted", "slot", slot.Number(), "error", err)
		}
		return slot, buildErr
	}

	slot := Slot{
		Index:    index,
		Status:   StatusSaved,
		Document: doc,
		Meta: &Meta{
			Key:         in.KeyRoot(),
			NumeralMode: in.NumeralMode,
			ChordCount:  len(doc.Chords),
			SavedAt:     m.now(),
		},
	}
	m.state.Slots[index] = slot
	return slot, m.persist(ctx)
}

// Advance moves the cursor one slot forward, stopping at the last slot
func (m *Manager) Advance(ctx context.Context) (int, error) {
	return m.moveCursor(ctx, func(cur int) int { return cur + 1 })
}

// Retreat moves the cursor one slot back, stopping at the first slot
func (m *Manager) Retreat(ctx context.Context) (int, error) {
	return m.moveCursor(ctx, func(cur int) int { return cur - 1 })
}

// AdvanceToNextAvailable moves the cursor to the next slot that is not saved,
// wrapping around once. With every slot saved it behaves like Advance.
func (m *Manager) AdvanceToNextAvailable(ctx context.Context) (int, error) {
	return m.moveCursor(ctx, func(cur int) int {
		for step := 1; step <= SlotCount; step++ {
			i := (cur + step) % SlotCount
			if m.state.Slots[i].Status != StatusSaved {
				return i
			}
		}
		return cur + 1
	})
}

// Select moves the cursor to index
func (m *Manager) Select(ctx context.Context, index int) (int, error) {
	if err := checkIndex(index); err != nil {
		return 0, err
	}
	return m.moveCursor(ctx, func(int) int { return index })
}

func (m *Manager) moveCursor(ctx context.Context, next func(cur int) int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := next(m.state.Current)
	if cur < 0 {
		cur = 0
	}
	if cur > SlotCount-1 {
		cur = SlotCount - 1
	}
	m.state.Current = cur
	return cur, m.persist(ctx)
}

// ValidateComplete reports whether every slot is saved, and if not which
// 1-based slot numbers are missing
func (m *Manager) ValidateComplete() (bool, []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	missing := m.state.Missing()
	return len(missing) == 0, missing
}

// ClearSlot empties one slot
func (m *Manager) ClearSlot(ctx context.Context, index int) error {
	if err := checkIndex(index); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Slots[index] = Slot{Index: index, Status: StatusEmpty}
	return m.persist(ctx)
}

// ClearAll empties every slot and resets the cursor. Bundle mode is kept.
func (m *Manager) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mode := m.state.BundleMode
	m.state = NewState()
	m.state.BundleMode = mode
	return m.persist(ctx)
}

// SetBundleMode turns duplicate-name checking on or off
func (m *Manager) SetBundleMode(ctx context.Context, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.BundleMode = on
	return m.persist(ctx)
}

// Export zips all 16 documents. It fails with KindExportPrecondition, listing
// the missing slots, unless every slot is saved.
func (m *Manager) Export() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if missing := m.state.Missing(); len(missing) > 0 {
		return nil, &chordset.Error{Kind: chordset.KindExportPrecondition, Missing: missing}
	}

	docs := make([]*chordset.Document, SlotCount)
	for i, slot := range m.state.Slots {
		docs[i] = slot.Document
	}
	return chordset.Archive(docs, m.now())
}

// persist writes the state; callers hold mu
func (m *Manager) persist(ctx context.Context) error {
	m.state.UpdatedAt = m.now()

	data, err := encodeState(m.state)
	if err == nil {
		err = m.store.Put(ctx, StateKey, data)
	}
	if err != nil {
		m.logger.Error("failed to persist bundle state", "error", err)
		return &chordset.Error{Kind: chordset.KindPersistence, Message: "failed to save bundle state", Err: err}
	}
	return nil
}

func checkIndex(index int) error {
	if index < 0 || index >= SlotCount {
		return &chordset.Error{
			Kind:    chordset.KindValidation,
			Message: fmt.Sprintf("slot %d out of range (1-%d)", index+1, SlotCount),
		}
	}
	return nil
}
