package tui

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/chords2maschine/pkg/bundle"
	"github.com/james-see/chords2maschine/pkg/chordset"
	"github.com/james-see/chords2maschine/pkg/theory"
)

func newTestModel(t *testing.T) (Model, *bundle.Manager) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mgr := bundle.NewManager(context.Background(), bundle.NewMemoryStore(), bundle.WithLogger(logger))
	return New(mgr, Options{OutputDir: t.TempDir(), FileNumber: 3, DefaultKey: "G"}), mgr
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFormInput(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m,
		typeText("Pop"),
		tea.KeyMsg{Type: tea.KeyTab}, typeText("G"),
		tea.KeyMsg{Type: tea.KeyTab}, typeText("D7"),
	)

	in := m.Input()
	assert.Equal(t, "Pop", in.Name)
	assert.Equal(t, "G", in.Key)
	assert.Equal(t, []string{"G", "D7"}, chordset.Symbols(in.Chords))
	assert.False(t, in.NumeralMode)
}

func TestKeyCycleAndNumeralToggle(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlK}, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Equal(t, "Ab", m.Input().Key)
	assert.True(t, m.Input().NumeralMode)

	for i := 0; i < 4; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	}
	assert.Equal(t, "C", m.Input().Key)
}

func TestSaveToCurrentSlot(t *testing.T) {
	m, mgr := newTestModel(t)

	m = press(t, m,
		typeText("Pop"),
		tea.KeyMsg{Type: tea.KeyTab}, typeText("G"),
		tea.KeyMsg{Type: tea.KeyCtrlS},
	)
	require.NoError(t, m.err)
	assert.Equal(t, "saved to slot 1", m.status)

	slot, err := mgr.Slot(0)
	require.NoError(t, err)
	assert.Equal(t, bundle.StatusSaved, slot.Status)
	assert.Equal(t, "G_Pop", slot.Document.Name)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Equal(t, 1, mgr.State().Current)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 0, mgr.State().Current)
	assert.Contains(t, m.View(), "1/16 saved")
}

func TestSaveErrorShown(t *testing.T) {
	m, mgr := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, typeText("C"), tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Error(t, m.err)
	assert.Equal(t, chordset.KindValidation, chordset.KindOf(m.err))

	slot, err := mgr.Slot(0)
	require.NoError(t, err)
	assert.Equal(t, bundle.StatusError, slot.Status)
}

func TestBundleModeToggle(t *testing.T) {
	m, mgr := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.True(t, mgr.State().BundleMode)
	assert.Equal(t, "bundle mode on", m.status)

	press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.False(t, mgr.State().BundleMode)
}

func TestExportSingleSet(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, typeText("Pop"), tea.KeyMsg{Type: tea.KeyTab}, typeText("Em"))

	msg := m.export()()
	done, ok := msg.(exportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, "user_chord_set_03.json", filepath.Base(done.outputFile))

	data, err := os.ReadFile(done.outputFile)
	require.NoError(t, err)
	doc, err := chordset.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "G_Pop", doc.Name)

	m = press(t, m, done)
	assert.Equal(t, StateResult, m.state)
	assert.Contains(t, m.View(), "Export complete")
}

func TestExportBundleIncomplete(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})

	done := m.export()().(exportDoneMsg)
	require.Error(t, done.err)
	assert.Equal(t, chordset.KindExportPrecondition, chordset.KindOf(done.err))

	m = press(t, m, done)
	assert.Contains(t, m.View(), "missing slots")
}

func TestAnnotate(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, typeText("My Set"), tea.KeyMsg{Type: tea.KeyTab}, typeText("Am"))

	done := m.annotate()().(exportDoneMsg)
	require.NoError(t, done.err)
	assert.Equal(t, "annotated_My_Set.txt", filepath.Base(done.outputFile))

	data, err := os.ReadFile(done.outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Key: G Major")
}

func TestLoad(t *testing.T) {
	m, _ := newTestModel(t)

	doc := chordset.Document{
		Name:    "Eb_Ballad",
		TypeID:  chordset.TypeID,
		Version: chordset.Version,
		Chords:  []chordset.Chord{{Name: "Eb", Notes: []int{-21}}, {Name: "Cm7", Notes: []int{-24}}},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "set.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	m.load(path)
	require.NoError(t, m.err)

	in := m.Input()
	assert.Equal(t, "Ballad", in.Name)
	assert.Equal(t, "Eb", in.Key)
	assert.Equal(t, []string{"Eb", "Cm7"}, chordset.Symbols(in.Chords))
}

func TestLoadNumeralSet(t *testing.T) {
	m, _ := newTestModel(t)

	doc := chordset.Document{
		Name:    "C_Pop",
		TypeID:  chordset.TypeID,
		Version: chordset.Version,
		Chords: []chordset.Chord{
			{Name: "ii", Notes: []int{-22}},
			{Name: "F#", Notes: []int{-18}},
			{Name: "V7", Notes: []int{-17}},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "pop.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	m.load(path)
	require.NoError(t, m.err)
	assert.Equal(t, []string{"", "F#", ""}, m.Input().Chords[:3])
	assert.Contains(t, m.status, "2 numeral pads left blank")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NoError(t, m.err)
	assert.Equal(t, "saved to slot 1", m.status)
}

func keyFor(t *testing.T, root string) theory.Key {
	t.Helper()
	key, err := theory.NewKey(root, theory.Ionian)
	require.NoError(t, err)
	return key
}

func TestDescribe(t *testing.T) {
	assert.Empty(t, describe("  ", keyFor(t, "G")))
	assert.Contains(t, describe("D7", keyFor(t, "G")), "V7")
	assert.Contains(t, describe("H", keyFor(t, "G")), "invalid")
}
