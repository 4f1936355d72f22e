// Package tui provides a terminal user interface for building chord sets
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/chords2maschine/pkg/bundle"
	"github.com/james-see/chords2maschine/pkg/chord"
	"github.com/james-see/chords2maschine/pkg/chordset"
	"github.com/james-see/chords2maschine/pkg/theory"
)

// Acid-inspired color scheme
var (
	acidGreen  = lipgloss.Color("#39FF14")
	acidYellow = lipgloss.Color("#FFFF00")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")
	errorRed   = lipgloss.Color("#FF0000")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(acidGreen).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			Width(10)

	selectedStyle = lipgloss.NewStyle().
			Foreground(acidGreen).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(acidYellow).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorRed).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(acidGreen).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(acidGreen).
			Padding(1, 2)

	slotStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Center)
)

// State represents the current TUI state
type State int

const (
	StateForm State = iota
	StateFilePicker
	StateExporting
	StateResult
)

// Options configures the TUI
type Options struct {
	// OutputDir receives exported files, the working directory when empty
	OutputDir string
	// FileNumber names single-set exports, user_chord_set_NN.json
	FileNumber int
	// DefaultKey preselects the key root
	DefaultKey string
}

// Model represents the TUI model
type Model struct {
	state      State
	bundles    *bundle.Manager
	opts       Options
	inputs     []textinput.Model // set name, then one per pad
	focus      int
	keyIndex   int
	numeral    bool
	filePicker filepicker.Model
	spinner    spinner.Model
	status     string
	outputFile string
	err        error
	width      int
	height     int
}

// exportDoneMsg signals export completion
type exportDoneMsg struct {
	outputFile string
	err        error
}

// New creates a new TUI model bound to a bundle manager
func New(bundles *bundle.Manager, opts Options) Model {
	if opts.FileNumber < 1 {
		opts.FileNumber = 1
	}

	inputs := make([]textinput.Model, chordset.MaxChords+1)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 24
		ti.Width = 24
		if i == 0 {
			ti.Placeholder = "My Chord Set"
			ti.CharLimit = 48
			ti.Focus()
		} else {
			ti.Placeholder = "chord"
		}
		inputs[i] = ti
	}

	fp := filepicker.New()
	fp.AllowedTypes = []string{".json"}
	if opts.OutputDir != "" {
		fp.CurrentDirectory = opts.OutputDir
	} else {
		fp.CurrentDirectory, _ = os.Getwd()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(acidGreen)

	return Model{
		state:      StateForm,
		bundles:    bundles,
		opts:       opts,
		inputs:     inputs,
		keyIndex:   keyIndexOf(opts.DefaultKey),
		filePicker: fp,
		spinner:    s,
	}
}

func keyIndexOf(root string) int {
	key, err := theory.NewKey(root, theory.Ionian)
	if err != nil {
		return 0
	}
	for i, r := range theory.KeyRoots {
		if r == key.Root {
			return i
		}
	}
	return 0
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Input returns the chord set described by the form
func (m Model) Input() chordset.Input {
	chords := make([]string, 0, chordset.MaxChords)
	for _, ti := range m.inputs[1:] {
		chords = append(chords, ti.Value())
	}
	return chordset.Input{
		Name:        strings.TrimSpace(m.inputs[0].Value()),
		Key:         theory.KeyRoots[m.keyIndex],
		Chords:      chords,
		NumeralMode: m.numeral,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateForm
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)
		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.state = StateForm
			m.load(path)
			return m, nil
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateForm:
			return m.updateForm(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case exportDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.err = msg.err
		return m, nil
	}

	if m.state == StateForm {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	m.err = nil

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down", "enter":
		m.setFocus((m.focus + 1) % len(m.inputs))
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		return m, nil
	case "ctrl+k":
		m.keyIndex = (m.keyIndex + 1) % len(theory.KeyRoots)
		return m, nil
	case "ctrl+n":
		m.numeral = !m.numeral
		return m, nil
	case "ctrl+b":
		on := !m.bundles.State().BundleMode
		m.err = m.bundles.SetBundleMode(ctx, on)
		m.status = fmt.Sprintf("bundle mode %s", onOff(on))
		return m, nil
	case "ctrl+s":
		cur := m.bundles.State().Current
		if _, err := m.bundles.Save(ctx, cur, m.Input()); err != nil {
			m.err = err
			return m, nil
		}
		m.status = fmt.Sprintf("saved to slot %d", cur+1)
		return m, nil
	case "pgdown", "ctrl+right":
		_, m.err = m.bundles.Advance(ctx)
		return m, nil
	case "pgup", "ctrl+left":
		_, m.err = m.bundles.Retreat(ctx)
		return m, nil
	case "ctrl+f":
		_, m.err = m.bundles.AdvanceToNextAvailable(ctx)
		return m, nil
	case "ctrl+x":
		cur := m.bundles.State().Current
		m.err = m.bundles.ClearSlot(ctx, cur)
		m.status = fmt.Sprintf("cleared slot %d", cur+1)
		return m, nil
	case "ctrl+o":
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "ctrl+e":
		m.state = StateExporting
		return m, tea.Batch(m.spinner.Tick, m.export())
	case "ctrl+a":
		m.state = StateExporting
		return m, tea.Batch(m.spinner.Tick, m.annotate())
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateForm
		m.err = nil
		m.outputFile = ""
		return m, nil
	case "ctrl+c", "q":
		return m, tea.Quit
	}
	return m, nil
}

// load fills the form from an exported chord-set document
func (m *Model) load(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		m.err = err
		return
	}
	doc, err := chordset.Decode(data)
	if err != nil {
		m.err = err
		return
	}

	name := doc.Name
	if root, rest, ok := strings.Cut(doc.Name, "_"); ok {
		if key, err := theory.NewKey(root, theory.Ionian); err == nil {
			m.keyIndex = keyIndexOf(key.Root)
			name = rest
		}
	}
	m.inputs[0].SetValue(name)
	for i := 1; i < len(m.inputs); i++ {
		m.inputs[i].SetValue("")
	}
	// numeral-mode exports name pads "ii", "V7"; those cannot be re-voiced
	skipped := 0
	for i, c := range doc.Chords {
		if i >= chordset.MaxChords {
			break
		}
		if _, err := chord.Parse(c.Name); err != nil {
			skipped++
			continue
		}
		m.inputs[i+1].SetValue(c.Name)
	}
	m.numeral = false
	m.status = fmt.Sprintf("loaded %s", filepath.Base(path))
	if skipped > 0 {
		m.status += fmt.Sprintf(" (%d numeral pads left blank, re-enter their chords)", skipped)
	}
}

func (m Model) outputPath(name string) string {
	return filepath.Join(m.opts.OutputDir, name)
}

// export writes the bundle archive in bundle mode, otherwise the form's set
func (m Model) export() tea.Cmd {
	in := m.Input()
	bundleMode := m.bundles.State().BundleMode
	return func() tea.Msg {
		if bundleMode {
			data, err := m.bundles.Export()
			if err != nil {
				return exportDoneMsg{err: err}
			}
			path := m.outputPath("chord_sets.zip")
			return exportDoneMsg{outputFile: path, err: chordset.WriteFile(path, chordset.FormatZip, data)}
		}

		doc, err := chordset.Build(in)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		data, err := chordset.Encode(doc)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := m.outputPath(chordset.FileName(m.opts.FileNumber))
		return exportDoneMsg{outputFile: path, err: chordset.WriteFile(path, chordset.FormatJSON, data)}
	}
}

func (m Model) annotate() tea.Cmd {
	in := m.Input()
	return func() tea.Msg {
		report, err := chordset.Annotate(in)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path := m.outputPath(chordset.AnnotatedFileName(in.Name))
		return exportDoneMsg{outputFile: path, err: chordset.WriteFile(path, chordset.FormatText, []byte(report))}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateForm:
		s.WriteString(m.viewForm())
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("tab: next field • ctrl+k: key • ctrl+n: numerals • ctrl+b: bundle mode • ctrl+s: save slot\n" +
			"pgup/pgdn: slot • ctrl+f: next free slot • ctrl+x: clear slot • ctrl+e: export • ctrl+a: annotate • ctrl+o: open • esc: quit"))
	case StateFilePicker:
		s.WriteString(titleStyle.Render(" OPEN CHORD SET "))
		s.WriteString("\n\n")
		s.WriteString(m.filePicker.View())
		s.WriteString("\n")
		s.WriteString(helpStyle.Render("esc: back"))
	case StateExporting:
		s.WriteString(boxStyle.Render(fmt.Sprintf("%s Writing...", m.spinner.View())))
	case StateResult:
		s.WriteString(m.viewResult())
	}

	return s.String()
}

func (m Model) viewForm() string {
	var s strings.Builder
	state := m.bundles.State()
	in := m.Input()

	s.WriteString(titleStyle.Render(" CHORD SET "))
	s.WriteString("\n")
	fmt.Fprintf(&s, "%s%s   numerals %s   bundle mode %s\n\n",
		labelStyle.Render("Key"), selectedStyle.Render(in.Key), onOff(m.numeral), onOff(state.BundleMode))
	fmt.Fprintf(&s, "%s%s\n", labelStyle.Render("Name"), m.inputs[0].View())

	key, _ := theory.NewKey(in.Key, theory.Ionian)
	for i, ti := range m.inputs[1:] {
		fmt.Fprintf(&s, "%s%s %s\n", labelStyle.Render(fmt.Sprintf("Pad %d", i+1)), ti.View(), describe(ti.Value(), key))
	}

	s.WriteString("\n")
	s.WriteString(slotBoard(state))

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("✗ " + m.err.Error()))
	} else if m.status != "" {
		s.WriteString("\n")
		s.WriteString(statusStyle.Render(m.status))
	}
	return boxStyle.Render(s.String())
}

// describe renders the voicing and numeral of one pad entry
func describe(sym string, key theory.Key) string {
	sym = strings.TrimSpace(sym)
	if sym == "" {
		return ""
	}
	v, _, err := chord.Voice(sym)
	if err != nil {
		return errorStyle.Render("invalid")
	}
	numeral, ok := theory.Label(sym, key)
	if !ok {
		numeral = theory.UnknownNumeral
	}
	return lipgloss.NewStyle().Foreground(silverGray).Render(fmt.Sprintf("%v %s", []int(v), numeral))
}

func slotBoard(state bundle.State) string {
	cells := make([]string, 0, bundle.SlotCount)
	for i, slot := range state.Slots {
		label := fmt.Sprintf("%d", i+1)
		style := slotStyle.Foreground(darkGray)
		switch slot.Status {
		case bundle.StatusSaved:
			style = slotStyle.Foreground(acidGreen)
		case bundle.StatusError:
			style = slotStyle.Foreground(errorRed)
		}
		if i == state.Current {
			style = style.Reverse(true)
		}
		cells = append(cells, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...) +
		fmt.Sprintf("\n%d/%d saved", state.SavedCount(), bundle.SlotCount)
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Export failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Export complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Output: %s", m.outputFile))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func asciiLogo() string {
	logo := `
   ___ _                 _    ___   __  __               _    _
  / __| |_  ___ _ _ __| |__|_  ) |  \/  |__ _ ___ __| |_ (_)_ _  ___
 | (__| ' \/ _ \ '_/ _' (_-</ /  | |\/| / _' (_-</ _| ' \| | ' \/ -_)
  \___|_||_\___/_| \__,_/__/___| |_|  |_\__,_/__/\__|_||_|_|_||_\___|
`
	return lipgloss.NewStyle().Foreground(acidGreen).Render(logo)
}

// Run starts the TUI application
func Run(bundles *bundle.Manager, opts Options) error {
	p := tea.NewProgram(New(bundles, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
