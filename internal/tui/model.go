// Package tui drives the example node from a terminal.
package tui

import (
	"context"
	"strconv"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/recera/nodeditor/pkg/area"
	"github.com/recera/nodeditor/pkg/environment"
)

// Focus is the widget receiving keys
type Focus int

const (
	FocusInput Focus = iota
	FocusButton
)

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Tab       key.Binding
	Enter     key.Binding
	Randomize key.Binding
	Quit      key.Binding

	// active only while the button has focus, so they can be typed
	ButtonRandomize key.Binding
	ButtonQuit      key.Binding
}

var DefaultKeyMap = KeyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "switch focus"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "press button"),
	),
	Randomize: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "randomize"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
	ButtonRandomize: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "randomize"),
	),
	ButtonQuit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
}

// redraws collects the ids the area redrew during one Update
type redraws struct {
	mu  sync.Mutex
	ids []string
}

func (r *redraws) sink(f area.Frame) {
	r.mu.Lock()
	r.ids = append(r.ids, f.ControlID)
	r.mu.Unlock()
}

func (r *redraws) drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.ids
	r.ids = nil
	return ids
}

// Model represents the TUI application state
type Model struct {
	env     *environment.Environment
	example *environment.Example
	destroy func()
	redraws *redraws

	// Window dimensions
	width int

	// UI components
	input textinput.Model
	bar   progress.Model
	focus Focus
	keys  KeyMap

	// every control redraw seen so far, in order
	history []string

	errorMessage string
	quitting     bool
}

// New builds the example editor and a model over it
func New(ctx context.Context, opts environment.Options) (Model, error) {
	r := &redraws{}
	opts.Sink = r.sink

	env, ex, destroy, err := environment.CreateEditor(ctx, opts)
	if err != nil {
		return Model{}, err
	}

	input := textinput.New()
	input.Placeholder = "0"
	input.CharLimit = 24
	input.Width = 24
	input.SetValue(ex.Input.Text())
	input.Focus()

	return Model{
		env:     env,
		example: ex,
		destroy: destroy,
		redraws: r,
		input:   input,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		focus:   FocusInput,
		keys:    DefaultKeyMap,
		width:   60,
	}, nil
}

// Example returns the controls the model drives
func (m Model) Example() *environment.Example { return m.example }

// Focused returns the focused widget
func (m Model) Focused() Focus { return m.focus }

// InputValue returns the text shown in the number field
func (m Model) InputValue() string { return m.input.Value() }

// Redraws returns every control redraw seen so far
func (m Model) Redraws() []string { return m.history }

// Err returns the message shown for rejected input
func (m Model) Err() string { return m.errorMessage }

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(10, min(msg.Width-8, 60))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit),
		m.focus == FocusButton && key.Matches(msg, m.keys.ButtonQuit):
		m.quitting = true
		m.destroy()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		if m.focus == FocusInput {
			m.focus = FocusButton
			m.input.Blur()
		} else {
			m.focus = FocusInput
			m.input.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Randomize),
		m.focus == FocusButton && key.Matches(msg, m.keys.Enter, m.keys.ButtonRandomize):
		m.example.Button.Click()
		m.errorMessage = ""
		m.sync()
		return m, nil
	}

	if m.focus != FocusInput {
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if text := m.input.Value(); text != before {
		m.commit(text)
	}
	return m, cmd
}

// commit reports typed text to the input control, like a browser's input
// event would
func (m *Model) commit(text string) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		m.errorMessage = "not a number"
		return
	}
	m.errorMessage = ""
	m.example.Input.SetValue(v)
	// the field already shows what was typed
	m.env.Area().Refresh(m.example.Input.ID())
	m.sync()
}

// sync pulls control values into the widgets the area redrew
func (m *Model) sync() {
	for _, id := range m.redraws.drain() {
		m.history = append(m.history, id)
		if id == m.example.Input.ID() {
			m.input.SetValue(m.example.Input.Text())
		}
	}
}

// Run starts the program and blocks until the user quits
func Run(ctx context.Context, opts environment.Options, options ...tea.ProgramOption) error {
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer m.destroy()

	options = append([]tea.ProgramOption{tea.WithContext(ctx)}, options...)
	_, err = tea.NewProgram(m, options...).Run()
	return err
}
