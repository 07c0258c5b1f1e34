package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/recera/nodeditor/pkg/environment"
)

func newModel(t *testing.T, rand float64) Model {
	t.Helper()
	m, err := New(context.Background(), environment.Options{
		RandSource: func() float64 { return rand },
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(m.destroy)
	return m
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) []tea.KeyMsg {
	var msgs []tea.KeyMsg
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var (
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestModel_Initial(t *testing.T) {
	m := newModel(t, 0.5)

	if m.Focused() != FocusInput {
		t.Errorf("Expected input focus, got %v", m.Focused())
	}
	if m.InputValue() != "0" {
		t.Errorf("Expected input 0, got %q", m.InputValue())
	}

	view := m.View()
	for _, want := range []string{"A", "a ●", "0%", "Randomize"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q\n%s", want, view)
		}
	}
}

func TestModel_ButtonRandomizes(t *testing.T) {
	m := newModel(t, 0.5)
	ex := m.Example()

	m = press(t, m, tab, enter)

	if m.InputValue() != "50" {
		t.Errorf("Expected input to show 50, got %q", m.InputValue())
	}
	if ex.Progress.Percent != 50 {
		t.Errorf("Expected progress 50, got %v", ex.Progress.Percent)
	}
	want := []string{ex.Input.ID(), ex.Progress.ID()}
	if diff := cmp.Diff(want, m.Redraws()); diff != "" {
		t.Errorf("Redraws mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.View(), "50%") {
		t.Error("Expected view to show 50%")
	}
}

func TestModel_TypingSyncsProgress(t *testing.T) {
	m := newModel(t, 0.5)
	ex := m.Example()

	m = press(t, m, runes("42")...)

	if m.InputValue() != "042" {
		t.Errorf("Expected typed text 042, got %q", m.InputValue())
	}
	if ex.Input.Value() != 42 || ex.Progress.Percent != 42 {
		t.Errorf("Expected 42/42, got %v/%v", ex.Input.Value(), ex.Progress.Percent)
	}
	for _, id := range m.Redraws() {
		if id == ex.Input.ID() {
			t.Error("Expected typing not to redraw the input")
		}
	}
}

func TestModel_RejectsNonNumbers(t *testing.T) {
	m := newModel(t, 0.5)
	ex := m.Example()

	m = press(t, m, runes("7x")...)

	if m.Err() == "" {
		t.Error("Expected an error message")
	}
	if ex.Progress.Percent != 7 {
		t.Errorf("Expected last valid value 7 to stick, got %v", ex.Progress.Percent)
	}
}

func TestModel_OutOfRangeIsShownUnclamped(t *testing.T) {
	m := newModel(t, 0.5)

	m.Example().Input.SetValue(250)
	m.sync()
	if !strings.Contains(m.View(), "250%") {
		t.Errorf("Expected unclamped 250%% label\n%s", m.View())
	}
}

func TestModel_ShortcutsNeedButtonFocus(t *testing.T) {
	m := newModel(t, 0.3)
	ex := m.Example()

	// typed into the field while it has focus
	m = press(t, m, runes("r")...)
	if ex.Progress.Percent != 0 {
		t.Errorf("Expected r to be typed, progress moved to %v", ex.Progress.Percent)
	}

	m = press(t, m, tab, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if ex.Progress.Percent != 30 {
		t.Errorf("Expected r to randomize with button focus, got %v", ex.Progress.Percent)
	}
}

func TestModel_CtrlRRandomizesAnywhere(t *testing.T) {
	m := newModel(t, 0.9)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	if m.Example().Progress.Percent != 90 || m.InputValue() != "90" {
		t.Errorf("Expected 90, got %v / %q", m.Example().Progress.Percent, m.InputValue())
	}
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t, 0.5)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if next.(Model).View() != "" {
		t.Error("Expected empty view after quit")
	}

	m = press(t, newModel(t, 0.5), tab)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("Expected q to quit with button focus")
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := newModel(t, 0.5)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	if next.(Model).bar.Width != 60 {
		t.Errorf("Expected bar width capped at 60, got %d", next.(Model).bar.Width)
	}
}
