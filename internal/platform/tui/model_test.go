package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (Model, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	game, err := t2048.New(t2048.Options{Seed: 7, Store: kv})
	if err != nil {
		t.Fatalf("t2048.New() failed: %v", err)
	}
	return NewModel(game, nil), kv
}

// send feeds msgs through Update and returns the resulting model.
func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T, want Model", next)
		}
	}
	return m
}

func TestDirectionKeys(t *testing.T) {
	keys := DefaultGameKeyMap()

	tests := []struct {
		msg  tea.KeyMsg
		want engine.Direction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, engine.DirUp},
		{runes("w"), engine.DirUp},
		{runes("8"), engine.DirUp},
		{tea.KeyMsg{Type: tea.KeyDown}, engine.DirDown},
		{runes("s"), engine.DirDown},
		{runes("2"), engine.DirDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, engine.DirLeft},
		{runes("a"), engine.DirLeft},
		{runes("4"), engine.DirLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, engine.DirRight},
		{runes("d"), engine.DirRight},
		{runes("6"), engine.DirRight},
	}

	for _, tt := range tests {
		got, ok := keys.Direction(tt.msg)
		if !ok || got != tt.want {
			t.Errorf("Direction(%q) = %v, %v; want %v", tt.msg.String(), got, ok, tt.want)
		}
	}

	for _, s := range []string{"x", "5", "r"} {
		if _, ok := keys.Direction(runes(s)); ok {
			t.Errorf("Direction(%q) should not map to a move", s)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runes("q"), MenuActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, MenuActionQuit},
		{runes("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runes("x"), MenuActionNone},
	}

	for _, tt := range tests {
		if got := MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestSavePrompt(t *testing.T) {
	m, kv := newTestModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.overlay != overlaySave {
		t.Fatalf("overlay = %v, want save prompt", m.overlay)
	}

	// Movement keys are typed into the prompt, not played
	before := m.game.Moves()
	m = send(t, m, runes("d"), runes("u"), runes("o"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.game.Moves() != before {
		t.Error("typing in the save prompt should not move tiles")
	}
	if m.overlay != overlayNone {
		t.Errorf("overlay = %v after enter, want none", m.overlay)
	}
	if m.statusErr || !strings.Contains(m.status, "duo.json") {
		t.Errorf("status = %q, want confirmation naming duo.json", m.status)
	}
	if _, err := kv.Get("save/duo.json"); err != nil {
		t.Errorf("save slot not written: %v", err)
	}
}

func TestSavePromptCancel(t *testing.T) {
	m, kv := newTestModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS}, runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.overlay != overlayNone {
		t.Errorf("overlay = %v after esc, want none", m.overlay)
	}
	if keys, _ := kv.Keys("save/"); len(keys) != 0 {
		t.Errorf("cancelled prompt wrote slots: %v", keys)
	}
}

func TestSaveRefusedInTutorial(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, runes("t"))
	if !m.game.InTutorial() {
		t.Fatal("t should start the tutorial")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.overlay == overlaySave {
		t.Error("save prompt should not open during the tutorial")
	}
	if !m.statusErr || !strings.Contains(m.status, "tutorial") {
		t.Errorf("status = %q, want tutorial error", m.status)
	}
}

func TestLoadPicker(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.overlay != overlayNone || m.status != "No saved games found." {
		t.Fatalf("empty load: overlay = %v, status = %q", m.overlay, m.status)
	}

	if _, err := m.game.Save("slot"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	saved := m.game.Board()
	m = send(t, m, runes("r"))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.overlay != overlayLoad {
		t.Fatalf("overlay = %v, want load picker", m.overlay)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.overlay != overlayNone {
		t.Errorf("overlay = %v after load, want none", m.overlay)
	}
	if !m.game.Board().Equal(saved) {
		t.Errorf("board after load = %v, want %v", m.game.Board(), saved)
	}
}

func TestTutorialContinue(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, runes("t"))
	if step := m.game.TutorialStep(); step != 0 {
		t.Fatalf("TutorialStep() = %d, want 0", step)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if step := m.game.TutorialStep(); step != 1 {
		t.Errorf("TutorialStep() after enter = %d, want 1", step)
	}
	if !strings.Contains(m.View(), "RIGHT") {
		t.Error("view should show the current instruction")
	}
}

func TestMoveFlashesMerges(t *testing.T) {
	m, _ := newTestModel(t)

	// Tutorial board has a 2,2 pair in the top row
	m = send(t, m, runes("t"), tea.KeyMsg{Type: tea.KeyEnter})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if len(m.flash) != 1 {
		t.Fatalf("flash = %v, want one merged cell", m.flash)
	}
	id := m.flashID

	m = send(t, m, flashDoneMsg{id: id - 1})
	if m.flash == nil {
		t.Error("stale flashDoneMsg should not clear the highlight")
	}
	m = send(t, m, flashDoneMsg{id: id})
	if m.flash != nil {
		t.Error("flashDoneMsg should clear the highlight")
	}
}

func TestOverlaysDismiss(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, runes("i"))
	if m.overlay != overlayStats {
		t.Fatalf("overlay = %v, want stats", m.overlay)
	}
	if !strings.Contains(m.View(), "Game Statistics") {
		t.Error("stats overlay not rendered")
	}
	m = send(t, m, runes("x"))
	if m.overlay != overlayNone {
		t.Errorf("overlay = %v after a key, want none", m.overlay)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(runes("q"))
	m = next.(Model)
	if !m.quitting {
		t.Error("q should quit")
	}
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestSetErrorMessages(t *testing.T) {
	m, _ := newTestModel(t)

	m.setError(engine.ErrInvalidOperation)
	if m.status != "Game over. Press r to restart." {
		t.Errorf("status = %q", m.status)
	}
	m.setError(errors.New("boom"))
	if m.status != "boom" || !m.statusErr {
		t.Errorf("status = %q, err = %v", m.status, m.statusErr)
	}
}

func TestMenuSelection(t *testing.T) {
	m := NewMenuModel(80, 24)

	update := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}

	// Endless, then hard
	update(tea.KeyMsg{Type: tea.KeyDown})
	update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() != nil {
		t.Fatal("selection should wait for the difficulty")
	}
	update(tea.KeyMsg{Type: tea.KeyDown})
	update(tea.KeyMsg{Type: tea.KeyEnter})

	sel := m.Selected()
	if sel == nil {
		t.Fatal("Selected() = nil after choosing difficulty")
	}
	if sel.Mode != t2048.ModeEndless || sel.Difficulty != "hard" || sel.Tutorial {
		t.Errorf("Selected() = %+v", *sel)
	}
}

func TestMenuTutorialAndQuit(t *testing.T) {
	m := NewMenuModel(80, 24)
	for _, msg := range []tea.Msg{
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	} {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}
	if sel := m.Selected(); sel == nil || !sel.Tutorial {
		t.Errorf("Selected() = %+v, want tutorial", sel)
	}

	q := NewMenuModel(80, 24)
	next, _ := q.Update(runes("q"))
	q = next.(MenuModel)
	if !q.IsQuitting() || q.Selected() != nil {
		t.Error("q should quit without a selection")
	}
}
