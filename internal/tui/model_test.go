package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModel_BuffersLines(t *testing.T) {
	m := NewModel("recmux", nil)
	m.maxLines = 3
	var tm tea.Model = m
	for _, l := range []string{"a", "b", "c", "d"} {
		tm, _ = tm.Update(LineMsg(l))
	}
	got := tm.(Model).Lines()
	if strings.Join(got, ",") != "b,c,d" {
		t.Errorf("lines = %v", got)
	}
}

func TestModel_QuitCancelsOnce(t *testing.T) {
	calls := 0
	var tm tea.Model = NewModel("recmux", func() { calls++ })
	q := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}

	tm, cmd := tm.Update(q)
	if cmd != nil {
		t.Error("quit before work finished should not stop the program")
	}
	tm, _ = tm.Update(q)
	if calls != 1 {
		t.Errorf("cancel called %d times, want 1", calls)
	}
	if !strings.Contains(tm.View(), "stopping") {
		t.Errorf("view does not show stopping state: %q", tm.View())
	}
}

func TestModel_DoneQuits(t *testing.T) {
	var tm tea.Model = NewModel("recmux", nil)
	tm, cmd := tm.Update(DoneMsg{Summary: "Done: 2 converted, 0 skipped, 0 failed"})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("DoneMsg should quit the program")
	}
	if !strings.Contains(tm.View(), "2 converted") {
		t.Errorf("summary missing from view: %q", tm.View())
	}
}

func TestStyleFor(t *testing.T) {
	if !styleFor("[flv-to-mp4] a.flv conversion failed:").GetBold() {
		t.Error("failure lines should be bold")
	}
}
