package trayui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
	"github.com/lineage-mcp/lineage-mcp/internal/traystore"
)

type stubSender struct {
	calls []string
	err   error
}

func (s *stubSender) SendCommand(sessionID, msgType string) error {
	s.calls = append(s.calls, sessionID+":"+msgType)
	return s.err
}

func newTestModel(t *testing.T) (*Model, *traystore.Store, *stubSender) {
	t.Helper()
	store := traystore.New()
	store.Register(traypipe.Message{Type: traypipe.TypeRegister, SessionID: "s1", BaseDir: "/repo/one", ClientName: "Claude Code"})
	store.Register(traypipe.Message{Type: traypipe.TypeRegister, SessionID: "s2", BaseDir: "/repo/two", ClientName: "opencode"})

	sender := &stubSender{}
	m := New(store, traystore.NewMessageLog(10), nil, sender)
	m.Init()
	m.refresh()
	return m, store, sender
}

func TestModelRefreshPopulatesSessions(t *testing.T) {
	m, _, _ := newTestModel(t)
	if len(m.sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(m.sessions))
	}
}

func TestModelWindowSizeSetsDimensions(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	mm := updated.(*Model)
	if mm.width != 100 || mm.height != 40 {
		t.Fatalf("expected dimensions set, got %d/%d", mm.width, mm.height)
	}
}

func TestModelNavigationMovesCursor(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	mm := updated.(*Model)
	if mm.cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", mm.cursor)
	}
	updated, _ = mm.Update(tea.KeyMsg{Type: tea.KeyDown})
	mm = updated.(*Model)
	if mm.cursor != 1 {
		t.Fatalf("expected cursor clamped at 1, got %d", mm.cursor)
	}
}

func TestModelInterruptSendsCommandForSelectedSession(t *testing.T) {
	m, _, sender := newTestModel(t)
	m.Update(tea.KeyMsg{Runes: []rune("i"), Type: tea.KeyRunes})
	if len(sender.calls) != 1 {
		t.Fatalf("expected one SendCommand call, got %d", len(sender.calls))
	}
	if sender.calls[0] != m.sessions[0].SessionID+":"+traypipe.TypeInterrupt {
		t.Fatalf("unexpected call: %s", sender.calls[0])
	}
}

func TestModelFilterNarrowsSessions(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("two")})
	if len(m.sessions) != 1 || m.sessions[0].SessionID != "s2" {
		t.Fatalf("expected filter to narrow to s2, got %+v", m.sessions)
	}
}

func TestModelQuitReturnsQuitCmd(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}
