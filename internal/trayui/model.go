package trayui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lineage-mcp/lineage-mcp/internal/traypipe"
	"github.com/lineage-mcp/lineage-mcp/internal/traystore"
)

// focusArea names which panel currently receives key input, grounded on
// internal/ui/home.go's cursor/focus split between the instance list and
// dialogs.
type focusArea int

const (
	focusSessions focusArea = iota
	focusLog
	focusCompaction
)

// CommandSender is the subset of *traypipe.Server the shell needs to act
// on a selected session. An interface so tests can stub it without a real
// listener.
type CommandSender interface {
	SendCommand(sessionID, msgType string) error
}

const tickInterval = time.Second

type tickMsg time.Time

// Model is the Tray Shell's Bubble Tea model, grounded on
// internal/ui/home.go's Home struct.
type Model struct {
	store      *traystore.Store
	msgLog     *traystore.MessageLog
	auditLog   *traystore.AuditLog
	sender     CommandSender

	width, height int
	focus         focusArea
	cursor        int
	viewOffset    int
	filterQuery   string
	filtering     bool

	sessions   []traystore.SessionRecord
	logEntries []traystore.LogEntry
	compactions []traystore.CompactionEvent

	menu *menu
	err  error
}

// New builds the shell model. auditLog and sender may be nil (a tray
// running without durable history, or without a live pipe server to send
// commands to, still renders — interrupt/resume become no-ops).
func New(store *traystore.Store, msgLog *traystore.MessageLog, auditLog *traystore.AuditLog, sender CommandSender) *Model {
	return &Model{
		store:    store,
		msgLog:   msgLog,
		auditLog: auditLog,
		sender:   sender,
		menu:     newMenu(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// refresh pulls a fresh snapshot from the store/log/audit sources. Run
// synchronously (these are in-memory/local-sqlite reads, never blocking
// on the network) rather than as a tea.Cmd goroutine.
func (m *Model) refresh() tea.Cmd {
	m.sessions = filterSessions(m.store.All(), m.filterQuery)
	if m.msgLog != nil {
		m.logEntries = m.msgLog.Recent(50)
	}
	if m.auditLog != nil {
		if events, err := m.auditLog.Recent(50); err == nil {
			m.compactions = events
		}
	}
	if m.cursor >= len(m.sessions) {
		m.cursor = len(m.sessions) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.setWidth(msg.Width)
		return m, nil

	case tickMsg:
		m.refresh()
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % 3
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
	case "/":
		m.filtering = true
	case "ctrl+r":
		m.refresh()
	case "i":
		m.sendToSelected(traypipe.TypeInterrupt)
	case "r":
		m.sendToSelected(traypipe.TypeResume)
	}
	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.filtering = false
	case tea.KeyBackspace:
		if len(m.filterQuery) > 0 {
			m.filterQuery = m.filterQuery[:len(m.filterQuery)-1]
		}
	case tea.KeyRunes:
		m.filterQuery += string(msg.Runes)
	}
	m.refresh()
	return m, nil
}

func (m *Model) sendToSelected(msgType string) {
	if m.sender == nil || m.focus != focusSessions {
		return
	}
	if m.cursor < 0 || m.cursor >= len(m.sessions) {
		return
	}
	_ = m.sender.SendCommand(m.sessions[m.cursor].SessionID, msgType)
}

func (m *Model) View() string {
	if m.width == 0 {
		return "loading…"
	}

	header := titleStyle.Render("lineage-mcp tray")
	badge := BadgeState{
		SessionCount:   len(m.sessions),
		AnyInterrupted: anyInterrupted(m.sessions),
	}.Render(itoa(len(m.sessions)))
	status := statusLineStyle.Render(fsnotifyStatus())

	sideWidth := m.width / 3
	sessionPanel := m.renderSessions(sideWidth, m.height-6)
	logPanel := renderMessageLog(m.logEntries, sideWidth, m.height-6)
	compactionPanel := renderCompactionHistory(m.compactions, m.width-2*sideWidth, m.height-6)

	body := lipglossJoinHorizontal(sessionPanel, logPanel, compactionPanel)

	filterLine := ""
	if m.filtering {
		filterLine = "\n/" + m.filterQuery
	}

	return strings.Join([]string{
		header + "  " + badge + "  " + status,
		body,
		filterLine,
		m.menu.View(m.focus),
	}, "\n")
}

func (m *Model) renderSessions(width, height int) string {
	lines := []string{panelTitleStyle.Render("Sessions")}
	for i, rec := range m.sessions {
		if len(lines)-1 >= height-2 {
			break
		}
		lines = append(lines, sessionLine(rec, i == m.cursor, width-2))
	}
	if len(m.sessions) == 0 {
		lines = append(lines, dimStyle.Render("(none)"))
	}
	return panelStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func anyInterrupted(sessions []traystore.SessionRecord) bool {
	for _, s := range sessions {
		if s.Interrupted {
			return true
		}
	}
	return false
}
