package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bhujbal-nitin/poc-portal/internal/api"
)

// dashboardKeyMap defines key bindings for the dashboard screen
type dashboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Logout key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Logout, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Logout, k.Quit},
	}
}

// dashboardAction identifies one entry in the dashboard menu.
type dashboardAction int

const (
	actionInitiate dashboardAction = iota
	actionCreateCode
	actionManage
	actionLogout
	actionQuit
)

// dashboardEntry pairs a menu label with its action.
type dashboardEntry struct {
	label  string
	detail string
	action dashboardAction
}

// DashboardModel is the landing screen after login.
type DashboardModel struct {
	User    api.User
	Cursor  int
	Entries []dashboardEntry

	// UI state
	Width  int
	Height int

	Help help.Model
	Keys dashboardKeyMap
}

// NewDashboardModel creates the dashboard menu.
func NewDashboardModel(user api.User) DashboardModel {
	keys := dashboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Logout: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "logout"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	entries := []dashboardEntry{
		{label: "Initiate POC", detail: "Start a new POC initiation form", action: actionInitiate},
		{label: "Create POC Code", detail: "Register a POC code with planning details", action: actionCreateCode},
		{label: "Manage POCs", detail: "Search, view, edit and delete existing POCs", action: actionManage},
		{label: "Logout", detail: "End the current session", action: actionLogout},
		{label: "Quit", detail: "Exit the application", action: actionQuit},
	}

	return DashboardModel{
		User:    user,
		Entries: entries,
		Help:    help.New(),
		Keys:    keys,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Update handles dashboard messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}

		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
			}

		case "enter":
			return m.selectEntry(m.Entries[m.Cursor].action)

		case "l":
			return m, func() tea.Msg { return logoutRequestMsg{} }

		case "q", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

// selectEntry dispatches the chosen menu action.
func (m DashboardModel) selectEntry(action dashboardAction) (tea.Model, tea.Cmd) {
	switch action {
	case actionInitiate:
		return m, func() tea.Msg { return screenTransitionMsg{screen: ScreenInitiation} }
	case actionCreateCode:
		return m, func() tea.Msg { return screenTransitionMsg{screen: ScreenCodeForm} }
	case actionManage:
		return m, func() tea.Msg { return screenTransitionMsg{screen: ScreenTable} }
	case actionLogout:
		return m, func() tea.Msg { return logoutRequestMsg{} }
	case actionQuit:
		return m, tea.Quit
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	content := m.buildContent()
	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height, m.User.Name())
}

// buildContent builds the dashboard content
func (m DashboardModel) buildContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Dashboard"))
	b.WriteString("\n")
	b.WriteString(RenderSubtitle("Signed in as " + m.User.Name()))
	b.WriteString("\n\n")

	for i, entry := range m.Entries {
		line := entry.label
		if i == m.Cursor {
			line += "  " + SubtitleStyle.Render(entry.detail)
		}
		b.WriteString(RenderMenuItem(line, i == m.Cursor))
		b.WriteString("\n")
	}

	return b.String()
}
