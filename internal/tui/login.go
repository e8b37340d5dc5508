package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bhujbal-nitin/poc-portal/internal/api"
)

// loginResultMsg carries the outcome of an authentication attempt.
type loginResultMsg struct {
	gen  int
	resp *api.LoginResponse
	err  error
}

func (m loginResultMsg) generation() int { return m.gen }

// loginKeyMap defines key bindings for the login screen
type loginKeyMap struct {
	Next   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k loginKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k loginKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Submit, k.Quit},
	}
}

// LoginModel represents the credential prompt screen.
// It also fronts the startup session check: while a persisted token is
// being validated the inputs are hidden behind a spinner.
type LoginModel struct {
	Client *api.Client
	Gen    int

	UsernameInput textinput.Model
	PasswordInput textinput.Model
	FocusIndex    int // 0 = username, 1 = password, 2 = sign-in button

	Authenticating  bool
	CheckingSession bool
	StatusError     string

	Spinner spinner.Model

	// UI state
	Width  int
	Height int

	Help help.Model
	Keys loginKeyMap
}

// NewLoginModel creates the login screen.
func NewLoginModel(client *api.Client, gen int, checkingSession bool) LoginModel {
	usernameInput := textinput.New()
	usernameInput.Placeholder = "username"
	usernameInput.CharLimit = 64
	usernameInput.Width = 40
	usernameInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '•'
	passwordInput.CharLimit = 64
	passwordInput.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	keys := loginKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "sign in"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}

	return LoginModel{
		Client:          client,
		Gen:             gen,
		UsernameInput:   usernameInput,
		PasswordInput:   passwordInput,
		CheckingSession: checkingSession,
		Spinner:         s,
		Help:            help.New(),
		Keys:            keys,
	}
}

// Init starts the cursor blink and the busy spinner.
func (m LoginModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Spinner.Tick)
}

// loginCmd performs the authentication request off the UI goroutine.
func loginCmd(client *api.Client, username, password string, gen int) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Login(context.Background(), username, password)
		return loginResultMsg{gen: gen, resp: resp, err: err}
	}
}

// Update handles login screen messages
func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case loginResultMsg:
		// Successful logins are consumed by the coordinator; only
		// failures reach this screen.
		m.Authenticating = false
		if msg.err != nil {
			m.StatusError = api.UserMessage(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.CheckingSession || m.Authenticating {
			// Ignore input while a request is in flight
			return m, nil
		}

		switch msg.String() {
		case "tab", "down":
			m.FocusIndex = (m.FocusIndex + 1) % 3
			return m.applyFocus()

		case "shift+tab", "up":
			m.FocusIndex = (m.FocusIndex + 2) % 3
			return m.applyFocus()

		case "enter":
			if m.FocusIndex == 0 {
				m.FocusIndex = 1
				return m.applyFocus()
			}
			return m.submit()

		case "esc":
			return m, func() tea.Msg { return quitMsg{} }
		}
	}

	return m.updateInputs(msg)
}

// applyFocus moves textinput focus to match FocusIndex.
func (m LoginModel) applyFocus() (tea.Model, tea.Cmd) {
	m.UsernameInput.Blur()
	m.PasswordInput.Blur()

	switch m.FocusIndex {
	case 0:
		m.UsernameInput.Focus()
	case 1:
		m.PasswordInput.Focus()
	}
	return m, textinput.Blink
}

// submit validates the inputs and fires the login request.
func (m LoginModel) submit() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.UsernameInput.Value())
	password := m.PasswordInput.Value()

	if username == "" || password == "" {
		m.StatusError = "Please enter both username and password"
		return m, nil
	}

	m.StatusError = ""
	m.Authenticating = true
	return m, tea.Batch(m.Spinner.Tick, loginCmd(m.Client, username, password, m.Gen))
}

// updateInputs routes keystrokes to the focused text input.
func (m LoginModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.UsernameInput, cmd = m.UsernameInput.Update(msg)
	cmds = append(cmds, cmd)
	m.PasswordInput, cmd = m.PasswordInput.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the login screen
func (m LoginModel) View() string {
	content := m.buildContent()
	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(content, helpText, m.Width, m.Height, "")
}

// buildContent builds the login screen content
func (m LoginModel) buildContent() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Sign In"))
	b.WriteString("\n\n")

	if m.CheckingSession {
		b.WriteString(m.Spinner.View())
		b.WriteString(" Checking saved session...\n")
		return b.String()
	}

	b.WriteString(renderLabeledInput("Username", m.UsernameInput, m.FocusIndex == 0))
	b.WriteString("\n")
	b.WriteString(renderLabeledInput("Password", m.PasswordInput, m.FocusIndex == 1))
	b.WriteString("\n\n")

	button := "[ Sign In ]"
	if m.FocusIndex == 2 {
		button = FocusedInputStyle.Render("[ Sign In ]")
	} else {
		button = BlurredInputStyle.Render(button)
	}
	b.WriteString("  ")
	b.WriteString(button)
	b.WriteString("\n")

	if m.Authenticating {
		b.WriteString("\n")
		b.WriteString(m.Spinner.View())
		b.WriteString(" Signing in...\n")
	}

	if m.StatusError != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(m.StatusError))
		b.WriteString("\n")
	}

	return b.String()
}

// renderLabeledInput renders a label and its text input on one line.
func renderLabeledInput(label string, input textinput.Model, focused bool) string {
	labelStyle := BlurredInputStyle
	if focused {
		labelStyle = FocusedInputStyle
	}
	return "  " + labelStyle.Render(padLabel(label)) + " " + input.View()
}

// padLabel right-pads labels so inputs line up.
func padLabel(label string) string {
	const width = 22
	if len(label) >= width {
		return label + ":"
	}
	return label + ":" + strings.Repeat(" ", width-len(label))
}
