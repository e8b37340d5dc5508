package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bhujbal-nitin/poc-portal/internal/api"
	"github.com/bhujbal-nitin/poc-portal/internal/logging"
	"github.com/bhujbal-nitin/poc-portal/internal/session"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenLogin        Screen = "login"
	ScreenDashboard    Screen = "dashboard"
	ScreenInitiation   Screen = "initiation"
	ScreenCodeForm     Screen = "code-form"
	ScreenTable        Screen = "table"
	ScreenConfirmation Screen = "confirmation"
)

// Messages for screen transitions
type screenTransitionMsg struct {
	screen Screen
	data   interface{}
}

type goBackMsg struct{}
type quitMsg struct{}
type logoutRequestMsg struct{}

// sessionExpiredMsg is emitted by any authenticated screen whose request
// came back 401. The session is torn down and the login screen shown with
// an explanatory message.
type sessionExpiredMsg struct{}

// sessionCheckedMsg reports the result of validating a persisted token
// against the backend at startup.
type sessionCheckedMsg struct {
	gen   int
	valid bool
	err   error
}

// logoutDoneMsg reports that the server-side logout call finished.
// The local session is already cleared by the time this arrives.
type logoutDoneMsg struct {
	gen int
}

// generationMsg is implemented by async results that belong to a login
// session. Results from a previous session (the user logged out while a
// request was in flight) are dropped instead of being routed to screens.
type generationMsg interface {
	generation() int
}

func (m sessionCheckedMsg) generation() int { return m.gen }
func (m logoutDoneMsg) generation() int     { return m.gen }

// confirmationData carries the result of a successful save to the
// confirmation screen.
type confirmationData struct {
	Heading    string // e.g. "POC Initiated Successfully!"
	Identifier string // POC ID returned by the backend
	Detail     string // optional extra line
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen  Screen
	PreviousScreen Screen

	// Screen models
	LoginModel      LoginModel
	DashboardModel  DashboardModel
	InitiationModel InitiationModel
	CodeFormModel   CodeFormModel
	TableModel      TableModel

	// Shared application state
	Client   *api.Client
	Token    string
	User     api.User
	PageSize int

	// Generation is bumped on every login/logout so that async results
	// from a stale session can be recognized and discarded.
	Generation int

	// Confirmation screen state
	Confirmation confirmationData

	LastError error

	// UI state
	Width  int
	Height int
}

// NewAppModel creates a new application model.
// When a persisted session is provided, the login screen starts in
// "checking session" mode and validates the token before either skipping
// straight to the dashboard or prompting for credentials.
func NewAppModel(client *api.Client, pageSize int, sess *session.Session) AppModel {
	model := AppModel{
		CurrentScreen:  ScreenLogin,
		PreviousScreen: "",
		Client:         client,
		PageSize:       pageSize,
	}

	checking := sess.Active()
	if checking {
		model.Token = sess.Token
		model.User = sess.User
	}
	model.LoginModel = NewLoginModel(client, model.Generation, checking)

	return model
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.LoginModel.Init()}
	if m.LoginModel.CheckingSession {
		cmds = append(cmds, checkSessionCmd(m.Client, m.Token, m.Generation))
	}
	return tea.Batch(cmds...)
}

// checkSessionCmd validates a persisted token against the backend.
func checkSessionCmd(client *api.Client, token string, gen int) tea.Cmd {
	return func() tea.Msg {
		valid, err := client.Validate(context.Background(), token)
		return sessionCheckedMsg{gen: gen, valid: valid, err: err}
	}
}

// logoutCmd tells the backend to invalidate the token. Local state is
// cleared before this runs, so failures only get logged.
func logoutCmd(client *api.Client, token string, gen int) tea.Cmd {
	return func() tea.Msg {
		if err := client.Logout(context.Background(), token); err != nil {
			logging.Warn("server-side logout failed", zap.Error(err))
		}
		return logoutDoneMsg{gen: gen}
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Drop async results that belong to a previous login session
	if gm, ok := msg.(generationMsg); ok && gm.generation() != m.Generation {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to all screens
		m.LoginModel.Width, m.LoginModel.Height = msg.Width, msg.Height
		m.DashboardModel.Width, m.DashboardModel.Height = msg.Width, msg.Height
		m.InitiationModel.Width, m.InitiationModel.Height = msg.Width, msg.Height
		m.CodeFormModel.Width, m.CodeFormModel.Height = msg.Width, msg.Height
		m.TableModel.Width, m.TableModel.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case sessionCheckedMsg:
		return m.handleSessionChecked(msg)

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case screenTransitionMsg:
		return m.transitionTo(msg.screen, msg.data)

	case goBackMsg:
		return m.goBack()

	case logoutRequestMsg:
		return m.logout()

	case sessionExpiredMsg:
		return m.sessionExpired()

	case logoutDoneMsg:
		return m, nil

	case quitMsg:
		return m, tea.Quit
	}

	// Route to current screen
	return m.updateCurrentScreen(msg)
}

// handleSessionChecked resolves the startup session validation.
func (m AppModel) handleSessionChecked(msg sessionCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.valid {
		logging.Info("persisted session still valid", zap.String("user", m.User.Username))
		return m.transitionTo(ScreenDashboard, nil)
	}

	// Token rejected or unreachable - fall back to the login prompt
	if err := session.Clear(); err != nil {
		logging.Warn("failed to clear stale session", zap.Error(err))
	}
	m.Token = ""
	m.User = api.User{}
	m.LoginModel = NewLoginModel(m.Client, m.Generation, false)
	if msg.err != nil && !api.IsUnauthorized(msg.err) {
		m.LoginModel.StatusError = api.UserMessage(msg.err)
	}
	m.LoginModel.Width, m.LoginModel.Height = m.Width, m.Height
	return m, m.LoginModel.Init()
}

// handleLoginResult stores the authenticated session and moves to the dashboard.
func (m AppModel) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil || msg.resp == nil {
		// Let the login screen show the failure
		return m.updateCurrentScreen(msg)
	}

	m.Token = msg.resp.Token
	m.User = msg.resp.User
	m.Generation++

	if err := session.Save(&session.Session{Token: m.Token, User: m.User}); err != nil {
		logging.Warn("failed to persist session", zap.Error(err))
	}
	logging.Info("login successful", zap.String("user", m.User.Username))

	return m.transitionTo(ScreenDashboard, nil)
}

// logout clears the session and returns to the login screen.
// Cached records and in-progress form state do not survive a logout.
func (m AppModel) logout() (tea.Model, tea.Cmd) {
	token := m.Token
	m.Token = ""
	m.User = api.User{}
	m.Generation++
	m.TableModel = TableModel{}
	m.InitiationModel = InitiationModel{}
	m.CodeFormModel = CodeFormModel{}

	if err := session.Clear(); err != nil {
		logging.Warn("failed to clear session", zap.Error(err))
	}

	m.LoginModel = NewLoginModel(m.Client, m.Generation, false)
	m.LoginModel.Width, m.LoginModel.Height = m.Width, m.Height
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = ScreenLogin

	cmds := []tea.Cmd{m.LoginModel.Init()}
	if token != "" {
		cmds = append(cmds, logoutCmd(m.Client, token, m.Generation))
	}
	return m, tea.Batch(cmds...)
}

// sessionExpired tears down the rejected session and returns to login.
func (m AppModel) sessionExpired() (tea.Model, tea.Cmd) {
	m.Token = ""
	m.User = api.User{}
	m.Generation++
	m.TableModel = TableModel{}
	m.InitiationModel = InitiationModel{}
	m.CodeFormModel = CodeFormModel{}

	if err := session.Clear(); err != nil {
		logging.Warn("failed to clear expired session", zap.Error(err))
	}
	logging.Info("session expired, returning to login")

	return m.transitionTo(ScreenLogin, "Session expired. Please login again.")
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenLogin:
		updated, c := m.LoginModel.Update(msg)
		m.LoginModel = updated.(LoginModel)
		cmd = c

	case ScreenDashboard:
		updated, c := m.DashboardModel.Update(msg)
		m.DashboardModel = updated.(DashboardModel)
		cmd = c

	case ScreenInitiation:
		updated, c := m.InitiationModel.Update(msg)
		m.InitiationModel = updated.(InitiationModel)
		cmd = c

	case ScreenCodeForm:
		updated, c := m.CodeFormModel.Update(msg)
		m.CodeFormModel = updated.(CodeFormModel)
		cmd = c

	case ScreenTable:
		updated, c := m.TableModel.Update(msg)
		m.TableModel = updated.(TableModel)
		cmd = c

	case ScreenConfirmation:
		return m.handleConfirmationScreen(msg)
	}

	return m, cmd
}

// handleConfirmationScreen handles user input on the confirmation screen
func (m AppModel) handleConfirmationScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "n":
			// Start another initiation
			return m.transitionTo(ScreenInitiation, nil)

		case "m", "enter":
			// Manage POCs
			return m.transitionTo(ScreenTable, nil)

		case "d", "esc":
			return m.transitionTo(ScreenDashboard, nil)

		case "q":
			return m, tea.Quit
		}
	}

	return m, nil
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen, data interface{}) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd

	// Initialize the target screen with current state
	switch screen {
	case ScreenLogin:
		m.LoginModel = NewLoginModel(m.Client, m.Generation, false)
		if msg, ok := data.(string); ok {
			// e.g. "Session expired. Please login again."
			m.LoginModel.StatusError = msg
		}
		cmd = m.LoginModel.Init()

	case ScreenDashboard:
		m.DashboardModel = NewDashboardModel(m.User)
		cmd = m.DashboardModel.Init()

	case ScreenInitiation:
		m.InitiationModel = NewInitiationModel(m.Client, m.Token, m.User, m.Generation)
		cmd = m.InitiationModel.Init()

	case ScreenCodeForm:
		if record, ok := data.(*api.POCRecord); ok {
			m.CodeFormModel = NewCodeEditModel(m.Client, m.Token, m.User, m.Generation, record)
		} else {
			m.CodeFormModel = NewCodeFormModel(m.Client, m.Token, m.User, m.Generation)
		}
		cmd = m.CodeFormModel.Init()

	case ScreenTable:
		m.TableModel = NewTableModel(m.Client, m.Token, m.User, m.Generation, m.PageSize)
		cmd = m.TableModel.Init()

	case ScreenConfirmation:
		if conf, ok := data.(confirmationData); ok {
			m.Confirmation = conf
		}
		cmd = nil
	}

	// Copy terminal dimensions to the new screen model
	switch screen {
	case ScreenLogin:
		m.LoginModel.Width, m.LoginModel.Height = m.Width, m.Height
	case ScreenDashboard:
		m.DashboardModel.Width, m.DashboardModel.Height = m.Width, m.Height
	case ScreenInitiation:
		m.InitiationModel.Width, m.InitiationModel.Height = m.Width, m.Height
	case ScreenCodeForm:
		m.CodeFormModel.Width, m.CodeFormModel.Height = m.Width, m.Height
	case ScreenTable:
		m.TableModel.Width, m.TableModel.Height = m.Width, m.Height
	}

	return m, cmd
}

// goBack returns to the previous screen
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenLogin:
		// Can't go back from login - quit instead
		return m, tea.Quit

	case ScreenDashboard:
		// Dashboard is the root of the authenticated flow
		return m, tea.Quit

	case ScreenInitiation, ScreenCodeForm, ScreenTable, ScreenConfirmation:
		return m.transitionTo(ScreenDashboard, nil)

	default:
		return m, tea.Quit
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenLogin:
		return m.LoginModel.View()
	case ScreenDashboard:
		return m.DashboardModel.View()
	case ScreenInitiation:
		return m.InitiationModel.View()
	case ScreenCodeForm:
		return m.CodeFormModel.View()
	case ScreenTable:
		return m.TableModel.View()
	case ScreenConfirmation:
		return m.renderConfirmationScreen()
	default:
		return "Unknown screen"
	}
}

// renderConfirmationScreen renders the post-save confirmation screen
func (m AppModel) renderConfirmationScreen() string {
	content := RenderTitle("✓ "+m.Confirmation.Heading) + "\n\n"

	if m.Confirmation.Identifier != "" {
		content += SuccessBoxStyle.Render("POC ID: "+m.Confirmation.Identifier) + "\n\n"
	}
	if m.Confirmation.Detail != "" {
		content += m.Confirmation.Detail + "\n\n"
	}

	content += "What would you like to do next?\n\n"
	content += MenuItemStyle.Render("  n       - Initiate another POC") + "\n"
	content += MenuItemStyle.Render("  Enter/m - Manage POCs") + "\n"
	content += MenuItemStyle.Render("  d       - Back to dashboard") + "\n"
	content += MenuItemStyle.Render("  q       - Exit application") + "\n"

	helpText := "n: new • enter/m: manage • d: dashboard • q: quit"
	return RenderApplicationContainer(content, helpText, m.Width, m.Height, m.User.Name())
}
