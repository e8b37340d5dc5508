package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bhujbal-nitin/poc-portal/internal/api"
	"github.com/bhujbal-nitin/poc-portal/internal/session"
)

// isolateSession redirects the config directory into a temp dir so tests
// never touch the real session file.
func isolateSession(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("LOCALAPPDATA", dir)
}

func newTestApp() AppModel {
	client := api.NewClient("http://127.0.0.1:1")
	return NewAppModel(client, 5, nil)
}

func TestStartsOnLoginWithoutSession(t *testing.T) {
	app := newTestApp()

	if app.CurrentScreen != ScreenLogin {
		t.Errorf("CurrentScreen = %v, want %v", app.CurrentScreen, ScreenLogin)
	}
	if app.LoginModel.CheckingSession {
		t.Error("login should not be checking a session when none was persisted")
	}
}

func TestStartsCheckingPersistedSession(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1")
	sess := &session.Session{Token: "tok", User: api.User{Username: "nitin"}}
	app := NewAppModel(client, 5, sess)

	if !app.LoginModel.CheckingSession {
		t.Error("login should start in checking mode with a persisted session")
	}
	if app.Token != "tok" {
		t.Errorf("Token = %q, want tok", app.Token)
	}
}

func TestValidSessionCheckGoesToDashboard(t *testing.T) {
	isolateSession(t)
	client := api.NewClient("http://127.0.0.1:1")
	sess := &session.Session{Token: "tok", User: api.User{Username: "nitin"}}
	app := NewAppModel(client, 5, sess)

	updated, _ := app.Update(sessionCheckedMsg{gen: 0, valid: true})
	app = updated.(AppModel)

	if app.CurrentScreen != ScreenDashboard {
		t.Errorf("CurrentScreen = %v, want %v", app.CurrentScreen, ScreenDashboard)
	}
}

func TestRejectedSessionCheckFallsBackToLogin(t *testing.T) {
	isolateSession(t)
	client := api.NewClient("http://127.0.0.1:1")
	sess := &session.Session{Token: "stale", User: api.User{Username: "nitin"}}
	app := NewAppModel(client, 5, sess)

	updated, _ := app.Update(sessionCheckedMsg{gen: 0, valid: false})
	app = updated.(AppModel)

	if app.CurrentScreen != ScreenLogin {
		t.Errorf("CurrentScreen = %v, want %v", app.CurrentScreen, ScreenLogin)
	}
	if app.Token != "" {
		t.Error("stale token should have been discarded")
	}
	if app.LoginModel.CheckingSession {
		t.Error("login should be prompting, not checking")
	}
}

func TestStaleGenerationMessagesDropped(t *testing.T) {
	isolateSession(t)
	app := newTestApp()
	app.Generation = 2

	// A session check from generation 0 must not move the screen
	updated, _ := app.Update(sessionCheckedMsg{gen: 0, valid: true})
	app = updated.(AppModel)

	if app.CurrentScreen != ScreenLogin {
		t.Errorf("stale message moved screen to %v", app.CurrentScreen)
	}
}

func TestLoginSuccessAdvancesGeneration(t *testing.T) {
	isolateSession(t)
	app := newTestApp()

	resp := &api.LoginResponse{Token: "fresh", User: api.User{Username: "nitin"}}
	updated, _ := app.Update(loginResultMsg{gen: 0, resp: resp})
	app = updated.(AppModel)

	if app.CurrentScreen != ScreenDashboard {
		t.Errorf("CurrentScreen = %v, want %v", app.CurrentScreen, ScreenDashboard)
	}
	if app.Generation != 1 {
		t.Errorf("Generation = %d, want 1", app.Generation)
	}
	if app.Token != "fresh" {
		t.Errorf("Token = %q, want fresh", app.Token)
	}
}

func TestLoginFailureStaysOnLogin(t *testing.T) {
	isolateSession(t)
	app := newTestApp()

	updated, _ := app.Update(loginResultMsg{gen: 0, err: api.NewServerError(500, "boom")})
	app = updated.(AppModel)

	if app.CurrentScreen != ScreenLogin {
		t.Errorf("CurrentScreen = %v, want %v", app.CurrentScreen, ScreenLogin)
	}
	if app.LoginModel.StatusError == "" {
		t.Error("login screen should carry the failure message")
	}
}

func TestSessionExpiredTearsDownAndShowsMessage(t *testing.T) {
	isolateSession(t)
	app := newTestApp()
	app.Token = "tok"
	app.User = api.User{Username: "nitin"}
	updated, _ := app.transitionTo(ScreenTable, nil)
	app = updated.(AppModel)

	updated, _ = app.Update(sessionExpiredMsg{})
	app = updated.(AppModel)

	if app.CurrentScreen != ScreenLogin {
		t.Errorf("CurrentScreen = %v, want %v", app.CurrentScreen, ScreenLogin)
	}
	if app.Token != "" {
		t.Error("token should be cleared on expiry")
	}
	if app.Generation != 1 {
		t.Errorf("Generation = %d, want 1", app.Generation)
	}
	if app.LoginModel.StatusError != "Session expired. Please login again." {
		t.Errorf("StatusError = %q", app.LoginModel.StatusError)
	}
}

func TestLogoutClearsCachedState(t *testing.T) {
	isolateSession(t)
	app := newTestApp()
	app.Token = "tok"
	app.User = api.User{Username: "nitin"}
	updated, _ := app.transitionTo(ScreenTable, nil)
	app = updated.(AppModel)
	app.TableModel.Records = []api.POCRecord{{PocID: "POC-1"}}

	updated, _ = app.Update(logoutRequestMsg{})
	app = updated.(AppModel)

	if app.CurrentScreen != ScreenLogin {
		t.Errorf("CurrentScreen = %v, want %v", app.CurrentScreen, ScreenLogin)
	}
	if len(app.TableModel.Records) != 0 {
		t.Error("cached records should not survive logout")
	}
	if app.Generation != 1 {
		t.Errorf("Generation = %d, want 1", app.Generation)
	}
}

func TestConfirmationScreenNavigation(t *testing.T) {
	tests := []struct {
		key  string
		want Screen
	}{
		{"n", ScreenInitiation},
		{"m", ScreenTable},
		{"enter", ScreenTable},
		{"d", ScreenDashboard},
		{"esc", ScreenDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			app := newTestApp()
			updated, _ := app.transitionTo(ScreenConfirmation, confirmationData{
				Heading:    "POC Initiated Successfully!",
				Identifier: "POC-42",
			})
			app = updated.(AppModel)

			if app.Confirmation.Identifier != "POC-42" {
				t.Fatalf("Confirmation.Identifier = %q", app.Confirmation.Identifier)
			}

			var keyMsg tea.KeyMsg
			switch tt.key {
			case "enter":
				keyMsg = tea.KeyMsg{Type: tea.KeyEnter}
			case "esc":
				keyMsg = tea.KeyMsg{Type: tea.KeyEsc}
			default:
				keyMsg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)}
			}
			updated, _ = app.Update(keyMsg)
			app = updated.(AppModel)

			if app.CurrentScreen != tt.want {
				t.Errorf("key %q: CurrentScreen = %v, want %v", tt.key, app.CurrentScreen, tt.want)
			}
		})
	}
}

func TestEditTransitionCarriesRecord(t *testing.T) {
	app := newTestApp()
	record := &api.POCRecord{PocID: "POC-7", PocName: "Edge Gateway"}

	updated, _ := app.transitionTo(ScreenCodeForm, record)
	app = updated.(AppModel)

	if !app.CodeFormModel.Editing {
		t.Error("code form should be in edit mode")
	}
	if app.CodeFormModel.EditPocID != "POC-7" {
		t.Errorf("EditPocID = %q, want POC-7", app.CodeFormModel.EditPocID)
	}
}
