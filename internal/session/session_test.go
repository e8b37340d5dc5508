package session

import (
	"os"
	"testing"

	"github.com/bhujbal-nitin/poc-portal/internal/api"
)

// pointSessionAt redirects the config directory into a temp dir so tests
// never touch the real session file.
func pointSessionAt(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("LOCALAPPDATA", dir)
}

func TestLoadMissingSession(t *testing.T) {
	pointSessionAt(t)

	sess, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if sess != nil {
		t.Errorf("Load() with no session file = %+v, want nil", sess)
	}
	if sess.Active() {
		t.Error("nil session should not be active")
	}
}

func TestSaveLoadClear(t *testing.T) {
	pointSessionAt(t)

	saved := &Session{
		Token: "jwt-token-123",
		User: api.User{
			Username: "nitin",
			Email:    "nitin@example.com",
			FullName: "Nitin Bhujbal",
		},
	}
	if err := Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.SavedAt.IsZero() {
		t.Error("Save() should stamp SavedAt")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() returned nil after Save()")
	}
	if !loaded.Active() {
		t.Error("loaded session should be active")
	}
	if loaded.Token != "jwt-token-123" {
		t.Errorf("Token = %v, want jwt-token-123", loaded.Token)
	}
	if loaded.User.Username != "nitin" {
		t.Errorf("User.Username = %v, want nitin", loaded.User.Username)
	}
	if loaded.User.Name() != "Nitin Bhujbal" {
		t.Errorf("User.Name() = %v, want Nitin Bhujbal", loaded.User.Name())
	}

	if err := Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	path, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("session file still exists after Clear()")
	}

	// Clearing again must not fail
	if err := Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestActiveRequiresToken(t *testing.T) {
	if (&Session{}).Active() {
		t.Error("session without token should not be active")
	}
	if !(&Session{Token: "x"}).Active() {
		t.Error("session with token should be active")
	}
}
