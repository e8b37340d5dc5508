// Package session persists the authenticated portal session between runs.
//
// The session file holds the bearer token and the logged-in user's details.
// It lives next to the configuration file in the application config directory
// and is written with user-only permissions. Clearing the session deletes the
// file entirely.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bhujbal-nitin/poc-portal/internal/api"
	"github.com/bhujbal-nitin/poc-portal/internal/config"
)

const sessionFile = "session.yaml"

// Session represents a persisted login session.
type Session struct {
	Token   string    `yaml:"token"`
	User    api.User  `yaml:"user"`
	SavedAt time.Time `yaml:"saved_at"`
}

// Active reports whether the session carries a token.
// An active session may still be rejected by the server; callers should
// validate it before trusting it.
func (s *Session) Active() bool {
	return s != nil && s.Token != ""
}

// Path returns the full path to the session file.
func Path() (string, error) {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, sessionFile), nil
}

// Load reads the persisted session from disk.
// Returns nil (and no error) when no session file exists.
func Load() (*Session, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("failed to get session path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return &sess, nil
}

// Save writes the session to disk atomically.
func Save(sess *Session) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to ensure config directory exists: %w", err)
	}

	path, err := Path()
	if err != nil {
		return fmt.Errorf("failed to get session path: %w", err)
	}

	sess.SavedAt = time.Now().UTC()
	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary session file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save session file: %w", err)
	}

	return nil
}

// Clear removes the persisted session. A missing file is not an error.
func Clear() error {
	path, err := Path()
	if err != nil {
		return fmt.Errorf("failed to get session path: %w", err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}
