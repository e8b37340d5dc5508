package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "pocportal"
	configFile = "config.yaml"

	// EnvBaseURL overrides the configured backend base URL when set.
	EnvBaseURL = "POCPORTAL_API_URL"
)

var (
	// Global settings instance (loaded lazily)
	globalSettings     *Settings
	globalSettingsOnce sync.Once
	globalSettingsErr  error

	// Mutex for thread-safe file operations
	fileMutex sync.Mutex
)

// GetConfigDir returns the OS-appropriate configuration directory for the application.
// This follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/pocportal or $HOME/.config/pocportal
//   - macOS: $HOME/.config/pocportal (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\pocportal
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			// Fallback to USERPROFILE\AppData\Local if LOCALAPPDATA not set
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		// Linux and other Unix-like systems: Use XDG_CONFIG_HOME or $HOME/.config
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// EnsureConfigDir ensures the configuration directory exists.
// Creates the directory with user-only permissions if it doesn't exist.
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// Load loads the settings from disk.
// If the file doesn't exist, returns default settings.
// Thread-safe - multiple calls will return the same instance.
func Load() (*Settings, error) {
	globalSettingsOnce.Do(func() {
		globalSettings, globalSettingsErr = loadSettingsFromDisk()
	})
	return globalSettings, globalSettingsErr
}

// loadSettingsFromDisk performs the actual file loading.
func loadSettingsFromDisk() (*Settings, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config doesn't exist - return defaults
		return NewSettings(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if settings.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d (expected 1)", settings.Version)
	}

	// Fill in missing sections with defaults
	if settings.API == nil {
		settings.API = &APISettings{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		}
	}
	if settings.Table == nil {
		settings.Table = &TableSettings{PageSize: DefaultPageSize}
	}

	return &settings, nil
}

// Save saves the settings to disk.
// Performs an atomic write to prevent corruption on crash.
func (s *Settings) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to ensure config directory exists: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# POC Portal Configuration File
# This file stores client preferences for the POC portal.
#
# Security Note: credentials and session tokens are NEVER stored in this
# file. The session token lives in a separate session file.
#
# Location: ` + configPath + `

`)
	data = append(header, data...)

	// Write to temporary file first (atomic write)
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	// Atomic rename (this is atomic on all platforms)
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	return nil
}

// ResolveBaseURL returns the effective backend base URL.
// The POCPORTAL_API_URL environment variable wins over the configuration
// file, which wins over the built-in default.
func ResolveBaseURL(s *Settings) string {
	if env := os.Getenv(EnvBaseURL); env != "" {
		return env
	}
	if s != nil {
		return s.BaseURL()
	}
	return DefaultBaseURL
}
