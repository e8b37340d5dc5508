// Package config provides user configuration management for the POC portal client.
//
// This package manages a YAML-based configuration file that stores the backend
// base URL, request timeout, and table display preferences. The configuration
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/pocportal/config.yaml or $HOME/.config/pocportal/config.yaml
//   - macOS: $HOME/.config/pocportal/config.yaml
//   - Windows: %LOCALAPPDATA%\pocportal\config.yaml
//
// # Security
//
// This package NEVER stores credentials or session tokens. Those live in the
// session file managed by the session package.
//
// # Usage Example
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	baseURL := config.ResolveBaseURL(settings)
//
//	settings.Table.PageSize = 10
//	if err := settings.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global settings use sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
