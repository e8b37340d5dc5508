package config

// Settings represents the entire user configuration file.
// It stores connection details for the POC portal backend and
// display preferences for the management table.
type Settings struct {
	Version int            `yaml:"version"`
	API     *APISettings   `yaml:"api,omitempty"`
	Table   *TableSettings `yaml:"table,omitempty"`
}

// APISettings configures how the client reaches the portal backend.
type APISettings struct {
	BaseURL        string `yaml:"base_url"`        // Backend base URL (e.g., "http://localhost:5050")
	TimeoutSeconds int    `yaml:"timeout_seconds"` // Per-request timeout in seconds
}

// TableSettings configures the POC management table.
type TableSettings struct {
	PageSize int `yaml:"page_size"` // Rows shown per page
}

// Defaults used when no configuration file exists yet.
const (
	DefaultBaseURL        = "http://localhost:5050"
	DefaultTimeoutSeconds = 15
	DefaultPageSize       = 5
)

// NewSettings creates a Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		API: &APISettings{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Table: &TableSettings{
			PageSize: DefaultPageSize,
		},
	}
}

// BaseURL returns the configured backend base URL, falling back to the default.
func (s *Settings) BaseURL() string {
	if s.API == nil || s.API.BaseURL == "" {
		return DefaultBaseURL
	}
	return s.API.BaseURL
}

// TimeoutSeconds returns the configured request timeout, falling back to the default.
func (s *Settings) TimeoutSeconds() int {
	if s.API == nil || s.API.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds
	}
	return s.API.TimeoutSeconds
}

// PageSize returns the configured table page size, falling back to the default.
func (s *Settings) PageSize() int {
	if s.Table == nil || s.Table.PageSize <= 0 {
		return DefaultPageSize
	}
	return s.Table.PageSize
}
