package domain

import "time"

// Settings holds per-session Gemini overrides, the server-side analog of the
// settings panel in the page. Empty fields mean "not set" and fall through
// to the next tier of the configuration cascade.
type Settings struct {
	UserID     string    `json:"-"`
	SessionID  string    `json:"-"`
	APIKey     string    `json:"api_key,omitempty"`
	Model      string    `json:"model,omitempty"`
	APIVersion string    `json:"api_version,omitempty"`
	UpdatedAt  time.Time `json:"-"`
}
