package config

import "github.com/tvhoang/august-revolution/internal/domain"

// Configuration keys shared by every resolution tier. They mirror the
// settings names the page's configuration panel persists.
const (
	KeyAPIKey     = "GEMINI_API_KEY"
	KeyModel      = "GEMINI_MODEL"
	KeyAPIVersion = "GEMINI_API_VERSION"
)

// Canonical defaults, shared by every call site including the relay.
const (
	DefaultModel      = "gemini-2.5-flash"
	DefaultAPIVersion = "v1beta"
)

// Source resolves one configuration key for a single tier. ok is false when
// the tier has nothing for the key.
type Source func(key string) (value string, ok bool)

// Resolver tries an ordered list of sources; the first present value wins.
// It is a pure function of its injected sources, so every tier can be
// simulated in tests.
type Resolver struct {
	sources []Source
}

// NewResolver builds a resolver over sources in priority order.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

func (r *Resolver) lookup(key string) string {
	for _, src := range r.sources {
		if src == nil {
			continue
		}
		if v, ok := src(key); ok && v != "" {
			return v
		}
	}
	return ""
}

// Credential returns the resolved API key. There is no default: absence is
// meaningful and routes generation through the proxied transport.
func (r *Resolver) Credential() string {
	return r.lookup(KeyAPIKey)
}

// Model returns the resolved model identifier.
func (r *Resolver) Model() string {
	if v := r.lookup(KeyModel); v != "" {
		return v
	}
	return DefaultModel
}

// APIVersion returns the resolved API version string.
func (r *Resolver) APIVersion() string {
	if v := r.lookup(KeyAPIVersion); v != "" {
		return v
	}
	return DefaultAPIVersion
}

// StaticSource serves fixed values, used for the build-time environment tier
// and the global fallback tier.
func StaticSource(apiKey, model, apiVersion string) Source {
	values := map[string]string{
		KeyAPIKey:     apiKey,
		KeyModel:      model,
		KeyAPIVersion: apiVersion,
	}
	return MapSource(values)
}

// MapSource serves values from a map; empty values are treated as absent.
func MapSource(values map[string]string) Source {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok && v != ""
	}
}

// SettingsSource serves a visitor's stored session overrides.
func SettingsSource(s *domain.Settings) Source {
	return func(key string) (string, bool) {
		if s == nil {
			return "", false
		}
		switch key {
		case KeyAPIKey:
			return s.APIKey, s.APIKey != ""
		case KeyModel:
			return s.Model, s.Model != ""
		case KeyAPIVersion:
			return s.APIVersion, s.APIVersion != ""
		}
		return "", false
	}
}
