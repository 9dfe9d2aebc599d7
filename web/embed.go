// Package web embeds the built frontend (dist/) and provides an HTTP handler
// that serves it as a single-page application (SPA).
package web

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/tvhoang/august-revolution/internal/config"
)

//go:embed all:dist
var distFS embed.FS

// SPAHandler returns an http.Handler that serves the embedded frontend.
// It serves static files from dist/, and falls back to index.html for
// any path that doesn't match a file (SPA client-side routing).
func SPAHandler() http.Handler {
	subFS, err := fs.Sub(distFS, "dist")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}

	fileServer := http.FileServer(http.FS(subFS))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the file directly.
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		// Check if file exists in the embedded FS.
		if f, err := subFS.Open(path); err == nil {
			if closeErr := f.Close(); closeErr != nil {
				slog.Debug("web: failed to close embedded file", "path", path, "error", closeErr)
			}
			fileServer.ServeHTTP(w, r)
			return
		}

		// Not found — serve index.html for SPA routing.
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}

var metaTagPattern = regexp.MustCompile(`<meta\s+name="(gemini-[a-z-]+)"\s+content="([^"]*)"`)

// metaKeys maps page meta tag names to configuration keys.
var metaKeys = map[string]string{
	"gemini-api-key":     config.KeyAPIKey,
	"gemini-model":       config.KeyModel,
	"gemini-api-version": config.KeyAPIVersion,
}

// MetaSource reads assistant overrides from <meta name="gemini-*"> tags in
// the embedded index.html, so the page can pin a model or API version
// without touching server environment variables.
func MetaSource() config.Source {
	values := make(map[string]string)
	if raw, err := distFS.ReadFile("dist/index.html"); err == nil {
		for _, m := range metaTagPattern.FindAllStringSubmatch(string(raw), -1) {
			if key, ok := metaKeys[m[1]]; ok && m[2] != "" {
				values[key] = m[2]
			}
		}
	} else {
		slog.Warn("web: no embedded index.html, meta overrides disabled", "error", err)
	}
	return config.MapSource(values)
}
