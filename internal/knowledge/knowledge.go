// Package knowledge embeds the fixed knowledge base the assistant retrieves
// from. Entries are compiled into the binary and loaded once at startup.
package knowledge

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/tvhoang/august-revolution/internal/domain"
)

//go:embed data/knowledge-vi.json
var dataFS embed.FS

// Load parses the embedded knowledge base. The returned slice is owned by
// the caller; the engine treats it as immutable for the process lifetime.
func Load() ([]domain.KnowledgeEntry, error) {
	raw, err := dataFS.ReadFile("data/knowledge-vi.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded knowledge base: %w", err)
	}

	var entries []domain.KnowledgeEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("knowledge base is empty")
	}
	return entries, nil
}
