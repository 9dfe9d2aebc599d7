// Package domain contains the core data types shared across the service.
package domain

// KnowledgeEntry is a single record of the built-in knowledge base.
// Entries are loaded once at startup and never mutated. Identity is
// positional: titles are not guaranteed unique and must not be used as keys.
type KnowledgeEntry struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
