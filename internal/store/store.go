// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/tvhoang/august-revolution/internal/domain"
)

// Repository defines the interface for persisting visitor and session data.
type Repository interface {
	// GetUser retrieves a visitor by their user ID.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a visitor record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a visitor.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// ListMessages returns the conversation for a session in append order.
	ListMessages(ctx context.Context, userID, sessionID string) ([]domain.Message, error)

	// AppendMessage appends one conversation turn to a session.
	AppendMessage(ctx context.Context, userID, sessionID string, msg domain.Message) error

	// ClearConversation removes all messages for a session.
	ClearConversation(ctx context.Context, userID, sessionID string) error

	// GetSettings retrieves per-session assistant overrides, or nil.
	GetSettings(ctx context.Context, userID, sessionID string) (*domain.Settings, error)

	// UpsertSettings creates or fully replaces per-session overrides.
	UpsertSettings(ctx context.Context, settings *domain.Settings) error

	// DeleteSettings removes per-session overrides.
	DeleteSettings(ctx context.Context, userID, sessionID string) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
