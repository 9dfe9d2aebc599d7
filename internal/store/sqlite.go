package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tvhoang/august-revolution/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db         *sql.DB
	settingsMu sync.Mutex // serialize settings writes to avoid SQLITE_BUSY
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(user_id, session_id, id);

	CREATE TABLE IF NOT EXISTS session_settings (
		user_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		api_key TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		api_version TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, session_id)
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetUser retrieves a visitor by their user ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, username, last_seen_at, created_at, updated_at
		FROM users WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var user domain.User
	var lastSeen, createdAt, updatedAt int64

	err := row.Scan(&user.UserID, &user.Username, &lastSeen, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.LastSeenAt = time.Unix(lastSeen, 0)
	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)

	return &user, nil
}

// UpsertUser creates or updates a visitor record.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (user_id, username, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		username = excluded.username,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		user.UserID, user.Username,
		user.LastSeenAt.Unix(), user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// UpdateLastSeen updates the last_seen_at timestamp for a visitor.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error {
	query := `UPDATE users SET last_seen_at = ?, updated_at = ? WHERE user_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), userID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "user_id", userID)
	}

	return nil
}

// ListMessages returns the conversation for a session in append order.
func (s *SQLiteStore) ListMessages(ctx context.Context, userID, sessionID string) ([]domain.Message, error) {
	query := `
		SELECT role, content, created_at
		FROM messages WHERE user_id = ? AND session_id = ?
		ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close message rows", "error", closeErr)
		}
	}()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var createdAt int64
		if err := rows.Scan(&msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		msg.CreatedAt = time.Unix(createdAt, 0)
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// AppendMessage appends one conversation turn to a session.
func (s *SQLiteStore) AppendMessage(ctx context.Context, userID, sessionID string, msg domain.Message) error {
	query := `
	INSERT INTO messages (user_id, session_id, role, content, created_at)
	VALUES (?, ?, ?, ?, ?)`

	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query, userID, sessionID, msg.Role, msg.Content, createdAt.Unix())
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// ClearConversation removes all messages for a session.
func (s *SQLiteStore) ClearConversation(ctx context.Context, userID, sessionID string) error {
	query := `DELETE FROM messages WHERE user_id = ? AND session_id = ?`
	if _, err := s.db.ExecContext(ctx, query, userID, sessionID); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	return nil
}

// GetSettings retrieves per-session assistant overrides, or nil when unset.
func (s *SQLiteStore) GetSettings(ctx context.Context, userID, sessionID string) (*domain.Settings, error) {
	query := `
		SELECT api_key, model, api_version, updated_at
		FROM session_settings WHERE user_id = ? AND session_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID, sessionID)

	settings := domain.Settings{UserID: userID, SessionID: sessionID}
	var updatedAt int64

	err := row.Scan(&settings.APIKey, &settings.Model, &settings.APIVersion, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan settings row: %w", err)
	}

	settings.UpdatedAt = time.Unix(updatedAt, 0)
	return &settings, nil
}

// UpsertSettings creates or fully replaces per-session overrides.
// Writes are whole-row replacements: last writer wins.
func (s *SQLiteStore) UpsertSettings(ctx context.Context, settings *domain.Settings) error {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	query := `
	INSERT INTO session_settings (user_id, session_id, api_key, model, api_version, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, session_id) DO UPDATE SET
		api_key = excluded.api_key,
		model = excluded.model,
		api_version = excluded.api_version,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		settings.UserID, settings.SessionID,
		settings.APIKey, settings.Model, settings.APIVersion,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// DeleteSettings removes per-session overrides.
func (s *SQLiteStore) DeleteSettings(ctx context.Context, userID, sessionID string) error {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	query := `DELETE FROM session_settings WHERE user_id = ? AND session_id = ?`
	if _, err := s.db.ExecContext(ctx, query, userID, sessionID); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
