package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tvhoang/august-revolution/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return repo
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if u, err := repo.GetUser(ctx, "anon_missing"); err != nil || u != nil {
		t.Fatalf("GetUser(missing) = %v, %v; want nil, nil", u, err)
	}

	now := time.Now().Truncate(time.Second)
	user := &domain.User{
		UserID:     "anon_abc",
		Username:   "anon-abc",
		LastSeenAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	got, err := repo.GetUser(ctx, "anon_abc")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got == nil || got.Username != "anon-abc" {
		t.Errorf("GetUser = %+v", got)
	}

	later := now.Add(time.Hour)
	if err := repo.UpdateLastSeen(ctx, "anon_abc", later); err != nil {
		t.Fatalf("UpdateLastSeen failed: %v", err)
	}
	got, _ = repo.GetUser(ctx, "anon_abc")
	if !got.LastSeenAt.Equal(later) {
		t.Errorf("LastSeenAt = %v, want %v", got.LastSeenAt, later)
	}
}

func TestConversationAppendOrder(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	msgs, err := repo.ListMessages(ctx, "u1", "s1")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty conversation, got %d messages", len(msgs))
	}

	turns := []domain.Message{
		{Role: domain.RoleUser, Content: "câu hỏi 1"},
		{Role: domain.RoleAgent, Content: "trả lời 1"},
		{Role: domain.RoleUser, Content: "câu hỏi 2"},
	}
	for _, m := range turns {
		if err := repo.AppendMessage(ctx, "u1", "s1", m); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}
	// Another session must stay isolated.
	if err := repo.AppendMessage(ctx, "u1", "other", domain.Message{Role: domain.RoleUser, Content: "riêng"}); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	msgs, err = repo.ListMessages(ctx, "u1", "s1")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != len(turns) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(turns))
	}
	for i, m := range msgs {
		if m.Role != turns[i].Role || m.Content != turns[i].Content {
			t.Errorf("message %d = %+v, want %+v", i, m, turns[i])
		}
	}

	if err := repo.ClearConversation(ctx, "u1", "s1"); err != nil {
		t.Fatalf("ClearConversation failed: %v", err)
	}
	msgs, _ = repo.ListMessages(ctx, "u1", "s1")
	if len(msgs) != 0 {
		t.Errorf("conversation not cleared: %d messages remain", len(msgs))
	}
	other, _ := repo.ListMessages(ctx, "u1", "other")
	if len(other) != 1 {
		t.Errorf("clearing one session touched another: %d messages", len(other))
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if s, err := repo.GetSettings(ctx, "u1", "s1"); err != nil || s != nil {
		t.Fatalf("GetSettings(missing) = %v, %v; want nil, nil", s, err)
	}

	settings := &domain.Settings{
		UserID:     "u1",
		SessionID:  "s1",
		APIKey:     "user-key",
		Model:      "gemini-2.5-flash",
		APIVersion: "v1beta",
	}
	if err := repo.UpsertSettings(ctx, settings); err != nil {
		t.Fatalf("UpsertSettings failed: %v", err)
	}

	got, err := repo.GetSettings(ctx, "u1", "s1")
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.APIKey != "user-key" || got.Model != "gemini-2.5-flash" || got.APIVersion != "v1beta" {
		t.Errorf("GetSettings = %+v", got)
	}

	// Whole-row replace: clearing a field persists as cleared.
	settings.APIKey = ""
	settings.Model = "gemini-2.0-pro"
	if err := repo.UpsertSettings(ctx, settings); err != nil {
		t.Fatalf("UpsertSettings (replace) failed: %v", err)
	}
	got, _ = repo.GetSettings(ctx, "u1", "s1")
	if got.APIKey != "" || got.Model != "gemini-2.0-pro" {
		t.Errorf("replace not last-writer-wins: %+v", got)
	}

	if err := repo.DeleteSettings(ctx, "u1", "s1"); err != nil {
		t.Fatalf("DeleteSettings failed: %v", err)
	}
	if s, _ := repo.GetSettings(ctx, "u1", "s1"); s != nil {
		t.Errorf("settings not deleted: %+v", s)
	}
}
