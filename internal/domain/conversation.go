package domain

import "time"

// Message roles. The assistant only ever appends these two.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Message is a single conversation turn. Conversations are append-only
// within a session; ordering follows query-cycle completion order.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// User is an anonymous per-device visitor identified by a browser cookie.
type User struct {
	UserID     string
	Username   string
	LastSeenAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
