package domain

// Role represents the sender of a conversation turn
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Turn is one entry in a session's conversation log
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// SessionStore defines the interface for bounded per-session history.
// Sessions are created lazily on first access; implementations must be
// safe for concurrent use across distinct session ids.
type SessionStore interface {
	Append(sessionID string, role Role, text string)
	History(sessionID string) []Turn
	Clear(sessionID string)
}
