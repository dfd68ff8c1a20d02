package entities

import "time"

// Message roles in a chat transcript.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

type Lead struct {
	ID        int64     `json:"id"`
	ClientID  int64     `json:"client_id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Message   string    `json:"message"`
	Age       *int      `json:"age,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session links a conversation to a tenant and a lead. SessionID is the
// opaque token callers must present on every chat call.
type Session struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	ClientID  int64     `json:"client_id"`
	LeadID    int64     `json:"lead_id"`
	LeadName  string    `json:"lead_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
