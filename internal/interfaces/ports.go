package interfaces

import (
	"context"

	"botpage/internal/entities"
)

// AIProvider generates a bot reply from a transcript. The tenant's FAQ and
// triage rules are injected as system context on every call.
type AIProvider interface {
	Reply(ctx context.Context, apiKey string, history []entities.Message, faq, triageRules string) (string, error)
}

// LeadNotifier pushes a freshly captured lead to an external channel.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, tenant *entities.Tenant, lead *entities.Lead) error
}

// LogoStore uploads a logo asset and returns its public URL.
type LogoStore interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// AccountStore persists onboarding output: the owner user, the tenant row
// and its page record, atomically.
type AccountStore interface {
	CreateAccount(ctx context.Context, user *entities.User, tenant *entities.Tenant) error
	GetOwnerByEmail(ctx context.Context, email string) (*entities.User, error)
}

// TenantStore resolves tenants. Lookups return (nil, nil) when nothing
// matches; callers decide whether that is an error.
type TenantStore interface {
	GetBySlug(ctx context.Context, slug string) (*entities.Tenant, error)
	GetByID(ctx context.Context, id int64) (*entities.Tenant, error)
	ListByOwner(ctx context.Context, userID int64) ([]entities.Tenant, error)
}

// ConversationStore persists leads, sessions and transcripts.
type ConversationStore interface {
	CreateLead(ctx context.Context, lead *entities.Lead) error
	CreateSession(ctx context.Context, session *entities.Session) error
	// GetSession resolves a session token scoped to a tenant, so a token
	// minted for one tenant cannot be replayed against another.
	GetSession(ctx context.Context, sessionID string, clientID int64) (*entities.Session, error)
	GetSessionByToken(ctx context.Context, sessionID string) (*entities.Session, error)
	// ListMessages returns the most recent limit messages in chronological
	// order. limit <= 0 means the full transcript.
	ListMessages(ctx context.Context, sessionID string, limit int) ([]entities.Message, error)
	AppendMessages(ctx context.Context, messages []entities.Message) error
	ListLeads(ctx context.Context, clientID int64) ([]entities.Lead, error)
	ListSessions(ctx context.Context, clientID int64) ([]entities.Session, error)
}
