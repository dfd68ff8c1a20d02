package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"botpage/internal/entities"
	"botpage/internal/interfaces"
)

type SessionRequest struct {
	Slug        string `json:"slug"`
	LeadName    string `json:"leadName"`
	LeadCity    string `json:"leadCity"`
	LeadMessage string `json:"leadMessage"`
	LeadAge     *int   `json:"leadAge,omitempty"`
}

type SessionUsecase struct {
	tenants       interfaces.TenantStore
	conversations interfaces.ConversationStore
	notifier      interfaces.LeadNotifier
	logger        *zap.Logger
}

func NewSessionUsecase(tenants interfaces.TenantStore, conversations interfaces.ConversationStore, notifier interfaces.LeadNotifier, logger *zap.Logger) *SessionUsecase {
	return &SessionUsecase{
		tenants:       tenants,
		conversations: conversations,
		notifier:      notifier,
		logger:        logger,
	}
}

func (r *SessionRequest) validate() error {
	required := []struct{ name, value string }{
		{"slug", r.Slug},
		{"leadName", r.LeadName},
		{"leadCity", r.LeadCity},
		{"leadMessage", r.LeadMessage},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", entities.ErrValidation, f.name)
		}
	}
	return nil
}

// Start records the lead and opens a chat session for it. The returned
// session id is the capability token for subsequent chat calls.
func (uc *SessionUsecase) Start(ctx context.Context, req SessionRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	tenant, err := uc.tenants.GetBySlug(ctx, req.Slug)
	if err != nil {
		return "", fmt.Errorf("resolve tenant: %w", err)
	}
	if tenant == nil {
		return "", entities.ErrNotFound
	}

	lead := &entities.Lead{
		ClientID: tenant.ID,
		Name:     req.LeadName,
		City:     req.LeadCity,
		Message:  req.LeadMessage,
		Age:      req.LeadAge,
	}
	if err := uc.conversations.CreateLead(ctx, lead); err != nil {
		return "", err
	}

	session := &entities.Session{
		SessionID: uuid.NewString(),
		ClientID:  tenant.ID,
		LeadID:    lead.ID,
	}
	if err := uc.conversations.CreateSession(ctx, session); err != nil {
		return "", err
	}

	// Lead delivery is best-effort and never blocks session creation.
	if uc.notifier != nil {
		go func(t entities.Tenant, l entities.Lead) {
			nctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := uc.notifier.NotifyLead(nctx, &t, &l); err != nil {
				uc.logger.Warn("lead notification failed", zap.String("slug", t.Slug), zap.Error(err))
			}
		}(*tenant, *lead)
	}

	uc.logger.Info("session started",
		zap.String("slug", tenant.Slug),
		zap.String("session_id", session.SessionID))

	return session.SessionID, nil
}
