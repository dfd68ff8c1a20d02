package usecases

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"botpage/internal/entities"
	"botpage/internal/infrastructure"
	"botpage/internal/interfaces"
)

type ChatRequest struct {
	Slug      string `json:"slug"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type ChatUsecase struct {
	tenants       interfaces.TenantStore
	conversations interfaces.ConversationStore
	cipher        *infrastructure.KeyCipher
	providers     map[string]interfaces.AIProvider
	historyLimit  int
	logger        *zap.Logger
}

// NewChatUsecase wires the chat pipeline. historyLimit caps how many
// transcript messages are replayed to the provider per call; the stored
// transcript itself remains append-only and unbounded.
func NewChatUsecase(tenants interfaces.TenantStore, conversations interfaces.ConversationStore, cipher *infrastructure.KeyCipher, providers map[string]interfaces.AIProvider, historyLimit int, logger *zap.Logger) *ChatUsecase {
	return &ChatUsecase{
		tenants:       tenants,
		conversations: conversations,
		cipher:        cipher,
		providers:     providers,
		historyLimit:  historyLimit,
		logger:        logger,
	}
}

func (r *ChatRequest) validate() error {
	required := []struct{ name, value string }{
		{"slug", r.Slug},
		{"sessionId", r.SessionID},
		{"message", r.Message},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", entities.ErrValidation, f.name)
		}
	}
	return nil
}

// Reply appends the user turn to the session transcript, forwards it to the
// tenant's provider and returns the bot reply. Transcript persistence is
// best-effort: once the reply is computed it is returned even if the store
// write fails.
func (uc *ChatUsecase) Reply(ctx context.Context, req ChatRequest) (string, error) {
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

	// Session lookup is scoped to the tenant so a token minted for tenant A
	// cannot be replayed against tenant B.
	session, err := uc.conversations.GetSession(ctx, req.SessionID, tenant.ID)
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}
	if session == nil {
		return "", entities.ErrNotFound
	}

	history, err := uc.conversations.ListMessages(ctx, session.SessionID, uc.historyLimit)
	if err != nil {
		return "", fmt.Errorf("load transcript: %w", err)
	}
	history = append(history, entities.Message{
		SessionID: session.SessionID,
		Role:      entities.RoleUser,
		Content:   req.Message,
	})

	apiKey, err := uc.cipher.Decrypt(tenant.AIKeyEncrypted)
	if err != nil {
		return "", fmt.Errorf("decrypt ai key: %w", err)
	}

	providerName := tenant.Provider(apiKey)
	provider, ok := uc.providers[providerName]
	if !ok {
		return "", fmt.Errorf("no provider registered for %q", providerName)
	}

	reply, err := provider.Reply(ctx, apiKey, history, tenant.FAQ, tenant.TriageRules)
	if err != nil {
		return "", fmt.Errorf("provider call: %w", err)
	}

	if err := uc.conversations.AppendMessages(ctx, []entities.Message{
		{SessionID: session.SessionID, Role: entities.RoleUser, Content: req.Message},
		{SessionID: session.SessionID, Role: entities.RoleBot, Content: reply},
	}); err != nil {
		// The reply is already computed; losing the transcript write is the
		// documented at-least-once tradeoff.
		uc.logger.Error("transcript persistence failed",
			zap.String("session_id", session.SessionID), zap.Error(err))
	}

	return reply, nil
}
