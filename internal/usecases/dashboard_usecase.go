package usecases

import (
	"context"
	"fmt"

	"botpage/internal/entities"
	"botpage/internal/interfaces"
)

// DashboardUsecase serves the authenticated owner views. Every lookup is
// scoped to the caller's user id; anything the caller does not own resolves
// to ErrNotFound, same as a missing record.
type DashboardUsecase struct {
	tenants       interfaces.TenantStore
	conversations interfaces.ConversationStore
}

func NewDashboardUsecase(tenants interfaces.TenantStore, conversations interfaces.ConversationStore) *DashboardUsecase {
	return &DashboardUsecase{
		tenants:       tenants,
		conversations: conversations,
	}
}

func (uc *DashboardUsecase) ListTenants(ctx context.Context, userID int64) ([]entities.Tenant, error) {
	return uc.tenants.ListByOwner(ctx, userID)
}

func (uc *DashboardUsecase) ownedTenant(ctx context.Context, userID int64, slug string) (*entities.Tenant, error) {
	tenant, err := uc.tenants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant: %w", err)
	}
	if tenant == nil || tenant.UserID != userID {
		return nil, entities.ErrNotFound
	}
	return tenant, nil
}

func (uc *DashboardUsecase) ListLeads(ctx context.Context, userID int64, slug string) ([]entities.Lead, error) {
	tenant, err := uc.ownedTenant(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	return uc.conversations.ListLeads(ctx, tenant.ID)
}

func (uc *DashboardUsecase) ListSessions(ctx context.Context, userID int64, slug string) ([]entities.Session, error) {
	tenant, err := uc.ownedTenant(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	return uc.conversations.ListSessions(ctx, tenant.ID)
}

// Transcript returns the full ordered message history of a session the
// caller owns.
func (uc *DashboardUsecase) Transcript(ctx context.Context, userID int64, sessionID string) ([]entities.Message, error) {
	session, err := uc.conversations.GetSessionByToken(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if session == nil {
		return nil, entities.ErrNotFound
	}

	tenant, err := uc.tenants.GetByID(ctx, session.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant: %w", err)
	}
	if tenant == nil || tenant.UserID != userID {
		return nil, entities.ErrNotFound
	}

	return uc.conversations.ListMessages(ctx, sessionID, 0)
}
