package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"botpage/internal/entities"
)

const tenantColumns = `id, user_id, slug, business_name, seller_whatsapp,
	COALESCE(what_sell, ''), COALESCE(target_audience, ''), COALESCE(faq, ''),
	COALESCE(triage_rules, ''), COALESCE(color, ''), COALESCE(logo_url, ''),
	COALESCE(ai_provider, ''), ai_key_encrypted, status, created_at`

type TenantRepository struct {
	db *pgxpool.Pool
}

func NewTenantRepository(db *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{db: db}
}

func scanTenant(row pgx.Row) (*entities.Tenant, error) {
	var t entities.Tenant
	err := row.Scan(&t.ID, &t.UserID, &t.Slug, &t.BusinessName, &t.SellerWhatsapp,
		&t.WhatSell, &t.TargetAudience, &t.FAQ, &t.TriageRules, &t.Color, &t.LogoURL,
		&t.AIProvider, &t.AIKeyEncrypted, &t.Status, &t.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetBySlug resolves an active tenant. Inactive and unknown slugs are both
// (nil, nil) so public handlers cannot leak tenant existence.
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*entities.Tenant, error) {
	return scanTenant(r.db.QueryRow(ctx,
		"SELECT "+tenantColumns+" FROM clients WHERE slug = $1 AND status = 'active'",
		slug))
}

func (r *TenantRepository) GetByID(ctx context.Context, id int64) (*entities.Tenant, error) {
	return scanTenant(r.db.QueryRow(ctx,
		"SELECT "+tenantColumns+" FROM clients WHERE id = $1",
		id))
}

func (r *TenantRepository) ListByOwner(ctx context.Context, userID int64) ([]entities.Tenant, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+tenantColumns+" FROM clients WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []entities.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, *t)
	}
	return tenants, rows.Err()
}
