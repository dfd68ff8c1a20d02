package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"botpage/internal/entities"
)

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateAccount inserts the owner user, the tenant row and its page record
// in one transaction, so a failed step never leaves an orphaned user.
// Returns entities.ErrSlugTaken on a slug collision so the caller can retry
// with a fresh suffix.
func (r *AccountRepository) CreateAccount(ctx context.Context, user *entities.User, tenant *entities.Tenant) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (name, email, whatsapp, segment, password_hash)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		user.Name, user.Email, user.Whatsapp, user.Segment, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	tenant.UserID = user.ID
	err = tx.QueryRow(ctx,
		`INSERT INTO clients (user_id, slug, business_name, seller_whatsapp, what_sell,
		   target_audience, faq, triage_rules, color, logo_url, ai_provider, ai_key_encrypted, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at`,
		tenant.UserID, tenant.Slug, tenant.BusinessName, tenant.SellerWhatsapp, tenant.WhatSell,
		tenant.TargetAudience, tenant.FAQ, tenant.TriageRules, tenant.Color, tenant.LogoURL,
		tenant.AIProvider, tenant.AIKeyEncrypted, tenant.Status,
	).Scan(&tenant.ID, &tenant.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entities.ErrSlugTaken
		}
		return fmt.Errorf("insert client: %w", err)
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO pages (client_id, slug, status) VALUES ($1, $2, 'published')",
		tenant.ID, tenant.Slug)
	if err != nil {
		return fmt.Errorf("insert page: %w", err)
	}

	return tx.Commit(ctx)
}

// GetOwnerByEmail returns the most recent user for an email that has a
// dashboard password set. Emails are not unique across onboarding calls.
func (r *AccountRepository) GetOwnerByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, whatsapp, COALESCE(segment, ''), password_hash, created_at
		 FROM users WHERE email = $1 AND password_hash <> ''
		 ORDER BY created_at DESC LIMIT 1`,
		email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Whatsapp, &user.Segment, &user.PasswordHash, &user.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
