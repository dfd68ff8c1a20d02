package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}

	// Auto-migrate schema
	if err := client.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (p *PostgresClient) Migrate() error {
	ctx := context.Background()

	// Owner accounts created at onboarding
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			whatsapp VARCHAR(32) NOT NULL,
			segment VARCHAR(64),
			password_hash VARCHAR(255) DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	// Tenants. Slug carries the uniqueness guarantee; onboarding retries
	// with a fresh suffix on conflict.
	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS clients (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			slug VARCHAR(64) UNIQUE NOT NULL,
			business_name VARCHAR(255) NOT NULL,
			seller_whatsapp VARCHAR(32) NOT NULL,
			what_sell TEXT,
			target_audience TEXT,
			faq TEXT,
			triage_rules TEXT,
			color VARCHAR(16),
			logo_url TEXT,
			ai_provider VARCHAR(16) DEFAULT '',
			ai_key_encrypted TEXT NOT NULL,
			status VARCHAR(16) DEFAULT 'active',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create clients table: %w", err)
	}

	// Migration for rows created before provider routing was stored
	p.Pool.Exec(ctx, "ALTER TABLE clients ADD COLUMN IF NOT EXISTS ai_provider VARCHAR(16) DEFAULT '';")

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS pages (
			id BIGSERIAL PRIMARY KEY,
			client_id BIGINT NOT NULL REFERENCES clients(id),
			slug VARCHAR(64) NOT NULL,
			status VARCHAR(16) DEFAULT 'published',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create pages table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS leads (
			id BIGSERIAL PRIMARY KEY,
			client_id BIGINT NOT NULL REFERENCES clients(id),
			name VARCHAR(255) NOT NULL,
			city VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			age INT,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create leads table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id BIGSERIAL PRIMARY KEY,
			session_id VARCHAR(64) UNIQUE NOT NULL,
			client_id BIGINT NOT NULL REFERENCES clients(id),
			lead_id BIGINT NOT NULL REFERENCES leads(id),
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			session_id VARCHAR(64) NOT NULL REFERENCES sessions(session_id),
			role VARCHAR(8) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_messages_session ON messages (session_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}

	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
