package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"botpage/internal/entities"
)

type ConversationRepository struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) CreateLead(ctx context.Context, lead *entities.Lead) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO leads (client_id, name, city, message, age)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		lead.ClientID, lead.Name, lead.City, lead.Message, lead.Age,
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *ConversationRepository) CreateSession(ctx context.Context, session *entities.Session) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO sessions (session_id, client_id, lead_id)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		session.SessionID, session.ClientID, session.LeadID,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession resolves a session token scoped to a tenant id. A token minted
// for another tenant resolves to (nil, nil).
func (r *ConversationRepository) GetSession(ctx context.Context, sessionID string, clientID int64) (*entities.Session, error) {
	var s entities.Session
	err := r.db.QueryRow(ctx,
		`SELECT id, session_id, client_id, lead_id, created_at
		 FROM sessions WHERE session_id = $1 AND client_id = $2`,
		sessionID, clientID,
	).Scan(&s.ID, &s.SessionID, &s.ClientID, &s.LeadID, &s.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ConversationRepository) GetSessionByToken(ctx context.Context, sessionID string) (*entities.Session, error) {
	var s entities.Session
	err := r.db.QueryRow(ctx,
		`SELECT id, session_id, client_id, lead_id, created_at
		 FROM sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&s.ID, &s.SessionID, &s.ClientID, &s.LeadID, &s.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListMessages returns the most recent limit messages of a session in
// chronological order. limit <= 0 loads the full transcript.
func (r *ConversationRepository) ListMessages(ctx context.Context, sessionID string, limit int) ([]entities.Message, error) {
	query := `SELECT id, session_id, role, content, created_at
		 FROM messages WHERE session_id = $1 ORDER BY created_at ASC, id ASC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query = `SELECT id, session_id, role, content, created_at FROM (
			SELECT id, session_id, role, content, created_at
			FROM messages WHERE session_id = $1
			ORDER BY created_at DESC, id DESC LIMIT $2
		) recent ORDER BY created_at ASC, id ASC`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []entities.Message
	for rows.Next() {
		var m entities.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// AppendMessages inserts transcript rows in order within one transaction.
func (r *ConversationRepository) AppendMessages(ctx context.Context, messages []entities.Message) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, m := range messages {
		if _, err := tx.Exec(ctx,
			"INSERT INTO messages (session_id, role, content) VALUES ($1, $2, $3)",
			m.SessionID, m.Role, m.Content); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *ConversationRepository) ListLeads(ctx context.Context, clientID int64) ([]entities.Lead, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, client_id, name, city, message, age, created_at
		 FROM leads WHERE client_id = $1 ORDER BY created_at DESC`,
		clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []entities.Lead
	for rows.Next() {
		var l entities.Lead
		if err := rows.Scan(&l.ID, &l.ClientID, &l.Name, &l.City, &l.Message, &l.Age, &l.CreatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *ConversationRepository) ListSessions(ctx context.Context, clientID int64) ([]entities.Session, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.id, s.session_id, s.client_id, s.lead_id, l.name, s.created_at
		 FROM sessions s JOIN leads l ON l.id = s.lead_id
		 WHERE s.client_id = $1 ORDER BY s.created_at DESC`,
		clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []entities.Session
	for rows.Next() {
		var s entities.Session
		if err := rows.Scan(&s.ID, &s.SessionID, &s.ClientID, &s.LeadID, &s.LeadName, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
