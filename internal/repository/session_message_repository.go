package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexdesk/portal-service/internal/domain"
)

// SessionMessageRepository stores chat messages exchanged during a session.
type SessionMessageRepository interface {
	Append(ctx context.Context, message *domain.SessionMessage) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.SessionMessage, error)
}

type sessionMessageRepository struct {
	pool *pgxpool.Pool
}

// NewSessionMessageRepository builds repository.
func NewSessionMessageRepository(pool *pgxpool.Pool) SessionMessageRepository {
	return &sessionMessageRepository{pool: pool}
}

func (r *sessionMessageRepository) Append(ctx context.Context, message *domain.SessionMessage) error {
	const query = `
        INSERT INTO session_messages (session_id, sender_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		message.SessionID,
		message.SenderID,
		message.Body,
	).Scan(&message.ID, &message.CreatedAt)
}

// ListBySession returns messages oldest first, chat order.
func (r *sessionMessageRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.SessionMessage, error) {
	const query = `
        SELECT id, session_id, sender_id, body, created_at
        FROM session_messages WHERE session_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SessionMessage
	for rows.Next() {
		var message domain.SessionMessage
		if err := rows.Scan(
			&message.ID,
			&message.SessionID,
			&message.SenderID,
			&message.Body,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, message)
	}
	return result, rows.Err()
}
