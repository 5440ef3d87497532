package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexdesk/portal-service/internal/domain"
)

// SessionRepository encapsulates remote-session persistence.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.RemoteSession) error
	Update(ctx context.Context, session *domain.RemoteSession) error
	GetByID(ctx context.Context, id string) (*domain.RemoteSession, error)
	GetByCode(ctx context.Context, code string) (*domain.RemoteSession, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.RemoteSession, error)
	ListByStatus(ctx context.Context, status domain.SessionStatus) ([]domain.RemoteSession, error)
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository instantiates repository.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.RemoteSession) error {
	const query = `
        INSERT INTO remote_sessions (session_code, requester_id, target_user_id, status, purpose)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, requested_at`
	return r.pool.QueryRow(ctx, query,
		session.SessionCode,
		session.RequesterID,
		session.TargetUserID,
		session.Status,
		session.Purpose,
	).Scan(&session.ID, &session.RequestedAt)
}

func (r *sessionRepository) Update(ctx context.Context, session *domain.RemoteSession) error {
	const query = `
        UPDATE remote_sessions SET status=$1, started_at=$2, duration_minutes=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		session.Status,
		session.StartedAt,
		session.DurationMinutes,
		session.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.RemoteSession, error) {
	const query = sessionSelect + ` WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *sessionRepository) GetByCode(ctx context.Context, code string) (*domain.RemoteSession, error) {
	const query = sessionSelect + ` WHERE session_code=$1`
	return r.fetchSingle(ctx, query, code)
}

const sessionSelect = `
        SELECT id, session_code, requester_id, target_user_id, status, purpose, requested_at, started_at, duration_minutes
        FROM remote_sessions`

func (r *sessionRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.RemoteSession, error) {
	var session domain.RemoteSession
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&session.ID,
		&session.SessionCode,
		&session.RequesterID,
		&session.TargetUserID,
		&session.Status,
		&session.Purpose,
		&session.RequestedAt,
		&session.StartedAt,
		&session.DurationMinutes,
	); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListByUser returns sessions where the user is requester or target.
func (r *sessionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.RemoteSession, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = sessionSelect + `
        WHERE requester_id=$1 OR target_user_id=$1
        ORDER BY requested_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *sessionRepository) ListByStatus(ctx context.Context, status domain.SessionStatus) ([]domain.RemoteSession, error) {
	const query = sessionSelect + ` WHERE status=$1 ORDER BY requested_at ASC`
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessions(rows)
}

func scanSessions(rows pgx.Rows) ([]domain.RemoteSession, error) {
	var result []domain.RemoteSession
	for rows.Next() {
		var session domain.RemoteSession
		if err := rows.Scan(
			&session.ID,
			&session.SessionCode,
			&session.RequesterID,
			&session.TargetUserID,
			&session.Status,
			&session.Purpose,
			&session.RequestedAt,
			&session.StartedAt,
			&session.DurationMinutes,
		); err != nil {
			return nil, err
		}
		result = append(result, session)
	}
	return result, rows.Err()
}
