package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nexdesk/portal-service/internal/domain"
)

// TimingEventRepository stores append-only session timing events.
// There is deliberately no Update or Delete.
type TimingEventRepository interface {
	Append(ctx context.Context, event *domain.TimingEvent) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.TimingEvent, error)
}

type timingEventRepository struct {
	pool *pgxpool.Pool
}

// NewTimingEventRepository builds repository.
func NewTimingEventRepository(pool *pgxpool.Pool) TimingEventRepository {
	return &timingEventRepository{pool: pool}
}

func (r *timingEventRepository) Append(ctx context.Context, event *domain.TimingEvent) error {
	const query = `
        INSERT INTO session_timing_events (session_id, event_type, event_timestamp, response_time_seconds, notes)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		event.SessionID,
		event.EventType,
		event.EventTimestamp,
		event.ResponseTimeSeconds,
		event.Notes,
	).Scan(&event.ID)
}

// ListBySession returns events newest first, matching the tracker's fetch order.
func (r *timingEventRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.TimingEvent, error) {
	const query = `
        SELECT id, session_id, event_type, event_timestamp, response_time_seconds, notes
        FROM session_timing_events WHERE session_id=$1 ORDER BY event_timestamp DESC`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TimingEvent
	for rows.Next() {
		var event domain.TimingEvent
		if err := rows.Scan(
			&event.ID,
			&event.SessionID,
			&event.EventType,
			&event.EventTimestamp,
			&event.ResponseTimeSeconds,
			&event.Notes,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}
