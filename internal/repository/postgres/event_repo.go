package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cheerup/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (name, description, creator_id, capacity, is_active, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		event.Name, event.Description, event.CreatorID, event.Capacity, event.IsActive,
		event.StartTime, event.EndTime, event.CreatedAt, event.UpdatedAt).
		Scan(&event.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, name, description, creator_id, capacity, is_active, start_time, end_time, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	event := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&event.ID, &event.Name, &event.Description, &event.CreatorID, &event.Capacity,
		&event.IsActive, &event.StartTime, &event.EndTime, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	query := `
		SELECT id, name, description, creator_id, capacity, is_active, start_time, end_time, created_at, updated_at
		FROM events
		WHERE is_active = TRUE AND end_time > $1
		ORDER BY start_time DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) ListByCreatorID(ctx context.Context, creatorID string) ([]*domain.Event, error) {
	query := `
		SELECT id, name, description, creator_id, capacity, is_active, start_time, end_time, created_at, updated_at
		FROM events
		WHERE creator_id = $1 AND is_active = TRUE
		ORDER BY start_time DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*domain.Event, error) {
	var events []*domain.Event
	for rows.Next() {
		event := &domain.Event{}
		if err := rows.Scan(
			&event.ID, &event.Name, &event.Description, &event.CreatorID, &event.Capacity,
			&event.IsActive, &event.StartTime, &event.EndTime, &event.CreatedAt, &event.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// Update writes the mutable event fields. The capacity check against the
// approved participant count runs under the event row lock, in the same
// transaction as the write, so a concurrent approval cannot slip a count
// past the shrinking capacity.
func (r *eventRepository) Update(ctx context.Context, event *domain.Event) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update transaction: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRowContext(ctx, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, event.ID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var approved int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_joins WHERE event_id = $1 AND status = $2`,
		event.ID, domain.StatusApproved).Scan(&approved)
	if err != nil {
		return fmt.Errorf("count approved joins: %w", err)
	}
	if event.Capacity < approved {
		return domain.ErrCapacityBelowApproved
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE events
		SET name = $2, description = $3, capacity = $4, start_time = $5, end_time = $6, updated_at = $7
		WHERE id = $1
	`, event.ID, event.Name, event.Description, event.Capacity, event.StartTime, event.EndTime, event.UpdatedAt)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE events SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ApprovedCount(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_joins WHERE event_id = $1 AND status = $2`,
		eventID, domain.StatusApproved).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
