package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cheerup/internal/domain"
)

type eventJoinRepository struct {
	DB *sql.DB
}

func NewEventJoinRepository(db *sql.DB) domain.EventJoinRepository {
	return &eventJoinRepository{DB: db}
}

// Create inserts the (event, user) row. When a concurrent request already
// inserted it, nothing is written and ErrAlreadyExists is returned so the
// caller can toggle the existing row instead.
func (r *eventJoinRepository) Create(ctx context.Context, join *domain.EventJoin) error {
	query := `
		INSERT INTO event_joins (event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, user_id) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		join.EventID, join.UserID, join.Status, join.CreatedAt, join.UpdatedAt).
		Scan(&join.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *eventJoinRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventJoin, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM event_joins
		WHERE event_id = $1 AND user_id = $2
	`
	join := &domain.EventJoin{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(
		&join.ID, &join.EventID, &join.UserID, &join.Status, &join.CreatedAt, &join.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return join, nil
}

func (r *eventJoinRepository) UpdateStatus(ctx context.Context, id string, status domain.JoinStatus) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE event_joins SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
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

func (r *eventJoinRepository) ListByEventAndStatus(ctx context.Context, eventID string, status domain.JoinStatus) ([]*domain.EventJoin, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM event_joins
		WHERE event_id = $1 AND status = $2
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJoins(rows)
}

func (r *eventJoinRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EventJoin, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM event_joins
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJoins(rows)
}

func scanJoins(rows *sql.Rows) ([]*domain.EventJoin, error) {
	var joins []*domain.EventJoin
	for rows.Next() {
		join := &domain.EventJoin{}
		if err := rows.Scan(&join.ID, &join.EventID, &join.UserID, &join.Status, &join.CreatedAt, &join.UpdatedAt); err != nil {
			return nil, err
		}
		joins = append(joins, join)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if joins == nil {
		joins = []*domain.EventJoin{}
	}
	return joins, nil
}

// TryApprove is the single atomic check-then-set for admission. The event
// row lock serializes every approval for the same event, so the approved
// count read here always reflects all previously committed approvals and at
// most one concurrent approval can take the last slot.
//
// The boundary is approvedCount+1 > capacity: the event fills to exactly
// its capacity.
func (r *eventJoinRepository) TryApprove(ctx context.Context, eventID, userID string) (_ *domain.ApprovalResult, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin approve transaction: %w", err)
	}
	defer tx.Rollback()

	var capacity int
	var isActive bool
	err = tx.QueryRowContext(ctx,
		`SELECT capacity, is_active FROM events WHERE id = $1 FOR UPDATE`, eventID).
		Scan(&capacity, &isActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !isActive {
		return nil, domain.ErrEventUnavailable
	}

	join := &domain.EventJoin{}
	err = tx.QueryRowContext(ctx, `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM event_joins
		WHERE event_id = $1 AND user_id = $2
	`, eventID, userID).Scan(
		&join.ID, &join.EventID, &join.UserID, &join.Status, &join.CreatedAt, &join.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var approved int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_joins WHERE event_id = $1 AND status = $2`,
		eventID, domain.StatusApproved).Scan(&approved)
	if err != nil {
		return nil, fmt.Errorf("count approved joins: %w", err)
	}

	if join.Status != domain.StatusPending {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return &domain.ApprovalResult{Outcome: domain.OutcomeUnchanged, Join: join, ApprovedCount: approved}, nil
	}
	if approved+1 > capacity {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return &domain.ApprovalResult{Outcome: domain.OutcomeCapacityReached, Join: join, ApprovedCount: approved}, nil
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE event_joins SET status = $2, updated_at = $3 WHERE id = $1`,
		join.ID, domain.StatusApproved, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	join.Status = domain.StatusApproved
	join.UpdatedAt = now
	return &domain.ApprovalResult{Outcome: domain.OutcomeApproved, Join: join, ApprovedCount: approved + 1}, nil
}

// Transition commits from→to on the (event, user) row while holding its row
// lock. Any other current status leaves the row untouched.
func (r *eventJoinRepository) Transition(ctx context.Context, eventID, userID string, from, to domain.JoinStatus) (_ *domain.EventJoin, _ bool, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin transition transaction: %w", err)
	}
	defer tx.Rollback()

	join := &domain.EventJoin{}
	err = tx.QueryRowContext(ctx, `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM event_joins
		WHERE event_id = $1 AND user_id = $2
		FOR UPDATE
	`, eventID, userID).Scan(
		&join.ID, &join.EventID, &join.UserID, &join.Status, &join.CreatedAt, &join.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, err
	}

	if join.Status != from {
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return join, false, nil
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE event_joins SET status = $2, updated_at = $3 WHERE id = $1`, join.ID, to, now)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	join.Status = to
	join.UpdatedAt = now
	return join, true, nil
}
