package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cheerup/internal/domain"
)

type friendRequestRepository struct {
	DB *sql.DB
}

func NewFriendRequestRepository(db *sql.DB) domain.FriendRequestRepository {
	return &friendRequestRepository{DB: db}
}

func (r *friendRequestRepository) Create(ctx context.Context, req *domain.FriendRequest) error {
	query := `
		INSERT INTO friend_requests (requester_id, receiver_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		req.RequesterID, req.ReceiverID, req.Status, req.CreatedAt, req.UpdatedAt).
		Scan(&req.ID)
}

func (r *friendRequestRepository) GetByUsers(ctx context.Context, requesterID, receiverID string) (*domain.FriendRequest, error) {
	query := `
		SELECT id, requester_id, receiver_id, status, created_at, updated_at
		FROM friend_requests
		WHERE requester_id = $1 AND receiver_id = $2
	`
	req := &domain.FriendRequest{}
	err := r.DB.QueryRowContext(ctx, query, requesterID, receiverID).Scan(
		&req.ID, &req.RequesterID, &req.ReceiverID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *friendRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.JoinStatus) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE friend_requests SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
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

func (r *friendRequestRepository) ListByReceiverAndStatus(ctx context.Context, receiverID string, status domain.JoinStatus) ([]*domain.FriendRequest, error) {
	query := `
		SELECT id, requester_id, receiver_id, status, created_at, updated_at
		FROM friend_requests
		WHERE receiver_id = $1 AND status = $2
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, receiverID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*domain.FriendRequest
	for rows.Next() {
		req := &domain.FriendRequest{}
		if err := rows.Scan(&req.ID, &req.RequesterID, &req.ReceiverID, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []*domain.FriendRequest{}
	}
	return reqs, nil
}

// SyncPair applies from→to on the requester→receiver row and mirrors the
// terminal status onto the receiver→requester row in the same transaction.
// Both directed rows are locked through one ORDER BY ... FOR UPDATE query,
// so two transactions racing over the same pair always acquire the locks in
// the same order and cannot deadlock.
func (r *friendRequestRepository) SyncPair(ctx context.Context, requesterID, receiverID string, from, to domain.JoinStatus) (_ *domain.FriendRequest, _ bool, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin sync transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, requester_id, receiver_id, status, created_at, updated_at
		FROM friend_requests
		WHERE (requester_id = $1 AND receiver_id = $2)
		   OR (requester_id = $2 AND receiver_id = $1)
		ORDER BY requester_id, receiver_id
		FOR UPDATE
	`, requesterID, receiverID)
	if err != nil {
		return nil, false, err
	}

	var primary, counterpart *domain.FriendRequest
	for rows.Next() {
		req := &domain.FriendRequest{}
		if err := rows.Scan(&req.ID, &req.RequesterID, &req.ReceiverID, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
			rows.Close()
			return nil, false, err
		}
		if req.RequesterID == requesterID {
			primary = req
		} else {
			counterpart = req
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, false, err
	}
	rows.Close()

	if primary == nil {
		return nil, false, domain.ErrNotFound
	}
	if primary.Status != from {
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return primary, false, nil
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE friend_requests SET status = $2, updated_at = $3 WHERE id = $1`, primary.ID, to, now)
	if err != nil {
		return nil, false, err
	}

	if counterpart == nil {
		// The counterpart never toggled; create its row directly in the
		// mirrored status.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO friend_requests (requester_id, receiver_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, receiverID, requesterID, to, now, now)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE friend_requests SET status = $2, updated_at = $3 WHERE id = $1`, counterpart.ID, to, now)
	}
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	primary.Status = to
	primary.UpdatedAt = now
	return primary, true, nil
}
