package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/event-entry/internal/model"
)

// ShowDraftRepo stores the show list an organizer is editing before it is
// submitted to the platform.  A draft is keyed by the event id for edits
// or by a client-chosen key for events not created yet.
type ShowDraftRepo struct {
	db *sql.DB
}

// NewShowDraftRepo constructs a ShowDraftRepo with the given DB handle.
func NewShowDraftRepo(db *sql.DB) *ShowDraftRepo {
	return &ShowDraftRepo{db: db}
}

// List returns the shows of a draft in their stored order.  A draft whose
// last show was removed still exists and yields an empty list; an unknown
// key yields ErrDraftNotFound.
func (r *ShowDraftRepo) List(ctx context.Context, draftKey string) ([]model.Show, error) {
	const q = `SELECT show_id, show_date, start_time, end_time
               FROM show_drafts
               WHERE draft_key = ?
               ORDER BY position ASC`
	rows, err := r.db.QueryContext(ctx, q, draftKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var shows []model.Show
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ShowID, &s.Date, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(shows) > 0 {
		return shows, nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM show_draft_heads WHERE draft_key = ?`, draftKey).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	return []model.Show{}, nil
}

// Replace swaps the stored shows of a draft for the given list inside one
// transaction.  The draft head is kept even for an empty list, so a draft
// emptied by the organizer stays empty.
func (r *ShowDraftRepo) Replace(ctx context.Context, draftKey, userID string, shows []model.Show) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const head = `INSERT INTO show_draft_heads (draft_key, updated_by) VALUES (?, ?)
                  ON DUPLICATE KEY UPDATE updated_by = VALUES(updated_by)`
	if _, err := tx.ExecContext(ctx, head, draftKey, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM show_drafts WHERE draft_key = ?`, draftKey); err != nil {
		return err
	}
	const ins = `INSERT INTO show_drafts (draft_key, show_id, show_date, start_time, end_time, position, updated_by)
                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	for i, s := range shows {
		if _, err := tx.ExecContext(ctx, ins, draftKey, s.ShowID, s.Date, s.StartTime, s.EndTime, i, userID); err != nil {
			var myErr *mysql.MySQLError
			if errors.As(err, &myErr) && myErr.Number == 1062 {
				return fmt.Errorf("show %s: %w", s.ShowID, ErrConflict)
			}
			return err
		}
	}
	return tx.Commit()
}

// Delete drops a draft, typically after it was submitted.
func (r *ShowDraftRepo) Delete(ctx context.Context, draftKey string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM show_drafts WHERE draft_key = ?`, draftKey); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM show_draft_heads WHERE draft_key = ?`, draftKey); err != nil {
		return err
	}
	return tx.Commit()
}
