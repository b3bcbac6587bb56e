package repository

import (
	"context"
	"database/sql"
	"time"
)

// Scan log actions and outcomes.
const (
	ScanActionVerify = "verify"
	ScanActionAttend = "attend"

	ScanOutcomeSuccess    = "success"
	ScanOutcomeError      = "error"
	ScanOutcomeReconciled = "reconciled"
)

// ScanLog is one verify or mark-attended attempt made by a scanner.
//
// Fields:
//  SessionID   – scan session that made the attempt.
//  EventID     – event selected in the session.
//  StaffID     – staff member operating the scanner.
//  Action      – verify or attend.
//  Outcome     – success, error or reconciled.
//  TicketID    – ticket marked (attend only).
//  TicketCount – tickets returned (verify only).
//  Message     – user-facing message of failed attempts.
type ScanLog struct {
	ID          uint64    `json:"id"`
	SessionID   string    `json:"sessionId"`
	EventID     string    `json:"eventId"`
	StaffID     string    `json:"staffId"`
	Action      string    `json:"action"`
	Outcome     string    `json:"outcome"`
	TicketID    string    `json:"ticketId,omitempty"`
	TicketCount int       `json:"ticketCount"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ScanLogRepo appends and lists scan attempts.
type ScanLogRepo struct {
	db *sql.DB
}

// NewScanLogRepo constructs a ScanLogRepo with the given DB handle.
func NewScanLogRepo(db *sql.DB) *ScanLogRepo {
	return &ScanLogRepo{db: db}
}

// Record appends an attempt.  CreatedAt defaults to now.
func (r *ScanLogRepo) Record(ctx context.Context, l ScanLog) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	const q = `INSERT INTO scan_logs (session_id, event_id, staff_id, action, outcome, ticket_id, ticket_count, message, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, l.SessionID, l.EventID, l.StaffID, l.Action, l.Outcome,
		l.TicketID, l.TicketCount, l.Message, l.CreatedAt)
	return err
}

// ListByEvent returns the latest attempts for an event, newest first.
func (r *ScanLogRepo) ListByEvent(ctx context.Context, eventID string, limit int) ([]ScanLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `SELECT id, session_id, event_id, staff_id, action, outcome, ticket_id, ticket_count, message, created_at
               FROM scan_logs
               WHERE event_id = ?
               ORDER BY created_at DESC, id DESC
               LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, eventID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ScanLog{}
	for rows.Next() {
		var l ScanLog
		if err := rows.Scan(&l.ID, &l.SessionID, &l.EventID, &l.StaffID, &l.Action, &l.Outcome,
			&l.TicketID, &l.TicketCount, &l.Message, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
