package repository

import (
	"context"
	"database/sql"
	"time"
)

// Attendance is a ledger row: one admitted ticket for one event.
type Attendance struct {
	TicketID   string
	EventID    string
	StaffID    string
	HeadCount  int
	AttendedAt time.Time
}

// AttendanceRepo keeps the attendance ledger.  The (ticket_id, event_id)
// pair is unique, so a ticket is admitted to an event at most once no
// matter how often the message is delivered.
type AttendanceRepo struct {
	db *sql.DB
}

// NewAttendanceRepo constructs an AttendanceRepo with the given DB handle.
func NewAttendanceRepo(db *sql.DB) *AttendanceRepo {
	return &AttendanceRepo{db: db}
}

// Record inserts a ledger row and reports whether it was new.
func (r *AttendanceRepo) Record(ctx context.Context, a Attendance) (bool, error) {
	const q = `INSERT IGNORE INTO attendance (ticket_id, event_id, staff_id, head_count, attended_at)
               VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.TicketID, a.EventID, a.StaffID, a.HeadCount, a.AttendedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CountByEvent returns how many tickets and heads were admitted to an event.
func (r *AttendanceRepo) CountByEvent(ctx context.Context, eventID string) (tickets, heads int, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(head_count), 0) FROM attendance WHERE event_id = ?`
	err = r.db.QueryRowContext(ctx, q, eventID).Scan(&tickets, &heads)
	return tickets, heads, err
}
