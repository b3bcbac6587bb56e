package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-entry/internal/repository"
)

type memoryLedger struct {
	rows map[string]repository.Attendance
	err  error
}

func (l *memoryLedger) Record(_ context.Context, a repository.Attendance) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	key := a.TicketID + "|" + a.EventID
	if _, ok := l.rows[key]; ok {
		return false, nil
	}
	l.rows[key] = a
	return true, nil
}

func TestHandleAttendedRecordsOnce(t *testing.T) {
	ledger := &memoryLedger{rows: map[string]repository.Attendance{}}
	body, err := json.Marshal(TicketAttendedEvent{
		TicketID: "t1", EventID: "ev-1", StaffID: "staff-1", HeadCount: 2,
		AttendedAt: "2025-06-08T18:00:00Z",
	})
	require.NoError(t, err)

	require.NoError(t, HandleAttended(context.Background(), body, ledger, zerolog.Nop()))
	require.NoError(t, HandleAttended(context.Background(), body, ledger, zerolog.Nop()))

	require.Len(t, ledger.rows, 1)
	row := ledger.rows["t1|ev-1"]
	assert.Equal(t, 2, row.HeadCount)
	assert.Equal(t, time.Date(2025, 6, 8, 18, 0, 0, 0, time.UTC), row.AttendedAt)
}

func TestHandleAttendedMalformed(t *testing.T) {
	ledger := &memoryLedger{rows: map[string]repository.Attendance{}}
	for _, body := range []string{`not json`, `{"event_id":"ev-1","attended_at":"2025-06-08T18:00:00Z"}`, `{"ticket_id":"t1","event_id":"ev-1","attended_at":"yesterday"}`} {
		err := HandleAttended(context.Background(), []byte(body), ledger, zerolog.Nop())
		assert.ErrorIs(t, err, errMalformed, body)
	}
	assert.Empty(t, ledger.rows)
}

func TestHandleAttendedLedgerFailure(t *testing.T) {
	ledger := &memoryLedger{rows: map[string]repository.Attendance{}, err: errors.New("db down")}
	err := HandleAttended(context.Background(), []byte(`{"ticket_id":"t1","event_id":"ev-1","attended_at":"2025-06-08T18:00:00Z"}`), ledger, zerolog.Nop())
	require.Error(t, err)
	assert.NotErrorIs(t, err, errMalformed)
}
