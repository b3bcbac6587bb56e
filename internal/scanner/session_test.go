package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-entry/internal/model"
)

var t0 = time.Date(2025, 6, 8, 18, 0, 0, 0, time.UTC)

func TestBeginScanRequiresEvent(t *testing.T) {
	s := Session{ID: "s1", State: StateIdle}
	_, err := s.BeginScan(t0)
	assert.ErrorIs(t, err, ErrNoEventSelected)

	s = s.WithEvent("ev-1", t0)
	s, err = s.BeginScan(t0)
	require.NoError(t, err)
	assert.Equal(t, StateScanning, s.State)
}

func TestScanOutcomesOnlyFromScanning(t *testing.T) {
	s := Session{ID: "s1", EventID: "ev-1", State: StateIdle}
	_, err := s.Succeed(model.ScanResult{}, t0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = s.Fail("nope", t0)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, _ = s.BeginScan(t0)
	ok, err := s.Succeed(model.ScanResult{Tickets: []model.Ticket{{TicketID: "t1"}}}, t0)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, ok.State)
	assert.Equal(t, model.ScanSuccess, ok.Result.Status)

	bad, err := s.Fail("Invalid QR code", t0)
	require.NoError(t, err)
	assert.Equal(t, StateError, bad.State)
	assert.Equal(t, model.ScanError, bad.Result.Status)
	assert.Equal(t, "Invalid QR code", bad.Result.Message)
}

func TestNewScanClearsPreviousResult(t *testing.T) {
	s := Session{ID: "s1", EventID: "ev-1"}
	s, _ = s.BeginScan(t0)
	s, _ = s.Fail("Invalid QR code", t0)

	s, err := s.BeginScan(t0.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, StateScanning, s.State)
	assert.Nil(t, s.Result)
}

func TestWithEventDiscardsResult(t *testing.T) {
	s := Session{ID: "s1", EventID: "ev-1"}
	s, _ = s.BeginScan(t0)
	s, _ = s.Succeed(model.ScanResult{}, t0)

	s = s.WithEvent("ev-2", t0)
	assert.Equal(t, "ev-2", s.EventID)
	assert.Equal(t, StateIdle, s.State)
	assert.Nil(t, s.Result)
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, Session{ID: "s1", EventID: "ev-1"}))
	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "ev-1", got.EventID)
}
