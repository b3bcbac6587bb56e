package scanner

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/event-entry/internal/model"
	"github.com/iliyamo/event-entry/internal/queue"
	"github.com/iliyamo/event-entry/internal/repository"
	"github.com/iliyamo/event-entry/internal/upstream"
)

// DefaultEnrichConcurrency bounds the ticket detail calls of one verify.
const DefaultEnrichConcurrency = 4

// verifyFailed is shown when the platform rejects a code without a message.
const verifyFailed = "Ticket verification failed"

// Platform is the part of the platform API the scanner calls.
type Platform interface {
	VerifyTicket(ctx context.Context, sess model.Session, req upstream.VerifyRequest) (upstream.VerifyResponse, error)
	GetTicket(ctx context.Context, sess model.Session, ticketID string) (model.TicketDetail, error)
	MarkAttended(ctx context.Context, sess model.Session, ticketID, eventID, idempotencyKey string) error
}

// ScanLog records scan attempts.
type ScanLog interface {
	Record(ctx context.Context, l repository.ScanLog) error
}

// Publisher publishes domain events; a nil Publisher disables publishing.
type Publisher interface {
	Publish(ctx context.Context, queueName string, payload any) error
}

// Options tune a Scanner.  Zero values select the defaults.
type Options struct {
	EnrichConcurrency int
	Now               func() time.Time
	NewID             func() string
}

// Scanner drives scan sessions for staff members.
type Scanner struct {
	platform Platform
	sessions SessionStore
	scanLog  ScanLog
	pub      Publisher
	log      zerolog.Logger

	enrichLimit int
	now         func() time.Time
	newID       func() string
}

// New wires a Scanner.  scanLog and pub may be nil.
func New(p Platform, sessions SessionStore, scanLog ScanLog, pub Publisher, log zerolog.Logger, opts Options) *Scanner {
	s := &Scanner{
		platform:    p,
		sessions:    sessions,
		scanLog:     scanLog,
		pub:         pub,
		log:         log.With().Str("component", "scanner").Logger(),
		enrichLimit: opts.EnrichConcurrency,
		now:         opts.Now,
		newID:       opts.NewID,
	}
	if s.enrichLimit <= 0 {
		s.enrichLimit = DefaultEnrichConcurrency
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.sessions == nil {
		s.sessions = NewMemorySessionStore()
	}
	return s
}

// Open starts a session for the calling staff member.  eventID may be
// empty; scanning then waits for SelectEvent.
func (s *Scanner) Open(ctx context.Context, sess model.Session, eventID string) (Session, error) {
	at := s.now().UTC()
	scan := Session{ID: s.newID(), StaffID: sess.UserID, State: StateIdle, UpdatedAt: at}
	if eventID != "" {
		scan = scan.WithEvent(eventID, at)
	}
	if err := s.sessions.Save(ctx, scan); err != nil {
		return Session{}, err
	}
	s.log.Info().Str("session_id", scan.ID).Str("user_id", sess.UserID).Str("event_id", eventID).Msg("scan session opened")
	return scan, nil
}

// Get loads a session owned by the caller.  Admins may read any session.
func (s *Scanner) Get(ctx context.Context, sess model.Session, sessionID string) (Session, error) {
	scan, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	if scan.StaffID != sess.UserID && sess.Role != model.RoleAdmin {
		return Session{}, ErrForeignSession
	}
	return scan, nil
}

// SelectEvent switches the session to another event and clears its result.
func (s *Scanner) SelectEvent(ctx context.Context, sess model.Session, sessionID, eventID string) (Session, error) {
	if eventID == "" {
		return Session{}, ErrNoEventSelected
	}
	scan, err := s.Get(ctx, sess, sessionID)
	if err != nil {
		return Session{}, err
	}
	scan = scan.WithEvent(eventID, s.now().UTC())
	if err := s.sessions.Save(ctx, scan); err != nil {
		return Session{}, err
	}
	return scan, nil
}

// Verify resolves a scanned code against the session's event.  A code the
// platform rejects is not an error: the session ends in StateError with
// the platform's message.  Tickets missing enrichment fields are completed
// from the ticket detail endpoint; a failed detail call keeps the ticket
// as the verify call returned it.
func (s *Scanner) Verify(ctx context.Context, sess model.Session, sessionID string, qrData json.RawMessage) (Session, error) {
	scan, err := s.Get(ctx, sess, sessionID)
	if err != nil {
		return Session{}, err
	}
	payload, err := NormalizeJSON(qrData)
	if err != nil {
		return scan, err
	}
	scan, err = scan.BeginScan(s.now().UTC())
	if err != nil {
		return scan, err
	}
	if err := s.sessions.Save(ctx, scan); err != nil {
		return Session{}, err
	}

	log := s.log.With().Str("session_id", scan.ID).Str("event_id", scan.EventID).Logger()
	res, err := s.platform.VerifyTicket(ctx, sess, upstream.VerifyRequest{QRData: payload, EventID: scan.EventID})
	if err != nil {
		msg := upstream.MessageOr(err, verifyFailed)
		log.Info().Err(err).Msg("code rejected")
		scan, _ = scan.Fail(msg, s.now().UTC())
		s.record(ctx, scan, repository.ScanActionVerify, repository.ScanOutcomeError, "", 0, msg)
		return scan, s.sessions.Save(ctx, scan)
	}

	tickets := s.enrich(ctx, sess, log, res.Tickets)
	scan, _ = scan.Succeed(model.ScanResult{User: res.User, Tickets: tickets}, s.now().UTC())
	log.Info().Int("tickets", len(tickets)).Msg("code verified")
	s.record(ctx, scan, repository.ScanActionVerify, repository.ScanOutcomeSuccess, "", len(tickets), "")
	return scan, s.sessions.Save(ctx, scan)
}

func (s *Scanner) enrich(ctx context.Context, sess model.Session, log zerolog.Logger, in []model.Ticket) []model.Ticket {
	out := make([]model.Ticket, len(in))
	copy(out, in)

	var g errgroup.Group
	g.SetLimit(s.enrichLimit)
	for i := range out {
		if !out[i].NeedsEnrichment() {
			continue
		}
		g.Go(func() error {
			d, err := s.platform.GetTicket(ctx, sess, out[i].TicketID)
			if err != nil {
				log.Warn().Err(err).Str("ticket_id", out[i].TicketID).Msg("enrich ticket")
				return nil
			}
			out[i] = out[i].Enrich(d)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// AttendOutcome is the session after a mark-attended command.  Reconciled
// is set when another session had already marked the ticket and the
// result was aligned with the platform instead.
type AttendOutcome struct {
	Session    Session `json:"session"`
	Reconciled bool    `json:"reconciled"`
}

// MarkAttended admits a ticket of the session's current result.  Only a
// ticket whose disposition is Markable is sent; anything else returns
// ErrNotMarkable without a platform call.  On success the ticket is merged
// into a new result as attended.  When the platform reports a conflict the
// ticket detail is re-read: if it is attended the merge still happens and
// ErrAlreadyAttended is returned with the reconciled session.
func (s *Scanner) MarkAttended(ctx context.Context, sess model.Session, sessionID, ticketID string) (AttendOutcome, error) {
	scan, err := s.Get(ctx, sess, sessionID)
	if err != nil {
		return AttendOutcome{}, err
	}
	if scan.Result == nil || scan.Result.Status != model.ScanSuccess {
		return AttendOutcome{Session: scan}, ErrNotMarkable
	}
	ticket, ok := scan.Result.Ticket(ticketID)
	if !ok || Classify(ticket) != Markable {
		return AttendOutcome{Session: scan}, ErrNotMarkable
	}

	log := s.log.With().Str("session_id", scan.ID).Str("event_id", scan.EventID).Str("ticket_id", ticketID).Logger()
	err = s.platform.MarkAttended(ctx, sess, ticketID, scan.EventID, IdempotencyKey(ticketID, scan.EventID))
	if err == nil {
		at := s.now().UTC()
		scan = scan.WithResult(scan.Result.WithAttended(ticketID, at), at)
		if err := s.sessions.Save(ctx, scan); err != nil {
			return AttendOutcome{}, err
		}
		log.Info().Msg("ticket marked attended")
		s.record(ctx, scan, repository.ScanActionAttend, repository.ScanOutcomeSuccess, ticketID, 0, "")
		s.publishAttended(ctx, scan, ticket, at, false)
		return AttendOutcome{Session: scan}, nil
	}

	if upstream.IsConflict(err) {
		d, derr := s.platform.GetTicket(ctx, sess, ticketID)
		if derr == nil && (d.Status == model.TicketAttended || d.Status == model.TicketUsed) {
			at := s.now().UTC()
			if d.VerifiedAt != nil {
				at = d.VerifiedAt.UTC()
			}
			scan = scan.WithResult(scan.Result.WithAttended(ticketID, at), s.now().UTC())
			if serr := s.sessions.Save(ctx, scan); serr != nil {
				return AttendOutcome{}, serr
			}
			log.Info().Msg("ticket already attended, result reconciled")
			s.record(ctx, scan, repository.ScanActionAttend, repository.ScanOutcomeReconciled, ticketID, 0, "")
			s.publishAttended(ctx, scan, ticket, at, true)
			return AttendOutcome{Session: scan, Reconciled: true}, ErrAlreadyAttended
		}
		if derr != nil {
			log.Warn().Err(derr).Msg("re-read ticket after conflict")
		}
	}

	log.Warn().Err(err).Msg("mark attended failed")
	s.record(ctx, scan, repository.ScanActionAttend, repository.ScanOutcomeError, ticketID, 0, upstream.MessageOr(err, "Failed to mark ticket as attended"))
	return AttendOutcome{Session: scan}, err
}

func (s *Scanner) record(ctx context.Context, scan Session, action, outcome, ticketID string, count int, msg string) {
	if s.scanLog == nil {
		return
	}
	err := s.scanLog.Record(ctx, repository.ScanLog{
		SessionID:   scan.ID,
		EventID:     scan.EventID,
		StaffID:     scan.StaffID,
		Action:      action,
		Outcome:     outcome,
		TicketID:    ticketID,
		TicketCount: count,
		Message:     msg,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", scan.ID).Msg("record scan log")
	}
}

func (s *Scanner) publishAttended(ctx context.Context, scan Session, t model.Ticket, at time.Time, reconciled bool) {
	if s.pub == nil {
		return
	}
	ev := queue.TicketAttendedEvent{
		TicketID:     t.TicketID,
		TicketNumber: t.TicketNumber,
		EventID:      scan.EventID,
		StaffID:      scan.StaffID,
		SessionID:    scan.ID,
		Reconciled:   reconciled,
		AttendedAt:   at.Format(time.RFC3339),
	}
	if t.HeadCount != nil {
		ev.HeadCount = *t.HeadCount
	}
	if err := s.pub.Publish(ctx, queue.TicketAttendedQueue, ev); err != nil {
		s.log.Warn().Err(err).Str("ticket_id", t.TicketID).Msg("publish ticket.attended")
	}
}

var attendNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:event-entry:mark-attended"))

// IdempotencyKey is stable for a ticket/event pair, so retries and other
// sessions admitting the same ticket send the same key.
func IdempotencyKey(ticketID, eventID string) string {
	return uuid.NewSHA1(attendNamespace, []byte(ticketID+"|"+eventID)).String()
}

// Cue is the feedback the scanner device plays for a response.
type Cue string

const (
	CueNone    Cue = ""
	CueSuccess Cue = "success"
	CueAlert   Cue = "alert"
)

// CueFor picks the cue of a verify or mark-attended response.
func CueFor(scan Session, err error) Cue {
	switch {
	case err != nil:
		return CueAlert
	case scan.State == StateSuccess:
		return CueSuccess
	case scan.State == StateError:
		return CueAlert
	}
	return CueNone
}
