package entrypass

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-entry/internal/model"
	"github.com/iliyamo/event-entry/internal/queue"
	"github.com/iliyamo/event-entry/internal/upstream"
)

const (
	// DefaultRate is the price of one head in currency units.
	DefaultRate = 100
	// MaxPurchaseHeads caps the head count of one purchase.
	MaxPurchaseHeads = 10000
)

// Platform is the part of the platform API the manager calls.
type Platform interface {
	GetEntryPass(ctx context.Context, sess model.Session) (*model.EntryPass, error)
	PurchaseEntryPass(ctx context.Context, sess model.Session, req upstream.PurchaseRequest) (model.EntryPass, error)
	GetEvent(ctx context.Context, sess model.Session, eventID string) (model.Event, error)
	BookTicket(ctx context.Context, sess model.Session, req upstream.BookRequest) (upstream.Booking, error)
	BookTickets(ctx context.Context, sess model.Session, req upstream.BookManyRequest) (upstream.Booking, error)
}

// Publisher publishes domain events; a nil Publisher disables publishing.
type Publisher interface {
	Publish(ctx context.Context, queueName string, payload any) error
}

// Options tune a Manager.  Zero values select the defaults.
type Options struct {
	Rate         int
	PaymentDelay time.Duration
	Now          func() time.Time
	Sleep        func(ctx context.Context, d time.Duration) error
	PaymentID    func() string
}

// Manager runs the entry pass workflow for authenticated customers.
type Manager struct {
	platform Platform
	store    Store
	pub      Publisher
	log      zerolog.Logger

	rate      int
	delay     time.Duration
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
	paymentID func() string
}

// NewManager wires a Manager.
func NewManager(p Platform, store Store, pub Publisher, log zerolog.Logger, opts Options) *Manager {
	m := &Manager{
		platform:  p,
		store:     store,
		pub:       pub,
		log:       log.With().Str("component", "entrypass").Logger(),
		rate:      opts.Rate,
		delay:     opts.PaymentDelay,
		now:       opts.Now,
		sleep:     opts.Sleep,
		paymentID: opts.PaymentID,
	}
	if m.rate <= 0 {
		m.rate = DefaultRate
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.sleep == nil {
		m.sleep = sleepCtx
	}
	if m.paymentID == nil {
		m.paymentID = func() string { return "PAY-" + uuid.NewString() }
	}
	if m.store == nil {
		m.store = NewMemoryStore(0)
	}
	return m
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Rate returns the price of one head.
func (m *Manager) Rate() int { return m.rate }

// View is a pass together with its derived display state.  Amount is set
// by Purchase to what was charged.
type View struct {
	Pass   *model.EntryPass `json:"entryPass"`
	State  State            `json:"state"`
	Amount int              `json:"amount,omitempty"`
}

func (m *Manager) view(pass *model.EntryPass) View {
	return View{Pass: pass, State: Classify(pass, m.now())}
}

// Current fetches the caller's pass from the platform and replaces the
// stored snapshot.  Having no pass is not an error.
func (m *Manager) Current(ctx context.Context, sess model.Session) (View, error) {
	pass, err := m.platform.GetEntryPass(ctx, sess)
	if err != nil {
		return View{}, err
	}
	m.remember(ctx, sess.UserID, pass)
	return m.view(pass), nil
}

// snapshot returns the last fetched pass, fetching it when none is held.
func (m *Manager) snapshot(ctx context.Context, sess model.Session) (*model.EntryPass, error) {
	snap, ok, err := m.store.Get(ctx, sess.UserID)
	if err != nil {
		m.log.Warn().Err(err).Str("user_id", sess.UserID).Msg("read pass snapshot")
	}
	if ok {
		return snap.Pass, nil
	}
	v, err := m.Current(ctx, sess)
	if err != nil {
		return nil, err
	}
	return v.Pass, nil
}

func (m *Manager) remember(ctx context.Context, userID string, pass *model.EntryPass) {
	if err := m.store.Put(ctx, userID, Snapshot{Pass: pass, FetchedAt: m.now()}); err != nil {
		m.log.Warn().Err(err).Str("user_id", userID).Msg("store pass snapshot")
	}
}

// Purchase buys headCount heads.  The payment is simulated: the call waits
// the configured delay, then submits a synthetic payment id.  The stored
// snapshot is only replaced when the platform accepts the purchase.
func (m *Manager) Purchase(ctx context.Context, sess model.Session, headCount int) (View, error) {
	if headCount < 1 {
		return View{}, ErrInvalidQuantity
	}
	if headCount > MaxPurchaseHeads {
		return View{}, ErrTooManyHeads
	}
	if err := m.sleep(ctx, m.delay); err != nil {
		return View{}, fmt.Errorf("payment: %w", err)
	}
	req := upstream.PurchaseRequest{
		HeadCount: headCount,
		Amount:    headCount * m.rate,
		PaymentID: m.paymentID(),
		TransactionInfo: upstream.TransactionInfo{
			Method:    "simulated",
			Status:    "completed",
			Timestamp: m.now().UTC(),
		},
	}
	pass, err := m.platform.PurchaseEntryPass(ctx, sess, req)
	if err != nil {
		m.log.Warn().Err(err).Str("user_id", sess.UserID).Int("head_count", headCount).Msg("purchase rejected")
		return View{}, err
	}
	m.remember(ctx, sess.UserID, &pass)
	m.log.Info().Str("user_id", sess.UserID).Int("head_count", headCount).Str("payment_id", req.PaymentID).Msg("entry pass purchased")

	if m.pub != nil {
		ev := queue.EntryPassPurchasedEvent{
			UserID:       sess.UserID,
			HeadCount:    headCount,
			Amount:       req.Amount,
			PaymentID:    req.PaymentID,
			NewHeadCount: pass.HeadCount,
			ExpiresAt:    pass.ExpiresAt.UTC().Format(time.RFC3339),
			PurchasedAt:  req.TransactionInfo.Timestamp.Format(time.RFC3339),
		}
		if err := m.pub.Publish(ctx, queue.EntryPassPurchasedQueue, ev); err != nil {
			m.log.Warn().Err(err).Msg("publish entrypass.purchased")
		}
	}
	v := m.view(&pass)
	v.Amount = req.Amount
	return v, nil
}

// Availability describes what the booking form for one show may offer.
type Availability struct {
	State           State            `json:"state"`
	Pass            *model.EntryPass `json:"entryPass"`
	AvailableSeats  int              `json:"availableSeats"`
	MaxBookable     int              `json:"maxBookable"`
	QuantityEnabled bool             `json:"quantityEnabled"`
}

// Availability combines the last pass snapshot with the show's seats.
func (m *Manager) Availability(ctx context.Context, sess model.Session, eventID, showID string) (Availability, error) {
	pass, err := m.snapshot(ctx, sess)
	if err != nil {
		return Availability{}, err
	}
	ev, err := m.platform.GetEvent(ctx, sess, eventID)
	if err != nil {
		return Availability{}, err
	}
	seats := ev.AvailableSeats(showID)
	state := Classify(pass, m.now())
	limit := MaxBookable(pass, seats)
	return Availability{
		State:           state,
		Pass:            pass,
		AvailableSeats:  seats,
		MaxBookable:     limit,
		QuantityEnabled: state == StateValid && limit > 0,
	}, nil
}

// BookingRequest asks for Quantity tickets, either for one show
// (EventID/ShowID) or for several events at once (Events).
type BookingRequest struct {
	EventID  string   `json:"eventId"`
	ShowID   string   `json:"showId"`
	Events   []string `json:"events"`
	Quantity int      `json:"quantity"`
}

// Book validates the request against the last pass snapshot and the seats
// the platform reports, then books.  Head count and seats are never
// decremented locally: the snapshot is dropped so the next read reflects
// what the platform consumed.
func (m *Manager) Book(ctx context.Context, sess model.Session, req BookingRequest) (upstream.Booking, error) {
	if req.EventID == "" && len(req.Events) == 0 {
		return upstream.Booking{}, ErrNoEventsSelected
	}
	pass, err := m.snapshot(ctx, sess)
	if err != nil {
		return upstream.Booking{}, err
	}
	if pass == nil {
		return upstream.Booking{}, ErrNoPass
	}
	if req.Quantity < 1 {
		return upstream.Booking{}, ErrInvalidQuantity
	}

	var booking upstream.Booking
	if req.EventID != "" {
		ev, err := m.platform.GetEvent(ctx, sess, req.EventID)
		if err != nil {
			return upstream.Booking{}, err
		}
		if _, ok := ev.FindShow(req.ShowID); !ok {
			return upstream.Booking{}, fmt.Errorf("show %q is not part of event %q: %w", req.ShowID, req.EventID, ErrUnknownShow)
		}
		if err := CheckBooking(pass, ev.AvailableSeats(req.ShowID), req.Quantity, m.now()); err != nil {
			return upstream.Booking{}, err
		}
		booking, err = m.platform.BookTicket(ctx, sess, upstream.BookRequest{
			EventID:   req.EventID,
			ShowID:    req.ShowID,
			HeadCount: req.Quantity,
		})
		if err != nil {
			return upstream.Booking{}, err
		}
	} else {
		seats := -1
		for _, id := range req.Events {
			ev, err := m.platform.GetEvent(ctx, sess, id)
			if err != nil {
				return upstream.Booking{}, err
			}
			if left := ev.AvailableSeats(""); seats < 0 || left < seats {
				seats = left
			}
		}
		if err := CheckBooking(pass, seats, req.Quantity, m.now()); err != nil {
			return upstream.Booking{}, err
		}
		booking, err = m.platform.BookTickets(ctx, sess, upstream.BookManyRequest{
			Events:   req.Events,
			Quantity: req.Quantity,
		})
		if err != nil {
			return upstream.Booking{}, err
		}
	}

	if err := m.store.Drop(ctx, sess.UserID); err != nil {
		m.log.Warn().Err(err).Str("user_id", sess.UserID).Msg("drop pass snapshot")
	}
	m.log.Info().
		Str("user_id", sess.UserID).
		Str("event_id", req.EventID).
		Str("show_id", req.ShowID).
		Int("quantity", req.Quantity).
		Msg("tickets booked")
	return booking, nil
}
