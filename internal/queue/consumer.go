package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-entry/internal/repository"
)

// Ledger stores attendance rows.
type Ledger interface {
	Record(ctx context.Context, a repository.Attendance) (bool, error)
}

// StartAttendanceConsumer connects to RabbitMQ, declares the
// ticket.attended queue (durable) and records every message in the
// attendance ledger.  It reconnects with exponential backoff and returns
// only when ctx is cancelled.  A message that cannot be decoded is
// rejected without requeue; a ledger failure requeues it.
func StartAttendanceConsumer(ctx context.Context, url string, ledger Ledger, log zerolog.Logger) error {
	log = log.With().Str("component", "attendance-consumer").Logger()
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, ledger, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, ledger Ledger, log zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("set QoS")
	}
	if _, err := ch.QueueDeclare(TicketAttendedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(TicketAttendedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			err := HandleAttended(ctx, d.Body, ledger, log)
			switch {
			case err == nil:
				_ = d.Ack(false)
			case errors.Is(err, errMalformed):
				log.Error().Err(err).Msg("reject message")
				_ = d.Nack(false, false)
			default:
				log.Error().Err(err).Msg("record attendance, requeue")
				_ = d.Nack(false, true)
			}
		}
	}
}

var errMalformed = errors.New("malformed message")

// HandleAttended decodes one ticket.attended message and records it.
// Redelivered messages are absorbed by the ledger's unique key.
func HandleAttended(ctx context.Context, body []byte, ledger Ledger, log zerolog.Logger) error {
	var ev TicketAttendedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if ev.TicketID == "" || ev.EventID == "" {
		return fmt.Errorf("%w: ticket_id and event_id are required", errMalformed)
	}
	at, err := time.Parse(time.RFC3339, ev.AttendedAt)
	if err != nil {
		return fmt.Errorf("%w: attended_at: %v", errMalformed, err)
	}
	fresh, err := ledger.Record(ctx, repository.Attendance{
		TicketID:   ev.TicketID,
		EventID:    ev.EventID,
		StaffID:    ev.StaffID,
		HeadCount:  ev.HeadCount,
		AttendedAt: at.UTC(),
	})
	if err != nil {
		return err
	}
	log.Info().
		Str("ticket_id", ev.TicketID).
		Str("event_id", ev.EventID).
		Bool("duplicate", !fresh).
		Bool("reconciled", ev.Reconciled).
		Msg("attendance recorded")
	return nil
}
