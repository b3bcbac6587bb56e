// Package service holds infrastructure services shared by the workflows.
package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Publisher publishes JSON domain events to durable RabbitMQ queues over
// the default exchange.  The connection is opened on first use and
// re-opened after the broker drops it.  Publishing never panics; errors
// are logged and returned so callers can ignore them without
// interrupting the request.
type Publisher struct {
	url string
	log zerolog.Logger

	mu       sync.Mutex
	conn     *amqp.Connection
	declared map[string]bool
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log zerolog.Logger) *Publisher {
	return &Publisher{
		url:      url,
		log:      log.With().Str("component", "publisher").Logger(),
		declared: map[string]bool{},
	}
}

// Publish marshals payload and sends it as a persistent message to the
// queue named queueName.
func (p *Publisher) Publish(ctx context.Context, queueName string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		p.log.Error().Err(err).Str("queue", queueName).Msg("marshal event")
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		p.log.Warn().Err(err).Str("queue", queueName).Msg("open channel")
		return err
	}
	defer func() { _ = ch.Close() }()

	if !p.declared[queueName] {
		// Durable so messages survive broker restarts.
		if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
			p.log.Warn().Err(err).Str("queue", queueName).Msg("declare queue")
			return err
		}
		p.declared[queueName] = true
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, msg); err != nil {
		p.log.Warn().Err(err).Str("queue", queueName).Msg("publish")
		return err
	}
	return nil
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, err
		}
		p.conn = conn
		p.declared = map[string]bool{}
	}
	ch, err := p.conn.Channel()
	if err != nil {
		_ = p.conn.Close()
		p.conn = nil
		return nil, err
	}
	return ch, nil
}

// Close closes the broker connection, if any.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
