package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// defaultDialTimeout bounds the TCP dial and the AMQP handshake of one
// publish.
const defaultDialTimeout = 2 * time.Second

// Publisher sends reservation events to RabbitMQ.  It dials once per
// publish, within DialTimeout or the context deadline, whichever comes
// first.  Failures are returned to the caller, which logs them.
type Publisher struct {
	URL         string
	Queue       string
	DialTimeout time.Duration
	Log         *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{URL: url, Queue: ReservationsQueue, DialTimeout: defaultDialTimeout, Log: log}
}

// dialTimeout returns the time left for connecting, or the context error
// when the deadline has already passed.
func (p *Publisher) dialTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		if left < timeout {
			timeout = left
		}
	}
	return timeout, nil
}

// PublishReservation publishes ev as a persistent JSON message on the
// reservations queue, declaring the queue first (idempotent).
func (p *Publisher) PublishReservation(ctx context.Context, ev ReservationEvent) error {
	timeout, err := p.dialTimeout(ctx)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, p.Queue); err != nil {
		return fmt.Errorf("rabbitmq declare %s: %w", p.Queue, err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	p.Log.Debug("reservation event published",
		zap.String("event_id", ev.EventID),
		zap.String("type", ev.Type))
	return nil
}

// declare makes sure the durable queue exists.
func declare(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	return err
}
