// Package service publishes domain events to RabbitMQ. Publishing is
// fire and forget from the request's point of view: every failure is
// logged and swallowed so the seat and finish operations never fail on a
// broker outage.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/queue"
)

// Publisher emits table events to the broker at URL. It satisfies
// handler.EventPublisher.
type Publisher struct {
	URL string
}

// NewPublisher returns a Publisher targeting the given AMQP URL.
func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// PartySeated publishes a table.seated event.
func (p *Publisher) PartySeated(ctx context.Context, event queue.PartySeatedEvent) {
	event.Kind = queue.KindPartySeated
	p.publish(ctx, event)
}

// VisitFinished publishes a table.finished event.
func (p *Publisher) VisitFinished(ctx context.Context, event queue.VisitFinishedEvent) {
	event.Kind = queue.KindVisitFinished
	p.publish(ctx, event)
}

func (p *Publisher) publish(ctx context.Context, payload any) {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		logrus.WithError(err).Warn("rabbitmq: dial failed, dropping event")
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logrus.WithError(err).Warn("rabbitmq: channel open failed, dropping event")
		return
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(queue.TableEventsQueue, true, false, false, false, nil); err != nil {
		logrus.WithError(err).Warn("rabbitmq: queue declare failed, dropping event")
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("rabbitmq: event encode failed")
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = ch.PublishWithContext(pubCtx, "", queue.TableEventsQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		logrus.WithError(err).Warn("rabbitmq: publish failed, dropping event")
	}
}
