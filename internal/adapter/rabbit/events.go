package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/signme/signme-backend/internal/domain/models"
	"github.com/signme/signme-backend/pkg/logger"
	wrap "github.com/signme/signme-backend/pkg/logger/wrapper"
	"github.com/signme/signme-backend/pkg/metrics"
	"github.com/signme/signme-backend/pkg/rabbit"
)

const (
	SessionExchange = "session_topic"

	KeySessionStarted = "session.started"
	KeySessionEnded   = "session.ended"
)

// SessionEventsBroker publishes drive lifecycle events. Consumers are
// external (trip analytics, notifications); the backend only produces.
type SessionEventsBroker struct {
	client   *rabbit.RabbitMQ
	exchange string

	l logger.Logger
}

func NewSessionEventsBroker(client *rabbit.RabbitMQ, log logger.Logger) (*SessionEventsBroker, error) {
	b := &SessionEventsBroker{
		client:   client,
		exchange: SessionExchange,
		l:        log,
	}

	if err := b.client.Channel.ExchangeDeclare(
		b.exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return b, nil
}

// PublishSessionStarted отправляет событие о начале поездки.
func (b *SessionEventsBroker) PublishSessionStarted(ctx context.Context, msg models.SessionStartedMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_session_started")
	return b.publish(ctx, KeySessionStarted, msg.CorrelationID, msg)
}

// PublishSessionEnded отправляет событие о завершении поездки.
func (b *SessionEventsBroker) PublishSessionEnded(ctx context.Context, msg models.SessionEndedMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_session_ended")
	return b.publish(ctx, KeySessionEnded, msg.CorrelationID, msg)
}

func (b *SessionEventsBroker) publish(ctx context.Context, key, correlationID string, msg any) error {
	if err := b.client.EnsureConnection(ctx); err != nil {
		b.l.Error(ctx, "ensure connection failed", err)
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	err = retry(5, time.Second, func() error {
		return b.client.Channel.PublishWithContext(
			ctx,
			b.exchange, // exchange
			key,        // routing key
			false,      // mandatory
			false,      // immediate
			amqp091.Publishing{
				ContentType:   "application/json",
				CorrelationId: correlationID,
				Body:          body,
				Timestamp:     time.Now(),
			},
		)
	})
	metrics.RecordRabbitMQPublish("session", key, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish with context: %w", err))
	}

	return nil
}

func retry(n int, sleep time.Duration, fn func() error) error {
	var err error
	for range n {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(sleep)
	}
	return err
}
