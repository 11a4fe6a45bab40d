package rabbitmq_consumer

import (
	"context"
	"fmt"
	"time"

	"listing-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one delivery. The consumer acks on nil and
// routes the delivery through the retry topology otherwise.
type MessageHandler func(delivery amqp.Delivery) error

// DistributingConsumer runs every delivery in its own goroutine.
// PrefetchCount bounds how many run at once.
type DistributingConsumer struct {
	base    *baseConsumer
	handler MessageHandler
}

func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("distributing consumer: message handler is required")
	}
	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing consumer: %w", err)
	}
	return &DistributingConsumer{base: bc, handler: handler}, nil
}

// StartConsuming blocks until ctx is cancelled or the connection drops.
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	b := c.base
	if b.channel == nil || b.connection == nil || b.connection.IsClosed() {
		return fmt.Errorf("distributing consumer: not connected")
	}

	msgs, err := b.channel.Consume(b.queueName, b.config.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("distributing consumer: failed to consume from '%s': %w", b.queueName, err)
	}
	b.Logger.Info("Waiting for messages", "queue", b.queueName)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					b.Logger.Info("Deliveries channel closed", "queue", b.queueName)
					return
				}
				// ctx may have been cancelled while the delivery was in flight;
				// leave it unacked so the broker redelivers it.
				if ctx.Err() != nil {
					return
				}
				b.wg.Add(1)
				go func(delivery amqp.Delivery) {
					defer b.wg.Done()
					c.handle(delivery)
				}(d)
			}
		}
	}()

	notifyClose := b.connection.NotifyClose(make(chan *amqp.Error, 1))
	select {
	case <-ctx.Done():
		b.Logger.Info("Context cancelled, consumer stopping", "queue", b.queueName)
		return nil
	case amqpErr := <-notifyClose:
		if amqpErr == nil {
			return nil
		}
		b.Logger.Error(amqpErr, "Connection closed under consumer", "queue", b.queueName)
		return amqpErr
	}
}

func (c *DistributingConsumer) handle(delivery amqp.Delivery) {
	b := c.base

	processErr := c.handler(delivery)
	if processErr == nil {
		_ = delivery.Ack(false)
		return
	}

	b.Logger.Error(processErr, "Handler failed", "delivery_tag", delivery.DeliveryTag)

	if !b.config.EnableRetryMechanism {
		_ = delivery.Nack(false, false)
		return
	}

	deaths := deathCount(delivery, b.queueName)
	if deaths < int64(b.config.MaxRetries) {
		b.Logger.Info("Scheduling retry", "delivery_tag", delivery.DeliveryTag, "death_count", deaths)
		_ = delivery.Nack(false, false)
		return
	}

	b.Logger.Warn("Max retries reached, moving to final DLQ", "delivery_tag", delivery.DeliveryTag)
	err := b.finalDlxPublisher.Publish(context.Background(), b.config.FinalDLQRoutingKey, amqp.Publishing{
		ContentType:  delivery.ContentType,
		Body:         delivery.Body,
		Headers:      delivery.Headers,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		b.Logger.Error(err, "Failed to publish to final DLX, retrying again", "delivery_tag", delivery.DeliveryTag)
		_ = delivery.Nack(false, false)
		return
	}
	_ = delivery.Ack(false)
}

func (c *DistributingConsumer) Close() error {
	return c.base.Close()
}
