package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/contracts"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

const publishTimeout = 10 * time.Second

// MessagePublisher is the part of rabbitmq_producer.Publisher the adapter uses.
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ListingEventsAdapter publishes listing lifecycle events to the listing
// events exchange.
type ListingEventsAdapter struct {
	producer   MessagePublisher
	routingKey string
}

func NewListingEventsAdapter(producer MessagePublisher, routingKey string) (*ListingEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("routingKey cannot be empty")
	}
	return &ListingEventsAdapter{producer: producer, routingKey: routingKey}, nil
}

var _ port.ListingEventsPort = (*ListingEventsAdapter)(nil)

func (a *ListingEventsAdapter) PublishListingSubmitted(ctx context.Context, listing domain.Listing) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ListingEventsAdapter",
		"routing_key": a.routingKey,
		"listing_id":  listing.ID,
	})

	body, err := json.Marshal(toListingSubmittedDTO(listing))
	if err != nil {
		return fmt.Errorf("failed to marshal listing submitted event: %w", err)
	}
	// the consumer side rejects what does not fit the contract, so never send it
	if err := contracts.ValidateEvent(constants.EventListingSubmitted, constants.EventListingSubmittedVersion, body); err != nil {
		adapterLogger.Error("Listing submitted event does not match its schema", err, nil)
		return fmt.Errorf("listing submitted event is invalid: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			constants.HeaderEventType:    constants.EventListingSubmitted,
			constants.HeaderEventVersion: constants.EventListingSubmittedVersion,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish listing submitted event", err, nil)
		return err
	}

	adapterLogger.Info("Listing submitted event published", nil)
	return nil
}
