package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/contracts"
	"listing-service/internal/core/port"
	"listing-service/internal/core/port/usecases_port"
	"listing-service/pkg/rabbitmq/rabbitmq_common"
	"listing-service/pkg/rabbitmq/rabbitmq_consumer"
)

// ListingSubmittedConsumerAdapter listens for submitted listings and runs
// the matching fan-out for each of them.
type ListingSubmittedConsumerAdapter struct {
	consumer *rabbitmq_consumer.DistributingConsumer
	useCase  usecases_port.NotifyForListingUseCasePort
	logger   port.LoggerPort
}

func NewListingSubmittedConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.NotifyForListingUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ListingSubmittedConsumerAdapter, error) {
	adapter := &ListingSubmittedConsumerAdapter{
		useCase: useCase,
		logger:  logger,
	}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for submitted listings: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

var _ port.EventListenerPort = (*ListingSubmittedConsumerAdapter)(nil)

// messageHandler returns an error for anything that should be retried and
// eventually dead-lettered, including messages that break the contract.
func (a *ListingSubmittedConsumerAdapter) messageHandler(d amqp.Delivery) error {
	traceID, _ := d.Headers[constants.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"message_id":   d.MessageId,
		"adapter_name": "ListingSubmittedConsumerAdapter",
	})

	eventType, _ := d.Headers[constants.HeaderEventType].(string)
	eventVersion, _ := d.Headers[constants.HeaderEventVersion].(string)
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Error("Message failed schema validation. Rejecting.", err, nil)
		return err
	}

	var dto ListingSubmittedEventDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		return fmt.Errorf("failed to unmarshal listing submitted event: %w", err)
	}

	msgLogger = msgLogger.WithFields(port.Fields{"listing_id": dto.ListingID})
	ctx := contextkeys.ContextWithLogger(context.Background(), msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	report, err := a.useCase.Execute(ctx, dto.ListingID)
	if err != nil {
		msgLogger.Error("Matching failed, message will be retried", err, nil)
		return err
	}

	msgLogger.Info("Listing matched", port.Fields{"matched": report.Matched})
	return nil
}

// Start implements EventListenerPort.
func (a *ListingSubmittedConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close implements EventListenerPort.
func (a *ListingSubmittedConsumerAdapter) Close() error {
	return a.consumer.Close()
}
