package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-service/internal/constants"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type fakePublisher struct {
	routingKey string
	msg        amqp.Publishing
	err        error
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, msg amqp.Publishing) error {
	f.routingKey = routingKey
	f.msg = msg
	return f.err
}

type fakeNotifyUseCase struct {
	listingID int64
	traceID   string
	err       error
}

func (f *fakeNotifyUseCase) Execute(ctx context.Context, listingID int64) (*domain.MatchReport, error) {
	f.listingID = listingID
	f.traceID = contextkeys.TraceIDFromContext(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.MatchReport{Evaluated: 1, Matched: 1}, nil
}

func submittedListing() domain.Listing {
	return domain.Listing{
		ID:         42,
		OwnerEmail: "seller@example.lk",
		Title:      "Toyota Axio 2016",
		Category:   domain.CategoryVehicle,
		CreatedAt:  time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC),
	}
}

func TestListingEventsAdapter_Publish(t *testing.T) {
	producer := &fakePublisher{}
	adapter, err := NewListingEventsAdapter(producer, constants.RoutingKeyListingSubmitted)
	require.NoError(t, err)

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")
	require.NoError(t, adapter.PublishListingSubmitted(ctx, submittedListing()))

	assert.Equal(t, constants.RoutingKeyListingSubmitted, producer.routingKey)
	assert.Equal(t, "application/json", producer.msg.ContentType)
	assert.Equal(t, constants.EventListingSubmitted, producer.msg.Headers[constants.HeaderEventType])
	assert.Equal(t, constants.EventListingSubmittedVersion, producer.msg.Headers[constants.HeaderEventVersion])
	assert.Equal(t, "trace-1", producer.msg.Headers[constants.HeaderTraceID])

	var body map[string]any
	require.NoError(t, json.Unmarshal(producer.msg.Body, &body))
	assert.Equal(t, float64(42), body["listing_id"])
	assert.Equal(t, "Vehicle", body["category"])
	assert.Equal(t, "2026-10-16T08:00:00Z", body["submitted_at"])
}

func TestListingEventsAdapter_RejectsInvalidEvent(t *testing.T) {
	producer := &fakePublisher{}
	adapter, err := NewListingEventsAdapter(producer, constants.RoutingKeyListingSubmitted)
	require.NoError(t, err)

	l := submittedListing()
	l.OwnerEmail = "not-an-email"
	assert.Error(t, adapter.PublishListingSubmitted(context.Background(), l))
	assert.Empty(t, producer.routingKey, "nothing is published")
}

func TestListingEventsAdapter_PublishError(t *testing.T) {
	adapter, err := NewListingEventsAdapter(&fakePublisher{err: errors.New("closed")}, "key")
	require.NoError(t, err)
	assert.Error(t, adapter.PublishListingSubmitted(context.Background(), submittedListing()))
}

func TestNewListingEventsAdapter_Validation(t *testing.T) {
	_, err := NewListingEventsAdapter(nil, "key")
	assert.Error(t, err)
	_, err = NewListingEventsAdapter(&fakePublisher{}, "")
	assert.Error(t, err)
}

func TestListingSubmittedConsumer_MessageHandler(t *testing.T) {
	body, err := json.Marshal(toListingSubmittedDTO(submittedListing()))
	require.NoError(t, err)

	validHeaders := func() amqp.Table {
		return amqp.Table{
			constants.HeaderEventType:    constants.EventListingSubmitted,
			constants.HeaderEventVersion: constants.EventListingSubmittedVersion,
			constants.HeaderTraceID:      "trace-9",
		}
	}

	tests := []struct {
		name        string
		delivery    amqp.Delivery
		useCaseErr  error
		wantErr     bool
		wantListing int64
	}{
		{
			name:        "valid event runs matching",
			delivery:    amqp.Delivery{Headers: validHeaders(), Body: body},
			wantListing: 42,
		},
		{
			name:     "unknown event version is rejected",
			delivery: amqp.Delivery{Headers: amqp.Table{constants.HeaderEventType: constants.EventListingSubmitted, constants.HeaderEventVersion: "9.0.0"}, Body: body},
			wantErr:  true,
		},
		{
			name:     "body breaking the schema is rejected",
			delivery: amqp.Delivery{Headers: validHeaders(), Body: []byte(`{"listing_id": 0}`)},
			wantErr:  true,
		},
		{
			name:        "use case failure is retried",
			delivery:    amqp.Delivery{Headers: validHeaders(), Body: body},
			useCaseErr:  errors.New("db down"),
			wantErr:     true,
			wantListing: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeNotifyUseCase{err: tt.useCaseErr}
			adapter := &ListingSubmittedConsumerAdapter{
				useCase: uc,
				logger:  contextkeys.LoggerFromContext(context.Background()),
			}

			err := adapter.messageHandler(tt.delivery)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "trace-9", uc.traceID)
			}
			assert.Equal(t, tt.wantListing, uc.listingID)
		})
	}
}

func TestPkgLoggerBridge_ToFields(t *testing.T) {
	b := &PkgLoggerBridge{}
	fields := b.toFields("queue", "q1", 7, "attempt", "dangling")
	assert.Equal(t, port.Fields{"queue": "q1", "7": "attempt", "extra": "dangling"}, fields)
	assert.Nil(t, b.toFields())
}
